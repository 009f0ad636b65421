// Package layout rebuilds plain text from recognized words while keeping the
// visual arrangement of the source page.
//
// The input is the word-level (and optionally line-level) output of an OCR
// engine, each record carrying a bounding box. Reconstruct groups the words into
// rows, orders them in reading direction, and pads the gaps between them with
// non-breaking spaces so that columns, indents and blank lines of the original
// image survive in a monospace rendering.
//
// Pipeline:
//
// - NormalizeTokens: raw word records to Tokens
// - AssignToLines / ClusterTokens: rows from engine line boxes, or inferred from y-clustering
// - RenderLine: reading order and proportional whitespace inside a row
// - Expand: blank lines for large vertical gaps between rows
//
// Every call computes its own page Metrics; the package keeps no state and is
// safe for concurrent use.
package layout
