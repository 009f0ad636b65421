// Package pdftext renders reconstructed page text into a PDF.
//
// Text is set in a fixed-pitch core font so that the runs of non-breaking
// spaces produced by layout reconstruction keep columns aligned. Each PDF page
// places its text on its own optional-content layer, named after Config.LayerName
// and the page number, so viewers can toggle it.
package pdftext
