// Package ocr defines the contract between recognition engines and the layout
// reconstructor.
//
// An Engine turns one page image into a layout.Recognition: the line and word
// records, each with a bounding box, that layout.Reconstruct consumes. Engines
// report their progress through an optional callback and wrap every failure in
// an *Error naming the stage that failed, so callers never reach reconstruction
// with a half-finished result.
//
// Implementations live in sibling packages:
//
// - tesseract: local recognition through gosseract
// - gdocai: Google Document AI
package ocr

import (
	"context"

	"github.com/gardar/ocrlayout/pkg/layout"
)

// Engine recognizes text on a single page image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (layout.Recognition, error)
}

// Input is one page image submitted for recognition.
type Input struct {
	ID        string       // caller identifier, echoed in logs and errors
	Image     []byte       // encoded image
	Format    ImageFormat  // content type, detected from Image when empty
	Languages []string     // engine language codes, e.g. "eng", "ara"
	Progress  ProgressFunc // optional
}

// Stage is a step of a recognition run.
type Stage string

const (
	StageLoad       Stage = "load"
	StageInitialize Stage = "initialize"
	StageRecognize  Stage = "recognize"
	StageDone       Stage = "done"
)

// Progress is reported when an engine enters a stage.
type Progress struct {
	Stage    Stage
	Fraction float64 // 0..1 over the whole run
}

// ProgressFunc receives progress updates. It is called on the goroutine that
// runs Recognize.
type ProgressFunc func(Progress)

// Report sends a progress update if in has a callback.
func (in Input) Report(stage Stage, fraction float64) {
	if in.Progress != nil {
		in.Progress(Progress{Stage: stage, Fraction: fraction})
	}
}
