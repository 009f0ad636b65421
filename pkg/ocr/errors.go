package ocr

import (
	"errors"
	"fmt"
)

var (
	// ErrNoImage is returned when an Input carries no image data.
	ErrNoImage = errors.New("no image data")

	// ErrUnsupportedImage is returned when the image format cannot be decoded.
	ErrUnsupportedImage = errors.New("unsupported image format")
)

// Error is a recognition failure at a given stage of an engine run.
type Error struct {
	Engine string
	Stage  Stage
	Err    error
}

// NewError wraps err as a failure of engine at stage.
func NewError(engine string, stage Stage, err error) *Error {
	return &Error{Engine: engine, Stage: stage, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Engine, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StageOf returns the stage of the first *Error in err's chain.
func StageOf(err error) (Stage, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage, true
	}
	return "", false
}
