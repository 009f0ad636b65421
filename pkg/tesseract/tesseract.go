// Package tesseract implements ocr.Engine with the Tesseract OCR engine via
// gosseract. It requires Tesseract and Leptonica to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev libleptonica-dev
//
// Words come from the word-level bounding boxes and lines from the text-line
// level, which is the input layout.Reconstruct expects.
package tesseract

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrlayout/pkg/layout"
	"github.com/gardar/ocrlayout/pkg/ocr"
)

const engineName = "tesseract"

// DefaultLanguage is used when an Input names no language.
const DefaultLanguage = "eng"

// client is the subset of *gosseract.Client the engine uses.
type client interface {
	Close() error
	SetImageFromBytes(data []byte) error
	SetLanguage(langs ...string) error
	SetVariable(key gosseract.SettableVariable, value string) error
	SetPageSegMode(mode gosseract.PageSegMode) error
	GetBoundingBoxes(level gosseract.PageIteratorLevel) ([]gosseract.BoundingBox, error)
}

// Engine recognizes page images with Tesseract. A new gosseract client is
// created for every call, so one Engine may serve concurrent callers.
type Engine struct {
	newClient func() client
	psm       *gosseract.PageSegMode
	variables map[gosseract.SettableVariable]string
	log       logrus.FieldLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithPageSegMode sets the page segmentation mode.
func WithPageSegMode(mode gosseract.PageSegMode) Option {
	return func(e *Engine) { e.psm = &mode }
}

// WithVariable sets a Tesseract variable for every recognition.
func WithVariable(key, value string) Option {
	return func(e *Engine) { e.variables[gosseract.SettableVariable(key)] = value }
}

// WithLogger sets the logger used for debug output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates a Tesseract engine. Inter-word spaces are preserved by default
// so that multi-space runs inside a recognized word survive.
func New(opts ...Option) *Engine {
	e := &Engine{
		newClient: func() client { return gosseract.NewClient() },
		variables: map[gosseract.SettableVariable]string{
			"preserve_interword_spaces": "1",
		},
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns "tesseract".
func (e *Engine) Name() string { return engineName }

// Recognize runs Tesseract on in.Image and returns its words and lines.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (layout.Recognition, error) {
	if len(in.Image) == 0 {
		return layout.Recognition{}, ocr.NewError(engineName, ocr.StageLoad, ocr.ErrNoImage)
	}
	langs := in.Languages
	if len(langs) == 0 {
		langs = []string{DefaultLanguage}
	}
	log := e.log.WithFields(logrus.Fields{"engine": engineName, "input": in.ID})

	in.Report(ocr.StageLoad, 0)
	c := e.newClient()
	defer c.Close()
	if err := c.SetImageFromBytes(in.Image); err != nil {
		return layout.Recognition{}, ocr.NewError(engineName, ocr.StageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return layout.Recognition{}, ocr.NewError(engineName, ocr.StageLoad, err)
	}

	in.Report(ocr.StageInitialize, 0.25)
	if err := c.SetLanguage(langs...); err != nil {
		return layout.Recognition{}, ocr.NewError(engineName, ocr.StageInitialize, err)
	}
	if e.psm != nil {
		if err := c.SetPageSegMode(*e.psm); err != nil {
			return layout.Recognition{}, ocr.NewError(engineName, ocr.StageInitialize, err)
		}
	}
	for k, v := range e.variables {
		if err := c.SetVariable(k, v); err != nil {
			return layout.Recognition{}, ocr.NewError(engineName, ocr.StageInitialize, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return layout.Recognition{}, ocr.NewError(engineName, ocr.StageInitialize, err)
	}

	in.Report(ocr.StageRecognize, 0.5)
	lines, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return layout.Recognition{}, ocr.NewError(engineName, ocr.StageRecognize, err)
	}
	words, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return layout.Recognition{}, ocr.NewError(engineName, ocr.StageRecognize, err)
	}

	rec := layout.Recognition{
		Lines:    toRecords(lines),
		Words:    toRecords(words),
		Language: strings.Join(langs, "+"),
	}
	log.WithFields(logrus.Fields{"lines": len(rec.Lines), "words": len(rec.Words)}).Debug("recognized page")
	in.Report(ocr.StageDone, 1)
	return rec, nil
}

// toRecords converts gosseract boxes into layout records. Line-level boxes
// carry a trailing newline in their text, which is trimmed.
func toRecords(boxes []gosseract.BoundingBox) []layout.Record {
	if len(boxes) == 0 {
		return nil
	}
	records := make([]layout.Record, 0, len(boxes))
	for _, b := range boxes {
		records = append(records, layout.Record{
			Text: strings.TrimRight(b.Word, "\r\n"),
			BBox: layout.NewBBox(
				float64(b.Box.Min.X), float64(b.Box.Min.Y),
				float64(b.Box.Max.X), float64(b.Box.Max.Y),
			),
		})
	}
	return records
}
