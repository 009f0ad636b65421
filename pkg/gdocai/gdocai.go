// Package gdocai recognizes page images with Google Document AI and converts
// the response into the word and line records used by the layout package.
//
// Document AI reports every token and line of a page with a bounding polygon
// relative to the page dimension. PageRecognition turns those into pixel
// bounding boxes with the text taken from the document's text anchors, so the
// result can be handed to layout.Reconstruct like any other engine output.
//
// Main Functions:
//
// - ProcessDocument: Sends a document to Google Document AI for processing
// - PageRecognition: Converts one Document AI page into layout input
// - New: Creates an ocr.Engine backed by Document AI
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via GOOGLE_APPLICATION_CREDENTIALS environment variable
package gdocai

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrlayout/pkg/layout"
	"github.com/gardar/ocrlayout/pkg/ocr"
)

const engineName = "docai"

// Config identifies the Document AI processor to use.
type Config struct {
	ProjectID       string `yaml:"project_id"`
	Location        string `yaml:"location"`
	ProcessorID     string `yaml:"processor_id"`
	CredentialsFile string `yaml:"credentials_file"` // defaults to GOOGLE_APPLICATION_CREDENTIALS
}

// Validate reports a missing processor setting.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("document AI config is missing")
	}
	switch {
	case c.ProjectID == "":
		return errors.New("document AI project_id is required")
	case c.Location == "":
		return errors.New("document AI location is required")
	case c.ProcessorID == "":
		return errors.New("document AI processor_id is required")
	}
	return nil
}

// Engine recognizes page images with Document AI.
type Engine struct {
	cfg     *Config
	process func(ctx context.Context, content []byte, mimeType string, cfg *Config) (*documentaipb.Document, error)
	log     logrus.FieldLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates a Document AI engine for the processor in cfg.
func New(cfg *Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg,
		process: ProcessDocument,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns "docai".
func (e *Engine) Name() string { return engineName }

// Recognize sends in.Image to Document AI and converts the first page of the
// response.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (layout.Recognition, error) {
	_, rec, err := e.RecognizeDocument(ctx, in)
	return rec, err
}

// RecognizeDocument is Recognize that also returns the raw Document AI
// response, for callers that want to keep it for debugging.
func (e *Engine) RecognizeDocument(ctx context.Context, in ocr.Input) (*documentaipb.Document, layout.Recognition, error) {
	in.Report(ocr.StageLoad, 0)
	format := in.Format
	if format == "" {
		info, err := ocr.DetectImage(in.Image)
		if err != nil {
			return nil, layout.Recognition{}, ocr.NewError(engineName, ocr.StageLoad, err)
		}
		format = info.Format
	}

	in.Report(ocr.StageInitialize, 0.1)
	if err := e.cfg.Validate(); err != nil {
		return nil, layout.Recognition{}, ocr.NewError(engineName, ocr.StageInitialize, err)
	}

	in.Report(ocr.StageRecognize, 0.2)
	doc, err := e.process(ctx, in.Image, string(format), e.cfg)
	if err != nil {
		return nil, layout.Recognition{}, ocr.NewError(engineName, ocr.StageRecognize, err)
	}
	if len(doc.GetPages()) == 0 {
		return doc, layout.Recognition{}, ocr.NewError(engineName, ocr.StageRecognize,
			fmt.Errorf("response for %q contains no pages", in.ID))
	}

	rec := PageRecognition(doc.Pages[0], doc.Text)
	if rec.Language == "" && len(in.Languages) > 0 {
		rec.Language = in.Languages[0]
	}
	e.log.WithFields(logrus.Fields{
		"engine": engineName,
		"input":  in.ID,
		"lines":  len(rec.Lines),
		"words":  len(rec.Words),
	}).Debug("recognized page")
	in.Report(ocr.StageDone, 1)
	return doc, rec, nil
}
