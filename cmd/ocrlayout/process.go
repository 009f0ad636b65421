package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gardar/ocrlayout/internal/config"
	"github.com/gardar/ocrlayout/pkg/gdocai"
	"github.com/gardar/ocrlayout/pkg/hocr"
	"github.com/gardar/ocrlayout/pkg/layout"
	"github.com/gardar/ocrlayout/pkg/ocr"
	"github.com/gardar/ocrlayout/pkg/pdftext"
	"github.com/gardar/ocrlayout/pkg/tesseract"
)

type app struct {
	cfg          *config.Config
	log          logrus.FieldLogger
	langProvided bool // -lang was given on the command line
}

// page is one reconstructed input page.
type page struct {
	id     string
	result layout.Result
	box    layout.BBox
	raw    *documentaipb.Document // Document AI response, when kept
}

// document is the reconstructed input, in input order.
type document struct {
	lang      string
	direction layout.Direction
	pages     []page
}

func (a *app) newEngine() ocr.Engine {
	if a.cfg.Engine == config.EngineDocAI {
		return gdocai.New(&a.cfg.DocAI, gdocai.WithLogger(a.log))
	}
	opts := []tesseract.Option{tesseract.WithLogger(a.log)}
	if psm := a.cfg.Tesseract.PageSegMode; psm > 0 {
		opts = append(opts, tesseract.WithPageSegMode(gosseract.PageSegMode(psm)))
	}
	for k, v := range a.cfg.Tesseract.Variables {
		opts = append(opts, tesseract.WithVariable(k, v))
	}
	return tesseract.New(opts...)
}

func (a *app) layoutOptions(dir layout.Direction) []layout.Option {
	return []layout.Option{layout.WithDirection(dir), layout.WithConfig(a.cfg.LayoutOptions())}
}

// recognizeImages runs the configured engine over the images, at most
// cfg.Workers at a time, and reconstructs each page. The first failure
// cancels the remaining work.
func (a *app) recognizeImages(ctx context.Context, paths []string, keepRaw bool) (*document, error) {
	if len(paths) == 0 {
		return nil, errors.New("no image files specified")
	}
	engine := a.newEngine()
	doc := &document{
		lang:      a.cfg.Language,
		direction: ocr.DirectionFor(a.cfg.Language, a.cfg.RTL),
		pages:     make([]page, len(paths)),
	}
	opts := a.layoutOptions(doc.direction)
	langs := splitList(a.cfg.Language, "+")

	a.log.WithFields(logrus.Fields{
		"engine":  engine.Name(),
		"images":  len(paths),
		"workers": a.cfg.Workers,
	}).Info("Processing images")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, path := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read image file: %w", err)
			}
			info, err := ocr.DetectImage(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			in := ocr.Input{
				ID:        path,
				Image:     data,
				Format:    info.Format,
				Languages: langs,
				Progress:  a.progress(path),
			}

			var (
				raw *documentaipb.Document
				rec layout.Recognition
			)
			if docai, ok := engine.(*gdocai.Engine); ok && keepRaw {
				raw, rec, err = docai.RecognizeDocument(ctx, in)
			} else {
				rec, err = engine.Recognize(ctx, in)
			}
			if err != nil {
				return fmt.Errorf("failed to recognize %s: %w", path, err)
			}

			doc.pages[i] = page{
				id:     path,
				result: layout.Reconstruct(rec, opts...),
				box:    layout.NewBBox(0, 0, float64(info.Width), float64(info.Height)),
				raw:    raw,
			}
			a.log.WithFields(logrus.Fields{
				"image": path,
				"lines": len(doc.pages[i].result.Lines),
				"words": len(rec.Words),
			}).Info("Page reconstructed")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return doc, nil
}

// reconstructHOCR rebuilds the layout of every page of an hOCR file. The
// document language decides the direction unless -lang was given.
func (a *app) reconstructHOCR(path string) (*document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hOCR file: %w", err)
	}
	parsed, err := hocr.ParseHOCR(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR file %s: %w", path, err)
	}

	lang := a.cfg.Language
	if !a.langProvided && parsed.Language != "" {
		lang = parsed.Language
	}
	doc := &document{lang: lang, direction: ocr.DirectionFor(lang, a.cfg.RTL)}
	opts := a.layoutOptions(doc.direction)

	for _, p := range parsed.Pages {
		id := p.ImageName
		if id == "" {
			id = p.ID
		}
		doc.pages = append(doc.pages, page{
			id:     id,
			result: layout.Reconstruct(p.Recognition(), opts...),
			box:    p.BBox.Box(),
		})
	}
	a.log.WithFields(logrus.Fields{"file": path, "pages": len(doc.pages)}).Info("Parsed hOCR input")
	return doc, nil
}

func (a *app) progress(id string) ocr.ProgressFunc {
	return func(p ocr.Progress) {
		a.log.WithFields(logrus.Fields{
			"image":    id,
			"stage":    p.Stage,
			"progress": fmt.Sprintf("%.0f%%", p.Fraction*100),
		}).Debug("OCR progress")
	}
}

// Text joins the reconstructed pages.
func (d *document) Text() string {
	texts := make([]string, 0, len(d.pages))
	for _, p := range d.pages {
		texts = append(texts, p.result.Text)
	}
	return strings.Join(texts, hocr.PageSeparator)
}

func (d *document) writeText(path string) error {
	return os.WriteFile(path, []byte(d.Text()), 0644)
}

func (d *document) writeHOCR(path string) error {
	h := hocr.NewDocument(d.lang)
	for _, p := range d.pages {
		h.AddPage(p.result, p.box, filepath.Base(p.id))
	}
	out, err := hocr.GenerateHOCRDocument(h)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(out), 0644)
}

func (d *document) writePDF(path string, cfg pdftext.Config) error {
	results := make([]layout.Result, 0, len(d.pages))
	for _, p := range d.pages {
		results = append(results, p.result)
	}
	out, err := pdftext.RenderPages(results, cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}

// writeAPIResponses saves the Document AI responses. With several pages the
// page number is inserted before the file extension.
func (d *document) writeAPIResponses(path string) error {
	var raws []*documentaipb.Document
	for _, p := range d.pages {
		if p.raw != nil {
			raws = append(raws, p.raw)
		}
	}
	if len(raws) == 0 {
		return errors.New("raw API response is only available with the docai engine")
	}
	for i, raw := range raws {
		apiJSON, err := gdocai.ToJSON(raw)
		if err != nil {
			return fmt.Errorf("failed to convert API response to JSON: %w", err)
		}
		target := path
		if len(raws) > 1 {
			target = indexedPath(path, i+1)
		}
		if err := os.WriteFile(target, []byte(apiJSON), 0644); err != nil {
			return err
		}
	}
	return nil
}

// indexedPath turns "out.json" into "out.2.json".
func indexedPath(path string, n int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s.%d%s", strings.TrimSuffix(path, ext), n, ext)
}

func splitPaths(list string) []string {
	return splitList(list, ",")
}

// splitList splits and trims a separated list, dropping empty items.
func splitList(list, sep string) []string {
	var out []string
	for _, item := range strings.Split(list, sep) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
