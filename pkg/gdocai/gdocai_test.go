package gdocai

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/gardar/ocrlayout/pkg/layout"
	"github.com/gardar/ocrlayout/pkg/ocr"
)

func anchor(start, end int64) *documentaipb.Document_TextAnchor {
	return &documentaipb.Document_TextAnchor{
		TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{{StartIndex: start, EndIndex: end}},
	}
}

func normalized(x0, y0, x1, y1 float32) *documentaipb.BoundingPoly {
	return &documentaipb.BoundingPoly{NormalizedVertices: []*documentaipb.NormalizedVertex{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
	}}
}

// testDocument is a one-page document with the text "Hello World\n".
func testDocument() *documentaipb.Document {
	brk := &documentaipb.Document_Page_Token_DetectedBreak{
		Type: documentaipb.Document_Page_Token_DetectedBreak_SPACE,
	}
	return &documentaipb.Document{
		Text: "Hello World\n",
		Pages: []*documentaipb.Document_Page{{
			PageNumber:        1,
			Dimension:         &documentaipb.Document_Page_Dimension{Width: 1000, Height: 500},
			DetectedLanguages: []*documentaipb.Document_Page_DetectedLanguage{{LanguageCode: "en"}},
			Lines: []*documentaipb.Document_Page_Line{{
				Layout: &documentaipb.Document_Page_Layout{TextAnchor: anchor(0, 12), BoundingPoly: normalized(0, 0, 0.25, 0.04)},
			}},
			Tokens: []*documentaipb.Document_Page_Token{
				{
					Layout:        &documentaipb.Document_Page_Layout{TextAnchor: anchor(0, 6), BoundingPoly: normalized(0, 0, 0.05, 0.04)},
					DetectedBreak: brk,
				},
				{
					Layout: &documentaipb.Document_Page_Layout{TextAnchor: anchor(6, 12), BoundingPoly: normalized(0.2, 0, 0.25, 0.04)},
				},
				{
					// No bounding polygon: skipped.
					Layout: &documentaipb.Document_Page_Layout{TextAnchor: anchor(0, 5)},
				},
			},
		}},
	}
}

func TestPageRecognition(t *testing.T) {
	doc := testDocument()
	rec := PageRecognition(doc.Pages[0], doc.Text)

	if rec.Language != "en" {
		t.Errorf("expected language en, got %q", rec.Language)
	}
	if len(rec.Lines) != 1 || rec.Lines[0].Text != "Hello World" {
		t.Fatalf("unexpected lines: %+v", rec.Lines)
	}
	if rec.Lines[0].BBox != layout.NewBBox(0, 0, 250, 20) {
		t.Errorf("unexpected line box: %+v", rec.Lines[0].BBox)
	}
	if len(rec.Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(rec.Words))
	}
	if rec.Words[0].Text != "Hello" || rec.Words[1].Text != "World" {
		t.Errorf("unexpected word text: %q %q", rec.Words[0].Text, rec.Words[1].Text)
	}
	if rec.Words[1].BBox != layout.NewBBox(200, 0, 250, 20) {
		t.Errorf("unexpected word box: %+v", rec.Words[1].BBox)
	}

	res := layout.Reconstruct(rec)
	if want := "Hello" + strings.Repeat("\u00a0", 15) + "World"; res.Text != want {
		t.Errorf("expected %q, got %q", want, res.Text)
	}
}

func TestLayoutBBox_PixelVertices(t *testing.T) {
	l := &documentaipb.Document_Page_Layout{BoundingPoly: &documentaipb.BoundingPoly{
		Vertices: []*documentaipb.Vertex{{X: 30, Y: 12}, {X: 10, Y: 40}},
	}}
	b, ok := layoutBBox(l, nil)
	if !ok || b != layout.NewBBox(10, 12, 30, 40) {
		t.Errorf("unexpected box: %+v, %v", b, ok)
	}
	if _, ok := layoutBBox(&documentaipb.Document_Page_Layout{}, nil); ok {
		t.Errorf("expected no box without polygon")
	}
}

func TestDocumentRecognition(t *testing.T) {
	if got := DocumentRecognition(nil); len(got) != 0 {
		t.Errorf("expected no pages, got %d", len(got))
	}
	if got := DocumentRecognition(testDocument()); len(got) != 1 {
		t.Errorf("expected 1 page, got %d", len(got))
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestEngine_Recognize(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := &Config{ProjectID: "p", Location: "eu", ProcessorID: "x"}
	e := New(cfg, WithLogger(log))

	var gotMime string
	e.process = func(_ context.Context, _ []byte, mimeType string, _ *Config) (*documentaipb.Document, error) {
		gotMime = mimeType
		return testDocument(), nil
	}

	doc, rec, err := e.RecognizeDocument(context.Background(), ocr.Input{ID: "scan", Image: pngBytes(t)})
	if err != nil {
		t.Fatalf("RecognizeDocument() error = %v", err)
	}
	if gotMime != "image/png" {
		t.Errorf("expected image/png, got %q", gotMime)
	}
	if doc == nil || len(rec.Words) != 2 {
		t.Errorf("unexpected result: %v %+v", doc, rec)
	}
	if e.Name() != "docai" {
		t.Errorf("unexpected name %q", e.Name())
	}
}

func TestEngine_Errors(t *testing.T) {
	log, _ := test.NewNullLogger()

	e := New(&Config{ProjectID: "p"}, WithLogger(log))
	_, err := e.Recognize(context.Background(), ocr.Input{Image: pngBytes(t)})
	if stage, _ := ocr.StageOf(err); stage != ocr.StageInitialize {
		t.Errorf("expected initialize failure for incomplete config, got %v", err)
	}

	e = New(&Config{ProjectID: "p", Location: "us", ProcessorID: "x"}, WithLogger(log))
	_, err = e.Recognize(context.Background(), ocr.Input{Image: []byte("not an image")})
	if !errors.Is(err, ocr.ErrUnsupportedImage) {
		t.Errorf("expected ErrUnsupportedImage, got %v", err)
	}

	cause := errors.New("permission denied")
	e.process = func(context.Context, []byte, string, *Config) (*documentaipb.Document, error) {
		return nil, cause
	}
	_, err = e.Recognize(context.Background(), ocr.Input{Image: pngBytes(t)})
	if !errors.Is(err, cause) {
		t.Errorf("expected cause in chain, got %v", err)
	}

	e.process = func(context.Context, []byte, string, *Config) (*documentaipb.Document, error) {
		return &documentaipb.Document{}, nil
	}
	_, err = e.Recognize(context.Background(), ocr.Input{Image: pngBytes(t), Format: ocr.ImageFormatPNG})
	if stage, _ := ocr.StageOf(err); stage != ocr.StageRecognize {
		t.Errorf("expected recognize failure for empty response, got %v", err)
	}
}

func TestToJSON(t *testing.T) {
	out, err := ToJSON(&documentaipb.Document{Text: "abc"})
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if !strings.Contains(out, `"text"`) || !strings.Contains(out, "abc") {
		t.Errorf("unexpected proto JSON: %s", out)
	}

	out, err = ToJSON(map[string]int{"lines": 2})
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if !strings.Contains(out, `"lines": 2`) {
		t.Errorf("unexpected JSON: %s", out)
	}
}
