package hocr

import (
	"errors"
	"strings"
	"testing"

	"github.com/gardar/ocrlayout/pkg/layout"
)

const nbsp = "\u00a0"

const sampleHOCR = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">
 <head>
  <title>Sample</title>
  <meta http-equiv="Content-Type" content="text/html;charset=utf-8"/>
  <meta name="ocr-system" content="tesseract 5.3.0"/>
  <meta name="ocr-capabilities" content="ocr_page ocr_carea ocr_par ocr_line ocrx_word"/>
 </head>
 <body>
  <div class="ocr_page" id="page_1" title="image &quot;scan.png&quot;; bbox 0 0 300 100; ppageno 0">
   <div class="ocr_carea" id="block_1_1" title="bbox 10 10 260 80">
    <p class="ocr_par" id="par_1_1" lang="eng" title="bbox 10 10 260 80">
     <span class="ocr_line" id="line_1_1" title="bbox 10 10 260 30; baseline 0 -5">
      <span class="ocrx_word" id="word_1_1" title="bbox 10 10 60 30; x_wconf 96">Hello</span>
      <span class="ocrx_word" id="word_1_2" title="bbox 210 10 260 30; x_wconf 91"><strong>World</strong></span>
     </span>
     <span class="ocr_header" id="line_1_2" title="bbox 10 60 40 80">
      <span class="ocrx_word" id="word_1_3" title="bbox 10 60 40 80; x_wconf 88">Bye</span>
     </span>
    </p>
   </div>
  </div>
 </body>
</html>`

func TestParseHOCR_Structure(t *testing.T) {
	doc, err := ParseHOCR([]byte(sampleHOCR))
	if err != nil {
		t.Fatalf("ParseHOCR failed: %v", err)
	}

	if doc.Title != "Sample" {
		t.Errorf("Title = %q, want Sample", doc.Title)
	}
	if doc.Language != "en" {
		t.Errorf("Language = %q, want en", doc.Language)
	}
	if got := doc.Metadata["ocr-system"]; got != "tesseract 5.3.0" {
		t.Errorf("ocr-system = %q", got)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(doc.Pages))
	}

	page := doc.Pages[0]
	if page.ImageName != "scan.png" {
		t.Errorf("ImageName = %q, want scan.png", page.ImageName)
	}
	if page.PageNumber != 1 {
		t.Errorf("PageNumber = %d, want 1", page.PageNumber)
	}
	if page.BBox != NewBoundingBox(0, 0, 300, 100) {
		t.Errorf("page BBox = %+v", page.BBox)
	}
	if len(page.Areas) != 1 || len(page.Areas[0].Paragraphs) != 1 {
		t.Fatalf("unexpected hierarchy: %+v", page)
	}

	par := page.Areas[0].Paragraphs[0]
	if par.Lang != "eng" {
		t.Errorf("paragraph Lang = %q, want eng", par.Lang)
	}
	if len(par.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(par.Lines))
	}
	if par.Lines[0].Baseline != "0 -5" {
		t.Errorf("Baseline = %q", par.Lines[0].Baseline)
	}
	if par.Lines[1].Class != "ocr_header" {
		t.Errorf("second line class = %q, want ocr_header", par.Lines[1].Class)
	}

	w := par.Lines[0].Words[1]
	if w.Text != "World" || w.Confidence != 91 {
		t.Errorf("word = %+v, want World with confidence 91", w)
	}
	if w.BBox != NewBoundingBox(210, 10, 260, 30) {
		t.Errorf("word BBox = %+v", w.BBox)
	}
}

func TestParseHOCR_NoPages(t *testing.T) {
	_, err := ParseHOCR([]byte(`<html><body><p>nothing here</p></body></html>`))
	if !errors.Is(err, ErrNoPages) {
		t.Fatalf("err = %v, want ErrNoPages", err)
	}
}

func TestParseHOCR_Latin1(t *testing.T) {
	data := []byte("<html><head><meta http-equiv=\"Content-Type\" content=\"text/html; charset=ISO-8859-1\"/></head><body>" +
		"<div class='ocr_page' title='bbox 0 0 100 100'>" +
		"<span class='ocr_line' title='bbox 0 0 40 10'><span class='ocrx_word' title='bbox 0 0 40 10'>caf\xe9</span></span>" +
		"</div></body></html>")

	doc, err := ParseHOCR(data)
	if err != nil {
		t.Fatalf("ParseHOCR failed: %v", err)
	}
	if got := doc.Pages[0].Lines[0].Words[0].Text; got != "café" {
		t.Errorf("word = %q, want café", got)
	}
}

func TestParseTitle(t *testing.T) {
	props := ParseTitle(`image "a b.png"; bbox 1 2 3 4;  x_wconf 95 ;`)
	if got := props["bbox"]; len(got) != 4 || got[0] != "1" || got[3] != "4" {
		t.Errorf("bbox = %v", got)
	}
	if got := props["x_wconf"]; len(got) != 1 || got[0] != "95" {
		t.Errorf("x_wconf = %v", got)
	}
	if len(props) != 3 {
		t.Errorf("got %d properties, want 3", len(props))
	}
}

func TestParseBoundingBoxFromTitle(t *testing.T) {
	tests := []struct {
		title string
		want  *BoundingBox
	}{
		{"bbox 10 20 30 40", &BoundingBox{10, 20, 30, 40}},
		{"x_wconf 90; bbox 1 2 3 4", &BoundingBox{1, 2, 3, 4}},
		{"bbox 1 2 3", nil},
		{"bbox 1 2 x 4", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := ParseBoundingBoxFromTitle(tt.title)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("%q: got %+v, want nil", tt.title, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("%q: got %v, want %+v", tt.title, got, *tt.want)
		}
	}
}

func TestPageRecognition(t *testing.T) {
	doc, err := ParseHOCR([]byte(sampleHOCR))
	if err != nil {
		t.Fatalf("ParseHOCR failed: %v", err)
	}
	rec := doc.Pages[0].Recognition()

	if len(rec.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(rec.Lines))
	}
	if rec.Lines[0].Text != "Hello World" {
		t.Errorf("line transcript = %q, want %q", rec.Lines[0].Text, "Hello World")
	}
	if rec.Lines[1].BBox != layout.NewBBox(10, 60, 40, 80) {
		t.Errorf("line BBox = %+v", rec.Lines[1].BBox)
	}
	if len(rec.Words) != 3 {
		t.Fatalf("got %d words, want 3", len(rec.Words))
	}
}

func TestPageRecognition_OrphanWords(t *testing.T) {
	page := Page{
		Words: []Word{{Text: "loose", BBox: NewBoundingBox(0, 0, 50, 10)}},
		Areas: []Area{{Words: []Word{{Text: "also", BBox: NewBoundingBox(0, 20, 40, 30)}}}},
	}
	rec := page.Recognition()
	if len(rec.Lines) != 0 {
		t.Errorf("got %d lines, want none", len(rec.Lines))
	}
	if len(rec.Words) != 2 || rec.Words[0].Text != "also" || rec.Words[1].Text != "loose" {
		t.Errorf("words = %+v", rec.Words)
	}
}

func TestExtractText(t *testing.T) {
	doc, err := ParseHOCR([]byte(sampleHOCR))
	if err != nil {
		t.Fatalf("ParseHOCR failed: %v", err)
	}

	want := "Hello" + strings.Repeat(nbsp, 15) + "World\n\nBye"
	if got := ExtractText(&doc); got != want {
		t.Errorf("ExtractText = %q, want %q", got, want)
	}

	doc.Pages = append(doc.Pages, doc.Pages[0])
	if got := ExtractText(&doc); got != want+PageSeparator+want {
		t.Errorf("two pages = %q", got)
	}

	if got := ExtractText(nil); got != "" {
		t.Errorf("nil document = %q, want empty", got)
	}
}

func TestGenerateHOCRDocument_RoundTrip(t *testing.T) {
	rec := layout.Recognition{Words: []layout.Record{
		{Text: "Hello", BBox: layout.NewBBox(10, 10, 60, 30)},
		{Text: "World", BBox: layout.NewBBox(210, 12, 260, 32)},
		{Text: "Bye", BBox: layout.NewBBox(10, 60, 40, 80)},
	}}
	res := layout.Reconstruct(rec)

	doc := FromResult(res, layout.BBox{}, "en")
	if got := doc.Pages[0].BBox; got != NewBoundingBox(10, 10, 260, 80) {
		t.Errorf("page BBox = %+v, want union of lines", got)
	}
	if doc.Metadata["ocr-number-of-pages"] != "1" {
		t.Errorf("ocr-number-of-pages = %q", doc.Metadata["ocr-number-of-pages"])
	}

	out, err := GenerateHOCRDocument(doc)
	if err != nil {
		t.Fatalf("GenerateHOCRDocument failed: %v", err)
	}
	if !strings.Contains(out, `class="ocr_line" id="line_1_1" title="bbox 10 10 260 32"`) {
		t.Errorf("missing first line in output:\n%s", out)
	}

	parsed, err := ParseHOCR([]byte(out))
	if err != nil {
		t.Fatalf("ParseHOCR of generated document failed: %v", err)
	}
	if got := ExtractText(&parsed); got != res.Text {
		t.Errorf("round trip = %q, want %q", got, res.Text)
	}
}

func TestGenerateHOCRDocument_EscapesText(t *testing.T) {
	res := layout.Reconstruct(layout.Recognition{Words: []layout.Record{
		{Text: "<a&b>", BBox: layout.NewBBox(0, 0, 50, 10)},
	}})
	out, err := GenerateHOCRDocument(FromResult(res, layout.NewBBox(0, 0, 100, 100), "en"))
	if err != nil {
		t.Fatalf("GenerateHOCRDocument failed: %v", err)
	}
	if strings.Contains(out, "<a&b>") {
		t.Errorf("word text was not escaped:\n%s", out)
	}

	parsed, err := ParseHOCR([]byte(out))
	if err != nil {
		t.Fatalf("ParseHOCR failed: %v", err)
	}
	if got := parsed.Pages[0].Lines[0].Words[0].Text; got != "<a&b>" {
		t.Errorf("word = %q, want <a&b>", got)
	}
}
