package hocr

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"strconv"
	"text/template"

	"github.com/gardar/ocrlayout/pkg/layout"
)

//go:embed templates/hocr.tmpl
var templateFS embed.FS

var hocrTemplate = template.Must(template.New("hocr.tmpl").Funcs(template.FuncMap{
	"esc":  html.EscapeString,
	"bbox": bboxProp,
}).ParseFS(templateFS, "templates/hocr.tmpl"))

// NewDocument creates an empty hOCR document for reconstructed pages.
func NewDocument(lang string) *HOCR {
	return &HOCR{
		Title:    "OCR Output",
		Language: lang,
		Metadata: map[string]string{
			"ocr-system":       "ocrlayout",
			"ocr-capabilities": "ocr_page ocr_line ocrx_word",
		},
	}
}

// AddPage appends a reconstructed page. Each line group becomes one
// ocr_line holding its tokens in reading order. A zero pageBox is replaced
// by the union of all line boxes.
func (h *HOCR) AddPage(res layout.Result, pageBox layout.BBox, imageName string) {
	n := len(h.Pages) + 1
	page := Page{
		ID:         fmt.Sprintf("page_%d", n),
		PageNumber: n,
		ImageName:  imageName,
		Lang:       h.Language,
	}

	var union layout.BBox
	for i, g := range res.Groups {
		if i == 0 {
			union = g.BBox
		} else {
			union = union.Union(g.BBox)
		}
		line := Line{
			ID:    fmt.Sprintf("line_%d_%d", n, i+1),
			Class: "ocr_line",
			BBox:  boundingBoxOf(g.BBox),
		}
		for j, t := range g.Tokens {
			line.Words = append(line.Words, Word{
				ID:   fmt.Sprintf("word_%d_%d_%d", n, i+1, j+1),
				Text: t.Text,
				BBox: boundingBoxOf(t.BBox),
			})
		}
		page.Lines = append(page.Lines, line)
	}
	if pageBox == (layout.BBox{}) {
		pageBox = union
	}
	page.BBox = boundingBoxOf(pageBox)

	h.Pages = append(h.Pages, page)
	if h.Metadata == nil {
		h.Metadata = make(map[string]string)
	}
	h.Metadata["ocr-number-of-pages"] = strconv.Itoa(len(h.Pages))
}

// FromResult builds a single-page hOCR document from a reconstructed page.
func FromResult(res layout.Result, pageBox layout.BBox, lang string) *HOCR {
	doc := NewDocument(lang)
	doc.AddPage(res, pageBox, "")
	return doc
}

// GenerateHOCRDocument creates an hOCR HTML document from the HOCR struct
// Uses the embedded template to generate a complete HTML document
func GenerateHOCRDocument(doc *HOCR) (string, error) {
	var buf bytes.Buffer
	if err := hocrTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("error rendering hOCR template: %w", err)
	}
	return buf.String(), nil
}

func bboxProp(b BoundingBox) string {
	return fmt.Sprintf("bbox %d %d %d %d", int(b.X1), int(b.Y1), int(b.X2), int(b.Y2))
}
