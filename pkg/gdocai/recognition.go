package gdocai

import (
	"math"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrlayout/pkg/layout"
)

// DocumentRecognition converts every page of a Document AI response.
func DocumentRecognition(doc *documentaipb.Document) []layout.Recognition {
	pages := make([]layout.Recognition, 0, len(doc.GetPages()))
	for _, page := range doc.GetPages() {
		pages = append(pages, PageRecognition(page, doc.GetText()))
	}
	return pages
}

// PageRecognition converts a Document AI page into layout input: page lines
// become line records and page tokens become word records. Elements without
// a usable bounding polygon are skipped.
func PageRecognition(page *documentaipb.Document_Page, fullText string) layout.Recognition {
	var rec layout.Recognition
	if page == nil {
		return rec
	}
	if langs := page.GetDetectedLanguages(); len(langs) > 0 {
		rec.Language = langs[0].GetLanguageCode()
	}

	for _, line := range page.GetLines() {
		bbox, ok := layoutBBox(line.GetLayout(), page.GetDimension())
		if !ok {
			continue
		}
		rec.Lines = append(rec.Lines, layout.Record{
			Text: strings.TrimSpace(textFromLayout(line.GetLayout(), fullText)),
			BBox: bbox,
		})
	}

	for _, token := range page.GetTokens() {
		bbox, ok := layoutBBox(token.GetLayout(), page.GetDimension())
		if !ok {
			continue
		}
		rec.Words = append(rec.Words, layout.Record{
			Text: tokenText(token, fullText),
			BBox: bbox,
		})
	}

	return rec
}

// layoutBBox converts a bounding polygon to a pixel bounding box.
// Normalized vertices (0-1) are scaled by the page dimension; pixel vertices
// are used when no normalized ones are present.
func layoutBBox(l *documentaipb.Document_Page_Layout, dim *documentaipb.Document_Page_Dimension) (layout.BBox, bool) {
	poly := l.GetBoundingPoly()
	if poly == nil {
		return layout.BBox{}, false
	}

	var xs, ys []float64
	if nv := poly.GetNormalizedVertices(); len(nv) > 0 && dim != nil {
		w, h := float64(dim.GetWidth()), float64(dim.GetHeight())
		for _, v := range nv {
			xs = append(xs, math.Round(float64(v.GetX())*w))
			ys = append(ys, math.Round(float64(v.GetY())*h))
		}
	} else {
		for _, v := range poly.GetVertices() {
			xs = append(xs, float64(v.GetX()))
			ys = append(ys, float64(v.GetY()))
		}
	}
	if len(xs) == 0 {
		return layout.BBox{}, false
	}

	b := layout.NewBBox(xs[0], ys[0], xs[0], ys[0])
	for i := 1; i < len(xs); i++ {
		b = b.Union(layout.NewBBox(xs[i], ys[i], xs[i], ys[i]))
	}
	return b, true
}
