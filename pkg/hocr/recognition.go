package hocr

import (
	"strings"

	"github.com/gardar/ocrlayout/pkg/layout"
)

// Recognition flattens the page into the line and word records expected by
// layout.Reconstruct. Lines are collected from areas, paragraphs and the page
// itself in document order; a line's transcript is its words joined by single
// spaces. Words found outside any line are still reported as words.
func (p Page) Recognition() layout.Recognition {
	rec := layout.Recognition{Language: p.Lang}

	addLines := func(lines []Line) {
		for _, l := range lines {
			texts := make([]string, 0, len(l.Words))
			for _, w := range l.Words {
				texts = append(texts, w.Text)
			}
			rec.Lines = append(rec.Lines, layout.Record{
				Text: strings.Join(texts, " "),
				BBox: l.BBox.Box(),
			})
			addWords(&rec, l.Words)
		}
	}

	for _, a := range p.Areas {
		for _, par := range a.Paragraphs {
			addLines(par.Lines)
			addWords(&rec, par.Words)
		}
		addLines(a.Lines)
		addWords(&rec, a.Words)
	}
	for _, par := range p.Paragraphs {
		addLines(par.Lines)
		addWords(&rec, par.Words)
	}
	addLines(p.Lines)
	addWords(&rec, p.Words)

	return rec
}

func addWords(rec *layout.Recognition, words []Word) {
	for _, w := range words {
		rec.Words = append(rec.Words, layout.Record{Text: w.Text, BBox: w.BBox.Box()})
	}
}
