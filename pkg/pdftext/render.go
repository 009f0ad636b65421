package pdftext

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/ocrlayout/pkg/layout"
)

// Render produces a PDF holding the text of one reconstructed page. Lines that
// do not fit on a PDF page continue on the next one.
func Render(res layout.Result, cfg Config) ([]byte, error) {
	return RenderPages([]layout.Result{res}, cfg)
}

// RenderPages renders several reconstructed pages; every result starts on a
// new PDF page.
func RenderPages(pages []layout.Result, cfg Config) ([]byte, error) {
	pdf, err := newDocument(pages, cfg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func newDocument(pages []layout.Result, cfg Config) (*fpdf.Fpdf, error) {
	cfg = cfg.withDefaults()

	pdf := fpdf.New(cfg.Orientation, "pt", cfg.PageSize, "")
	pdf.SetMargins(cfg.Margin, cfg.Margin, cfg.Margin)
	pdf.SetAutoPageBreak(false, cfg.Margin)
	pdf.SetCreator("ocrlayout", true)
	if cfg.Title != "" {
		pdf.SetTitle(cfg.Title, true)
	}

	w := &writer{pdf: pdf, cfg: cfg, size: cfg.Font.Size}
	for _, res := range pages {
		if err := w.page(res); err != nil {
			return nil, err
		}
	}
	if pdf.PageCount() == 0 {
		w.newPage()
		w.endPage()
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to build PDF: %w", err)
	}
	return pdf, nil
}

// writer tracks the cursor while lines are laid out across PDF pages.
type writer struct {
	pdf     *fpdf.Fpdf
	cfg     Config
	size    float64
	y       float64
	inLayer bool
}

// page renders one reconstructed page, starting on a fresh PDF page.
func (w *writer) page(res layout.Result) error {
	lines, failed := encodeLines(res.Lines)

	w.pdf.SetFont(w.cfg.Font.Name, w.cfg.Font.Style, w.cfg.Font.Size)
	w.size = w.fitFontSize(lines)

	w.newPage()
	for _, l := range lines {
		w.line(l, res.Direction)
	}
	w.endPage()

	// Report encoding errors if more than a threshold
	if n := len(lines); n > 0 && failed > 0 && failed > n/10 {
		return fmt.Errorf("character encoding issues in %d of %d lines", failed, n)
	}
	return nil
}

// fitFontSize shrinks the font until the widest line fits between the margins.
func (w *writer) fitFontSize(lines []string) float64 {
	pageW, _ := w.pdf.GetPageSize()
	avail := pageW - 2*w.cfg.Margin

	widest := 0.0
	for _, l := range lines {
		widest = max(widest, w.pdf.GetStringWidth(l))
	}
	size := w.cfg.Font.Size
	if widest > avail && widest > 0 {
		size = max(w.cfg.Font.MinSize, size*avail/widest)
	}
	return size
}

func (w *writer) newPage() {
	w.endPage()
	w.pdf.AddPage()

	layer := w.pdf.AddLayer(fmt.Sprintf("%s (Page %d)", w.cfg.LayerName, w.pdf.PageNo()), true)
	w.pdf.BeginLayer(layer)
	w.inLayer = true

	w.pdf.SetFont(w.cfg.Font.Name, w.cfg.Font.Style, w.size)
	if w.cfg.Debug {
		w.pdf.SetTextColor(255, 0, 0) // highlight text in red
		w.pdf.SetDrawColor(255, 0, 0)
	} else {
		w.pdf.SetTextColor(0, 0, 0)
	}
	w.y = w.cfg.Margin
}

func (w *writer) endPage() {
	if w.inLayer {
		w.pdf.EndLayer()
		w.inLayer = false
	}
}

// line writes one output line at the cursor, breaking the page first when the
// line would cross the bottom margin. Blank lines only advance the cursor.
func (w *writer) line(text string, dir layout.Direction) {
	advance := w.size * w.cfg.LineSpacing
	_, pageH := w.pdf.GetPageSize()
	if w.y+advance > pageH-w.cfg.Margin {
		w.newPage()
	}

	if text != "" {
		width := w.pdf.GetStringWidth(text)
		x := w.cfg.Margin
		if dir == layout.RTL {
			pageW, _ := w.pdf.GetPageSize()
			x = pageW - w.cfg.Margin - width
		}
		w.pdf.Text(x, w.y+w.size, text)

		if w.cfg.Debug {
			w.pdf.Rect(x, w.y, width, advance, "D")
		}
	}
	w.y += advance
}

// encodeLines converts lines to ISO-8859-1, the encoding of the core fonts.
// Characters outside it are replaced and the line is counted as failed.
func encodeLines(lines []string) ([]string, int) {
	strict := charmap.ISO8859_1.NewEncoder()
	lossy := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())

	out := make([]string, 0, len(lines))
	failed := 0
	for _, l := range lines {
		if s, err := strict.String(l); err == nil {
			out = append(out, s)
			continue
		}
		failed++
		s, _ := lossy.String(l)
		out = append(out, s)
	}
	return out, failed
}
