package pdftext

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gardar/ocrlayout/pkg/layout"
)

func resultOf(lines ...string) layout.Result {
	return layout.Result{Text: strings.Join(lines, "\n"), Lines: lines}
}

func TestRender_PDFHeader(t *testing.T) {
	rec := layout.Recognition{Words: []layout.Record{
		{Text: "Hello", BBox: layout.NewBBox(10, 10, 60, 30)},
		{Text: "World", BBox: layout.NewBBox(210, 10, 260, 30)},
	}}
	out, err := Render(layout.Reconstruct(rec), DefaultConfig())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header: %q", out[:min(len(out), 16)])
	}
}

func TestNewDocument_PageCount(t *testing.T) {
	many := make([]string, 200)
	for i := range many {
		many[i] = fmt.Sprintf("line %d", i)
	}

	tests := []struct {
		name    string
		pages   []layout.Result
		atLeast int
		atMost  int
	}{
		{"empty", nil, 1, 1},
		{"short page", []layout.Result{resultOf("a", "", "b")}, 1, 1},
		{"one result per page", []layout.Result{resultOf("a"), resultOf("b"), resultOf("c")}, 3, 3},
		{"long page breaks", []layout.Result{resultOf(many...)}, 3, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdf, err := newDocument(tt.pages, Config{})
			if err != nil {
				t.Fatalf("newDocument failed: %v", err)
			}
			if n := pdf.PageCount(); n < tt.atLeast || n > tt.atMost {
				t.Errorf("PageCount = %d, want between %d and %d", n, tt.atLeast, tt.atMost)
			}
		})
	}
}

func TestRender_EncodingThreshold(t *testing.T) {
	arabic := resultOf("مرحبا", "بالعالم")
	if _, err := Render(arabic, DefaultConfig()); err == nil {
		t.Error("expected an encoding error for text outside ISO-8859-1")
	}

	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "plain"
	}
	lines[3] = "mixed ✓"
	if _, err := Render(resultOf(lines...), DefaultConfig()); err != nil {
		t.Errorf("one bad line in twenty should be tolerated: %v", err)
	}
}

func TestRender_RTLAndDebug(t *testing.T) {
	res := resultOf("abc" + strings.Repeat("\u00a0", 4) + "def")
	res.Direction = layout.RTL

	cfg := DefaultConfig()
	cfg.Debug = true
	out, err := Render(res, cfg)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestEncodeLines(t *testing.T) {
	out, failed := encodeLines([]string{"café", "a\u00a0b", "日本"})
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if out[0] != "caf\xe9" {
		t.Errorf("latin-1 line = %q", out[0])
	}
	if out[1] != "a\xa0b" {
		t.Errorf("NBSP line = %q", out[1])
	}
	if len(out) != 3 {
		t.Errorf("got %d lines, want 3", len(out))
	}
}

func TestFitFontSize(t *testing.T) {
	cfg := DefaultConfig().withDefaults()
	pdf := fpdf.New(cfg.Orientation, "pt", cfg.PageSize, "")
	pdf.SetFont(cfg.Font.Name, cfg.Font.Style, cfg.Font.Size)
	w := &writer{pdf: pdf, cfg: cfg}

	if got := w.fitFontSize([]string{"short"}); got != cfg.Font.Size {
		t.Errorf("short line size = %v, want %v", got, cfg.Font.Size)
	}

	// Courier is 0.6 em wide: 200 characters at 10pt need 1200pt.
	got := w.fitFontSize([]string{strings.Repeat("x", 200)})
	if got >= cfg.Font.Size || got < cfg.Font.MinSize {
		t.Errorf("wide line size = %v, want between %v and %v", got, cfg.Font.MinSize, cfg.Font.Size)
	}

	if got := w.fitFontSize([]string{strings.Repeat("x", 5000)}); got != cfg.Font.MinSize {
		t.Errorf("very wide line size = %v, want MinSize %v", got, cfg.Font.MinSize)
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{Font: FontConfig{Name: "Courier", Size: 3}}.withDefaults()
	if cfg.PageSize != "A4" || cfg.LayerName == "" || cfg.Margin != 36 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Font.MinSize != 3 {
		t.Errorf("MinSize = %v, want it capped at Size 3", cfg.Font.MinSize)
	}
}
