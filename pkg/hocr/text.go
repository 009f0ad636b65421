package hocr

import (
	"strings"

	"github.com/gardar/ocrlayout/pkg/layout"
)

// PageSeparator is placed between the reconstructed text of consecutive pages.
const PageSeparator = "\n\n"

// ExtractText reconstructs the layout of every page and joins the pages.
// The options are passed to layout.Reconstruct for each page.
func ExtractText(doc *HOCR, opts ...layout.Option) string {
	if doc == nil {
		return ""
	}
	pages := make([]string, 0, len(doc.Pages))
	for _, page := range doc.Pages {
		pages = append(pages, layout.Reconstruct(page.Recognition(), opts...).Text)
	}
	return strings.Join(pages, PageSeparator)
}
