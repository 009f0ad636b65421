package ocr

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/gardar/ocrlayout/pkg/layout"
)

// rtlScripts are the scripts written right to left.
var rtlScripts = map[string]bool{
	"Arab": true,
	"Hebr": true,
	"Syrc": true,
	"Thaa": true,
	"Nkoo": true,
	"Adlm": true,
	"Mand": true,
	"Samr": true,
}

// DirectionFor picks the reading direction for an engine language setting.
// forceRTL always wins. Otherwise the first language of a Tesseract style
// "ara+eng" list decides: RTL when its likely script is written right to left.
// Codes that cannot be parsed are treated as LTR.
func DirectionFor(lang string, forceRTL bool) layout.Direction {
	if forceRTL {
		return layout.RTL
	}
	first := strings.TrimSpace(strings.SplitN(lang, "+", 2)[0])
	if first == "" {
		return layout.LTR
	}
	// Tesseract appends variants with an underscore (chi_sim, aze_cyrl).
	first = strings.ReplaceAll(first, "_", "-")
	tag, err := language.Parse(first)
	if err != nil {
		return layout.LTR
	}
	script, conf := tag.Script()
	if conf == language.No {
		return layout.LTR
	}
	if rtlScripts[script.String()] {
		return layout.RTL
	}
	return layout.LTR
}
