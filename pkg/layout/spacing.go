package layout

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// OrderTokens returns a copy of tokens in reading order: ascending left edge
// for LTR, descending right edge for RTL.
func OrderTokens(tokens []Token, dir Direction) []Token {
	ordered := make([]Token, len(tokens))
	copy(ordered, tokens)
	sort.SliceStable(ordered, func(i, j int) bool {
		if dir == RTL {
			return ordered[i].BBox.X1 > ordered[j].BBox.X1
		}
		return ordered[i].BBox.X0 < ordered[j].BBox.X0
	})
	return ordered
}

// CharPitch estimates the width of one character on a line: the median of
// width/length over tokens that carry text. Without any text it falls back to
// half the first token's height. The result is at least cfg.MinCharPitch.
func CharPitch(tokens []Token, cfg Config) float64 {
	if len(tokens) == 0 {
		return cfg.MinCharPitch
	}
	widths := make([]float64, 0, len(tokens))
	for _, t := range tokens {
		n := utf8.RuneCountInString(t.Text)
		if n == 0 {
			continue
		}
		widths = append(widths, math.Max(1, t.BBox.Width()/float64(n)))
	}
	if len(widths) == 0 {
		widths = append(widths, tokens[0].BBox.Height()*0.5)
	}
	return math.Max(cfg.MinCharPitch, Median(widths))
}

// fillerCount converts a horizontal gap into a number of filler characters.
func fillerCount(gap, pitch float64, cfg Config) int {
	if gap <= 0 {
		return 0
	}
	n := int(math.Round(gap / math.Max(1, pitch)))
	if n > cfg.MaxRun {
		n = cfg.MaxRun
	}
	return n
}

// RenderLine produces the text of one line group. The line starts with the
// indent from the page's left margin, and every gap between consecutive tokens
// becomes a run of cfg.Filler proportional to the gap width. Token text is
// copied verbatim. An empty group renders as an empty line.
func RenderLine(g LineGroup, m Metrics, dir Direction, cfg Config) string {
	if len(g.Tokens) == 0 {
		return ""
	}
	tokens := OrderTokens(g.Tokens, dir)
	pitch := CharPitch(tokens, cfg)
	filler := string(cfg.Filler)

	var b strings.Builder
	b.WriteString(strings.Repeat(filler, fillerCount(tokens[0].BBox.X0-m.PageLeft, pitch, cfg)))
	for j, t := range tokens {
		if j > 0 {
			prev := tokens[j-1]
			var gap float64
			if dir == RTL {
				gap = prev.BBox.X0 - t.BBox.X1
			} else {
				gap = t.BBox.X0 - prev.BBox.X1
			}
			b.WriteString(strings.Repeat(filler, fillerCount(gap, pitch, cfg)))
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

// Expand renders groups in order and inserts blank lines between vertically
// distant neighbours: one per BlankLineRatio typical line heights of gap.
func Expand(groups []LineGroup, m Metrics, dir Direction, cfg Config) []string {
	out := make([]string, 0, len(groups))
	unit := m.LineHeight * cfg.BlankLineRatio
	for i, g := range groups {
		out = append(out, RenderLine(g, m, dir, cfg))
		if i == len(groups)-1 {
			break
		}
		gap := groups[i+1].BBox.Y0 - g.BBox.Y1
		if gap <= 0 || unit <= 0 {
			continue
		}
		for n := int(math.Floor(gap / unit)); n > 0; n-- {
			out = append(out, "")
		}
	}
	return out
}
