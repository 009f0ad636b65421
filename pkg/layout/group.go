package layout

import (
	"math"
	"sort"
)

// Measure computes the page metrics for a reconstruction.
// The typical line height is the median of the engine line heights when lines
// are present and of the token heights otherwise.
func Measure(tokens []Token, lines []Record, cfg Config) Metrics {
	var m Metrics
	if len(tokens) > 0 {
		m.PageLeft = math.Inf(1)
		m.PageRight = math.Inf(-1)
		for _, t := range tokens {
			m.PageLeft = math.Min(m.PageLeft, t.BBox.X0)
			m.PageRight = math.Max(m.PageRight, t.BBox.X1)
		}
	}

	var heights []float64
	if len(lines) > 0 {
		heights = make([]float64, 0, len(lines))
		for _, l := range lines {
			heights = append(heights, l.BBox.Height())
		}
	} else {
		heights = make([]float64, 0, len(tokens))
		for _, t := range tokens {
			heights = append(heights, t.BBox.Height())
		}
	}
	m.LineHeight = math.Max(cfg.MinLineHeight, Median(heights))
	return m
}

// AssignToLines distributes tokens over the engine-provided lines.
//
// Each token, in input order, joins the first line whose band, widened by
// BandTolerance line heights on both sides, contains the token's vertical
// center. A token outside every band joins the line with the nearest band
// midpoint. Every token ends up in exactly one group. The returned groups
// keep the order of lines; lines itself is not modified.
func AssignToLines(tokens []Token, lines []Record, m Metrics, cfg Config) []LineGroup {
	if len(lines) == 0 {
		return nil
	}
	groups := make([]LineGroup, len(lines))
	for i, l := range lines {
		groups[i] = LineGroup{Text: l.Text, BBox: l.BBox}
	}

	tol := m.LineHeight * cfg.BandTolerance
	for _, t := range tokens {
		cy := t.BBox.CenterY()
		idx := -1
		for i := range groups {
			b := groups[i].BBox
			if cy >= b.Y0-tol && cy <= b.Y1+tol {
				idx = i
				break
			}
		}
		if idx < 0 {
			idx = nearestGroup(groups, cy)
		}
		groups[idx].Tokens = append(groups[idx].Tokens, t)
	}
	return groups
}

// nearestGroup returns the index of the group whose vertical midpoint is
// closest to y. The first group wins ties.
func nearestGroup(groups []LineGroup, y float64) int {
	best := 0
	bestDist := math.Abs(y - groups[0].BBox.CenterY())
	for i := 1; i < len(groups); i++ {
		if d := math.Abs(y - groups[i].BBox.CenterY()); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// ClusterTokens infers line groups when the engine reported no lines.
//
// Tokens are visited by ascending vertical center. A token opens a new group
// when its center is further than max(MinClusterGap, ClusterRatio*LineHeight)
// from the midpoint of the open group; otherwise it joins that group and the
// group box grows to cover it. Closed groups are never revisited, so heavily
// skewed text can be split across rows.
func ClusterTokens(tokens []Token, m Metrics, cfg Config) []LineGroup {
	if len(tokens) == 0 {
		return nil
	}
	sorted := make([]Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.CenterY() < sorted[j].BBox.CenterY()
	})

	threshold := math.Max(cfg.MinClusterGap, m.LineHeight*cfg.ClusterRatio)
	var groups []LineGroup
	for _, t := range sorted {
		if n := len(groups); n > 0 {
			last := &groups[n-1]
			if math.Abs(t.BBox.CenterY()-last.BBox.CenterY()) <= threshold {
				last.Tokens = append(last.Tokens, t)
				last.BBox = last.BBox.Union(t.BBox)
				continue
			}
		}
		groups = append(groups, LineGroup{BBox: t.BBox, Tokens: []Token{t}})
	}
	return groups
}

// SortGroups orders groups top to bottom by their top edge. Groups with equal
// tops keep their relative order.
func SortGroups(groups []LineGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].BBox.Y0 < groups[j].BBox.Y0
	})
}
