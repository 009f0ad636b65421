package layout

// BBox is an axis-aligned rectangle in page coordinates.
// X0, Y0 is the top-left corner and X1, Y1 the bottom-right corner.
type BBox struct {
	X0 float64
	Y0 float64
	X1 float64
	Y1 float64
}

// NewBBox creates a bounding box from the top-left and bottom-right corners.
func NewBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Width of the box, never negative.
func (b BBox) Width() float64 {
	if b.X1 < b.X0 {
		return 0
	}
	return b.X1 - b.X0
}

// Height of the box, never negative.
func (b BBox) Height() float64 {
	if b.Y1 < b.Y0 {
		return 0
	}
	return b.Y1 - b.Y0
}

// CenterY is the vertical midpoint of the box.
func (b BBox) CenterY() float64 {
	return (b.Y0 + b.Y1) / 2
}

// Union returns the smallest box containing both b and o.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		X0: min(b.X0, o.X0),
		Y0: min(b.Y0, o.Y0),
		X1: max(b.X1, o.X1),
		Y1: max(b.Y1, o.Y1),
	}
}

// Record is a single word or line as reported by a recognition engine.
type Record struct {
	Text string
	BBox BBox
}

// Recognition is the output of an OCR engine for one page.
// Lines may be empty when the engine does not report line boxes.
type Recognition struct {
	Lines    []Record
	Words    []Record
	Language string // language the engine was configured with, if known
}

// Token is a normalized word ready for layout.
type Token struct {
	Text string
	BBox BBox
}

// LineGroup is a horizontal band of the page that becomes one output line.
type LineGroup struct {
	Text   string  // verbatim engine transcript, empty for inferred groups
	BBox   BBox    // engine line box, or the union of members for inferred groups
	Tokens []Token // members in reading order once reconstructed
}

// Metrics are page-wide measurements computed once per reconstruction.
type Metrics struct {
	PageLeft   float64 // smallest X0 over all tokens
	PageRight  float64 // largest X1 over all tokens
	LineHeight float64 // typical line height, floored by Config.MinLineHeight
}

// Direction is the reading direction used to order words inside a line.
type Direction int

const (
	// LTR orders words by ascending left edge.
	LTR Direction = iota
	// RTL orders words by descending right edge.
	RTL
)

// String returns "ltr" or "rtl", suitable for an HTML dir attribute.
func (d Direction) String() string {
	if d == RTL {
		return "rtl"
	}
	return "ltr"
}

// Result is a reconstructed page.
type Result struct {
	Text      string      // output lines joined by "\n"
	Lines     []string    // output lines, including inserted blank lines
	Groups    []LineGroup // line groups in final top-to-bottom order
	Metrics   Metrics
	Direction Direction
}
