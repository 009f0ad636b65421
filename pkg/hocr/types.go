package hocr

import "github.com/gardar/ocrlayout/pkg/layout"

// HOCR represents the entire hOCR document structure
type HOCR struct {
	Title       string            // Document title
	Description string            // Document description
	Language    string            // Document language
	Metadata    map[string]string // ocr-system, ocr-capabilities, ...
	Pages       []Page
}

// Page is one page of recognized text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID         string
	Title      string // Original title attribute
	PageNumber int
	ImageName  string
	Lang       string
	BBox       BoundingBox
	Areas      []Area      // Content areas (columns)
	Paragraphs []Paragraph // Paragraphs directly under page
	Lines      []Line      // Lines directly under page
	Words      []Word      // Words outside any line
}

// Area represents a content area (column or region)
// Corresponds to hOCR element with class: 'ocr_carea'
type Area struct {
	ID         string
	Lang       string
	BBox       BoundingBox
	Paragraphs []Paragraph
	Lines      []Line // Lines directly under area
	Words      []Word // Words directly under area (no line parent)
}

// Paragraph represents a paragraph within an area or page
// Corresponds to hOCR element with class: 'ocr_par'
type Paragraph struct {
	ID    string
	Lang  string
	BBox  BoundingBox
	Lines []Line
	Words []Word // Words directly under paragraph (no line parent)
}

// Line represents a line of text
// Corresponds to hOCR element with class 'ocr_line', or one of the line-like
// classes Tesseract emits: 'ocr_header', 'ocr_caption', 'ocr_textfloat'
type Line struct {
	ID       string
	Class    string
	Lang     string
	BBox     BoundingBox
	Baseline string
	Words    []Word
}

// Word is a recognized word with bounding box
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string
	Text       string
	BBox       BoundingBox
	Confidence float64 // x_wconf (0-100)
	Lang       string
}

// BoundingBox stores an hOCR 'bbox' property: x1, y1 is the top-left
// corner and x2, y2 the bottom-right corner, in image pixels.
type BoundingBox struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// NewBoundingBox creates a bounding box from coordinates
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Box converts the hOCR box into layout coordinates.
func (b BoundingBox) Box() layout.BBox {
	return layout.NewBBox(b.X1, b.Y1, b.X2, b.Y2)
}

// boundingBoxOf converts a layout box into an hOCR box.
func boundingBoxOf(b layout.BBox) BoundingBox {
	return NewBoundingBox(b.X0, b.Y0, b.X1, b.Y1)
}
