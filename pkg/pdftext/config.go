package pdftext

// Config holds user options for rendering text to PDF
type Config struct {
	Debug       bool    // Outline every line and print text in red
	LayerName   string  // Base name of the text layer (page number will be appended)
	PageSize    string  // fpdf page size name, e.g. "A4" or "Letter"
	Orientation string  // "P" or "L"
	Margin      float64 // Page margin in points
	LineSpacing float64 // Line advance as a multiple of the font size
	Title       string  // Document title stored in the PDF metadata
	Font        FontConfig
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		LayerName:   "Reconstructed Text", // Will be formatted as "Reconstructed Text (Page X)"
		PageSize:    "A4",
		Orientation: "P",
		Margin:      36,
		LineSpacing: 1.2,
		Font:        DefaultFont,
	}
}

// FontConfig contains font settings for text rendering
type FontConfig struct {
	Name    string  // Core font name; must be fixed pitch to keep alignment
	Style   string  // Font style ("", "B", "I", "BI")
	Size    float64 // Preferred font size; reduced when the widest line does not fit
	MinSize float64 // Smallest font size used when shrinking
}

// DefaultFont is Courier, the fixed-pitch PDF core font
var DefaultFont = FontConfig{
	Name:    "Courier",
	Style:   "",
	Size:    10,
	MinSize: 4,
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.LayerName == "" {
		c.LayerName = d.LayerName
	}
	if c.PageSize == "" {
		c.PageSize = d.PageSize
	}
	if c.Orientation == "" {
		c.Orientation = d.Orientation
	}
	if c.Margin <= 0 {
		c.Margin = d.Margin
	}
	if c.LineSpacing <= 0 {
		c.LineSpacing = d.LineSpacing
	}
	if c.Font.Name == "" {
		c.Font = d.Font
	}
	if c.Font.Size <= 0 {
		c.Font.Size = d.Font.Size
	}
	if c.Font.MinSize <= 0 || c.Font.MinSize > c.Font.Size {
		c.Font.MinSize = min(d.Font.MinSize, c.Font.Size)
	}
	return c
}
