package layout

// NBSP is the filler used for synthesized spacing. It keeps structural gaps
// apart from the ordinary spaces that come with the recognized text.
const NBSP = '\u00a0'

// Config holds the tuning constants of the reconstruction.
type Config struct {
	// BandTolerance widens each engine line band above and below, as a
	// fraction of the typical line height (default: 0.3)
	BandTolerance float64

	// ClusterRatio is the distance from a group's midpoint, as a fraction of
	// the typical line height, beyond which an inferred group is closed (default: 0.6)
	ClusterRatio float64

	// MinClusterGap is the lower bound of the clustering threshold (default: 6)
	MinClusterGap float64

	// MinLineHeight is the floor of the typical line height (default: 8)
	MinLineHeight float64

	// MinCharPitch is the floor of the per-line character width (default: 3)
	MinCharPitch float64

	// MaxRun caps the filler characters emitted for a single gap (default: 120)
	MaxRun int

	// BlankLineRatio is the vertical gap, in typical line heights, worth one
	// blank output line (default: 1.1)
	BlankLineRatio float64

	// Filler is the character used for synthesized spacing (default: NBSP)
	Filler rune
}

// DefaultConfig returns the standard reconstruction settings.
func DefaultConfig() Config {
	return Config{
		BandTolerance:  0.3,
		ClusterRatio:   0.6,
		MinClusterGap:  6,
		MinLineHeight:  8,
		MinCharPitch:   3,
		MaxRun:         120,
		BlankLineRatio: 1.1,
		Filler:         NBSP,
	}
}

// Option customizes a call to Reconstruct.
type Option func(*options)

type options struct {
	dir Direction
	cfg Config
}

// WithDirection sets the reading direction. The default is LTR.
func WithDirection(dir Direction) Option {
	return func(o *options) { o.dir = dir }
}

// WithConfig replaces the default tuning constants.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

func newOptions(opts []Option) options {
	o := options{dir: LTR, cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
