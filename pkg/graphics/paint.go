package graphics

import "fmt"

// BlendMode controls how source and destination colors are composited.
type BlendMode int

const (
	BlendModeSrcOver BlendMode = iota
	BlendModeSrc
	BlendModeDst
	BlendModeClear
	BlendModeMultiply
	BlendModeScreen
)

func (b BlendMode) String() string {
	switch b {
	case BlendModeSrcOver:
		return "src_over"
	case BlendModeSrc:
		return "src"
	case BlendModeDst:
		return "dst"
	case BlendModeClear:
		return "clear"
	case BlendModeMultiply:
		return "multiply"
	case BlendModeScreen:
		return "screen"
	default:
		return fmt.Sprintf("BlendMode(%d)", int(b))
	}
}

// GradientKind distinguishes the supported gradient shapes.
type GradientKind int

const (
	GradientLinear GradientKind = iota
	GradientRadial
)

// Gradient is a minimal linear/radial color ramp a Paint may carry instead of
// a flat Color.
type Gradient struct {
	Kind   GradientKind
	From   Offset
	To     Offset
	Stops  []float64
	Colors []Color
}

// Paint is the bundle every Picture drawing command carries: a fill/stroke
// color (or gradient override), an optional stroke width, and a blend mode.
// This is deliberately a small subset of the donor framework's Paint struct —
// the filter/dash/shadow machinery it also carries belongs to the concrete
// widget library and the GPU backend, both out of scope here.
type Paint struct {
	Color       Color
	Gradient    *Gradient
	StrokeWidth float64
	BlendMode   BlendMode
}

// DefaultPaint returns an opaque black fill with standard compositing.
func DefaultPaint() Paint {
	return Paint{Color: ColorBlack, StrokeWidth: 1, BlendMode: BlendModeSrcOver}
}
