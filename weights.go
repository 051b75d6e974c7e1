package markit

import "math"

// ComponentWeights controls how much each color channel contributes to a
// frame's content score. DeltaEdges is reserved: the edge channel is never
// extracted today, so its delta is always zero regardless of the weight.
type ComponentWeights struct {
	DeltaHue   float64
	DeltaSat   float64
	DeltaLum   float64
	DeltaEdges float64
}

// DefaultWeights weighs hue, saturation and luminance equally.
func DefaultWeights() ComponentWeights {
	return ComponentWeights{DeltaHue: 1.0, DeltaSat: 1.0, DeltaLum: 1.0}
}

// LumaOnlyWeights scores brightness changes only. Useful for black and
// white footage or when color is unreliable.
func LumaOnlyWeights() ComponentWeights {
	return ComponentWeights{DeltaLum: 1.0}
}

// SumAbs returns the sum of absolute weight values, used to normalize the
// weighted score.
func (w ComponentWeights) SumAbs() float64 {
	return math.Abs(w.DeltaHue) + math.Abs(w.DeltaSat) + math.Abs(w.DeltaLum) + math.Abs(w.DeltaEdges)
}

// Validate rejects weight sets that would make the score undefined.
func (w ComponentWeights) Validate() error {
	if w.SumAbs() <= 0 {
		return configErrorf("all component weights cannot be zero")
	}
	return nil
}
