package charts

import "math"

// Ring is the geometry of a circular gauge filled to Percent
type Ring struct {
	Percent       float64
	Size          float64
	Center        float64
	Radius        float64
	Stroke        float64
	Circumference float64
	// Dash is the arc length drawn; the rest of the circumference is the gap
	Dash float64
	Gap  float64
}

// NewRing clamps ratio to [0,1]; a missing ratio renders as 0%
func NewRing(ratio *float64, size, stroke float64) Ring {
	r := 0.0
	if valid(ratio) {
		r = clamp(*ratio, 0, 1)
	}
	radius := (size - stroke) / 2
	if radius < 0 {
		radius = 0
	}
	circ := 2 * math.Pi * radius
	dash := circ * r
	return Ring{
		Percent:       r * 100,
		Size:          size,
		Center:        size / 2,
		Radius:        radius,
		Stroke:        stroke,
		Circumference: circ,
		Dash:          dash,
		Gap:           circ - dash,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
