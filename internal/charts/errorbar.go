package charts

import "math"

// minScale keeps the auto cap away from zero
const minScale = 1e-6

// ErrorBar is a mean±std segment on a linear scale centred at zero. All
// positions are x coordinates in [0, Width].
type ErrorBar struct {
	Width float64
	Cap   float64
	Mid   float64
	Lo    float64
	Hi    float64
	Point float64
	Empty bool
}

// Span is the drawn length of the [mean-std, mean+std] segment
func (e ErrorBar) Span() float64 {
	return e.Hi - e.Lo
}

// NewErrorBar plots [mean-std, mean+std] and mean. limit <= 0 auto-scales
// to the larger of |mean|+std and the interval endpoints.
func NewErrorBar(mean, std *float64, limit, width float64) ErrorBar {
	e := ErrorBar{Width: width, Mid: width / 2}
	if !valid(mean) {
		e.Empty = true
		e.Lo, e.Hi, e.Point = e.Mid, e.Mid, e.Mid
		return e
	}

	m := *mean
	s := 0.0
	if valid(std) {
		s = math.Abs(*std)
	}
	lo, hi := m-s, m+s

	if limit <= 0 {
		limit = math.Max(math.Abs(m)+s, math.Max(math.Abs(lo), math.Abs(hi)))
	}
	limit = math.Max(limit, minScale)
	e.Cap = limit

	x := func(v float64) float64 {
		return clamp(e.Mid+v/limit*e.Mid, 0, width)
	}
	e.Lo, e.Hi, e.Point = x(lo), x(hi), x(m)
	return e
}
