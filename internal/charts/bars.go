package charts

import "math"

// BarOptions tunes CompareBars. Cap <= 0 means auto-scale.
type BarOptions struct {
	Cap       float64
	ConvertMs bool
}

// Bar is one horizontal bar; Width is a percentage of the shared maximum
type Bar struct {
	Value *float64
	Width float64
}

// Bars is a pair of bars drawn against the same maximum
type Bars struct {
	A, B Bar
	Max  float64
}

// CompareBars scales a and b to a shared maximum: the explicit cap, or the
// larger magnitude of the two floored at 1
func CompareBars(a, b *float64, opts BarOptions) Bars {
	av, bv := convert(a, opts.ConvertMs), convert(b, opts.ConvertMs)

	scale := opts.Cap
	if scale <= 0 {
		scale = 1
		for _, v := range []*float64{av, bv} {
			if v != nil {
				scale = math.Max(scale, math.Abs(*v))
			}
		}
	}

	return Bars{
		A:   Bar{Value: av, Width: width(av, scale)},
		B:   Bar{Value: bv, Width: width(bv, scale)},
		Max: scale,
	}
}

func convert(v *float64, toMs bool) *float64 {
	if !valid(v) {
		return nil
	}
	out := *v
	if toMs {
		out = ToMs(out)
	}
	return &out
}

func width(v *float64, scale float64) float64 {
	if v == nil || scale <= 0 {
		return 0
	}
	return clamp(math.Abs(*v)/scale*100, 0, 100)
}
