package charts

import (
	"math"
	"testing"

	"video_search_web/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMs(t *testing.T) {
	assert.Equal(t, 250.0, ToMs(0.25))
	assert.Equal(t, 250.0, ToMs(250))
	assert.Equal(t, 4990.0, ToMs(4.99))
	assert.Equal(t, 5.0, ToMs(5))
	assert.Equal(t, -250.0, ToMs(-0.25))
	assert.Equal(t, 0.0, ToMs(0))
}

func TestRing(t *testing.T) {
	r := NewRing(pkg.Float(0.73), 64, 8)
	assert.InDelta(t, 73, r.Percent, 1e-9)
	assert.InDelta(t, 28, r.Radius, 1e-9)
	assert.InDelta(t, 2*math.Pi*28, r.Circumference, 1e-9)
	assert.InDelta(t, r.Circumference*0.73, r.Dash, 1e-9)
	assert.InDelta(t, r.Circumference, r.Dash+r.Gap, 1e-9)

	assert.Equal(t, 0.0, NewRing(nil, 64, 8).Percent)
	assert.Equal(t, 0.0, NewRing(pkg.Float(math.NaN()), 64, 8).Percent)
	assert.Equal(t, 100.0, NewRing(pkg.Float(1.7), 64, 8).Percent)
	assert.Equal(t, 0.0, NewRing(pkg.Float(-0.2), 64, 8).Percent)
}

func TestCompareBars(t *testing.T) {
	b := CompareBars(pkg.Float(100), pkg.Float(50), BarOptions{Cap: 100})
	assert.InDelta(t, 100, b.A.Width, 1e-9)
	assert.InDelta(t, 50, b.B.Width, 1e-9)
	assert.Equal(t, 100.0, b.Max)
}

func TestCompareBars_AutoScaleAndConversion(t *testing.T) {
	// 0.2s and 40ms end up on the same millisecond scale
	b := CompareBars(pkg.Float(0.2), pkg.Float(40), BarOptions{ConvertMs: true})
	assert.Equal(t, 200.0, b.Max)
	require.NotNil(t, b.A.Value)
	assert.Equal(t, 200.0, *b.A.Value)
	assert.InDelta(t, 100, b.A.Width, 1e-9)
	assert.InDelta(t, 20, b.B.Width, 1e-9)
}

func TestCompareBars_FloorAndMissing(t *testing.T) {
	b := CompareBars(pkg.Float(0.5), nil, BarOptions{})
	assert.Equal(t, 1.0, b.Max)
	assert.InDelta(t, 50, b.A.Width, 1e-9)
	assert.Nil(t, b.B.Value)
	assert.Equal(t, 0.0, b.B.Width)

	b = CompareBars(pkg.Float(300), pkg.Float(-150), BarOptions{Cap: 200})
	assert.Equal(t, 100.0, b.A.Width)
	assert.InDelta(t, 75, b.B.Width, 1e-9)
}

func TestErrorBar(t *testing.T) {
	e := NewErrorBar(pkg.Float(2), pkg.Float(1), 5, 200)
	assert.False(t, e.Empty)
	assert.Equal(t, 100.0, e.Mid)
	assert.Greater(t, e.Point, e.Mid)
	assert.InDelta(t, 140, e.Point, 1e-9)
	assert.InDelta(t, 120, e.Lo, 1e-9)
	assert.InDelta(t, 160, e.Hi, 1e-9)
	assert.Greater(t, e.Span(), 0.0)
}

func TestErrorBar_AutoCap(t *testing.T) {
	e := NewErrorBar(pkg.Float(-1), pkg.Float(0.5), 0, 100)
	assert.InDelta(t, 1.5, e.Cap, 1e-9)
	assert.InDelta(t, 0, e.Lo, 1e-9)
	assert.Less(t, e.Point, e.Mid)

	// a zero interval does not divide by zero
	z := NewErrorBar(pkg.Float(0), pkg.Float(0), 0, 100)
	assert.InDelta(t, minScale, z.Cap, 1e-12)
	assert.Equal(t, 50.0, z.Point)
}

func TestErrorBar_MissingMean(t *testing.T) {
	e := NewErrorBar(nil, pkg.Float(1), 0, 100)
	assert.True(t, e.Empty)
	assert.Equal(t, 0.0, e.Span())

	// missing std collapses to the point
	p := NewErrorBar(pkg.Float(1), nil, 2, 100)
	assert.Equal(t, p.Lo, p.Hi)
	assert.InDelta(t, 75, p.Point, 1e-9)
}

func TestFormatter(t *testing.T) {
	f := NewFormatter("ko-KR", 2)
	assert.Equal(t, "3.14", f.Number(pkg.Float(3.14159)))
	assert.Equal(t, "1,234.57", f.Number(pkg.Float(1234.5678)))
	assert.Equal(t, "12", f.NumberDigits(pkg.Float(12.25), 0))
	assert.Equal(t, "73%", f.Percent(pkg.Float(0.73)))
	assert.Equal(t, "2 ± 1", f.MeanStd(pkg.Float(2), pkg.Float(1), ""))
	assert.Equal(t, "31 ms", f.MeanStd(pkg.Float(31), nil, "ms"))

	for _, v := range []*float64{nil, pkg.Float(math.NaN()), pkg.Float(math.Inf(1))} {
		assert.Equal(t, Placeholder, f.Number(v))
		assert.Equal(t, Placeholder, f.Percent(v))
		assert.Equal(t, Placeholder, f.MeanStd(v, pkg.Float(1), "ms"))
	}
}

func TestFormatter_UnknownLocale(t *testing.T) {
	f := NewFormatter("not a locale!!", -3)
	assert.Equal(t, "4", f.Number(pkg.Float(4.4)))
}

func TestBuildPanel_Full(t *testing.T) {
	resp := &pkg.StatsResponse{
		SessionID: "s1",
		Found:     true,
		Stats: &pkg.StatsBlob{
			Latency: &pkg.Latency{
				ActionPrev:      &pkg.MeanStd{Mean: pkg.Float(0.1), Std: pkg.Float(0.02)},
				ObservationPrev: &pkg.MeanStd{Mean: pkg.Float(50), Std: pkg.Float(5)},
			},
			Command:       &pkg.Command{SuccessRate: pkg.Float(0.73)},
			TrackingError: &pkg.MeanStd{Mean: pkg.Float(2), Std: pkg.Float(1)},
		},
	}

	p := BuildPanel(resp, NewFormatter("ko-KR", 1))
	assert.True(t, p.Found)
	assert.Equal(t, "s1", p.SessionID)

	assert.InDelta(t, 100, p.Latency.Bars.Max, 1e-9)
	assert.InDelta(t, 100, p.Latency.Bars.A.Width, 1e-9)
	assert.InDelta(t, 50, p.Latency.Bars.B.Width, 1e-9)
	assert.Equal(t, "100 ± 20 ms", p.Latency.ActionText)
	assert.Equal(t, "50 ± 5 ms", p.Latency.ObserveText)

	assert.InDelta(t, 73, p.Command.Ring.Percent, 1e-9)
	assert.Equal(t, "73%", p.Command.Text)

	assert.Greater(t, p.Tracking.Bar.Point, p.Tracking.Bar.Mid)
	assert.True(t, p.Joint.Bar.Empty)
	assert.Equal(t, Placeholder, p.Joint.Text)
}

func TestBuildPanel_NotFound(t *testing.T) {
	p := BuildPanel(&pkg.StatsResponse{SessionID: "s404", Found: false}, NewFormatter("ko-KR", 2))
	assert.False(t, p.Found)
	assert.Equal(t, "s404", p.SessionID)

	p = BuildPanel(nil, NewFormatter("ko-KR", 2))
	assert.False(t, p.Found)
}

func TestBuildPanel_EmptyBlob(t *testing.T) {
	p := BuildPanel(&pkg.StatsResponse{SessionID: "s1", Found: true, Stats: &pkg.StatsBlob{}}, NewFormatter("ko-KR", 2))
	assert.True(t, p.Found)
	assert.Equal(t, Placeholder, p.Latency.ActionText)
	assert.Equal(t, 0.0, p.Command.Ring.Percent)
	assert.Equal(t, Placeholder, p.Command.Text)
	assert.True(t, p.Tracking.Bar.Empty)
}
