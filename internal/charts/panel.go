package charts

import (
	"math"

	"video_search_web/pkg"
)

// Chart dimensions used by the stats panel
const (
	RingSize     = 64
	RingStroke   = 8
	ErrorBarSize = 160
)

// LatencyPanel compares the action and observation latencies in ms
type LatencyPanel struct {
	Bars        Bars
	ActionText  string
	ObserveText string
}

// ErrorPanel is a mean±std bar with its caption
type ErrorPanel struct {
	Bar  ErrorBar
	Text string
}

// CommandPanel is the success rate gauge
type CommandPanel struct {
	Ring Ring
	Text string
}

// Panel is everything the stats section of one card draws
type Panel struct {
	SessionID string
	Found     bool
	Latency   LatencyPanel
	Command   CommandPanel
	Tracking  ErrorPanel
	Joint     ErrorPanel
}

// BuildPanel maps a stats response onto the four mini charts. Missing
// fields become placeholders; a response without stats yields an empty,
// not-found panel.
func BuildPanel(resp *pkg.StatsResponse, f Formatter) Panel {
	if !resp.HasStats() {
		p := Panel{}
		if resp != nil {
			p.SessionID = resp.SessionID
		}
		return p
	}
	st := resp.Stats

	var action, observe pkg.MeanStd
	if st.Latency != nil {
		if st.Latency.ActionPrev != nil {
			action = *st.Latency.ActionPrev
		}
		if st.Latency.ObservationPrev != nil {
			observe = *st.Latency.ObservationPrev
		}
	}
	actionMean, actionStd := latencyMs(action)
	observeMean, observeStd := latencyMs(observe)

	var successRate *float64
	if st.Command != nil {
		successRate = st.Command.SuccessRate
	}

	var tracking, joint pkg.MeanStd
	if st.TrackingError != nil {
		tracking = *st.TrackingError
	}
	if st.JointVelocityDiff != nil {
		joint = *st.JointVelocityDiff
	}

	return Panel{
		SessionID: resp.SessionID,
		Found:     true,
		Latency: LatencyPanel{
			// already converted, so no second conversion here
			Bars:        CompareBars(actionMean, observeMean, BarOptions{}),
			ActionText:  f.MeanStd(actionMean, actionStd, "ms"),
			ObserveText: f.MeanStd(observeMean, observeStd, "ms"),
		},
		Command: CommandPanel{
			Ring: NewRing(successRate, RingSize, RingStroke),
			Text: f.Percent(successRate),
		},
		Tracking: ErrorPanel{
			Bar:  NewErrorBar(tracking.Mean, tracking.Std, 0, ErrorBarSize),
			Text: f.MeanStd(tracking.Mean, tracking.Std, ""),
		},
		Joint: ErrorPanel{
			Bar:  NewErrorBar(joint.Mean, joint.Std, 0, ErrorBarSize),
			Text: f.MeanStd(joint.Mean, joint.Std, ""),
		},
	}
}

// latencyMs converts a latency pair to ms. The std follows whatever unit
// the mean was judged to be in.
func latencyMs(ms pkg.MeanStd) (mean, std *float64) {
	if !valid(ms.Mean) {
		return nil, nil
	}
	m := *ms.Mean
	factor := 1.0
	if math.Abs(m) < msThreshold {
		factor = 1000
	}
	m *= factor
	mean = &m
	if valid(ms.Std) {
		s := *ms.Std * factor
		std = &s
	}
	return mean, std
}
