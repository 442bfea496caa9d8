// Package charts turns stats numbers into the proportions the mini charts
// draw. Nothing here fetches data or keeps state.
package charts

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is rendered for absent or NaN values
const Placeholder = "-"

// msThreshold separates seconds from milliseconds: raw magnitudes below it
// are taken as seconds. A heuristic, not a unit detector.
const msThreshold = 5

// ToMs converts a latency to milliseconds when it looks like seconds
func ToMs(v float64) float64 {
	if math.Abs(v) < msThreshold {
		return v * 1000
	}
	return v
}

// valid reports whether v is present and a real number
func valid(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// Formatter renders numbers for a locale with a fraction digit cap
type Formatter struct {
	printer *message.Printer
	digits  int
}

// NewFormatter builds a formatter for a BCP 47 locale such as "ko-KR".
// Unknown locales fall back to the root locale.
func NewFormatter(locale string, maxFractionDigits int) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	if maxFractionDigits < 0 {
		maxFractionDigits = 0
	}
	return Formatter{printer: message.NewPrinter(tag), digits: maxFractionDigits}
}

// Number formats v with the configured fraction digits
func (f Formatter) Number(v *float64) string {
	return f.NumberDigits(v, f.digits)
}

// NumberDigits formats v with at most digits fraction digits
func (f Formatter) NumberDigits(v *float64, digits int) string {
	if !valid(v) {
		return Placeholder
	}
	return f.printer.Sprintf("%v", number.Decimal(*v, number.MaxFractionDigits(digits)))
}

// Percent formats a ratio as a percentage (0.731 → "73.1%")
func (f Formatter) Percent(v *float64) string {
	if !valid(v) {
		return Placeholder
	}
	p := *v * 100
	return f.NumberDigits(&p, f.digits) + "%"
}

// MeanStd formats "mean ± std" with an optional unit suffix. A missing std
// leaves only the mean.
func (f Formatter) MeanStd(mean, std *float64, unit string) string {
	if !valid(mean) {
		return Placeholder
	}
	s := f.Number(mean)
	if valid(std) {
		s += " ± " + f.Number(std)
	}
	if unit != "" {
		s += " " + unit
	}
	return s
}
