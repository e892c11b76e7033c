package chart

import (
	"math"
	"strconv"
	"time"
)

// fraction returns the position of tick i among n evenly spaced ticks,
// 0 for the first and 1 for the last.
func fraction(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

// tickCount collapses a zero-width extent to a single tick.
func tickCount(n int, degenerate bool) int {
	if n <= 0 {
		return 0
	}
	if degenerate {
		return 1
	}
	return n
}

func linearTicks(n int, minValue, maxValue float64, scale Scale) []AxisTick {
	n = tickCount(n, minValue == maxValue)
	ticks := make([]AxisTick, 0, n)
	for i := 0; i < n; i++ {
		v := interpolate(minValue, maxValue, fraction(i, n))
		ticks = append(ticks, AxisTick{
			Position: scale.Map(v),
			Value:    v,
			Label:    FormatValue(v),
		})
	}
	return ticks
}

// logTicks spaces ticks evenly in pixel space and reads the values back
// through the scale, which yields geometric steps in data space.
func logTicks(n int, degenerate bool, plot Rect, scale Scale) []AxisTick {
	n = tickCount(n, degenerate)
	ticks := make([]AxisTick, 0, n)
	for i := 0; i < n; i++ {
		px := plot.Bottom + fraction(i, n)*(plot.Top-plot.Bottom)
		if degenerate {
			px = (plot.Bottom + plot.Top) / 2
		}
		v := scale.Invert(px)
		ticks = append(ticks, AxisTick{
			Position: px,
			Value:    v,
			Label:    FormatValue(v),
		})
	}
	return ticks
}

func timeTicks(n int, minDate, maxDate time.Time, scale TimeScale) []AxisTick {
	n = tickCount(n, minDate.Equal(maxDate))
	span := maxDate.Sub(minDate)
	ticks := make([]AxisTick, 0, n)
	for i := 0; i < n; i++ {
		t := minDate.Add(time.Duration(fraction(i, n) * float64(span)))
		ticks = append(ticks, AxisTick{
			Position: scale.Map(t),
			Time:     t,
			Label:    FormatTime(t),
		})
	}
	return ticks
}

// FormatTime renders the HH:MM:SS part of the UTC ISO-8601 timestamp.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLabelLayout)
}

// FormatValue renders a value label with at most four decimals.
// Magnitudes of 1e21 and above use exponent notation.
func FormatValue(v float64) string {
	if math.Abs(v) >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
