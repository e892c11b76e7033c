package chart

import (
	"math"
	"time"
)

// Scale maps a domain value onto a pixel coordinate and back.
type Scale interface {
	Map(v float64) float64
	Invert(px float64) float64
}

// LinearScale maps [d0, d1] onto [r0, r1].
// A zero-width domain maps every value to the middle of the range.
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

func NewLinearScale(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

func (s LinearScale) Map(v float64) float64 {
	mid := (s.r0 + s.r1) / 2
	if s.d0 == s.d1 {
		return mid
	}
	// The domain is halved so its width stays finite near ±MaxFloat64.
	f := (v/2 - s.d0/2) / (s.d1/2 - s.d0/2)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return mid
	}
	return s.r0 + f*(s.r1-s.r0)
}

func (s LinearScale) Invert(px float64) float64 {
	if s.d0 == s.d1 || s.r0 == s.r1 {
		return s.d0
	}
	return interpolate(s.d0, s.d1, (px-s.r0)/(s.r1-s.r0))
}

// interpolate returns a + f*(b-a) without overflowing when b-a exceeds
// the float64 range.
func interpolate(a, b, f float64) float64 {
	return (a/2 + f*(b/2-a/2)) * 2
}

// LogScale maps log10 of the domain linearly onto the range.
// Values below the domain floor are clamped to it so the result stays finite.
type LogScale struct {
	floor  float64
	linear LinearScale
}

// NewLogScale expects 0 < d0 <= d1.
func NewLogScale(d0, d1, r0, r1 float64) LogScale {
	return LogScale{
		floor:  d0,
		linear: NewLinearScale(math.Log10(d0), math.Log10(d1), r0, r1),
	}
}

func (s LogScale) Map(v float64) float64 {
	if v < s.floor {
		v = s.floor
	}
	return s.linear.Map(math.Log10(v))
}

func (s LogScale) Invert(px float64) float64 {
	return math.Pow(10, s.linear.Invert(px))
}

// TimeScale maps timestamps onto the range at millisecond resolution.
type TimeScale struct {
	linear LinearScale
}

func NewTimeScale(t0, t1 time.Time, r0, r1 float64) TimeScale {
	return TimeScale{linear: NewLinearScale(millis(t0), millis(t1), r0, r1)}
}

func (s TimeScale) Map(t time.Time) float64 {
	return s.linear.Map(millis(t))
}

func (s TimeScale) Invert(px float64) time.Time {
	return time.UnixMilli(int64(math.Round(s.linear.Invert(px)))).UTC()
}

func millis(t time.Time) float64 {
	return float64(t.UnixMilli())
}
