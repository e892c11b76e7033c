package chart

// Line chart geometry: scales, point coordinates, path data and axis ticks
// computed from a list of timestamped values and a pixel surface.

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultMargin = 20.0

	// TimeLabelLayout is the HH:MM:SS slice of an ISO-8601 timestamp.
	TimeLabelLayout = "15:04:05"
)

// DataPoint is one user-entered value.
type DataPoint struct {
	Date  time.Time
	Value float64
}

// Surface is the observed drawing area in pixels.
type Surface struct {
	Width  float64
	Height float64
}

type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Layout holds the fixed spacing around the plot area.
// YAxisWidth and XAxisHeight reserve bands for axis labels.
type Layout struct {
	Margins     Margins
	YAxisWidth  float64
	XAxisHeight float64
}

// TickCount is the number of gridlines per axis.
type TickCount struct {
	X int
	Y int
}

type ValueScale int

const (
	LinearValues ValueScale = iota
	LogValues
)

func (m ValueScale) String() string {
	if m == LogValues {
		return "log"
	}
	return "linear"
}

// AxisTick is a gridline position with the data value it stands for.
// Y ticks carry Value, X ticks carry Time.
type AxisTick struct {
	Position float64
	Value    float64
	Time     time.Time
	Label    string
}

// PointCoordinate is a data point placed on the surface.
type PointCoordinate struct {
	X     float64
	Y     float64
	Value float64
	Date  time.Time
}

// Rect is the plot area in pixel space.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Geometry is everything a renderer needs to draw the chart.
// A nil *Geometry means there is nothing to draw.
type Geometry struct {
	Path    string
	Points  []PointCoordinate
	YTicks  []AxisTick
	XTicks  []AxisTick
	Plot    Rect
	ViewBox string
	Scale   ValueScale
}

// Calculator computes chart geometry. It holds no state between calls.
type Calculator struct {
	Layout Layout
	Scale  ValueScale
}

func DefaultLayout() Layout {
	return Layout{
		Margins: Margins{
			Top:    DefaultMargin,
			Right:  DefaultMargin,
			Bottom: DefaultMargin,
			Left:   DefaultMargin,
		},
	}
}

func NewCalculator(layout Layout) Calculator {
	return Calculator{Layout: layout, Scale: LinearValues}
}

// WithScale returns a copy of c using the given value scale.
func (c Calculator) WithScale(mode ValueScale) Calculator {
	c.Scale = mode
	return c
}

// ViewBox formats the SVG view box for a surface.
func ViewBox(s Surface) string {
	s = s.clamped()
	return fmt.Sprintf("0,0,%s,%s", formatNumber(s.Width), formatNumber(s.Height))
}

// Compute maps points onto the surface. It returns nil for an empty point list.
func (c Calculator) Compute(points []DataPoint, surface Surface, ticks TickCount) *Geometry {
	if len(points) == 0 {
		return nil
	}
	surface = surface.clamped()

	plot := Rect{
		Left:   c.Layout.Margins.Left + c.Layout.YAxisWidth,
		Top:    c.Layout.Margins.Top,
		Right:  surface.Width - c.Layout.Margins.Right,
		Bottom: surface.Height - c.Layout.Margins.Bottom - c.Layout.XAxisHeight,
	}

	minDate, maxDate := timeExtent(points)
	minValue, maxValue := valueExtent(points)

	timeScale := NewTimeScale(minDate, maxDate, plot.Left, plot.Right)
	valueScale, mode := c.valueScale(points, minValue, maxValue, plot)

	coords := make([]PointCoordinate, len(points))
	for i, p := range points {
		coords[i] = PointCoordinate{
			X:     timeScale.Map(p.Date),
			Y:     valueScale.Map(finite(p.Value)),
			Value: p.Value,
			Date:  p.Date,
		}
	}

	g := &Geometry{
		Path:    linePath(coords),
		Points:  coords,
		Plot:    plot,
		ViewBox: ViewBox(surface),
		Scale:   mode,
		XTicks:  timeTicks(ticks.X, minDate, maxDate, timeScale),
	}
	if mode == LogValues {
		floor, _ := smallestPositive(points)
		g.YTicks = logTicks(ticks.Y, math.Max(minValue, floor) == maxValue, plot, valueScale)
	} else {
		g.YTicks = linearTicks(ticks.Y, minValue, maxValue, valueScale)
	}
	return g
}

func (c Calculator) valueScale(points []DataPoint, minValue, maxValue float64, plot Rect) (Scale, ValueScale) {
	if c.Scale == LogValues {
		if floor, ok := smallestPositive(points); ok {
			if minValue < floor {
				minValue = floor
			}
			return NewLogScale(minValue, math.Max(maxValue, floor), plot.Bottom, plot.Top), LogValues
		}
	}
	return NewLinearScale(minValue, maxValue, plot.Bottom, plot.Top), LinearValues
}

func (s Surface) clamped() Surface {
	if s.Width < 0 || math.IsNaN(s.Width) {
		s.Width = 0
	}
	if s.Height < 0 || math.IsNaN(s.Height) {
		s.Height = 0
	}
	return s
}

func timeExtent(points []DataPoint) (time.Time, time.Time) {
	minDate, maxDate := points[0].Date, points[0].Date
	for _, p := range points[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}
		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}
	return minDate, maxDate
}

func valueExtent(points []DataPoint) (float64, float64) {
	minValue, maxValue := finite(points[0].Value), finite(points[0].Value)
	for _, p := range points[1:] {
		v := finite(p.Value)
		minValue = math.Min(minValue, v)
		maxValue = math.Max(maxValue, v)
	}
	return minValue, maxValue
}

func smallestPositive(points []DataPoint) (float64, bool) {
	floor, ok := 0.0, false
	for _, p := range points {
		v := finite(p.Value)
		if v > 0 && (!ok || v < floor) {
			floor, ok = v, true
		}
	}
	return floor, ok
}

// finite treats NaN and infinities as zero.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func linePath(coords []PointCoordinate) string {
	var b strings.Builder
	for i, c := range coords {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(formatNumber(c.X))
		b.WriteByte(',')
		b.WriteString(formatNumber(c.Y))
	}
	return b.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
