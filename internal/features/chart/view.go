package chart

import (
	"context"
	"sync"
	"time"

	"line-chart/internal/infra/throttle"
)

// View is the live chart state for one drawing surface.
// Resizes are throttled to one recompute per frame; point and mode
// changes recompute immediately.
type View struct {
	mu       sync.RWMutex
	memo     *Memo
	calc     Calculator
	ticks    TickCount
	surface  Surface
	points   []DataPoint
	geometry *Geometry
	resize   *throttle.Throttler[Surface]
	onUpdate func(*Geometry)
}

type ViewOptions struct {
	Calculator Calculator
	Ticks      TickCount
	Surface    Surface
	Memo       *Memo
	// Window bounds the resize recompute rate; zero means one frame.
	Window time.Duration
	// OnUpdate is called with the new geometry after every recompute.
	OnUpdate func(*Geometry)
}

func NewView(ctx context.Context, opts ViewOptions) *View {
	memo := opts.Memo
	if memo == nil {
		memo = NewMemo(DefaultMemoTTL)
	}
	v := &View{
		memo:     memo,
		calc:     opts.Calculator,
		ticks:    opts.Ticks,
		surface:  opts.Surface,
		onUpdate: opts.OnUpdate,
	}
	v.resize = throttle.New(ctx, opts.Window, v.applyResize)
	return v
}

// Resize reports a new surface size.
func (v *View) Resize(s Surface) {
	v.resize.Trigger(s)
}

// Update replaces the points and the value scale mode.
func (v *View) Update(points []DataPoint, logAxis bool) {
	mode := LinearValues
	if logAxis {
		mode = LogValues
	}
	v.mu.Lock()
	v.points = append([]DataPoint(nil), points...)
	v.calc = v.calc.WithScale(mode)
	g := v.recomputeLocked()
	v.mu.Unlock()

	v.notify(g)
}

func (v *View) applyResize(s Surface) {
	v.mu.Lock()
	v.surface = s
	g := v.recomputeLocked()
	v.mu.Unlock()

	v.notify(g)
}

func (v *View) recomputeLocked() *Geometry {
	v.geometry = v.memo.Compute(v.calc, v.points, v.surface, v.ticks)
	return v.geometry
}

func (v *View) notify(g *Geometry) {
	if v.onUpdate != nil {
		v.onUpdate(g)
	}
}

// Geometry returns the latest computed geometry, nil when there are no points.
func (v *View) Geometry() *Geometry {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.geometry
}

// GeometryFor computes geometry for the current points on another surface
// without changing the view.
func (v *View) GeometryFor(s Surface) *Geometry {
	v.mu.RLock()
	calc, points, ticks := v.calc, v.points, v.ticks
	v.mu.RUnlock()
	return v.memo.Compute(calc, points, s, ticks)
}

func (v *View) Surface() Surface {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.surface
}

func (v *View) Calculator() Calculator {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.calc
}

func (v *View) Ticks() TickCount {
	return v.ticks
}

// Close drops any pending resize and stops accepting new ones.
func (v *View) Close() {
	v.resize.Close()
}
