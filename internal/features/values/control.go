package values

// Values control: the point list behind the chart
// Appends and removes points, persists the full list after each change
// Holds the log-axis toggle and notifies subscribers (chart views) on every change

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"line-chart/internal/features/chart"
	logging "line-chart/internal/infra/log"

	"go.uber.org/zap"
)

const (
	// DefaultInput is what the entry field resets to after a submit.
	DefaultInput = "0"

	// listTimeLayout is the MM:SS.mmm slice of an ISO-8601 timestamp.
	listTimeLayout = "04:05.000"
)

var ErrIndexOutOfRange = errors.New("value index out of range")

// Store persists the point list.
type Store interface {
	Load() ([]chart.DataPoint, error)
	Save(points []chart.DataPoint) error
}

// Snapshot is a copy of the control state.
type Snapshot struct {
	Points  []chart.DataPoint
	LogAxis bool
}

// Control serializes mutations through notifyMu so listeners see snapshots
// in commit order. Listeners must not call Add, Remove or SetLogAxis.
type Control struct {
	notifyMu  sync.Mutex
	mu        sync.RWMutex
	store     Store
	points    []chart.DataPoint
	logAxis   bool
	now       func() time.Time
	listeners []func(Snapshot)
}

// NewControl restores the stored points once.
func NewControl(store Store, logAxis bool) (*Control, error) {
	points, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to restore values: %w", err)
	}
	logging.LogInfo("Values restored", zap.Int("count", len(points)))

	return &Control{
		store:   store,
		points:  points,
		logAxis: logAxis,
		now:     time.Now,
	}, nil
}

// OnChange registers fn and calls it once with the current state.
func (c *Control) OnChange(fn func(Snapshot)) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	fn(snap)
}

// Add appends a point stamped with the current time and returns the index
// it was stored at. Timestamps keep millisecond precision, the same as the store.
func (c *Control) Add(value float64) (int, chart.DataPoint, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	point := chart.DataPoint{Date: c.now().UTC().Truncate(time.Millisecond), Value: value}
	index := len(c.points)
	next := make([]chart.DataPoint, index, index+1)
	copy(next, c.points)
	next = append(next, point)
	err := c.commitLocked(next)
	snap, listeners := c.snapshotLocked(), c.listeners
	c.mu.Unlock()

	notify(listeners, snap)
	if err != nil {
		return index, point, err
	}
	logging.LogInfo("Value added", zap.Float64("value", value), zap.Int("count", len(snap.Points)))
	return index, point, nil
}

// Submit coerces raw input and adds it.
func (c *Control) Submit(input string) (int, chart.DataPoint, error) {
	return c.Add(ParseInput(input))
}

// Remove deletes the point at index. An out-of-range index is a no-op.
func (c *Control) Remove(index int) error {
	err := c.RemoveStrict(index)
	if errors.Is(err, ErrIndexOutOfRange) {
		return nil
	}
	return err
}

// RemoveStrict is Remove but reports ErrIndexOutOfRange.
func (c *Control) RemoveStrict(index int) error {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if index < 0 || index >= len(c.points) {
		count := len(c.points)
		c.mu.Unlock()
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, count)
	}

	next := make([]chart.DataPoint, 0, len(c.points)-1)
	next = append(next, c.points[:index]...)
	next = append(next, c.points[index+1:]...)
	err := c.commitLocked(next)
	snap, listeners := c.snapshotLocked(), c.listeners
	c.mu.Unlock()

	notify(listeners, snap)
	if err != nil {
		return err
	}
	logging.LogInfo("Value removed", zap.Int("index", index), zap.Int("count", len(snap.Points)))
	return nil
}

func (c *Control) SetLogAxis(on bool) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.logAxis == on {
		c.mu.Unlock()
		return
	}
	c.logAxis = on
	snap, listeners := c.snapshotLocked(), c.listeners
	c.mu.Unlock()

	logging.LogDebug("Log axis toggled", zap.Bool("enabled", on))
	notify(listeners, snap)
}

func (c *Control) LogAxis() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logAxis
}

// Points returns a copy of the current list.
func (c *Control) Points() []chart.DataPoint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]chart.DataPoint(nil), c.points...)
}

func (c *Control) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// commitLocked swaps in the new list and rewrites the store.
// The in-memory list is kept even when the write fails.
func (c *Control) commitLocked(next []chart.DataPoint) error {
	c.points = next
	if err := c.store.Save(next); err != nil {
		logging.LogError("Failed to persist values", zap.Error(err))
		return fmt.Errorf("failed to persist values: %w", err)
	}
	return nil
}

func (c *Control) snapshotLocked() Snapshot {
	return Snapshot{
		Points:  append([]chart.DataPoint(nil), c.points...),
		LogAxis: c.logAxis,
	}
}

func notify(listeners []func(Snapshot), snap Snapshot) {
	for _, fn := range listeners {
		fn(snap)
	}
}

// ParseInput coerces user text to a number; anything unparsable is 0.
func ParseInput(input string) float64 {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0
	}
	v, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// TimeLabel formats a point time for the values list.
func TimeLabel(t time.Time) string {
	return t.UTC().Format(listTimeLayout)
}
