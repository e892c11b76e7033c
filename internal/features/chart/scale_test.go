package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLinearScale(t *testing.T) {
	s := NewLinearScale(0, 10, 100, 0)
	assert.Equal(t, 100.0, s.Map(0))
	assert.Equal(t, 50.0, s.Map(5))
	assert.Equal(t, 0.0, s.Map(10))
	assert.Equal(t, 5.0, s.Invert(50))

	flat := NewLinearScale(3, 3, 20, 80)
	assert.Equal(t, 50.0, flat.Map(3))
	assert.Equal(t, 50.0, flat.Map(1000))
	assert.Equal(t, 3.0, flat.Invert(42))
}

func TestLogScale(t *testing.T) {
	s := NewLogScale(1, 1000, 0, 300)
	assert.InDelta(t, 0.0, s.Map(1), 1e-9)
	assert.InDelta(t, 200.0, s.Map(100), 1e-9)
	assert.InDelta(t, 0.0, s.Map(-4), 1e-9)
	assert.InDelta(t, 10.0, s.Invert(100), 1e-9)
}

func TestTimeScale(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewTimeScale(start, start.Add(10*time.Second), 0, 100)
	assert.Equal(t, 0.0, s.Map(start))
	assert.InDelta(t, 30.0, s.Map(start.Add(3*time.Second)), 1e-9)
	assert.True(t, s.Invert(50).Equal(start.Add(5*time.Second)))

	flat := NewTimeScale(start, start, 20, 80)
	assert.Equal(t, 50.0, flat.Map(start.Add(time.Hour)))
}
