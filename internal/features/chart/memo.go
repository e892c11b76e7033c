package chart

import (
	"encoding/binary"
	"math"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/patrickmn/go-cache"
)

const DefaultMemoTTL = 5 * time.Minute

// Memo caches geometry by a digest of the calculator settings and inputs.
// Cached geometry is shared between callers and must be treated as read-only.
type Memo struct {
	cache *cache.Cache
}

func NewMemo(ttl time.Duration) *Memo {
	if ttl <= 0 {
		ttl = DefaultMemoTTL
	}
	return &Memo{cache: cache.New(ttl, ttl*2)}
}

func (m *Memo) Compute(calc Calculator, points []DataPoint, surface Surface, ticks TickCount) *Geometry {
	key := memoKey(calc, points, surface, ticks)
	if cached, ok := m.cache.Get(key); ok {
		return cached.(*Geometry)
	}
	g := calc.Compute(points, surface, ticks)
	m.cache.Set(key, g, cache.DefaultExpiration)
	return g
}

// Len reports the number of cached entries.
func (m *Memo) Len() int {
	return m.cache.ItemCount()
}

func (m *Memo) Flush() {
	m.cache.Flush()
}

func memoKey(calc Calculator, points []DataPoint, surface Surface, ticks TickCount) string {
	buf := make([]byte, 0, 8*(12+3*len(points)))
	putFloat := func(v float64) {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}

	buf = binary.LittleEndian.AppendUint64(buf, uint64(calc.Scale))
	putFloat(calc.Layout.Margins.Top)
	putFloat(calc.Layout.Margins.Right)
	putFloat(calc.Layout.Margins.Bottom)
	putFloat(calc.Layout.Margins.Left)
	putFloat(calc.Layout.YAxisWidth)
	putFloat(calc.Layout.XAxisHeight)
	putFloat(surface.Width)
	putFloat(surface.Height)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(ticks.X)))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(ticks.Y)))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(points)))
	for _, p := range points {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(p.Date.Unix()))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(p.Date.Nanosecond()))
		putFloat(p.Value)
	}
	return strconv.FormatUint(xxhash.Sum64(buf), 16)
}
