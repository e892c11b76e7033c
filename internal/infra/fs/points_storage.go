package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"line-chart/internal/features/chart"
	logging "line-chart/internal/infra/log"

	"go.uber.org/zap"
)

const (
	// ValuesKey is the fixed key the point list lives under.
	ValuesKey = "values"

	// ISOLayout matches JavaScript's Date.prototype.toISOString.
	ISOLayout = "2006-01-02T15:04:05.000Z07:00"
)

// PointRecord is one persisted point.
type PointRecord struct {
	Value float64 `json:"value"`
	Date  string  `json:"date"`
}

// PointStore keeps the whole point list as one JSON array under a single key.
type PointStore struct {
	kv  *KV
	key string
}

func NewPointStore(kv *KV, key string) *PointStore {
	if key == "" {
		key = ValuesKey
	}
	return &PointStore{kv: kv, key: key}
}

// Load reads the point list. Missing, empty or malformed data yields an
// empty list; only I/O failures are returned as errors.
func (s *PointStore) Load() ([]chart.DataPoint, error) {
	data, ok, err := s.kv.Get(s.key)
	if err != nil {
		return nil, err
	}
	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return []chart.DataPoint{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		logging.LogWarn("Stored values are not a JSON array, ignoring",
			zap.String("key", s.key),
			zap.Error(err))
		return []chart.DataPoint{}, nil
	}

	points := make([]chart.DataPoint, 0, len(raw))
	for i, item := range raw {
		var record PointRecord
		if err := json.Unmarshal(item, &record); err != nil {
			logging.LogWarn("Skipping malformed stored value", zap.Int("index", i), zap.Error(err))
			continue
		}
		date, err := time.Parse(time.RFC3339Nano, record.Date)
		if err != nil {
			logging.LogWarn("Skipping stored value with invalid date",
				zap.Int("index", i),
				zap.String("date", record.Date))
			continue
		}
		points = append(points, chart.DataPoint{Date: date.UTC(), Value: record.Value})
	}
	return points, nil
}

// Save rewrites the full point list.
func (s *PointStore) Save(points []chart.DataPoint) error {
	records := make([]PointRecord, len(points))
	for i, p := range points {
		records[i] = PointRecord{Value: p.Value, Date: p.Date.UTC().Format(ISOLayout)}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal values: %w", err)
	}
	if err := s.kv.Set(s.key, data); err != nil {
		return fmt.Errorf("failed to save values: %w", err)
	}
	return nil
}
