package log

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInit_WritesFileLog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	t.Cleanup(func() {
		Logger, consoleLogger, fileLogger = zap.NewNop(), zap.NewNop(), zap.NewNop()
	})

	LogInfo("value added", zap.Float64("value", 2.5), zap.Int("index", 3))
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, "INFO value added")
	assert.Contains(t, line, `"value":2.5`)
	assert.Contains(t, line, `"index":3`)
}

func TestFieldValue(t *testing.T) {
	tests := []struct {
		field zapcore.Field
		want  interface{}
	}{
		{zap.String("s", "x"), "x"},
		{zap.Int64("i", 7), int64(7)},
		{zap.Bool("b", true), true},
		{zap.Float64("f", 1.25), 1.25},
		{zap.Duration("d", 1500 * time.Millisecond), "1.5s"},
		{zap.Error(errors.New("boom")), "boom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fieldValue(tt.field), tt.field.Key)
	}
}

func TestGenerateRequestID(t *testing.T) {
	id := GenerateRequestID()
	assert.Len(t, id, 16)
	assert.NotEqual(t, id, GenerateRequestID())
}

func TestExtractDuration(t *testing.T) {
	assert.Equal(t, int64(42), extractDuration([]zap.Field{zap.String("a", "b"), zap.Int64("duration_ms", 42)}))
	assert.Equal(t, int64(0), extractDuration(nil))
}
