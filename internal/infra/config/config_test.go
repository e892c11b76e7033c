package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(newFlags(t), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "data_in", cfg.App.DataDir)
	assert.Equal(t, "logs", cfg.App.LogDir)
	assert.Equal(t, "values", cfg.Storage.Key)
	assert.Equal(t, 640.0, cfg.Chart.Width)
	assert.Equal(t, 400.0, cfg.Chart.Height)
	assert.Equal(t, 20.0, cfg.Chart.MarginLeft)
	assert.Equal(t, 5, cfg.Chart.TicksX)
	assert.Equal(t, 5, cfg.Chart.TicksY)
	assert.False(t, cfg.Chart.LogAxis)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Telegram.BotToken)
}

func TestLoad_LayeredSources(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("chart:\n  width: 800\n  ticks_y: 3\nserver:\n  addr: \":9000\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LINECHART_STORAGE_KEY=points\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("LINECHART_STORAGE_KEY") })

	t.Setenv("LINECHART_DATA_DIR", "/tmp/line-chart")
	t.Setenv("LINECHART_LOG_AXIS", "true")

	cfg, err := load(newFlags(t, "--server.addr", ":7000"), dir)
	require.NoError(t, err)

	assert.Equal(t, 800.0, cfg.Chart.Width)
	assert.Equal(t, 3, cfg.Chart.TicksY)
	assert.Equal(t, "points", cfg.Storage.Key)
	assert.Equal(t, "/tmp/line-chart", cfg.App.DataDir)
	assert.True(t, cfg.Chart.LogAxis)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("chart:\n  ticks_x: -1\n"), 0644))

	_, err := load(nil, dir)
	assert.ErrorContains(t, err, "tick counts")
}

func TestValidateTelegram(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateTelegram())

	cfg.Telegram.BotToken = "token"
	assert.NoError(t, cfg.ValidateTelegram())
	assert.Equal(t, int64(0), cfg.ChatID())

	cfg.Telegram.ChatID = "-100123"
	assert.NoError(t, cfg.ValidateTelegram())
	assert.Equal(t, int64(-100123), cfg.ChatID())

	cfg.Telegram.ChatID = "general"
	assert.Error(t, cfg.ValidateTelegram())
}
