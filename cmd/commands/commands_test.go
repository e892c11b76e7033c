package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{
		"--app.data_dir", filepath.Join(dir, "data"),
		"--app.log_dir", filepath.Join(dir, "logs"),
	}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValuesCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "list")
	require.NoError(t, err)
	assert.Equal(t, "no values\n", out)

	out, err = run(t, dir, "add", "4.5")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "added 4.5 at "))

	_, err = run(t, dir, "add", "oops")
	require.NoError(t, err)

	out, err = run(t, dir, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1\t"))
	assert.True(t, strings.HasSuffix(lines[0], "\t4.5"))
	assert.True(t, strings.HasSuffix(lines[1], "\t0"))

	_, err = run(t, dir, "remove", "5")
	assert.ErrorContains(t, err, "no value number 5")

	out, err = run(t, dir, "remove", "1")
	require.NoError(t, err)
	assert.Equal(t, "removed value number 1\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "data", "values.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"value":0`)
	assert.NotContains(t, string(data), `4.5`)
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { renderOut, renderSVG, renderWidth, renderHeight = "", false, 0, 0 })

	for _, v := range []string{"1", "3", "2"} {
		_, err := run(t, dir, "add", v)
		require.NoError(t, err)
	}

	svgPath := filepath.Join(dir, "out", "chart.svg")
	out, err := run(t, dir, "render", "--svg", "--out", svgPath, "--width", "300", "--height", "200")
	require.NoError(t, err)
	assert.Equal(t, svgPath+"\n", out)

	doc, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(doc), `viewBox="0,0,300,200"`)
	assert.Contains(t, string(doc), "<path ")

	pngPath := filepath.Join(dir, "out", "chart.png")
	renderSVG = false
	_, err = run(t, dir, "render", "--out", pngPath)
	require.NoError(t, err)
	info, err := os.Stat(pngPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
