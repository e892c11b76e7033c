package render

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"line-chart/internal/features/chart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGeometry(t *testing.T, surface chart.Surface) *chart.Geometry {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []chart.DataPoint{
		{Date: base, Value: 1},
		{Date: base.Add(time.Minute), Value: 3},
		{Date: base.Add(2 * time.Minute), Value: 2},
	}
	g := chart.NewCalculator(chart.DefaultLayout()).Compute(points, surface, chart.TickCount{X: 3, Y: 3})
	require.NotNil(t, g)
	return g
}

func TestSVG_Primitives(t *testing.T) {
	surface := chart.Surface{Width: 100, Height: 100}
	out := SVG(sampleGeometry(t, surface), surface, DefaultSVGOptions())

	assert.True(t, strings.HasPrefix(out, "<svg "))
	assert.True(t, strings.HasSuffix(out, "</svg>"))
	assert.Contains(t, out, `viewBox="0,0,100,100"`)
	assert.Contains(t, out, `d="M20,80L50,20L80,50"`)
	assert.Equal(t, 1, strings.Count(out, "<path "))
	// 3 point labels + 3 Y labels + 3 X labels
	assert.Equal(t, 9, strings.Count(out, "<text "))
	assert.Equal(t, 6, strings.Count(out, "<line "))
	assert.Contains(t, out, ">00:01:00<")
	assert.Contains(t, out, `data-scale="linear"`)
}

func TestSVG_EmptyGeometry(t *testing.T) {
	out := SVG(nil, chart.Surface{Width: 320, Height: 200}, DefaultSVGOptions())
	assert.Contains(t, out, `viewBox="0,0,320,200"`)
	assert.NotContains(t, out, "<path")
	assert.NotContains(t, out, "<text")

	out = SVG(nil, chart.Surface{}, DefaultSVGOptions())
	assert.Contains(t, out, `viewBox="0,0,0,0"`)
}

func TestPNG_WritesImage(t *testing.T) {
	surface := chart.Surface{Width: 320, Height: 200}
	filename := filepath.Join(t.TempDir(), "charts", DefaultPNGName)

	path, err := PNG(sampleGeometry(t, surface), surface, filename)
	require.NoError(t, err)
	assert.Equal(t, filename, path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestPNG_Errors(t *testing.T) {
	_, err := PNG(nil, chart.Surface{Width: 10, Height: 10}, filepath.Join(t.TempDir(), "x.png"))
	assert.ErrorIs(t, err, ErrNoData)

	surface := chart.Surface{Width: 100, Height: 100}
	_, err = PNG(sampleGeometry(t, surface), chart.Surface{}, filepath.Join(t.TempDir(), "x.png"))
	assert.Error(t, err)
}
