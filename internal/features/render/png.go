package render

// Line chart PNG for the bot and the render command
// Draws the same primitives as the SVG output (grid, axis labels, line, point labels) with gg

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"line-chart/internal/features/chart"
	logging "line-chart/internal/infra/log"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

const (
	DefaultChartsDir = "etc/charts"
	DefaultPNGName   = "line_chart.png"

	axisFontSize  = 14.0
	labelFontSize = 13.0
	lineWidth     = 2.0
	pointRadius   = 3.0
	tickLength    = 6.0
)

var ErrNoData = errors.New("no data points available")

var (
	backgroundColor = color.White
	gridColor       = color.RGBA{224, 224, 224, 255}
	axisColor       = color.RGBA{64, 64, 64, 255}
	lineColor       = color.RGBA{70, 130, 180, 255} // steelblue
	labelColor      = color.Black
)

// fontPaths are tried in order; gg falls back to its built-in face when none loads.
var fontPaths = []string{
	"etc/fonts/Inter-Regular.ttf",
	"./etc/fonts/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/inter/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/Library/Fonts/Arial.ttf",
}

// PNG draws geometry on a surface-sized canvas and saves it to filename.
// It returns the written path.
func PNG(g *chart.Geometry, surface chart.Surface, filename string) (string, error) {
	if g == nil {
		return "", ErrNoData
	}

	width, height := int(surface.Width), int(surface.Height)
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid chart surface %dx%d", width, height)
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(backgroundColor)
	dc.Clear()

	fontPath, fontLoaded := loadFont(dc, axisFontSize)

	drawGrid(dc, g)
	drawAxes(dc, g)

	dc.SetColor(labelColor)
	for _, tick := range g.YTicks {
		dc.DrawStringAnchored(tick.Label, g.Plot.Left-tickLength-4, tick.Position, 1, 0.5)
	}
	for _, tick := range g.XTicks {
		dc.DrawStringAnchored(tick.Label, tick.Position, g.Plot.Bottom+tickLength+4, 0.5, 1)
	}

	dc.SetColor(lineColor)
	dc.SetLineWidth(lineWidth)
	for i, p := range g.Points {
		if i == 0 {
			dc.MoveTo(p.X, p.Y)
		} else {
			dc.LineTo(p.X, p.Y)
		}
	}
	dc.Stroke()

	for _, p := range g.Points {
		dc.DrawCircle(p.X, p.Y, pointRadius)
		dc.Fill()
	}

	if fontLoaded {
		_ = dc.LoadFontFace(fontPath, labelFontSize)
	}
	dc.SetColor(labelColor)
	for _, p := range g.Points {
		dc.DrawString(strconv.FormatFloat(p.Value, 'f', -1, 64), p.X+pointRadius+2, p.Y-pointRadius-2)
	}

	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create charts directory: %w", err)
		}
	}
	if err := dc.SavePNG(filename); err != nil {
		return "", fmt.Errorf("failed to save chart: %w", err)
	}

	fileInfo, err := os.Stat(filename)
	if err != nil {
		return "", fmt.Errorf("failed to stat chart file: %w", err)
	}
	if fileInfo.Size() == 0 {
		os.Remove(filename)
		logging.LogError("Chart file is empty after rendering", zap.String("filename", filename))
		return "", fmt.Errorf("chart file is empty after rendering")
	}

	logging.LogInfo("Line chart generated successfully",
		zap.String("filename", filename),
		zap.Int64("fileSize", fileInfo.Size()),
		zap.Int("pointsCount", len(g.Points)),
		zap.String("scale", g.Scale.String()))

	return filename, nil
}

func drawGrid(dc *gg.Context, g *chart.Geometry) {
	dc.SetColor(gridColor)
	dc.SetLineWidth(1)
	dc.SetDash(6, 4)
	for _, tick := range g.YTicks {
		dc.DrawLine(g.Plot.Left, tick.Position, g.Plot.Right, tick.Position)
		dc.Stroke()
	}
	for _, tick := range g.XTicks {
		dc.DrawLine(tick.Position, g.Plot.Top, tick.Position, g.Plot.Bottom)
		dc.Stroke()
	}
	dc.SetDash()
}

func drawAxes(dc *gg.Context, g *chart.Geometry) {
	dc.SetColor(axisColor)
	dc.SetLineWidth(1.5)
	dc.DrawLine(g.Plot.Left, g.Plot.Bottom, g.Plot.Right, g.Plot.Bottom)
	dc.Stroke()
	dc.DrawLine(g.Plot.Left, g.Plot.Top, g.Plot.Left, g.Plot.Bottom)
	dc.Stroke()

	for _, tick := range g.YTicks {
		dc.DrawLine(g.Plot.Left-tickLength, tick.Position, g.Plot.Left, tick.Position)
		dc.Stroke()
	}
	for _, tick := range g.XTicks {
		dc.DrawLine(tick.Position, g.Plot.Bottom, tick.Position, g.Plot.Bottom+tickLength)
		dc.Stroke()
	}
}

func loadFont(dc *gg.Context, size float64) (string, bool) {
	for _, fontPath := range fontPaths {
		if _, err := os.Stat(fontPath); err != nil {
			continue
		}
		if err := dc.LoadFontFace(fontPath, size); err != nil {
			logging.LogWarn("Font file exists but failed to load",
				zap.String("path", fontPath),
				zap.Error(err))
			continue
		}
		logging.LogDebug("Loaded chart font", zap.String("path", fontPath))
		return fontPath, true
	}
	logging.LogWarn("Failed to load font from any path, using default face",
		zap.Int("paths_checked", len(fontPaths)))
	return "", false
}
