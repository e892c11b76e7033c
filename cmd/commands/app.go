package commands

// Shared wiring for the commands
// store -> values control -> chart view, from the loaded configuration

import (
	"context"
	"fmt"

	"line-chart/internal/features/chart"
	"line-chart/internal/features/values"
	"line-chart/internal/infra/config"
	"line-chart/internal/infra/fs"
	logging "line-chart/internal/infra/log"

	"go.uber.org/zap"
)

type app struct {
	control *values.Control
	view    *chart.View
	surface chart.Surface
}

func layoutFromConfig(c config.ChartConfig) chart.Layout {
	return chart.Layout{
		Margins: chart.Margins{
			Top:    c.MarginTop,
			Right:  c.MarginRight,
			Bottom: c.MarginBottom,
			Left:   c.MarginLeft,
		},
		YAxisWidth:  c.YAxisWidth,
		XAxisHeight: c.XAxisHeight,
	}
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	store := fs.NewPointStore(fs.NewKV(cfg.App.DataDir), cfg.Storage.Key)

	control, err := values.NewControl(store, cfg.Chart.LogAxis)
	if err != nil {
		return nil, fmt.Errorf("failed to create values control: %w", err)
	}

	surface := chart.Surface{Width: cfg.Chart.Width, Height: cfg.Chart.Height}
	view := chart.NewView(ctx, chart.ViewOptions{
		Calculator: chart.NewCalculator(layoutFromConfig(cfg.Chart)),
		Ticks:      chart.TickCount{X: cfg.Chart.TicksX, Y: cfg.Chart.TicksY},
		Surface:    surface,
		OnUpdate: func(g *chart.Geometry) {
			if g == nil {
				logging.LogDebug("Chart cleared")
				return
			}
			logging.LogDebug("Chart recomputed",
				zap.Int("points", len(g.Points)),
				zap.String("viewBox", g.ViewBox),
				zap.String("scale", g.Scale.String()))
		},
	})
	control.OnChange(func(s values.Snapshot) {
		view.Update(s.Points, s.LogAxis)
	})

	return &app{control: control, view: view, surface: surface}, nil
}

func (a *app) Close() {
	a.view.Close()
}
