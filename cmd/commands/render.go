package commands

// Command to draw the stored values once
// Writes a PNG (gg) or an SVG document sized by the chart config

import (
	"fmt"
	"os"
	"path/filepath"

	"line-chart/internal/features/chart"
	"line-chart/internal/features/render"

	"github.com/spf13/cobra"
)

var (
	renderOut    string
	renderSVG    bool
	renderWidth  float64
	renderHeight float64
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the stored values to a PNG or SVG file",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderOut, "out", "", "Output file (default: <charts_dir>/line_chart.png or .svg)")
	renderCmd.Flags().BoolVar(&renderSVG, "svg", false, "Write SVG instead of PNG")
	renderCmd.Flags().Float64Var(&renderWidth, "width", 0, "Width in pixels (default: chart.width)")
	renderCmd.Flags().Float64Var(&renderHeight, "height", 0, "Height in pixels (default: chart.height)")
}

func runRender(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	surface := a.surface
	if renderWidth > 0 {
		surface.Width = renderWidth
	}
	if renderHeight > 0 {
		surface.Height = renderHeight
	}
	g := a.view.GeometryFor(surface)

	out := renderOut
	if renderSVG {
		if out == "" {
			out = filepath.Join(cfg.Chart.ChartsDir, "line_chart.svg")
		}
		if err := writeSVG(out, g, surface); err != nil {
			return err
		}
	} else {
		if out == "" {
			out = filepath.Join(cfg.Chart.ChartsDir, render.DefaultPNGName)
		}
		if out, err = render.PNG(g, surface, out); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func writeSVG(path string, g *chart.Geometry, surface chart.Surface) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	doc := render.SVG(g, surface, render.DefaultSVGOptions())
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}
