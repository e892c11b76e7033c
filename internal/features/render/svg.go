package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"line-chart/internal/features/chart"
)

// SVGOptions controls colors and stroke of the SVG output.
type SVGOptions struct {
	LineColor   string
	StrokeWidth float64
	GridColor   string
	LabelColor  string
	FontSize    float64
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		LineColor:   "steelblue",
		StrokeWidth: 1.5,
		GridColor:   "#e0e0e0",
		LabelColor:  "black",
		FontSize:    10,
	}
}

// SVG renders geometry into a standalone svg document sized by surface.
// Nil geometry renders an empty chart with the surface view box.
func SVG(g *chart.Geometry, surface chart.Surface, opts SVGOptions) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" class="line-chart" color="%s" viewBox="%s" data-scale="%s">`,
		html.EscapeString(opts.LineColor), chart.ViewBox(surface), scaleName(g))

	if g != nil {
		writeGrid(&b, g, opts)
		if g.Path != "" {
			fmt.Fprintf(&b, `<path fill="none" stroke="currentColor" stroke-width="%s" d="%s"/>`, num(opts.StrokeWidth), g.Path)
		}
		fmt.Fprintf(&b, `<g class="labels" fill="%s" font-size="%s">`, html.EscapeString(opts.LabelColor), num(opts.FontSize))
		for _, p := range g.Points {
			fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="start">%s</text>`,
				num(p.X), num(p.Y), html.EscapeString(strconv.FormatFloat(p.Value, 'f', -1, 64)))
		}
		b.WriteString(`</g>`)
	}

	b.WriteString(`</svg>`)
	return b.String()
}

func writeGrid(b *strings.Builder, g *chart.Geometry, opts SVGOptions) {
	fmt.Fprintf(b, `<g class="grid" stroke="%s" stroke-width="1">`, html.EscapeString(opts.GridColor))
	for _, tick := range g.YTicks {
		fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s"/>`,
			num(g.Plot.Left), num(tick.Position), num(g.Plot.Right), num(tick.Position))
	}
	for _, tick := range g.XTicks {
		fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s"/>`,
			num(tick.Position), num(g.Plot.Top), num(tick.Position), num(g.Plot.Bottom))
	}
	b.WriteString(`</g>`)

	fmt.Fprintf(b, `<g class="axis" fill="%s" font-size="%s">`, html.EscapeString(opts.LabelColor), num(opts.FontSize))
	for _, tick := range g.YTicks {
		fmt.Fprintf(b, `<text x="%s" y="%s" text-anchor="end" dominant-baseline="middle">%s</text>`,
			num(g.Plot.Left-4), num(tick.Position), html.EscapeString(tick.Label))
	}
	for _, tick := range g.XTicks {
		fmt.Fprintf(b, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="hanging">%s</text>`,
			num(tick.Position), num(g.Plot.Bottom+4), html.EscapeString(tick.Label))
	}
	b.WriteString(`</g>`)
}

func scaleName(g *chart.Geometry) string {
	if g == nil {
		return chart.LinearValues.String()
	}
	return g.Scale.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
