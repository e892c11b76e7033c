package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"line-chart/internal/features/chart"
	"line-chart/internal/features/render"
)

// go run etc/tools/sample_chart.go
// in etc/charts/sample_chart.png and etc/charts/sample_chart.svg
func main() {
	fmt.Println("Generating sample chart...")

	start := time.Now().UTC().Truncate(time.Minute)
	points := make([]chart.DataPoint, 0, 24)
	for i := 0; i < 24; i++ {
		points = append(points, chart.DataPoint{
			Date:  start.Add(time.Duration(i) * 15 * time.Second),
			Value: math.Round((50+40*math.Sin(float64(i)/3))*100) / 100,
		})
	}

	surface := chart.Surface{Width: 800, Height: 450}
	layout := chart.DefaultLayout()
	layout.Margins.Left = 60
	layout.Margins.Bottom = 40
	g := chart.NewCalculator(layout).Compute(points, surface, chart.TickCount{X: 5, Y: 5})

	chartPath, err := render.PNG(g, surface, "etc/charts/sample_chart.png")
	if err != nil {
		fmt.Printf("Error generating chart: %v\n", err)
		os.Exit(1)
	}

	svgPath := "etc/charts/sample_chart.svg"
	if err := os.WriteFile(svgPath, []byte(render.SVG(g, surface, render.DefaultSVGOptions())), 0644); err != nil {
		fmt.Printf("Error writing svg: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Chart generated successfully: %s, %s\n", chartPath, svgPath)
	fmt.Println("Open the files to see the result!")
}
