package viz

import "github.com/guptarohit/asciigraph"

// Chart plots a series with asciigraph. Long series are downsampled by
// asciigraph itself to fit width.
func Chart(series []float64, caption string, width, height int) string {
	if len(series) == 0 {
		return ""
	}
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption))
}

// MultiChart plots several series on shared axes.
func MultiChart(series [][]float64, caption string, width, height int) string {
	if len(series) == 0 {
		return ""
	}
	colors := []asciigraph.AnsiColor{asciigraph.Green, asciigraph.Yellow, asciigraph.Red, asciigraph.Blue}
	seriesColors := make([]asciigraph.AnsiColor, len(series))
	for i := range series {
		seriesColors[i] = colors[i%len(colors)]
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(seriesColors...))
}
