// Package chart renders equipment rankings as images.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/mtbf-analyzer/backend/internal/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no equipment to chart")

const (
	Width  = 10 * vg.Inch
	Height = 5 * vg.Inch

	maxLabelLen = 12
)

var barColor = color.RGBA{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF}

// RenderPareto draws ranks as a bar chart of work order counts and writes it
// to w in the given image format ("png", "svg", "pdf", ...).
func RenderPareto(w io.Writer, ranks []analysis.EquipmentRank, format string) error {
	if len(ranks) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Top Equipment by Work Order Count"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Work Order Count"
	p.Y.Min = 0

	values := make(plotter.Values, len(ranks))
	names := make([]string, len(ranks))
	labels := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(ranks)),
		Labels: make([]string, len(ranks)),
	}
	for i, r := range ranks {
		values[i] = float64(r.Count)
		names[i] = truncateLabel(r.Equipment)
		labels.XYs[i] = plotter.XY{X: float64(i), Y: float64(r.Count)}
		labels.Labels[i] = fmt.Sprintf("%d", r.Count)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0

	counts, err := plotter.NewLabels(labels)
	if err != nil {
		return fmt.Errorf("failed to build bar labels: %w", err)
	}
	for i := range counts.TextStyle {
		counts.TextStyle[i].XAlign = draw.XCenter
	}
	counts.Offset = vg.Point{Y: vg.Points(4)}

	p.Add(bars, counts, plotter.NewGrid())
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	// leave headroom for the count labels
	for _, r := range ranks {
		p.Y.Max = math.Max(p.Y.Max, float64(r.Count)*1.15)
	}

	wt, err := p.WriterTo(Width, Height, format)
	if err != nil {
		return fmt.Errorf("failed to create %s writer: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

func truncateLabel(s string) string {
	if len(s) <= maxLabelLen {
		return s
	}
	return s[:maxLabelLen] + "..."
}
