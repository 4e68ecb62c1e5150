// Package chart renders the sentiment distribution bar chart.
package chart

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/oukeidos/sentiview/internal/sentiment"
)

const (
	DefaultTitle  = "Sentiment Distribution"
	DefaultYLabel = "Count"
	DefaultWidth  = 640
	DefaultHeight = 400

	minWidth  = 160
	minHeight = 120

	titleFontSize = 18
)

var ErrNoBars = errors.New("chart has no bars")

type Bar struct {
	Label string
	Value int
	Color color.Color
}

type Spec struct {
	Title  string
	YLabel string
	Bars   []Bar
	Width  int
	Height int
}

// SentimentSpec is the two-bar chart for a run's counts.
func SentimentSpec(c sentiment.Counts) Spec {
	return Spec{
		Title:  DefaultTitle,
		YLabel: DefaultYLabel,
		Bars: []Bar{
			{Label: sentiment.Positive.String(), Value: c.Positive, Color: Green},
			{Label: sentiment.Negative.String(), Value: c.Negative, Color: Red},
		},
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

// Render draws spec into a new image.
func Render(spec Spec, p Palette) (*image.RGBA, error) {
	if len(spec.Bars) == 0 {
		return nil, ErrNoBars
	}
	if spec.Width == 0 {
		spec.Width = DefaultWidth
	}
	if spec.Height == 0 {
		spec.Height = DefaultHeight
	}
	if spec.Width < minWidth || spec.Height < minHeight {
		return nil, fmt.Errorf("chart size %dx%d below minimum %dx%d", spec.Width, spec.Height, minWidth, minHeight)
	}

	maxVal := 0
	bars := make([]gochart.Value, 0, len(spec.Bars))
	for i, b := range spec.Bars {
		if b.Value < 0 {
			return nil, fmt.Errorf("bar %q has negative value %d", b.Label, b.Value)
		}
		maxVal = max(maxVal, b.Value)
		c := toDrawing(b.Color)
		if b.Color == nil {
			c = p.GetSeriesColor(i)
		}
		bars = append(bars, gochart.Value{
			Label: b.Label,
			Value: float64(b.Value),
			// no stroke, so a zero bar leaves no line on the axis
			Style: gochart.Style{FillColor: c, StrokeColor: drawing.ColorTransparent},
		})
	}

	ticks := Ticks(maxVal)
	yTicks := make([]gochart.Tick, len(ticks))
	for i, t := range ticks {
		yTicks[i] = gochart.Tick{Value: float64(t), Label: strconv.Itoa(t)}
	}

	slot := (spec.Width - 100) / len(spec.Bars)
	bc := gochart.BarChart{
		Title:        spec.Title,
		TitleStyle:   gochart.Style{FontSize: titleFontSize},
		ColorPalette: p,
		Width:        spec.Width,
		Height:       spec.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 40, Right: 20, Bottom: 40},
		},
		BarWidth:   slot * 3 / 5,
		BarSpacing: slot * 2 / 5,
		YAxis: gochart.YAxis{
			Name:           spec.YLabel,
			AxisType:       gochart.YAxisSecondary,
			Range:          &gochart.ContinuousRange{Min: 0, Max: float64(ticks[len(ticks)-1])},
			Ticks:          yTicks,
			ValueFormatter: gochart.IntValueFormatter,
			GridMajorStyle: gochart.Hidden(),
			GridMinorStyle: gochart.Hidden(),
		},
		Bars: bars,
	}

	var w gochart.ImageWriter
	if err := bc.Render(gochart.PNG, &w); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	img, err := w.Image()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("unexpected chart image type %T", img)
	}
	return rgba, nil
}

// Ticks returns integer y-axis ticks from zero to a value strictly above
// maxVal, so the tallest bar never touches the top of the plot.
func Ticks(maxVal int) []int {
	step := tickStep(maxVal)
	top := (maxVal/step + 1) * step
	ticks := make([]int, 0, top/step+1)
	for v := 0; v <= top; v += step {
		ticks = append(ticks, v)
	}
	return ticks
}

// tickStep picks the smallest step from 1, 2, 5, 10, 20, 50, ... that keeps
// the axis under eight intervals.
func tickStep(maxVal int) int {
	for decade := 1; ; decade *= 10 {
		for _, m := range []int{1, 2, 5} {
			if step := m * decade; maxVal/step < 8 {
				return step
			}
		}
	}
}
