package chart

import (
	"image/color"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette is the set of non-data colours; it follows the UI theme.
// It satisfies go-chart's ColorPalette.
type Palette struct {
	Background color.Color
	Foreground color.Color
}

var (
	LightPalette = Palette{
		Background: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Foreground: color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff},
	}
	DarkPalette = Palette{
		Background: color.RGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff},
		Foreground: color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff},
	}
)

// Bar colours match the named matplotlib colours "green" and "red".
var (
	Green = color.RGBA{R: 0x00, G: 0x80, B: 0x00, A: 0xff}
	Red   = color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
)

var series = []color.Color{Green, Red}

func (p Palette) BackgroundColor() drawing.Color       { return toDrawing(p.Background) }
func (p Palette) BackgroundStrokeColor() drawing.Color { return toDrawing(p.Background) }
func (p Palette) CanvasColor() drawing.Color           { return toDrawing(p.Background) }
func (p Palette) CanvasStrokeColor() drawing.Color     { return toDrawing(p.Background) }
func (p Palette) AxisStrokeColor() drawing.Color       { return toDrawing(p.Foreground) }
func (p Palette) TextColor() drawing.Color             { return toDrawing(p.Foreground) }

func (p Palette) GetSeriesColor(index int) drawing.Color {
	return toDrawing(series[index%len(series)])
}

// toDrawing converts to go-chart's straight-alpha colour.
func toDrawing(c color.Color) drawing.Color {
	if c == nil {
		return drawing.Color{}
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return drawing.Color{R: n.R, G: n.G, B: n.B, A: n.A}
}
