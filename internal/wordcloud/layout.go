package wordcloud

import (
	"errors"
	"image/color"
	"math"
	"math/rand"
)

// ErrNoWords is returned when no word survives tokenizing and filtering.
var ErrNoWords = errors.New("no words to draw")

const (
	DefaultTitle = "Word Cloud: Highlights of the Most Frequent Words"

	DefaultWidth           = 800
	DefaultHeight          = 400
	DefaultMaxWords        = 200
	DefaultMinFontSize     = 4
	DefaultRelativeScaling = 0.5
	DefaultMargin          = 2
)

type Options struct {
	Width, Height   int
	MaxWords        int
	MinFontSize     float64
	MaxFontSize     float64 // zero picks a size from the canvas height
	RelativeScaling float64
	Margin          int
	Seed            int64
	Stopwords       map[string]bool
	Title           string
}

// DefaultOptions matches the cloud shown after each analysis.
func DefaultOptions() Options {
	return Options{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		MaxWords:        DefaultMaxWords,
		MinFontSize:     DefaultMinFontSize,
		RelativeScaling: DefaultRelativeScaling,
		Margin:          DefaultMargin,
		Seed:            1,
		Stopwords:       Stopwords,
		Title:           DefaultTitle,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.MaxWords <= 0 {
		o.MaxWords = d.MaxWords
	}
	if o.MinFontSize <= 0 {
		o.MinFontSize = d.MinFontSize
	}
	if o.RelativeScaling < 0 || o.RelativeScaling > 1 {
		o.RelativeScaling = d.RelativeScaling
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.Stopwords == nil {
		o.Stopwords = d.Stopwords
	}
	return o
}

// MeasureFunc returns the pixel box of text drawn at size.
type MeasureFunc func(text string, size float64) (w, h int)

// Placement is a word positioned on the canvas; X, Y is its top-left corner.
type Placement struct {
	Word
	Size  float64
	X, Y  int
	W, H  int
	Color color.RGBA
}

// Layout places words on a Width x Height canvas, largest first. Each word
// walks an archimedean spiral out from the centre until its box fits; if it
// never fits the font shrinks by 10% and the walk restarts. Layout stops
// once the font would drop below MinFontSize.
func Layout(words []Word, opts Options, measure MeasureFunc) []Placement {
	opts = opts.withDefaults()
	if len(words) == 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	grid := newOccupancy(opts.Width, opts.Height)

	size := opts.MaxFontSize
	if size <= 0 {
		size = float64(opts.Height) * 2 / 5
	}
	rs := opts.RelativeScaling
	lastWeight := 1.0
	placed := make([]Placement, 0, len(words))

	for i, w := range words {
		if w.Weight <= 0 {
			continue
		}
		if i > 0 && rs != 0 {
			size = math.Round((rs*(w.Weight/lastWeight) + (1 - rs)) * size)
		}
		for size >= opts.MinFontSize {
			bw, bh := measure(w.Text, size)
			bw += 2 * opts.Margin
			bh += 2 * opts.Margin
			if x, y, ok := grid.spiralFit(bw, bh, rng.Float64()*2*math.Pi); ok {
				grid.mark(x, y, bw, bh)
				placed = append(placed, Placement{
					Word:  w,
					Size:  size,
					X:     x + opts.Margin,
					Y:     y + opts.Margin,
					W:     bw - 2*opts.Margin,
					H:     bh - 2*opts.Margin,
					Color: randomColor(rng),
				})
				break
			}
			size = math.Floor(size * 0.9)
		}
		if size < opts.MinFontSize {
			break
		}
		lastWeight = w.Weight
	}
	return placed
}

// randomColor picks a hue at random with 80% saturation and 50% lightness.
func randomColor(rng *rand.Rand) color.RGBA {
	return hsl(float64(rng.Intn(360)), 0.8, 0.5)
}

func hsl(h, s, l float64) color.RGBA {
	c := (1 - math.Abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	to8 := func(v float64) uint8 { return uint8(math.Round((v + m) * 255)) }
	return color.RGBA{R: to8(r), G: to8(g), B: to8(b), A: 0xff}
}
