package wordcloud

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/oukeidos/sentiview/internal/glyph"
)

type Palette struct {
	Background color.Color
	Title      color.Color
}

var (
	LightPalette = Palette{Background: color.White, Title: color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff}}
	DarkPalette  = Palette{Background: color.RGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}, Title: color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}}
)

const titleSize = 16

// Render builds the word cloud for text. The title, when set, takes a band
// at the top and the cloud fills the rest of the canvas.
func Render(text string, opts Options, p Palette) (*image.RGBA, error) {
	opts = opts.withDefaults()
	words := Frequencies(text, opts)
	if len(words) == 0 {
		return nil, ErrNoWords
	}

	faces := glyph.NewCache()
	defer faces.Close()

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(p.Background)
	dc.Clear()

	band := 0
	if opts.Title != "" {
		tf, err := faces.Face(titleSize, glyph.Bold)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(tf)
		dc.SetColor(p.Title)
		_, th := dc.MeasureString(opts.Title)
		dc.DrawStringAnchored(opts.Title, float64(opts.Width)/2, 8, 0.5, 1)
		band = int(math.Ceil(th)) + 16
	}

	cloud := opts
	cloud.Height = opts.Height - band
	if cloud.Height < 1 {
		return img, nil
	}

	var faceErr error
	measure := func(s string, size float64) (int, int) {
		f, err := faces.Face(size, glyph.Regular)
		if err != nil {
			faceErr = err
			return cloud.Width + 1, cloud.Height + 1
		}
		dc.SetFontFace(f)
		w, h := dc.MeasureString(s)
		return int(math.Ceil(w)), int(math.Ceil(h))
	}
	placed := Layout(words, cloud, measure)
	if faceErr != nil {
		return nil, faceErr
	}

	for _, pl := range placed {
		f, err := faces.Face(pl.Size, glyph.Regular)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(f)
		dc.SetColor(pl.Color)
		// baseline sits one ascent below the box top
		ascent := float64(f.Metrics().Ascent) / 64
		dc.DrawString(pl.Text, float64(pl.X), float64(pl.Y+band)+ascent)
	}
	return img, nil
}
