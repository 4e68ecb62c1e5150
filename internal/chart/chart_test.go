package chart

import (
	"image"
	"image/color"
	"reflect"
	"testing"

	"github.com/oukeidos/sentiview/internal/sentiment"
)

func countColor(img *image.RGBA, c color.Color) int {
	want := color.RGBAModel.Convert(c).(color.RGBA)
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == want {
				n++
			}
		}
	}
	return n
}

func TestRender_SentimentCounts(t *testing.T) {
	img, err := Render(SentimentSpec(sentiment.Counts{Positive: 2, Negative: 1}), LightPalette)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Bounds().Dx() != DefaultWidth || img.Bounds().Dy() != DefaultHeight {
		t.Fatalf("size = %v", img.Bounds())
	}
	green := countColor(img, Green)
	red := countColor(img, Red)
	if green == 0 || red == 0 {
		t.Fatalf("expected both bars, green=%d red=%d", green, red)
	}
	if green <= red {
		t.Fatalf("positive bar (2) should be larger than negative bar (1): green=%d red=%d", green, red)
	}
}

func TestRender_ZeroBarDrawsNothing(t *testing.T) {
	img, err := Render(SentimentSpec(sentiment.Counts{Positive: 3}), LightPalette)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if countColor(img, Red) != 0 {
		t.Fatal("zero-valued bar must not be drawn")
	}
	if countColor(img, Green) == 0 {
		t.Fatal("positive bar missing")
	}
}

func TestRender_EqualAndEmptyCounts(t *testing.T) {
	for _, c := range []sentiment.Counts{{}, {Positive: 4, Negative: 4}} {
		img, err := Render(SentimentSpec(c), LightPalette)
		if err != nil {
			t.Fatalf("Render(%+v): %v", c, err)
		}
		if c.Positive > 0 && countColor(img, Green) != countColor(img, Red) {
			t.Fatalf("equal counts should draw equal bars: %+v", c)
		}
		if c.Positive == 0 && countColor(img, Green)+countColor(img, Red) != 0 {
			t.Fatal("empty run must draw no bars")
		}
	}
}

func TestRender_UsesPaletteForUncolouredBars(t *testing.T) {
	spec := Spec{Title: "t", Bars: []Bar{{Label: "a", Value: 1}, {Label: "b", Value: 1}}}
	img, err := Render(spec, LightPalette)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if countColor(img, Green) == 0 || countColor(img, Red) == 0 {
		t.Fatal("bars without a colour should take the palette series colours")
	}
}

func TestRender_PaletteBackground(t *testing.T) {
	img, err := Render(SentimentSpec(sentiment.Counts{Positive: 1, Negative: 1}), DarkPalette)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := color.RGBAModel.Convert(DarkPalette.Background).(color.RGBA)
	if got := img.RGBAAt(1, 1); got != want {
		t.Fatalf("corner pixel = %v, want %v", got, want)
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := Render(Spec{}, LightPalette); err != ErrNoBars {
		t.Fatalf("err = %v, want ErrNoBars", err)
	}
	small := SentimentSpec(sentiment.Counts{Positive: 1})
	small.Width, small.Height = 50, 50
	if _, err := Render(small, LightPalette); err == nil {
		t.Fatal("expected error for tiny chart")
	}
	neg := Spec{Bars: []Bar{{Label: "x", Value: -1, Color: Red}}}
	if _, err := Render(neg, LightPalette); err == nil {
		t.Fatal("expected error for negative value")
	}
}

func TestTicks(t *testing.T) {
	cases := []struct {
		max  int
		want []int
	}{
		{0, []int{0, 1}},
		{2, []int{0, 1, 2, 3}},
		{8, []int{0, 2, 4, 6, 8, 10}},
		{100, []int{0, 20, 40, 60, 80, 100, 120}},
	}
	for _, tc := range cases {
		if got := Ticks(tc.max); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Ticks(%d) = %v, want %v", tc.max, got, tc.want)
		}
	}
}
