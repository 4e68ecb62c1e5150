package wordcloud

import "math"

// occupancy tracks which pixels are taken, with a summed-area table so a
// rectangle can be tested in constant time.
type occupancy struct {
	w, h  int
	taken []bool
	sum   []int32 // (w+1)*(h+1)
}

func newOccupancy(w, h int) *occupancy {
	return &occupancy{
		w:     w,
		h:     h,
		taken: make([]bool, w*h),
		sum:   make([]int32, (w+1)*(h+1)),
	}
}

func (o *occupancy) free(x, y, bw, bh int) bool {
	if x < 0 || y < 0 || x+bw > o.w || y+bh > o.h {
		return false
	}
	s := o.w + 1
	n := o.sum[(y+bh)*s+x+bw] - o.sum[y*s+x+bw] - o.sum[(y+bh)*s+x] + o.sum[y*s+x]
	return n == 0
}

func (o *occupancy) mark(x, y, bw, bh int) {
	for yy := y; yy < y+bh; yy++ {
		row := yy * o.w
		for xx := x; xx < x+bw; xx++ {
			o.taken[row+xx] = true
		}
	}
	// rows above y are unchanged
	s := o.w + 1
	for yy := y; yy < o.h; yy++ {
		var run int32
		for xx := 0; xx < o.w; xx++ {
			if o.taken[yy*o.w+xx] {
				run++
			}
			o.sum[(yy+1)*s+xx+1] = o.sum[yy*s+xx+1] + run
		}
	}
}

// spiralFit walks r = a·θ from the canvas centre, starting at angle start,
// and returns the first top-left corner where a bw x bh box is free. The
// vertical axis is squashed by the canvas aspect ratio so the cloud fills
// wide canvases. Angular steps shrink with the radius to keep samples
// about three pixels apart.
func (o *occupancy) spiralFit(bw, bh int, start float64) (int, int, bool) {
	if bw > o.w || bh > o.h {
		return 0, 0, false
	}
	cx, cy := float64(o.w)/2, float64(o.h)/2
	aspect := float64(o.h) / float64(o.w)
	limit := math.Hypot(cx, cy/aspect) + 1
	const a = 0.5
	for t := 0.0; a*t <= limit; {
		r := a * t
		x := int(math.Round(cx + r*math.Cos(t+start) - float64(bw)/2))
		y := int(math.Round(cy + r*aspect*math.Sin(t+start) - float64(bh)/2))
		if o.free(x, y, bw, bh) {
			return x, y, true
		}
		t += math.Min(0.5, 3/math.Max(r, 1))
	}
	return 0, 0, false
}
