// Package glyph supplies font faces built from the embedded Go fonts.
package glyph

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type Weight int

const (
	Regular Weight = iota
	Bold
)

var (
	parseOnce sync.Once
	fonts     [2]*opentype.Font
	parseErr  error
)

func parsed(w Weight) (*opentype.Font, error) {
	parseOnce.Do(func() {
		if fonts[Regular], parseErr = opentype.Parse(goregular.TTF); parseErr != nil {
			return
		}
		fonts[Bold], parseErr = opentype.Parse(gobold.TTF)
	})
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", parseErr)
	}
	if w != Bold {
		w = Regular
	}
	return fonts[w], nil
}

type faceKey struct {
	size   int // in 1/64 pt
	weight Weight
}

// Cache hands out faces by size and weight. Faces are not safe for
// concurrent use, so each renderer owns its own Cache.
type Cache struct {
	faces map[faceKey]font.Face
}

func NewCache() *Cache {
	return &Cache{faces: make(map[faceKey]font.Face)}
}

// Face returns a face at size points (72 DPI, so points equal pixels).
func (c *Cache) Face(size float64, w Weight) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %v", size)
	}
	key := faceKey{size: int(math.Round(size * 64)), weight: w}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	ft, err := parsed(w)
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    float64(key.size) / 64,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	c.faces[key] = f
	return f, nil
}

// Close releases every cached face.
func (c *Cache) Close() {
	for k, f := range c.faces {
		f.Close()
		delete(c.faces, k)
	}
}
