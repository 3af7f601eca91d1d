package raster

import (
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// canvas draws in layout pixels. With a nil img it only measures.
type canvas struct {
	surface *Surface
	scale   float64
	img     *image.RGBA
}

func rgb(hex uint32) color.RGBA {
	return color.RGBA{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex), A: 0xff}
}

func (c *canvas) dev(v float64) int {
	return int(math.Round(v * c.scale))
}

// roundRect fills a rectangle whose top and/or bottom corners are rounded by r
func (c *canvas) roundRect(x, y, w, h, r float64, col color.RGBA, roundTop, roundBottom bool) {
	if c.img == nil || w <= 0 || h <= 0 {
		return
	}
	x0, y0, x1, y1 := c.dev(x), c.dev(y), c.dev(x+w), c.dev(y+h)
	rad := c.dev(r)
	if rad*2 > x1-x0 {
		rad = (x1 - x0) / 2
	}
	if rad*2 > y1-y0 {
		rad = (y1 - y0) / 2
	}
	src := image.NewUniform(col)

	for py := y0; py < y1; py++ {
		inset := 0
		switch {
		case roundTop && py < y0+rad:
			inset = cornerInset(rad, y0+rad-py)
		case roundBottom && py >= y1-rad:
			inset = cornerInset(rad, py-(y1-rad)+1)
		}
		draw.Draw(c.img, image.Rect(x0+inset, py, x1-inset, py+1), src, image.Point{}, draw.Src)
	}
}

// cornerInset is the horizontal inset of a circle of radius r, dy rows from its centre
func cornerInset(r, dy int) int {
	d := float64(dy) - 0.5
	return r - int(math.Round(math.Sqrt(math.Max(0, float64(r*r)-d*d))))
}

func (c *canvas) rect(x, y, w, h float64, col color.RGBA) {
	c.roundRect(x, y, w, h, 0, col, false, false)
}

// card draws a bordered panel with a coloured title band
func (c *canvas) card(x, y, w, h, bandH float64, border, band, body color.RGBA) {
	c.roundRect(x, y, w, h, 12, border, true, true)
	c.roundRect(x+1, y+1, w-2, bandH, 11, band, true, false)
	c.rect(x+1, y+1+bandH, w-2, 1, border)
	c.roundRect(x+1, y+2+bandH, w-2, h-bandH-3, 11, body, false, true)
}

// width returns the advance of s in layout pixels
func (c *canvas) width(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64 / c.scale
}

// text draws one line vertically centred in a box that starts at top and is lineHeight tall
func (c *canvas) text(face font.Face, x, top, lineHeight float64, s string, col color.RGBA) {
	if c.img == nil || s == "" {
		return
	}
	m := face.Metrics()
	ascent, descent := float64(m.Ascent)/64, float64(m.Descent)/64
	baseline := (top+lineHeight/2)*c.scale + (ascent-descent)/2
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(c.dev(x), int(math.Round(baseline))),
	}
	d.DrawString(s)
}

// wrap breaks s into lines no wider than maxWidth. Words wider than a line are split by rune.
func (c *canvas) wrap(face font.Face, s string, maxWidth float64) []string {
	var lines []string
	current := ""
	for _, word := range strings.Fields(s) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if c.width(face, candidate) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		if c.width(face, word) <= maxWidth {
			current = word
			continue
		}
		for _, r := range word {
			next := current + string(r)
			if current != "" && c.width(face, next) > maxWidth {
				lines = append(lines, current)
				next = string(r)
			}
			current = next
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// wrapPreformatted keeps explicit line breaks, wrapping each paragraph separately
func (c *canvas) wrapPreformatted(face font.Face, s string, maxWidth float64) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		wrapped := c.wrap(face, para, maxWidth)
		if len(wrapped) == 0 {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapped...)
	}
	return lines
}
