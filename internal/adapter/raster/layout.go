package raster

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/font"

	"gitlab.com/gradepro.net/internal/domain"
)

const (
	pagePadding = 40.0
	columnGap   = 20.0
	cardPadding = 20.0
	bandPadding = 12.0
)

var (
	colorInk       = rgb(0x1e293b)
	colorMuted     = rgb(0x64748b)
	colorRule      = rgb(0xe2e8f0)
	colorBrand     = rgb(0x4f46e5)
	colorBrandTint = rgb(0xeef2ff)
	colorPanel     = rgb(0xf8fafc)
	colorHeading   = rgb(0x334155)
	colorBody      = rgb(0x475569)
)

type tone struct {
	border, band, body, title, text color.RGBA
}

var (
	toneSummary   = tone{border: rgb(0xcbd5e1), band: rgb(0xf1f5f9), body: rgb(0xffffff), title: colorHeading, text: colorHeading}
	toneStrength  = tone{border: rgb(0xa7f3d0), band: rgb(0xd1fae5), body: rgb(0xecfdf5), title: rgb(0x065f46), text: rgb(0x064e3b)}
	toneImprove   = tone{border: rgb(0xfde68a), band: rgb(0xfef3c7), body: rgb(0xfffbeb), title: rgb(0x92400e), text: rgb(0x78350f)}
	toneFeedback  = tone{border: colorRule, band: colorPanel, body: rgb(0xffffff), title: colorHeading, text: colorBody}
	tonePass      = tone{border: rgb(0xa7f3d0), body: rgb(0xecfdf5), title: rgb(0x065f46), text: rgb(0x059669)}
	toneFail      = tone{border: rgb(0xfecdd3), body: rgb(0xfff1f2), title: rgb(0x9f1239), text: rgb(0xe11d48)}
	toneScoreCard = tone{border: colorRule, body: colorPanel, title: colorMuted, text: colorBrand}
)

type fonts struct {
	title, meta, brand, label, score, heading, summary, item font.Face
}

func (s *Surface) loadFonts(scale float64) (*fonts, error) {
	f := &fonts{}
	specs := []struct {
		dst  *font.Face
		bold bool
		size float64
	}{
		{&f.title, true, 24},
		{&f.meta, false, 12},
		{&f.brand, true, 14},
		{&f.label, true, 12},
		{&f.score, true, 42},
		{&f.heading, true, 14},
		{&f.summary, false, 14},
		{&f.item, false, 13},
	}
	for _, spec := range specs {
		face, err := s.face(spec.bold, spec.size, scale)
		if err != nil {
			return nil, err
		}
		*spec.dst = face
	}
	return f, nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// layoutReport places every block of a report and returns the total height in layout pixels
func layoutReport(c *canvas, view domain.ReportView) (float64, error) {
	f, err := c.surface.loadFonts(c.scale)
	if err != nil {
		return 0, err
	}
	x := pagePadding
	width := c.surface.width - 2*pagePadding
	y := pagePadding

	y = layoutHeader(c, f, view, x, y, width)
	y = layoutScores(c, f, view.Result, x, y, width) + 30

	y = layoutProse(c, f.heading, f.summary, "EXECUTIVE SUMMARY", view.Result.Summary, 14, 1.6, toneSummary, x, y, width, false) + 25

	colWidth := (width - columnGap) / 2
	strengthsH := listCardHeight(c, f, view.Result.Strengths, colWidth)
	improveH := listCardHeight(c, f, view.Result.Improvements, colWidth)
	rowH := math.Max(strengthsH, improveH)
	layoutList(c, f, "Strengths", view.Result.Strengths, toneStrength, x, y, colWidth, rowH)
	layoutList(c, f, "Improvements", view.Result.Improvements, toneImprove, x+colWidth+columnGap, y, colWidth, rowH)
	y += rowH + 25

	y = layoutProse(c, f.heading, f.item, "DETAILED FEEDBACK", view.Result.DetailedFeedback, 13, 1.8, toneFeedback, x, y, width, true)

	return y + pagePadding, nil
}

func layoutHeader(c *canvas, f *fonts, view domain.ReportView, x, y, width float64) float64 {
	top := y
	titleLH := 24 * 1.2
	for _, line := range c.wrap(f.title, view.FileName, width*0.7) {
		c.text(f.title, x, y, titleLH, line, colorInk)
		y += titleLH
	}
	y += 8
	metaLH := 12 * 1.4
	c.text(f.meta, x, y, metaLH, "Graded on: "+view.GradedOn.Format("January 2, 2006"), colorMuted)
	y += metaLH

	if view.Brand != "" {
		badgeLH := 14 * 1.4
		badgeW := c.width(f.brand, view.Brand) + 24
		badgeH := badgeLH + 12
		bx := x + width - badgeW
		c.roundRect(bx, top, badgeW, badgeH, 6, colorBrandTint, true, true)
		c.text(f.brand, bx+12, top+6, badgeLH, view.Brand, colorBrand)
		y = math.Max(y, top+badgeH)
	}

	y += 20
	c.rect(x, y, width, 2, colorRule)
	return y + 2 + 30
}

func layoutScores(c *canvas, f *fonts, result domain.GradingResult, x, y, width float64) float64 {
	const padding = 25.0
	labelLH, scoreLH := 12*1.4, 42*1.2
	boxW := (width - columnGap) / 2
	boxH := padding + labelLH + 8 + scoreLH + padding

	grade := toneFail
	if result.IsPassing() {
		grade = tonePass
	}
	boxes := []struct {
		label, value string
		t            tone
	}{
		{"TOTAL SCORE", formatScore(result.Score), toneScoreCard},
		{"GRADE", result.LetterGrade, grade},
	}
	for i, b := range boxes {
		bx := x + float64(i)*(boxW+columnGap)
		c.roundRect(bx, y, boxW, boxH, 12, b.t.border, true, true)
		c.roundRect(bx+1, y+1, boxW-2, boxH-2, 11, b.t.body, true, true)

		ly := y + padding
		c.text(f.label, bx+(boxW-c.width(f.label, b.label))/2, ly, labelLH, b.label, b.t.title)
		ly += labelLH + 8
		c.text(f.score, bx+(boxW-c.width(f.score, b.value))/2, ly, scoreLH, b.value, b.t.text)
	}
	return y + boxH
}

func bandHeight() float64 {
	return bandPadding + 14*1.4 + bandPadding
}

// layoutProse draws a titled card holding wrapped text and returns the y below it
func layoutProse(c *canvas, heading, body font.Face, title, text string, size, lineHeight float64, t tone, x, y, width float64, preformatted bool) float64 {
	lh := size * lineHeight
	inner := width - 2*cardPadding
	var lines []string
	if preformatted {
		lines = c.wrapPreformatted(body, text, inner)
	} else {
		lines = c.wrap(body, text, inner)
	}

	bandH := bandHeight()
	h := 1 + bandH + 1 + cardPadding + float64(len(lines))*lh + cardPadding + 1
	c.card(x, y, width, h, bandH, t.border, t.band, t.body)
	c.text(heading, x+1+cardPadding, y+1+bandPadding, 14*1.4, title, t.title)

	ly := y + 2 + bandH + cardPadding
	for _, line := range lines {
		c.text(body, x+1+cardPadding, ly, lh, line, t.text)
		ly += lh
	}
	return y + h
}

const (
	itemLineHeight = 13 * 1.6
	itemSpacing    = 6.0
	bulletIndent   = 20.0
)

func listItemLines(c *canvas, f *fonts, items []string, width float64) [][]string {
	inner := width - 2*cardPadding - bulletIndent
	out := make([][]string, 0, len(items))
	for _, item := range items {
		lines := c.wrap(f.item, strings.TrimSpace(item), inner)
		if len(lines) == 0 {
			lines = []string{""}
		}
		out = append(out, lines)
	}
	return out
}

func listCardHeight(c *canvas, f *fonts, items []string, width float64) float64 {
	h := 1 + bandHeight() + 1 + cardPadding + cardPadding + 1
	for _, lines := range listItemLines(c, f, items, width) {
		h += float64(len(lines))*itemLineHeight + itemSpacing
	}
	return h
}

// layoutList draws a titled bullet list card of the given height
func layoutList(c *canvas, f *fonts, title string, items []string, t tone, x, y, width, h float64) {
	bandH := bandHeight()
	c.card(x, y, width, h, bandH, t.border, t.band, t.body)
	c.text(f.heading, x+1+cardPadding, y+1+bandPadding, 14*1.4, title, t.title)

	ly := y + 2 + bandH + cardPadding
	textX := x + 1 + cardPadding + bulletIndent
	for _, lines := range listItemLines(c, f, items, width) {
		c.text(f.item, textX-12, ly, itemLineHeight, "•", t.text)
		for _, line := range lines {
			c.text(f.item, textX, ly, itemLineHeight, line, t.text)
			ly += itemLineHeight
		}
		ly += itemSpacing
	}
}
