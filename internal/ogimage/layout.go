// Package ogimage renders Open Graph preview cards. One layout model drives
// both the SVG and the raster output, and rendering never consults the clock,
// so equal input yields byte-identical files.
package ogimage

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/posts"
)

// Card dimensions in pixels.
const (
	Width  = 1200
	Height = 630
)

const (
	marginX        = 80
	kickerY        = 110
	kickerSize     = 30.0
	titleTop       = 215
	titleSize      = 60.0
	titleLeading   = 76
	subtitleSize   = 34.0
	subtitleLead   = 46
	metaY          = 540
	metaSize       = 28.0
	tagsY          = 582
	tagsSize       = 26.0
	accentBarWidth = 12
	maxTags        = 4
)

// Card is the content of one image.
type Card struct {
	Kicker   string
	Title    string
	Subtitle string
	Meta     string
	Tags     []string
}

// PostCard describes a post: title, date, reading time and tags.
func PostCard(p *posts.Post, siteName string) Card {
	tags := p.Tags
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return Card{
		Kicker: siteName,
		Title:  p.Title,
		Meta:   fmt.Sprintf("%s · %d min read", p.Date.UTC().Format("January 2, 2006"), p.ReadingTime),
		Tags:   tags,
	}
}

// SiteCard describes the site itself.
func SiteCard(site config.SiteConfig) Card {
	kicker := site.BaseURL
	if i := strings.Index(kicker, "://"); i >= 0 {
		kicker = kicker[i+3:]
	}
	c := Card{Kicker: kicker, Title: site.Title, Subtitle: site.Description}
	if site.Owner.JobTitle != "" && site.Owner.Name != "" {
		c.Meta = site.Owner.Name + " · " + site.Owner.JobTitle
	}
	return c
}

// Palette holds the card colors.
type Palette struct {
	Background color.RGBA
	Foreground color.RGBA
	Accent     color.RGBA
	Muted      color.RGBA
}

// PaletteFromConfig parses #rgb / #rrggbb colors.
func PaletteFromConfig(c config.ColorsConfig) (Palette, error) {
	var p Palette
	var err error
	for _, f := range []struct {
		dst *color.RGBA
		src string
	}{
		{&p.Background, c.Background},
		{&p.Foreground, c.Foreground},
		{&p.Accent, c.Accent},
		{&p.Muted, c.Muted},
	} {
		if *f.dst, err = ParseHex(f.src); err != nil {
			return Palette{}, err
		}
	}
	return p, nil
}

// ParseHex parses #rgb or #rrggbb into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Text is one line of text anchored at its left baseline.
type Text struct {
	Value string
	X, Y  int
	Size  float64
	Bold  bool
	Color color.RGBA
}

// Rect is a filled rectangle.
type Rect struct {
	X, Y, W, H int
	Color      color.RGBA
}

// Layout is a resolved card: every element has a position, size and color.
type Layout struct {
	Width, Height int
	Background    color.RGBA
	Rects         []Rect
	Texts         []Text
}

// Style controls how cards are laid out.
type Style struct {
	Palette      Palette
	MaxLineChars int
	MaxLines     int
}

// Layout positions the card elements.
func (s Style) Layout(c Card) Layout {
	p := s.Palette
	l := Layout{
		Width:      Width,
		Height:     Height,
		Background: p.Background,
		Rects: []Rect{
			{X: 0, Y: 0, W: accentBarWidth, H: Height, Color: p.Accent},
		},
	}

	if c.Kicker != "" {
		l.Texts = append(l.Texts, Text{Value: c.Kicker, X: marginX, Y: kickerY, Size: kickerSize, Bold: true, Color: p.Accent})
	}

	y := titleTop
	for _, line := range WrapTitle(c.Title, s.MaxLineChars, s.MaxLines) {
		l.Texts = append(l.Texts, Text{Value: line, X: marginX, Y: y, Size: titleSize, Bold: true, Color: p.Foreground})
		y += titleLeading
	}

	if c.Subtitle != "" {
		y += subtitleLead / 2
		// Subtitles use the smaller face, so they fit more characters per line.
		subChars := s.MaxLineChars * int(titleSize) / int(subtitleSize)
		for _, line := range WrapTitle(c.Subtitle, subChars, 2) {
			l.Texts = append(l.Texts, Text{Value: line, X: marginX, Y: y, Size: subtitleSize, Color: p.Muted})
			y += subtitleLead
		}
	}

	if c.Meta != "" {
		l.Texts = append(l.Texts, Text{Value: c.Meta, X: marginX, Y: metaY, Size: metaSize, Color: p.Muted})
	}
	if len(c.Tags) > 0 {
		labels := make([]string, 0, len(c.Tags))
		for _, t := range c.Tags {
			labels = append(labels, "#"+t)
		}
		l.Texts = append(l.Texts, Text{Value: strings.Join(labels, "  "), X: marginX, Y: tagsY, Size: tagsSize, Color: p.Accent})
	}
	return l
}
