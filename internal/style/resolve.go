package style

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Display is the resolved display role of an element.
type Display int

const (
	DisplayBlock Display = iota
	DisplayInline
	DisplayNone
)

// Box is the resolved, pixel-valued style of one element. Font properties
// are inherited from the parent box; box metrics are not.
type Box struct {
	Display    Display
	FontFamily string
	FontSize   float64
	LineHeight float64
	Bold       bool
	Italic     bool
	Uppercase  bool
	Height     float64 // explicit height, 0 when auto

	MarginTop, MarginBottom   float64
	PaddingTop, PaddingBottom float64
	PaddingLeft, PaddingRight float64
	MarginLeft, MarginRight   float64
	BorderTop, BorderBottom   float64
}

// RootBox is the box a fragment inherits from: the typography of the page.
func RootBox(t Typography) Box {
	t = t.withDefaults()
	return Box{
		FontFamily: t.FontFamily,
		FontSize:   t.FontSize,
		LineHeight: t.FontSize * t.LineHeight,
	}
}

// Resolve computes the box of n given its parent box and the root font size.
func (c *Cascade) Resolve(n *html.Node, parent Box, rootFontSize float64) Box {
	cs := c.Compute(n)
	b := Box{
		FontFamily: parent.FontFamily,
		FontSize:   parent.FontSize,
		LineHeight: parent.LineHeight,
		Bold:       parent.Bold,
		Italic:     parent.Italic,
		Uppercase:  parent.Uppercase,
	}
	if n != nil && n.Type == html.ElementNode && isInlineTag(n.Data) {
		b.Display = DisplayInline
	}

	if v, ok := cs.Get("display"); ok {
		switch v {
		case "none":
			b.Display = DisplayNone
		case "inline", "inline-block":
			b.Display = DisplayInline
		default:
			b.Display = DisplayBlock
		}
	}
	if v, ok := cs.Get("font-family"); ok {
		b.FontFamily = v
	}
	if v, ok := cs.Get("font-size"); ok {
		b.FontSize = parseLength(v, parent.FontSize, rootFontSize, parent.FontSize)
	}
	if v, ok := cs.Get("font-weight"); ok {
		b.Bold = isBold(v)
	}
	if v, ok := cs.Get("font-style"); ok {
		b.Italic = v == "italic" || v == "oblique"
	}
	if v, ok := cs.Get("text-transform"); ok {
		b.Uppercase = v == "uppercase"
	}

	// A unitless line-height inherits as a factor, so it is recomputed
	// against this element's font size.
	switch v, ok := cs.Get("line-height"); {
	case ok:
		b.LineHeight = parseLineHeight(v, b.FontSize, rootFontSize)
	case parent.FontSize > 0 && b.FontSize != parent.FontSize:
		b.LineHeight = parent.LineHeight / parent.FontSize * b.FontSize
	}

	px := func(name string) float64 {
		v, ok := cs.Get(name)
		if !ok {
			return 0
		}
		return parseLength(v, b.FontSize, rootFontSize, 0)
	}
	b.MarginTop = px("margin-top")
	b.MarginBottom = px("margin-bottom")
	b.MarginLeft = px("margin-left")
	b.MarginRight = px("margin-right")
	b.PaddingTop = px("padding-top")
	b.PaddingBottom = px("padding-bottom")
	b.PaddingLeft = px("padding-left")
	b.PaddingRight = px("padding-right")
	b.Height = px("height")
	b.BorderTop = borderWidth(cs, "border-top", b.FontSize, rootFontSize)
	b.BorderBottom = borderWidth(cs, "border-bottom", b.FontSize, rootFontSize)
	return b
}

// OuterVertical is the vertical space the box adds around its content.
func (b Box) OuterVertical() float64 {
	return b.MarginTop + b.MarginBottom + b.PaddingTop + b.PaddingBottom + b.BorderTop + b.BorderBottom
}

// InnerWidth is the content width of the box inside a container of width w.
func (b Box) InnerWidth(w float64) float64 {
	inner := w - b.MarginLeft - b.MarginRight - b.PaddingLeft - b.PaddingRight
	if inner < 0 {
		return 0
	}
	return inner
}

func isInlineTag(tag string) bool {
	switch strings.ToLower(tag) {
	case "span", "a", "b", "strong", "i", "em", "small", "time", "br", "abbr", "code", "sub", "sup", "u":
		return true
	}
	return false
}

func isBold(v string) bool {
	switch v {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

func borderWidth(cs ComputedStyle, name string, fontSize, rootFontSize float64) float64 {
	if v, ok := cs.Get(name + "-width"); ok {
		return parseLength(v, fontSize, rootFontSize, 0)
	}
	v, ok := cs.Get(name)
	if !ok {
		return 0
	}
	for _, f := range strings.Fields(v) {
		switch f {
		case "none", "hidden":
			return 0
		case "thin":
			return 1
		case "medium":
			return 3
		case "thick":
			return 5
		}
		if w, ok := lengthValue(f, fontSize, rootFontSize); ok {
			return w
		}
	}
	return 0
}

func parseLineHeight(v string, fontSize, rootFontSize float64) float64 {
	if v == "normal" {
		return 1.2 * fontSize
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f * fontSize
	}
	return parseLength(v, fontSize, rootFontSize, 1.2*fontSize)
}

// parseLength converts a CSS length to pixels. em and % are relative to
// emBase, rem to rootFontSize. def is returned for unparseable values.
func parseLength(v string, emBase, rootFontSize, def float64) float64 {
	if px, ok := lengthValue(v, emBase, rootFontSize); ok {
		return px
	}
	return def
}

func lengthValue(v string, emBase, rootFontSize float64) (float64, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "0" || v == "auto" {
		return 0, true
	}
	units := []struct {
		suffix string
		scale  float64
	}{
		{"px", 1},
		{"pt", 96.0 / 72.0},
		{"rem", rootFontSize},
		{"em", emBase},
		{"%", emBase / 100},
		{"mm", 96.0 / 25.4},
		{"cm", 96.0 / 2.54},
		{"in", 96},
	}
	for _, u := range units {
		num, ok := strings.CutSuffix(v, u.suffix)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, false
		}
		return f * u.scale, true
	}
	return 0, false
}
