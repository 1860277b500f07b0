package measure

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/net/html"

	"github.com/gompdf/cvpager/internal/markup"
	"github.com/gompdf/cvpager/internal/style"
)

// Metrics measures fragments by typesetting them against core PDF font
// metrics: the template stylesheet is cascaded over each fragment and its
// text is word-wrapped greedily to the request width. It needs no browser
// and is fully deterministic. Vertical margins are summed, not collapsed.
type Metrics struct {
	mu        sync.Mutex
	pdf       *fpdf.Fpdf
	translate func(string) string
	parser    *markup.Parser
}

// NewMetrics creates a font-metrics measurement provider.
func NewMetrics() *Metrics {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	return &Metrics{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
		parser:    markup.NewParser(),
	}
}

// Measure implements Provider.
func (m *Metrics) Measure(ctx context.Context, req Request) ([]float64, error) {
	typo := req.Typography.Normalize()
	cascade := style.NewCascade(style.ParseCSSString(req.Stylesheet))
	root := markup.El("div", []markup.Attr{markup.Class("cv-root")})
	rootBox := cascade.Resolve(root, style.RootBox(typo), typo.FontSize)

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]float64, len(req.Blocks))
	for i, b := range req.Blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !b.Visible() {
			continue
		}
		nodes, err := m.parser.ParseString(b.Content)
		if err != nil {
			return nil, fmt.Errorf("measure: parse block %d: %w", b.Order, err)
		}
		holder := markup.El("div", []markup.Attr{markup.Class("cv-root")}, nodes...)
		t := typesetter{m: m, cascade: cascade, rootFontSize: typo.FontSize}
		out[i] = t.content(holder, rootBox, req.Width)
	}
	return out, nil
}

type typesetter struct {
	m            *Metrics
	cascade      *style.Cascade
	rootFontSize float64
}

// element returns the outer height of a block-level element.
func (t typesetter) element(n *html.Node, parent style.Box, width float64) float64 {
	box := t.cascade.Resolve(n, parent, t.rootFontSize)
	if box.Display == style.DisplayNone {
		return 0
	}
	h := box.Height
	if h == 0 {
		h = t.content(n, box, box.InnerWidth(width))
	}
	return h + box.OuterVertical()
}

// content stacks the children of n: runs of inline children are wrapped
// into lines, block children are measured recursively.
func (t typesetter) content(n *html.Node, box style.Box, width float64) float64 {
	var (
		total float64
		runs  []run
	)
	flush := func() {
		total += t.lines(runs, box, width)
		runs = runs[:0]
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			runs = append(runs, run{text: c.Data, box: box})
		case html.ElementNode:
			cb := t.cascade.Resolve(c, box, t.rootFontSize)
			switch cb.Display {
			case style.DisplayNone:
			case style.DisplayInline:
				t.collect(c, cb, &runs)
			default:
				flush()
				total += t.element(c, box, width)
			}
		}
	}
	flush()
	return total
}

type run struct {
	text  string
	box   style.Box
	brk   bool
	extra float64 // horizontal margin and padding of an inline element
}

func (t typesetter) collect(n *html.Node, box style.Box, out *[]run) {
	if strings.EqualFold(n.Data, "br") {
		*out = append(*out, run{brk: true, box: box})
		return
	}
	if ex := box.MarginLeft + box.MarginRight + box.PaddingLeft + box.PaddingRight; ex > 0 {
		*out = append(*out, run{box: box, extra: ex})
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			*out = append(*out, run{text: c.Data, box: box})
		case html.ElementNode:
			cb := t.cascade.Resolve(c, box, t.rootFontSize)
			if cb.Display != style.DisplayNone {
				t.collect(c, cb, out)
			}
		}
	}
}

// lines wraps runs into lines no wider than width and returns their total
// height. Each line is as tall as its tallest run, and never shorter than
// the container's own line height.
func (t typesetter) lines(runs []run, box style.Box, width float64) float64 {
	var (
		total   float64
		lineW   float64
		lineH   float64
		inLine  bool
		pending bool
	)
	emit := func() {
		if inLine {
			total += max(lineH, box.LineHeight)
		}
		lineW, lineH, inLine = 0, 0, false
	}

	for _, r := range runs {
		if r.brk {
			if !inLine {
				inLine, lineH = true, r.box.LineHeight
			}
			emit()
			pending = false
			continue
		}
		if r.extra > 0 {
			lineW += r.extra
			continue
		}
		text := r.text
		if r.box.Uppercase {
			text = strings.ToUpper(text)
		}
		if text != "" && unicode.IsSpace(rune(text[0])) {
			pending = true
		}
		for _, w := range strings.Fields(text) {
			ww := t.width(w, r.box)
			sp := 0.0
			if pending && inLine {
				sp = t.width(" ", r.box)
			}
			if inLine && lineW+sp+ww > width {
				emit()
				sp = 0
			}
			lineW += sp + ww
			lineH = max(lineH, r.box.LineHeight)
			inLine = true
			pending = true
		}
		if text != "" && !unicode.IsSpace(rune(text[len(text)-1])) {
			pending = false
		}
	}
	emit()
	return total
}

// width measures s in the font of box. Font sizes are pixels; with a pt
// unit document the returned width is in pixels too.
func (t typesetter) width(s string, box style.Box) float64 {
	family, st := coreFont(box)
	t.m.pdf.SetFont(family, st, box.FontSize)
	return t.m.pdf.GetStringWidth(t.m.translate(s))
}

// coreFont maps a CSS font stack onto the core PDF fonts.
func coreFont(box style.Box) (string, string) {
	family := "Helvetica"
	first, _, _ := strings.Cut(box.FontFamily, ",")
	switch strings.ToLower(strings.Trim(strings.TrimSpace(first), `'"`)) {
	case "times", "times new roman", "georgia", "garamond", "serif":
		family = "Times"
	case "courier", "courier new", "monospace":
		family = "Courier"
	}
	st := ""
	if box.Bold {
		st += "B"
	}
	if box.Italic {
		st += "I"
	}
	return family, st
}

var _ Provider = (*Metrics)(nil)
var _ Provider = Fixed{}
var _ Provider = Func(nil)

