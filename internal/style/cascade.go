package style

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/gompdf/cvpager/internal/markup"
)

// Specificity represents the specificity of a CSS selector
type Specificity struct {
	ID      int
	Class   int
	Element int
}

func (s Specificity) compare(o Specificity) int {
	if s.ID != o.ID {
		return s.ID - o.ID
	}
	if s.Class != o.Class {
		return s.Class - o.Class
	}
	return s.Element - o.Element
}

// Source represents the origin of a style property
type Source int

const (
	SourceUserAgent Source = iota
	SourceAuthor
	SourceInline
)

// Property is a declared value that won the cascade for one element.
type Property struct {
	Value       string
	Important   bool
	Source      Source
	Specificity Specificity
	order       int
}

// beats reports whether p takes precedence over o.
func (p Property) beats(o Property) bool {
	if p.Important != o.Important {
		return p.Important
	}
	if p.Source != o.Source {
		return p.Source > o.Source
	}
	if c := p.Specificity.compare(o.Specificity); c != 0 {
		return c > 0
	}
	return p.order >= o.order
}

// ComputedStyle maps property names to their cascaded values for one element.
type ComputedStyle map[string]Property

// Get returns the trimmed value of property name.
func (c ComputedStyle) Get(name string) (string, bool) {
	p, ok := c[name]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(p.Value), true
}

// Cascade matches stylesheet rules against fragment elements.
type Cascade struct {
	userAgent *Stylesheet
	author    []*Stylesheet
}

// NewCascade creates a cascade seeded with the user agent defaults.
func NewCascade(author ...*Stylesheet) *Cascade {
	return &Cascade{
		userAgent: userAgentStyles,
		author:    author,
	}
}

// AddStylesheet adds an author stylesheet to the cascade
func (c *Cascade) AddStylesheet(sheet *Stylesheet) {
	c.author = append(c.author, sheet)
}

// Compute returns the declared style of a single element, inline styles included.
func (c *Cascade) Compute(n *html.Node) ComputedStyle {
	style := make(ComputedStyle)
	if n == nil || n.Type != html.ElementNode {
		return style
	}
	order := 0
	apply := func(decls []Declaration, spec Specificity, src Source) {
		for _, d := range decls {
			order++
			p := Property{Value: d.Value, Important: d.Important, Source: src, Specificity: spec, order: order}
			for _, expanded := range expandShorthand(d.Property, p) {
				if cur, ok := style[expanded.name]; !ok || expanded.prop.beats(cur) {
					style[expanded.name] = expanded.prop
				}
			}
		}
	}

	c.applySheet(n, c.userAgent, SourceUserAgent, apply)
	for _, sheet := range c.author {
		c.applySheet(n, sheet, SourceAuthor, apply)
	}
	if inline, ok := markup.AttrValue(n, "style"); ok {
		apply(ParseDeclarations(inline), Specificity{ID: 1}, SourceInline)
	}
	return style
}

func (c *Cascade) applySheet(n *html.Node, sheet *Stylesheet, src Source, apply func([]Declaration, Specificity, Source)) {
	if sheet == nil {
		return
	}
	for _, rule := range sheet.Rules {
		best, matched := Specificity{}, false
		for _, sel := range rule.Selectors {
			if !selectorMatches(n, sel) {
				continue
			}
			spec := selectorSpecificity(sel)
			if !matched || spec.compare(best) > 0 {
				best, matched = spec, true
			}
		}
		if matched {
			apply(rule.Declarations, best, src)
		}
	}
}

type expandedProperty struct {
	name string
	prop Property
}

// expandShorthand splits margin, padding and border shorthands into their
// longhand sides. Other properties pass through unchanged.
func expandShorthand(name string, p Property) []expandedProperty {
	switch name {
	case "margin", "padding":
		vals := strings.Fields(p.Value)
		var t, r, b, l string
		switch len(vals) {
		case 1:
			t, r, b, l = vals[0], vals[0], vals[0], vals[0]
		case 2:
			t, r, b, l = vals[0], vals[1], vals[0], vals[1]
		case 3:
			t, r, b, l = vals[0], vals[1], vals[2], vals[1]
		case 4:
			t, r, b, l = vals[0], vals[1], vals[2], vals[3]
		default:
			return nil
		}
		return []expandedProperty{
			{name + "-top", with(p, t)},
			{name + "-right", with(p, r)},
			{name + "-bottom", with(p, b)},
			{name + "-left", with(p, l)},
		}
	case "border":
		return []expandedProperty{
			{"border-top", p}, {"border-right", p}, {"border-bottom", p}, {"border-left", p},
		}
	}
	return []expandedProperty{{name, p}}
}

func with(p Property, value string) Property {
	p.Value = value
	return p
}

// selectorMatches checks a descendant-combinator selector against n.
func selectorMatches(n *html.Node, selector string) bool {
	parts := strings.Fields(selector)
	if len(parts) == 0 || !matchCompound(n, parts[len(parts)-1]) {
		return false
	}
	cur := n.Parent
	for i := len(parts) - 2; i >= 0; i-- {
		found := false
		for ; cur != nil; cur = cur.Parent {
			if matchCompound(cur, parts[i]) {
				found = true
				cur = cur.Parent
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// matchCompound matches tag, #id and .class parts of a compound selector.
// Attribute selectors and pseudo-classes never match.
func matchCompound(n *html.Node, sel string) bool {
	if n == nil || n.Type != html.ElementNode || sel == "" {
		return false
	}
	if strings.ContainsAny(sel, "[:>+~") {
		return false
	}

	tag, rest := sel, ""
	if i := strings.IndexAny(sel, ".#"); i >= 0 {
		tag, rest = sel[:i], sel[i:]
	}
	if tag != "" && tag != "*" && !strings.EqualFold(tag, n.Data) {
		return false
	}

	classes := markup.Classes(n)
	for rest != "" {
		kind := rest[0]
		rest = rest[1:]
		name := rest
		if i := strings.IndexAny(rest, ".#"); i >= 0 {
			name, rest = rest[:i], rest[i:]
		} else {
			rest = ""
		}
		switch kind {
		case '#':
			if id, _ := markup.AttrValue(n, "id"); id != name {
				return false
			}
		case '.':
			if !contains(classes, name) {
				return false
			}
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func selectorSpecificity(selector string) Specificity {
	var s Specificity
	for _, part := range strings.Fields(selector) {
		s.ID += strings.Count(part, "#")
		s.Class += strings.Count(part, ".")
		if part[0] != '.' && part[0] != '#' && part[0] != '*' {
			s.Element++
		}
	}
	return s
}

var userAgentStyles = ParseCSSString(`
	h1 { font-size: 2em; font-weight: bold; margin: 0.67em 0; }
	h2 { font-size: 1.5em; font-weight: bold; margin: 0.83em 0; }
	h3 { font-size: 1.17em; font-weight: bold; margin: 1em 0; }
	h4 { font-weight: bold; margin: 1.33em 0; }
	p { margin: 1em 0; }
	ul, ol { margin: 1em 0; padding-left: 40px; }
	b, strong, th { font-weight: bold; }
	i, em { font-style: italic; }
	span, a, b, strong, i, em, small, time, br { display: inline; }
	small { font-size: 0.83em; }
	head, style, script, template { display: none; }
`)
