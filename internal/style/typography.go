// Package style turns template typography into the résumé stylesheet and
// resolves that stylesheet against block fragments.
package style

import (
	"fmt"
	"strings"
)

// Typography carries the user-selected font settings. LineHeight is a
// factor of FontSize; FontSize is in pixels.
type Typography struct {
	FontFamily  string  `toml:"font_family" json:"fontFamily"`
	FontSize    float64 `toml:"font_size" json:"fontSize"`
	LineHeight  float64 `toml:"line_height" json:"lineHeight"`
	AccentColor string  `toml:"accent_color" json:"accentColor"`
}

// DefaultTypography returns the settings used when none are given.
func DefaultTypography() Typography {
	return Typography{
		FontFamily:  "Helvetica, Arial, sans-serif",
		FontSize:    14,
		LineHeight:  1.4,
		AccentColor: "#1f4e79",
	}
}

func (t Typography) withDefaults() Typography {
	d := DefaultTypography()
	if strings.TrimSpace(t.FontFamily) == "" {
		t.FontFamily = d.FontFamily
	}
	if t.FontSize <= 0 {
		t.FontSize = d.FontSize
	}
	if t.LineHeight <= 0 {
		t.LineHeight = d.LineHeight
	}
	if strings.TrimSpace(t.AccentColor) == "" {
		t.AccentColor = d.AccentColor
	}
	return t
}

// Normalize fills unset fields with the defaults.
func (t Typography) Normalize() Typography {
	return t.withDefaults()
}

// LinePixels is the height of one line of body text.
func (t Typography) LinePixels() float64 {
	t = t.withDefaults()
	return t.FontSize * t.LineHeight
}

// Theme is the visual variant of a template.
type Theme struct {
	HeadingScale   float64 `toml:"heading_scale" json:"headingScale"`
	NameScale      float64 `toml:"name_scale" json:"nameScale"`
	SectionGap     float64 `toml:"section_gap" json:"sectionGap"`
	ItemGap        float64 `toml:"item_gap" json:"itemGap"`
	UppercaseTitle bool    `toml:"uppercase_titles" json:"uppercaseTitles"`
	TitleRule      bool    `toml:"title_rule" json:"titleRule"`
	SidebarColor   string  `toml:"sidebar_color" json:"sidebarColor"`
	TimelineRail   bool    `toml:"timeline_rail" json:"timelineRail"`
}

// DefaultTheme is the theme of the default template.
func DefaultTheme() Theme {
	return Theme{
		HeadingScale: 1.25,
		NameScale:    2.2,
		SectionGap:   18,
		ItemGap:      10,
		TitleRule:    true,
	}
}

func (th Theme) withDefaults() Theme {
	d := DefaultTheme()
	if th.HeadingScale <= 0 {
		th.HeadingScale = d.HeadingScale
	}
	if th.NameScale <= 0 {
		th.NameScale = d.NameScale
	}
	if th.SectionGap < 0 {
		th.SectionGap = 0
	}
	if th.ItemGap < 0 {
		th.ItemGap = 0
	}
	return th
}

// BuildStylesheet renders the block stylesheet for a theme and typography.
// Measurement and preview both use it, so heights measured against it hold
// for the rendered pages.
func BuildStylesheet(th Theme, t Typography) string {
	t = t.withDefaults()
	th = th.withDefaults()

	var b strings.Builder
	rule := func(sel string, decls ...string) {
		fmt.Fprintf(&b, "%s { %s; }\n", sel, strings.Join(decls, "; "))
	}

	rule(".cv-root",
		"font-family: "+t.FontFamily,
		px("font-size", t.FontSize),
		fmt.Sprintf("line-height: %g", t.LineHeight),
		"color: #222222")
	rule(".cv-header", "margin: 0 0 12px 0", "padding: 0 0 8px 0")
	rule(".cv-name",
		fmt.Sprintf("font-size: %gem", th.NameScale),
		"font-weight: bold", "line-height: 1.2", "margin: 0 0 4px 0")
	rule(".cv-headline", "font-size: 1.1em", "margin: 0 0 6px 0", "color: "+t.AccentColor)
	rule(".cv-contact", "margin: 0", "padding: 0", "list-style: none")
	rule(".cv-contact li", "display: inline", "margin-right: 12px")

	title := []string{
		fmt.Sprintf("font-size: %gem", th.HeadingScale),
		"font-weight: bold",
		"color: " + t.AccentColor,
		fmt.Sprintf("margin: %gpx 0 8px 0", th.SectionGap),
		"padding: 0 0 2px 0",
	}
	if th.UppercaseTitle {
		title = append(title, "text-transform: uppercase", "letter-spacing: 0.05em")
	}
	if th.TitleRule {
		title = append(title, "border-bottom: 1px solid "+t.AccentColor)
	}
	rule(".cv-section-title", title...)

	item := []string{fmt.Sprintf("margin: 0 0 %gpx 0", th.ItemGap)}
	if th.TimelineRail {
		item = append(item, "padding: 0 0 0 14px", "border-left: 2px solid "+t.AccentColor)
	}
	rule(".cv-item", item...)
	rule(".cv-item-title", "font-size: 1.05em", "font-weight: bold", "margin: 0")
	rule(".cv-item-subtitle", "font-style: italic", "margin: 0")
	rule(".cv-item-meta", "font-size: 0.9em", "color: #666666", "margin: 0 0 4px 0")
	rule(".cv-item-body", "margin: 4px 0 0 0")
	rule(".cv-item-list", "margin: 4px 0 0 0", "padding: 0 0 0 18px")
	rule(".cv-standalone", fmt.Sprintf("margin: 0 0 %gpx 0", th.ItemGap))
	rule(".cv-standalone p", "margin: 0")
	rule(".cv-break", "height: 0", "margin: 0", "padding: 0")
	if th.SidebarColor != "" {
		rule(".cv-sidebar", "background: "+th.SidebarColor, "color: #ffffff")
		rule(".cv-sidebar .cv-section-title", "color: #ffffff", "border-bottom-color: #ffffff")
	}
	return b.String()
}

func px(prop string, v float64) string {
	return fmt.Sprintf("%s: %gpx", prop, v)
}
