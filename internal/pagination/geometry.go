package pagination

import "strings"

// PageSize is a physical page size in CSS pixels (96 per inch).
type PageSize struct {
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
	Name   string  `toml:"name" json:"name"`
}

// Standard page sizes in CSS pixels
var (
	PageSizeA4     = PageSize{Width: 793.7, Height: 1122.5, Name: "A4"}
	PageSizeLetter = PageSize{Width: 816, Height: 1056, Name: "Letter"}
	PageSizeLegal  = PageSize{Width: 816, Height: 1344, Name: "Legal"}
	PageSizeA5     = PageSize{Width: 559.4, Height: 793.7, Name: "A5"}
)

// LookupPageSize returns the standard size with the given name, ignoring
// case.
func LookupPageSize(name string) (PageSize, bool) {
	for _, s := range []PageSize{PageSizeA4, PageSizeLetter, PageSizeLegal, PageSizeA5} {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return PageSize{}, false
}

// Padding is the page padding around the main content area.
type Padding struct {
	Top    float64 `toml:"top" json:"top"`
	Right  float64 `toml:"right" json:"right"`
	Bottom float64 `toml:"bottom" json:"bottom"`
	Left   float64 `toml:"left" json:"left"`
}

// Sidebar describes the sidebar column of the dual-stream template.
// The sidebar runs edge to edge vertically, so only its own padding
// reduces its budget.
type Sidebar struct {
	Width         float64 `toml:"width" json:"width"`
	PaddingTop    float64 `toml:"padding_top" json:"paddingTop"`
	PaddingBottom float64 `toml:"padding_bottom" json:"paddingBottom"`
	PaddingX      float64 `toml:"padding_x" json:"paddingX"`
}

// Geometry holds every page measurement the budgets are derived from.
type Geometry struct {
	Page       PageSize `toml:"page" json:"page"`
	Padding    Padding  `toml:"padding" json:"padding"`
	SafeBottom float64  `toml:"safe_bottom" json:"safeBottom"`
	Sidebar    Sidebar  `toml:"sidebar" json:"sidebar"`
}

// DefaultGeometry returns an A4 page with 48px padding and a 16px safe
// bottom margin.
func DefaultGeometry() Geometry {
	return Geometry{
		Page:       PageSizeA4,
		Padding:    Padding{Top: 48, Right: 48, Bottom: 48, Left: 48},
		SafeBottom: 16,
	}
}

// MainBudget is the content height available to the main stream.
func (g Geometry) MainBudget() float64 {
	return clampBudget(g.Page.Height - g.Padding.Top - g.Padding.Bottom - g.SafeBottom)
}

// SidebarBudget is the content height available to the sidebar stream.
func (g Geometry) SidebarBudget() float64 {
	return clampBudget(g.Page.Height - g.Sidebar.PaddingTop - g.Sidebar.PaddingBottom - g.SafeBottom)
}

// HasSidebar reports whether the geometry reserves a sidebar column.
func (g Geometry) HasSidebar() bool {
	return g.Sidebar.Width > 0
}

// MainWidth is the width of the main content column.
func (g Geometry) MainWidth() float64 {
	w := g.Page.Width - g.Padding.Left - g.Padding.Right
	if g.HasSidebar() {
		w -= g.Sidebar.Width
	}
	return clampBudget(w)
}

// SidebarContentWidth is the width available to sidebar blocks.
func (g Geometry) SidebarContentWidth() float64 {
	return clampBudget(g.Sidebar.Width - 2*g.Sidebar.PaddingX)
}

func clampBudget(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
