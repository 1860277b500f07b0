// Package model defines the block and page types shared by the builder,
// the paginators and the assembler.
package model

import "strings"

// Kind is the layout role of a block.
type Kind string

const (
	KindHeader       Kind = "header"
	KindSectionTitle Kind = "section-title"
	KindItem         Kind = "item"
	KindManualBreak  Kind = "manual-break"
	KindStandalone   Kind = "standalone"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindHeader, KindSectionTitle, KindItem, KindManualBreak, KindStandalone:
		return true
	}
	return false
}

// Block is the atomic unit of layout. Content is an opaque markup fragment.
type Block struct {
	Kind      Kind   `json:"kind"`
	SectionID string `json:"sectionId,omitempty"`
	Content   string `json:"content"`
	Order     int    `json:"order"`
}

// Visible reports whether the block is expected to occupy space once rendered.
// Manual breaks and blank fragments are invisible.
func (b Block) Visible() bool {
	if b.Kind == KindManualBreak {
		return false
	}
	return strings.TrimSpace(b.Content) != ""
}

// MeasuredBlock is a block together with its rendered height in pixels.
type MeasuredBlock struct {
	Block
	Height float64 `json:"height"`
}

// Page is one physical page of a single-stream layout.
type Page []MeasuredBlock

// Height returns the sum of the block heights, counting manual breaks as zero.
func (p Page) Height() float64 {
	h := 0.0
	for _, b := range p {
		if b.Kind == KindManualBreak {
			continue
		}
		h += b.Height
	}
	return h
}

// DualPage is one physical page of the sidebar layout.
type DualPage struct {
	Sidebar Page `json:"sidebar"`
	Main    Page `json:"main"`
}

// Empty reports whether neither column carries a block.
func (p DualPage) Empty() bool {
	return len(p.Sidebar) == 0 && len(p.Main) == 0
}

// Layout tells which of the two page shapes a result carries.
type Layout string

const (
	LayoutSingle Layout = "single"
	LayoutDual   Layout = "dual"
)

// LayoutResult is the output of one layout pass. Exactly one of Pages and
// DualPages is populated, according to Layout, and it is never empty.
type LayoutResult struct {
	PassID     string     `json:"passId"`
	Generation uint64     `json:"generation"`
	Layout     Layout     `json:"layout"`
	Pages      []Page     `json:"pages,omitempty"`
	DualPages  []DualPage `json:"dualPages,omitempty"`
}

// PageCount returns the number of physical pages.
func (r *LayoutResult) PageCount() int {
	if r == nil {
		return 0
	}
	if r.Layout == LayoutDual {
		return len(r.DualPages)
	}
	return len(r.Pages)
}

// Flatten returns every block across all pages in page order. For dual
// layouts the sidebar stream comes first, then the main stream.
func (r *LayoutResult) Flatten() []MeasuredBlock {
	if r == nil {
		return nil
	}
	var out []MeasuredBlock
	if r.Layout == LayoutDual {
		for _, p := range r.DualPages {
			out = append(out, p.Sidebar...)
		}
		for _, p := range r.DualPages {
			out = append(out, p.Main...)
		}
		return out
	}
	for _, p := range r.Pages {
		out = append(out, p...)
	}
	return out
}
