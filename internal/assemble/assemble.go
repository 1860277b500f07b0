// Package assemble regroups paginated blocks into renderable pages,
// re-opening section wrappers where a section continues across a page
// boundary.
package assemble

import (
	"github.com/gompdf/cvpager/internal/model"
)

// Fragment is one unit of page markup: either a single unwrapped block or a
// section wrapper holding a contiguous run of one section's blocks.
type Fragment struct {
	SectionID string
	// Continued is set on a section wrapper whose run does not start with
	// the section title, i.e. the section began on an earlier page.
	Continued bool
	Blocks    []model.MeasuredBlock
}

// Wrapped reports whether the fragment is a section wrapper.
func (f Fragment) Wrapped() bool {
	return f.SectionID != ""
}

// RenderablePage is a page ready to be rendered, 1-indexed.
type RenderablePage struct {
	Number    int
	Fragments []Fragment
}

// DualRenderablePage is a page of the sidebar template.
type DualRenderablePage struct {
	Number  int
	Sidebar []Fragment
	Main    []Fragment
}

// Assemble converts pages of blocks into renderable pages. It does not
// measure anything and never moves a block to another page.
func Assemble(pages []model.Page) []RenderablePage {
	out := make([]RenderablePage, len(pages))
	for i, p := range pages {
		out[i] = RenderablePage{Number: i + 1, Fragments: Fragments(p)}
	}
	return out
}

// AssembleDual assembles each column of each page independently.
func AssembleDual(pages []model.DualPage) []DualRenderablePage {
	out := make([]DualRenderablePage, len(pages))
	for i, p := range pages {
		out[i] = DualRenderablePage{
			Number:  i + 1,
			Sidebar: Fragments(p.Sidebar),
			Main:    Fragments(p.Main),
		}
	}
	return out
}

// Fragments groups the blocks of one page or column. Headers and standalone
// blocks stay unwrapped; every other block joins the run of its section.
func Fragments(blocks []model.MeasuredBlock) []Fragment {
	var out []Fragment
	for _, b := range blocks {
		if !wrappable(b) {
			out = append(out, Fragment{Blocks: []model.MeasuredBlock{b}})
			continue
		}
		if n := len(out); n > 0 && out[n-1].Wrapped() && out[n-1].SectionID == b.SectionID {
			out[n-1].Blocks = append(out[n-1].Blocks, b)
			continue
		}
		out = append(out, Fragment{
			SectionID: b.SectionID,
			Continued: b.Kind != model.KindSectionTitle,
			Blocks:    []model.MeasuredBlock{b},
		})
	}
	return out
}

func wrappable(b model.MeasuredBlock) bool {
	switch b.Kind {
	case model.KindHeader, model.KindStandalone:
		return false
	}
	return b.SectionID != ""
}
