package pagination

import (
	"github.com/gompdf/cvpager/internal/model"
)

// Paginate packs blocks into pages whose content height stays within
// budget. It walks the blocks once in order and never reorders them.
//
// Headers, standalone blocks and items are atomic. A section title is
// reserved together with the item that immediately follows it, so a title
// never ends a page. Items beyond the first continue the section on the
// next page without repeating its title. A manual break is placed on the
// current page and closes it; it counts as zero height. A block taller than
// the whole budget is placed alone and overflows its page.
//
// The result always holds at least one page.
func Paginate(blocks []model.MeasuredBlock, budget float64) []model.Page {
	p := &paginator{budget: budget}

	for i := 0; i < len(blocks); i++ {
		b := blocks[i]
		switch b.Kind {
		case model.KindManualBreak:
			p.manualBreak(b)

		case model.KindSectionTitle:
			j := firstItem(blocks, i)
			if j < 0 {
				p.breakUnlessFits(b.Height)
				p.place(b)
				continue
			}
			p.breakUnlessFits(b.Height + blocks[j].Height)
			p.place(b)
			p.place(blocks[j])
			i = j

		default:
			p.breakUnlessFits(b.Height)
			p.place(b)
		}
	}

	p.flush()
	if len(p.pages) == 0 {
		return []model.Page{{}}
	}
	return p.pages
}

// firstItem returns the index of the item kept with the title at i, or -1
// when the title is not directly followed by an item of its own section.
func firstItem(blocks []model.MeasuredBlock, i int) int {
	j := i + 1
	if j >= len(blocks) {
		return -1
	}
	next := blocks[j]
	if next.Kind != model.KindItem || next.SectionID != blocks[i].SectionID {
		return -1
	}
	return j
}

type paginator struct {
	budget  float64
	pages   []model.Page
	current model.Page
	height  float64
	// placed counts the blocks on the current page other than manual breaks.
	placed int
}

func (p *paginator) place(b model.MeasuredBlock) {
	p.current = append(p.current, b)
	if b.Kind == model.KindManualBreak {
		return
	}
	p.height += b.Height
	p.placed++
}

// breakUnlessFits closes a non-empty page when h does not fit on it.
// Fitting exactly counts as fitting.
func (p *paginator) breakUnlessFits(h float64) {
	if p.placed > 0 && p.height+h > p.budget {
		p.closePage()
	}
}

func (p *paginator) closePage() {
	if len(p.current) == 0 {
		return
	}
	p.pages = append(p.pages, p.current)
	p.current = nil
	p.height = 0
	p.placed = 0
}

// manualBreak honours a forced boundary. A break that would open a blank
// page joins the page the previous break closed, and a break before any
// content stays on the first page without closing it.
func (p *paginator) manualBreak(b model.MeasuredBlock) {
	switch {
	case p.placed > 0:
		p.place(b)
		p.closePage()
	case len(p.pages) > 0 && len(p.current) == 0:
		last := len(p.pages) - 1
		p.pages[last] = append(p.pages[last], b)
	default:
		p.place(b)
	}
}

func (p *paginator) flush() {
	p.closePage()
}
