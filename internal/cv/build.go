package cv

import (
	"strings"

	"github.com/gompdf/cvpager/internal/model"
)

// Build flattens data into blocks: the header first, then for each visible,
// non-empty section in order a title followed by its items. Manual break
// markers keep their position among the items. A section carrying only free
// text becomes a single standalone block; when it also has items, the text
// becomes the item right after the title. A section without metadata is
// titled from its id.
//
// Breaks that precede every item of a section are placed before the section
// title, so a break never separates a title from its first item. Breaks of
// omitted sections are dropped with them.
func Build(data Data, order []string, meta map[string]SectionMeta) []model.Block {
	b := &builder{}
	b.add(model.KindHeader, "", headerFragment(data.Personal))

	for _, id := range order {
		m, ok := meta[id]
		if ok && m.Hidden {
			continue
		}
		sec, ok := data.Sections[id]
		if !ok {
			continue
		}
		title := strings.TrimSpace(m.Title)
		if title == "" {
			title = FallbackTitle(id)
		}

		text := strings.TrimSpace(sec.Text)
		if text != "" && firstContent(sec.Items) < 0 {
			b.add(model.KindStandalone, id, standaloneFragment(id, title, text))
			continue
		}
		b.section(id, title, text, sec.Items)
	}
	return b.blocks
}

// Blocks builds the document's block stream.
func (d Document) Blocks() []model.Block {
	return Build(d.Data, d.Order(), d.SectionMeta)
}

type builder struct {
	blocks []model.Block
}

func (b *builder) add(kind model.Kind, section, content string) {
	b.blocks = append(b.blocks, model.Block{
		Kind:      kind,
		SectionID: section,
		Content:   content,
		Order:     len(b.blocks),
	})
}

// firstContent returns the index of the first content-bearing item, or -1.
func firstContent(items []Item) int {
	for i, it := range items {
		if !isBreak(it) && hasContent(it) {
			return i
		}
	}
	return -1
}

func (b *builder) section(id, title, text string, items []Item) {
	first := firstContent(items)
	if first < 0 {
		return
	}

	for _, it := range items[:first] {
		if isBreak(it) {
			b.add(model.KindManualBreak, "", breakFragment())
		}
	}
	b.add(model.KindSectionTitle, id, sectionTitleFragment(id, title))
	if text != "" {
		b.add(model.KindItem, id, textItemFragment(text))
	}
	for _, it := range items[first:] {
		switch {
		case isBreak(it):
			b.add(model.KindManualBreak, id, breakFragment())
		case hasContent(it):
			b.add(model.KindItem, id, itemFragment(it))
		}
	}
}

// Split partitions blocks into the sidebar and main streams of the sidebar
// template. Blocks of the listed sections, and the header when
// headerInSidebar is set, go to the sidebar; the rest go to the main
// column. A break placed ahead of a section title follows that section.
// Relative order is preserved in both.
func Split(blocks []model.Block, sidebarSections []string, headerInSidebar bool) (sidebar, main []model.Block) {
	inSidebar := make(map[string]bool, len(sidebarSections))
	for _, id := range sidebarSections {
		inSidebar[id] = true
	}
	for i, blk := range blocks {
		section := blk.SectionID
		if blk.Kind == model.KindManualBreak && section == "" {
			section = nextSection(blocks, i)
		}
		side := section != "" && inSidebar[section]
		if blk.Kind == model.KindHeader {
			side = headerInSidebar
		}
		if side {
			sidebar = append(sidebar, blk)
		} else {
			main = append(main, blk)
		}
	}
	return sidebar, main
}

// nextSection returns the section of the first block after i that is not a
// manual break.
func nextSection(blocks []model.Block, i int) string {
	for _, b := range blocks[i+1:] {
		if b.Kind != model.KindManualBreak {
			return b.SectionID
		}
	}
	return ""
}
