package pagination

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/gompdf/cvpager/internal/model"
)

func mb(order int, kind model.Kind, section string, h float64) model.MeasuredBlock {
	return model.MeasuredBlock{
		Block:  model.Block{Kind: kind, SectionID: section, Content: "<div></div>", Order: order},
		Height: h,
	}
}

func orders(p model.Page) []int {
	out := make([]int, len(p))
	for i, b := range p {
		out[i] = b.Order
	}
	return out
}

func pageOrders(pages []model.Page) [][]int {
	out := make([][]int, len(pages))
	for i, p := range pages {
		out[i] = orders(p)
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name   string
		blocks []model.MeasuredBlock
		budget float64
		want   [][]int
	}{
		{
			name: "title not repeated on continuation pages",
			blocks: []model.MeasuredBlock{
				mb(0, model.KindHeader, "", 80),
				mb(1, model.KindSectionTitle, "exp", 20),
				mb(2, model.KindItem, "exp", 300),
				mb(3, model.KindItem, "exp", 300),
				mb(4, model.KindItem, "exp", 300),
			},
			budget: 500,
			want:   [][]int{{0, 1, 2}, {3}, {4}},
		},
		{
			name:   "header only",
			blocks: []model.MeasuredBlock{mb(0, model.KindHeader, "", 120)},
			budget: 500,
			want:   [][]int{{0}},
		},
		{
			name:   "empty document",
			blocks: nil,
			budget: 500,
			want:   [][]int{{}},
		},
		{
			name: "exact fit stays on page",
			blocks: []model.MeasuredBlock{
				mb(0, model.KindItem, "a", 50),
				mb(1, model.KindItem, "a", 50),
			},
			budget: 100,
			want:   [][]int{{0, 1}},
		},
		{
			name: "title moves with its first item",
			blocks: []model.MeasuredBlock{
				mb(0, model.KindHeader, "", 60),
				mb(1, model.KindSectionTitle, "edu", 20),
				mb(2, model.KindItem, "edu", 30),
			},
			budget: 100,
			want:   [][]int{{0}, {1, 2}},
		},
		{
			name: "oversized singleton overflows its own page",
			blocks: []model.MeasuredBlock{
				mb(0, model.KindHeader, "", 40),
				mb(1, model.KindStandalone, "summary", 900),
				mb(2, model.KindStandalone, "hobbies", 40),
			},
			budget: 500,
			want:   [][]int{{0}, {1}, {2}},
		},
		{
			name: "oversized title group overflows together",
			blocks: []model.MeasuredBlock{
				mb(0, model.KindHeader, "", 40),
				mb(1, model.KindSectionTitle, "exp", 20),
				mb(2, model.KindItem, "exp", 600),
				mb(3, model.KindItem, "exp", 10),
			},
			budget: 500,
			want:   [][]int{{0}, {1, 2}, {3}},
		},
		{
			name: "manual break closes the page",
			blocks: []model.MeasuredBlock{
				mb(0, model.KindHeader, "", 40),
				mb(1, model.KindSectionTitle, "exp", 20),
				mb(2, model.KindItem, "exp", 30),
				mb(3, model.KindManualBreak, "exp", 0),
				mb(4, model.KindItem, "exp", 30),
			},
			budget: 500,
			want:   [][]int{{0, 1, 2, 3}, {4}},
		},
		{
			name: "adjacent manual breaks collapse",
			blocks: []model.MeasuredBlock{
				mb(0, model.KindHeader, "", 40),
				mb(1, model.KindManualBreak, "", 0),
				mb(2, model.KindManualBreak, "", 0),
				mb(3, model.KindStandalone, "summary", 40),
			},
			budget: 500,
			want:   [][]int{{0, 1, 2}, {3}},
		},
		{
			name: "trailing manual break adds no page",
			blocks: []model.MeasuredBlock{
				mb(0, model.KindHeader, "", 40),
				mb(1, model.KindManualBreak, "", 0),
			},
			budget: 500,
			want:   [][]int{{0, 1}},
		},
		{
			name: "leading manual break is not a boundary",
			blocks: []model.MeasuredBlock{
				mb(0, model.KindManualBreak, "", 0),
				mb(1, model.KindItem, "a", 900),
				mb(2, model.KindItem, "a", 10),
			},
			budget: 500,
			want:   [][]int{{0, 1}, {2}},
		},
		{
			name: "manual break height is ignored",
			blocks: []model.MeasuredBlock{
				mb(0, model.KindItem, "a", 450),
				mb(1, model.KindManualBreak, "a", 400),
				mb(2, model.KindItem, "a", 450),
			},
			budget: 500,
			want:   [][]int{{0, 1}, {2}},
		},
		{
			name: "title without items is atomic",
			blocks: []model.MeasuredBlock{
				mb(0, model.KindItem, "a", 470),
				mb(1, model.KindSectionTitle, "b", 20),
				mb(2, model.KindSectionTitle, "c", 20),
				mb(3, model.KindItem, "c", 20),
			},
			budget: 500,
			want:   [][]int{{0, 1}, {2, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pageOrders(Paginate(tt.blocks, tt.budget))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Paginate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaginateDual(t *testing.T) {
	sidebar := []model.MeasuredBlock{
		mb(0, model.KindHeader, "", 200),
		mb(1, model.KindStandalone, "skills", 200),
		mb(2, model.KindStandalone, "languages", 200),
	}
	main := []model.MeasuredBlock{
		mb(3, model.KindSectionTitle, "exp", 20),
		mb(4, model.KindItem, "exp", 100),
	}

	pages := PaginateDual(sidebar, main, 250, 500)
	if len(pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(pages))
	}
	if got := orders(pages[0].Main); !reflect.DeepEqual(got, []int{3, 4}) {
		t.Errorf("page 1 main = %v", got)
	}
	for i, p := range pages {
		if len(p.Sidebar) != 1 || p.Sidebar[0].Order != i {
			t.Errorf("page %d sidebar = %v", i+1, orders(p.Sidebar))
		}
		if i > 0 && len(p.Main) != 0 {
			t.Errorf("page %d main = %v, want empty", i+1, orders(p.Main))
		}
	}
}

func TestPaginateDualBudgetsAreIndependent(t *testing.T) {
	block := []model.MeasuredBlock{mb(0, model.KindItem, "a", 300), mb(1, model.KindItem, "a", 300)}
	pages := PaginateDual(block, block, 700, 500)
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if len(pages[0].Sidebar) != 2 || len(pages[1].Sidebar) != 0 {
		t.Errorf("sidebar split = %v / %v", orders(pages[0].Sidebar), orders(pages[1].Sidebar))
	}
	if len(pages[0].Main) != 1 || len(pages[1].Main) != 1 {
		t.Errorf("main split = %v / %v", orders(pages[0].Main), orders(pages[1].Main))
	}
}

func TestPaginateDualEmpty(t *testing.T) {
	pages := PaginateDual(nil, nil, 500, 500)
	if len(pages) != 1 || !pages[0].Empty() {
		t.Errorf("PaginateDual(nil, nil) = %v, want one empty page", pages)
	}
}

func TestGeometryBudgets(t *testing.T) {
	g := DefaultGeometry()
	if got := g.MainBudget(); got != 1122.5-48-48-16 {
		t.Errorf("MainBudget() = %v", got)
	}
	g.Sidebar = Sidebar{Width: 260, PaddingTop: 32, PaddingBottom: 32, PaddingX: 20}
	if got := g.SidebarBudget(); got != 1122.5-32-32-16 {
		t.Errorf("SidebarBudget() = %v", got)
	}
	if got := g.SidebarContentWidth(); got != 220 {
		t.Errorf("SidebarContentWidth() = %v", got)
	}
	g.Page.Width = 800
	if got := g.MainWidth(); got != 444 {
		t.Errorf("MainWidth() = %v", got)
	}
	g.Page.Height = 10
	if got := g.MainBudget(); got != 0 {
		t.Errorf("MainBudget() on tiny page = %v, want 0", got)
	}
}

func TestEngineUsesMainBudget(t *testing.T) {
	e := NewEngine()
	e.SetOptions(Options{Geometry: Geometry{Page: PageSize{Width: 600, Height: 600}, Padding: Padding{Top: 50, Bottom: 50}}})
	pages := e.Paginate([]model.MeasuredBlock{
		mb(0, model.KindItem, "a", 250),
		mb(1, model.KindItem, "a", 250),
		mb(2, model.KindItem, "a", 250),
	})
	if got := pageOrders(pages); !reflect.DeepEqual(got, [][]int{{0, 1}, {2}}) {
		t.Errorf("Paginate() = %v", got)
	}
}

// generateDocument builds a stream shaped like the document builder's
// output: a header, then sections of a title and items with occasional
// runs of manual breaks between items or ahead of a title, and standalone
// blocks. Some documents open with breaks before the header.
func generateDocument(r *rand.Rand) []model.MeasuredBlock {
	var out []model.MeasuredBlock
	add := func(kind model.Kind, section string, h float64) {
		out = append(out, mb(len(out), kind, section, h))
	}
	height := func() float64 { return float64(10 + r.Intn(600)) }
	breaks := func(section string) {
		for n := 1 + r.Intn(3); n > 0; n-- {
			add(model.KindManualBreak, section, 0)
		}
	}

	if r.Intn(8) == 0 {
		breaks("")
	}
	add(model.KindHeader, "", height())
	sections := r.Intn(6)
	for s := 0; s < sections; s++ {
		section := string(rune('a' + s))
		if r.Intn(4) == 0 {
			add(model.KindStandalone, section, height())
			continue
		}
		if r.Intn(6) == 0 {
			breaks("")
		}
		add(model.KindSectionTitle, section, float64(10+r.Intn(30)))
		add(model.KindItem, section, height())
		items := r.Intn(5)
		for i := 0; i < items; i++ {
			if r.Intn(5) == 0 {
				breaks(section)
			}
			add(model.KindItem, section, height())
		}
	}
	return out
}

func contentBlocks(p model.Page) []model.MeasuredBlock {
	var out []model.MeasuredBlock
	for _, b := range p {
		if b.Kind != model.KindManualBreak {
			out = append(out, b)
		}
	}
	return out
}

func TestPaginateProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	const budget = 500.0

	for n := 0; n < 500; n++ {
		blocks := generateDocument(r)
		pages := Paginate(blocks, budget)

		pageOf := make(map[int]int)
		next := 0
		for pi, p := range pages {
			if len(contentBlocks(p)) == 0 {
				t.Fatalf("doc %d: page %d has no content: %v", n, pi+1, orders(p))
			}
			for bi, b := range p {
				if b.Order != next {
					t.Fatalf("doc %d: order broken at page %d: got %d, want %d", n, pi+1, b.Order, next)
				}
				next++
				pageOf[b.Order] = pi

				if b.Kind == model.KindSectionTitle {
					kept := bi+1 < len(p) && p[bi+1].Kind == model.KindItem && p[bi+1].SectionID == b.SectionID
					if !kept {
						t.Fatalf("doc %d: title %d orphaned on page %d", n, b.Order, pi+1)
					}
				}
			}

			if p.Height() > budget {
				c := contentBlocks(p)
				singleton := len(c) == 1
				group := len(c) == 2 && c[0].Kind == model.KindSectionTitle && c[1].Kind == model.KindItem
				if !singleton && !group {
					t.Fatalf("doc %d: page %d height %v exceeds budget: %v", n, pi+1, p.Height(), orders(p))
				}
			}
		}
		if next != len(blocks) {
			t.Fatalf("doc %d: placed %d of %d blocks", n, next, len(blocks))
		}

		// Every break after content ends its page; a run of breaks ends
		// it once, and breaks before any content are no boundary.
		seenContent := false
		for _, b := range blocks {
			if b.Kind != model.KindManualBreak {
				seenContent = true
				continue
			}
			if b.Order+1 >= len(blocks) {
				continue
			}
			nextKind := blocks[b.Order+1].Kind
			switch {
			case !seenContent:
				if pageOf[b.Order+1] != pageOf[b.Order] {
					t.Fatalf("doc %d: leading break %d opened a page", n, b.Order)
				}
			case nextKind != model.KindManualBreak && pageOf[b.Order+1] == pageOf[b.Order]:
				t.Fatalf("doc %d: no page boundary after break %d", n, b.Order)
			case nextKind == model.KindManualBreak && pageOf[b.Order+1] != pageOf[b.Order]:
				t.Fatalf("doc %d: adjacent breaks %d and %d split pages", n, b.Order, b.Order+1)
			}
		}

		if again := Paginate(blocks, budget); !reflect.DeepEqual(again, pages) {
			t.Fatalf("doc %d: repeated pagination differs", n)
		}
	}
}
