package pagination

import (
	"github.com/gompdf/cvpager/internal/model"
)

// PaginateDual lays out the sidebar and main streams independently, each
// against its own budget, and pairs the resulting pages by index. The
// shorter stream contributes empty columns for the trailing pages.
func PaginateDual(sidebar, main []model.MeasuredBlock, sidebarBudget, mainBudget float64) []model.DualPage {
	side := Paginate(sidebar, sidebarBudget)
	body := Paginate(main, mainBudget)

	n := max(len(side), len(body))
	pages := make([]model.DualPage, n)
	for i := range pages {
		if i < len(side) {
			pages[i].Sidebar = side[i]
		}
		if i < len(body) {
			pages[i].Main = body[i]
		}
	}
	return pages
}
