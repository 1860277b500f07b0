package pagination

import (
	"github.com/charmbracelet/log"

	"github.com/gompdf/cvpager/internal/model"
)

// Options represents options for the pagination engine
type Options struct {
	Geometry Geometry
	Logger   *log.Logger
}

// Engine paginates measured streams against a fixed page geometry
type Engine struct {
	options Options
}

// NewEngine creates a new pagination engine on the default geometry
func NewEngine() *Engine {
	return &Engine{
		options: Options{
			Geometry: DefaultGeometry(),
			Logger:   log.Default(),
		},
	}
}

// SetOptions sets the options for the pagination engine
func (e *Engine) SetOptions(options Options) {
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	e.options = options
}

// Geometry returns the geometry the engine paginates against
func (e *Engine) Geometry() Geometry {
	return e.options.Geometry
}

// Paginate breaks a single stream into pages using the main budget
func (e *Engine) Paginate(blocks []model.MeasuredBlock) []model.Page {
	budget := e.options.Geometry.MainBudget()
	pages := Paginate(blocks, budget)
	e.options.Logger.Debug("paginated", "blocks", len(blocks), "budget", budget, "pages", len(pages))
	return pages
}

// PaginateDual breaks the sidebar and main streams into paired pages
func (e *Engine) PaginateDual(sidebar, main []model.MeasuredBlock) []model.DualPage {
	g := e.options.Geometry
	pages := PaginateDual(sidebar, main, g.SidebarBudget(), g.MainBudget())
	e.options.Logger.Debug("paginated dual",
		"sidebar", len(sidebar), "main", len(main),
		"sidebarBudget", g.SidebarBudget(), "mainBudget", g.MainBudget(),
		"pages", len(pages))
	return pages
}
