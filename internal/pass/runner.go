// Package pass runs layout passes: build the block model, measure it,
// paginate and assemble. The Scheduler serializes passes and keeps only the
// result of the latest input.
package pass

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gompdf/cvpager/internal/assemble"
	"github.com/gompdf/cvpager/internal/cv"
	"github.com/gompdf/cvpager/internal/measure"
	"github.com/gompdf/cvpager/internal/model"
	"github.com/gompdf/cvpager/internal/pagination"
	"github.com/gompdf/cvpager/internal/style"
)

// DefaultMaxAttempts is how often a stale measurement is retried before
// fallback heights are used.
const DefaultMaxAttempts = 3

// DefaultTick approximates one rendering frame.
const DefaultTick = 16 * time.Millisecond

// ErrNoProvider is returned when a pass has no measurement provider.
var ErrNoProvider = errors.New("pass: no measurement provider")

// Inputs is everything a pass depends on. Any change to it calls for a new
// pass.
type Inputs struct {
	Document        cv.Document
	Layout          model.Layout
	Typography      style.Typography
	Theme           style.Theme
	Geometry        pagination.Geometry
	SidebarSections []string
	HeaderInSidebar bool
	// ExtraCSS is appended to the template stylesheet.
	ExtraCSS string
}

// Result is the output of one pass.
type Result struct {
	Layout     *model.LayoutResult
	Pages      []assemble.RenderablePage
	DualPages  []assemble.DualRenderablePage
	Stylesheet string
	Geometry   pagination.Geometry
	// Typography is the normalized typography the pass measured with.
	Typography style.Typography
	Title      string
	// Degraded counts blocks whose height fell back to one line.
	Degraded int
}

// Body renders the pages without the surrounding document.
func (r *Result) Body() string {
	if r.Layout.Layout == model.LayoutDual {
		return assemble.RenderDualHTML(r.DualPages)
	}
	return assemble.RenderHTML(r.Pages)
}

// HTML renders the result as a standalone preview document.
func (r *Result) HTML() string {
	return assemble.RenderDocument(r.Body(), assemble.RenderOptions{
		Geometry:   r.Geometry,
		Stylesheet: r.Stylesheet,
		Title:      r.Title,
		Dual:       r.Layout.Layout == model.LayoutDual,
	})
}

// Runner executes single passes against a measurement provider.
type Runner struct {
	Provider    measure.Provider
	Logger      *log.Logger
	Tick        time.Duration
	MaxAttempts int
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

// Run executes one full pass. Stale measurements are retried after a tick
// and finally replaced by one line of height; they never fail the pass.
func (r *Runner) Run(ctx context.Context, in Inputs) (*Result, error) {
	if r.Provider == nil {
		return nil, ErrNoProvider
	}
	passID := uuid.NewString()
	logger := r.logger().With("pass", passID[:8])
	start := time.Now()

	typo := in.Typography.Normalize()
	sheet := style.BuildStylesheet(in.Theme, typo) + in.ExtraCSS
	blocks := in.Document.Blocks()
	logger.Debug("built model", "blocks", len(blocks), "layout", in.Layout)

	engine := pagination.NewEngine()
	engine.SetOptions(pagination.Options{Geometry: in.Geometry, Logger: logger})

	res := &Result{
		Layout:     &model.LayoutResult{PassID: passID, Layout: in.Layout},
		Stylesheet: sheet,
		Geometry:   in.Geometry,
		Typography: typo,
		Title:      documentTitle(in.Document),
	}

	switch in.Layout {
	case model.LayoutDual:
		side, main := cv.Split(blocks, in.SidebarSections, in.HeaderInSidebar)
		ms, err := r.measure(ctx, logger, res, side, typo, sheet, in.Geometry.SidebarContentWidth())
		if err != nil {
			return nil, err
		}
		mm, err := r.measure(ctx, logger, res, main, typo, sheet, in.Geometry.MainWidth())
		if err != nil {
			return nil, err
		}
		res.Layout.DualPages = engine.PaginateDual(ms, mm)
		res.DualPages = assemble.AssembleDual(res.Layout.DualPages)
	default:
		res.Layout.Layout = model.LayoutSingle
		mb, err := r.measure(ctx, logger, res, blocks, typo, sheet, in.Geometry.MainWidth())
		if err != nil {
			return nil, err
		}
		res.Layout.Pages = engine.Paginate(mb)
		res.Pages = assemble.Assemble(res.Layout.Pages)
	}

	logger.Debug("pass complete", "pages", res.Layout.PageCount(), "degraded", res.Degraded, "elapsed", time.Since(start))
	return res, nil
}

func (r *Runner) measure(ctx context.Context, logger *log.Logger, res *Result, blocks []model.Block, typo style.Typography, sheet string, width float64) ([]model.MeasuredBlock, error) {
	if len(blocks) == 0 {
		return nil, nil
	}
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	req := measure.Request{Blocks: blocks, Typography: typo, Width: width, Stylesheet: sheet}

	var (
		heights []float64
		stale   *measure.StaleError
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := r.waitTick(ctx); err != nil {
			return nil, err
		}
		var err error
		heights, err = r.Provider.Measure(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("pass: measuring: %w", err)
		}
		err = measure.Validate(blocks, heights)
		if err == nil {
			return measure.Apply(blocks, heights)
		}
		if !errors.As(err, &stale) {
			return nil, fmt.Errorf("pass: %w", err)
		}
		logger.Debug("stale measurement", "attempt", attempt, "blocks", len(stale.Indexes))
	}

	fallback := typo.LinePixels()
	logger.Warn("measurement did not settle, using fallback heights",
		"blocks", len(stale.Indexes), "attempts", attempts, "height", fallback)
	res.Degraded += len(stale.Indexes)
	return measure.Apply(blocks, measure.Substitute(heights, stale.Indexes, fallback))
}

func (r *Runner) waitTick(ctx context.Context) error {
	if r.Tick <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.Tick)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func documentTitle(d cv.Document) string {
	name := strings.TrimSpace(d.Personal.Name)
	if name == "" {
		return cv.PlaceholderTitle
	}
	return name
}
