// Package pdf draws layout proofs: one PDF page per layout page with every
// block as a labelled rectangle at its measured height, the page budget and
// any overflow marked.
package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/charmbracelet/log"

	"github.com/gompdf/cvpager/internal/model"
	"github.com/gompdf/cvpager/internal/pagination"
)

// pxToPt converts CSS pixels to PDF points.
const pxToPt = 72.0 / 96.0

// Renderer draws layout proofs.
type Renderer struct {
	Geometry pagination.Geometry
	// AccentColor tints section titles, as #rrggbb.
	AccentColor string
	// Labels prints kind, section and height inside each block.
	Labels bool
	Logger *log.Logger
}

// RenderOptions carries document metadata.
type RenderOptions struct {
	Title   string
	Author  string
	Creator string
}

// NewRenderer creates a renderer for g with labels on.
func NewRenderer(g pagination.Geometry) *Renderer {
	return &Renderer{Geometry: g, AccentColor: "#1f4e79", Labels: true}
}

func (r *Renderer) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

// RenderFile writes the proof of res to outputPath, creating its directory.
func (r *Renderer) RenderFile(res *model.LayoutResult, outputPath string, opts RenderOptions) error {
	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("pdf: creating output directory: %w", err)
		}
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	if err := r.Render(f, res, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Render writes the proof of res to w.
func (r *Renderer) Render(w io.Writer, res *model.LayoutResult, opts RenderOptions) error {
	g := r.Geometry
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: g.Page.Width * pxToPt, Ht: g.Page.Height * pxToPt},
	})
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	doc.SetTitle(opts.Title, true)
	doc.SetAuthor(opts.Author, true)
	creator := opts.Creator
	if creator == "" {
		creator = "cvpager"
	}
	doc.SetCreator(creator, true)

	p := &proof{Renderer: r, pdf: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
	total := res.PageCount()
	r.logger().Debug("rendering proof", "pages", total, "layout", res.Layout)

	if res.Layout == model.LayoutDual {
		innerX := g.Sidebar.PaddingX
		mainX := g.Sidebar.Width + g.Padding.Left
		for i, page := range res.DualPages {
			doc.AddPage()
			p.sidebarBackground()
			p.column(innerX, g.Sidebar.PaddingTop, g.SidebarContentWidth(), g.SidebarBudget(), page.Sidebar)
			p.column(mainX, g.Padding.Top, g.MainWidth(), g.MainBudget(), page.Main)
			p.footer(i+1, total)
		}
	} else {
		for i, page := range res.Pages {
			doc.AddPage()
			p.column(g.Padding.Left, g.Padding.Top, g.MainWidth(), g.MainBudget(), page)
			p.footer(i+1, total)
		}
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return nil
}

type proof struct {
	*Renderer
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (p *proof) rect(x, y, w, h float64, style string) {
	p.pdf.Rect(x*pxToPt, y*pxToPt, w*pxToPt, h*pxToPt, style)
}

func (p *proof) line(x1, y1, x2, y2 float64) {
	p.pdf.Line(x1*pxToPt, y1*pxToPt, x2*pxToPt, y2*pxToPt)
}

func (p *proof) text(x, y float64, s string) {
	p.pdf.Text(x*pxToPt, y*pxToPt, p.tr(s))
}

func (p *proof) sidebarBackground() {
	p.pdf.SetFillColor(241, 236, 247)
	p.rect(0, 0, p.Geometry.Sidebar.Width, p.Geometry.Page.Height, "F")
}

// column stacks blocks from (x, top) and marks the budget line.
func (p *proof) column(x, top, width, budget float64, blocks model.Page) {
	p.pdf.SetLineWidth(0.5)
	p.pdf.SetDrawColor(200, 200, 200)
	p.pdf.SetDashPattern(nil, 0)
	p.rect(x, top, width, budget, "D")

	y := top
	for _, b := range blocks {
		if b.Kind == model.KindManualBreak {
			p.breakMark(x, y, width)
			continue
		}
		p.block(x, y, width, b)
		y += b.Height
	}

	if over := y - (top + budget); over > 0 {
		p.pdf.SetFillColor(230, 60, 60)
		p.pdf.SetAlpha(0.35, "Normal")
		p.rect(x, top+budget, width, over, "F")
		p.pdf.SetAlpha(1, "Normal")
		p.logger().Debug("page overflows its budget", "overflow", over)
	}

	p.pdf.SetDrawColor(220, 40, 40)
	p.pdf.SetDashPattern([]float64{3, 2}, 0)
	p.line(x, top+budget, x+width, top+budget)
	p.pdf.SetDashPattern(nil, 0)
}

func (p *proof) block(x, y, width float64, b model.MeasuredBlock) {
	fill := kindColor(b.Kind)
	if b.Kind == model.KindSectionTitle {
		if c, ok := parseHexColor(p.AccentColor); ok {
			fill = lighten(c, 0.7)
		}
	}
	p.pdf.SetFillColor(fill[0], fill[1], fill[2])
	p.pdf.SetDrawColor(120, 120, 120)
	p.pdf.SetLineWidth(0.4)
	p.rect(x, y, width, b.Height, "FD")

	if !p.Labels || b.Height < 9 {
		return
	}
	p.pdf.SetFont("Helvetica", "", 7)
	p.pdf.SetTextColor(60, 60, 60)
	p.text(x+3, y+9, label(b))
}

func (p *proof) breakMark(x, y, width float64) {
	p.pdf.SetDrawColor(40, 120, 220)
	p.pdf.SetLineWidth(0.8)
	p.pdf.SetDashPattern([]float64{1, 2}, 0)
	p.line(x, y, x+width, y)
	p.pdf.SetDashPattern(nil, 0)
	if p.Labels {
		p.pdf.SetFont("Helvetica", "I", 6)
		p.pdf.SetTextColor(40, 120, 220)
		p.text(x+width-36, y-2, "page break")
	}
}

func (p *proof) footer(n, total int) {
	g := p.Geometry
	p.pdf.SetFont("Helvetica", "", 7)
	p.pdf.SetTextColor(140, 140, 140)
	p.text(g.Page.Width/2-16, g.Page.Height-g.SafeBottom/2-2, fmt.Sprintf("page %d / %d", n, total))
}

func label(b model.MeasuredBlock) string {
	parts := []string{string(b.Kind)}
	if b.SectionID != "" {
		parts = append(parts, b.SectionID)
	}
	parts = append(parts, strconv.FormatFloat(b.Height, 'f', 1, 64)+"px")
	return strings.Join(parts, " | ")
}

func kindColor(k model.Kind) [3]int {
	switch k {
	case model.KindHeader:
		return [3]int{225, 232, 240}
	case model.KindSectionTitle:
		return [3]int{210, 222, 236}
	case model.KindStandalone:
		return [3]int{236, 230, 214}
	}
	return [3]int{245, 245, 245}
}

// lighten mixes c with white by f.
func lighten(c [3]int, f float64) [3]int {
	for i := range c {
		c[i] += int(float64(255-c[i]) * f)
	}
	return c
}

// parseHexColor parses #RRGGBB or #RGB.
func parseHexColor(s string) ([3]int, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return [3]int{}, false
	}
	var c [3]int
	for i := range c {
		v, err := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		if err != nil {
			return [3]int{}, false
		}
		c[i] = int(v)
	}
	return c, true
}
