package assemble

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gompdf/cvpager/internal/markup"
	"github.com/gompdf/cvpager/internal/pagination"
)

// RenderOptions controls the surrounding preview document.
type RenderOptions struct {
	Geometry   pagination.Geometry
	Stylesheet string
	Title      string
	// Dual selects the sidebar page shell.
	Dual bool
}

// RenderFragment renders one fragment. Block content is inserted verbatim.
func RenderFragment(f Fragment) *markup.Node {
	if !f.Wrapped() {
		return markup.Raw(joinContent(f))
	}
	classes := []string{"cv-section"}
	if f.Continued {
		classes = append(classes, "cv-section--continued")
	}
	return markup.El("section",
		[]markup.Attr{markup.Class(classes...), markup.Data("section", f.SectionID)},
		markup.Raw(joinContent(f)))
}

func joinContent(f Fragment) string {
	var b strings.Builder
	for _, blk := range f.Blocks {
		b.WriteString(blk.Content)
	}
	return b.String()
}

func column(class string, fragments []Fragment) *markup.Node {
	nodes := make([]*markup.Node, len(fragments))
	for i, f := range fragments {
		nodes[i] = RenderFragment(f)
	}
	return markup.El("div", []markup.Attr{markup.Class("cv-root", class)}, nodes...)
}

func pageShell(number int, class string, children ...*markup.Node) *markup.Node {
	return markup.El("div", []markup.Attr{
		markup.Class("cv-page", class),
		markup.Data("page", strconv.Itoa(number)),
	}, children...)
}

// RenderHTML renders single-stream pages, one .cv-page element each.
func RenderHTML(pages []RenderablePage) string {
	nodes := make([]*markup.Node, len(pages))
	for i, p := range pages {
		nodes[i] = pageShell(p.Number, "cv-page--single", column("cv-main", p.Fragments))
	}
	return markup.MustRender(nodes...)
}

// RenderDualHTML renders sidebar-template pages. The sidebar column is
// emitted on every page, empty or not, so its background runs through.
func RenderDualHTML(pages []DualRenderablePage) string {
	nodes := make([]*markup.Node, len(pages))
	for i, p := range pages {
		nodes[i] = pageShell(p.Number, "cv-page--dual",
			markup.El("aside", []markup.Attr{markup.Class("cv-sidebar")}, column("cv-sidebar-content", p.Sidebar)),
			column("cv-main", p.Main),
		)
	}
	return markup.MustRender(nodes...)
}

// RenderDocument wraps rendered pages into a standalone HTML document sized
// for printing.
func RenderDocument(body string, opts RenderOptions) string {
	title := opts.Title
	if title == "" {
		title = "CV preview"
	}
	css := PageCSS(opts.Geometry, opts.Dual) + opts.Stylesheet

	head := markup.El("head", nil,
		markup.El("meta", []markup.Attr{{Key: "charset", Val: "utf-8"}}),
		markup.El("title", nil, markup.Text(title)),
		markup.El("style", nil, markup.Raw(css)),
	)
	doc := markup.El("html", nil, head, markup.El("body", nil, markup.Raw(body)))
	return "<!DOCTYPE html>\n" + markup.MustRender(doc)
}

// PageCSS sizes the page shells for g.
func PageCSS(g pagination.Geometry, dual bool) string {
	var b strings.Builder
	w, h := g.Page.Width, g.Page.Height
	pad := g.Padding
	fmt.Fprintf(&b, "@page { size: %gpx %gpx; margin: 0; }\n", w, h)
	b.WriteString("html, body { margin: 0; padding: 0; }\n")
	fmt.Fprintf(&b, ".cv-page { width: %gpx; height: %gpx; overflow: hidden; box-sizing: border-box; break-after: page; position: relative; background: #ffffff; }\n", w, h)
	b.WriteString(".cv-page:last-child { break-after: auto; }\n")
	b.WriteString("@media screen { .cv-page { margin: 0 auto 24px auto; box-shadow: 0 1px 4px rgba(0,0,0,0.2); } }\n")
	if !dual {
		fmt.Fprintf(&b, ".cv-page--single { padding: %gpx %gpx %gpx %gpx; }\n", pad.Top, pad.Right, pad.Bottom, pad.Left)
		return b.String()
	}
	sb := g.Sidebar
	b.WriteString(".cv-page--dual { display: flex; padding: 0; }\n")
	fmt.Fprintf(&b, ".cv-page--dual .cv-sidebar { flex: 0 0 %gpx; height: 100%%; box-sizing: border-box; padding: %gpx %gpx %gpx %gpx; }\n",
		sb.Width, sb.PaddingTop, sb.PaddingX, sb.PaddingBottom, sb.PaddingX)
	fmt.Fprintf(&b, ".cv-page--dual .cv-main { flex: 1 1 auto; box-sizing: border-box; padding: %gpx %gpx %gpx %gpx; }\n",
		pad.Top, pad.Right, pad.Bottom, pad.Left)
	return b.String()
}
