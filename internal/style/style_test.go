package style

import (
	"math"
	"strings"
	"testing"

	"github.com/gompdf/cvpager/internal/markup"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestParseCSSString(t *testing.T) {
	sheet := ParseCSSString(`
		/* comment */
		@media print { .x { color: red; } }
		h1, .cv-name { font-size: 2em; color: red !important; }
		broken
	`)
	if len(sheet.Rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(sheet.Rules))
	}
	r := sheet.Rules[0]
	if len(r.Selectors) != 2 || r.Selectors[1] != ".cv-name" {
		t.Errorf("Selectors = %v", r.Selectors)
	}
	if len(r.Declarations) != 2 || !r.Declarations[1].Important || r.Declarations[1].Value != "red" {
		t.Errorf("Declarations = %+v", r.Declarations)
	}
}

func TestCascadePrecedence(t *testing.T) {
	nodes, err := markup.NewParser().ParseString(`<div class="cv-item"><p class="lead" style="margin-top: 3px">x</p></div>`)
	if err != nil {
		t.Fatal(err)
	}
	p := nodes[0].FirstChild

	c := NewCascade(ParseCSSString(`
		.cv-item p.lead { color: blue; }
		p { color: green; margin: 10px 0; }
		p { font-weight: normal !important; }
		.lead { font-weight: bold; }
	`))
	cs := c.Compute(p)

	tests := []struct{ prop, want string }{
		{"color", "blue"},
		{"margin-top", "3px"},
		{"margin-bottom", "10px"},
		{"font-weight", "normal"},
	}
	for _, tt := range tests {
		if got, _ := cs.Get(tt.prop); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.prop, got, tt.want)
		}
	}
}

func TestResolveInheritsFonts(t *testing.T) {
	nodes, err := markup.NewParser().ParseString(`<div class="cv-root"><h3 class="cv-item-title">T</h3><span>s</span></div>`)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCascade(ParseCSSString(BuildStylesheet(DefaultTheme(), Typography{FontSize: 10, LineHeight: 1.5})))
	root := RootBox(Typography{FontSize: 10, LineHeight: 1.5})

	div := c.Resolve(nodes[0], root, 10)
	if !near(div.FontSize, 10) || !near(div.LineHeight, 15) {
		t.Errorf("root box font %v/%v, want 10/15", div.FontSize, div.LineHeight)
	}

	h3 := c.Resolve(nodes[0].FirstChild, div, 10)
	if !near(h3.FontSize, 10.5) {
		t.Errorf("h3 font size = %v, want 10.5", h3.FontSize)
	}
	if !near(h3.LineHeight, 15.75) {
		t.Errorf("h3 line height = %v, want 15.75", h3.LineHeight)
	}
	if !h3.Bold || h3.MarginTop != 0 {
		t.Errorf("h3 = %+v", h3)
	}

	span := c.Resolve(nodes[0].LastChild, div, 10)
	if span.Display != DisplayInline {
		t.Errorf("span display = %v, want inline", span.Display)
	}
}

func TestLengthValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12px", 12, true},
		{"1.5em", 24, true},
		{"2rem", 20, true},
		{"72pt", 96, true},
		{"0", 0, true},
		{"1in", 96, true},
		{"wide", 0, false},
	}
	for _, tt := range tests {
		got, ok := lengthValue(tt.in, 16, 10)
		if ok != tt.ok || !near(got, tt.want) {
			t.Errorf("lengthValue(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBuildStylesheetTheme(t *testing.T) {
	th := DefaultTheme()
	th.UppercaseTitle = true
	th.SidebarColor = "#123456"
	css := BuildStylesheet(th, Typography{AccentColor: "#ff0000"})

	for _, want := range []string{"text-transform: uppercase", ".cv-sidebar", "#ff0000", "font-size: 14px"} {
		if !strings.Contains(css, want) {
			t.Errorf("stylesheet missing %q", want)
		}
	}
	if n := len(ParseCSSString(css).Rules); n < 10 {
		t.Errorf("stylesheet parsed into %d rules", n)
	}
}

func TestTypographyDefaults(t *testing.T) {
	got := Typography{FontSize: 12}.Normalize()
	if got.FontSize != 12 || got.LineHeight != 1.4 || got.FontFamily == "" {
		t.Errorf("Normalize() = %+v", got)
	}
	if !near(Typography{FontSize: 10, LineHeight: 1.5}.LinePixels(), 15) {
		t.Error("LinePixels() mismatch")
	}
}
