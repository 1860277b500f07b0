package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gompdf/cvpager/internal/cv"
	"github.com/gompdf/cvpager/internal/model"
	"github.com/gompdf/cvpager/internal/pagination"
)

func TestBuiltinCatalog(t *testing.T) {
	c := Builtin()
	want := []string{"default", "executive", "minimalist", "sidebar", "timeline"}
	if got := c.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for _, name := range want {
		tpl, err := c.Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if err := tpl.validate(); err != nil {
			t.Errorf("builtin %q invalid: %v", name, err)
		}
		wantLayout := model.LayoutSingle
		if name == "sidebar" {
			wantLayout = model.LayoutDual
		}
		if tpl.Layout != wantLayout {
			t.Errorf("%q layout = %q, want %q", name, tpl.Layout, wantLayout)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Builtin().Lookup("nope")
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("Lookup() = %v, want ErrUnknownTemplate", err)
	}
	tpl, err := Builtin().Lookup("")
	if err != nil || tpl.Name != DefaultTemplate {
		t.Errorf("Lookup(\"\") = %q, %v", tpl.Name, err)
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	c := Builtin()
	tpl, _ := c.Lookup("sidebar")
	tpl.SidebarSections[0] = "changed"
	again, _ := c.Lookup("sidebar")
	if again.SidebarSections[0] != "skills" {
		t.Errorf("catalog mutated through Lookup: %v", again.SidebarSections)
	}
}

func TestParseOverridesOnlySetKeys(t *testing.T) {
	c, err := Parse(`
default_template = "compact"

[templates.default]
page_size = "letter"

[templates.default.typography]
font_size = 12

[templates.compact]
extends = "sidebar"
sidebar_sections = ["skills"]

[templates.compact.geometry.sidebar]
width = 200
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	def, _ := c.Lookup("default")
	if def.Geometry.Page != pagination.PageSizeLetter {
		t.Errorf("page = %+v, want Letter", def.Geometry.Page)
	}
	if def.Typography.FontSize != 12 || def.Typography.LineHeight != 1.4 {
		t.Errorf("typography = %+v", def.Typography)
	}

	compact, err := c.Lookup("")
	if err != nil {
		t.Fatalf("Lookup default: %v", err)
	}
	if compact.Name != "compact" || compact.Layout != model.LayoutDual {
		t.Errorf("compact = %q %q", compact.Name, compact.Layout)
	}
	if compact.Geometry.Sidebar.Width != 200 || compact.Geometry.Sidebar.PaddingTop != 40 {
		t.Errorf("sidebar = %+v", compact.Geometry.Sidebar)
	}
	if !reflect.DeepEqual(compact.SidebarSections, []string{"skills"}) {
		t.Errorf("sidebar sections = %v", compact.SidebarSections)
	}

	side, _ := c.Lookup("sidebar")
	if len(side.SidebarSections) != 5 {
		t.Errorf("extended template changed its base: %v", side.SidebarSections)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", "[templates", ""},
		{"unknown key", "[templates.default]\ncolour = \"red\"", "unknown keys"},
		{"unknown layout", "[templates.default]\nlayout = \"triple\"", "unknown layout"},
		{"unknown page", "[templates.default]\npage_size = \"B9\"", "unknown page size"},
		{"dual without sidebar", "[templates.default]\nlayout = \"dual\"", "sidebar width"},
		{"no room", "[templates.default.geometry.padding]\ntop = 800\nbottom = 800", "no room"},
		{"bad extends", "[templates.x]\nextends = \"missing\"", "unknown template"},
		{"bad default", "default_template = \"missing\"", "unknown template"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatal("Parse() succeeded")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.toml")
	if err := os.WriteFile(path, []byte("[templates.default.theme]\nuppercase_titles = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tpl, _ := c.Lookup("default")
	if !tpl.Theme.UppercaseTitle || !tpl.Theme.TitleRule {
		t.Errorf("theme = %+v", tpl.Theme)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v", err)
	}
}

func TestTemplateInputs(t *testing.T) {
	tpl, _ := Builtin().Lookup("sidebar")
	doc := cv.Document{Data: cv.Data{Personal: cv.Personal{Name: "Ada"}}}
	in := tpl.Inputs(doc)
	if in.Layout != model.LayoutDual || !in.HeaderInSidebar || in.Geometry != tpl.Geometry {
		t.Errorf("inputs = %+v", in)
	}
	in.SidebarSections[0] = "x"
	if tpl.SidebarSections[0] != "skills" {
		t.Error("Inputs shares the template's sidebar sections")
	}
}
