// Package config holds the template catalog. Every template fixes the page
// shape, typography and theme a CV is laid out with; a TOML file may
// override built-in templates or add new ones.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gompdf/cvpager/internal/cv"
	"github.com/gompdf/cvpager/internal/model"
	"github.com/gompdf/cvpager/internal/pagination"
	"github.com/gompdf/cvpager/internal/pass"
	"github.com/gompdf/cvpager/internal/style"
)

// DefaultTemplate is used when no template is named.
const DefaultTemplate = "default"

// ErrUnknownTemplate is returned for a template name missing from the catalog.
var ErrUnknownTemplate = errors.New("config: unknown template")

// Template is one entry of the catalog.
type Template struct {
	Name        string       `toml:"-" json:"name"`
	Description string       `toml:"description" json:"description"`
	Layout      model.Layout `toml:"layout" json:"layout"`
	// PageSize names a standard page size and overrides Geometry.Page.
	PageSize        string              `toml:"page_size" json:"pageSize,omitempty"`
	Geometry        pagination.Geometry `toml:"geometry" json:"geometry"`
	Typography      style.Typography    `toml:"typography" json:"typography"`
	Theme           style.Theme         `toml:"theme" json:"theme"`
	SidebarSections []string            `toml:"sidebar_sections" json:"sidebarSections,omitempty"`
	HeaderInSidebar bool                `toml:"header_in_sidebar" json:"headerInSidebar"`
}

// Inputs returns the pass inputs for laying out doc with t.
func (t Template) Inputs(doc cv.Document) pass.Inputs {
	return pass.Inputs{
		Document:        doc,
		Layout:          t.Layout,
		Typography:      t.Typography,
		Theme:           t.Theme,
		Geometry:        t.Geometry,
		SidebarSections: append([]string(nil), t.SidebarSections...),
		HeaderInSidebar: t.HeaderInSidebar,
	}
}

func (t *Template) validate() error {
	switch t.Layout {
	case "":
		t.Layout = model.LayoutSingle
	case model.LayoutSingle, model.LayoutDual:
	default:
		return fmt.Errorf("template %q: unknown layout %q", t.Name, t.Layout)
	}
	if t.PageSize != "" {
		size, ok := pagination.LookupPageSize(t.PageSize)
		if !ok {
			return fmt.Errorf("template %q: unknown page size %q", t.Name, t.PageSize)
		}
		t.Geometry.Page = size
	}
	if t.Geometry.Page.Width <= 0 || t.Geometry.Page.Height <= 0 {
		return fmt.Errorf("template %q: page size must be positive", t.Name)
	}
	if t.Layout == model.LayoutDual && !t.Geometry.HasSidebar() {
		return fmt.Errorf("template %q: dual layout needs a sidebar width", t.Name)
	}
	if t.Geometry.MainBudget() <= 0 {
		return fmt.Errorf("template %q: padding leaves no room for content", t.Name)
	}
	return nil
}

// Config is a template catalog.
type Config struct {
	Default   string
	templates map[string]Template
}

// Builtin returns the built-in catalog.
func Builtin() *Config {
	c := &Config{Default: DefaultTemplate, templates: make(map[string]Template)}
	for _, t := range builtinTemplates() {
		c.templates[t.Name] = t
	}
	return c
}

// Lookup returns the named template. An empty name selects the default.
func (c *Config) Lookup(name string) (Template, error) {
	if name == "" {
		name = c.Default
	}
	t, ok := c.templates[name]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	t.SidebarSections = append([]string(nil), t.SidebarSections...)
	return t, nil
}

// Names lists the catalog's template names in sorted order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.templates))
	for n := range c.templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type file struct {
	Default   string                    `toml:"default_template"`
	Templates map[string]toml.Primitive `toml:"templates"`
}

// templateBase is the key a file template uses to start from another
// template instead of the one sharing its name.
type templateBase struct {
	Extends string `toml:"extends"`
}

// Load reads a TOML file on top of the built-in catalog. A table
// [templates.<name>] overrides only the keys it sets; a new name starts from
// the template named by its "extends" key, or from the default template.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	c, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes TOML source on top of the built-in catalog.
func Parse(src string) (*Config, error) {
	var f file
	md, err := toml.Decode(src, &f)
	if err != nil {
		return nil, err
	}

	c := Builtin()
	names := make([]string, 0, len(f.Templates))
	for n := range f.Templates {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		prim := f.Templates[name]
		var base templateBase
		if err := md.PrimitiveDecode(prim, &base); err != nil {
			return nil, fmt.Errorf("template %q: %w", name, err)
		}
		t, err := c.base(name, base.Extends)
		if err != nil {
			return nil, err
		}
		t.PageSize = ""
		if err := md.PrimitiveDecode(prim, &t); err != nil {
			return nil, fmt.Errorf("template %q: %w", name, err)
		}
		t.Name = name
		if err := t.validate(); err != nil {
			return nil, err
		}
		c.templates[name] = t
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	if f.Default != "" {
		if _, ok := c.templates[f.Default]; !ok {
			return nil, fmt.Errorf("%w: default %q", ErrUnknownTemplate, f.Default)
		}
		c.Default = f.Default
	}
	return c, nil
}

func (c *Config) base(name, extends string) (Template, error) {
	if extends != "" {
		t, err := c.Lookup(extends)
		if err != nil {
			return Template{}, fmt.Errorf("template %q extends: %w", name, err)
		}
		return t, nil
	}
	if _, ok := c.templates[name]; ok {
		return c.Lookup(name)
	}
	return c.Lookup(DefaultTemplate)
}
