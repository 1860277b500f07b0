// Package cv flattens a résumé document into the ordered block stream the
// paginators consume.
package cv

import (
	"sort"
)

// Personal holds the fields rendered into the header block.
type Personal struct {
	Name     string   `json:"name" toml:"name"`
	Headline string   `json:"headline,omitempty" toml:"headline"`
	Email    string   `json:"email,omitempty" toml:"email"`
	Phone    string   `json:"phone,omitempty" toml:"phone"`
	Location string   `json:"location,omitempty" toml:"location"`
	Website  string   `json:"website,omitempty" toml:"website"`
	Links    []string `json:"links,omitempty" toml:"links"`
}

// Item is one entry of a section. Keys are field names as entered in the
// editor; values are strings, numbers, booleans, lists or nested maps.
type Item map[string]any

// Section is the content of one section. A section carries either a list of
// items or a block of free text.
type Section struct {
	Items []Item `json:"items,omitempty" toml:"items"`
	Text  string `json:"text,omitempty" toml:"text"`
}

// SectionMeta is the editor's display metadata for a section.
type SectionMeta struct {
	Title  string `json:"title,omitempty" toml:"title"`
	Hidden bool   `json:"hidden,omitempty" toml:"hidden"`
}

// Data is the domain content of a résumé.
type Data struct {
	Personal Personal           `json:"personal" toml:"personal"`
	Sections map[string]Section `json:"sections,omitempty" toml:"sections"`
}

// Document is a résumé together with its section order and metadata.
type Document struct {
	Data
	SectionOrder []string               `json:"sectionOrder,omitempty" toml:"section_order"`
	SectionMeta  map[string]SectionMeta `json:"sectionMeta,omitempty" toml:"section_meta"`
}

// Order returns the section order, falling back to the section ids sorted
// when none was given.
func (d Document) Order() []string {
	if len(d.SectionOrder) > 0 {
		return d.SectionOrder
	}
	ids := make([]string, 0, len(d.Sections))
	for id := range d.Sections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
