package cv

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gompdf/cvpager/internal/markup"
)

// PlaceholderTitle heads a résumé whose owner has not entered a name yet.
const PlaceholderTitle = "Untitled CV"

// breakMarker is the item value the editor inserts for a manual page break.
const breakMarker = "page-break"

type fieldRole int

const (
	roleTitle fieldRole = iota
	roleSubtitle
	roleMeta
	roleBody
	roleList
)

// knownFields are rendered first, in this order; every other field follows
// sorted by key.
var knownFields = []struct {
	key  string
	role fieldRole
}{
	{"title", roleTitle},
	{"position", roleTitle},
	{"role", roleTitle},
	{"degree", roleTitle},
	{"name", roleTitle},
	{"company", roleSubtitle},
	{"organization", roleSubtitle},
	{"institution", roleSubtitle},
	{"school", roleSubtitle},
	{"issuer", roleSubtitle},
	{"startDate", roleMeta},
	{"endDate", roleMeta},
	{"date", roleMeta},
	{"location", roleMeta},
	{"level", roleMeta},
	{"description", roleBody},
	{"summary", roleBody},
	{"highlights", roleList},
	{"bullets", roleList},
	{"keywords", roleList},
}

func isKnownField(key string) bool {
	for _, f := range knownFields {
		if f.key == key {
			return true
		}
	}
	return false
}

// isIdentifierField reports whether key only identifies an item and never
// counts as content.
func isIdentifierField(key string) bool {
	switch key {
	case "id", "_id", "kind":
		return true
	}
	return strings.HasSuffix(key, "Id") || strings.HasSuffix(key, "ID")
}

func isBreak(it Item) bool {
	k, _ := it["kind"].(string)
	return k == breakMarker
}

// hasContent reports whether any non-identifier field of it holds a value.
func hasContent(it Item) bool {
	for k, v := range it {
		if isIdentifierField(k) {
			continue
		}
		if !isEmptyValue(v) {
			return true
		}
	}
	return false
}

func isEmptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case bool:
		return !x
	case float64:
		return x == 0
	case float32:
		return x == 0
	case int:
		return x == 0
	case int64:
		return x == 0
	case []any:
		for _, e := range x {
			if !isEmptyValue(e) {
				return false
			}
		}
		return true
	case []string:
		for _, e := range x {
			if strings.TrimSpace(e) != "" {
				return false
			}
		}
		return true
	case map[string]any:
		for _, e := range x {
			if !isEmptyValue(e) {
				return false
			}
		}
		return true
	}
	return false
}

// formatScalar renders a non-list value as display text.
func formatScalar(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case bool:
		if x {
			return "Yes"
		}
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			if !isEmptyValue(x[k]) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, FallbackTitle(k)+": "+formatScalar(x[k]))
		}
		return strings.Join(parts, ", ")
	case []any, []string:
		return strings.Join(listValues(x), ", ")
	}
	return fmt.Sprint(v)
}

func listValues(v any) []string {
	var out []string
	switch x := v.(type) {
	case []any:
		for _, e := range x {
			if s := formatScalar(e); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, e := range x {
			if s := strings.TrimSpace(e); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := formatScalar(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func headerFragment(p Personal) string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = PlaceholderTitle
	}

	var contact []*markup.Node
	for _, v := range append([]string{p.Email, p.Phone, p.Location, p.Website}, p.Links...) {
		if v = strings.TrimSpace(v); v != "" {
			contact = append(contact, markup.El("li", nil, markup.Text(v)))
		}
	}

	var headline, list *markup.Node
	if h := strings.TrimSpace(p.Headline); h != "" {
		headline = markup.El("p", []markup.Attr{markup.Class("cv-headline")}, markup.Text(h))
	}
	if len(contact) > 0 {
		list = markup.El("ul", []markup.Attr{markup.Class("cv-contact")}, contact...)
	}
	return markup.MustRender(markup.El("header", []markup.Attr{markup.Class("cv-header")},
		markup.El("h1", []markup.Attr{markup.Class("cv-name")}, markup.Text(name)),
		headline,
		list,
	))
}

func sectionTitleFragment(id, title string) string {
	return markup.MustRender(markup.El("h2",
		[]markup.Attr{markup.Class("cv-section-title"), markup.Data("section", id)},
		markup.Text(title)))
}

func breakFragment() string {
	return markup.MustRender(markup.El("div", []markup.Attr{markup.Class("cv-break")}))
}

func itemFragment(it Item) string {
	var (
		title, subtitle, meta, body []string
		lists                       []string
	)
	for _, f := range knownFields {
		v, ok := it[f.key]
		if !ok || isEmptyValue(v) {
			continue
		}
		switch f.role {
		case roleTitle:
			title = append(title, formatScalar(v))
		case roleSubtitle:
			subtitle = append(subtitle, formatScalar(v))
		case roleMeta:
			meta = append(meta, formatScalar(v))
		case roleBody:
			body = append(body, formatScalar(v))
		case roleList:
			lists = append(lists, listValues(v)...)
		}
	}

	children := []*markup.Node{
		textElement("h3", "cv-item-title", strings.Join(title, " · ")),
		textElement("p", "cv-item-subtitle", strings.Join(subtitle, " · ")),
		textElement("p", "cv-item-meta", joinMeta(it, meta)),
	}
	for _, b := range body {
		children = append(children, textElement("p", "cv-item-body", b))
	}
	if len(lists) > 0 {
		lis := make([]*markup.Node, len(lists))
		for i, s := range lists {
			lis[i] = markup.El("li", nil, markup.Text(s))
		}
		children = append(children, markup.El("ul", []markup.Attr{markup.Class("cv-item-list")}, lis...))
	}

	extra := make([]string, 0, len(it))
	for k := range it {
		if !isKnownField(k) && !isIdentifierField(k) && !isEmptyValue(it[k]) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		children = append(children, markup.El("p",
			[]markup.Attr{markup.Class("cv-item-field"), markup.Data("field", k)},
			markup.El("span", []markup.Attr{markup.Class("cv-item-label")}, markup.Text(FallbackTitle(k)+": ")),
			markup.Text(formatScalar(it[k])),
		))
	}
	return markup.MustRender(markup.El("div", []markup.Attr{markup.Class("cv-item")}, children...))
}

// joinMeta renders dates as a range and appends the remaining meta values.
func joinMeta(it Item, meta []string) string {
	start := formatScalar(it["startDate"])
	end := formatScalar(it["endDate"])
	if start == "" || end == "" || len(meta) < 2 || meta[0] != start || meta[1] != end {
		return strings.Join(meta, " · ")
	}
	rest := append([]string{start + " – " + end}, meta[2:]...)
	return strings.Join(rest, " · ")
}

func textElement(tag, class, text string) *markup.Node {
	if text == "" {
		return nil
	}
	return markup.El(tag, []markup.Attr{markup.Class(class)}, markup.Text(text))
}

func standaloneFragment(id, title, text string) string {
	children := []*markup.Node{
		markup.El("h2", []markup.Attr{markup.Class("cv-section-title")}, markup.Text(title)),
	}
	for _, para := range paragraphs(text) {
		children = append(children, markup.El("p", nil, markup.Text(para)))
	}
	return markup.MustRender(markup.El("section",
		[]markup.Attr{markup.Class("cv-standalone"), markup.Data("section", id)},
		children...))
}

func textItemFragment(text string) string {
	var children []*markup.Node
	for _, para := range paragraphs(text) {
		children = append(children, markup.El("p", nil, markup.Text(para)))
	}
	return markup.MustRender(markup.El("div", []markup.Attr{markup.Class("cv-item", "cv-item--text")}, children...))
}

// paragraphs splits free text at blank lines and joins wrapped lines.
func paragraphs(text string) []string {
	var out []string
	for _, chunk := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if p := strings.Join(strings.Fields(chunk), " "); p != "" {
			out = append(out, p)
		}
	}
	return out
}
