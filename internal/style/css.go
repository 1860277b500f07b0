package style

import (
	"io"
	"strings"
)

// Rule represents a CSS rule
type Rule struct {
	Selectors    []string
	Declarations []Declaration
}

// Declaration represents a CSS declaration (property-value pair)
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []Rule
}

// ParseCSS parses a stylesheet from r. At-rules are skipped; malformed rules
// are dropped rather than failing the whole sheet.
func ParseCSS(r io.Reader) (*Stylesheet, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseCSSString(string(content)), nil
}

// ParseCSSString parses a stylesheet held in a string.
func ParseCSSString(content string) *Stylesheet {
	sheet := &Stylesheet{}
	content = stripComments(content)

	for len(content) > 0 {
		open := strings.IndexByte(content, '{')
		if open < 0 {
			break
		}
		prelude := strings.TrimSpace(content[:open])
		end := matchingBrace(content, open)
		if end < 0 {
			break
		}
		body := content[open+1 : end]
		content = content[end+1:]

		if strings.HasPrefix(prelude, "@") {
			continue
		}
		selectors := splitList(prelude, ',')
		if len(selectors) == 0 {
			continue
		}
		sheet.Rules = append(sheet.Rules, Rule{
			Selectors:    selectors,
			Declarations: ParseDeclarations(body),
		})
	}
	return sheet
}

// ParseDeclarations parses the body of a rule or an inline style attribute.
func ParseDeclarations(body string) []Declaration {
	var out []Declaration
	for _, part := range strings.Split(body, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" || value == "" {
			continue
		}
		important := false
		if v, found := strings.CutSuffix(value, "!important"); found {
			important = true
			value = strings.TrimSpace(v)
		}
		out = append(out, Declaration{Property: prop, Value: value, Important: important})
	}
	return out
}

func stripComments(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "/*")
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:start])
		end := strings.Index(s[start+2:], "*/")
		if end < 0 {
			return b.String()
		}
		s = s[start+2+end+2:]
	}
}

// matchingBrace returns the index of the brace closing the one at open.
func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func splitList(s string, sep byte) []string {
	var out []string
	for _, part := range strings.Split(s, string(sep)) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.Join(strings.Fields(part), " "))
		}
	}
	return out
}
