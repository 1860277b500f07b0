package markup

import (
	"strings"
	"testing"
)

func TestRenderEscapesText(t *testing.T) {
	got := MustRender(El("p", []Attr{Class("cv-item")}, Text("R&D <lead>")))
	want := `<p class="cv-item">R&amp;D &lt;lead&gt;</p>`
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderRawVerbatim(t *testing.T) {
	got := MustRender(El("section", nil, Raw("<b>kept</b>")))
	if got != "<section><b>kept</b></section>" {
		t.Errorf("Render() = %q", got)
	}
}

func TestElSkipsNilChildren(t *testing.T) {
	n := El("div", nil, nil, Text("a"), nil)
	if n.FirstChild == nil || n.FirstChild != n.LastChild {
		t.Fatal("expected exactly one child")
	}
}

func TestParseFragment(t *testing.T) {
	nodes, err := NewParser().ParseString(`<div class="cv-item a"><h3>Title</h3><p>Body text</p></div>`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("got %d top-level nodes, want 1", len(nodes))
	}
	if cls := Classes(nodes[0]); len(cls) != 2 || cls[0] != "cv-item" {
		t.Errorf("Classes() = %v", cls)
	}
	if txt := TextContent(nodes[0]); !strings.Contains(txt, "Title") || !strings.Contains(txt, "Body text") {
		t.Errorf("TextContent() = %q", txt)
	}
	if _, ok := AttrValue(nodes[0], "id"); ok {
		t.Error("AttrValue(id) reported a missing attribute as present")
	}
}
