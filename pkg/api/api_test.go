package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gompdf/cvpager/internal/measure"
	"github.com/gompdf/cvpager/internal/model"
	"github.com/gompdf/cvpager/internal/pagination"
)

func sampleDocument() Document {
	return Document{
		Data: Data{
			Personal: Personal{Name: "Ada Lovelace", Email: "ada@example.com"},
			Sections: map[string]Section{
				"experience": {Items: []Item{
					{"title": "Analyst", "company": "Engine Works", "startDate": "1842"},
					{"title": "Correspondent", "company": "Royal Society"},
				}},
				"skills": {Items: []Item{{"name": "Mathematics"}}},
			},
		},
		SectionOrder: []string{"experience", "skills"},
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithLogger(log.New(io.Discard)),
		WithProvider(measure.Fixed{Default: 100}),
		WithTickInterval(0),
	}
	e, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestEngineLayout(t *testing.T) {
	e := newTestEngine(t)
	r, err := e.Layout(context.Background(), sampleDocument())
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if r.Layout.Layout != model.LayoutSingle {
		t.Errorf("layout = %q", r.Layout.Layout)
	}
	// header, title, 2 items, title, 1 item at 100px each fit one A4 page.
	if n := r.Layout.PageCount(); n != 1 {
		t.Errorf("PageCount() = %d, want 1", n)
	}
	if got := len(r.Layout.Flatten()); got != 6 {
		t.Errorf("got %d blocks, want 6", got)
	}
}

func TestEngineSidebarTemplate(t *testing.T) {
	e := newTestEngine(t, WithTemplate("sidebar"))
	r, err := e.Layout(context.Background(), sampleDocument())
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if r.Layout.Layout != model.LayoutDual || len(r.Layout.DualPages) != 1 {
		t.Fatalf("result = %+v", r.Layout)
	}
	page := r.Layout.DualPages[0]
	if len(page.Sidebar) != 3 || len(page.Main) != 3 {
		t.Errorf("sidebar %d blocks, main %d blocks; want 3 and 3", len(page.Sidebar), len(page.Main))
	}
}

func TestEnginePreviewIncludesStylesheet(t *testing.T) {
	e := newTestEngine(t, WithStylesheet("data:text/css,.cv-item%20%7B%20color:%20red;%20%7D"))
	html, err := e.Preview(context.Background(), sampleDocument())
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	for _, want := range []string{"<title>Ada Lovelace</title>", ".cv-item { color: red; }", `data-section="experience"`} {
		if !strings.Contains(html, want) {
			t.Errorf("preview missing %q", want)
		}
	}
}

func TestEngineProof(t *testing.T) {
	e := newTestEngine(t)
	var buf bytes.Buffer
	if err := e.Proof(context.Background(), sampleDocument(), &buf); err != nil {
		t.Fatalf("Proof: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("proof is not a PDF")
	}
}

func TestEngineLayoutTemplateKeepsTypography(t *testing.T) {
	e := newTestEngine(t)
	executive, err := e.Lookup("executive")
	if err != nil {
		t.Fatal(err)
	}
	r, err := e.LayoutTemplate(context.Background(), "executive", sampleDocument())
	if err != nil {
		t.Fatalf("LayoutTemplate: %v", err)
	}
	if got, want := r.Typography.AccentColor, executive.Typography.AccentColor; got != want {
		t.Errorf("accent = %q, want %q", got, want)
	}
	if r.Typography.AccentColor == e.Template().Typography.AccentColor {
		t.Fatalf("executive and default share accent %q", r.Typography.AccentColor)
	}
	var buf bytes.Buffer
	if err := e.WriteProof(r, &buf); err != nil {
		t.Fatalf("WriteProof: %v", err)
	}
}

func TestEngineOverrides(t *testing.T) {
	g := pagination.DefaultGeometry()
	g.Padding.Top = 10
	e := newTestEngine(t, WithGeometry(g), WithPageSize("letter"), WithTypography(Typography{FontSize: 12}))
	tpl := e.Template()
	if tpl.Geometry.Page != pagination.PageSizeLetter || tpl.Geometry.Padding.Top != 10 {
		t.Errorf("geometry = %+v", tpl.Geometry)
	}
	if tpl.Typography.FontSize != 12 || tpl.Typography.LineHeight == 0 {
		t.Errorf("typography = %+v", tpl.Typography)
	}
}

func TestEngineMetricsByDefault(t *testing.T) {
	e, err := New(WithLogger(log.New(io.Discard)), WithTickInterval(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()
	r, err := e.Layout(context.Background(), sampleDocument())
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if r.Degraded != 0 {
		t.Errorf("Degraded = %d, want 0", r.Degraded)
	}
	for _, b := range r.Layout.Flatten() {
		if b.Height <= 0 {
			t.Errorf("block %d (%s) measured %v", b.Order, b.Kind, b.Height)
		}
	}
}

func TestEngineErrors(t *testing.T) {
	if _, err := New(WithTemplate("nope")); !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("unknown template: %v", err)
	}

	var optErr *OptionError
	if _, err := New(WithPageSize("B9")); !errors.As(err, &optErr) || optErr.Option != "page size" {
		t.Errorf("bad page size: %v", err)
	}
	if _, err := New(WithMeasurer("ruler")); !errors.As(err, &optErr) || optErr.Option != "measurer" {
		t.Errorf("bad measurer: %v", err)
	}

	if _, err := (&Engine{}).Layout(context.Background(), sampleDocument()); !errors.Is(err, ErrNoProvider) {
		t.Errorf("zero engine: %v", err)
	}

	e := newTestEngine(t)
	e.Close()
	if _, err := e.Layout(context.Background(), sampleDocument()); !errors.Is(err, ErrClosed) {
		t.Errorf("closed engine: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestEngineSchedule(t *testing.T) {
	e := newTestEngine(t, WithDebounce(time.Millisecond))
	s := e.Schedule(nil)
	defer s.Close()

	in, err := e.Inputs(context.Background(), sampleDocument())
	if err != nil {
		t.Fatal(err)
	}
	gen := s.Notify(in)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r, err := s.Wait(ctx, gen)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if r.Layout.Generation != gen || r.Title != "Ada Lovelace" {
		t.Errorf("result generation %d title %q", r.Layout.Generation, r.Title)
	}
}
