package measure

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/gompdf/cvpager/internal/model"
	"github.com/gompdf/cvpager/internal/style"
)

func TestValidate(t *testing.T) {
	blocks := []model.Block{
		{Kind: model.KindHeader, Content: "<h1>A</h1>"},
		{Kind: model.KindManualBreak, Content: `<div class="cv-break"></div>`},
		{Kind: model.KindItem, Content: "<p>x</p>"},
		{Kind: model.KindItem, Content: "<p>y</p>"},
		{Kind: model.KindItem, Content: " "},
	}

	if err := Validate(blocks, []float64{10, 0, 20, 30, 0}); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	err := Validate(blocks, []float64{0, 0, math.NaN(), -1, 0})
	if !IsStale(err) {
		t.Fatalf("Validate() = %v, want stale", err)
	}
	var se *StaleError
	if !errors.As(err, &se) || !reflect.DeepEqual(se.Indexes, []int{0, 2, 3}) {
		t.Errorf("stale indexes = %v", se)
	}

	if err := Validate(blocks, []float64{1}); err == nil || IsStale(err) {
		t.Errorf("length mismatch: got %v", err)
	}
}

func TestSubstitute(t *testing.T) {
	in := []float64{0, 5, 0}
	got := Substitute(in, []int{0, 2, 9}, 19.6)
	if !reflect.DeepEqual(got, []float64{19.6, 5, 19.6}) {
		t.Errorf("Substitute() = %v", got)
	}
	if in[0] != 0 {
		t.Error("Substitute modified its input")
	}
}

func TestFixed(t *testing.T) {
	p := Fixed{Heights: map[model.Kind]float64{model.KindHeader: 80}, Default: 30}
	got, err := p.Measure(context.Background(), Request{Blocks: []model.Block{
		{Kind: model.KindHeader},
		{Kind: model.KindItem},
		{Kind: model.KindManualBreak},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []float64{80, 30, 0}) {
		t.Errorf("Measure() = %v", got)
	}
}

func TestApplyZeroesBreaks(t *testing.T) {
	got, err := Apply([]model.Block{{Kind: model.KindItem}, {Kind: model.KindManualBreak}}, []float64{12, 40})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Height != 12 || got[1].Height != 0 {
		t.Errorf("Apply() = %+v", got)
	}
}

func TestApplyZeroesUnusableHeights(t *testing.T) {
	blocks := []model.Block{
		{Kind: model.KindItem, Content: " "},
		{Kind: model.KindItem, Content: ""},
		{Kind: model.KindStandalone, Content: " "},
		{Kind: model.KindItem, Content: "<p>x</p>"},
	}
	got, err := Apply(blocks, []float64{math.NaN(), math.Inf(1), -5, 20})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 0, 0, 20}
	for i, b := range got {
		if b.Height != want[i] {
			t.Errorf("block %d height = %v, want %v", i, b.Height, want[i])
		}
	}
}

func metricsRequest(width float64, contents ...string) Request {
	req := Request{
		Typography: style.Typography{FontSize: 10, LineHeight: 1.5},
		Width:      width,
	}
	for i, c := range contents {
		req.Blocks = append(req.Blocks, model.Block{Kind: model.KindItem, Content: c, Order: i})
	}
	return req
}

func TestMetricsMeasure(t *testing.T) {
	m := NewMetrics()
	got, err := m.Measure(context.Background(), metricsRequest(10,
		`<p style="margin: 0">word</p>`,
		`<p style="margin: 0">aaa bbb</p>`,
		`<p style="margin: 0">a<br>b</p>`,
		`<p style="display: none">hidden</p>`,
		`<p style="margin: 0; padding: 5px 0">x</p>`,
	))
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{15, 30, 30, 0, 25}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("block %d height = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMetricsWrapsNarrowerColumnsTaller(t *testing.T) {
	m := NewMetrics()
	text := `<div class="cv-item"><p>Led a team of five engineers building the billing platform and its reporting pipeline.</p></div>`
	wide, err := m.Measure(context.Background(), metricsRequest(800, text))
	if err != nil {
		t.Fatal(err)
	}
	narrow, err := m.Measure(context.Background(), metricsRequest(120, text))
	if err != nil {
		t.Fatal(err)
	}
	if !(narrow[0] > wide[0]) {
		t.Errorf("narrow height %v not greater than wide height %v", narrow[0], wide[0])
	}
	again, _ := m.Measure(context.Background(), metricsRequest(120, text))
	if again[0] != narrow[0] {
		t.Errorf("repeated measurement differs: %v vs %v", again[0], narrow[0])
	}
}

func TestMetricsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMetrics().Measure(ctx, metricsRequest(100, "<p>x</p>")); !errors.Is(err, context.Canceled) {
		t.Errorf("Measure() = %v, want context.Canceled", err)
	}
}
