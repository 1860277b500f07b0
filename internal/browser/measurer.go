package browser

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/gompdf/cvpager/internal/markup"
	"github.com/gompdf/cvpager/internal/measure"
)

// measureScript waits two animation frames, so layout and font loading
// have settled, then reads the height of every block wrapper in order.
const measureScript = `new Promise(resolve => {
  requestAnimationFrame(() => requestAnimationFrame(() => {
    const out = [];
    document.querySelectorAll('[data-measure]').forEach(el => {
      out[Number(el.dataset.measure)] = el.getBoundingClientRect().height;
    });
    resolve(out);
  }));
})`

// Measurer reports block heights as laid out by Chrome.
type Measurer struct {
	session *Session
}

// NewMeasurer creates a measurement provider backed by s.
func NewMeasurer(s *Session) *Measurer {
	return &Measurer{session: s}
}

// Measure implements measure.Provider. Each block is wrapped in a
// flow-root container the width of the column, so its margins count
// towards its height.
func (m *Measurer) Measure(ctx context.Context, req measure.Request) ([]float64, error) {
	doc := measurementDocument(req)

	var heights []float64
	err := m.session.run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(measureScript, &heights, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("browser: measuring %d blocks: %w", len(req.Blocks), err)
	}
	if len(heights) < len(req.Blocks) {
		heights = append(heights, make([]float64, len(req.Blocks)-len(heights))...)
	}
	m.session.cfg.logger.Debug("measured", "blocks", len(req.Blocks), "width", req.Width)
	return heights[:len(req.Blocks)], nil
}

func measurementDocument(req measure.Request) string {
	wrappers := make([]*markup.Node, 0, len(req.Blocks))
	for i, b := range req.Blocks {
		wrappers = append(wrappers, markup.El("div",
			[]markup.Attr{
				markup.Data("measure", strconv.Itoa(i)),
				{Key: "style", Val: "display: flow-root"},
			},
			markup.Raw(b.Content),
		))
	}
	root := markup.El("div", []markup.Attr{
		markup.Class("cv-root"),
		{Key: "style", Val: fmt.Sprintf("width: %gpx", req.Width)},
	}, wrappers...)

	head := markup.El("head", nil,
		markup.El("meta", []markup.Attr{{Key: "charset", Val: "utf-8"}}),
		markup.El("style", nil, markup.Raw("html, body { margin: 0; padding: 0; }\n"+req.Stylesheet)),
	)
	return "<!DOCTYPE html>" + markup.MustRender(markup.El("html", nil, head, markup.El("body", nil, root)))
}

var _ measure.Provider = (*Measurer)(nil)
