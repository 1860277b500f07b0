// Package measure defines the measurement oracle the paginators rely on and
// the checks applied to the heights it reports.
package measure

import (
	"context"
	"fmt"
	"math"

	"github.com/gompdf/cvpager/internal/model"
	"github.com/gompdf/cvpager/internal/style"
)

// Request commits a set of blocks to a layout surface. Width is the column
// width the blocks flow in; Stylesheet is the template CSS they render with.
type Request struct {
	Blocks     []model.Block
	Typography style.Typography
	Width      float64
	Stylesheet string
}

// Provider reports the rendered height of every block in a request, in
// request order. It may return zero heights while the surface is not yet
// laid out; callers detect that with Validate and ask again.
type Provider interface {
	Measure(ctx context.Context, req Request) ([]float64, error)
}

// Func adapts a function to the Provider interface.
type Func func(ctx context.Context, req Request) ([]float64, error)

// Measure calls f.
func (f Func) Measure(ctx context.Context, req Request) ([]float64, error) {
	return f(ctx, req)
}

// Fixed reports a fixed height per block kind, with Default for kinds not
// listed. Manual breaks always measure zero.
type Fixed struct {
	Heights map[model.Kind]float64
	Default float64
}

// Measure implements Provider.
func (f Fixed) Measure(ctx context.Context, req Request) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]float64, len(req.Blocks))
	for i, b := range req.Blocks {
		if b.Kind == model.KindManualBreak {
			continue
		}
		h, ok := f.Heights[b.Kind]
		if !ok {
			h = f.Default
		}
		out[i] = h
	}
	return out, nil
}

// Apply pairs blocks with their heights. Manual breaks count as zero, as do
// negative and non-finite heights, which only blank blocks can still carry
// after Validate.
func Apply(blocks []model.Block, heights []float64) ([]model.MeasuredBlock, error) {
	if len(blocks) != len(heights) {
		return nil, fmt.Errorf("measure: got %d heights for %d blocks", len(heights), len(blocks))
	}
	out := make([]model.MeasuredBlock, len(blocks))
	for i, b := range blocks {
		h := heights[i]
		if b.Kind == model.KindManualBreak || h < 0 || math.IsNaN(h) || math.IsInf(h, 0) {
			h = 0
		}
		out[i] = model.MeasuredBlock{Block: b, Height: h}
	}
	return out, nil
}
