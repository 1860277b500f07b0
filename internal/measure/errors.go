package measure

import (
	"errors"
	"fmt"
	"math"

	"github.com/gompdf/cvpager/internal/model"
)

// ErrStaleMeasurement indicates the layout surface had not settled when it
// was read. It is retryable.
var ErrStaleMeasurement = errors.New("measure: stale measurement")

// StaleError lists the block indexes whose heights could not be trusted.
type StaleError struct {
	Indexes []int
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("measure: stale measurement for %d block(s) at %v", len(e.Indexes), e.Indexes)
}

// Unwrap allows errors.Is(err, ErrStaleMeasurement).
func (e *StaleError) Unwrap() error {
	return ErrStaleMeasurement
}

// IsStale reports whether err is a stale measurement and worth retrying.
func IsStale(err error) bool {
	return errors.Is(err, ErrStaleMeasurement)
}

// Validate checks heights against the blocks they were measured for. A
// visible block whose height is zero, negative or not finite is stale;
// invisible blocks may measure anything.
func Validate(blocks []model.Block, heights []float64) error {
	if len(blocks) != len(heights) {
		return fmt.Errorf("measure: got %d heights for %d blocks", len(heights), len(blocks))
	}
	var stale []int
	for i, b := range blocks {
		if !b.Visible() {
			continue
		}
		h := heights[i]
		if h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
			stale = append(stale, i)
		}
	}
	if len(stale) > 0 {
		return &StaleError{Indexes: stale}
	}
	return nil
}

// Substitute replaces the heights at the given indexes with fallback and
// returns the patched copy.
func Substitute(heights []float64, indexes []int, fallback float64) []float64 {
	out := append([]float64(nil), heights...)
	for _, i := range indexes {
		if i >= 0 && i < len(out) {
			out[i] = fallback
		}
	}
	return out
}
