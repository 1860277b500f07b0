package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/gompdf/cvpager/internal/pagination"
)

const pixelsPerInch = 96.0

// Printer turns a rendered preview document into a PDF.
type Printer struct {
	session *Session
}

// NewPrinter creates a print service backed by s.
func NewPrinter(s *Session) *Printer {
	return &Printer{session: s}
}

// PrintPDF prints html on pages sized by g. The document already carries
// one fixed-height element per page, so the print margins are zero.
func (p *Printer) PrintPDF(ctx context.Context, html string, g pagination.Geometry) ([]byte, error) {
	f, err := os.CreateTemp("", "cvpager-*.html")
	if err != nil {
		return nil, fmt.Errorf("browser: creating temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(html); err != nil {
		f.Close()
		return nil, fmt.Errorf("browser: writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("browser: closing temp file: %w", err)
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("browser: resolving path: %w", err)
	}

	var buf []byte
	err = p.session.run(ctx,
		chromedp.Navigate("file://"+abs),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPaperWidth(g.Page.Width / pixelsPerInch).
				WithPaperHeight(g.Page.Height / pixelsPerInch).
				WithMarginTop(0).
				WithMarginRight(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("browser: printing: %w", err)
	}
	p.session.cfg.logger.Debug("printed", "bytes", len(buf), "page", g.Page.Name)
	return buf, nil
}
