package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/gompdf/cvpager/internal/browser"
	"github.com/gompdf/cvpager/internal/config"
	"github.com/gompdf/cvpager/internal/cv"
	"github.com/gompdf/cvpager/internal/measure"
	"github.com/gompdf/cvpager/internal/model"
	"github.com/gompdf/cvpager/internal/pagination"
	"github.com/gompdf/cvpager/internal/pass"
	"github.com/gompdf/cvpager/internal/render/pdf"
	"github.com/gompdf/cvpager/internal/res"
	"github.com/gompdf/cvpager/internal/style"
)

type (
	Document     = cv.Document
	Data         = cv.Data
	Personal     = cv.Personal
	Section      = cv.Section
	SectionMeta  = cv.SectionMeta
	Item         = cv.Item
	Typography   = style.Typography
	Theme        = style.Theme
	Geometry     = pagination.Geometry
	Template     = config.Template
	LayoutResult = model.LayoutResult
	Result       = pass.Result
	Inputs       = pass.Inputs
	Scheduler    = pass.Scheduler
	Provider     = measure.Provider
	MeasureFunc  = measure.Func
	Request      = measure.Request
)

var (
	// ErrNoProvider is returned when the engine has no measurement provider.
	ErrNoProvider = pass.ErrNoProvider
	// ErrUnknownTemplate is returned for a template missing from the catalog.
	ErrUnknownTemplate = config.ErrUnknownTemplate
	// ErrClosed is returned once the engine is closed.
	ErrClosed = errors.New("cvpager: engine closed")
)

// OptionError reports an option value the engine cannot use.
type OptionError struct {
	Option string
	Value  string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("cvpager: invalid %s %q", e.Option, e.Value)
}

// Engine lays out résumé documents
type Engine struct {
	options  Options
	logger   *log.Logger
	catalog  *config.Config
	template config.Template
	loader   *res.Loader
	runner   *pass.Runner

	mu      sync.Mutex
	session *browser.Session
	closed  bool
}

// New creates an engine with the default options modified by opts
func New(opts ...Option) (*Engine, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return NewWithOptions(o)
}

// NewWithOptions creates an engine with the specified options
func NewWithOptions(o Options) (*Engine, error) {
	logger := o.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "cvpager"})
	}
	if o.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	catalog := config.Builtin()
	if o.ConfigFile != "" {
		c, err := config.Load(o.ConfigFile)
		if err != nil {
			return nil, err
		}
		catalog = c
	}
	tpl, err := catalog.Lookup(o.Template)
	if err != nil {
		return nil, err
	}
	if tpl, err = o.resolveTemplate(tpl); err != nil {
		return nil, err
	}

	loader := res.NewLoader("")
	for _, p := range o.ResourcePaths {
		loader.AddSearchPath(p)
	}

	e := &Engine{
		options:  o,
		logger:   logger,
		catalog:  catalog,
		template: tpl,
		loader:   loader,
	}
	provider, err := e.newProvider()
	if err != nil {
		return nil, err
	}
	e.runner = &pass.Runner{
		Provider:    provider,
		Logger:      logger,
		Tick:        o.TickInterval,
		MaxAttempts: o.MaxMeasureAttempts,
	}
	logger.Debug("engine ready", "template", tpl.Name, "layout", tpl.Layout, "measurer", o.Measurer)
	return e, nil
}

func (e *Engine) newProvider() (measure.Provider, error) {
	if e.options.Provider != nil {
		return e.options.Provider, nil
	}
	switch e.options.Measurer {
	case "", MeasurerMetrics:
		return measure.NewMetrics(), nil
	case MeasurerBrowser:
		s, err := e.browserSession()
		if err != nil {
			return nil, err
		}
		return browser.NewMeasurer(s), nil
	}
	return nil, &OptionError{Option: "measurer", Value: string(e.options.Measurer)}
}

// browserSession starts Chrome on first use.
func (e *Engine) browserSession() (*browser.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	if e.session != nil {
		return e.session, nil
	}

	opts := []browser.Option{browser.WithLogger(e.logger)}
	if e.options.ChromePath != "" {
		opts = append(opts, browser.WithChromePath(e.options.ChromePath))
	}
	if e.options.BrowserTimeout > 0 {
		opts = append(opts, browser.WithTimeout(e.options.BrowserTimeout))
	}
	if e.options.NoSandbox {
		opts = append(opts, browser.WithNoSandbox())
	}
	if e.options.AutoDownload {
		opts = append(opts, browser.WithAutoDownload())
	}
	s, err := browser.NewSession(opts...)
	if err != nil {
		return nil, err
	}
	e.session = s
	return s, nil
}

// Close releases the browser, if one was started. Close is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if e.session != nil {
		return e.session.Close()
	}
	return nil
}

// Template returns the resolved template the engine lays out with
func (e *Engine) Template() Template {
	return e.template
}

// Templates lists the catalog's template names
func (e *Engine) Templates() []string {
	return e.catalog.Names()
}

// Lookup returns a catalog template by name
func (e *Engine) Lookup(name string) (Template, error) {
	return e.catalog.Lookup(name)
}

// LoadDocument loads a JSON or TOML document from a path or URL
func (e *Engine) LoadDocument(ctx context.Context, ref string) (Document, error) {
	return e.loader.LoadDocument(ctx, ref)
}

// Inputs returns the pass inputs for doc under the engine's template
func (e *Engine) Inputs(ctx context.Context, doc Document) (Inputs, error) {
	return e.inputs(ctx, e.template, doc)
}

func (e *Engine) inputs(ctx context.Context, tpl config.Template, doc Document) (Inputs, error) {
	in := tpl.Inputs(doc)
	var css strings.Builder
	for _, ref := range e.options.Stylesheets {
		r, err := e.loader.LoadCSS(ctx, ref)
		if err != nil {
			return Inputs{}, err
		}
		css.WriteString(r.String())
		css.WriteByte('\n')
	}
	in.ExtraCSS = css.String()
	return in, nil
}

// Layout runs one full layout pass over doc
func (e *Engine) Layout(ctx context.Context, doc Document) (*Result, error) {
	return e.run(ctx, e.template, doc)
}

// LayoutTemplate lays doc out with the named catalog template instead of
// the engine's own. The engine's typography, geometry and page size
// overrides still apply.
func (e *Engine) LayoutTemplate(ctx context.Context, name string, doc Document) (*Result, error) {
	if name == "" || name == e.template.Name {
		return e.Layout(ctx, doc)
	}
	tpl, err := e.catalog.Lookup(name)
	if err != nil {
		return nil, err
	}
	if tpl, err = e.options.resolveTemplate(tpl); err != nil {
		return nil, err
	}
	return e.run(ctx, tpl, doc)
}

func (e *Engine) run(ctx context.Context, tpl config.Template, doc Document) (*Result, error) {
	if e.runner == nil || e.runner.Provider == nil {
		return nil, ErrNoProvider
	}
	if err := e.checkClosed(); err != nil {
		return nil, err
	}
	in, err := e.inputs(ctx, tpl, doc)
	if err != nil {
		return nil, err
	}
	return e.runner.Run(ctx, in)
}

// LayoutFile loads the document at ref and lays it out
func (e *Engine) LayoutFile(ctx context.Context, ref string) (*Result, error) {
	doc, err := e.LoadDocument(ctx, ref)
	if err != nil {
		return nil, err
	}
	return e.Layout(ctx, doc)
}

// Preview lays out doc and renders the HTML preview document
func (e *Engine) Preview(ctx context.Context, doc Document) (string, error) {
	r, err := e.Layout(ctx, doc)
	if err != nil {
		return "", err
	}
	return r.HTML(), nil
}

// Proof lays out doc and writes a layout proof PDF to w
func (e *Engine) Proof(ctx context.Context, doc Document, w io.Writer) error {
	r, err := e.Layout(ctx, doc)
	if err != nil {
		return err
	}
	return e.WriteProof(r, w)
}

// WriteProof writes the layout proof of an existing result to w, using the
// accent color of the template the result was laid out with
func (e *Engine) WriteProof(r *Result, w io.Writer) error {
	renderer := pdf.NewRenderer(r.Geometry)
	renderer.AccentColor = r.Typography.AccentColor
	renderer.Logger = e.logger
	return renderer.Render(w, r.Layout, pdf.RenderOptions{Title: r.Title, Author: e.options.Author})
}

// Print lays out doc and prints the preview to PDF through Chrome
func (e *Engine) Print(ctx context.Context, doc Document) ([]byte, error) {
	r, err := e.Layout(ctx, doc)
	if err != nil {
		return nil, err
	}
	s, err := e.browserSession()
	if err != nil {
		return nil, err
	}
	return browser.NewPrinter(s).PrintPDF(ctx, r.HTML(), r.Geometry)
}

// Schedule starts a scheduler running passes with the engine's provider.
// onResult, when non-nil, receives every applied result.
func (e *Engine) Schedule(onResult func(*Result)) *Scheduler {
	opts := []pass.SchedulerOption{
		pass.WithDebounce(e.options.Debounce),
		pass.WithSchedulerLogger(e.logger),
	}
	if onResult != nil {
		opts = append(opts, pass.WithOnResult(onResult))
	}
	return pass.NewScheduler(e.runner, opts...)
}

func (e *Engine) checkClosed() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return nil
}
