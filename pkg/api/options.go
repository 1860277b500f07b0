package api

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/gompdf/cvpager/internal/config"
	"github.com/gompdf/cvpager/internal/pagination"
	"github.com/gompdf/cvpager/internal/pass"
)

// MeasurerKind selects how block heights are measured.
type MeasurerKind string

const (
	// MeasurerMetrics typesets blocks with built-in font metrics.
	MeasurerMetrics MeasurerKind = "metrics"
	// MeasurerBrowser lays blocks out in headless Chrome.
	MeasurerBrowser MeasurerKind = "browser"
)

// Options represents configuration options for the layout engine
type Options struct {
	// Template names the catalog entry to lay out with
	Template string
	// ConfigFile is a TOML template file merged over the built-in catalog
	ConfigFile string

	// Typography, when non-nil, replaces the template typography
	Typography *Typography
	// Geometry, when non-nil, replaces the template geometry
	Geometry *Geometry
	// PageSize names a standard page size applied on top of the geometry
	PageSize string

	// Stylesheets are CSS references appended to the template stylesheet
	Stylesheets   []string
	ResourcePaths []string

	Measurer MeasurerKind
	// Provider, when set, is used instead of Measurer
	Provider Provider

	// Browser settings, used by the browser measurer and by Print
	ChromePath     string
	BrowserTimeout time.Duration
	NoSandbox      bool
	AutoDownload   bool

	TickInterval       time.Duration
	MaxMeasureAttempts int
	Debounce           time.Duration

	Debug  bool
	Logger *log.Logger

	// Document metadata
	Author string
}

// Option is a function that modifies Options
type Option func(*Options)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Template:           config.DefaultTemplate,
		Measurer:           MeasurerMetrics,
		BrowserTimeout:     30 * time.Second,
		TickInterval:       pass.DefaultTick,
		MaxMeasureAttempts: pass.DefaultMaxAttempts,
		Debounce:           50 * time.Millisecond,
	}
}

// WithTemplate selects a template by name
func WithTemplate(name string) Option {
	return func(o *Options) {
		o.Template = name
	}
}

// WithConfigFile merges a TOML template file over the built-in catalog
func WithConfigFile(path string) Option {
	return func(o *Options) {
		o.ConfigFile = path
	}
}

// WithTypography replaces the template typography
func WithTypography(t Typography) Option {
	return func(o *Options) {
		o.Typography = &t
	}
}

// WithGeometry replaces the template geometry
func WithGeometry(g Geometry) Option {
	return func(o *Options) {
		o.Geometry = &g
	}
}

// WithPageSize sets a standard page size by name (A4, Letter, Legal, A5)
func WithPageSize(name string) Option {
	return func(o *Options) {
		o.PageSize = name
	}
}

// WithStylesheet appends a CSS file, URL or data URL to the template stylesheet
func WithStylesheet(ref string) Option {
	return func(o *Options) {
		o.Stylesheets = append(o.Stylesheets, ref)
	}
}

// WithResourcePath adds a directory to search for documents and stylesheets
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithMeasurer selects the measurement backend
func WithMeasurer(kind MeasurerKind) Option {
	return func(o *Options) {
		o.Measurer = kind
	}
}

// WithProvider measures with p
func WithProvider(p Provider) Option {
	return func(o *Options) {
		o.Provider = p
	}
}

// WithChromePath sets the Chrome executable
func WithChromePath(path string) Option {
	return func(o *Options) {
		o.ChromePath = path
	}
}

// WithBrowserTimeout bounds each browser operation
func WithBrowserTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.BrowserTimeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox
func WithNoSandbox() Option {
	return func(o *Options) {
		o.NoSandbox = true
	}
}

// WithAutoDownload downloads Chromium when no Chrome is installed
func WithAutoDownload() Option {
	return func(o *Options) {
		o.AutoDownload = true
	}
}

// WithTickInterval sets the wait before each measurement
func WithTickInterval(d time.Duration) Option {
	return func(o *Options) {
		o.TickInterval = d
	}
}

// WithMaxMeasureAttempts sets how often a stale measurement is retried
func WithMaxMeasureAttempts(n int) Option {
	return func(o *Options) {
		o.MaxMeasureAttempts = n
	}
}

// WithDebounce sets the scheduler's debounce interval
func WithDebounce(d time.Duration) Option {
	return func(o *Options) {
		o.Debounce = d
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithAuthor sets the author recorded in proof PDFs
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// resolveTemplate applies the overrides in o to t.
func (o Options) resolveTemplate(t config.Template) (config.Template, error) {
	if o.Typography != nil {
		t.Typography = *o.Typography
	}
	if o.Geometry != nil {
		t.Geometry = *o.Geometry
	}
	if o.PageSize != "" {
		size, ok := pagination.LookupPageSize(o.PageSize)
		if !ok {
			return t, &OptionError{Option: "page size", Value: o.PageSize}
		}
		t.Geometry.Page = size
	}
	t.Typography = t.Typography.Normalize()
	return t, nil
}
