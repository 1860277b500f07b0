// Package cvpager lays out résumé documents into fixed-size pages.
package cvpager

import (
	"github.com/gompdf/cvpager/pkg/api"
)

type (
	Engine       = api.Engine
	Options      = api.Options
	Option       = api.Option
	Document     = api.Document
	Data         = api.Data
	Personal     = api.Personal
	Section      = api.Section
	SectionMeta  = api.SectionMeta
	Item         = api.Item
	Typography   = api.Typography
	Geometry     = api.Geometry
	Template     = api.Template
	Result       = api.Result
	LayoutResult = api.LayoutResult
	MeasurerKind = api.MeasurerKind
)

func New(opts ...Option) (*Engine, error)            { return api.New(opts...) }
func NewWithOptions(options Options) (*Engine, error) { return api.NewWithOptions(options) }
func DefaultOptions() Options                         { return api.DefaultOptions() }

var (
	WithTemplate           = api.WithTemplate
	WithConfigFile         = api.WithConfigFile
	WithTypography         = api.WithTypography
	WithGeometry           = api.WithGeometry
	WithPageSize           = api.WithPageSize
	WithStylesheet         = api.WithStylesheet
	WithResourcePath       = api.WithResourcePath
	WithMeasurer           = api.WithMeasurer
	WithProvider           = api.WithProvider
	WithChromePath         = api.WithChromePath
	WithBrowserTimeout     = api.WithBrowserTimeout
	WithNoSandbox          = api.WithNoSandbox
	WithAutoDownload       = api.WithAutoDownload
	WithTickInterval       = api.WithTickInterval
	WithMaxMeasureAttempts = api.WithMaxMeasureAttempts
	WithDebounce           = api.WithDebounce
	WithDebug              = api.WithDebug
	WithLogger             = api.WithLogger
	WithAuthor             = api.WithAuthor
)

var (
	ErrNoProvider      = api.ErrNoProvider
	ErrUnknownTemplate = api.ErrUnknownTemplate
	ErrClosed          = api.ErrClosed
)

const (
	MeasurerMetrics = api.MeasurerMetrics
	MeasurerBrowser = api.MeasurerBrowser
)
