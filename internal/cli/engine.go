package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gompdf/cvpager/internal/cv"
	"github.com/gompdf/cvpager/internal/res"
	"github.com/gompdf/cvpager/pkg/api"
)

// engineOpts holds the flags shared by every command that lays documents out.
type engineOpts struct {
	template     string   // catalog template name
	config       string   // TOML template file
	pageSize     string   // page size override (A4, Letter, Legal, A5)
	stylesheets  []string // extra CSS files or URLs
	paths        []string // resource search paths
	measurer     string   // "metrics" or "browser"
	chrome       string   // Chrome executable
	timeout      time.Duration
	noSandbox    bool
	autoDownload bool
	author       string // proof PDF author
}

func (o *engineOpts) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.template, "template", "t", "", "template name (see 'cvpager templates')")
	f.StringVarP(&o.config, "config", "c", "", "TOML template file merged over the built-in catalog")
	f.StringVar(&o.pageSize, "page-size", "", "page size: A4, Letter, Legal or A5")
	f.StringArrayVar(&o.stylesheets, "stylesheet", nil, "extra stylesheet file or URL (repeatable)")
	f.StringArrayVar(&o.paths, "path", nil, "directory searched for documents and stylesheets (repeatable)")
	f.StringVarP(&o.measurer, "measurer", "m", string(api.MeasurerMetrics), "height measurement: metrics or browser")
	f.StringVar(&o.chrome, "chrome", "", "Chrome executable (default: autodetect)")
	f.DurationVar(&o.timeout, "browser-timeout", 30*time.Second, "timeout for each browser operation")
	f.BoolVar(&o.noSandbox, "no-sandbox", false, "disable the Chrome sandbox")
	f.BoolVar(&o.autoDownload, "auto-download", false, "download Chromium when no Chrome is installed")
}

func (o *engineOpts) options(c *CLI) []api.Option {
	opts := []api.Option{
		api.WithLogger(c.Logger),
		api.WithMeasurer(api.MeasurerKind(o.measurer)),
		api.WithBrowserTimeout(o.timeout),
	}
	if o.template != "" {
		opts = append(opts, api.WithTemplate(o.template))
	}
	if o.config != "" {
		opts = append(opts, api.WithConfigFile(o.config))
	}
	if o.pageSize != "" {
		opts = append(opts, api.WithPageSize(o.pageSize))
	}
	for _, s := range o.stylesheets {
		opts = append(opts, api.WithStylesheet(s))
	}
	for _, p := range o.paths {
		opts = append(opts, api.WithResourcePath(p))
	}
	if o.author != "" {
		opts = append(opts, api.WithAuthor(o.author))
	}
	if o.chrome != "" {
		opts = append(opts, api.WithChromePath(o.chrome))
	}
	if o.noSandbox {
		opts = append(opts, api.WithNoSandbox())
	}
	if o.autoDownload {
		opts = append(opts, api.WithAutoDownload())
	}
	return opts
}

// newEngine builds an engine from the shared flags.
func (c *CLI) newEngine(o *engineOpts) (*api.Engine, error) {
	return api.New(o.options(c)...)
}

// loadDocument reads the document named by ref; "-" reads JSON from stdin.
func loadDocument(ctx context.Context, cmd *cobra.Command, e *api.Engine, ref string) (cv.Document, error) {
	if ref != "-" {
		return e.LoadDocument(ctx, ref)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return cv.Document{}, fmt.Errorf("reading stdin: %w", err)
	}
	return res.DecodeDocument(&res.Resource{URL: "stdin", Format: res.FormatJSON, Data: data})
}

// outputPath returns the explicit output, or the input path with ext
// swapped in. Stdin and URL inputs with no explicit output go to stdout.
func outputPath(output, input, ext string) string {
	if output != "" {
		return output
	}
	if input == "-" || strings.Contains(input, "://") || strings.HasPrefix(input, "data:") {
		return "-"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

// writeOutput writes data to path, or to the command's stdout for "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
