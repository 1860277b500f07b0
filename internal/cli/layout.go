package cli

import (
	"bytes"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/gompdf/cvpager/internal/server"
	"github.com/gompdf/cvpager/pkg/api"
)

// layoutCommand creates the layout command, which writes where each block
// landed as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		opts   engineOpts
	)
	cmd := &cobra.Command{
		Use:   "layout [cv.json]",
		Short: "Paginate a document and print the page plan",
		Long: `Paginate a document and print the page plan.

The document is a JSON or TOML file (or URL, or "-" for JSON on stdin). The
output lists every page with the kind, section, source order and measured
height of each block it holds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLayout(cmd, &opts, args[0], func(e *api.Engine, r *api.Result) error {
				var buf bytes.Buffer
				enc := json.NewEncoder(&buf)
				enc.SetIndent("", "  ")
				if err := enc.Encode(server.Summarize(e.Template().Name, r)); err != nil {
					return err
				}
				return c.write(cmd, outputPath(output, args[0], ".layout.json"), buf.Bytes())
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file (default: <input>.layout.json, "-" for stdout)`)
	opts.bind(cmd)
	return cmd
}

// previewCommand creates the preview command, which writes the paginated
// HTML document.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		output string
		opts   engineOpts
	)
	cmd := &cobra.Command{
		Use:   "preview [cv.json]",
		Short: "Render the paginated document as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLayout(cmd, &opts, args[0], func(e *api.Engine, r *api.Result) error {
				return c.write(cmd, outputPath(output, args[0], ".html"), []byte(r.HTML()))
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file (default: <input>.html, "-" for stdout)`)
	opts.bind(cmd)
	return cmd
}

// proofCommand creates the proof command, which draws the page plan as a PDF
// with one outlined rectangle per block.
func (c *CLI) proofCommand() *cobra.Command {
	var (
		output string
		opts   engineOpts
	)
	cmd := &cobra.Command{
		Use:   "proof [cv.json]",
		Short: "Draw the page plan as a layout proof PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLayout(cmd, &opts, args[0], func(e *api.Engine, r *api.Result) error {
				var buf bytes.Buffer
				if err := e.WriteProof(r, &buf); err != nil {
					return err
				}
				return c.write(cmd, outputPath(output, args[0], ".proof.pdf"), buf.Bytes())
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file (default: <input>.proof.pdf, "-" for stdout)`)
	cmd.Flags().StringVar(&opts.author, "author", "", "author recorded in the PDF metadata")
	opts.bind(cmd)
	return cmd
}

// printCommand creates the print command, which prints the paginated HTML to
// PDF through headless Chrome.
func (c *CLI) printCommand() *cobra.Command {
	var (
		output string
		opts   engineOpts
	)
	cmd := &cobra.Command{
		Use:   "print [cv.json]",
		Short: "Print the paginated document to PDF with Chrome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := c.newEngine(&opts)
			if err != nil {
				return err
			}
			defer e.Close()

			doc, err := loadDocument(ctx, cmd, e, args[0])
			if err != nil {
				return err
			}
			pdf, err := e.Print(ctx, doc)
			if err != nil {
				return err
			}
			return c.write(cmd, outputPath(output, args[0], ".pdf"), pdf)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file (default: <input>.pdf, "-" for stdout)`)
	opts.bind(cmd)
	return cmd
}

// withLayout builds an engine, lays the document at ref out and hands the
// result to fn.
func (c *CLI) withLayout(cmd *cobra.Command, opts *engineOpts, ref string, fn func(*api.Engine, *api.Result) error) error {
	ctx := cmd.Context()
	e, err := c.newEngine(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	doc, err := loadDocument(ctx, cmd, e, ref)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	r, err := e.Layout(ctx, doc)
	if err != nil {
		prog.fail(err)
		return err
	}
	prog.done("laid out", "pass", r.Layout.PassID, "pages", r.Layout.PageCount(), "degraded", r.Degraded)
	return fn(e, r)
}

func (c *CLI) write(cmd *cobra.Command, path string, data []byte) error {
	if err := writeOutput(cmd, path, data); err != nil {
		return err
	}
	if path != "-" {
		c.Logger.Info("wrote", "file", path, "bytes", len(data))
	}
	return nil
}
