// Package cli implements the cvpager command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const appName = "cvpager"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Paginate résumé documents into fixed-size pages",
		Long:         `cvpager measures the blocks of a résumé, distributes them over A4 or Letter pages without orphaned section titles, and renders the pages as HTML, a layout proof PDF or a Chrome-printed PDF.`,
		SilenceUsage: true,
	}

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.proofCommand())
	root.AddCommand(c.printCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.templatesCommand())

	return root
}
