package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gompdf/cvpager/internal/config"
)

// templatesCommand creates the templates command, which lists the catalog.
func (c *CLI) templatesCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := config.Builtin()
			if file != "" {
				var err error
				if catalog, err = config.Load(file); err != nil {
					return err
				}
			}
			def, err := catalog.Lookup("")
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLAYOUT\tPAGE\tDESCRIPTION")
			for _, name := range catalog.Names() {
				t, err := catalog.Lookup(name)
				if err != nil {
					return err
				}
				if name == def.Name {
					name += " *"
				}
				page := t.Geometry.Page.Name
				if page == "" {
					page = fmt.Sprintf("%gx%g", t.Geometry.Page.Width, t.Geometry.Page.Height)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, t.Layout, page, t.Description)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&file, "config", "c", "", "TOML template file merged over the built-in catalog")
	return cmd
}
