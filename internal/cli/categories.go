package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewCategoriesCommand lists the available categories.
func NewCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}
			if err := app.RequireSession(); err != nil {
				return err
			}

			if err := app.Categories.FetchIfFresh(cmd.Context()); err != nil {
				return fmt.Errorf("failed to load categories: %s", app.Categories.Err())
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, c := range app.Categories.Items() {
				fmt.Fprintf(w, "%s\t%s\n", c.ID, c.Name)
			}
			return w.Flush()
		},
	}
}
