package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"modelseed/internal/entity"
)

func (r *runner) appsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List apps and the models they seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			parser := entity.NewParser(nil)
			bold := color.New(color.Bold)

			for _, name := range r.deps.Apps.Names() {
				app, err := r.deps.Apps.Lookup(name)
				if err != nil {
					return err
				}
				bold.Fprintln(out, app.Name)
				for _, model := range app.Models {
					d, err := parser.Parse(model)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "  %-20s %s (%d fields)\n", d.Name, d.Table, len(d.Fields))
				}
			}
			return nil
		},
	}
}
