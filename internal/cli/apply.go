package cli

import (
	"github.com/spf13/cobra"

	"modelseed/internal/observability"
	"modelseed/internal/plan"
)

func (r *runner) applyCmd() *cobra.Command {
	var (
		dryRun      bool
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "apply <plan.yaml>",
		Short: "Seed the entities listed in a YAML plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan.Load(args[0])
			if err != nil {
				return &CommandError{Arg: "plan", Value: args[0], Err: err}
			}
			app, err := r.deps.Apps.Lookup(p.App)
			if err != nil {
				return &CommandError{Arg: "app", Value: p.App, Err: err}
			}

			cleanup, err := r.setup()
			if err != nil {
				return err
			}
			defer cleanup()

			s, backend, err := r.openSeeder(cmd.Context(), dryRun, p.Locale, app.Models)
			if err != nil {
				return err
			}
			defer backend.Close()

			inserted, err := p.Apply(cmd.Context(), s, app, backend.Parser)
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), inserted, dryRun)
			if metricsFile != "" {
				return observability.WriteMetrics(metricsFile)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "generate rows without writing them")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this file when done")
	return cmd
}
