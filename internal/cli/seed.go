package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"modelseed/internal/observability"
)

func (r *runner) seedCmd() *cobra.Command {
	var (
		number      string
		locale      string
		dryRun      bool
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "seed <app>",
		Short: "Seed every model of an app",
		Long: `Seed creates --number fake instances of every model registered under
<app>. Models are seeded after the models they reference, inside one
transaction: a failure leaves the database untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseNumber(number)
			if err != nil {
				return err
			}
			app, err := r.deps.Apps.Lookup(args[0])
			if err != nil {
				return &CommandError{Arg: "app", Value: args[0], Err: err}
			}

			cleanup, err := r.setup()
			if err != nil {
				return err
			}
			defer cleanup()

			s, backend, err := r.openSeeder(cmd.Context(), dryRun, locale, app.Models)
			if err != nil {
				return err
			}
			defer backend.Close()

			for _, model := range app.Models {
				s.AddEntity(model, n, nil)
			}
			inserted, err := s.Execute(cmd.Context())
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

	cmd.Flags().StringVarP(&number, "number", "n", "10", "number of instances to create per model")
	cmd.Flags().StringVar(&locale, "locale", "", "faker locale, LANGUAGE_CODE by default")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "generate rows without writing them")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this file when done")
	return cmd
}

func parseNumber(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &CommandError{Arg: "number", Value: raw, Err: ErrInvalidNumber}
	}
	if n < 0 {
		return 0, &CommandError{Arg: "number", Value: raw, Err: ErrInvalidNumber}
	}
	return n, nil
}
