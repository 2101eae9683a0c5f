package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cfohelper/internal/domain"
	"cfohelper/internal/report"
	"cfohelper/internal/utils"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		flags    scenarioFlags
		out      string
		yamlPath string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a scenario report as PDF, or your history as YAML",
		Long: "Export a PDF report of a scenario, including your history when logged in.\n" +
			"With --yaml the history alone is written as YAML instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, input, err := flags.parse()
			if err != nil {
				return err
			}

			if a.session.LoggedIn() {
				if err := a.session.RefreshHistory(cmd.Context()); err != nil {
					a.logger.Warn("Exporting without server history", zap.Error(describeError(err)))
				}
			}
			history := a.session.History()

			if yamlPath != "" {
				if err := report.WriteYAML(yamlPath, a.session.User(), history); err != nil {
					return err
				}
				a.printf("  Wrote %d entries to %s\n", len(history), yamlPath)
				return nil
			}

			if out == "" {
				out = report.DefaultFileName(kind)
			}
			settings := a.session.Settings()
			baseline := a.session.Baseline()
			err = report.WritePDF(out, report.Report{
				Kind:       kind,
				Currency:   settings.Currency,
				Baseline:   baseline,
				Input:      input,
				Result:     domain.Compute(baseline, input),
				Suggestion: domain.Advise(input),
				History:    history,
				Generated:  utils.Now(),
			})
			if err != nil {
				return err
			}
			a.printf("  Wrote %s\n", out)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "PDF file (default CFO_Helper_Report.pdf or CFO_Helper_Forecast.pdf)")
	cmd.Flags().StringVar(&yamlPath, "yaml", "", "Write history as YAML to this file instead")
	return cmd
}
