package cli

import (
	"github.com/spf13/cobra"

	"cfohelper/internal/client"
)

func newSettingsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the simulation baseline",
	}
	cmd.AddCommand(newSettingsShowCommand(a), newSettingsSaveCommand(a))
	return cmd
}

func newSettingsShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a.printf("%s", RenderSettings(a.session.Settings(), a.configPath))
			return nil
		},
	}
}

func newSettingsSaveCommand(a *app) *cobra.Command {
	var in client.Settings
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save settings; omitted or zero values fall back to the defaults",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			applied := a.session.SaveSettings(in)
			a.printf("  Settings saved! Currency: %s\n\n", applied.Currency)
			a.printf("%s", RenderSettings(applied, a.configPath))
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Currency, "currency", "", "Currency symbol")
	cmd.Flags().IntVar(&in.UnitsSold, "units", 0, "Units sold per month")
	cmd.Flags().Float64Var(&in.UnitPrice, "price", 0, "Unit price")
	cmd.Flags().Float64Var(&in.FixedCosts, "fixed-costs", 0, "Fixed monthly costs")
	cmd.Flags().Float64Var(&in.Salaries, "salaries", 0, "Monthly salaries")
	return cmd
}
