package cli

import (
	"github.com/spf13/cobra"

	"cfohelper/internal/client"
	"cfohelper/internal/domain"
)

// scenarioFlags are the raw lever values; blank or invalid text counts as 0
type scenarioFlags struct {
	panel     string
	hiring    string
	marketing string
	price     string
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.panel, "panel", string(domain.SimulationDashboard), "Panel to run: dashboard or forecast")
	cmd.Flags().StringVar(&f.hiring, "hiring", "0", "New hires")
	cmd.Flags().StringVar(&f.marketing, "marketing", "0", "Marketing spend")
	cmd.Flags().StringVar(&f.price, "price", "0", "Price increase in percent")
}

func (f *scenarioFlags) parse() (domain.SimulationType, domain.SimulationInput, error) {
	kind, err := domain.ParseSimulationType(f.panel)
	if err != nil {
		return "", domain.SimulationInput{}, err
	}
	return kind, client.CoerceInput(f.hiring, f.marketing, f.price), nil
}

func newSimulateCommand(a *app) *cobra.Command {
	var flags scenarioFlags
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a what-if simulation",
		Long:  "Run a what-if simulation. When logged in the run is also saved to your history.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, input, err := flags.parse()
			if err != nil {
				return err
			}

			run, err := a.session.RunSimulation(cmd.Context(), kind, input)
			if err != nil {
				return err
			}

			a.printf("%s", RenderPanel(run.Panel, a.session.Settings().Currency))
			if !a.session.LoggedIn() {
				a.printf("%s\n", mutedStyle.Render("  Not logged in: this run is not saved."))
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
