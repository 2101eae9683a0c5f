package cli

import (
	"github.com/spf13/cobra"
)

func newHistoryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show your saved simulations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.session.LoggedIn() {
				return ErrNotLoggedIn
			}
			if err := a.session.RefreshHistory(cmd.Context()); err != nil {
				return describeError(err)
			}

			a.printf("%s", RenderHistory(a.session.History(), a.session.Settings().Currency))
			return nil
		},
	}
}
