package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"linear-reconciler/utils"
)

func newSetupCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Check the configuration and connectivity to Linear",
		Long: `Check the configuration and connectivity to Linear.

Configuration is read from the environment, from .env in the working directory
and from ~/.config/linear/.env. At least LINEAR_API_KEY must be set; create a
personal API key under Settings > API in Linear.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := utils.CheckSetup(cmd.Context(), a.config, a.linearService)
			if err != nil {
				return err
			}

			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Authenticated as %s (%s)\n", report.Viewer.Name, report.Viewer.Email)
			if report.Viewer.Organization.Name != "" {
				fmt.Fprintf(out, "Organization: %s\n", report.Viewer.Organization.Name)
			}
			if a.config.Linear.TeamID != "" {
				fmt.Fprintf(out, "Team labels: %d\n", report.TeamLabels)
			}
			for _, warning := range report.Warnings {
				fmt.Fprintf(out, "Warning: %s\n", warning)
			}
			fmt.Fprintln(out, "Setup OK")
			return nil
		},
	}
}
