package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"linear-reconciler/services"
)

func newLinkCommand(a *app) *cobra.Command {
	var initiative string

	cmd := &cobra.Command{
		Use:   "link <project-id>",
		Short: "Link a project to an initiative",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAPIKey(); err != nil {
				return err
			}
			initiativeID, err := a.initiativeID(initiative)
			if err != nil {
				return err
			}

			result := services.NewInitiativeService(a.linearService).LinkProjectToInitiative(cmd.Context(), args[0], initiativeID)
			if a.jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			}
			if !result.Success {
				return fmt.Errorf("failed to link project %s: %s", args[0], result.Error)
			}
			if !a.jsonOutput {
				fmt.Fprintf(cmd.OutOrStdout(), "Project %s linked to initiative %s\n", args[0], initiativeID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&initiative, "initiative", "", "initiative id (defaults to LINEAR_DEFAULT_INITIATIVE_ID)")

	return cmd
}

func newLinkAllCommand(a *app) *cobra.Command {
	var initiative, filter string

	cmd := &cobra.Command{
		Use:   "link-all",
		Short: "Link every project matching a name filter to an initiative",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAPIKey(); err != nil {
				return err
			}
			initiativeID, err := a.initiativeID(initiative)
			if err != nil {
				return err
			}
			nameFilter, err := a.projectFilter(filter)
			if err != nil {
				return err
			}

			summary, err := services.NewInitiativeService(a.linearService).LinkProjectsToInitiative(cmd.Context(), nameFilter, initiativeID)
			if err != nil {
				return fmt.Errorf("failed to find projects: %w", err)
			}

			if a.jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), summary); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "=== Link Summary ===")
				fmt.Fprintf(out, "Linked: %d\n", len(summary.Linked))
				for _, name := range summary.Linked {
					fmt.Fprintf(out, "  + %s\n", name)
				}
				fmt.Fprintf(out, "Already linked: %d\n", len(summary.AlreadyLinked))
				for _, name := range summary.AlreadyLinked {
					fmt.Fprintf(out, "  = %s\n", name)
				}
				fmt.Fprintf(out, "Failed: %d\n", len(summary.Failed))
				for _, failure := range summary.Failed {
					fmt.Fprintf(out, "  ! %s\n", failure)
				}
			}

			if len(summary.Failed) > 0 {
				return fmt.Errorf("%d projects could not be linked", len(summary.Failed))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&initiative, "initiative", "", "initiative id (defaults to LINEAR_DEFAULT_INITIATIVE_ID)")
	cmd.Flags().StringVar(&filter, "filter", "", "project name filter (defaults to LINEAR_PROJECT_FILTER)")

	return cmd
}

func newInitiativesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "initiatives",
		Short: "Inspect initiatives",
		Args:  cobra.NoArgs,
		RunE:  runHelp,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List initiatives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAPIKey(); err != nil {
				return err
			}
			initiatives, err := a.linearService.ListInitiatives(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list initiatives: %w", err)
			}
			sort.Slice(initiatives, func(i, j int) bool { return initiatives[i].Name < initiatives[j].Name })

			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), initiatives)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "=== Initiatives ===")
			for _, initiative := range initiatives {
				fmt.Fprintf(out, "  %s: %s\n", initiative.Name, initiative.ID)
			}
			return nil
		},
	})

	return cmd
}

func newProjectsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Inspect projects",
		Args:  cobra.NoArgs,
		RunE:  runHelp,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show which initiative each project belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAPIKey(); err != nil {
				return err
			}
			statuses, err := services.NewInitiativeService(a.linearService).GetProjectInitiativeStatus(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), statuses)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "=== Project Initiative Status ===")
			for _, status := range statuses {
				initiative := status.Initiative
				if initiative == "" {
					initiative = "(none)"
				}
				fmt.Fprintf(out, "  %s -> %s\n", status.Name, initiative)
			}
			return nil
		},
	})

	return cmd
}
