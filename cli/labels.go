package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"linear-reconciler/models"
	"linear-reconciler/services"
)

func newLabelsCommand(a *app) *cobra.Command {
	var team string

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "List, create and apply labels",
		Args:  cobra.NoArgs,
		RunE:  runHelp,
	}
	cmd.PersistentFlags().StringVar(&team, "team", "", "team id (defaults to LINEAR_TEAM_ID)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the labels of a team",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.requireAPIKey(); err != nil {
					return err
				}
				labelMap, err := services.NewLabelService(a.linearService).GetLabelMap(cmd.Context(), a.teamID(team))
				if err != nil {
					return err
				}
				if a.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), labelMap)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "=== Labels ===")
				for _, name := range labelMap.Names() {
					fmt.Fprintf(out, "  %s: %s\n", name, labelMap[name])
				}
				fmt.Fprintf(out, "\nTotal: %d labels\n", len(labelMap))
				return nil
			},
		},
		&cobra.Command{
			Use:   "ensure <label>...",
			Short: "Create the labels that do not exist yet",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.requireAPIKey(); err != nil {
					return err
				}
				result, err := services.NewLabelService(a.linearService).EnsureLabelsExist(cmd.Context(), a.teamID(team), args)
				if err != nil {
					return err
				}
				if a.jsonOutput {
					if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
						return err
					}
				} else {
					out := cmd.OutOrStdout()
					fmt.Fprintln(out, "=== Label Sync ===")
					fmt.Fprintf(out, "Created: %s\n", joinOrNone(result.Created))
					fmt.Fprintf(out, "Existing: %s\n", joinOrNone(result.Existing))
					fmt.Fprintf(out, "Failed: %s\n", joinOrNone(result.Failed))
				}
				if len(result.Failed) > 0 {
					return fmt.Errorf("%d labels could not be ensured", len(result.Failed))
				}
				return nil
			},
		},
		newLabelsApplyCommand(a, &team),
		&cobra.Command{
			Use:   "check <issue-id> <label>...",
			Short: "Report which labels an issue is missing",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.requireAPIKey(); err != nil {
					return err
				}
				result := services.NewLabelService(a.linearService).VerifyLabelsApplied(cmd.Context(), args[0], args[1:])
				if a.jsonOutput {
					if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
						return err
					}
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Applied: %s\nMissing: %s\n", joinOrNone(result.Applied), joinOrNone(result.Missing))
				}
				if len(result.Missing) > 0 {
					return fmt.Errorf("issue %s is missing %d labels", args[0], len(result.Missing))
				}
				return nil
			},
		},
	)

	return cmd
}

func newLabelsApplyCommand(a *app, team *string) *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "apply <issue-id> <label>...",
		Short: "Add labels to an issue, keeping the labels it already has",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAPIKey(); err != nil {
				return err
			}
			issueID, names := args[0], args[1:]
			labelService := services.NewLabelService(a.linearService)

			var labelMap models.LabelMap
			var err error
			if create {
				sync, err := labelService.EnsureLabelsExist(cmd.Context(), a.teamID(*team), names)
				if err != nil {
					return err
				}
				labelMap = sync.LabelMap
			} else {
				labelMap, err = labelService.GetLabelMap(cmd.Context(), a.teamID(*team))
				if err != nil {
					return err
				}
			}

			result := labelService.ApplyLabelsToIssue(cmd.Context(), issueID, names, labelMap)
			if a.jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Applied: %s\n", joinOrNone(result.Applied))
				fmt.Fprintf(out, "Skipped: %s\n", joinOrNone(result.Skipped))
			}
			if result.Error != "" {
				return fmt.Errorf("failed to apply labels to %s: %s", issueID, result.Error)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&create, "create", false, "create missing labels before applying them")

	return cmd
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
