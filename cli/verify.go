package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"linear-reconciler/services"
)

func newVerifyCommand(a *app) *cobra.Command {
	var initiative string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify that projects converged to their expected shape",
		Args:  cobra.NoArgs,
		RunE:  runHelp,
	}
	cmd.PersistentFlags().StringVar(&initiative, "initiative", "", "initiative id (defaults to LINEAR_DEFAULT_INITIATIVE_ID)")

	cmd.AddCommand(
		newVerifyProjectCommand(a, &initiative),
		newVerifyAllCommand(a, &initiative),
	)

	return cmd
}

func newVerifyProjectCommand(a *app, initiative *string) *cobra.Command {
	var labelsFile string

	cmd := &cobra.Command{
		Use:   "project <name> [expected-issues]",
		Short: "Verify one project",
		Long: `Verify one project: initiative link, description, issue count and, with --labels,
the labels of each issue.

The labels file maps issue identifiers to the labels they must carry:

  ENG-1: [npm, security]
  ENG-2: [ci]`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAPIKey(); err != nil {
				return err
			}
			initiativeID, err := a.initiativeID(*initiative)
			if err != nil {
				return err
			}

			expected := 0
			if len(args) == 2 {
				expected, err = strconv.Atoi(args[1])
				if err != nil || expected < 0 {
					return fmt.Errorf("invalid expected issue count: %q", args[1])
				}
			}

			var expectedLabels map[string][]string
			if labelsFile != "" {
				expectedLabels, err = readExpectedLabels(labelsFile)
				if err != nil {
					return err
				}
			}

			verification := newVerificationService(a).VerifyProjectCreation(cmd.Context(), args[0], expected, expectedLabels, initiativeID)
			if a.jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), verification); err != nil {
					return err
				}
			} else {
				printVerification(cmd.OutOrStdout(), verification)
			}

			if !verification.Overall.Passed {
				return fmt.Errorf("verification of %s failed with %d problems", args[0], len(verification.Overall.Issues))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&labelsFile, "labels", "", "YAML file mapping issue identifiers to expected labels")

	return cmd
}

func newVerifyAllCommand(a *app, initiative *string) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Verify every project matching a name filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAPIKey(); err != nil {
				return err
			}
			initiativeID, err := a.initiativeID(*initiative)
			if err != nil {
				return err
			}
			nameFilter, err := a.projectFilter(filter)
			if err != nil {
				return err
			}

			summary, err := newVerificationService(a).VerifyProjectsForInitiative(cmd.Context(), nameFilter, initiativeID)
			if err != nil {
				return fmt.Errorf("failed to find projects: %w", err)
			}

			if a.jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), summary); err != nil {
					return err
				}
			} else {
				printVerificationSummary(cmd.OutOrStdout(), summary)
			}

			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d projects failed verification", summary.Failed, summary.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "project name filter (defaults to LINEAR_PROJECT_FILTER)")

	return cmd
}

func newVerificationService(a *app) services.VerificationService {
	return services.NewVerificationService(a.linearService, services.NewInitiativeService(a.linearService), a.config)
}

// readExpectedLabels reads a YAML map of issue identifier to label names
func readExpectedLabels(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels file: %w", err)
	}
	expected := make(map[string][]string)
	if err := yaml.Unmarshal(data, &expected); err != nil {
		return nil, fmt.Errorf("failed to parse labels file: %w", err)
	}
	return expected, nil
}
