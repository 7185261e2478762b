package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"linear-reconciler/models"
	"linear-reconciler/services"
)

// LinearServiceFactory builds the remote client once configuration is loaded
type LinearServiceFactory func(config *models.Config) services.LinearService

// app holds the state shared by every command of one invocation
type app struct {
	configFile string
	jsonOutput bool
	verbose    bool

	newLinearService LinearServiceFactory
	config           *models.Config
	linearService    services.LinearService
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand(nil).Execute()
}

// NewRootCommand builds the command tree. A nil factory uses the GraphQL client.
func NewRootCommand(factory LinearServiceFactory) *cobra.Command {
	if factory == nil {
		factory = func(config *models.Config) services.LinearService {
			return services.NewLinearService(config)
		}
	}
	a := &app{newLinearService: factory}

	rootCmd := &cobra.Command{
		Use:   "linear-reconciler",
		Short: "Reconcile labels and initiative links in Linear and verify the result",
		Long: `linear-reconciler drives a Linear workspace toward a desired state.

It creates missing labels, applies labels to issues without dropping existing ones,
links projects to initiatives, and verifies that projects converged to their expected
shape (initiative link, description, issue count, labels).

Example:
  linear-reconciler labels ensure --team TEAM_ID npm ci security
  linear-reconciler verify project "Phase 5" 12`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "YAML config file overlaid on the environment")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "print the .env files that were loaded")

	rootCmd.AddCommand(
		newLabelsCommand(a),
		newInitiativesCommand(a),
		newProjectsCommand(a),
		newLinkCommand(a),
		newLinkAllCommand(a),
		newVerifyCommand(a),
		newSetupCommand(a),
		newServeCommand(a),
	)

	return rootCmd
}

// load reads configuration and builds the remote client
func (a *app) load(cmd *cobra.Command) error {
	loaded := models.LoadEnvFiles(models.EnvFileCandidates()...)

	config, err := models.LoadConfig(a.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.verbose {
		for _, path := range loaded {
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded environment from %s\n", path)
		}
	}

	a.config = config
	a.linearService = a.newLinearService(config)
	return nil
}

// requireAPIKey fails early with setup instructions when no API key is configured
func (a *app) requireAPIKey() error {
	return a.config.Validate()
}

// teamID returns the flag value or the configured team
func (a *app) teamID(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return a.config.Linear.TeamID
}

// initiativeID returns the flag value or the configured default initiative
func (a *app) initiativeID(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if a.config.Linear.DefaultInitiativeID == "" {
		return "", fmt.Errorf("no initiative given: pass --initiative or set LINEAR_DEFAULT_INITIATIVE_ID")
	}
	return a.config.Linear.DefaultInitiativeID, nil
}

// projectFilter returns the flag value or the configured project filter
func (a *app) projectFilter(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if a.config.Linear.ProjectFilter == "" {
		return "", fmt.Errorf("no project filter given: pass --filter or set LINEAR_PROJECT_FILTER")
	}
	return a.config.Linear.ProjectFilter, nil
}

// runHelp prints help for command groups; stray arguments are rejected by cobra.NoArgs
func runHelp(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
