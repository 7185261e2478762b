package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linear-reconciler/mocks"
	"linear-reconciler/models"
)

func TestCheckSetup(t *testing.T) {
	workspace := mocks.NewWorkspace()
	workspace.AddLabel("team-1", "npm")
	workspace.AddLabel("team-1", "ci")
	initiative := workspace.AddInitiative("Launch")

	config := models.NewDefaultConfig()
	config.Linear.APIKey = "lin_api_test"
	config.Linear.TeamID = "team-1"
	config.Linear.DefaultInitiativeID = initiative.ID

	report, err := CheckSetup(context.Background(), config, workspace)
	require.NoError(t, err)

	assert.Equal(t, "Test User", report.Viewer.Name)
	assert.Equal(t, 2, report.TeamLabels)
	assert.True(t, report.InitiativeFound)
	assert.Empty(t, report.Warnings)
}

func TestCheckSetup_Warnings(t *testing.T) {
	workspace := mocks.NewWorkspace()

	config := models.NewDefaultConfig()
	config.Linear.APIKey = "lin_api_test"

	report, err := CheckSetup(context.Background(), config, workspace)
	require.NoError(t, err)
	assert.Len(t, report.Warnings, 2)
	assert.Zero(t, workspace.Calls["ListLabels"])

	config.Linear.DefaultInitiativeID = "initiative-404"
	report, err = CheckSetup(context.Background(), config, workspace)
	require.NoError(t, err)
	assert.False(t, report.InitiativeFound)
	assert.Contains(t, report.Warnings, "default initiative initiative-404 not found")
}

func TestCheckSetup_Errors(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		workspace := mocks.NewWorkspace()
		_, err := CheckSetup(context.Background(), models.NewDefaultConfig(), workspace)
		assert.Error(t, err)
		assert.Zero(t, workspace.Calls["Viewer"])
	})

	t.Run("authentication fails", func(t *testing.T) {
		workspace := mocks.NewWorkspace()
		workspace.Failures["Viewer"] = errors.New("API error: invalid api key (status 401)")

		config := models.NewDefaultConfig()
		config.Linear.APIKey = "lin_api_wrong"

		_, err := CheckSetup(context.Background(), config, workspace)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to authenticate")
	})
}
