package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linear-reconciler/mocks"
	"linear-reconciler/models"
)

func TestLinkProjectToInitiative_Twice(t *testing.T) {
	workspace := mocks.NewWorkspace()
	project := workspace.AddProject("Phase 1", "First phase of the rollout")
	initiative := workspace.AddInitiative("Launch")
	service := NewInitiativeService(workspace)

	first := service.LinkProjectToInitiative(t.Context(), project.ID, initiative.ID)
	assert.True(t, first.Success)
	assert.Empty(t, first.Error)

	second := service.LinkProjectToInitiative(t.Context(), project.ID, initiative.ID)
	assert.True(t, second.Success)
	assert.Empty(t, second.Error)

	assert.Equal(t, 2, workspace.Calls["CreateInitiativeLink"])
	assert.True(t, service.IsProjectLinkedToInitiative(t.Context(), project.ID, initiative.ID))
}

func TestLinkProjectToInitiative_Failure(t *testing.T) {
	workspace := mocks.NewWorkspace()
	project := workspace.AddProject("Phase 1", "First phase of the rollout")
	service := NewInitiativeService(workspace)

	result := service.LinkProjectToInitiative(t.Context(), project.ID, "initiative-404")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "entity not found")
}

func TestIsProjectLinkedToInitiative(t *testing.T) {
	workspace := mocks.NewWorkspace()
	linked := workspace.AddProject("Phase 1", "")
	unlinked := workspace.AddProject("Phase 2", "")
	initiative := workspace.AddInitiative("Launch")
	require.NoError(t, workspace.CreateInitiativeLink(t.Context(), initiative.ID, linked.ID))
	service := NewInitiativeService(workspace)

	assert.True(t, service.IsProjectLinkedToInitiative(t.Context(), linked.ID, initiative.ID))
	assert.False(t, service.IsProjectLinkedToInitiative(t.Context(), unlinked.ID, initiative.ID))
	assert.False(t, service.IsProjectLinkedToInitiative(t.Context(), linked.ID, "initiative-404"))
}

func TestIsProjectLinkedToInitiative_LookupFails(t *testing.T) {
	mock := &mocks.MockLinearService{
		ListInitiativeProjectIDsFunc: func(ctx context.Context, initiativeID string) ([]string, error) {
			return nil, errors.New("timeout")
		},
	}
	service := NewInitiativeService(mock)

	assert.False(t, service.IsProjectLinkedToInitiative(t.Context(), "project-1", "initiative-1"))
}

func TestLinkProjectsToInitiative(t *testing.T) {
	workspace := mocks.NewWorkspace()
	initiative := workspace.AddInitiative("Launch")
	already := workspace.AddProject("Phase 1: Setup", "")
	workspace.AddProject("phase 2: Build", "")
	workspace.AddProject("Roadmap", "")
	require.NoError(t, workspace.CreateInitiativeLink(t.Context(), initiative.ID, already.ID))
	service := NewInitiativeService(workspace)

	summary, err := service.LinkProjectsToInitiative(t.Context(), "Phase", initiative.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"phase 2: Build"}, summary.Linked)
	assert.Equal(t, []string{"Phase 1: Setup"}, summary.AlreadyLinked)
	assert.Empty(t, summary.Failed)

	again, err := service.LinkProjectsToInitiative(t.Context(), "Phase", initiative.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Linked)
	assert.Equal(t, []string{"Phase 1: Setup", "phase 2: Build"}, again.AlreadyLinked)
}

func TestLinkProjectsToInitiative_PartialFailure(t *testing.T) {
	mock := &mocks.MockLinearService{
		FindProjectsFunc: func(ctx context.Context, nameFilter string) ([]models.Project, error) {
			return []models.Project{
				{ID: "project-1", Name: "Phase 1"},
				{ID: "project-2", Name: "Phase 2"},
			}, nil
		},
		ListInitiativeProjectIDsFunc: func(ctx context.Context, initiativeID string) ([]string, error) {
			return []string{}, nil
		},
		CreateInitiativeLinkFunc: func(ctx context.Context, initiativeID, projectID string) error {
			if projectID == "project-1" {
				return errors.New("forbidden")
			}
			return nil
		},
	}
	service := NewInitiativeService(mock)

	summary, err := service.LinkProjectsToInitiative(t.Context(), "Phase", "initiative-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"Phase 2"}, summary.Linked)
	assert.Empty(t, summary.AlreadyLinked)
	assert.Equal(t, []string{"Phase 1: forbidden"}, summary.Failed)
}

func TestLinkProjectsToInitiative_SearchFails(t *testing.T) {
	mock := &mocks.MockLinearService{
		FindProjectsFunc: func(ctx context.Context, nameFilter string) ([]models.Project, error) {
			return nil, errors.New("unauthorized")
		},
	}
	service := NewInitiativeService(mock)

	summary, err := service.LinkProjectsToInitiative(t.Context(), "Phase", "initiative-1")
	assert.Error(t, err)
	assert.Nil(t, summary)
}

func TestGetProjectInitiativeStatus(t *testing.T) {
	workspace := mocks.NewWorkspace()
	initiative := workspace.AddInitiative("Launch")
	linked := workspace.AddProject("Phase 1", "")
	workspace.AddProject("Phase 2", "")
	require.NoError(t, workspace.CreateInitiativeLink(t.Context(), initiative.ID, linked.ID))
	service := NewInitiativeService(workspace)

	statuses, err := service.GetProjectInitiativeStatus(t.Context())
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	assert.Equal(t, "Phase 1", statuses[0].Name)
	assert.Equal(t, "Launch", statuses[0].Initiative)
	assert.Equal(t, "Phase 2", statuses[1].Name)
	assert.Empty(t, statuses[1].Initiative)
}
