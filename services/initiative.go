package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"linear-reconciler/models"
)

// InitiativeService defines the interface for linking projects to initiatives
type InitiativeService interface {
	// LinkProjectToInitiative links a project to an initiative. An existing link is a success.
	LinkProjectToInitiative(ctx context.Context, projectID, initiativeID string) *models.LinkResult

	// IsProjectLinkedToInitiative reports whether the initiative lists the project
	IsProjectLinkedToInitiative(ctx context.Context, projectID, initiativeID string) bool

	// LinkProjectsToInitiative links every project whose name contains nameFilter
	LinkProjectsToInitiative(ctx context.Context, nameFilter, initiativeID string) (*models.LinkSummary, error)

	// GetProjectInitiativeStatus lists projects with the initiative they belong to
	GetProjectInitiativeStatus(ctx context.Context) ([]models.ProjectInitiativeStatus, error)
}

// InitiativeServiceImpl implements the InitiativeService interface
type InitiativeServiceImpl struct {
	linearService LinearService
}

// NewInitiativeService creates a new InitiativeService
func NewInitiativeService(linearService LinearService) InitiativeService {
	return &InitiativeServiceImpl{linearService: linearService}
}

// LinkProjectToInitiative links a project to an initiative
func (s *InitiativeServiceImpl) LinkProjectToInitiative(ctx context.Context, projectID, initiativeID string) *models.LinkResult {
	err := s.linearService.CreateInitiativeLink(ctx, initiativeID, projectID)
	if err == nil {
		return &models.LinkResult{Success: true}
	}
	if errors.Is(err, models.ErrDuplicate) {
		return &models.LinkResult{Success: true}
	}
	return &models.LinkResult{Success: false, Error: err.Error()}
}

// IsProjectLinkedToInitiative reports whether the initiative lists the project. A failed
// lookup is reported as not linked: without proof of the link it is treated as absent.
func (s *InitiativeServiceImpl) IsProjectLinkedToInitiative(ctx context.Context, projectID, initiativeID string) bool {
	projectIDs, err := s.linearService.ListInitiativeProjectIDs(ctx, initiativeID)
	if err != nil {
		log.Printf("Could not confirm link of project %s to initiative %s: %v", projectID, initiativeID, err)
		return false
	}
	for _, id := range projectIDs {
		if id == projectID {
			return true
		}
	}
	return false
}

// LinkProjectsToInitiative links every project whose name contains nameFilter. Projects
// are handled one at a time and independently of each other.
func (s *InitiativeServiceImpl) LinkProjectsToInitiative(ctx context.Context, nameFilter, initiativeID string) (*models.LinkSummary, error) {
	projects, err := s.linearService.FindProjects(ctx, nameFilter)
	if err != nil {
		return nil, err
	}

	summary := &models.LinkSummary{
		Linked:        []string{},
		AlreadyLinked: []string{},
		Failed:        []string{},
	}

	for _, project := range projects {
		if !project.NameContains(nameFilter) {
			continue
		}

		if s.IsProjectLinkedToInitiative(ctx, project.ID, initiativeID) {
			summary.AlreadyLinked = append(summary.AlreadyLinked, project.Name)
			continue
		}

		result := s.LinkProjectToInitiative(ctx, project.ID, initiativeID)
		if result.Success {
			summary.Linked = append(summary.Linked, project.Name)
		} else {
			summary.Failed = append(summary.Failed, fmt.Sprintf("%s: %s", project.Name, result.Error))
		}
	}

	return summary, nil
}

// GetProjectInitiativeStatus lists projects with the first initiative each belongs to
func (s *InitiativeServiceImpl) GetProjectInitiativeStatus(ctx context.Context) ([]models.ProjectInitiativeStatus, error) {
	projects, err := s.linearService.ListProjectsWithInitiatives(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]models.ProjectInitiativeStatus, 0, len(projects))
	for _, project := range projects {
		status := models.ProjectInitiativeStatus{ID: project.ID, Name: project.Name}
		if project.Initiatives != nil && len(project.Initiatives.Nodes) > 0 {
			status.Initiative = project.Initiatives.Nodes[0].Name
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
