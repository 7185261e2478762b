package mocks

import (
	"context"

	"linear-reconciler/models"
)

// MockLinearService is a mock implementation of the LinearService interface
type MockLinearService struct {
	ViewerFunc                      func(ctx context.Context) (*models.Viewer, error)
	ListLabelsFunc                  func(ctx context.Context, teamID string) ([]models.Label, error)
	CreateLabelFunc                 func(ctx context.Context, teamID, name, color string) (*models.Label, error)
	GetIssueFunc                    func(ctx context.Context, issueID string) (*models.Issue, error)
	UpdateIssueLabelsFunc           func(ctx context.Context, issueID string, labelIDs []string) error
	CreateInitiativeLinkFunc        func(ctx context.Context, initiativeID, projectID string) error
	ListInitiativeProjectIDsFunc    func(ctx context.Context, initiativeID string) ([]string, error)
	ListInitiativesFunc             func(ctx context.Context) ([]models.Initiative, error)
	FindProjectsFunc                func(ctx context.Context, nameFilter string) ([]models.Project, error)
	ListProjectsWithInitiativesFunc func(ctx context.Context) ([]models.Project, error)
	ListProjectIssuesFunc           func(ctx context.Context, projectID string, first int) (*models.IssuePage, error)
}

// Viewer is the mock implementation of LinearService's Viewer method
func (m *MockLinearService) Viewer(ctx context.Context) (*models.Viewer, error) {
	if m.ViewerFunc != nil {
		return m.ViewerFunc(ctx)
	}
	return &models.Viewer{}, nil
}

// ListLabels is the mock implementation of LinearService's ListLabels method
func (m *MockLinearService) ListLabels(ctx context.Context, teamID string) ([]models.Label, error) {
	if m.ListLabelsFunc != nil {
		return m.ListLabelsFunc(ctx, teamID)
	}
	return nil, nil
}

// CreateLabel is the mock implementation of LinearService's CreateLabel method
func (m *MockLinearService) CreateLabel(ctx context.Context, teamID, name, color string) (*models.Label, error) {
	if m.CreateLabelFunc != nil {
		return m.CreateLabelFunc(ctx, teamID, name, color)
	}
	return &models.Label{ID: "label-" + name, Name: name, Color: color}, nil
}

// GetIssue is the mock implementation of LinearService's GetIssue method
func (m *MockLinearService) GetIssue(ctx context.Context, issueID string) (*models.Issue, error) {
	if m.GetIssueFunc != nil {
		return m.GetIssueFunc(ctx, issueID)
	}
	return &models.Issue{ID: issueID}, nil
}

// UpdateIssueLabels is the mock implementation of LinearService's UpdateIssueLabels method
func (m *MockLinearService) UpdateIssueLabels(ctx context.Context, issueID string, labelIDs []string) error {
	if m.UpdateIssueLabelsFunc != nil {
		return m.UpdateIssueLabelsFunc(ctx, issueID, labelIDs)
	}
	return nil
}

// CreateInitiativeLink is the mock implementation of LinearService's CreateInitiativeLink method
func (m *MockLinearService) CreateInitiativeLink(ctx context.Context, initiativeID, projectID string) error {
	if m.CreateInitiativeLinkFunc != nil {
		return m.CreateInitiativeLinkFunc(ctx, initiativeID, projectID)
	}
	return nil
}

// ListInitiativeProjectIDs is the mock implementation of LinearService's ListInitiativeProjectIDs method
func (m *MockLinearService) ListInitiativeProjectIDs(ctx context.Context, initiativeID string) ([]string, error) {
	if m.ListInitiativeProjectIDsFunc != nil {
		return m.ListInitiativeProjectIDsFunc(ctx, initiativeID)
	}
	return nil, nil
}

// ListInitiatives is the mock implementation of LinearService's ListInitiatives method
func (m *MockLinearService) ListInitiatives(ctx context.Context) ([]models.Initiative, error) {
	if m.ListInitiativesFunc != nil {
		return m.ListInitiativesFunc(ctx)
	}
	return nil, nil
}

// FindProjects is the mock implementation of LinearService's FindProjects method
func (m *MockLinearService) FindProjects(ctx context.Context, nameFilter string) ([]models.Project, error) {
	if m.FindProjectsFunc != nil {
		return m.FindProjectsFunc(ctx, nameFilter)
	}
	return nil, nil
}

// ListProjectsWithInitiatives is the mock implementation of LinearService's ListProjectsWithInitiatives method
func (m *MockLinearService) ListProjectsWithInitiatives(ctx context.Context) ([]models.Project, error) {
	if m.ListProjectsWithInitiativesFunc != nil {
		return m.ListProjectsWithInitiativesFunc(ctx)
	}
	return nil, nil
}

// ListProjectIssues is the mock implementation of LinearService's ListProjectIssues method
func (m *MockLinearService) ListProjectIssues(ctx context.Context, projectID string, first int) (*models.IssuePage, error) {
	if m.ListProjectIssuesFunc != nil {
		return m.ListProjectIssuesFunc(ctx, projectID, first)
	}
	return &models.IssuePage{}, nil
}
