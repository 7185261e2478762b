package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"linear-reconciler/models"
)

// VerificationService defines the interface for checking that requested structure converged
type VerificationService interface {
	// VerifyProjectCreation checks one project against its expected shape
	VerifyProjectCreation(ctx context.Context, projectName string, expectedIssues int, expectedLabels map[string][]string, initiativeID string) *models.ProjectVerification

	// VerifyProjectsForInitiative checks every project whose name contains nameFilter
	VerifyProjectsForInitiative(ctx context.Context, nameFilter, initiativeID string) (*models.VerificationSummary, error)
}

// VerificationServiceImpl implements the VerificationService interface
type VerificationServiceImpl struct {
	linearService     LinearService
	initiativeService InitiativeService
	config            *models.Config
}

// NewVerificationService creates a new VerificationService
func NewVerificationService(linearService LinearService, initiativeService InitiativeService, config *models.Config) VerificationService {
	return &VerificationServiceImpl{
		linearService:     linearService,
		initiativeService: initiativeService,
		config:            config,
	}
}

// VerifyProjectCreation checks one project against its expected shape. Every check runs
// even when an earlier one failed so the report lists all problems at once; only a
// missing project ends the checks early.
func (s *VerificationServiceImpl) VerifyProjectCreation(ctx context.Context, projectName string, expectedIssues int, expectedLabels map[string][]string, initiativeID string) *models.ProjectVerification {
	verification := models.NewProjectVerification(projectName, expectedIssues)

	project, err := s.findProject(ctx, projectName)
	if err != nil {
		verification.Fail(fmt.Sprintf("Project lookup failed: %s: %v", projectName, err))
		return verification
	}
	if project == nil {
		verification.Fail(fmt.Sprintf("Project not found: %s", projectName))
		return verification
	}

	s.verifyProject(ctx, verification, project, expectedLabels, initiativeID)
	return verification
}

// VerifyProjectsForInitiative checks every project whose name contains nameFilter. Each
// project is expected to have the issues it currently has, so the run checks linkage and
// description rather than drift against an outside expectation.
func (s *VerificationServiceImpl) VerifyProjectsForInitiative(ctx context.Context, nameFilter, initiativeID string) (*models.VerificationSummary, error) {
	projects, err := s.linearService.FindProjects(ctx, nameFilter)
	if err != nil {
		return nil, err
	}

	summary := &models.VerificationSummary{
		Projects: []*models.ProjectVerification{},
		Issues:   []string{},
	}

	for i := range projects {
		project := &projects[i]
		if !project.NameContains(nameFilter) {
			continue
		}
		summary.Total++

		expected := 0
		if page, err := s.linearService.ListProjectIssues(ctx, project.ID, s.config.Verify.IssuePageSize); err == nil {
			expected = len(page.Nodes)
		}

		verification := models.NewProjectVerification(project.Name, expected)
		s.verifyProject(ctx, verification, project, nil, initiativeID)
		summary.Projects = append(summary.Projects, verification)

		if verification.Overall.Passed {
			summary.Passed++
		} else {
			summary.Failed++
			summary.Issues = append(summary.Issues, fmt.Sprintf("%s: %s", project.Name, strings.Join(verification.Overall.Issues, "; ")))
		}
	}

	return summary, nil
}

// findProject returns the first project whose name contains projectName, ignoring case
func (s *VerificationServiceImpl) findProject(ctx context.Context, projectName string) (*models.Project, error) {
	projects, err := s.linearService.FindProjects(ctx, projectName)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].NameContains(projectName) {
			return &projects[i], nil
		}
	}
	return nil, nil
}

// verifyProject fills verification for a project known to exist
func (s *VerificationServiceImpl) verifyProject(ctx context.Context, verification *models.ProjectVerification, project *models.Project, expectedLabels map[string][]string, initiativeID string) {
	descriptionLength := utf8.RuneCountInString(project.Description)

	verification.Project.ID = project.ID
	verification.Project.Name = project.Name
	verification.Project.Exists = true
	verification.Project.State = project.State
	verification.Project.DescriptionLength = descriptionLength
	verification.Project.HasDescription = descriptionLength > s.config.Verify.DescriptionMinLength
	verification.Project.LinkedToInitiative = s.initiativeService.IsProjectLinkedToInitiative(ctx, project.ID, initiativeID)

	if !verification.Project.LinkedToInitiative {
		verification.Fail("Project not linked to initiative")
	}
	if !verification.Project.HasDescription {
		verification.Fail("Project has no description")
	}

	page, err := s.linearService.ListProjectIssues(ctx, project.ID, s.config.Verify.IssuePageSize)
	if err != nil {
		verification.Fail(fmt.Sprintf("Could not list issues: %v", err))
		return
	}

	verification.Issues.Found = len(page.Nodes)
	if verification.Issues.Found < verification.Issues.Expected {
		verification.Fail(fmt.Sprintf("Expected %d issues, found %d", verification.Issues.Expected, verification.Issues.Found))
	}

	if expectedLabels == nil {
		return
	}

	found := make(map[string]bool, len(page.Nodes))
	for _, issue := range page.Nodes {
		found[issue.Identifier] = true
		expected, ok := expectedLabels[issue.Identifier]
		if !ok {
			continue
		}
		_, missing := models.MissingLabels(issue.Labels.Nodes, expected)
		if len(missing) == 0 {
			verification.Issues.WithLabels++
		} else {
			verification.Issues.WithoutLabels = append(verification.Issues.WithoutLabels,
				fmt.Sprintf("%s: missing %s", issue.Identifier, strings.Join(missing, ", ")))
		}
	}

	for identifier := range expectedLabels {
		if !found[identifier] {
			verification.Issues.Missing = append(verification.Issues.Missing, identifier)
		}
	}
	sort.Strings(verification.Issues.Missing)

	if len(verification.Issues.WithoutLabels) > 0 {
		verification.Fail(fmt.Sprintf("%d issues missing labels", len(verification.Issues.WithoutLabels)))
	}
}
