package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"linear-reconciler/models"
)

// LabelService defines the interface for keeping labels in sync
type LabelService interface {
	// GetLabelMap fetches the current labels of a team keyed by lowercase name
	GetLabelMap(ctx context.Context, teamID string) (models.LabelMap, error)

	// EnsureLabelsExist creates the labels of names that do not exist yet
	EnsureLabelsExist(ctx context.Context, teamID string, names []string) (*models.LabelSyncResult, error)

	// ApplyLabelsToIssue adds labels to an issue without removing the ones it has
	ApplyLabelsToIssue(ctx context.Context, issueID string, names []string, labelMap models.LabelMap) *models.ApplyLabelsResult

	// VerifyLabelsApplied reports which expected labels an issue carries
	VerifyLabelsApplied(ctx context.Context, issueID string, expected []string) *models.LabelCheckResult
}

// LabelServiceImpl implements the LabelService interface
type LabelServiceImpl struct {
	linearService LinearService
}

// NewLabelService creates a new LabelService
func NewLabelService(linearService LinearService) LabelService {
	return &LabelServiceImpl{linearService: linearService}
}

// GetLabelMap fetches the current labels of a team keyed by lowercase name
func (s *LabelServiceImpl) GetLabelMap(ctx context.Context, teamID string) (models.LabelMap, error) {
	labels, err := s.linearService.ListLabels(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return models.NewLabelMap(labels), nil
}

// EnsureLabelsExist creates the labels of names that do not exist yet. Names are processed
// in order; a failure is recorded against its name and does not stop the batch. A create
// rejected as a duplicate is resolved by re-reading the team's labels. The returned error
// is only set when the initial label read fails, in which case every name is in Failed.
func (s *LabelServiceImpl) EnsureLabelsExist(ctx context.Context, teamID string, names []string) (*models.LabelSyncResult, error) {
	result := &models.LabelSyncResult{
		Created:  []string{},
		Existing: []string{},
		Failed:   []string{},
		LabelMap: models.LabelMap{},
	}

	labelMap, err := s.GetLabelMap(ctx, teamID)
	if err != nil {
		for _, name := range names {
			result.Failed = append(result.Failed, fmt.Sprintf("%s: %v", name, err))
		}
		return result, fmt.Errorf("failed to get labels: %w", err)
	}
	result.LabelMap = labelMap

	for _, name := range names {
		if labelMap.Has(name) {
			result.Existing = append(result.Existing, name)
			continue
		}

		label, err := s.linearService.CreateLabel(ctx, teamID, name, models.LabelColor(name))
		switch {
		case err == nil:
			labelMap.Set(name, label.ID)
			result.Created = append(result.Created, name)

		case errors.Is(err, models.ErrDuplicate):
			// Another writer created the label after our read
			id, recoverErr := s.resolveCollision(ctx, teamID, name)
			if recoverErr != nil {
				result.Failed = append(result.Failed, fmt.Sprintf("%s: %v", name, recoverErr))
				continue
			}
			log.Printf("Label %s was created concurrently, using %s", name, id)
			labelMap.Set(name, id)
			result.Existing = append(result.Existing, name)

		default:
			result.Failed = append(result.Failed, fmt.Sprintf("%s: %v", name, err))
		}
	}

	return result, nil
}

// resolveCollision re-reads the team's labels and returns the identifier of name
func (s *LabelServiceImpl) resolveCollision(ctx context.Context, teamID, name string) (string, error) {
	refreshed, err := s.GetLabelMap(ctx, teamID)
	if err != nil {
		return "", fmt.Errorf("duplicate reported but labels could not be re-read: %w", err)
	}
	id, ok := refreshed.Get(name)
	if !ok {
		return "", fmt.Errorf("duplicate reported but label is still missing: %w", models.ErrNotFound)
	}
	return id, nil
}

// ApplyLabelsToIssue adds labels to an issue without removing the ones it has. Names
// missing from labelMap are skipped. When nothing new is to be added no write is made.
func (s *LabelServiceImpl) ApplyLabelsToIssue(ctx context.Context, issueID string, names []string, labelMap models.LabelMap) *models.ApplyLabelsResult {
	result := &models.ApplyLabelsResult{
		Applied: []string{},
		Skipped: []string{},
	}

	issue, err := s.linearService.GetIssue(ctx, issueID)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	existingIDs := issue.LabelIDs()
	present := make(map[string]bool, len(existingIDs))
	for _, id := range existingIDs {
		present[id] = true
	}

	var newIDs []string
	for _, name := range names {
		id, ok := labelMap.Get(name)
		if !ok {
			result.Skipped = append(result.Skipped, name+" (not found)")
			continue
		}
		if present[id] {
			result.Skipped = append(result.Skipped, name+" (already applied)")
			continue
		}
		present[id] = true
		newIDs = append(newIDs, id)
		result.Applied = append(result.Applied, name)
	}

	if len(newIDs) == 0 {
		return result
	}

	allIDs := append(existingIDs, newIDs...)
	if err := s.linearService.UpdateIssueLabels(ctx, issueID, allIDs); err != nil {
		result.Error = err.Error()
	}
	return result
}

// VerifyLabelsApplied reports which expected labels an issue carries. If the issue cannot
// be read every expected label is reported missing.
func (s *LabelServiceImpl) VerifyLabelsApplied(ctx context.Context, issueID string, expected []string) *models.LabelCheckResult {
	issue, err := s.linearService.GetIssue(ctx, issueID)
	if err != nil {
		log.Printf("Failed to read labels of issue %s: %v", issueID, err)
		return &models.LabelCheckResult{
			Applied: []string{},
			Missing: append([]string{}, expected...),
		}
	}
	applied, missing := models.MissingLabels(issue.Labels.Nodes, expected)
	return &models.LabelCheckResult{Applied: applied, Missing: missing}
}
