package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"linear-reconciler/models"
)

// Structured error codes reported in GraphQL error extensions
var (
	duplicateCodes = []string{"CONFLICT", "DUPLICATE", "ALREADY_EXISTS"}
	notFoundCodes  = []string{"NOT_FOUND", "ENTITY_NOT_FOUND"}
)

const maxResponseSize = 10 * 1024 * 1024

// LinearService defines the interface for interacting with Linear
type LinearService interface {
	// Viewer returns the authenticated user
	Viewer(ctx context.Context) (*models.Viewer, error)

	// ListLabels returns the labels of a team, or of the whole workspace when teamID is empty
	ListLabels(ctx context.Context, teamID string) ([]models.Label, error)

	// CreateLabel creates a label in a team
	CreateLabel(ctx context.Context, teamID, name, color string) (*models.Label, error)

	// GetIssue fetches an issue together with its current labels
	GetIssue(ctx context.Context, issueID string) (*models.Issue, error)

	// UpdateIssueLabels replaces the label set of an issue
	UpdateIssueLabels(ctx context.Context, issueID string, labelIDs []string) error

	// CreateInitiativeLink links a project to an initiative
	CreateInitiativeLink(ctx context.Context, initiativeID, projectID string) error

	// ListInitiativeProjectIDs returns the ids of the projects linked to an initiative
	ListInitiativeProjectIDs(ctx context.Context, initiativeID string) ([]string, error)

	// ListInitiatives returns the initiatives of the workspace
	ListInitiatives(ctx context.Context) ([]models.Initiative, error)

	// FindProjects returns projects whose name contains nameFilter, ignoring case
	FindProjects(ctx context.Context, nameFilter string) ([]models.Project, error)

	// ListProjectsWithInitiatives returns every project with the initiatives it belongs to
	ListProjectsWithInitiatives(ctx context.Context) ([]models.Project, error)

	// ListProjectIssues returns the first page of issues of a project
	ListProjectIssues(ctx context.Context, projectID string, first int) (*models.IssuePage, error)
}

// LinearServiceImpl implements the LinearService interface over the GraphQL API
type LinearServiceImpl struct {
	config       *models.Config
	client       *http.Client
	initialRetry time.Duration
}

// NewLinearService creates a new LinearService
func NewLinearService(config *models.Config, httpClient ...*http.Client) LinearService {
	client := &http.Client{Timeout: time.Duration(config.Linear.TimeoutSeconds) * time.Second}
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &LinearServiceImpl{
		config:       config,
		client:       client,
		initialRetry: 500 * time.Millisecond,
	}
}

// httpStatusError is a non-2xx response from the API
type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("API error: %s (status %d)", e.Body, e.StatusCode)
}

func (e *httpStatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// classifiedError wraps a GraphQL error with the sentinel it maps to
type classifiedError struct {
	gqlErr models.GraphQLError
	kind   error
}

func (e *classifiedError) Error() string { return e.gqlErr.Error() }

func (e *classifiedError) Unwrap() []error {
	if e.kind == nil {
		return []error{e.gqlErr}
	}
	return []error{e.kind, e.gqlErr}
}

// classifyGraphQLError maps a GraphQL error to models.ErrDuplicate or models.ErrNotFound. The structured
// extension code is consulted first; message matching is only a fallback for payloads
// that carry no usable code.
func classifyGraphQLError(gqlErr models.GraphQLError) error {
	code := strings.ToUpper(gqlErr.Extensions.Code)
	for _, c := range duplicateCodes {
		if code == c {
			return &classifiedError{gqlErr: gqlErr, kind: models.ErrDuplicate}
		}
	}
	for _, c := range notFoundCodes {
		if code == c {
			return &classifiedError{gqlErr: gqlErr, kind: models.ErrNotFound}
		}
	}

	text := strings.ToLower(gqlErr.Message + " " + gqlErr.Extensions.UserPresentableMessage)
	switch {
	case strings.Contains(text, "duplicate"), strings.Contains(text, "already exists"):
		return &classifiedError{gqlErr: gqlErr, kind: models.ErrDuplicate}
	case strings.Contains(text, "not found"), strings.Contains(text, "could not find"):
		return &classifiedError{gqlErr: gqlErr, kind: models.ErrNotFound}
	}
	return &classifiedError{gqlErr: gqlErr}
}

// execute sends a GraphQL operation and decodes its data into out. Transport failures,
// 429 and 5xx responses are retried with exponential backoff; GraphQL errors are not.
func (s *LinearServiceImpl) execute(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(models.GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Linear.APIURL, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		req.Header.Set("Authorization", s.config.Linear.APIKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		// GraphQL errors are also reported with 400; let the envelope speak for them
		if resp.StatusCode != http.StatusOK && !(resp.StatusCode == http.StatusBadRequest && bytes.Contains(respBody, []byte(`"errors"`))) {
			statusErr := &httpStatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
			if statusErr.retryable() {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		body = respBody
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.initialRetry
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(s.config.Linear.MaxRetries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return err
	}

	var envelope models.GraphQLResponse[json.RawMessage]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return classifyGraphQLError(envelope.Errors[0])
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// Viewer returns the authenticated user
func (s *LinearServiceImpl) Viewer(ctx context.Context) (*models.Viewer, error) {
	const query = `query Viewer {
  viewer { id name email organization { name urlKey } }
}`
	var data struct {
		Viewer *models.Viewer `json:"viewer"`
	}
	if err := s.execute(ctx, query, nil, &data); err != nil {
		return nil, fmt.Errorf("failed to get viewer: %w", err)
	}
	if data.Viewer == nil {
		return nil, fmt.Errorf("failed to get viewer: %w", models.ErrNotFound)
	}
	return data.Viewer, nil
}

// ListLabels returns the labels of a team, or of the whole workspace when teamID is empty
func (s *LinearServiceImpl) ListLabels(ctx context.Context, teamID string) ([]models.Label, error) {
	const query = `query Labels($filter: IssueLabelFilter) {
  issueLabels(filter: $filter, first: 250) { nodes { id name color } }
}`
	variables := map[string]interface{}{}
	if teamID != "" {
		variables["filter"] = map[string]interface{}{
			"team": map[string]interface{}{"id": map[string]string{"eq": teamID}},
		}
	}
	var data struct {
		IssueLabels models.LabelConnection `json:"issueLabels"`
	}
	if err := s.execute(ctx, query, variables, &data); err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	return data.IssueLabels.Nodes, nil
}

// CreateLabel creates a label in a team
func (s *LinearServiceImpl) CreateLabel(ctx context.Context, teamID, name, color string) (*models.Label, error) {
	const mutation = `mutation CreateLabel($input: IssueLabelCreateInput!) {
  issueLabelCreate(input: $input) { success issueLabel { id name color } }
}`
	input := map[string]interface{}{"name": name, "color": color}
	if teamID != "" {
		input["teamId"] = teamID
	}
	var data struct {
		IssueLabelCreate struct {
			Success    bool          `json:"success"`
			IssueLabel *models.Label `json:"issueLabel"`
		} `json:"issueLabelCreate"`
	}
	if err := s.execute(ctx, mutation, map[string]interface{}{"input": input}, &data); err != nil {
		return nil, fmt.Errorf("failed to create label %s: %w", name, err)
	}
	if !data.IssueLabelCreate.Success || data.IssueLabelCreate.IssueLabel == nil {
		return nil, fmt.Errorf("failed to create label %s: no label returned", name)
	}
	log.Printf("Created label %s (%s)", name, data.IssueLabelCreate.IssueLabel.ID)
	return data.IssueLabelCreate.IssueLabel, nil
}

// GetIssue fetches an issue together with its current labels
func (s *LinearServiceImpl) GetIssue(ctx context.Context, issueID string) (*models.Issue, error) {
	const query = `query Issue($id: String!) {
  issue(id: $id) { id identifier title labels { nodes { id name } } }
}`
	var data struct {
		Issue *models.Issue `json:"issue"`
	}
	if err := s.execute(ctx, query, map[string]interface{}{"id": issueID}, &data); err != nil {
		return nil, fmt.Errorf("failed to get issue %s: %w", issueID, err)
	}
	if data.Issue == nil {
		return nil, fmt.Errorf("failed to get issue %s: %w", issueID, models.ErrNotFound)
	}
	return data.Issue, nil
}

// UpdateIssueLabels replaces the label set of an issue
func (s *LinearServiceImpl) UpdateIssueLabels(ctx context.Context, issueID string, labelIDs []string) error {
	const mutation = `mutation UpdateIssueLabels($id: String!, $input: IssueUpdateInput!) {
  issueUpdate(id: $id, input: $input) { success }
}`
	variables := map[string]interface{}{
		"id":    issueID,
		"input": map[string]interface{}{"labelIds": labelIDs},
	}
	var data struct {
		IssueUpdate struct {
			Success bool `json:"success"`
		} `json:"issueUpdate"`
	}
	if err := s.execute(ctx, mutation, variables, &data); err != nil {
		return fmt.Errorf("failed to update issue %s labels: %w", issueID, err)
	}
	if !data.IssueUpdate.Success {
		return fmt.Errorf("failed to update issue %s labels: update not acknowledged", issueID)
	}
	log.Printf("Updated labels of issue %s (%d labels)", issueID, len(labelIDs))
	return nil
}

// CreateInitiativeLink links a project to an initiative
func (s *LinearServiceImpl) CreateInitiativeLink(ctx context.Context, initiativeID, projectID string) error {
	const mutation = `mutation LinkProjectToInitiative($initiativeId: String!, $projectId: String!) {
  initiativeToProjectCreate(input: { initiativeId: $initiativeId, projectId: $projectId }) {
    success
    initiativeToProject { id }
  }
}`
	variables := map[string]interface{}{
		"initiativeId": initiativeID,
		"projectId":    projectID,
	}
	var data struct {
		InitiativeToProjectCreate struct {
			Success bool `json:"success"`
		} `json:"initiativeToProjectCreate"`
	}
	if err := s.execute(ctx, mutation, variables, &data); err != nil {
		return fmt.Errorf("failed to link project %s to initiative %s: %w", projectID, initiativeID, err)
	}
	if !data.InitiativeToProjectCreate.Success {
		return fmt.Errorf("failed to link project %s to initiative %s: link not acknowledged", projectID, initiativeID)
	}
	log.Printf("Linked project %s to initiative %s", projectID, initiativeID)
	return nil
}

// ListInitiativeProjectIDs returns the ids of the projects linked to an initiative
func (s *LinearServiceImpl) ListInitiativeProjectIDs(ctx context.Context, initiativeID string) ([]string, error) {
	const query = `query InitiativeProjects($initiativeId: String!) {
  initiative(id: $initiativeId) { id projects { nodes { id } } }
}`
	var data struct {
		Initiative *struct {
			Projects struct {
				Nodes []struct {
					ID string `json:"id"`
				} `json:"nodes"`
			} `json:"projects"`
		} `json:"initiative"`
	}
	if err := s.execute(ctx, query, map[string]interface{}{"initiativeId": initiativeID}, &data); err != nil {
		return nil, fmt.Errorf("failed to list projects of initiative %s: %w", initiativeID, err)
	}
	if data.Initiative == nil {
		return nil, fmt.Errorf("failed to list projects of initiative %s: %w", initiativeID, models.ErrNotFound)
	}
	ids := make([]string, 0, len(data.Initiative.Projects.Nodes))
	for _, p := range data.Initiative.Projects.Nodes {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// ListInitiatives returns the initiatives of the workspace
func (s *LinearServiceImpl) ListInitiatives(ctx context.Context) ([]models.Initiative, error) {
	const query = `query Initiatives {
  initiatives(first: 100) { nodes { id name } }
}`
	var data struct {
		Initiatives models.InitiativeConnection `json:"initiatives"`
	}
	if err := s.execute(ctx, query, nil, &data); err != nil {
		return nil, fmt.Errorf("failed to list initiatives: %w", err)
	}
	return data.Initiatives.Nodes, nil
}

// FindProjects returns projects whose name contains nameFilter, ignoring case
func (s *LinearServiceImpl) FindProjects(ctx context.Context, nameFilter string) ([]models.Project, error) {
	const query = `query FindProjects($name: String!) {
  projects(filter: { name: { containsIgnoreCase: $name } }, first: 100) {
    nodes { id name description state url }
  }
}`
	var data struct {
		Projects struct {
			Nodes []models.Project `json:"nodes"`
		} `json:"projects"`
	}
	if err := s.execute(ctx, query, map[string]interface{}{"name": nameFilter}, &data); err != nil {
		return nil, fmt.Errorf("failed to find projects matching %q: %w", nameFilter, err)
	}
	return data.Projects.Nodes, nil
}

// ListProjectsWithInitiatives returns every project with the initiatives it belongs to
func (s *LinearServiceImpl) ListProjectsWithInitiatives(ctx context.Context) ([]models.Project, error) {
	const query = `query ProjectInitiatives {
  projects(first: 100) { nodes { id name state initiatives { nodes { id name } } } }
}`
	var data struct {
		Projects struct {
			Nodes []models.Project `json:"nodes"`
		} `json:"projects"`
	}
	if err := s.execute(ctx, query, nil, &data); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return data.Projects.Nodes, nil
}

// ListProjectIssues returns the first page of issues of a project
func (s *LinearServiceImpl) ListProjectIssues(ctx context.Context, projectID string, first int) (*models.IssuePage, error) {
	const query = `query ProjectIssues($projectId: ID!, $first: Int!) {
  issues(filter: { project: { id: { eq: $projectId } } }, first: $first) {
    nodes { id identifier title labels { nodes { id name } } }
    pageInfo { hasNextPage endCursor }
  }
}`
	variables := map[string]interface{}{
		"projectId": projectID,
		"first":     first,
	}
	var data struct {
		Issues models.IssuePage `json:"issues"`
	}
	if err := s.execute(ctx, query, variables, &data); err != nil {
		return nil, fmt.Errorf("failed to list issues of project %s: %w", projectID, err)
	}
	return &data.Issues, nil
}
