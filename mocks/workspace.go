package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"linear-reconciler/models"
)

// Workspace is an in-memory stand-in for a Linear workspace. It enforces the same
// uniqueness rules as the remote service: label names are unique per team ignoring case,
// and an initiative links a project at most once.
type Workspace struct {
	mu sync.Mutex

	labels      map[string][]models.Label // team id -> labels
	issues      map[string]*models.Issue
	issueOrder  []string
	projects    []models.Project
	projectOf   map[string]string // issue id -> project id
	initiatives map[string]*wsInitiative
	nextID      int

	// Calls counts invocations per method name
	Calls map[string]int

	// BeforeCreateLabel runs before a label is created; a non-nil error is returned as is
	BeforeCreateLabel func(teamID, name string) error
	// Failures maps a method name to an error returned instead of performing the call
	Failures map[string]error
}

type wsInitiative struct {
	initiative models.Initiative
	projectIDs []string
}

// NewWorkspace returns an empty workspace
func NewWorkspace() *Workspace {
	return &Workspace{
		labels:      make(map[string][]models.Label),
		issues:      make(map[string]*models.Issue),
		projectOf:   make(map[string]string),
		initiatives: make(map[string]*wsInitiative),
		Calls:       make(map[string]int),
		Failures:    make(map[string]error),
	}
}

func (w *Workspace) newID(prefix string) string {
	w.nextID++
	return fmt.Sprintf("%s-%d", prefix, w.nextID)
}

// record counts the call and returns the injected failure for method, if any
func (w *Workspace) record(method string) error {
	w.Calls[method]++
	return w.Failures[method]
}

// AddLabel creates a label directly, bypassing uniqueness checks and hooks
func (w *Workspace) AddLabel(teamID, name string) models.Label {
	w.mu.Lock()
	defer w.mu.Unlock()
	label := models.Label{ID: w.newID("label"), Name: name, Color: models.LabelColor(name)}
	w.labels[teamID] = append(w.labels[teamID], label)
	return label
}

// AddProject creates a project
func (w *Workspace) AddProject(name, description string) models.Project {
	w.mu.Lock()
	defer w.mu.Unlock()
	project := models.Project{ID: w.newID("project"), Name: name, Description: description, State: "planned"}
	w.projects = append(w.projects, project)
	return project
}

// AddInitiative creates an initiative
func (w *Workspace) AddInitiative(name string) models.Initiative {
	w.mu.Lock()
	defer w.mu.Unlock()
	initiative := models.Initiative{ID: w.newID("initiative"), Name: name}
	w.initiatives[initiative.ID] = &wsInitiative{initiative: initiative}
	return initiative
}

// AddIssue creates an issue in a project carrying the given labels
func (w *Workspace) AddIssue(projectID, identifier string, labels ...models.Label) *models.Issue {
	w.mu.Lock()
	defer w.mu.Unlock()
	issue := &models.Issue{ID: w.newID("issue"), Identifier: identifier}
	issue.Labels.Nodes = append(issue.Labels.Nodes, labels...)
	w.issues[issue.ID] = issue
	w.issueOrder = append(w.issueOrder, issue.ID)
	w.projectOf[issue.ID] = projectID
	return issue
}

// Labels returns the labels of a team
func (w *Workspace) Labels(teamID string) []models.Label {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Label{}, w.labels[teamID]...)
}

// IssueLabelNames returns the label names currently on an issue
func (w *Workspace) IssueLabelNames(issueID string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	issue, ok := w.issues[issueID]
	if !ok {
		return nil
	}
	return issue.Labels.Names()
}

// Viewer returns a fixed user
func (w *Workspace) Viewer(ctx context.Context) (*models.Viewer, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("Viewer"); err != nil {
		return nil, err
	}
	viewer := &models.Viewer{ID: "user-1", Name: "Test User", Email: "test@example.com"}
	viewer.Organization.Name = "Test Org"
	viewer.Organization.URLKey = "test-org"
	return viewer, nil
}

// ListLabels returns the labels of a team
func (w *Workspace) ListLabels(ctx context.Context, teamID string) ([]models.Label, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("ListLabels"); err != nil {
		return nil, err
	}
	return append([]models.Label{}, w.labels[teamID]...), nil
}

// CreateLabel creates a label, rejecting names already used in the team
func (w *Workspace) CreateLabel(ctx context.Context, teamID, name, color string) (*models.Label, error) {
	w.mu.Lock()
	if err := w.record("CreateLabel"); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	hook := w.BeforeCreateLabel
	w.mu.Unlock()

	if hook != nil {
		if err := hook(teamID, name); err != nil {
			return nil, err
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, l := range w.labels[teamID] {
		if strings.EqualFold(l.Name, name) {
			return nil, fmt.Errorf("Duplicate label name %q: %w", name, models.ErrDuplicate)
		}
	}
	label := models.Label{ID: w.newID("label"), Name: name, Color: color}
	w.labels[teamID] = append(w.labels[teamID], label)
	return &label, nil
}

// GetIssue returns a copy of an issue
func (w *Workspace) GetIssue(ctx context.Context, issueID string) (*models.Issue, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("GetIssue"); err != nil {
		return nil, err
	}
	issue, ok := w.issues[issueID]
	if !ok {
		return nil, fmt.Errorf("issue %s: %w", issueID, models.ErrNotFound)
	}
	copied := *issue
	copied.Labels.Nodes = append([]models.Label{}, issue.Labels.Nodes...)
	return &copied, nil
}

// UpdateIssueLabels replaces the label set of an issue
func (w *Workspace) UpdateIssueLabels(ctx context.Context, issueID string, labelIDs []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("UpdateIssueLabels"); err != nil {
		return err
	}
	issue, ok := w.issues[issueID]
	if !ok {
		return fmt.Errorf("issue %s: %w", issueID, models.ErrNotFound)
	}
	byID := make(map[string]models.Label)
	for _, labels := range w.labels {
		for _, l := range labels {
			byID[l.ID] = l
		}
	}
	nodes := make([]models.Label, 0, len(labelIDs))
	for _, id := range labelIDs {
		label, ok := byID[id]
		if !ok {
			return fmt.Errorf("label %s: %w", id, models.ErrNotFound)
		}
		nodes = append(nodes, label)
	}
	issue.Labels.Nodes = nodes
	return nil
}

// CreateInitiativeLink links a project to an initiative, rejecting existing links
func (w *Workspace) CreateInitiativeLink(ctx context.Context, initiativeID, projectID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("CreateInitiativeLink"); err != nil {
		return err
	}
	initiative, ok := w.initiatives[initiativeID]
	if !ok {
		return fmt.Errorf("initiative %s: %w", initiativeID, models.ErrNotFound)
	}
	for _, id := range initiative.projectIDs {
		if id == projectID {
			return fmt.Errorf("initiative to project link already exists: %w", models.ErrDuplicate)
		}
	}
	initiative.projectIDs = append(initiative.projectIDs, projectID)
	return nil
}

// ListInitiativeProjectIDs returns the projects linked to an initiative
func (w *Workspace) ListInitiativeProjectIDs(ctx context.Context, initiativeID string) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("ListInitiativeProjectIDs"); err != nil {
		return nil, err
	}
	initiative, ok := w.initiatives[initiativeID]
	if !ok {
		return nil, fmt.Errorf("initiative %s: %w", initiativeID, models.ErrNotFound)
	}
	return append([]string{}, initiative.projectIDs...), nil
}

// ListInitiatives returns every initiative
func (w *Workspace) ListInitiatives(ctx context.Context) ([]models.Initiative, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("ListInitiatives"); err != nil {
		return nil, err
	}
	initiatives := make([]models.Initiative, 0, len(w.initiatives))
	for _, i := range w.initiatives {
		initiatives = append(initiatives, i.initiative)
	}
	return initiatives, nil
}

// FindProjects returns projects whose name contains nameFilter, ignoring case
func (w *Workspace) FindProjects(ctx context.Context, nameFilter string) ([]models.Project, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("FindProjects"); err != nil {
		return nil, err
	}
	var projects []models.Project
	for i := range w.projects {
		if w.projects[i].NameContains(nameFilter) {
			projects = append(projects, w.projects[i])
		}
	}
	return projects, nil
}

// ListProjectsWithInitiatives returns every project with its initiatives
func (w *Workspace) ListProjectsWithInitiatives(ctx context.Context) ([]models.Project, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("ListProjectsWithInitiatives"); err != nil {
		return nil, err
	}
	projects := make([]models.Project, 0, len(w.projects))
	for _, p := range w.projects {
		p.Initiatives = &models.InitiativeConnection{}
		for _, i := range w.initiatives {
			for _, id := range i.projectIDs {
				if id == p.ID {
					p.Initiatives.Nodes = append(p.Initiatives.Nodes, i.initiative)
				}
			}
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// ListProjectIssues returns up to first issues of a project in creation order
func (w *Workspace) ListProjectIssues(ctx context.Context, projectID string, first int) (*models.IssuePage, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("ListProjectIssues"); err != nil {
		return nil, err
	}
	page := &models.IssuePage{Nodes: []models.Issue{}}
	for _, id := range w.issueOrder {
		if w.projectOf[id] != projectID {
			continue
		}
		if len(page.Nodes) == first {
			page.PageInfo.HasNextPage = true
			break
		}
		issue := *w.issues[id]
		issue.Labels.Nodes = append([]models.Label{}, w.issues[id].Labels.Nodes...)
		page.Nodes = append(page.Nodes, issue)
	}
	return page, nil
}
