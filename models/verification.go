package models

// ProjectVerification is the report produced when checking a project's remote state
type ProjectVerification struct {
	Project ProjectCheck  `json:"project"`
	Issues  IssueCheck    `json:"issues"`
	Overall OverallResult `json:"overall"`
}

// ProjectCheck holds the project-level findings
type ProjectCheck struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Exists             bool   `json:"exists"`
	LinkedToInitiative bool   `json:"linkedToInitiative"`
	HasDescription     bool   `json:"hasDescription"`
	DescriptionLength  int    `json:"descriptionLength"`
	State              string `json:"state"`
}

// IssueCheck holds the issue-level findings
type IssueCheck struct {
	Expected   int      `json:"expected"`
	Found      int      `json:"found"`
	Missing    []string `json:"missing"`
	WithLabels int      `json:"withLabels"`
	// WithoutLabels entries are formatted as "<identifier>: missing <a>, <b>"
	WithoutLabels []string `json:"withoutLabels"`
}

// OverallResult aggregates every check. Passed is false as soon as one problem is recorded.
type OverallResult struct {
	Passed bool     `json:"passed"`
	Issues []string `json:"issues"`
}

// NewProjectVerification returns a report that passes until a failure is recorded
func NewProjectVerification(projectName string, expectedIssues int) *ProjectVerification {
	return &ProjectVerification{
		Project: ProjectCheck{Name: projectName},
		Issues: IssueCheck{
			Expected:      expectedIssues,
			Missing:       []string{},
			WithoutLabels: []string{},
		},
		Overall: OverallResult{
			Passed: true,
			Issues: []string{},
		},
	}
}

// Fail records a problem and marks the report as failed
func (v *ProjectVerification) Fail(problem string) {
	v.Overall.Passed = false
	v.Overall.Issues = append(v.Overall.Issues, problem)
}

// VerificationSummary aggregates the reports of a bulk verification run
type VerificationSummary struct {
	Projects []*ProjectVerification `json:"projects"`
	Total    int                    `json:"total"`
	Passed   int                    `json:"passed"`
	Failed   int                    `json:"failed"`
	// Issues holds one "<project>: <problem>; <problem>" entry per failing project
	Issues []string `json:"issues"`
}
