package models

// LabelSyncResult is the outcome of ensuring a set of labels exists for a team
type LabelSyncResult struct {
	Created  []string `json:"created"`
	Existing []string `json:"existing"`
	// Failed entries are formatted as "<name>: <error>" and have no guaranteed mapping
	Failed   []string `json:"failed"`
	LabelMap LabelMap `json:"labelMap"`
}

// ApplyLabelsResult is the outcome of adding labels to an issue. Error is set when the
// read or write step failed; Applied and Skipped hold what was computed before that.
type ApplyLabelsResult struct {
	Applied []string `json:"applied"`
	Skipped []string `json:"skipped"`
	Error   string   `json:"error,omitempty"`
}

// LabelCheckResult is the outcome of checking which expected labels an issue carries
type LabelCheckResult struct {
	Applied []string `json:"applied"`
	Missing []string `json:"missing"`
}

// LinkResult is the outcome of linking a project to an initiative
type LinkResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// LinkSummary is the outcome of linking every project matching a name filter
type LinkSummary struct {
	Linked        []string `json:"linked"`
	AlreadyLinked []string `json:"alreadyLinked"`
	// Failed entries are formatted as "<project name>: <error>"
	Failed []string `json:"failed"`
}

// ProjectInitiativeStatus describes which initiative, if any, a project belongs to
type ProjectInitiativeStatus struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Initiative string `json:"initiative,omitempty"`
}
