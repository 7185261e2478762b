package models

import "strings"

// GraphQLRequest represents a request body sent to the Linear GraphQL endpoint
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse represents the envelope returned by the Linear GraphQL endpoint
type GraphQLResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// GraphQLError represents a single error entry of a GraphQL response
type GraphQLError struct {
	Message    string                 `json:"message"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions GraphQLErrorExtensions `json:"extensions,omitempty"`
}

// GraphQLErrorExtensions carries the structured part of a Linear error
type GraphQLErrorExtensions struct {
	Code                   string `json:"code,omitempty"`
	Type                   string `json:"type,omitempty"`
	UserPresentableMessage string `json:"userPresentableMessage,omitempty"`
}

func (e GraphQLError) Error() string {
	if e.Extensions.UserPresentableMessage != "" && e.Extensions.UserPresentableMessage != e.Message {
		return e.Message + ": " + e.Extensions.UserPresentableMessage
	}
	return e.Message
}

// Label represents a Linear issue label
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// LabelConnection is a page of labels
type LabelConnection struct {
	Nodes []Label `json:"nodes"`
}

// Names returns the label names in the order returned by the API
func (c LabelConnection) Names() []string {
	names := make([]string, 0, len(c.Nodes))
	for _, l := range c.Nodes {
		names = append(names, l.Name)
	}
	return names
}

// Issue represents a Linear issue as seen by the reconciler
type Issue struct {
	ID         string          `json:"id"`
	Identifier string          `json:"identifier"`
	Title      string          `json:"title,omitempty"`
	Labels     LabelConnection `json:"labels"`
}

// LabelIDs returns the identifiers of the labels currently on the issue
func (i *Issue) LabelIDs() []string {
	ids := make([]string, 0, len(i.Labels.Nodes))
	for _, l := range i.Labels.Nodes {
		ids = append(ids, l.ID)
	}
	return ids
}

// IssuePage is a bounded page of issues
type IssuePage struct {
	Nodes    []Issue  `json:"nodes"`
	PageInfo PageInfo `json:"pageInfo"`
}

// PageInfo carries pagination hints. Only the first page is ever consumed.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor,omitempty"`
}

// Project represents a Linear project
type Project struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	State       string                `json:"state"`
	URL         string                `json:"url,omitempty"`
	Initiatives *InitiativeConnection `json:"initiatives,omitempty"`
}

// NameContains reports whether the project name contains filter, ignoring case
func (p *Project) NameContains(filter string) bool {
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter))
}

// Initiative represents a Linear initiative
type Initiative struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InitiativeConnection is a page of initiatives
type InitiativeConnection struct {
	Nodes []Initiative `json:"nodes"`
}

// Viewer represents the authenticated user
type Viewer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization struct {
		Name   string `json:"name"`
		URLKey string `json:"urlKey"`
	} `json:"organization"`
}
