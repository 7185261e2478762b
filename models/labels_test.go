package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelColor(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{name: "known label", label: "npm", expected: "#CB3837"},
		{name: "known label in another case", label: "Security", expected: "#D73A4A"},
		{name: "unknown label", label: "misc", expected: DefaultLabelColor},
		{name: "empty name", label: "", expected: DefaultLabelColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LabelColor(tt.label))
		})
	}
}

func TestLabelMap(t *testing.T) {
	labelMap := NewLabelMap([]Label{
		{ID: "label-1", Name: "NPM"},
		{ID: "label-2", Name: "ci"},
	})

	id, ok := labelMap.Get("npm")
	assert.True(t, ok)
	assert.Equal(t, "label-1", id)

	id, ok = labelMap.Get("CI")
	assert.True(t, ok)
	assert.Equal(t, "label-2", id)

	assert.False(t, labelMap.Has("security"))

	labelMap.Set("Security", "label-3")
	assert.True(t, labelMap.Has("SECURITY"))
	assert.Equal(t, []string{"ci", "npm", "security"}, labelMap.Names())
}

func TestExtractUniqueLabels(t *testing.T) {
	unique := ExtractUniqueLabels(map[string][]string{
		"ENG-1": {"npm", "CI"},
		"ENG-2": {"ci", "security"},
		"ENG-3": {},
	})
	assert.Equal(t, []string{"ci", "npm", "security"}, unique)

	assert.Empty(t, ExtractUniqueLabels(nil))
}

func TestMissingLabels(t *testing.T) {
	labels := []Label{{ID: "label-1", Name: "NPM"}, {ID: "label-2", Name: "ci"}}

	applied, missing := MissingLabels(labels, []string{"npm", "security", "CI", "auth"})
	assert.Equal(t, []string{"npm", "CI"}, applied)
	assert.Equal(t, []string{"security", "auth"}, missing)

	applied, missing = MissingLabels(nil, nil)
	assert.NotNil(t, applied)
	assert.NotNil(t, missing)
	assert.Empty(t, applied)
	assert.Empty(t, missing)
}

func TestProjectNameContains(t *testing.T) {
	project := &Project{Name: "Phase 5: Billing"}
	assert.True(t, project.NameContains("phase 5"))
	assert.True(t, project.NameContains("BILLING"))
	assert.True(t, project.NameContains(""))
	assert.False(t, project.NameContains("Phase 6"))
}

func TestProjectVerification_Fail(t *testing.T) {
	v := NewProjectVerification("Phase 5", 3)
	assert.True(t, v.Overall.Passed)
	assert.Empty(t, v.Overall.Issues)
	assert.Equal(t, 3, v.Issues.Expected)

	v.Fail("Project not linked to initiative")
	v.Fail("Project has no description")

	assert.False(t, v.Overall.Passed)
	assert.Equal(t, []string{"Project not linked to initiative", "Project has no description"}, v.Overall.Issues)
}

func TestGraphQLError_Error(t *testing.T) {
	err := GraphQLError{Message: "Entity not found"}
	assert.Equal(t, "Entity not found", err.Error())

	err.Extensions.UserPresentableMessage = "The issue could not be found"
	assert.Equal(t, "Entity not found: The issue could not be found", err.Error())

	err.Extensions.UserPresentableMessage = "Entity not found"
	assert.Equal(t, "Entity not found", err.Error())
}
