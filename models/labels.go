package models

import (
	"sort"
	"strings"
)

// DefaultLabelColor is used for label names missing from LabelColors
const DefaultLabelColor = "#6B7280"

// LabelColors maps lowercase label names to the color used when the label is created
var LabelColors = map[string]string{
	// Publishing
	"npm":        "#CB3837",
	"ci":         "#2088FF",
	"build":      "#0E8A16",
	"automation": "#5319E7",

	// Security & compliance
	"security": "#D73A4A",
	"soc2":     "#0052CC",
	"legal":    "#FEF2C0",

	// Tiers
	"enterprise": "#7057FF",

	// Development
	"backend":  "#1D76DB",
	"frontend": "#10B981",
	"mcp":      "#006B75",
	"cli":      "#E99695",
	"vscode":   "#007ACC",
	"ux":       "#D4C5F9",

	// Billing
	"billing":     "#F9D0C4",
	"stripe":      "#635BFF",
	"marketplace": "#BFD4F2",

	// Website
	"website":   "#3B82F6",
	"auth":      "#EF4444",
	"dashboard": "#06B6D4",

	// General
	"feature":       "#A2EEEF",
	"integration":   "#7057FF",
	"performance":   "#FBCA04",
	"reporting":     "#D93F0B",
	"documentation": "#0075CA",
}

// LabelColor returns the creation color for a label name
func LabelColor(name string) string {
	if color, ok := LabelColors[NormalizeLabelName(name)]; ok {
		return color
	}
	return DefaultLabelColor
}

// NormalizeLabelName returns the key under which a label name is stored in a LabelMap
func NormalizeLabelName(name string) string {
	return strings.ToLower(name)
}

// LabelMap maps normalized label names to label identifiers for a single team.
// Keys are always lowercase.
type LabelMap map[string]string

// NewLabelMap builds a LabelMap from a list of labels
func NewLabelMap(labels []Label) LabelMap {
	m := make(LabelMap, len(labels))
	for _, l := range labels {
		m.Set(l.Name, l.ID)
	}
	return m
}

// Get resolves a label name to its identifier, ignoring case
func (m LabelMap) Get(name string) (string, bool) {
	id, ok := m[NormalizeLabelName(name)]
	return id, ok
}

// Has reports whether name resolves in the map
func (m LabelMap) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// Set records the identifier for name
func (m LabelMap) Set(name, id string) {
	m[NormalizeLabelName(name)] = id
}

// Names returns the normalized names in the map, sorted
func (m LabelMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExtractUniqueLabels returns the sorted set of normalized label names used across issues
func ExtractUniqueLabels(issueLabels map[string][]string) []string {
	seen := make(map[string]bool)
	for _, labels := range issueLabels {
		for _, label := range labels {
			seen[NormalizeLabelName(label)] = true
		}
	}
	unique := make([]string, 0, len(seen))
	for name := range seen {
		unique = append(unique, name)
	}
	sort.Strings(unique)
	return unique
}

// MissingLabels splits expected into the names present on labels and the names missing,
// comparing case-insensitively and preserving the order of expected
func MissingLabels(labels []Label, expected []string) (applied, missing []string) {
	present := make(map[string]bool, len(labels))
	for _, l := range labels {
		present[NormalizeLabelName(l.Name)] = true
	}
	applied = []string{}
	missing = []string{}
	for _, name := range expected {
		if present[NormalizeLabelName(name)] {
			applied = append(applied, name)
		} else {
			missing = append(missing, name)
		}
	}
	return applied, missing
}
