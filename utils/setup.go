package utils

import (
	"context"
	"fmt"
	"log"

	"linear-reconciler/models"
	"linear-reconciler/services"
)

// SetupReport describes the outcome of a setup check
type SetupReport struct {
	Viewer          *models.Viewer
	TeamLabels      int
	InitiativeFound bool
	Warnings        []string
}

// CheckSetup verifies the configuration and that the Linear API is reachable with it
func CheckSetup(ctx context.Context, config *models.Config, linearService services.LinearService) (*SetupReport, error) {
	log.Println("Checking Linear setup...")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	report := &SetupReport{}

	viewer, err := linearService.Viewer(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	report.Viewer = viewer
	log.Printf("Authenticated as %s (%s) in %s", viewer.Name, viewer.Email, viewer.Organization.Name)

	if config.Linear.TeamID == "" {
		report.Warnings = append(report.Warnings, "LINEAR_TEAM_ID not set, label commands need --team")
	} else {
		labels, err := linearService.ListLabels(ctx, config.Linear.TeamID)
		if err != nil {
			return nil, fmt.Errorf("failed to list labels of team %s: %w", config.Linear.TeamID, err)
		}
		report.TeamLabels = len(labels)
		log.Printf("Team %s has %d labels", config.Linear.TeamID, len(labels))
	}

	if config.Linear.DefaultInitiativeID == "" {
		report.Warnings = append(report.Warnings, "LINEAR_DEFAULT_INITIATIVE_ID not set, link and verify commands need --initiative")
	} else {
		initiatives, err := linearService.ListInitiatives(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list initiatives: %w", err)
		}
		for _, initiative := range initiatives {
			if initiative.ID == config.Linear.DefaultInitiativeID {
				report.InitiativeFound = true
				log.Printf("Default initiative: %s", initiative.Name)
				break
			}
		}
		if !report.InitiativeFound {
			report.Warnings = append(report.Warnings, fmt.Sprintf("default initiative %s not found", config.Linear.DefaultInitiativeID))
		}
	}

	return report, nil
}
