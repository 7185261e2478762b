package cli

import (
	"fmt"
	"io"

	"linear-reconciler/models"
)

func yesNo(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}

// printVerification writes a human readable project report
func printVerification(w io.Writer, v *models.ProjectVerification) {
	fmt.Fprintf(w, "=== Verification: %s ===\n", v.Project.Name)
	if !v.Project.Exists {
		fmt.Fprintln(w, "Project: not found")
	} else {
		fmt.Fprintf(w, "Project: %s (%s)\n", v.Project.ID, v.Project.State)
		fmt.Fprintf(w, "  Linked to initiative: %s\n", yesNo(v.Project.LinkedToInitiative))
		fmt.Fprintf(w, "  Description: %s (%d chars)\n", yesNo(v.Project.HasDescription), v.Project.DescriptionLength)
		fmt.Fprintf(w, "Issues: %d found, %d expected\n", v.Issues.Found, v.Issues.Expected)
		if v.Issues.WithLabels > 0 || len(v.Issues.WithoutLabels) > 0 {
			fmt.Fprintf(w, "  With labels: %d\n", v.Issues.WithLabels)
			for _, entry := range v.Issues.WithoutLabels {
				fmt.Fprintf(w, "  ! %s\n", entry)
			}
		}
		for _, identifier := range v.Issues.Missing {
			fmt.Fprintf(w, "  ? %s not found\n", identifier)
		}
	}

	if v.Overall.Passed {
		fmt.Fprintln(w, "Result: PASSED")
		return
	}
	fmt.Fprintln(w, "Result: FAILED")
	for _, problem := range v.Overall.Issues {
		fmt.Fprintf(w, "  - %s\n", problem)
	}
}

// printVerificationSummary writes a human readable bulk report
func printVerificationSummary(w io.Writer, summary *models.VerificationSummary) {
	fmt.Fprintln(w, "=== Verification Summary ===")
	fmt.Fprintf(w, "Total: %d\n", summary.Total)
	fmt.Fprintf(w, "Passed: %d\n", summary.Passed)
	fmt.Fprintf(w, "Failed: %d\n", summary.Failed)
	for _, issue := range summary.Issues {
		fmt.Fprintf(w, "  - %s\n", issue)
	}
}
