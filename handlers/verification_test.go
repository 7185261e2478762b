package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linear-reconciler/mocks"
	"linear-reconciler/models"
	"linear-reconciler/services"
)

// fixedScanner reports a preset summary
type fixedScanner struct {
	summary  *models.VerificationSummary
	lastScan time.Time
}

func (s *fixedScanner) Start() {}
func (s *fixedScanner) Stop()  {}
func (s *fixedScanner) LastSummary() (*models.VerificationSummary, time.Time) {
	return s.summary, s.lastScan
}

func newTestHandler(t *testing.T, scanner services.VerificationScannerService) (*http.ServeMux, *mocks.Workspace, models.Initiative) {
	t.Helper()
	workspace := mocks.NewWorkspace()
	initiative := workspace.AddInitiative("Launch")

	config := models.NewDefaultConfig()
	config.Linear.DefaultInitiativeID = initiative.ID

	verificationService := services.NewVerificationService(workspace, services.NewInitiativeService(workspace), config)
	mux := http.NewServeMux()
	NewVerificationHandler(verificationService, scanner, config).Register(mux)
	return mux, workspace, initiative
}

func TestHandleHealth(t *testing.T) {
	mux, _, _ := newTestHandler(t, &fixedScanner{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHandleVerify(t *testing.T) {
	mux, workspace, initiative := newTestHandler(t, &fixedScanner{})
	project := workspace.AddProject("Phase 5", "Rollout of the billing integration")
	require.NoError(t, workspace.CreateInitiativeLink(context.Background(), initiative.ID, project.ID))
	workspace.AddIssue(project.ID, "ENG-1")
	workspace.AddIssue(project.ID, "ENG-2")

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantPassed bool
	}{
		{name: "passing project", method: http.MethodGet, target: "/verify?project=Phase+5&expected=2", wantStatus: http.StatusOK, wantPassed: true},
		{name: "too few issues", method: http.MethodGet, target: "/verify?project=Phase+5&expected=3", wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown project", method: http.MethodGet, target: "/verify?project=Phase+9", wantStatus: http.StatusUnprocessableEntity},
		{name: "other initiative", method: http.MethodGet, target: "/verify?project=Phase+5&initiative=initiative-404", wantStatus: http.StatusUnprocessableEntity},
		{name: "missing project", method: http.MethodGet, target: "/verify", wantStatus: http.StatusBadRequest},
		{name: "invalid expected", method: http.MethodGet, target: "/verify?project=Phase+5&expected=many", wantStatus: http.StatusBadRequest},
		{name: "negative expected", method: http.MethodGet, target: "/verify?project=Phase+5&expected=-1", wantStatus: http.StatusBadRequest},
		{name: "wrong method", method: http.MethodPost, target: "/verify?project=Phase+5", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if rec.Code != http.StatusOK && rec.Code != http.StatusUnprocessableEntity {
				return
			}

			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var verification models.ProjectVerification
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verification))
			assert.Equal(t, tt.wantPassed, verification.Overall.Passed)
		})
	}
}

func TestHandleStatus(t *testing.T) {
	t.Run("before the first scan", func(t *testing.T) {
		mux, _, _ := newTestHandler(t, &fixedScanner{})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("after a scan", func(t *testing.T) {
		scanner := &fixedScanner{
			summary:  &models.VerificationSummary{Total: 3, Passed: 2, Failed: 1, Issues: []string{"Phase 2: Project has no description"}},
			lastScan: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}
		mux, _, _ := newTestHandler(t, scanner)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body statusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotNil(t, body.Summary)
		assert.Equal(t, 3, body.Summary.Total)
		assert.Equal(t, []string{"Phase 2: Project has no description"}, body.Summary.Issues)
		require.NotNil(t, body.LastScan)
		assert.True(t, scanner.lastScan.Equal(*body.LastScan))
	})
}
