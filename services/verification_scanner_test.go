package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linear-reconciler/models"
)

// stubVerificationService returns a fixed summary from bulk runs
type stubVerificationService struct {
	summary *models.VerificationSummary
	err     error
	calls   int32
	filter  atomic.Value
}

func (s *stubVerificationService) VerifyProjectCreation(ctx context.Context, projectName string, expectedIssues int, expectedLabels map[string][]string, initiativeID string) *models.ProjectVerification {
	return models.NewProjectVerification(projectName, expectedIssues)
}

func (s *stubVerificationService) VerifyProjectsForInitiative(ctx context.Context, nameFilter, initiativeID string) (*models.VerificationSummary, error) {
	atomic.AddInt32(&s.calls, 1)
	s.filter.Store(nameFilter)
	return s.summary, s.err
}

func TestVerificationScannerService_StartStop(t *testing.T) {
	stub := &stubVerificationService{
		summary: &models.VerificationSummary{Total: 2, Passed: 1, Failed: 1, Issues: []string{"Phase 2: Project has no description"}},
	}
	config := models.NewDefaultConfig()
	config.Scanner.IntervalSeconds = 60
	config.Linear.ProjectFilter = "Phase"

	scanner := NewVerificationScannerService(stub, config)

	summary, _ := scanner.LastSummary()
	assert.Nil(t, summary)

	scanner.Start()
	defer scanner.Stop()

	// The first scan runs immediately
	require.Eventually(t, func() bool {
		summary, _ := scanner.LastSummary()
		return summary != nil
	}, time.Second, 10*time.Millisecond)

	summary, lastScan := scanner.LastSummary()
	assert.Equal(t, 2, summary.Total)
	assert.False(t, lastScan.IsZero())
	assert.Equal(t, "Phase", stub.filter.Load())

	// Starting twice does not launch a second loop
	scanner.Start()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.calls))
}

func TestVerificationScannerService_Disabled(t *testing.T) {
	stub := &stubVerificationService{summary: &models.VerificationSummary{}}
	config := models.NewDefaultConfig()

	scanner := NewVerificationScannerService(stub, config)
	scanner.Start()
	time.Sleep(50 * time.Millisecond)
	scanner.Stop()

	assert.Zero(t, atomic.LoadInt32(&stub.calls))
	summary, _ := scanner.LastSummary()
	assert.Nil(t, summary)
}

func TestVerificationScannerService_FailedScanKeepsPreviousSummary(t *testing.T) {
	stub := &stubVerificationService{err: errors.New("unauthorized")}
	config := models.NewDefaultConfig()
	config.Scanner.IntervalSeconds = 60

	scanner := NewVerificationScannerService(stub, config).(*VerificationScannerServiceImpl)
	scanner.scanProjects()

	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.calls))
	summary, _ := scanner.LastSummary()
	assert.Nil(t, summary)
}
