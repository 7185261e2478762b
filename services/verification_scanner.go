package services

import (
	"context"
	"log"
	"sync"
	"time"

	"linear-reconciler/models"
)

// VerificationScannerService defines the interface for the periodic verification scanner
type VerificationScannerService interface {
	// Start starts the periodic scanning
	Start()
	// Stop stops the periodic scanning
	Stop()
	// LastSummary returns the summary of the most recent scan, or nil before the first one
	LastSummary() (*models.VerificationSummary, time.Time)
}

// VerificationScannerServiceImpl implements the VerificationScannerService interface
type VerificationScannerServiceImpl struct {
	verificationService VerificationService
	config              *models.Config
	interval            time.Duration
	stopChan            chan struct{}
	isRunning           bool

	mu          sync.RWMutex
	lastSummary *models.VerificationSummary
	lastScan    time.Time
}

// NewVerificationScannerService creates a new VerificationScannerService
func NewVerificationScannerService(verificationService VerificationService, config *models.Config) VerificationScannerService {
	return &VerificationScannerServiceImpl{
		verificationService: verificationService,
		config:              config,
		interval:            time.Duration(config.Scanner.IntervalSeconds) * time.Second,
		stopChan:            make(chan struct{}),
		isRunning:           false,
	}
}

// Start starts the periodic scanning
func (s *VerificationScannerServiceImpl) Start() {
	if s.isRunning {
		log.Println("Verification scanner is already running")
		return
	}
	if s.interval <= 0 {
		log.Println("Verification scanner interval not set, scanner disabled")
		return
	}

	s.isRunning = true
	log.Println("Starting verification scanner...")

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		// Run initial scan immediately
		s.scanProjects()

		for {
			select {
			case <-ticker.C:
				s.scanProjects()
			case <-s.stopChan:
				log.Println("Stopping verification scanner...")
				return
			}
		}
	}()
}

// Stop stops the periodic scanning
func (s *VerificationScannerServiceImpl) Stop() {
	if !s.isRunning {
		return
	}

	s.isRunning = false
	close(s.stopChan)
}

// LastSummary returns the summary of the most recent scan
func (s *VerificationScannerServiceImpl) LastSummary() (*models.VerificationSummary, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSummary, s.lastScan
}

// scanProjects verifies every project matching the configured filter
func (s *VerificationScannerServiceImpl) scanProjects() {
	filter := s.config.Linear.ProjectFilter
	initiativeID := s.config.Linear.DefaultInitiativeID
	log.Printf("Verifying projects matching %q...", filter)

	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	summary, err := s.verificationService.VerifyProjectsForInitiative(ctx, filter, initiativeID)
	if err != nil {
		log.Printf("Failed to verify projects: %v", err)
		return
	}

	log.Printf("Verified %d projects: %d passed, %d failed", summary.Total, summary.Passed, summary.Failed)
	for _, issue := range summary.Issues {
		log.Printf("  %s", issue)
	}

	s.mu.Lock()
	s.lastSummary = summary
	s.lastScan = time.Now()
	s.mu.Unlock()
}
