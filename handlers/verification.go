package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"linear-reconciler/models"
	"linear-reconciler/services"
)

// VerificationHandler serves verification reports over HTTP
type VerificationHandler struct {
	verificationService services.VerificationService
	scannerService      services.VerificationScannerService
	config              *models.Config
}

// NewVerificationHandler creates a new VerificationHandler
func NewVerificationHandler(
	verificationService services.VerificationService,
	scannerService services.VerificationScannerService,
	config *models.Config,
) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
		scannerService:      scannerService,
		config:              config,
	}
}

// statusResponse is the body of the /status endpoint
type statusResponse struct {
	LastScan *time.Time                  `json:"lastScan,omitempty"`
	Summary  *models.VerificationSummary `json:"summary"`
}

// Register mounts the handler's endpoints on mux
func (h *VerificationHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/verify", h.HandleVerify)
	mux.HandleFunc("/status", h.HandleStatus)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := fmt.Fprintf(w, "OK")
		if err != nil {
			return
		}
	})
}

// HandleVerify verifies one project.
// Query parameters: project (required), expected (issue count, default 0), initiative
// (defaults to the configured initiative).
func (h *VerificationHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	projectName := query.Get("project")
	if projectName == "" {
		http.Error(w, "missing project parameter", http.StatusBadRequest)
		return
	}

	expected := 0
	if raw := query.Get("expected"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, fmt.Sprintf("invalid expected parameter: %q", raw), http.StatusBadRequest)
			return
		}
		expected = n
	}

	initiativeID := query.Get("initiative")
	if initiativeID == "" {
		initiativeID = h.config.Linear.DefaultInitiativeID
	}
	if initiativeID == "" {
		http.Error(w, "missing initiative parameter and no default initiative configured", http.StatusBadRequest)
		return
	}

	verification := h.verificationService.VerifyProjectCreation(r.Context(), projectName, expected, nil, initiativeID)

	status := http.StatusOK
	if !verification.Overall.Passed {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, verification)
}

// HandleStatus returns the summary of the last periodic scan
func (h *VerificationHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	summary, lastScan := h.scannerService.LastSummary()
	if summary == nil {
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{LastScan: &lastScan, Summary: summary})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
