package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/citygrid/sambag-alert-be/internal/auth"
	"github.com/citygrid/sambag-alert-be/internal/http/respond"
	"github.com/citygrid/sambag-alert-be/internal/middleware"
	"github.com/citygrid/sambag-alert-be/internal/models"
	"github.com/citygrid/sambag-alert-be/internal/models/dto"
	"github.com/citygrid/sambag-alert-be/internal/storage"
)

// ReportsHandler owns incident submission and staff triage endpoints.
// Submission is open so reporting devices need no account; everything else
// sits behind the session middleware.
type ReportsHandler struct {
	store  storage.ReportStore
	tokens *auth.TokenManager
}

// NewReportsHandler constructs the handler.
func NewReportsHandler(store storage.ReportStore, tokens *auth.TokenManager) *ReportsHandler {
	return &ReportsHandler{store: store, tokens: tokens}
}

// Register attaches report routes to the mux.
func (h *ReportsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/reports", h.handleReports)
	mux.Handle("POST /api/reports/{id}/resolve",
		middleware.RequireSession(h.tokens, http.HandlerFunc(h.handleResolve)))
	mux.Handle("GET /api/history",
		middleware.RequireSession(h.tokens, http.HandlerFunc(h.handleHistory)))
}

func (h *ReportsHandler) handleReports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet:
		middleware.RequireSession(h.tokens, http.HandlerFunc(h.handleList)).ServeHTTP(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ReportsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Contact = strings.TrimSpace(req.Contact)
	req.Location = strings.TrimSpace(req.Location)
	if req.Name == "" || req.Contact == "" || req.Type == "" || req.Location == "" {
		respond.Error(w, http.StatusBadRequest, "Name, contact, type, and location are required")
		return
	}
	if !models.ValidReportType(req.Type) {
		respond.Error(w, http.StatusBadRequest, "Unknown incident type")
		return
	}
	if !models.ValidLocation(req.Location) {
		respond.Error(w, http.StatusBadRequest, "Location must be in 'Latitude: <lat>, Longitude: <lng>' format")
		return
	}

	created, err := h.store.CreateReport(r.Context(), models.Report{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Contact:  req.Contact,
		Type:     req.Type,
		Location: req.Location,
		DeviceID: strings.TrimSpace(req.DeviceID),
		ImageURL: strings.TrimSpace(req.ImageURL),
	})
	if err != nil {
		log.Printf("create report failed: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to submit report")
		return
	}

	respond.JSON(w, http.StatusCreated, dto.ReportResponse{
		Success: true,
		Message: "Report submitted",
		Report:  created,
	})
}

func (h *ReportsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	reports, err := h.store.ListReports(r.Context())
	if err != nil {
		log.Printf("list reports failed: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}
	respond.JSON(w, http.StatusOK, dto.ReportListResponse{Success: true, Reports: reports})
}

// handleResolve copies the report into history with its outcome and removes it
// from the active set. The copy-then-delete is not transactional, mirroring
// the dashboard's original two-step triage.
func (h *ReportsHandler) handleResolve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req dto.ResolveReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Success == nil {
		respond.Error(w, http.StatusBadRequest, "success field is required")
		return
	}

	report, err := h.store.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Report not found")
			return
		}
		log.Printf("resolve: report lookup failed: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to resolve report")
		return
	}

	outcome := "No"
	if *req.Success {
		outcome = "Yes"
	}
	entry := models.HistoryEntry{
		ReportID:   report.ID,
		Name:       report.Name,
		Contact:    report.Contact,
		Type:       report.Type,
		Location:   report.Location,
		DeviceID:   report.DeviceID,
		ImageURL:   report.ImageURL,
		ReportedAt: report.CreatedAt,
		Success:    outcome,
		ResolvedBy: middleware.UserID(r.Context()),
	}
	if err := h.store.AppendHistory(r.Context(), entry); err != nil {
		log.Printf("resolve: append history failed: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to resolve report")
		return
	}
	if err := h.store.DeleteReport(r.Context(), report.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("resolve: delete report failed: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to resolve report")
		return
	}

	respond.OK(w, http.StatusOK, "Report resolved")
}

func (h *ReportsHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListHistory(r.Context())
	if err != nil {
		log.Printf("list history failed: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to list history")
		return
	}
	respond.JSON(w, http.StatusOK, dto.HistoryListResponse{Success: true, History: entries})
}
