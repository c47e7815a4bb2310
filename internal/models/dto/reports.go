package dto

import "github.com/citygrid/sambag-alert-be/internal/models"

type CreateReportRequest struct {
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	Type     string `json:"type"`
	Location string `json:"location"`
	DeviceID string `json:"deviceId"`
	ImageURL string `json:"imageUrl"`
}

// ResolveReportRequest closes out an active report. Success is a pointer so
// a missing field can be told apart from an explicit false.
type ResolveReportRequest struct {
	Success *bool `json:"success"`
}

type ReportResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Report  models.Report `json:"report"`
}

type ReportListResponse struct {
	Success bool            `json:"success"`
	Reports []models.Report `json:"reports"`
}

type HistoryListResponse struct {
	Success bool                  `json:"success"`
	History []models.HistoryEntry `json:"history"`
}
