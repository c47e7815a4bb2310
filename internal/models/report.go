package models

import (
	"regexp"
	"time"
)

// Incident types accepted from reporting devices.
const (
	ReportFire     = "fire"
	ReportTheft    = "theft"
	ReportNoise    = "noise"
	ReportAccident = "accident"
)

// ValidReportType reports whether t is a recognised incident type.
func ValidReportType(t string) bool {
	switch t {
	case ReportFire, ReportTheft, ReportNoise, ReportAccident:
		return true
	}
	return false
}

// Report is an active incident submitted by a citizen or device.
// Location keeps the device wire format ("Latitude: <f>, Longitude: <f>")
// so existing reporting hardware keeps working unchanged.
type Report struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Type      string    `json:"type"`
	Location  string    `json:"location"`
	DeviceID  string    `json:"deviceId,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}

// HistoryEntry is a triaged report. Success is "Yes" or "No" depending on
// whether responders confirmed the incident.
type HistoryEntry struct {
	ID         int64     `json:"id"`
	ReportID   string    `json:"reportId"`
	Name       string    `json:"name"`
	Contact    string    `json:"contact"`
	Type       string    `json:"type"`
	Location   string    `json:"location"`
	DeviceID   string    `json:"deviceId,omitempty"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	ReportedAt time.Time `json:"timestamp"`
	Success    string    `json:"success"`
	ResolvedBy string    `json:"resolvedBy"`
	ResolvedAt time.Time `json:"resolvedAt"`
}

var locationPattern = regexp.MustCompile(`^Latitude:\s*-?[0-9]+(\.[0-9]+)?,\s*Longitude:\s*-?[0-9]+(\.[0-9]+)?$`)

// ValidLocation reports whether loc matches the device location format.
func ValidLocation(loc string) bool {
	return locationPattern.MatchString(loc)
}
