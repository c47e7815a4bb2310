package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citygrid/sambag-alert-be/internal/auth"
	"github.com/citygrid/sambag-alert-be/internal/models"
	"github.com/citygrid/sambag-alert-be/internal/storage"
)

type fakeReportStore struct {
	reports map[string]models.Report
	history []models.HistoryEntry
	nextID  int64
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{reports: make(map[string]models.Report)}
}

func (f *fakeReportStore) CreateReport(_ context.Context, report models.Report) (models.Report, error) {
	report.CreatedAt = time.Now()
	f.reports[report.ID] = report
	return report, nil
}

func (f *fakeReportStore) GetReport(_ context.Context, id string) (models.Report, error) {
	report, ok := f.reports[id]
	if !ok {
		return models.Report{}, storage.ErrNotFound
	}
	return report, nil
}

func (f *fakeReportStore) ListReports(_ context.Context) ([]models.Report, error) {
	out := []models.Report{}
	for _, r := range f.reports {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReportStore) DeleteReport(_ context.Context, id string) error {
	if _, ok := f.reports[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.reports, id)
	return nil
}

func (f *fakeReportStore) AppendHistory(_ context.Context, entry models.HistoryEntry) error {
	f.nextID++
	entry.ID = f.nextID
	entry.ResolvedAt = time.Now()
	f.history = append(f.history, entry)
	return nil
}

func (f *fakeReportStore) ListHistory(_ context.Context) ([]models.HistoryEntry, error) {
	return f.history, nil
}

type reportsTestEnv struct {
	mux    *http.ServeMux
	store  *fakeReportStore
	tokens *auth.TokenManager
}

func newReportsTestEnv(t *testing.T) *reportsTestEnv {
	t.Helper()
	env := &reportsTestEnv{
		mux:    http.NewServeMux(),
		store:  newFakeReportStore(),
		tokens: auth.NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 15*24*time.Hour),
	}
	NewReportsHandler(env.store, env.tokens).Register(env.mux)
	return env
}

func (env *reportsTestEnv) sessionCookie(t *testing.T, uid string) *http.Cookie {
	t.Helper()
	pair, err := env.tokens.IssuePair(uid)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.AccessCookieName, Value: pair.AccessToken}
}

func reportPayload() map[string]string {
	return map[string]string{
		"name":     "Juan",
		"contact":  "0917-555-0101",
		"type":     "fire",
		"location": "Latitude: 10.3157, Longitude: 123.8854",
		"deviceId": "dev-42",
		"imageUrl": "https://img.example.com/1.jpg",
	}
}

func TestCreateReport(t *testing.T) {
	env := newReportsTestEnv(t)

	rec := postJSON(t, env.mux, "/api/reports", reportPayload())

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	report := body["report"].(map[string]any)
	assert.NotEmpty(t, report["id"])
	assert.Equal(t, "fire", report["type"])
	assert.Len(t, env.store.reports, 1)
}

func TestCreateReportValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"missing name", func(p map[string]string) { p["name"] = "" }},
		{"missing contact", func(p map[string]string) { p["contact"] = "" }},
		{"unknown type", func(p map[string]string) { p["type"] = "flood" }},
		{"bad location", func(p map[string]string) { p["location"] = "somewhere downtown" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newReportsTestEnv(t)
			payload := reportPayload()
			tt.mutate(payload)

			rec := postJSON(t, env.mux, "/api/reports", payload)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, env.store.reports)
		})
	}
}

func TestListReportsRequiresSession(t *testing.T) {
	env := newReportsTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	req.AddCookie(env.sessionCookie(t, "staff1"))
	rec = httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
}

func TestResolveReport(t *testing.T) {
	env := newReportsTestEnv(t)

	rec := postJSON(t, env.mux, "/api/reports", reportPayload())
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)["report"].(map[string]any)
	id := created["id"].(string)

	resolve := func(t *testing.T) *httptest.ResponseRecorder {
		t.Helper()
		body, err := json.Marshal(map[string]bool{"success": true})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/reports/"+id+"/resolve", bytes.NewReader(body))
		req.AddCookie(env.sessionCookie(t, "staff1"))
		rec := httptest.NewRecorder()
		env.mux.ServeHTTP(rec, req)
		return rec
	}

	rec2 := resolve(t)
	assert.Equal(t, http.StatusOK, rec2.Code)
	assert.Empty(t, env.store.reports)
	require.Len(t, env.store.history, 1)
	entry := env.store.history[0]
	assert.Equal(t, id, entry.ReportID)
	assert.Equal(t, "Yes", entry.Success)
	assert.Equal(t, "staff1", entry.ResolvedBy)

	// Second resolve of the same report: already moved to history.
	rec3 := resolve(t)
	assert.Equal(t, http.StatusNotFound, rec3.Code)
	assert.Len(t, env.store.history, 1)
}

func TestResolveReportMissingSuccessField(t *testing.T) {
	env := newReportsTestEnv(t)
	rec := postJSON(t, env.mux, "/api/reports", reportPayload())
	id := decodeBody(t, rec)["report"].(map[string]any)["id"].(string)

	req := httptest.NewRequest(http.MethodPost, "/api/reports/"+id+"/resolve", bytes.NewReader([]byte(`{}`)))
	req.AddCookie(env.sessionCookie(t, "staff1"))
	rec2 := httptest.NewRecorder()
	env.mux.ServeHTTP(rec2, req)

	assert.Equal(t, http.StatusBadRequest, rec2.Code)
	assert.Len(t, env.store.reports, 1)
}

func TestHistoryRequiresSession(t *testing.T) {
	env := newReportsTestEnv(t)
	env.store.history = append(env.store.history, models.HistoryEntry{
		ID: 1, ReportID: "r1", Name: "Juan", Contact: "c", Type: "theft",
		Location: "Latitude: 1, Longitude: 2", ReportedAt: time.Now(),
		Success: "No", ResolvedBy: "staff1", ResolvedAt: time.Now(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.AddCookie(env.sessionCookie(t, "staff1"))
	rec = httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	history := body["history"].([]any)
	require.Len(t, history, 1)
	assert.Equal(t, "No", history[0].(map[string]any)["success"])
}
