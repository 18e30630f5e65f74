package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/appointment-board/internal/adapters/out/exporter"
	"github.com/suchimauz/appointment-board/internal/adapters/out/notifier"
	"github.com/suchimauz/appointment-board/internal/config"
	"github.com/suchimauz/appointment-board/internal/core/domain"
	"github.com/suchimauz/appointment-board/internal/core/json_types"
	"github.com/suchimauz/appointment-board/internal/core/ports/out"
	"github.com/suchimauz/appointment-board/internal/core/services/board_service"
)

type fakeStore struct {
	mu           sync.Mutex
	appointments []domain.Appointment
	created      []domain.Appointment
	deleted      []int64
}

func (s *fakeStore) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	return []domain.Patient{{Key: "P1", LastName: "Alaoui", FirstName: "Sara"}}, nil
}

func (s *fakeStore) ListPractitioners(ctx context.Context) ([]domain.Practitioner, error) {
	return []domain.Practitioner{{Key: "D1", LastName: "Tazi", FirstName: "Omar"}}, nil
}

func (s *fakeStore) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.Appointment(nil), s.appointments...), nil
}

func (s *fakeStore) CreateAppointment(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.created = append(s.created, appointment)
	appointment.ID = int64(100 + len(s.created))
	s.appointments = append(s.appointments, appointment)
	return &appointment, nil
}

func (s *fakeStore) UpdateAppointment(ctx context.Context, id int64, appointment domain.Appointment) (*domain.Appointment, error) {
	return &appointment, nil
}

func (s *fakeStore) DeleteAppointment(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleted = append(s.deleted, id)
	kept := s.appointments[:0]
	for _, a := range s.appointments {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.appointments = kept
	return nil
}

func seedAppointment(id int64, status domain.AppointmentStatus, day int) domain.Appointment {
	return domain.Appointment{
		ID:              id,
		PatientKey:      "P1",
		PractitionerKey: "D1",
		ScheduledAt:     json_types.NewDateTime(time.Date(2024, 1, day, 9, 0, 0, 0, time.UTC)),
		Status:          status,
	}
}

func setupRouter(t *testing.T) (*gin.Engine, *fakeStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.TimeZone = time.UTC

	store := &fakeStore{appointments: []domain.Appointment{
		seedAppointment(1, domain.AppointmentStatusPending, 10),
		seedAppointment(2, domain.AppointmentStatusConfirmed, 5),
	}}

	cfg := &config.Config{}
	cfg.Auth.BasicClients = []config.ConfigBasicClient{{Username: "board", Password: "secret"}}

	banner := notifier.NewBannerNotifier(out.NopLogger{})
	csvExporter := exporter.NewCSVExporter(out.NopLogger{})
	service := board_service.NewBoardService(store, nil, csvExporter, banner, out.NopLogger{}, 6)
	if err := service.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	router := gin.New()
	NewBoardController(service, banner, csvExporter, cfg).RegisterRoutes(router)
	return router, store
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth("board", "secret")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) domain.BoardView {
	t.Helper()

	var view struct {
		Rows []struct {
			ID int64 `json:"idRdv"`
		} `json:"rows"`
		Total      int                 `json:"total"`
		TotalPages int                 `json:"totalPages"`
		Page       int                 `json:"page"`
		Counts     domain.StatusCounts `json:"counts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v\n%s", err, rec.Body.String())
	}

	result := domain.BoardView{Total: view.Total, TotalPages: view.TotalPages, Page: view.Page, Counts: view.Counts}
	for _, row := range view.Rows {
		result.Rows = append(result.Rows, domain.BoardRow{Appointment: domain.Appointment{ID: row.ID}})
	}
	return result
}

func rowIDs(view domain.BoardView) []int64 {
	result := []int64{}
	for _, row := range view.Rows {
		result = append(result, row.ID)
	}
	return result
}

func TestBasicAuth(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/board", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no credentials: status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/board", nil)
	req.SetBasicAuth("board", "wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d", rec.Code)
	}
}

func TestGetBoard(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/board", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	view := decodeView(t, rec)
	if got := rowIDs(view); len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Errorf("rows = %v, want [2 1]", got)
	}
	if view.Counts != (domain.StatusCounts{All: 2, Pending: 1, Confirmed: 1}) {
		t.Errorf("counts = %+v", view.Counts)
	}

	rec = doRequest(router, http.MethodGet, "/api/v1/board?filter=en_attente", "")
	view = decodeView(t, rec)
	if got := rowIDs(view); len(got) != 1 || got[0] != 1 {
		t.Errorf("pending rows = %v, want [1]", got)
	}

	rec = doRequest(router, http.MethodGet, "/api/v1/board?filter=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown filter: status = %d", rec.Code)
	}
}

func TestGetBoard_PageClamped(t *testing.T) {
	router, _ := setupRouter(t)

	tests := []struct {
		name string
		path string
		page int
	}{
		{"zero", "/api/v1/board?filter=all&page=0", 1},
		{"negative", "/api/v1/board?page=-3", 1},
		{"past the end", "/api/v1/board?page=9", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodGet, tt.path, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			view := decodeView(t, rec)
			if view.Page != tt.page {
				t.Errorf("page = %d, want %d", view.Page, tt.page)
			}
			if got := rowIDs(view); len(got) != 2 {
				t.Errorf("rows = %v, want both appointments", got)
			}
		})
	}
}

func TestToggleSortRoute(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/board/sort/dateHeure", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"direction":"desc"`) {
		t.Errorf("expected descending sort, got %s", rec.Body.String())
	}

	rec = doRequest(router, http.MethodPost, "/api/v1/board/sort/unknown", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field: status = %d", rec.Code)
	}
}

func TestSubmitFlow(t *testing.T) {
	router, store := setupRouter(t)

	if rec := doRequest(router, http.MethodPost, "/api/v1/form/create", ""); rec.Code != http.StatusOK {
		t.Fatalf("open create: status = %d", rec.Code)
	}

	rec := doRequest(router, http.MethodPost, "/api/v1/form/submit",
		`{"cinPatient": "", "cinPraticien": "D1", "dateHeure": "2024-01-20T10:00", "statut": "en_attente"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid draft: status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.created) != 0 {
		t.Error("invalid draft must not reach the store")
	}

	rec = doRequest(router, http.MethodPost, "/api/v1/form/submit",
		`{"cinPatient": "P1", "cinPraticien": "D1", "dateHeure": "2024-01-20T10:00", "statut": "confirme", "idRdvParent": "1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one create, got %d", len(store.created))
	}
	if view := decodeView(t, rec); view.Total != 3 {
		t.Errorf("expected refetched list of 3, got %d", view.Total)
	}

	rec = doRequest(router, http.MethodGet, "/api/v1/notification", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Rendez-vous ajouté !") {
		t.Errorf("notification: %d %s", rec.Code, rec.Body.String())
	}
}

func TestEditUnknownAppointment(t *testing.T) {
	router, _ := setupRouter(t)

	if rec := doRequest(router, http.MethodPost, "/api/v1/form/edit/99", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	if rec := doRequest(router, http.MethodPost, "/api/v1/form/edit/abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestUpdateDraftClosedForm(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(router, http.MethodPut, "/api/v1/form", `{"cinPatient": "P1", "statut": "en_attente"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestDeleteRoute(t *testing.T) {
	router, store := setupRouter(t)

	rec := doRequest(router, http.MethodDelete, "/api/v1/appointments/1", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("unconfirmed delete: status = %d", rec.Code)
	}
	if len(store.deleted) != 0 {
		t.Error("unconfirmed delete must not reach the store")
	}

	rec = doRequest(router, http.MethodDelete, "/api/v1/appointments/1?confirm=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("confirmed delete: status = %d: %s", rec.Code, rec.Body.String())
	}
	if view := decodeView(t, rec); view.Total != 1 {
		t.Errorf("expected 1 appointment left, got %d", view.Total)
	}
}

func TestExportRoute(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/board/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "rendezvous.csv") {
		t.Errorf("content disposition = %q", rec.Header().Get("Content-Disposition"))
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", rec.Body.String())
	}
	if !strings.HasPrefix(lines[1], "2,Alaoui Sara,Tazi Omar,05/01/2024 09:00:00,Confirmé,-") {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestNotificationEmpty(t *testing.T) {
	router, _ := setupRouter(t)

	if rec := doRequest(router, http.MethodGet, "/api/v1/notification", ""); rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestReferenceLists(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/reference/patients", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"cinPatient":"P1"`) {
		t.Errorf("patients: %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(router, http.MethodGet, "/api/v1/reference/practitioners", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"cinPraticien":"D1"`) {
		t.Errorf("practitioners: %d %s", rec.Code, rec.Body.String())
	}
}
