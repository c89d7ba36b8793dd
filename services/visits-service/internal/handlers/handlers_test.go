package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pantrio/zaru-visits/services/visits-service/internal/availability"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/booking"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/catalog"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeResolver struct {
	day availability.Day
	rng availability.Range
}

func (f *fakeResolver) Slots(context.Context, string) availability.Day {
	return f.day
}

func (f *fakeResolver) Window(context.Context, int) availability.Range {
	return f.rng
}

type fakeTransactor struct {
	appt model.Appointment
	err  error
}

func (f *fakeTransactor) Create(context.Context, booking.Request) (model.Appointment, error) {
	return f.appt, f.err
}

func TestAvailability_MissingDate(t *testing.T) {
	h := NewAvailabilityHandler(&fakeResolver{}, testLogger())

	rec := httptest.NewRecorder()
	h.Slots(rec, httptest.NewRequest(http.MethodGet, "/availability", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAvailability_InvalidDate(t *testing.T) {
	h := NewAvailabilityHandler(&fakeResolver{
		day: availability.Day{Date: "bogus", Error: "invalid date format, use YYYY-MM-DD"},
	}, testLogger())

	rec := httptest.NewRecorder()
	h.Slots(rec, httptest.NewRequest(http.MethodGet, "/availability?date=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var day availability.Day
	if err := json.Unmarshal(rec.Body.Bytes(), &day); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if day.Error == "" {
		t.Fatal("expected error field in response")
	}
}

func TestAvailability_OK(t *testing.T) {
	h := NewAvailabilityHandler(&fakeResolver{
		day: availability.Day{
			Date:       "2026-03-11",
			Weekday:    "miércoles",
			Slots:      []availability.Slot{{Time: "10:00", RemainingCapacity: 1}},
			TotalSlots: 1,
		},
	}, testLogger())

	rec := httptest.NewRecorder()
	h.Slots(rec, httptest.NewRequest(http.MethodGet, "/availability?date=2026-03-11", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var day availability.Day
	if err := json.Unmarshal(rec.Body.Bytes(), &day); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if day.TotalSlots != 1 || day.Slots[0].Time != "10:00" {
		t.Fatalf("unexpected day payload: %+v", day)
	}
}

func TestAvailability_MethodNotAllowed(t *testing.T) {
	h := NewAvailabilityHandler(&fakeResolver{}, testLogger())

	rec := httptest.NewRecorder()
	h.Slots(rec, httptest.NewRequest(http.MethodPost, "/availability?date=2026-03-11", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestAvailabilityRange_OK(t *testing.T) {
	h := NewAvailabilityHandler(&fakeResolver{
		rng: availability.Range{
			From: "2026-03-10",
			To:   "2026-03-23",
			Days: map[string]availability.RangeDay{
				"2026-03-10": {Date: "2026-03-10", Weekday: "martes", Occupied: []string{}, Free: []string{"13:00"}},
			},
		},
	}, testLogger())

	rec := httptest.NewRecorder()
	h.Range(rec, httptest.NewRequest(http.MethodGet, "/availability-range", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var rng availability.Range
	if err := json.Unmarshal(rec.Body.Bytes(), &rng); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if rng.From != "2026-03-10" || len(rng.Days) != 1 {
		t.Fatalf("unexpected range payload: %+v", rng)
	}
}

func TestAppointments_InvalidBody(t *testing.T) {
	h := NewAppointmentsHandler(&fakeTransactor{}, testLogger())

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader("{broken")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp createAppointmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Success {
		t.Fatal("expected success=false")
	}
}

func TestAppointments_ValidationError(t *testing.T) {
	h := NewAppointmentsHandler(&fakeTransactor{
		err: &booking.ValidationError{Field: "phone", Message: "invalid phone, at least 10 digits required"},
	}, testLogger())

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp createAppointmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Success || !strings.Contains(resp.Error, "phone") {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAppointments_NoAvailability(t *testing.T) {
	h := NewAppointmentsHandler(&fakeTransactor{err: booking.ErrNoAvailability}, testLogger())

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAppointments_InternalError(t *testing.T) {
	h := NewAppointmentsHandler(&fakeTransactor{err: errors.New("disk full")}, testLogger())

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(`{}`)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestAppointments_Success(t *testing.T) {
	h := NewAppointmentsHandler(&fakeTransactor{
		appt: model.Appointment{ID: "a1", Date: "2026-03-11", Time: "10:00", Status: model.StatusConfirmed},
	}, testLogger())

	rec := httptest.NewRecorder()
	body := `{"userId":"u1","name":"María","phone":"4421612000","email":"m@x.com","date":"2026-03-11","time":"10:00"}`
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp createAppointmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !resp.Success || resp.Appointment == nil || resp.Appointment.ID != "a1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestChat_AgentNotConfigured(t *testing.T) {
	h := NewChatHandler(nil, testLogger())

	rec := httptest.NewRecorder()
	h.Chat(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hola"}`)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestCatalog_List(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prototypes.json")
	doc := `{"prototypes":[{"id":"agata","name":"Ágata","type":"departamento","areaM2":84.5,"bedrooms":2,"fullBaths":2,"parking":"1 lugar"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	cat, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	h := NewCatalogHandler(cat, testLogger())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/prototypes", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp catalogResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Total != 1 || resp.Prototypes[0].Name != "Ágata" {
		t.Fatalf("unexpected catalog payload: %+v", resp)
	}
}

func TestCatalog_EmptyCatalog(t *testing.T) {
	cat, _ := catalog.Load(filepath.Join(t.TempDir(), "missing.json"))
	h := NewCatalogHandler(cat, testLogger())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/prototypes", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp catalogResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Total != 0 || resp.Prototypes == nil {
		t.Fatalf("expected empty but present prototype list, got %+v", resp)
	}
}
