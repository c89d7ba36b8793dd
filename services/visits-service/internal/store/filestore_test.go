package store

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pantrio/zaru-visits/services/visits-service/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAppointment(id, date, clockTime string) model.Appointment {
	return model.Appointment{
		ID:        id,
		UserID:    "u1",
		Name:      "María Pérez",
		Phone:     "4421612000",
		Email:     "maria@example.com",
		Date:      date,
		Time:      clockTime,
		Status:    model.StatusConfirmed,
		CreatedAt: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
	}
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "appointments.json"), testLogger())

	appts, err := s.All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(appts) != 0 {
		t.Fatalf("expected empty store, got %d appointments", len(appts))
	}
}

func TestFileStore_AppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.json")
	s := NewFileStore(path, testLogger())
	ctx := context.Background()

	if err := s.Append(ctx, testAppointment("a1", "2026-03-11", "10:00")); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := s.Append(ctx, testAppointment("a2", "2026-03-12", "11:00")); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	// A fresh store over the same file must see both writes.
	reopened := NewFileStore(path, testLogger())
	appts, err := reopened.All(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(appts) != 2 {
		t.Fatalf("expected 2 appointments after reload, got %d", len(appts))
	}

	forDate, err := reopened.ForDate(ctx, "2026-03-11")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forDate) != 1 || forDate[0].ID != "a1" {
		t.Fatalf("expected only a1 on 2026-03-11, got %v", forDate)
	}
}

func TestFileStore_SetExternalEventID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.json")
	s := NewFileStore(path, testLogger())
	ctx := context.Background()

	if err := s.Append(ctx, testAppointment("a1", "2026-03-11", "10:00")); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := s.SetExternalEventID(ctx, "a1", "ev-9"); err != nil {
		t.Fatalf("set event id failed: %v", err)
	}

	appts, err := s.All(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appts[0].ExternalEventID != "ev-9" {
		t.Fatalf("expected event id ev-9, got %q", appts[0].ExternalEventID)
	}

	if err := s.SetExternalEventID(ctx, "missing", "ev-10"); err == nil {
		t.Fatal("expected error for unknown appointment id")
	}
}

func TestFileStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	s := NewFileStore(path, testLogger())
	ctx := context.Background()

	appts, err := s.All(ctx)
	if err != nil {
		t.Fatalf("corrupt file must not surface an error, got %v", err)
	}
	if len(appts) != 0 {
		t.Fatalf("expected empty collection, got %d", len(appts))
	}

	// Writes recover the file.
	if err := s.Append(ctx, testAppointment("a1", "2026-03-11", "10:00")); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	appts, _ = s.All(ctx)
	if len(appts) != 1 {
		t.Fatalf("expected 1 appointment after recovery, got %d", len(appts))
	}
}

func TestFileStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "appointments.json")
	s := NewFileStore(path, testLogger())

	if err := s.Append(context.Background(), testAppointment("a1", "2026-03-11", "10:00")); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected store file to exist: %v", err)
	}
}
