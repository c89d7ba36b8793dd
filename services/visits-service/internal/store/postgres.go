package store

import (
	"context"
	"time"

	"github.com/pantrio/zaru-visits/libs/db"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/model"
)

// PostgresStore is the transactional backend behind the same narrow
// Store contract. Unlike FileStore, concurrent writers are safe here.
type PostgresStore struct {
	pool *db.Pool
}

func NewPostgresStore(pool *db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the appointments table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS visit_appointments (
			id                TEXT PRIMARY KEY,
			user_id           TEXT NOT NULL,
			name              TEXT NOT NULL,
			phone             TEXT NOT NULL,
			email             TEXT NOT NULL,
			location          TEXT NOT NULL,
			visit_date        TEXT NOT NULL,
			visit_time        TEXT NOT NULL,
			status            TEXT NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL,
			external_event_id TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS visit_appointments_date_idx
		ON visit_appointments (visit_date)
	`)
	return err
}

func (s *PostgresStore) All(ctx context.Context) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, name, phone, email, location, visit_date, visit_time,
			status, created_at, external_event_id
		FROM visit_appointments
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (s *PostgresStore) ForDate(ctx context.Context, date string) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, name, phone, email, location, visit_date, visit_time,
			status, created_at, external_event_id
		FROM visit_appointments
		WHERE visit_date = $1
		ORDER BY created_at
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (s *PostgresStore) Append(ctx context.Context, appt model.Appointment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO visit_appointments
			(id, user_id, name, phone, email, location, visit_date, visit_time,
			status, created_at, external_event_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, appt.ID, appt.UserID, appt.Name, appt.Phone, appt.Email, appt.Location,
		appt.Date, appt.Time, appt.Status, appt.CreatedAt, appt.ExternalEventID)
	return err
}

func (s *PostgresStore) SetExternalEventID(ctx context.Context, id, eventID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE visit_appointments SET external_event_id = $2 WHERE id = $1
	`, id, eventID)
	return err
}

type pgRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanAppointments(rows pgRows) ([]model.Appointment, error) {
	var out []model.Appointment
	for rows.Next() {
		var appt model.Appointment
		var createdAt time.Time
		if err := rows.Scan(
			&appt.ID, &appt.UserID, &appt.Name, &appt.Phone, &appt.Email,
			&appt.Location, &appt.Date, &appt.Time, &appt.Status, &createdAt,
			&appt.ExternalEventID,
		); err != nil {
			return nil, err
		}
		appt.CreatedAt = createdAt
		out = append(out, appt)
	}
	return out, rows.Err()
}
