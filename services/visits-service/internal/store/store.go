package store

import (
	"context"

	"github.com/pantrio/zaru-visits/services/visits-service/internal/model"
)

// Store persists appointments. Implementations must treat a failed load
// as an empty collection so availability queries keep working, and must
// serialize their own writes.
type Store interface {
	// All returns every stored appointment in insertion order.
	All(ctx context.Context) ([]model.Appointment, error)
	// ForDate returns confirmed and cancelled appointments on a date.
	ForDate(ctx context.Context, date string) ([]model.Appointment, error)
	// Append durably adds one appointment.
	Append(ctx context.Context, appt model.Appointment) error
	// SetExternalEventID records the mirrored calendar event id after a
	// successful mirror write.
	SetExternalEventID(ctx context.Context, id, eventID string) error
}
