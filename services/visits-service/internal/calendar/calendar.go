package calendar

import (
	"context"

	"github.com/pantrio/zaru-visits/services/visits-service/internal/model"
)

// Event is a calendar entry reduced to what occupancy counting needs.
// Time is the event start in HH:MM, already in the business timezone.
type Event struct {
	ID    string
	Title string
	Time  string
}

// Adapter is the read/write calendar contract. Implementations must be
// safely callable when the backing service is unconfigured.
type Adapter interface {
	EventsForDate(ctx context.Context, date string) ([]Event, error)
	// CreateEvent mirrors an appointment and returns the event id, or an
	// empty id when the mirror was skipped.
	CreateEvent(ctx context.Context, appt model.Appointment) (string, error)
}

type disabled struct{}

// Disabled returns a no-op adapter for deployments without a calendar.
func Disabled() Adapter {
	return disabled{}
}

func (disabled) EventsForDate(context.Context, string) ([]Event, error) {
	return nil, nil
}

func (disabled) CreateEvent(context.Context, model.Appointment) (string, error) {
	return "", nil
}
