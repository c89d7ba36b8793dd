package sheets

import (
	"context"

	"github.com/pantrio/zaru-visits/services/visits-service/internal/model"
)

// Row is one appointment row read back from the spreadsheet. Time has
// already been normalized to HH:MM; rows whose time could not be
// normalized are never returned.
type Row struct {
	Name   string
	Phone  string
	Email  string
	Date   string
	Time   string
	Status string
}

// Confirmed reports whether the row counts toward slot occupancy.
func (r Row) Confirmed() bool {
	return r.Status == model.StatusConfirmed
}

// Adapter is the read/write spreadsheet contract. Implementations must
// be safely callable when the backing service is unconfigured.
type Adapter interface {
	AppointmentsForDate(ctx context.Context, date string) ([]Row, error)
	AppendAppointment(ctx context.Context, appt model.Appointment) error
}

type disabled struct{}

// Disabled returns a no-op adapter for deployments without a sheet.
func Disabled() Adapter {
	return disabled{}
}

func (disabled) AppointmentsForDate(context.Context, string) ([]Row, error) {
	return nil, nil
}

func (disabled) AppendAppointment(context.Context, model.Appointment) error {
	return nil
}
