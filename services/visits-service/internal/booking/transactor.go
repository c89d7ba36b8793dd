// Package booking validates and records new sales visits. A booking is
// successful once it is durably stored locally; the calendar, the
// spreadsheet and the event stream are best-effort mirrors that never
// roll a booking back.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pantrio/zaru-visits/services/visits-service/internal/calendar"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/clock"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/model"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/sheets"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/store"
)

// ErrNoAvailability is returned when the requested slot is full, in the
// past, or outside the business grid.
var ErrNoAvailability = errors.New("no availability for the selected date and time")

// ValidationError reports a bad request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Request is a booking attempt as received from the client.
type Request struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location,omitempty"`
}

// Availability is the fresh-check contract the transactor needs from the
// resolver.
type Availability interface {
	IsAvailable(ctx context.Context, date, clockTime string) bool
}

// Notifier receives a fire-and-forget signal after a successful booking.
type Notifier interface {
	AppointmentBooked(ctx context.Context, appt model.Appointment)
}

// Config carries booking-side business settings.
type Config struct {
	// DefaultLocation fills the appointment location when the client
	// leaves it empty.
	DefaultLocation string
	// MirrorTimeout bounds each mirror write.
	MirrorTimeout time.Duration
}

type Transactor struct {
	cfg          Config
	store        store.Store
	availability Availability
	calendar     calendar.Adapter
	sheets       sheets.Adapter
	notifier     Notifier
	clk          clock.Clock
	logger       *slog.Logger
}

func NewTransactor(cfg Config, st store.Store, avail Availability, cal calendar.Adapter, sh sheets.Adapter, notifier Notifier, clk clock.Clock, logger *slog.Logger) *Transactor {
	if cfg.MirrorTimeout <= 0 {
		cfg.MirrorTimeout = 5 * time.Second
	}
	return &Transactor{
		cfg:          cfg,
		store:        st,
		availability: avail,
		calendar:     cal,
		sheets:       sh,
		notifier:     notifier,
		clk:          clk,
		logger:       logger,
	}
}

// Create validates the request, persists the appointment locally and
// then mirrors it. Validation fails fast: the first failing rule wins
// and nothing is written.
//
// The availability check here and the local write are not atomic: two
// racing requests for the same slot can both pass the check and
// over-book it. Accepted as a known limitation at this request volume.
func (t *Transactor) Create(ctx context.Context, req Request) (model.Appointment, error) {
	if err := requireFields(req); err != nil {
		return model.Appointment{}, err
	}

	if !t.availability.IsAvailable(ctx, req.Date, req.Time) {
		return model.Appointment{}, ErrNoAvailability
	}

	phone := strings.TrimSpace(req.Phone)
	if len(phone) < 10 {
		return model.Appointment{}, &ValidationError{
			Field:   "phone",
			Message: "invalid phone, at least 10 digits required",
		}
	}

	email := strings.TrimSpace(req.Email)
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return model.Appointment{}, &ValidationError{
			Field:   "email",
			Message: "invalid email",
		}
	}

	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = t.cfg.DefaultLocation
	}

	appt := model.Appointment{
		ID:        uuid.NewString(),
		UserID:    strings.TrimSpace(req.UserID),
		Name:      strings.TrimSpace(req.Name),
		Phone:     phone,
		Email:     email,
		Location:  location,
		Date:      req.Date,
		Time:      req.Time,
		Status:    model.StatusConfirmed,
		CreatedAt: t.clk.Now().UTC(),
	}

	if err := t.store.Append(ctx, appt); err != nil {
		return model.Appointment{}, fmt.Errorf("persist appointment: %w", err)
	}

	t.mirror(ctx, &appt)

	if t.notifier != nil {
		t.notifier.AppointmentBooked(ctx, appt)
	}

	return appt, nil
}

// mirror pushes the stored appointment to the spreadsheet and the
// calendar. Each attempt is independent; failures are logged and never
// affect the booking outcome.
func (t *Transactor) mirror(ctx context.Context, appt *model.Appointment) {
	shCtx, cancel := context.WithTimeout(ctx, t.cfg.MirrorTimeout)
	err := t.sheets.AppendAppointment(shCtx, *appt)
	cancel()
	if err != nil {
		t.logger.Warn("spreadsheet mirror failed", "appointment_id", appt.ID, "err", err)
	}

	calCtx, cancel := context.WithTimeout(ctx, t.cfg.MirrorTimeout)
	eventID, err := t.calendar.CreateEvent(calCtx, *appt)
	cancel()
	if err != nil {
		t.logger.Warn("calendar mirror failed", "appointment_id", appt.ID, "err", err)
		return
	}
	if eventID == "" {
		return
	}

	appt.ExternalEventID = eventID
	if err := t.store.SetExternalEventID(ctx, appt.ID, eventID); err != nil {
		t.logger.Warn("could not record calendar event id", "appointment_id", appt.ID, "err", err)
	}
}

func requireFields(req Request) error {
	required := []struct {
		field string
		value string
	}{
		{"userId", req.UserID},
		{"name", req.Name},
		{"phone", req.Phone},
		{"email", req.Email},
		{"date", req.Date},
		{"time", req.Time},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{
				Field:   f.field,
				Message: "missing required field: " + f.field,
			}
		}
	}
	return nil
}
