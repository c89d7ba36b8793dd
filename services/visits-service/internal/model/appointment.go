package model

import "time"

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	// DateLayout is the wire format for appointment dates.
	DateLayout = "2006-01-02"
	// ClockLayout is the wire format for slot start times.
	ClockLayout = "15:04"
)

// Appointment is a confirmed sales visit. The local store owns the
// canonical record; calendar and spreadsheet copies are best-effort
// mirrors and may lag or be missing.
type Appointment struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	Location        string    `json:"location"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	ExternalEventID string    `json:"externalEventId,omitempty"`
}

// Confirmed reports whether the appointment counts toward slot capacity.
func (a Appointment) Confirmed() bool {
	return a.Status == StatusConfirmed
}
