package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pantrio/zaru-visits/libs/httpx"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/booking"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/model"
)

// BookingTransactor is what the HTTP layer needs from the transactor.
type BookingTransactor interface {
	Create(ctx context.Context, req booking.Request) (model.Appointment, error)
}

type AppointmentsHandler struct {
	transactor BookingTransactor
	logger     *slog.Logger
}

func NewAppointmentsHandler(transactor BookingTransactor, logger *slog.Logger) *AppointmentsHandler {
	return &AppointmentsHandler{transactor: transactor, logger: logger}
}

type createAppointmentResponse struct {
	Success     bool               `json:"success"`
	Appointment *model.Appointment `json:"appointment,omitempty"`
	Message     string             `json:"message,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// Create handles POST /appointments.
func (h *AppointmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req booking.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, createAppointmentResponse{
			Success: false,
			Error:   "invalid json body",
		})
		return
	}

	appt, err := h.transactor.Create(r.Context(), req)
	if err != nil {
		var vErr *booking.ValidationError
		switch {
		case errors.As(err, &vErr):
			httpx.WriteJSON(w, http.StatusBadRequest, createAppointmentResponse{
				Success: false,
				Error:   vErr.Message,
			})
		case errors.Is(err, booking.ErrNoAvailability):
			httpx.WriteJSON(w, http.StatusBadRequest, createAppointmentResponse{
				Success: false,
				Error:   err.Error(),
			})
		default:
			h.logger.Error("booking failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, createAppointmentResponse{
				Success: false,
				Error:   "failed to create appointment: " + err.Error(),
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, createAppointmentResponse{
		Success:     true,
		Appointment: &appt,
		Message:     fmt.Sprintf("appointment confirmed for %s at %s", appt.Date, appt.Time),
	})
}
