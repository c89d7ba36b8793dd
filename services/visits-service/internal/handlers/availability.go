package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pantrio/zaru-visits/libs/httpx"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/availability"
)

// rangeDays is the implicit window of the availability-range view.
const rangeDays = 14

// AvailabilityResolver is what the HTTP layer needs from the resolver.
type AvailabilityResolver interface {
	Slots(ctx context.Context, date string) availability.Day
	Window(ctx context.Context, days int) availability.Range
}

type AvailabilityHandler struct {
	resolver AvailabilityResolver
	logger   *slog.Logger
}

func NewAvailabilityHandler(resolver AvailabilityResolver, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{resolver: resolver, logger: logger}
}

// Slots handles GET /availability?date=YYYY-MM-DD.
func (h *AvailabilityHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error": `query parameter "date" is required (YYYY-MM-DD)`,
		})
		return
	}

	day := h.resolver.Slots(r.Context(), date)
	if day.Error != "" {
		httpx.WriteJSON(w, http.StatusBadRequest, day)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, day)
}

// Range handles GET /availability-range: the occupied/free breakdown for
// the next 14 days.
func (h *AvailabilityHandler) Range(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.resolver.Window(r.Context(), rangeDays))
}
