// Package availability merges slot occupancy from the local appointment
// store, the calendar and the spreadsheet into one view of open slots.
// The merge is a distributed read with no cross-source transaction: each
// source is fetched independently and a failing source contributes zero
// occupancy instead of failing the query.
package availability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pantrio/zaru-visits/services/visits-service/internal/calendar"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/clock"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/model"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/sheets"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/store"
)

// Config carries the business rules the resolver applies. It is passed
// explicitly at construction; nothing is read from ambient process state.
type Config struct {
	// OpenHour..CloseHour is the hourly grid; CloseHour is exclusive, so
	// 9 and 18 produce slots 09:00 through 17:00.
	OpenHour  int
	CloseHour int
	// SlotCapacity is the number of confirmed visits one slot can hold.
	SlotCapacity int
	// Location is the business timezone; calendar event times are
	// normalized into it before being attributed to a slot.
	Location *time.Location
	// AdapterTimeout bounds each external source call so a slow
	// dependency cannot hang an availability query.
	AdapterTimeout time.Duration
}

// Slot is one open hourly interval.
type Slot struct {
	Time              string `json:"time"`
	RemainingCapacity int    `json:"remainingCapacity"`
}

// Day is the availability result for a single date. Callers must check
// Error before treating the result as a (possibly empty) slot set.
type Day struct {
	Date       string `json:"date"`
	Weekday    string `json:"weekday,omitempty"`
	Slots      []Slot `json:"slots"`
	TotalSlots int    `json:"totalSlots"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

// RangeDay is the occupied/free breakdown for one date in a range query.
type RangeDay struct {
	Date     string   `json:"date"`
	Weekday  string   `json:"weekday"`
	Occupied []string `json:"occupied"`
	Free     []string `json:"free"`
}

// Range covers a window of consecutive dates starting today.
type Range struct {
	From string              `json:"from"`
	To   string              `json:"to"`
	Days map[string]RangeDay `json:"days"`
}

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "domingo",
	time.Monday:    "lunes",
	time.Tuesday:   "martes",
	time.Wednesday: "miércoles",
	time.Thursday:  "jueves",
	time.Friday:    "viernes",
	time.Saturday:  "sábado",
}

type Resolver struct {
	cfg      Config
	store    store.Store
	calendar calendar.Adapter
	sheets   sheets.Adapter
	clk      clock.Clock
	logger   *slog.Logger
}

func NewResolver(cfg Config, st store.Store, cal calendar.Adapter, sh sheets.Adapter, clk clock.Clock, logger *slog.Logger) *Resolver {
	if cfg.SlotCapacity <= 0 {
		cfg.SlotCapacity = 1
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.AdapterTimeout <= 0 {
		cfg.AdapterTimeout = 5 * time.Second
	}
	return &Resolver{cfg: cfg, store: st, calendar: cal, sheets: sh, clk: clk, logger: logger}
}

// Slots computes the open slots for a date. Past dates yield an empty
// result with a message, not an error; only a malformed date sets Error.
func (r *Resolver) Slots(ctx context.Context, date string) Day {
	day, err := time.ParseInLocation(model.DateLayout, date, r.cfg.Location)
	if err != nil {
		return Day{
			Date:  date,
			Slots: []Slot{},
			Error: "invalid date format, use YYYY-MM-DD",
		}
	}

	now := r.clk.Now().In(r.cfg.Location)
	todayStr := now.Format(model.DateLayout)
	if date < todayStr {
		return Day{
			Date:    date,
			Slots:   []Slot{},
			Message: "appointments cannot be booked on past dates",
		}
	}

	occupancy := r.occupancy(ctx, date)

	slots := make([]Slot, 0, r.cfg.CloseHour-r.cfg.OpenHour)
	for _, t := range r.grid() {
		remaining := r.cfg.SlotCapacity - occupancy[t]
		if remaining <= 0 {
			continue
		}
		// Same-day queries only offer slots strictly after the current
		// wall-clock time.
		if date == todayStr && t <= now.Format(model.ClockLayout) {
			continue
		}
		slots = append(slots, Slot{Time: t, RemainingCapacity: remaining})
	}

	return Day{
		Date:       date,
		Weekday:    weekdayNames[day.Weekday()],
		Slots:      slots,
		TotalSlots: len(slots),
	}
}

// IsAvailable re-evaluates a single slot. Used by the booking transactor
// as a fresh check at booking time.
func (r *Resolver) IsAvailable(ctx context.Context, date, clockTime string) bool {
	day := r.Slots(ctx, date)
	if day.Error != "" {
		return false
	}
	for _, slot := range day.Slots {
		if slot.Time == clockTime && slot.RemainingCapacity > 0 {
			return true
		}
	}
	return false
}

// Window computes the occupied/free breakdown for `days` consecutive
// dates starting today.
func (r *Resolver) Window(ctx context.Context, days int) Range {
	now := r.clk.Now().In(r.cfg.Location)
	grid := r.grid()

	out := Range{
		From: now.Format(model.DateLayout),
		To:   now.AddDate(0, 0, days-1).Format(model.DateLayout),
		Days: make(map[string]RangeDay, days),
	}

	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, i)
		date := day.Format(model.DateLayout)
		occupancy := r.occupancy(ctx, date)

		occupied := []string{}
		free := []string{}
		for _, t := range grid {
			if occupancy[t] >= r.cfg.SlotCapacity {
				occupied = append(occupied, t)
				continue
			}
			if i == 0 && t <= now.Format(model.ClockLayout) {
				continue
			}
			free = append(free, t)
		}
		out.Days[date] = RangeDay{
			Date:     date,
			Weekday:  weekdayNames[day.Weekday()],
			Occupied: occupied,
			Free:     free,
		}
	}
	return out
}

// occupancy builds the merged slot-time -> confirmed-count map for a
// date. Every source failure is logged and treated as zero occupancy so
// availability degrades instead of hard-failing.
func (r *Resolver) occupancy(ctx context.Context, date string) map[string]int {
	counts := make(map[string]int)

	appts, err := r.store.ForDate(ctx, date)
	if err != nil {
		r.logger.Warn("local store unavailable for occupancy", "date", date, "err", err)
	}
	for _, appt := range appts {
		if appt.Confirmed() {
			counts[appt.Time]++
		}
	}

	calCtx, cancel := context.WithTimeout(ctx, r.cfg.AdapterTimeout)
	events, err := r.calendar.EventsForDate(calCtx, date)
	cancel()
	if err != nil {
		r.logger.Warn("calendar unavailable for occupancy", "date", date, "err", err)
	}
	for _, ev := range events {
		counts[ev.Time]++
	}

	shCtx, cancel := context.WithTimeout(ctx, r.cfg.AdapterTimeout)
	rows, err := r.sheets.AppointmentsForDate(shCtx, date)
	cancel()
	if err != nil {
		r.logger.Warn("spreadsheet unavailable for occupancy", "date", date, "err", err)
	}
	for _, row := range rows {
		if row.Confirmed() {
			counts[row.Time]++
		}
	}

	return counts
}

func (r *Resolver) grid() []string {
	grid := make([]string, 0, r.cfg.CloseHour-r.cfg.OpenHour)
	for h := r.cfg.OpenHour; h < r.cfg.CloseHour; h++ {
		grid = append(grid, fmt.Sprintf("%02d:00", h))
	}
	return grid
}
