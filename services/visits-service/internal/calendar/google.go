package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/pantrio/zaru-visits/services/visits-service/internal/model"
)

const visitDuration = 2 * time.Hour

// Google mirrors appointments to a Google Calendar through a service
// account and reads back its events for occupancy counting.
type Google struct {
	svc        *calendar.Service
	calendarID string
	loc        *time.Location
	logger     *slog.Logger
}

func NewGoogle(ctx context.Context, credentialsJSON []byte, calendarID string, loc *time.Location, logger *slog.Logger) (*Google, error) {
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(calendar.CalendarScope, calendar.CalendarEventsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("init calendar service: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Google{svc: svc, calendarID: calendarID, loc: loc, logger: logger}, nil
}

func (g *Google) EventsForDate(ctx context.Context, date string) ([]Event, error) {
	day, err := time.ParseInLocation(model.DateLayout, date, g.loc)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", date, err)
	}

	res, err := g.svc.Events.List(g.calendarID).
		TimeMin(day.Format(time.RFC3339)).
		TimeMax(day.Add(24 * time.Hour).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	var events []Event
	for _, item := range res.Items {
		if item.Start == nil || item.Start.DateTime == "" {
			// All-day events carry no start time and do not occupy a slot.
			continue
		}
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			g.logger.Warn("unparseable calendar event start", "event_id", item.Id, "start", item.Start.DateTime)
			continue
		}
		events = append(events, Event{
			ID:    item.Id,
			Title: item.Summary,
			Time:  start.In(g.loc).Format(model.ClockLayout),
		})
	}
	return events, nil
}

func (g *Google) CreateEvent(ctx context.Context, appt model.Appointment) (string, error) {
	start, err := time.ParseInLocation(
		model.DateLayout+" "+model.ClockLayout,
		appt.Date+" "+appt.Time,
		g.loc,
	)
	if err != nil {
		return "", fmt.Errorf("parse appointment start: %w", err)
	}
	end := start.Add(visitDuration)

	event := &calendar.Event{
		Summary:     fmt.Sprintf("Visita - %s - %s", appt.Name, appt.Location),
		Location:    appt.Location,
		Description: eventDescription(appt),
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: g.loc.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: g.loc.String(),
		},
		Reminders: &calendar.EventReminders{
			UseDefault:      false,
			ForceSendFields: []string{"UseDefault"},
			Overrides: []*calendar.EventReminder{
				{Method: "popup", Minutes: 60},
			},
		},
	}

	created, err := g.svc.Events.Insert(g.calendarID, event).
		SendUpdates("none").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	return created.Id, nil
}

func eventDescription(appt model.Appointment) string {
	return fmt.Sprintf(
		"Sales visit\n\nClient: %s\nPhone: %s\nEmail: %s\n\nLocation: %s\n\nBooked via the Zarú assistant.",
		appt.Name, appt.Phone, appt.Email, appt.Location,
	)
}
