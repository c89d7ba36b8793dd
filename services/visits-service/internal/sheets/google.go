package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/pantrio/zaru-visits/services/visits-service/internal/model"
)

// appointmentRange is the tab and columns the sales team works with:
// registered-at, name, phone, email, location, date, time, status.
const appointmentRange = "Citas!A:H"

// Google logs appointments to a spreadsheet shared with the sales team
// and reads its rows back for occupancy counting.
type Google struct {
	svc     *sheets.Service
	sheetID string
	loc     *time.Location
	logger  *slog.Logger
}

func NewGoogle(ctx context.Context, credentialsJSON []byte, sheetID string, loc *time.Location, logger *slog.Logger) (*Google, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("init sheets service: %w", err)
	}
	return &Google{svc: svc, sheetID: sheetID, loc: loc, logger: logger}, nil
}

func (g *Google) AppointmentsForDate(ctx context.Context, date string) ([]Row, error) {
	res, err := g.svc.Spreadsheets.Values.Get(g.sheetID, appointmentRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(res.Values) <= 1 {
		return nil, nil
	}

	var rows []Row
	for _, raw := range res.Values[1:] { // skip header
		if len(raw) < 8 {
			continue
		}
		rowDate := cell(raw, 5)
		if rowDate != date {
			continue
		}
		clock, ok := NormalizeClock(cell(raw, 6))
		if !ok {
			// Hand-edited rows sometimes carry junk times; they cannot be
			// attributed to a slot, so they are skipped but made visible.
			g.logger.Warn("sheet row with unparseable time skipped",
				"date", rowDate, "time", cell(raw, 6), "name", cell(raw, 1))
			continue
		}
		rows = append(rows, Row{
			Name:   cell(raw, 1),
			Phone:  cell(raw, 2),
			Email:  cell(raw, 3),
			Date:   rowDate,
			Time:   clock,
			Status: cell(raw, 7),
		})
	}
	return rows, nil
}

func (g *Google) AppendAppointment(ctx context.Context, appt model.Appointment) error {
	row := []any{
		time.Now().In(g.loc).Format("2006-01-02 15:04:05"),
		appt.Name,
		appt.Phone,
		appt.Email,
		appt.Location,
		appt.Date,
		appt.Time,
		appt.Status,
	}
	_, err := g.svc.Spreadsheets.Values.Append(g.sheetID, appointmentRange, &sheets.ValueRange{
		Values: [][]any{row},
	}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

func cell(row []any, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return strings.TrimSpace(s)
}
