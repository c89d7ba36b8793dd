// Package events publishes booking facts to Kafka for downstream
// consumers (CRM sync, follow-up campaigns). Publishing is best-effort:
// like the calendar and spreadsheet mirrors, a failed publish is logged
// and never fails the booking.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/pantrio/zaru-visits/libs/kafkax"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/model"
)

const TopicAppointmentBooked = "visits.appointment.booked.v1"

type Publisher struct {
	writer  *kafka.Writer
	timeout time.Duration
	logger  *slog.Logger
}

// NewPublisher returns nil when no brokers are configured; callers treat
// a nil publisher as "events disabled".
func NewPublisher(brokers string, logger *slog.Logger) *Publisher {
	list := kafkax.SplitBrokers(brokers)
	if len(list) == 0 {
		return nil
	}
	return &Publisher{
		writer:  kafkax.NewWriter(list, TopicAppointmentBooked),
		timeout: 5 * time.Second,
		logger:  logger,
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *Publisher) AppointmentBooked(ctx context.Context, appt model.Appointment) {
	payload, err := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"user_id":        appt.UserID,
		"name":           appt.Name,
		"email":          appt.Email,
		"phone":          appt.Phone,
		"location":       appt.Location,
		"date":           appt.Date,
		"time":           appt.Time,
		"created_at":     appt.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		p.logger.Error("failed to build booking event payload", "err", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(appt.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(appt.ID)},
			{Key: "event_type", Value: []byte(TopicAppointmentBooked)},
		},
	})
	if err != nil {
		p.logger.Warn("booking event publish failed", "appointment_id", appt.ID, "err", err)
	}
}
