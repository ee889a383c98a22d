// Package events publishes reservation lifecycle changes for downstream
// consumers (dashboards, notification senders) that live outside this
// service. Publishing is best effort: a broker outage never fails the
// booking that triggered the event.
package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"

	"github.com/rs/zerolog/log"

	"condo/config"
	"condo/infras/kafka"
	"condo/infras/otel"
	"condo/internal/domains/reservation/model"
	"condo/shared/constant"
	"condo/shared/timezone"
)

const (
	TypeReservationCreated     = "reservation.created"
	TypeReservationRescheduled = "reservation.rescheduled"
	TypeReservationConfirmed   = "reservation.confirmed"
	TypeReservationCancelled   = "reservation.cancelled"
	TypeReservationCompleted   = "reservation.completed"
)

type ReservationEvent struct {
	Type          string `json:"type"`
	ReservationID string `json:"reservation_id"`
	AreaID        string `json:"area_id"`
	ResidentID    string `json:"resident_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
	OccurredAt    string `json:"occurred_at"`
}

type Publisher interface {
	ReservationChanged(ctx context.Context, eventType string, res model.Reservation)
}

type publisherImpl struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func NewPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

// ReservationChanged emits one lifecycle event to the reservation topic.
// Errors are logged and dropped.
func (p *publisherImpl) ReservationChanged(ctx context.Context, eventType string, res model.Reservation) {
	if !p.cfg.Kafka.Enable {
		return
	}

	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".ReservationChanged")
	defer scope.End()

	event := ReservationEvent{
		Type:          eventType,
		ReservationID: res.ID,
		AreaID:        res.AreaID,
		ResidentID:    res.ResidentID,
		Date:          res.Date,
		StartTime:     res.StartTime,
		EndTime:       res.EndTime,
		Status:        res.Status,
		OccurredAt:    timezone.Now().Format(constant.DateFormat),
	}

	message := kafka.Message{
		Key:   res.ID,
		Value: event,
	}

	if err := p.client.SendMessages(ctx, p.cfg.Kafka.Topic.ReservationEvents, message); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("type", eventType).Str("reservation_id", res.ID).Msg("failed to publish reservation event")
	}
}
