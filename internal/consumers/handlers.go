package consumers

import (
	"context"
	"encoding/json"
	"log/slog"

	"hotdesk/internal/cache"
	"hotdesk/internal/models"

	"github.com/nats-io/stan.go"
)

type Handlers struct {
	valkey *cache.ValkeyClient
}

func NewHandlers(valkey *cache.ValkeyClient) *Handlers {
	return &Handlers{
		valkey: valkey,
	}
}

// Seat maps cached by other API instances go stale the moment a booking
// lands, so every event drops the affected dates.

func (h *Handlers) HandleBookingCreated(m *stan.Msg) {
	var event models.BookingCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking created event", "error", err)
		m.Ack()
		return
	}

	slog.Info("Processing booking created event",
		"booking_id", event.BookingID, "seat_id", event.SeatID, "date", event.Date)

	h.valkey.InvalidateSeatMap(context.Background(), event.Date)

	m.Ack()
}

func (h *Handlers) HandleBookingCancelled(m *stan.Msg) {
	var event models.BookingCancelledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking cancelled event", "error", err)
		m.Ack()
		return
	}

	slog.Info("Processing booking cancelled event",
		"booking_id", event.BookingID, "seat_id", event.SeatID, "date", event.Date)

	if event.Date != "" {
		h.valkey.InvalidateSeatMap(context.Background(), event.Date)
	}

	m.Ack()
}

func (h *Handlers) HandleBatchApplied(m *stan.Msg) {
	var event models.BatchAppliedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal batch applied event", "error", err)
		m.Ack()
		return
	}

	slog.Info("Processing batch applied event",
		"user_id", event.UserID, "applied", event.Applied, "failed", event.Failed)

	if len(event.Dates) > 0 {
		h.valkey.InvalidateSeatMap(context.Background(), event.Dates...)
	}

	m.Ack()
}
