package consumers

import (
	"context"
	"log/slog"

	"hotdesk/internal/cache"
	"hotdesk/internal/config"
	"hotdesk/internal/messaging"
	"hotdesk/internal/models"
)

type ConsumerService struct {
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	// Connect to NATS
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	// Valkey is the whole point of this service: cross-instance
	// invalidation of cached seat maps.
	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
	if err != nil {
		return nil, err
	}

	handlers := NewHandlers(valkeyClient)

	return &ConsumerService{
		nats:     natsClient,
		valkey:   valkeyClient,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	_, err := cs.nats.SubscribeQueue(models.EventBookingCreated, "consumers", cs.handlers.HandleBookingCreated)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventBookingCancelled, "consumers", cs.handlers.HandleBookingCancelled)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventBatchApplied, "consumers", cs.handlers.HandleBatchApplied)
	if err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.valkey != nil {
		if err := cs.valkey.Close(); err != nil {
			slog.Error("Error closing Valkey connection", "error", err)
			return err
		}
	}

	return nil
}
