package service

import (
	"context"
	"log/slog"

	"hotdesk/internal/cache"
	"hotdesk/internal/engine"
	"hotdesk/internal/store"
)

type ResetService struct {
	store        store.Store
	cache        *engine.BookingCache
	valkeyClient *cache.ValkeyClient
}

func NewResetService(st store.Store, bookingCache *engine.BookingCache, valkeyClient *cache.ValkeyClient) *ResetService {
	return &ResetService{store: st, cache: bookingCache, valkeyClient: valkeyClient}
}

// ResetStore drops every reservation and rebuilds the booking cache.
func (s *ResetService) ResetStore(ctx context.Context) error {
	slog.Info("Starting store reset")

	if _, err := s.store.Reset(ctx); err != nil {
		slog.Error("Failed to reset store", "error", err)
		return err
	}

	if err := s.cache.ForceRefresh(ctx); err != nil {
		slog.Error("Failed to refresh cache after reset", "error", err)
		return err
	}

	if s.valkeyClient != nil {
		s.valkeyClient.InvalidateAllSeatMaps(ctx)
	}

	slog.Info("Store reset completed")
	return nil
}
