package service

import (
	"time"

	"hotdesk/internal/cache"
	"hotdesk/internal/engine"
	"hotdesk/internal/messaging"
	"hotdesk/internal/models"
	"hotdesk/internal/store"
)

type Services struct {
	Bookings     *BookingService
	Availability *AvailabilityService
	Users        *UserService
	Reset        *ResetService
}

// Deps carries everything the services need. The booking cache is built
// here and shared by reference across resolver, validator and batch
// processor.
type Deps struct {
	Store       store.Store
	Users       store.UserDirectory
	Layout      *models.Layout
	WindowWeeks int
	Clock       engine.Clock
	NATS        *messaging.NATSClient
	Valkey      *cache.ValkeyClient
}

func NewServices(d Deps) *Services {
	if d.Clock == nil {
		d.Clock = time.Now
	}

	bookingCache := engine.NewBookingCache(d.Store, d.Clock)
	resolver := engine.NewResolver(bookingCache, d.Layout)
	validator := engine.NewValidator(bookingCache, d.Layout, d.Clock, d.WindowWeeks)
	batch := engine.NewBatchProcessor(bookingCache, validator)

	bookings := NewBookingService(bookingCache, validator, batch, d.NATS, d.Valkey)
	availability := NewAvailabilityService(resolver, d.Valkey, d.Clock, d.WindowWeeks)
	users := NewUserService(d.Users, d.Valkey)
	reset := NewResetService(d.Store, bookingCache, d.Valkey)

	return &Services{
		Bookings:     bookings,
		Availability: availability,
		Users:        users,
		Reset:        reset,
	}
}
