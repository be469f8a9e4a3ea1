package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"hotdesk/internal/config"
	"hotdesk/internal/database"
	"hotdesk/internal/models"
	"hotdesk/internal/schedule"
	"hotdesk/internal/store"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

var (
	userCount    = flag.Int("users", 20, "Number of users to seed")
	bookingCount = flag.Int("bookings", 30, "Number of demo reservations to seed (0 = users only)")
	clearFirst   = flag.Bool("clear", false, "Reset the reservation store before seeding")
	dryRun       = flag.Bool("dry-run", false, "Show what would be seeded without making changes")
)

type Seeder struct {
	store store.Store
	users store.UserDirectory
}

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	slog.Info("Starting seeder...")

	cfg := config.Load()

	st, users, cleanup, err := buildStore(cfg)
	if err != nil {
		slog.Error("Failed to open store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	seeder := &Seeder{store: st, users: users}
	ctx := context.Background()

	if *clearFirst && !*dryRun {
		if _, err := st.Reset(ctx); err != nil {
			slog.Error("Failed to reset store", "error", err)
			os.Exit(1)
		}
		slog.Info("Reservation store cleared")
	}

	if err := seeder.SeedUsers(ctx); err != nil {
		slog.Error("Failed to seed users", "error", err)
		os.Exit(1)
	}

	if *bookingCount > 0 {
		if err := seeder.SeedReservations(ctx, cfg); err != nil {
			slog.Error("Failed to seed reservations", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Seeding completed successfully!")
}

func buildStore(cfg *config.Config) (store.Store, store.UserDirectory, func(), error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case "csv":
		csvStore, err := store.NewCSVStore(cfg.CSV)
		if err != nil {
			return nil, nil, noop, err
		}
		return csvStore, csvStore, noop, nil

	case "postgres":
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, nil, noop, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, nil, noop, err
		}
		pg := store.NewPostgresStore(db)
		return pg, pg, func() { db.Close() }, nil

	case "http":
		httpStore := store.NewHTTPStore(cfg.HTTPStore)
		return httpStore, httpStore, noop, nil

	default:
		return nil, nil, noop, fmt.Errorf("store backend %q cannot be seeded", cfg.StoreBackend)
	}
}

func (s *Seeder) SeedUsers(ctx context.Context) error {
	slog.Info("Seeding users", "count", *userCount)

	for i := 1; i <= *userCount; i++ {
		user := models.User{
			UserID: fmt.Sprintf("U%03d", i),
			Email:  fmt.Sprintf("user%03d@example.com", i),
		}

		if *dryRun {
			slog.Info("Would seed user", "user_id", user.UserID, "email", user.Email)
			continue
		}

		if err := s.users.UpsertUser(ctx, user); err != nil {
			return fmt.Errorf("failed to upsert user %s: %w", user.UserID, err)
		}
	}

	return nil
}

func (s *Seeder) SeedReservations(ctx context.Context, cfg *config.Config) error {
	layout, err := models.ParseLayout(cfg.LayoutSpec)
	if err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}

	days := schedule.Window(time.Now(), cfg.WindowWeeks)
	seats := layout.SeatIDs()
	slots := []models.TimeSlot{models.SlotAM, models.SlotPM, models.SlotFullDay}

	_, version, err := s.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	slog.Info("Seeding reservations", "count", *bookingCount, "days", len(days), "seats", len(seats))

	// Track (user, date) and (seat, date, slot) so the seeded data obeys the
	// same conflict rules the engine enforces.
	userDays := map[string]bool{}
	seatSlots := map[string]bool{}

	seeded := 0
	for attempts := 0; seeded < *bookingCount && attempts < *bookingCount*20; attempts++ {
		userID := fmt.Sprintf("U%03d", rand.Intn(*userCount)+1)
		date := days[rand.Intn(len(days))]
		seatID := seats[rand.Intn(len(seats))]
		slot := slots[rand.Intn(len(slots))]

		if userDays[userID+date] {
			continue
		}
		if conflictsSeeded(seatSlots, seatID, date, slot) {
			continue
		}

		rec := models.Reservation{
			ReservationID: uuid.New().String(),
			UserID:        userID,
			TableID:       seatID,
			Date:          date,
			SlotType:      slot,
			CreatedAt:     time.Now(),
		}

		if *dryRun {
			slog.Info("Would seed reservation",
				"user_id", userID, "seat_id", seatID, "date", date, "slot", slot)
		} else {
			version, err = s.store.Upsert(ctx, rec, version)
			if err != nil {
				return fmt.Errorf("failed to upsert reservation: %w", err)
			}
		}

		userDays[userID+date] = true
		seatSlots[seatKey(seatID, date, slot)] = true
		seeded++
	}

	slog.Info("Reservations seeded", "count", seeded)
	return nil
}

func seatKey(seatID, date string, slot models.TimeSlot) string {
	return seatID + "|" + date + "|" + string(slot)
}

func conflictsSeeded(seatSlots map[string]bool, seatID, date string, slot models.TimeSlot) bool {
	for _, other := range []models.TimeSlot{models.SlotAM, models.SlotPM, models.SlotFullDay} {
		if seatSlots[seatKey(seatID, date, other)] && slot.Overlaps(other) {
			return true
		}
	}
	return false
}
