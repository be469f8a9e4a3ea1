package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"hotdesk/internal/models"
)

// CSVConfig points the file store at its backing files.
type CSVConfig struct {
	ReservationsPath string
	UsersPath        string
}

// CSVStore persists reservations in a flat CSV file, rewritten wholesale on
// every mutation. There is no cross-process coordination beyond the version
// token held in this process; concurrent writers from other processes are
// last-write-wins at the file level.
type CSVStore struct {
	mu      sync.Mutex
	cfg     CSVConfig
	version Version
}

var reservationHeader = []string{"reservation_id", "user_id", "table_id", "date", "slot_type", "created_at"}
var userHeader = []string{"user_id", "email"}

func NewCSVStore(cfg CSVConfig) (*CSVStore, error) {
	s := &CSVStore{cfg: cfg}
	if err := s.ensureFile(cfg.ReservationsPath, reservationHeader); err != nil {
		return nil, err
	}
	if err := s.ensureFile(cfg.UsersPath, userHeader); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CSVStore) ensureFile(path string, header []string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (s *CSVStore) LoadAll(ctx context.Context) ([]models.Reservation, Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readAll()
	if err != nil {
		return nil, s.version, err
	}
	return recs, s.version, nil
}

func (s *CSVStore) Upsert(ctx context.Context, rec models.Reservation, expected Version) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expected != s.version {
		return s.version, ErrVersionConflict
	}

	recs, err := s.readAll()
	if err != nil {
		return s.version, err
	}

	replaced := false
	for i := range recs {
		if recs[i].ReservationID == rec.ReservationID {
			recs[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		recs = append(recs, rec)
	}

	if err := s.writeAll(recs); err != nil {
		return s.version, err
	}
	s.version++
	return s.version, nil
}

func (s *CSVStore) Delete(ctx context.Context, reservationID string, expected Version) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expected != s.version {
		return s.version, ErrVersionConflict
	}

	recs, err := s.readAll()
	if err != nil {
		return s.version, err
	}

	kept := recs[:0]
	found := false
	for _, r := range recs {
		if r.ReservationID == reservationID {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return s.version, ErrNotFound
	}

	if err := s.writeAll(kept); err != nil {
		return s.version, err
	}
	s.version++
	return s.version, nil
}

func (s *CSVStore) Reset(ctx context.Context) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeAll(nil); err != nil {
		return s.version, err
	}
	s.version++
	return s.version, nil
}

func (s *CSVStore) readAll() ([]models.Reservation, error) {
	f, err := os.Open(s.cfg.ReservationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open reservations file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read reservations file: %w", err)
	}

	var recs []models.Reservation
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) != len(reservationHeader) {
			return nil, fmt.Errorf("malformed reservation row %d: %d fields", i+1, len(row))
		}
		createdAt, err := time.Parse(time.RFC3339, row[5])
		if err != nil {
			return nil, fmt.Errorf("malformed created_at in row %d: %w", i+1, err)
		}
		recs = append(recs, models.Reservation{
			ReservationID: row[0],
			UserID:        row[1],
			TableID:       row[2],
			Date:          row[3],
			SlotType:      models.TimeSlot(row[4]),
			CreatedAt:     createdAt,
		})
	}
	return recs, nil
}

func (s *CSVStore) writeAll(recs []models.Reservation) error {
	tmp := s.cfg.ReservationsPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(reservationHeader); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range recs {
		row := []string{r.ReservationID, r.UserID, r.TableID, r.Date, string(r.SlotType), r.CreatedAt.UTC().Format(time.RFC3339)}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush reservations file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp, s.cfg.ReservationsPath); err != nil {
		return fmt.Errorf("failed to replace reservations file: %w", err)
	}
	return nil
}

// GetUser implements UserDirectory over users.csv.
func (s *CSVStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	users, err := s.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.UserID == userID {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *CSVStore) LoadUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.cfg.UsersPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open users file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var users []models.User
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) != len(userHeader) {
			return nil, fmt.Errorf("malformed user row %d: %d fields", i+1, len(row))
		}
		users = append(users, models.User{UserID: row[0], Email: row[1]})
	}
	return users, nil
}

func (s *CSVStore) UpsertUser(ctx context.Context, user models.User) error {
	users, err := s.LoadUsers(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range users {
		if users[i].UserID == user.UserID {
			users[i] = user
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, user)
	}

	tmp := s.cfg.UsersPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(userHeader); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, u := range users {
		if err := w.Write([]string{u.UserID, u.Email}); err != nil {
			f.Close()
			return fmt.Errorf("failed to write user row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush users file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp, s.cfg.UsersPath); err != nil {
		return fmt.Errorf("failed to replace users file: %w", err)
	}
	return nil
}
