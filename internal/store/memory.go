package store

import (
	"context"
	"sync"

	"hotdesk/internal/models"
)

// MemoryStore keeps all records in process memory. It backs serverless
// deployments where no writable filesystem exists, and every test fixture.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]models.Reservation
	users   map[string]models.User
	version Version
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]models.Reservation),
		users:   make(map[string]models.User),
	}
}

func (m *MemoryStore) LoadAll(ctx context.Context) ([]models.Reservation, Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Reservation, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, m.version, nil
}

func (m *MemoryStore) Upsert(ctx context.Context, rec models.Reservation, expected Version) (Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if expected != m.version {
		return m.version, ErrVersionConflict
	}
	m.records[rec.ReservationID] = rec
	m.version++
	return m.version, nil
}

func (m *MemoryStore) Delete(ctx context.Context, reservationID string, expected Version) (Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if expected != m.version {
		return m.version, ErrVersionConflict
	}
	if _, ok := m.records[reservationID]; !ok {
		return m.version, ErrNotFound
	}
	delete(m.records, reservationID)
	m.version++
	return m.version, nil
}

func (m *MemoryStore) Reset(ctx context.Context) (Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make(map[string]models.Reservation)
	m.version++
	return m.version, nil
}

// GetUser implements UserDirectory.
func (m *MemoryStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (m *MemoryStore) LoadUsers(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *MemoryStore) UpsertUser(ctx context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[user.UserID] = user
	return nil
}
