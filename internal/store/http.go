package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hotdesk/internal/models"
)

// HTTPConfig configures the remote store client.
type HTTPConfig struct {
	BaseURL string
	Timeout time.Duration
}

// HTTPStore talks to a remote record-oriented reservation store:
// GET /reservations (bulk read), POST /reservations (upsert),
// DELETE /reservations with {"reservation_id": ...} in the body.
// The version token rides on ETag / If-Match headers.
type HTTPStore struct {
	baseURL    string
	httpClient *http.Client
}

type deleteReservationRequest struct {
	ReservationID string `json:"reservation_id"`
}

func NewHTTPStore(cfg HTTPConfig) *HTTPStore {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &HTTPStore{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (h *HTTPStore) LoadAll(ctx context.Context) ([]models.Reservation, Version, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/reservations", nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read reservations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var recs []models.Reservation
	if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return recs, parseETag(resp), nil
}

func (h *HTTPStore) Upsert(ctx context.Context, rec models.Reservation, expected Version) (Version, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal reservation: %w", err)
	}
	return h.mutate(ctx, http.MethodPost, body, expected)
}

func (h *HTTPStore) Delete(ctx context.Context, reservationID string, expected Version) (Version, error) {
	body, err := json.Marshal(deleteReservationRequest{ReservationID: reservationID})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal delete request: %w", err)
	}
	return h.mutate(ctx, http.MethodDelete, body, expected)
}

func (h *HTTPStore) Reset(ctx context.Context) (Version, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/reservations/reset", nil)
	if err != nil {
		return 0, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to reset store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return parseETag(resp), nil
}

func (h *HTTPStore) mutate(ctx context.Context, method string, body []byte, expected Version) (Version, error) {
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+"/reservations", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("If-Match", strconv.FormatInt(int64(expected), 10))

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("store request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return parseETag(resp), nil
	case http.StatusPreconditionFailed:
		return parseETag(resp), ErrVersionConflict
	case http.StatusNotFound:
		return parseETag(resp), ErrNotFound
	default:
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

func parseETag(resp *http.Response) Version {
	v, err := strconv.ParseInt(resp.Header.Get("ETag"), 10, 64)
	if err != nil {
		return 0
	}
	return Version(v)
}

// GetUser implements UserDirectory against the remote user record set.
func (h *HTTPStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	users, err := h.LoadUsers(ctx)
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

func (h *HTTPStore) LoadUsers(ctx context.Context) ([]models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/users", nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var users []models.User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (h *HTTPStore) UpsertUser(ctx context.Context, user models.User) error {
	body, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/users", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
