package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hotdesk/internal/models"

	"github.com/redis/go-redis/v9"
)

// Config for the optional Valkey tier. Empty Addr disables it.
type Config struct {
	Addr         string
	Password     string
	SeatMapTTL   time.Duration
	UsersHashKey string
}

// ValkeyClient caches per-date seat maps as raw JSON and mirrors the user
// directory as a hash. Both are best-effort: every path has a store
// fallback.
type ValkeyClient struct {
	client       *redis.Client
	seatMapTTL   time.Duration
	usersHashKey string
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	ttl := cfg.SeatMapTTL
	if ttl == 0 {
		ttl = 15 * time.Second
	}
	hashKey := cfg.UsersHashKey
	if hashKey == "" {
		hashKey = "users:directory"
	}

	return &ValkeyClient{client: rdb, seatMapTTL: ttl, usersHashKey: hashKey}, nil
}

// The map response is user-specific (owned-by-me flags), so the key
// carries both date and user.
func seatMapKey(date, userID string) string {
	return "seatmap:" + date + ":" + userID
}

// GetSeatMapRaw returns the cached seat map JSON for a date and user. Raw
// bytes are served directly to avoid an unmarshal/marshal round trip.
func (v *ValkeyClient) GetSeatMapRaw(ctx context.Context, date, userID string) ([]byte, error) {
	raw, err := v.client.Get(ctx, seatMapKey(date, userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("seat map not cached for %s", date)
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return raw, nil
}

// SetSeatMap stores the seat map response with a short TTL. Failures are
// swallowed: the cache is an optimization, not a dependency.
func (v *ValkeyClient) SetSeatMap(ctx context.Context, date, userID string, response any) {
	raw, err := json.Marshal(response)
	if err != nil {
		return
	}
	v.client.Set(ctx, seatMapKey(date, userID), raw, v.seatMapTTL)
}

// InvalidateSeatMap drops every cached map for the given dates. Called
// after every booking write and by the event consumers in other processes.
func (v *ValkeyClient) InvalidateSeatMap(ctx context.Context, dates ...string) {
	for _, d := range dates {
		keys, err := v.client.Keys(ctx, "seatmap:"+d+":*").Result()
		if err != nil || len(keys) == 0 {
			continue
		}
		v.client.Del(ctx, keys...)
	}
}

// InvalidateAllSeatMaps drops every cached seat map. Used by the reset
// flow.
func (v *ValkeyClient) InvalidateAllSeatMaps(ctx context.Context) {
	keys, err := v.client.Keys(ctx, "seatmap:*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	v.client.Del(ctx, keys...)
}

// GetUser looks a user up in the directory hash.
func (v *ValkeyClient) GetUser(ctx context.Context, userID string) (*models.User, error) {
	email, err := v.client.HGet(ctx, v.usersHashKey, userID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("user %s not in cache", userID)
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return &models.User{UserID: userID, Email: email}, nil
}

// SetUser mirrors a directory entry into the hash.
func (v *ValkeyClient) SetUser(ctx context.Context, user models.User) {
	v.client.HSet(ctx, v.usersHashKey, user.UserID, user.Email)
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
