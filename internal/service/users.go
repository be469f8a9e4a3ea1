package service

import (
	"context"
	"fmt"

	"hotdesk/internal/cache"
	"hotdesk/internal/engine"
	"hotdesk/internal/models"
	"hotdesk/internal/store"
)

type UserService struct {
	directory    store.UserDirectory
	valkeyClient *cache.ValkeyClient
}

func NewUserService(directory store.UserDirectory, valkeyClient *cache.ValkeyClient) *UserService {
	return &UserService{directory: directory, valkeyClient: valkeyClient}
}

// Lookup resolves a user ID, trying the Valkey hash first and falling back
// to the directory store. Unknown users return nil, not an error.
func (s *UserService) Lookup(ctx context.Context, userID string) (*models.User, error) {
	if s.valkeyClient != nil {
		if user, err := s.valkeyClient.GetUser(ctx, userID); err == nil {
			return user, nil
		}
	}

	user, err := s.directory.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user != nil && s.valkeyClient != nil {
		s.valkeyClient.SetUser(ctx, *user)
	}
	return user, nil
}

// VerifyDirectory fails fast when the user directory is empty or
// unreadable at boot; the session cannot proceed without it.
func (s *UserService) VerifyDirectory(ctx context.Context) error {
	users, err := s.directory.LoadUsers(ctx)
	if err != nil {
		return &engine.ConfigurationError{Detail: fmt.Sprintf("user directory unreadable: %v", err)}
	}
	if len(users) == 0 {
		return &engine.ConfigurationError{Detail: "user directory is empty"}
	}
	return nil
}
