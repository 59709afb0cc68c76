// ABOUTME: Account operations: sign-in, sign-out, profile
// ABOUTME: Online-only; the signed-in profile is mirrored into the cache
package store

import (
	"context"

	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
)

// Login signs in and mirrors the profile into the local cache.
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := db.PutUser(s.db, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates an account and signs in.
func (s *Store) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	user, err := s.api.Register(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	if err := db.PutUser(s.db, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout discards the session. Cached entities stay on disk; they belong
// to whoever signs in next on this machine only after a fresh fetch.
func (s *Store) Logout() error {
	return s.api.Logout()
}

// CurrentUser returns the signed-in user from the session, or nil.
func (s *Store) CurrentUser() *models.User {
	session := s.api.Session()
	if session == nil {
		return nil
	}
	user := session.User
	return &user
}

// Profile fetches the profile from the server, refreshing the cached copy.
func (s *Store) Profile(ctx context.Context) (*models.User, error) {
	user, err := s.api.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if err := db.PutUser(s.db, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile updates the profile server-side and refreshes the cache.
func (s *Store) UpdateProfile(ctx context.Context, changes map[string]any) (*models.User, error) {
	user, err := s.api.UpdateProfile(ctx, changes)
	if err != nil {
		return nil, err
	}
	if err := db.PutUser(s.db, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword rotates the account password.
func (s *Store) ChangePassword(ctx context.Context, current, next string) error {
	return s.api.ChangePassword(ctx, current, next)
}
