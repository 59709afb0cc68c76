// ABOUTME: Contact-sharing operations, online-only
package store

import (
	"context"

	"github.com/harperreed/kith/api"
	"github.com/harperreed/kith/models"
)

// Sharing always needs the server: a share grants another account access,
// which only the server can record. Errors surface verbatim and nothing is
// queued or cached.

// ShareContact grants another user access to a contact.
func (s *Store) ShareContact(ctx context.Context, req *api.ShareRequest) (*models.ShareResponse, error) {
	return s.api.CreateShare(ctx, req)
}

// SharesByMe lists shares this account has granted.
func (s *Store) SharesByMe(ctx context.Context) ([]models.ShareResponse, error) {
	return s.api.SharesByMe(ctx)
}

// SharesWithMe lists shares granted to this account.
func (s *Store) SharesWithMe(ctx context.Context) ([]models.ShareResponse, error) {
	return s.api.SharesWithMe(ctx)
}

// SharedContacts lists contacts other users have shared with this account.
func (s *Store) SharedContacts(ctx context.Context) ([]models.Contact, error) {
	return s.api.SharedContacts(ctx)
}

// SharedContact fetches one contact someone shared with this account.
func (s *Store) SharedContact(ctx context.Context, contactID string) (*models.Contact, error) {
	return s.api.SharedContact(ctx, contactID)
}

// UpdateShare changes a share's permission, expiry, or note.
func (s *Store) UpdateShare(ctx context.Context, id string, update *api.ShareUpdate) (*models.ShareResponse, error) {
	return s.api.UpdateShare(ctx, id, update)
}

// RevokeShare withdraws a share.
func (s *Store) RevokeShare(ctx context.Context, id string) error {
	return s.api.RevokeShare(ctx, id)
}
