// ABOUTME: Contact-sharing endpoints of the server API
// ABOUTME: Shares are online-only and are never cached locally
package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/harperreed/kith/models"
)

// ShareRequest asks the server to share a contact with another user,
// looked up by email.
type ShareRequest struct {
	ContactID       string     `json:"contactId"`
	SharedWithEmail string     `json:"sharedWithEmail"`
	Permission      string     `json:"permission"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	Note            string     `json:"note,omitempty"`
}

// ShareUpdate changes an existing share's permission, expiry, or note.
type ShareUpdate struct {
	Permission string     `json:"permission"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	Note       string     `json:"note,omitempty"`
}

// SharesByMe lists shares this account has granted.
func (c *Client) SharesByMe(ctx context.Context) ([]models.ShareResponse, error) {
	var shares []models.ShareResponse
	if err := c.do(ctx, http.MethodGet, "/shares/by-me", nil, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// SharesWithMe lists shares granted to this account.
func (c *Client) SharesWithMe(ctx context.Context) ([]models.ShareResponse, error) {
	var shares []models.ShareResponse
	if err := c.do(ctx, http.MethodGet, "/shares/with-me", nil, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// CreateShare grants another user access to a contact.
func (c *Client) CreateShare(ctx context.Context, req *ShareRequest) (*models.ShareResponse, error) {
	var share models.ShareResponse
	if err := c.do(ctx, http.MethodPost, "/shares", req, &share); err != nil {
		return nil, err
	}
	return &share, nil
}

// UpdateShare changes a share's terms.
func (c *Client) UpdateShare(ctx context.Context, id string, update *ShareUpdate) (*models.ShareResponse, error) {
	var share models.ShareResponse
	if err := c.do(ctx, http.MethodPut, "/shares/"+url.PathEscape(id), update, &share); err != nil {
		return nil, err
	}
	return &share, nil
}

// RevokeShare withdraws a share.
func (c *Client) RevokeShare(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/shares/"+url.PathEscape(id), nil, nil)
}

// SharedContact fetches a contact someone shared with this account.
func (c *Client) SharedContact(ctx context.Context, contactID string) (*models.Contact, error) {
	var contact models.Contact
	if err := c.do(ctx, http.MethodGet, "/shares/contact/"+url.PathEscape(contactID), nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}
