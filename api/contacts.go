// ABOUTME: Contact endpoints of the server API
// ABOUTME: CRUD plus search and shared-contact listing
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/harperreed/kith/models"
)

// FetchContacts lists every contact the account owns.
func (c *Client) FetchContacts(ctx context.Context) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := c.do(ctx, http.MethodGet, "/contacts", nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// FetchContact fetches a single contact by id.
func (c *Client) FetchContact(ctx context.Context, id string) (*models.Contact, error) {
	var contact models.Contact
	if err := c.do(ctx, http.MethodGet, "/contacts/"+url.PathEscape(id), nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// CreateContact creates a contact. The server assigns the canonical id; the
// id in the argument is ignored.
func (c *Client) CreateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	var created models.Contact
	if err := c.do(ctx, http.MethodPost, "/contacts", contact, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateContact applies a partial update and returns the server's view of
// the contact.
func (c *Client) UpdateContact(ctx context.Context, id string, patch *models.ContactPatch) (*models.Contact, error) {
	var updated models.Contact
	if err := c.do(ctx, http.MethodPut, "/contacts/"+url.PathEscape(id), patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteContact removes the contact server-side.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/contacts/"+url.PathEscape(id), nil, nil)
}

// SearchContacts runs a server-side search by free-text query and tags.
func (c *Client) SearchContacts(ctx context.Context, query string, tags []string) ([]models.Contact, error) {
	path := fmt.Sprintf("/contacts/search?q=%s", url.QueryEscape(query))
	if len(tags) > 0 {
		path += "&tags=" + url.QueryEscape(strings.Join(tags, ","))
	}
	var contacts []models.Contact
	if err := c.do(ctx, http.MethodGet, path, nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// SharedContacts lists contacts other users have shared with this account.
func (c *Client) SharedContacts(ctx context.Context) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := c.do(ctx, http.MethodGet, "/contacts/shared", nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}
