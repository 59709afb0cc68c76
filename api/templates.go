// ABOUTME: Message-template endpoints of the server API
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/harperreed/kith/models"
)

// FetchTemplates lists the account's message templates.
func (c *Client) FetchTemplates(ctx context.Context) ([]models.MessageTemplate, error) {
	var templates []models.MessageTemplate
	if err := c.do(ctx, http.MethodGet, "/templates", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// FetchTemplate fetches a single template by id.
func (c *Client) FetchTemplate(ctx context.Context, id string) (*models.MessageTemplate, error) {
	var template models.MessageTemplate
	if err := c.do(ctx, http.MethodGet, "/templates/"+url.PathEscape(id), nil, &template); err != nil {
		return nil, err
	}
	return &template, nil
}

// CreateTemplate creates a template; the server assigns the id.
func (c *Client) CreateTemplate(ctx context.Context, template *models.MessageTemplate) (*models.MessageTemplate, error) {
	var created models.MessageTemplate
	if err := c.do(ctx, http.MethodPost, "/templates", template, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTemplate applies a partial update.
func (c *Client) UpdateTemplate(ctx context.Context, id string, patch *models.TemplatePatch) (*models.MessageTemplate, error) {
	var updated models.MessageTemplate
	if err := c.do(ctx, http.MethodPut, "/templates/"+url.PathEscape(id), patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTemplate removes the template server-side.
func (c *Client) DeleteTemplate(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/templates/"+url.PathEscape(id), nil, nil)
}
