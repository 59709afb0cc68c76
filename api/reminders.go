// ABOUTME: Reminder endpoints of the server API
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/harperreed/kith/models"
)

// FetchReminders lists every reminder the server has scheduled.
func (c *Client) FetchReminders(ctx context.Context) ([]models.Reminder, error) {
	var reminders []models.Reminder
	if err := c.do(ctx, http.MethodGet, "/reminders", nil, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

// PendingReminders lists reminders that have not fired or been dismissed.
func (c *Client) PendingReminders(ctx context.Context) ([]models.Reminder, error) {
	var reminders []models.Reminder
	if err := c.do(ctx, http.MethodGet, "/reminders/pending", nil, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

// DismissReminder marks the reminder dismissed server-side.
func (c *Client) DismissReminder(ctx context.Context, id string) (*models.Reminder, error) {
	var dismissed models.Reminder
	if err := c.do(ctx, http.MethodPut, "/reminders/"+url.PathEscape(id)+"/dismiss", nil, &dismissed); err != nil {
		return nil, err
	}
	return &dismissed, nil
}
