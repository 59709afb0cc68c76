// ABOUTME: Meeting endpoints of the server API
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/harperreed/kith/models"
)

// FetchMeetings lists every logged meeting.
func (c *Client) FetchMeetings(ctx context.Context) ([]models.Meeting, error) {
	var meetings []models.Meeting
	if err := c.do(ctx, http.MethodGet, "/meetings", nil, &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

// FetchMeeting fetches a single meeting by id.
func (c *Client) FetchMeeting(ctx context.Context, id string) (*models.Meeting, error) {
	var meeting models.Meeting
	if err := c.do(ctx, http.MethodGet, "/meetings/"+url.PathEscape(id), nil, &meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}

// MeetingsForContact lists meetings logged against one contact.
func (c *Client) MeetingsForContact(ctx context.Context, contactID string) ([]models.Meeting, error) {
	var meetings []models.Meeting
	if err := c.do(ctx, http.MethodGet, "/meetings/contact/"+url.PathEscape(contactID), nil, &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

// Followups lists meetings with an open follow-up date.
func (c *Client) Followups(ctx context.Context) ([]models.Meeting, error) {
	var meetings []models.Meeting
	if err := c.do(ctx, http.MethodGet, "/meetings/followups", nil, &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

// CreateMeeting logs a meeting. The server assigns the canonical id and may
// also bump the contact's last-contacted timestamp.
func (c *Client) CreateMeeting(ctx context.Context, meeting *models.Meeting) (*models.Meeting, error) {
	var created models.Meeting
	if err := c.do(ctx, http.MethodPost, "/meetings", meeting, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateMeeting applies a partial update.
func (c *Client) UpdateMeeting(ctx context.Context, id string, patch *models.MeetingPatch) (*models.Meeting, error) {
	var updated models.Meeting
	if err := c.do(ctx, http.MethodPut, "/meetings/"+url.PathEscape(id), patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteMeeting removes the meeting server-side.
func (c *Client) DeleteMeeting(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/meetings/"+url.PathEscape(id), nil, nil)
}
