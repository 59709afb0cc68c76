// ABOUTME: Meeting operations with offline fallback
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
)

// FetchMeetings lists meetings, preferring the server. Pass an empty
// contactID for all meetings.
func (s *Store) FetchMeetings(ctx context.Context, contactID string) ([]models.Meeting, bool, error) {
	var (
		meetings []models.Meeting
		err      error
	)
	if contactID != "" {
		meetings, err = s.api.MeetingsForContact(ctx, contactID)
	} else {
		meetings, err = s.api.FetchMeetings(ctx)
	}
	if err == nil {
		if err := db.BulkPutMeetings(s.db, meetings); err != nil {
			return nil, false, err
		}
		return meetings, false, nil
	}

	s.log.Warn().Err(err).Msg("meeting list unavailable, using cache")
	var local []models.Meeting
	var lerr error
	if contactID != "" {
		local, lerr = db.MeetingsByContact(s.db, contactID)
	} else {
		local, lerr = db.ListMeetings(s.db)
	}
	if lerr != nil {
		return nil, false, lerr
	}
	return local, true, nil
}

// GetMeeting fetches one meeting, falling back to the cache. Returns
// ErrNotFound when the meeting is unknown both remotely and locally.
func (s *Store) GetMeeting(ctx context.Context, id string) (*models.Meeting, bool, error) {
	meeting, err := s.api.FetchMeeting(ctx, id)
	if err == nil {
		if err := db.PutMeeting(s.db, meeting); err != nil {
			return nil, false, err
		}
		return meeting, false, nil
	}

	local, lerr := db.GetMeeting(s.db, id)
	if lerr != nil {
		return nil, false, lerr
	}
	if local == nil {
		return nil, true, ErrNotFound
	}
	return local, true, nil
}

// UpcomingFollowups lists meetings that still need a follow-up, degrading
// to the cached meetings with a follow-up date from today on.
func (s *Store) UpcomingFollowups(ctx context.Context) ([]models.Meeting, bool, error) {
	followups, err := s.api.Followups(ctx)
	if err == nil {
		return followups, false, nil
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	local, lerr := db.UpcomingFollowups(s.db, today)
	if lerr != nil {
		return nil, false, lerr
	}
	return local, true, nil
}

// CreateMeeting logs a meeting, queueing it when the server is
// unreachable. The contact's last-contacted stamp is bumped locally so the
// cache reflects the interaction right away.
func (s *Store) CreateMeeting(ctx context.Context, meeting *models.Meeting) (*models.Meeting, bool, error) {
	created, err := s.api.CreateMeeting(ctx, meeting)
	if err == nil {
		if err := db.PutMeeting(s.db, created); err != nil {
			return nil, false, err
		}
		s.touchContact(created.ContactID, created.MeetingDate)
		s.publish(Event{Kind: models.KindMeeting, Op: models.OpCreate, ID: created.ID})
		return created, false, nil
	}
	if !fallsBack(err) {
		return nil, false, err
	}

	now := time.Now().UTC()
	local := *meeting
	local.ID = uuid.NewString()
	local.CreatedAt = now
	local.UpdatedAt = now
	if err := db.PutMeeting(s.db, &local); err != nil {
		return nil, false, err
	}
	payload, err := json.Marshal(&local)
	if err != nil {
		return nil, false, err
	}
	if _, err := db.EnqueueChange(s.db, models.OpCreate, models.KindMeeting, local.ID, payload); err != nil {
		return nil, false, err
	}
	s.touchContact(local.ContactID, local.MeetingDate)
	s.log.Info().Str("id", local.ID).Msg("meeting logged offline, queued for sync")
	s.publish(Event{Kind: models.KindMeeting, Op: models.OpCreate, ID: local.ID})
	return &local, true, nil
}

// touchContact advances the cached contact's last-contacted stamp. Purely
// a cache refinement; the server recomputes it authoritatively.
func (s *Store) touchContact(contactID string, at time.Time) {
	contact, err := db.GetContact(s.db, contactID)
	if err != nil || contact == nil {
		return
	}
	if contact.LastContactedAt == nil || contact.LastContactedAt.Before(at) {
		contact.LastContactedAt = &at
		if err := db.PutContact(s.db, contact); err != nil {
			s.log.Warn().Err(err).Str("id", contactID).Msg("failed to bump last-contacted stamp")
		}
	}
}

// UpdateMeeting applies a partial update, merging into the cache and
// queueing the patch when offline.
func (s *Store) UpdateMeeting(ctx context.Context, id string, patch *models.MeetingPatch) (*models.Meeting, bool, error) {
	updated, err := s.api.UpdateMeeting(ctx, id, patch)
	if err == nil {
		if err := db.PutMeeting(s.db, updated); err != nil {
			return nil, false, err
		}
		s.publish(Event{Kind: models.KindMeeting, Op: models.OpUpdate, ID: id})
		return updated, false, nil
	}
	if !fallsBack(err) {
		return nil, false, err
	}

	existing, lerr := db.GetMeeting(s.db, id)
	if lerr != nil {
		return nil, false, lerr
	}
	if existing == nil {
		return nil, true, ErrNotFound
	}
	patch.Apply(existing)
	existing.UpdatedAt = time.Now().UTC()
	if err := db.PutMeeting(s.db, existing); err != nil {
		return nil, false, err
	}
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, false, err
	}
	if _, err := db.EnqueueChange(s.db, models.OpUpdate, models.KindMeeting, id, payload); err != nil {
		return nil, false, err
	}
	s.publish(Event{Kind: models.KindMeeting, Op: models.OpUpdate, ID: id})
	return existing, true, nil
}

// DeleteMeeting removes the meeting locally no matter what; the delete is
// queued when the server did not confirm it.
func (s *Store) DeleteMeeting(ctx context.Context, id string) (bool, error) {
	err := s.api.DeleteMeeting(ctx, id)

	if derr := db.DeleteMeeting(s.db, id); derr != nil {
		return false, derr
	}
	offline := err != nil
	if offline {
		if _, qerr := db.EnqueueChange(s.db, models.OpDelete, models.KindMeeting, id, nil); qerr != nil {
			return false, qerr
		}
	}
	s.publish(Event{Kind: models.KindMeeting, Op: models.OpDelete, ID: id})
	return offline, nil
}
