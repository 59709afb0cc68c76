// ABOUTME: Reminder operations: server-driven, cached for offline reading
package store

import (
	"context"
	"time"

	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
)

// FetchReminders lists reminders, caching them for offline reads.
func (s *Store) FetchReminders(ctx context.Context) ([]models.Reminder, bool, error) {
	reminders, err := s.api.FetchReminders(ctx)
	if err == nil {
		if err := db.BulkPutReminders(s.db, reminders); err != nil {
			return nil, false, err
		}
		return reminders, false, nil
	}

	local, lerr := db.ListReminders(s.db)
	if lerr != nil {
		return nil, false, lerr
	}
	return local, true, nil
}

// PendingReminders lists reminders that have not fired, degrading to the
// cached pending set.
func (s *Store) PendingReminders(ctx context.Context) ([]models.Reminder, bool, error) {
	reminders, err := s.api.PendingReminders(ctx)
	if err == nil {
		if err := db.BulkPutReminders(s.db, reminders); err != nil {
			return nil, false, err
		}
		return reminders, false, nil
	}

	local, lerr := db.PendingReminders(s.db, time.Now().UTC())
	if lerr != nil {
		return nil, false, lerr
	}
	return local, true, nil
}

// DismissReminder dismisses a reminder. Dismissal is server-owned: there
// is no offline fallback, the error surfaces to the caller.
func (s *Store) DismissReminder(ctx context.Context, id string) (*models.Reminder, error) {
	dismissed, err := s.api.DismissReminder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := db.PutReminder(s.db, dismissed); err != nil {
		return nil, err
	}
	s.publish(Event{Kind: models.KindReminder, Op: models.OpUpdate, ID: id})
	return dismissed, nil
}
