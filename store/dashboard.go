// ABOUTME: Dashboard aggregates with a degraded local fallback
// ABOUTME: Charts stay online-only; headline stats are recomputed from cache
package store

import (
	"context"
	"time"

	"github.com/harperreed/kith/api"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
)

const (
	defaultOccasionWindowDays = 30
	needsAttentionAfter       = 90 * 24 * time.Hour
	recentlyContactedLimit    = 5
)

// Stats returns the dashboard aggregates. The server computes the
// authoritative version; when it is unreachable a degraded version is
// derived from the cache.
func (s *Store) Stats(ctx context.Context) (*models.DashboardStats, bool, error) {
	stats, err := s.api.Stats(ctx)
	if err == nil {
		return stats, false, nil
	}

	s.log.Warn().Err(err).Msg("dashboard unavailable, computing from cache")
	local, lerr := s.localStats()
	if lerr != nil {
		return nil, false, lerr
	}
	return local, true, nil
}

func (s *Store) localStats() (*models.DashboardStats, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	total, err := db.CountContacts(s.db)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	thisMonth, err := db.MeetingsBetween(s.db, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	contacts, err := db.ListContacts(s.db)
	if err != nil {
		return nil, err
	}

	birthdayWindow, anniversaryWindow := s.occasionWindows()
	var birthdays, anniversaries []models.Contact
	for _, contact := range contacts {
		if contact.Birthday != nil && contact.Birthday.WithinDays(today, birthdayWindow) {
			birthdays = append(birthdays, contact)
		}
		if contact.Anniversary != nil && contact.Anniversary.WithinDays(today, anniversaryWindow) {
			anniversaries = append(anniversaries, contact)
		}
	}

	followups, err := db.UpcomingFollowups(s.db, today)
	if err != nil {
		return nil, err
	}

	recent, err := db.RecentlyContacted(s.db, recentlyContactedLimit)
	if err != nil {
		return nil, err
	}

	attention, err := db.NotContactedSince(s.db, now.Add(-needsAttentionAfter))
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalContacts:         total,
		MeetingsThisMonth:     len(thisMonth),
		UpcomingBirthdays:     birthdays,
		UpcomingAnniversaries: anniversaries,
		PendingFollowups:      followups,
		RecentlyContacted:     recent,
		NeedsAttention:        attention,
	}, nil
}

// occasionWindows derives the look-ahead windows from the signed-in user's
// settings, with sensible defaults when signed out.
func (s *Store) occasionWindows() (birthday, anniversary int) {
	birthday, anniversary = defaultOccasionWindowDays, defaultOccasionWindowDays
	user := s.CurrentUser()
	if user == nil {
		return birthday, anniversary
	}
	if user.Settings.BirthdayReminderDays > 0 {
		birthday = user.Settings.BirthdayReminderDays
	}
	if user.Settings.AnniversaryReminderDays > 0 {
		anniversary = user.Settings.AnniversaryReminderDays
	}
	return birthday, anniversary
}

// MeetingsChart returns the weekly meeting counts, online-only.
func (s *Store) MeetingsChart(ctx context.Context) ([]api.ChartPoint, error) {
	return s.api.MeetingsChart(ctx)
}

// MediumBreakdown returns meeting counts by medium, online-only.
func (s *Store) MediumBreakdown(ctx context.Context) ([]api.ChartPoint, error) {
	return s.api.MediumBreakdown(ctx)
}

// ContactsOverTime returns cumulative contact counts, online-only.
func (s *Store) ContactsOverTime(ctx context.Context) ([]api.ChartPoint, error) {
	return s.api.ContactsOverTime(ctx)
}
