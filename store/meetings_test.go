package store

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
)

func TestUpdateMeetingOfflinePatchOnlyQueue(t *testing.T) {
	s, database := newTestStore(t, nil)

	created := time.Now().UTC().Add(-24 * time.Hour).Truncate(time.Second)
	require.NoError(t, db.PutMeeting(database, &models.Meeting{
		ID:          "m1",
		ContactID:   "c1",
		UserID:      "u1",
		MeetingDate: created,
		Medium:      models.MediumPhoneCall,
		Notes:       "old",
		CreatedAt:   created,
		UpdatedAt:   created,
	}))

	notes := "new"
	merged, offline, err := s.UpdateMeeting(context.Background(), "m1", &models.MeetingPatch{Notes: &notes})
	require.NoError(t, err)
	assert.True(t, offline)
	assert.Equal(t, "new", merged.Notes)
	assert.Equal(t, models.MediumPhoneCall, merged.Medium)
	assert.True(t, merged.MeetingDate.Equal(created))
	assert.True(t, merged.UpdatedAt.After(created))

	pending, err := db.PendingChanges(database)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.OpUpdate, pending[0].Op)
	assert.Equal(t, models.KindMeeting, pending[0].Kind)
	assert.Equal(t, "m1", pending[0].EntityID)
	assert.JSONEq(t, `{"notes":"new"}`, string(pending[0].Payload))
}

func TestCreateMeetingOfflineBumpsLastContacted(t *testing.T) {
	s, database := newTestStore(t, nil)
	require.NoError(t, db.PutContact(database, &models.Contact{ID: "c1", UserID: "u1", Name: "Ada"}))

	when := time.Now().UTC().Truncate(time.Second)
	meeting, offline, err := s.CreateMeeting(context.Background(), &models.Meeting{
		ContactID:   "c1",
		UserID:      "u1",
		MeetingDate: when,
		Medium:      models.MediumInPerson,
	})
	require.NoError(t, err)
	assert.True(t, offline)
	assert.NotEmpty(t, meeting.ID)

	contact, err := db.GetContact(database, "c1")
	require.NoError(t, err)
	require.NotNil(t, contact)
	require.NotNil(t, contact.LastContactedAt)
	assert.True(t, contact.LastContactedAt.Equal(when))

	pending, err := db.PendingChanges(database)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.KindMeeting, pending[0].Kind)
}

func TestFetchMeetingsByContactFallsBack(t *testing.T) {
	s, database := newTestStore(t, nil)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, db.BulkPutMeetings(database, []models.Meeting{
		{ID: "m1", ContactID: "c1", UserID: "u1", MeetingDate: now, Medium: models.MediumEmail, CreatedAt: now, UpdatedAt: now},
		{ID: "m2", ContactID: "c2", UserID: "u1", MeetingDate: now, Medium: models.MediumEmail, CreatedAt: now, UpdatedAt: now},
	}))

	meetings, offline, err := s.FetchMeetings(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, offline)
	require.Len(t, meetings, 1)
	assert.Equal(t, "m1", meetings[0].ID)
}

func TestFetchTemplatesWriteThroughAndFallback(t *testing.T) {
	remote := []models.MessageTemplate{
		{ID: "t1", UserID: "u1", Name: "Ping", Type: models.TemplateFollowup, Content: "Hey {name}!"},
	}
	s, database := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(remote)
	}))

	templates, offline, err := s.FetchTemplates(context.Background())
	require.NoError(t, err)
	assert.False(t, offline)
	require.Len(t, templates, 1)

	cached, err := db.GetTemplate(database, "t1")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Hey {name}!", cached.Content)
}

func TestRenderTemplateUsesFirstName(t *testing.T) {
	s, _ := newTestStore(t, nil)

	template := &models.MessageTemplate{Type: models.TemplateBirthday, Content: "Happy birthday {name}!"}
	assert.Equal(t, "Happy birthday Ada!", s.RenderTemplate(template, "Ada Lovelace"))

	// Empty content falls back to a stock message for the type.
	blank := &models.MessageTemplate{Type: models.TemplateBirthday}
	assert.NotEmpty(t, s.RenderTemplate(blank, "Ada Lovelace"))
}

func TestGetMeetingFallsBackToCache(t *testing.T) {
	s, database := newTestStore(t, nil)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, db.PutMeeting(database, &models.Meeting{
		ID: "m1", ContactID: "c1", UserID: "u1", MeetingDate: now,
		Medium: models.MediumPhoneCall, CreatedAt: now, UpdatedAt: now,
	}))

	meeting, offline, err := s.GetMeeting(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, offline)
	assert.Equal(t, "m1", meeting.ID)

	_, offline, err = s.GetMeeting(context.Background(), "missing")
	assert.True(t, offline)
	assert.ErrorIs(t, err, ErrNotFound)
}
