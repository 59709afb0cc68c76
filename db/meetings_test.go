package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/kith/models"
)

func testMeeting(id, contactID string, date time.Time) models.Meeting {
	return models.Meeting{
		ID:          id,
		ContactID:   contactID,
		UserID:      "u1",
		MeetingDate: date,
		Medium:      models.MediumPhoneCall,
		CreatedAt:   date,
		UpdatedAt:   date,
	}
}

func TestMeetingRoundTrip(t *testing.T) {
	database := openTestDB(t)

	now := time.Now().UTC().Truncate(time.Second)
	followup := now.AddDate(0, 0, 7)
	meeting := testMeeting("m1", "c1", now)
	meeting.Notes = "caught up over coffee"
	meeting.Outcome = "schedule a demo"
	meeting.FollowupDate = &followup

	require.NoError(t, PutMeeting(database, &meeting))

	got, err := GetMeeting(database, "m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "caught up over coffee", got.Notes)
	require.NotNil(t, got.FollowupDate)
	assert.True(t, got.FollowupDate.Equal(followup))

	missing, err := GetMeeting(database, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListMeetingsNewestFirst(t *testing.T) {
	database := openTestDB(t)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, BulkPutMeetings(database, []models.Meeting{
		testMeeting("m1", "c1", now.AddDate(0, 0, -10)),
		testMeeting("m2", "c1", now),
		testMeeting("m3", "c2", now.AddDate(0, 0, -5)),
	}))

	meetings, err := ListMeetings(database)
	require.NoError(t, err)
	require.Len(t, meetings, 3)
	assert.Equal(t, "m2", meetings[0].ID)
	assert.Equal(t, "m3", meetings[1].ID)
	assert.Equal(t, "m1", meetings[2].ID)

	byContact, err := MeetingsByContact(database, "c1")
	require.NoError(t, err)
	assert.Len(t, byContact, 2)
}

func TestUpcomingFollowups(t *testing.T) {
	database := openTestDB(t)

	now := time.Now().UTC().Truncate(time.Second)
	past := now.AddDate(0, 0, -3)
	future := now.AddDate(0, 0, 3)

	withPast := testMeeting("m1", "c1", now.AddDate(0, 0, -30))
	withPast.FollowupDate = &past
	withFuture := testMeeting("m2", "c1", now.AddDate(0, 0, -20))
	withFuture.FollowupDate = &future
	without := testMeeting("m3", "c2", now)
	require.NoError(t, BulkPutMeetings(database, []models.Meeting{withPast, withFuture, without}))

	upcoming, err := UpcomingFollowups(database, now)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "m2", upcoming[0].ID)
}

func TestMeetingsBetween(t *testing.T) {
	database := openTestDB(t)

	now := time.Now().UTC().Truncate(time.Second)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, BulkPutMeetings(database, []models.Meeting{
		testMeeting("m1", "c1", monthStart.Add(time.Hour)),
		testMeeting("m2", "c1", monthStart.AddDate(0, -1, 0)),
	}))

	inRange, err := MeetingsBetween(database, monthStart, monthStart.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, "m1", inRange[0].ID)
}

func TestDeleteMeeting(t *testing.T) {
	database := openTestDB(t)

	now := time.Now().UTC().Truncate(time.Second)
	meeting := testMeeting("m1", "c1", now)
	require.NoError(t, PutMeeting(database, &meeting))
	require.NoError(t, DeleteMeeting(database, "m1"))

	got, err := GetMeeting(database, "m1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
