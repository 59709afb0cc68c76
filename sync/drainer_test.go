package sync

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/kith/api"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
)

func newTestDrainer(t *testing.T, handler http.Handler) (*Drainer, *sql.DB) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.New(server.URL, api.WithSession(&api.Session{
		User: models.User{ID: "u1", Name: "Ada"},
	}))
	return NewDrainer(database, client, zerolog.Nop()), database
}

func enqueueJSON(t *testing.T, database *sql.DB, op, kind, id string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	_, err = db.EnqueueChange(database, op, kind, id, data)
	require.NoError(t, err)
}

func TestDrainReconcilesServerAssignedIDs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /contacts", func(w http.ResponseWriter, r *http.Request) {
		var contact models.Contact
		require.NoError(t, json.NewDecoder(r.Body).Decode(&contact))
		contact.ID = "srv-1"
		_ = json.NewEncoder(w).Encode(contact)
	})
	mux.HandleFunc("PUT /contacts/srv-1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.Contact{ID: "srv-1", UserID: "u1", Name: "Ada", Company: "Babbage & Co"})
	})
	mux.HandleFunc("POST /meetings", func(w http.ResponseWriter, r *http.Request) {
		var meeting models.Meeting
		require.NoError(t, json.NewDecoder(r.Body).Decode(&meeting))
		// The queued payload must arrive with the reconciled contact id.
		assert.Equal(t, "srv-1", meeting.ContactID)
		meeting.ID = "srv-m1"
		_ = json.NewEncoder(w).Encode(meeting)
	})

	d, database := newTestDrainer(t, mux)

	now := time.Now().UTC().Truncate(time.Second)
	temp := models.Contact{ID: "tmp-1", UserID: "u1", Name: "Ada", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, db.PutContact(database, &temp))
	tempMeeting := models.Meeting{ID: "tmp-m1", ContactID: "tmp-1", UserID: "u1", MeetingDate: now, Medium: models.MediumEmail, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, db.PutMeeting(database, &tempMeeting))

	company := "Babbage & Co"
	enqueueJSON(t, database, models.OpCreate, models.KindContact, "tmp-1", &temp)
	enqueueJSON(t, database, models.OpUpdate, models.KindContact, "tmp-1", &models.ContactPatch{Company: &company})
	enqueueJSON(t, database, models.OpCreate, models.KindMeeting, "tmp-m1", &tempMeeting)

	var notified []string
	d.Notify = func(kind, op, id string) { notified = append(notified, kind+"/"+op+"/"+id) }

	applied, err := d.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, applied)

	remaining, err := db.PendingCount(database)
	require.NoError(t, err)
	assert.Zero(t, remaining)

	// Temporary ids are gone; the server ids are canonical everywhere.
	gone, err := db.GetContact(database, "tmp-1")
	require.NoError(t, err)
	assert.Nil(t, gone)
	contact, err := db.GetContact(database, "srv-1")
	require.NoError(t, err)
	require.NotNil(t, contact)
	assert.Equal(t, "Babbage & Co", contact.Company)

	meetings, err := db.MeetingsByContact(database, "srv-1")
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, "srv-m1", meetings[0].ID)

	assert.Equal(t, []string{
		"contact/create/srv-1",
		"contact/update/srv-1",
		"meeting/create/srv-m1",
	}, notified)
}

func TestDrainStopsAtFirstFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /contacts/c1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /contacts/c2", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	d, database := newTestDrainer(t, mux)
	_, err := db.EnqueueChange(database, models.OpDelete, models.KindContact, "c1", nil)
	require.NoError(t, err)
	_, err = db.EnqueueChange(database, models.OpDelete, models.KindContact, "c2", nil)
	require.NoError(t, err)
	_, err = db.EnqueueChange(database, models.OpDelete, models.KindContact, "c3", nil)
	require.NoError(t, err)

	applied, err := d.Drain(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, applied)

	// c1 confirmed and removed; c2 and c3 still queued, in order.
	pending, perr := db.PendingChanges(database)
	require.NoError(t, perr)
	require.Len(t, pending, 2)
	assert.Equal(t, "c2", pending[0].EntityID)
	assert.Equal(t, "c3", pending[1].EntityID)
}

func TestDrainTreatsMissingDeleteTargetAsDone(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /meetings/m1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "not found"})
	})

	d, database := newTestDrainer(t, mux)
	_, err := db.EnqueueChange(database, models.OpDelete, models.KindMeeting, "m1", nil)
	require.NoError(t, err)

	applied, err := d.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	remaining, err := db.PendingCount(database)
	require.NoError(t, err)
	assert.Zero(t, remaining)
}

func TestDrainEmptyQueueIsNoop(t *testing.T) {
	d, _ := newTestDrainer(t, http.NewServeMux())

	applied, err := d.Drain(context.Background())
	require.NoError(t, err)
	assert.Zero(t, applied)
}
