package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/kith/api"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
)

func newTestStore(t *testing.T, handler http.Handler) (*Store, *sql.DB) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	var baseURL string
	if handler != nil {
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)
		baseURL = server.URL
	} else {
		// Nothing listening: every request is a network failure.
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close()
		baseURL = server.URL
	}

	client := api.New(baseURL, api.WithSession(&api.Session{
		User: models.User{ID: "u1", Name: "Ada"},
	}))
	return New(database, client, zerolog.Nop()), database
}

func TestFetchContactsWritesThrough(t *testing.T) {
	remote := []models.Contact{
		{ID: "c1", UserID: "u1", Name: "Grace"},
		{ID: "c2", UserID: "u1", Name: "Alan"},
		{ID: "c3", UserID: "u1", Name: "Joan"},
	}
	s, database := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(remote)
	}))

	// A contact cached earlier but absent from the response stays cached.
	require.NoError(t, db.PutContact(database, &models.Contact{ID: "c0", UserID: "u1", Name: "Old"}))

	contacts, offline, err := s.FetchContacts(context.Background())
	require.NoError(t, err)
	assert.False(t, offline)
	assert.Len(t, contacts, 3)

	cached, err := db.ListContacts(database)
	require.NoError(t, err)
	assert.Len(t, cached, 4)
}

func TestFetchContactsFallsBackToCache(t *testing.T) {
	s, database := newTestStore(t, nil)
	require.NoError(t, db.PutContact(database, &models.Contact{ID: "c1", UserID: "u1", Name: "Grace"}))

	contacts, offline, err := s.FetchContacts(context.Background())
	require.NoError(t, err)
	assert.True(t, offline)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Grace", contacts[0].Name)
}

func TestFetchContactsEmptyCacheOffline(t *testing.T) {
	s, _ := newTestStore(t, nil)

	contacts, offline, err := s.FetchContacts(context.Background())
	require.NoError(t, err)
	assert.True(t, offline)
	assert.Empty(t, contacts)
}

func TestCreateContactOfflineQueuesCreate(t *testing.T) {
	s, database := newTestStore(t, nil)

	created, offline, err := s.CreateContact(context.Background(), &models.Contact{Name: "Ada"})
	require.NoError(t, err)
	assert.True(t, offline)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	// The generated id is stable across reads until a sync reconciles it.
	cached, err := db.ListContacts(database)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, created.ID, cached[0].ID)
	assert.Equal(t, "Ada", cached[0].Name)

	pending, err := db.PendingChanges(database)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.OpCreate, pending[0].Op)
	assert.Equal(t, models.KindContact, pending[0].Kind)
	assert.Equal(t, created.ID, pending[0].EntityID)

	var queued models.Contact
	require.NoError(t, json.Unmarshal(pending[0].Payload, &queued))
	assert.Equal(t, "Ada", queued.Name)
}

func TestCreateContactValidationSurfaces(t *testing.T) {
	s, database := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "name is required"})
	}))

	_, _, err := s.CreateContact(context.Background(), &models.Contact{})
	require.Error(t, err)
	assert.True(t, api.IsValidation(err))

	// A rejected create is neither cached nor queued.
	count, err := db.CountContacts(database)
	require.NoError(t, err)
	assert.Zero(t, count)
	queued, err := db.PendingCount(database)
	require.NoError(t, err)
	assert.Zero(t, queued)
}

func TestUpdateContactOfflineMergesPatch(t *testing.T) {
	s, database := newTestStore(t, nil)

	created := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, db.PutContact(database, &models.Contact{
		ID:        "c1",
		UserID:    "u1",
		Name:      "Ada",
		Emails:    []string{"ada@example.com"},
		Phones:    []string{},
		Tags:      []string{"friend"},
		Company:   "Analytical Engines",
		CreatedAt: created,
		UpdatedAt: created,
	}))

	company := "Babbage & Co"
	merged, offline, err := s.UpdateContact(context.Background(), "c1", &models.ContactPatch{Company: &company})
	require.NoError(t, err)
	assert.True(t, offline)

	// Exactly the patched field changed; updatedAt advanced.
	assert.Equal(t, "Babbage & Co", merged.Company)
	assert.Equal(t, "Ada", merged.Name)
	assert.Equal(t, []string{"ada@example.com"}, merged.Emails)
	assert.Equal(t, []string{"friend"}, merged.Tags)
	assert.True(t, merged.UpdatedAt.After(created))

	pending, err := db.PendingChanges(database)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.OpUpdate, pending[0].Op)
	assert.Equal(t, "c1", pending[0].EntityID)
	assert.JSONEq(t, `{"company":"Babbage & Co"}`, string(pending[0].Payload))
}

func TestUpdateContactOfflineMissing(t *testing.T) {
	s, _ := newTestStore(t, nil)

	name := "Nobody"
	_, _, err := s.UpdateContact(context.Background(), "ghost", &models.ContactPatch{Name: &name})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteContactOfflineQueuesExactlyOneDelete(t *testing.T) {
	s, database := newTestStore(t, nil)
	require.NoError(t, db.PutContact(database, &models.Contact{ID: "c1", UserID: "u1", Name: "Ada"}))
	s.SetSelectedContact("c1")

	offline, err := s.DeleteContact(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, offline)

	// Locally irreversible: absent from all subsequent reads.
	got, err := db.GetContact(database, "c1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, s.SelectedContact())

	pending, err := db.ChangesForEntity(database, "c1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.OpDelete, pending[0].Op)
}

func TestDeleteContactRejectedRemotelyStillDeletesLocally(t *testing.T) {
	s, database := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "contact is shared"})
	}))
	require.NoError(t, db.PutContact(database, &models.Contact{ID: "c1", UserID: "u1", Name: "Ada"}))

	// A rejected remote delete still removes the row and queues the replay.
	offline, err := s.DeleteContact(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, offline)

	got, err := db.GetContact(database, "c1")
	require.NoError(t, err)
	assert.Nil(t, got)

	pending, err := db.ChangesForEntity(database, "c1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.OpDelete, pending[0].Op)
}

func TestDeleteContactOnlineDoesNotQueue(t *testing.T) {
	s, database := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	require.NoError(t, db.PutContact(database, &models.Contact{ID: "c1", UserID: "u1", Name: "Ada"}))

	offline, err := s.DeleteContact(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, offline)

	queued, err := db.PendingCount(database)
	require.NoError(t, err)
	assert.Zero(t, queued)
}

func TestOfflineMutationsQueueInOrder(t *testing.T) {
	s, database := newTestStore(t, nil)
	ctx := context.Background()

	created, _, err := s.CreateContact(ctx, &models.Contact{Name: "Ada"})
	require.NoError(t, err)
	company := "Analytical Engines"
	_, _, err = s.UpdateContact(ctx, created.ID, &models.ContactPatch{Company: &company})
	require.NoError(t, err)
	require.NoError(t, db.PutContact(database, &models.Contact{ID: "c2", UserID: "u1", Name: "Grace"}))
	_, err = s.DeleteContact(ctx, "c2")
	require.NoError(t, err)

	pending, err := db.PendingChanges(database)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, models.OpCreate, pending[0].Op)
	assert.Equal(t, models.OpUpdate, pending[1].Op)
	assert.Equal(t, models.OpDelete, pending[2].Op)
	assert.Equal(t, created.ID, pending[0].EntityID)
	assert.Equal(t, created.ID, pending[1].EntityID)
	assert.Equal(t, "c2", pending[2].EntityID)
}

func TestSubscribePublishesEvents(t *testing.T) {
	s, _ := newTestStore(t, nil)

	var events []Event
	unsubscribe := s.Subscribe(func(ev Event) { events = append(events, ev) })

	created, _, err := s.CreateContact(context.Background(), &models.Contact{Name: "Ada"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, Event{Kind: models.KindContact, Op: models.OpCreate, ID: created.ID}, events[0])

	unsubscribe()
	_, err = s.DeleteContact(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
