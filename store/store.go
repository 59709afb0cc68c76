// ABOUTME: Entity synchronizer: remote-first reads and writes over a local cache
// ABOUTME: Falls back to the cache and the sync queue when the server is unreachable
package store

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/harperreed/kith/api"
	"github.com/harperreed/kith/db"
)

// ErrNotFound means the entity exists neither on the server nor in the
// local cache.
var ErrNotFound = errors.New("not found")

// Store coordinates the server API and the local cache. It is the only
// writer of the cache and the sync queue. Reads and mutations prefer the
// server; when it cannot be reached they fall back to the cache, queueing
// mutations for later replay.
type Store struct {
	db  *sql.DB
	api *api.Client
	log zerolog.Logger

	mu        sync.Mutex
	selected  string
	subs      map[int]func(Event)
	nextSubID int
}

// New builds a Store over an open database and API client.
func New(database *sql.DB, client *api.Client, log zerolog.Logger) *Store {
	return &Store{
		db:   database,
		api:  client,
		log:  log,
		subs: make(map[int]func(Event)),
	}
}

// API exposes the underlying client for online-only surfaces.
func (s *Store) API() *api.Client { return s.api }

// DB exposes the underlying database handle, mainly for the drainer.
func (s *Store) DB() *sql.DB { return s.db }

// fallsBack decides whether a failed remote create or update is queued for
// later replay. Server-side rejections and dead credentials would fail the
// same way on replay, so they surface instead; cache failures mean local
// state cannot be trusted either. Deletes skip this check: they apply
// locally and queue on any remote failure.
func fallsBack(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, api.ErrSessionExpired) || api.IsValidation(err) {
		return false
	}
	var serr *db.StorageError
	return !errors.As(err, &serr)
}

// SetSelectedContact records which contact the UI is focused on. Pass the
// empty string to clear.
func (s *Store) SetSelectedContact(id string) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
}

// SelectedContact returns the focused contact id, empty when none.
func (s *Store) SelectedContact() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// dropSelectionIf clears the selection when it points at the given id.
func (s *Store) dropSelectionIf(id string) {
	s.mu.Lock()
	if s.selected == id {
		s.selected = ""
	}
	s.mu.Unlock()
}

// retargetSelection follows an id change, as when the server assigns the
// canonical id for an offline-created contact.
func (s *Store) retargetSelection(oldID, newID string) {
	s.mu.Lock()
	if s.selected == oldID {
		s.selected = newID
	}
	s.mu.Unlock()
}
