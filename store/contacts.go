// ABOUTME: Contact operations with offline fallback
// ABOUTME: Remote-first CRUD; queues mutations when the server is unreachable
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
)

// FetchContacts lists contacts, preferring the server. On success the
// cache is updated in place. offline is true when the result came from the
// cache because the server could not deliver.
func (s *Store) FetchContacts(ctx context.Context) ([]models.Contact, bool, error) {
	contacts, err := s.api.FetchContacts(ctx)
	if err == nil {
		if err := db.BulkPutContacts(s.db, contacts); err != nil {
			return nil, false, err
		}
		return contacts, false, nil
	}

	s.log.Warn().Err(err).Msg("contact list unavailable, using cache")
	local, lerr := db.ListContacts(s.db)
	if lerr != nil {
		return nil, false, lerr
	}
	return local, true, nil
}

// GetContact fetches one contact, falling back to the cache. The fetched
// contact becomes the selected one. Returns ErrNotFound when the contact
// is unknown both remotely and locally.
func (s *Store) GetContact(ctx context.Context, id string) (*models.Contact, bool, error) {
	contact, err := s.api.FetchContact(ctx, id)
	if err == nil {
		if err := db.PutContact(s.db, contact); err != nil {
			return nil, false, err
		}
		s.SetSelectedContact(contact.ID)
		return contact, false, nil
	}

	local, lerr := db.GetContact(s.db, id)
	if lerr != nil {
		return nil, false, lerr
	}
	if local == nil {
		return nil, true, ErrNotFound
	}
	s.SetSelectedContact(local.ID)
	return local, true, nil
}

// SearchContacts runs a server-side search, degrading to a cache query on
// name, company, and tags.
func (s *Store) SearchContacts(ctx context.Context, query string, tags []string) ([]models.Contact, bool, error) {
	contacts, err := s.api.SearchContacts(ctx, query, tags)
	if err == nil {
		return contacts, false, nil
	}

	local, lerr := db.FindContacts(s.db, query, tags)
	if lerr != nil {
		return nil, false, lerr
	}
	return local, true, nil
}

// CreateContact creates a contact on the server. When the server cannot be
// reached the contact is stored locally under a temporary id and queued;
// the server assigns the canonical id on replay.
func (s *Store) CreateContact(ctx context.Context, contact *models.Contact) (*models.Contact, bool, error) {
	created, err := s.api.CreateContact(ctx, contact)
	if err == nil {
		if err := db.PutContact(s.db, created); err != nil {
			return nil, false, err
		}
		s.publish(Event{Kind: models.KindContact, Op: models.OpCreate, ID: created.ID})
		return created, false, nil
	}
	if !fallsBack(err) {
		return nil, false, err
	}

	now := time.Now().UTC()
	local := *contact
	local.ID = uuid.NewString()
	local.CreatedAt = now
	local.UpdatedAt = now
	if err := db.PutContact(s.db, &local); err != nil {
		return nil, false, err
	}
	payload, err := json.Marshal(&local)
	if err != nil {
		return nil, false, err
	}
	if _, err := db.EnqueueChange(s.db, models.OpCreate, models.KindContact, local.ID, payload); err != nil {
		return nil, false, err
	}
	s.log.Info().Str("id", local.ID).Msg("contact created offline, queued for sync")
	s.publish(Event{Kind: models.KindContact, Op: models.OpCreate, ID: local.ID})
	return &local, true, nil
}

// UpdateContact applies a partial update. Offline, the patch is merged
// into the cached contact and queued as-is so the replay sends only the
// fields that changed.
func (s *Store) UpdateContact(ctx context.Context, id string, patch *models.ContactPatch) (*models.Contact, bool, error) {
	updated, err := s.api.UpdateContact(ctx, id, patch)
	if err == nil {
		if err := db.PutContact(s.db, updated); err != nil {
			return nil, false, err
		}
		s.publish(Event{Kind: models.KindContact, Op: models.OpUpdate, ID: id})
		return updated, false, nil
	}
	if !fallsBack(err) {
		return nil, false, err
	}

	existing, lerr := db.GetContact(s.db, id)
	if lerr != nil {
		return nil, false, lerr
	}
	if existing == nil {
		return nil, true, ErrNotFound
	}
	patch.Apply(existing)
	existing.UpdatedAt = time.Now().UTC()
	if err := db.PutContact(s.db, existing); err != nil {
		return nil, false, err
	}
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, false, err
	}
	if _, err := db.EnqueueChange(s.db, models.OpUpdate, models.KindContact, id, payload); err != nil {
		return nil, false, err
	}
	s.publish(Event{Kind: models.KindContact, Op: models.OpUpdate, ID: id})
	return existing, true, nil
}

// DeleteContact removes the contact locally no matter what; when the
// server did not confirm, the delete is queued for replay. A deleted
// contact never resurfaces from this client.
func (s *Store) DeleteContact(ctx context.Context, id string) (bool, error) {
	err := s.api.DeleteContact(ctx, id)

	if derr := db.DeleteContact(s.db, id); derr != nil {
		return false, derr
	}
	offline := err != nil
	if offline {
		if _, qerr := db.EnqueueChange(s.db, models.OpDelete, models.KindContact, id, nil); qerr != nil {
			return false, qerr
		}
		s.log.Info().Str("id", id).Msg("contact deleted offline, queued for sync")
	}
	s.dropSelectionIf(id)
	s.publish(Event{Kind: models.KindContact, Op: models.OpDelete, ID: id})
	return offline, nil
}
