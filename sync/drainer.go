// ABOUTME: Replays queued offline mutations against the server in order
// ABOUTME: Reconciles temporary ids with server-assigned ids on create
package sync

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/harperreed/kith/api"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
)

// Drainer replays the sync queue. Entries are applied strictly in
// insertion order and removed only after the server confirms them; the
// first failure stops the pass so nothing is skipped or reordered.
type Drainer struct {
	db  *sql.DB
	api *api.Client
	log zerolog.Logger

	// Notify, when set, is called after each confirmed replay so views
	// can refresh. Create replays report the server-assigned id.
	Notify func(kind, op, id string)
}

// NewDrainer builds a Drainer over an open database and API client.
func NewDrainer(database *sql.DB, client *api.Client, log zerolog.Logger) *Drainer {
	return &Drainer{db: database, api: client, log: log}
}

// Drain replays every pending queue entry. It returns how many entries
// were confirmed; on failure the remaining entries stay queued for the
// next pass.
func (d *Drainer) Drain(ctx context.Context) (int, error) {
	count, err := db.PendingCount(d.db)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	d.log.Info().Int("pending", count).Msg("draining sync queue")

	// The head is re-read each step: a create replay may rewrite the ids
	// and payloads of entries behind it.
	applied := 0
	for {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		pending, err := db.PendingChanges(d.db)
		if err != nil {
			return applied, err
		}
		if len(pending) == 0 {
			break
		}
		entry := pending[0]

		finalID, err := d.replay(ctx, entry)
		if err != nil {
			d.log.Warn().Err(err).
				Int64("seq", entry.Seq).
				Str("op", entry.Op).
				Str("kind", entry.Kind).
				Msg("replay failed, stopping pass")
			return applied, err
		}
		if err := db.DeleteChange(d.db, entry.Seq); err != nil {
			return applied, err
		}
		applied++
		if d.Notify != nil {
			d.Notify(entry.Kind, entry.Op, finalID)
		}
	}
	d.log.Info().Int("applied", applied).Msg("sync queue drained")
	return applied, nil
}

// replay applies one queue entry against the server. For creates it
// returns the server-assigned id, otherwise the entry's id.
func (d *Drainer) replay(ctx context.Context, entry models.QueueEntry) (string, error) {
	switch entry.Kind {
	case models.KindContact:
		return d.replayContact(ctx, entry)
	case models.KindMeeting:
		return d.replayMeeting(ctx, entry)
	case models.KindTemplate:
		return d.replayTemplate(ctx, entry)
	default:
		return "", fmt.Errorf("unknown queue entry kind %q", entry.Kind)
	}
}

func (d *Drainer) replayContact(ctx context.Context, entry models.QueueEntry) (string, error) {
	switch entry.Op {
	case models.OpCreate:
		var contact models.Contact
		if err := json.Unmarshal(entry.Payload, &contact); err != nil {
			return "", fmt.Errorf("bad queued contact payload: %w", err)
		}
		created, err := d.api.CreateContact(ctx, &contact)
		if err != nil {
			return "", err
		}
		if err := d.adoptContactID(entry.EntityID, created); err != nil {
			return "", err
		}
		return created.ID, nil

	case models.OpUpdate:
		var patch models.ContactPatch
		if err := json.Unmarshal(entry.Payload, &patch); err != nil {
			return "", fmt.Errorf("bad queued contact payload: %w", err)
		}
		updated, err := d.api.UpdateContact(ctx, entry.EntityID, &patch)
		if err != nil {
			return "", err
		}
		return entry.EntityID, db.PutContact(d.db, updated)

	case models.OpDelete:
		if err := d.api.DeleteContact(ctx, entry.EntityID); err != nil && !isGone(err) {
			return "", err
		}
		return entry.EntityID, nil
	}
	return "", fmt.Errorf("unknown queue entry op %q", entry.Op)
}

// adoptContactID swaps a temporary contact id for the server-assigned one
// everywhere it can appear: the contact row itself, cached meetings and
// reminders pointing at it, later queue entries addressed to it, and
// queued meeting payloads that embed it.
func (d *Drainer) adoptContactID(tempID string, created *models.Contact) error {
	if err := db.DeleteContact(d.db, tempID); err != nil {
		return err
	}
	if err := db.PutContact(d.db, created); err != nil {
		return err
	}
	if tempID == created.ID {
		return nil
	}
	if err := db.ReassignContactID(d.db, tempID, created.ID); err != nil {
		return err
	}
	if err := db.ReassignQueueEntityID(d.db, tempID, created.ID); err != nil {
		return err
	}
	return d.rewriteQueuedContactRefs(tempID, created.ID)
}

// rewriteQueuedContactRefs patches contactId references inside queued
// meeting payloads that still point at a temporary contact id.
func (d *Drainer) rewriteQueuedContactRefs(tempID, newID string) error {
	pending, err := db.PendingChanges(d.db)
	if err != nil {
		return err
	}
	for _, entry := range pending {
		if entry.Kind != models.KindMeeting || len(entry.Payload) == 0 {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal(entry.Payload, &payload); err != nil {
			continue
		}
		if ref, ok := payload["contactId"].(string); !ok || ref != tempID {
			continue
		}
		payload["contactId"] = newID
		rewritten, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		if err := db.UpdateChangePayload(d.db, entry.Seq, rewritten); err != nil {
			return err
		}
	}
	return nil
}

func (d *Drainer) replayMeeting(ctx context.Context, entry models.QueueEntry) (string, error) {
	switch entry.Op {
	case models.OpCreate:
		var meeting models.Meeting
		if err := json.Unmarshal(entry.Payload, &meeting); err != nil {
			return "", fmt.Errorf("bad queued meeting payload: %w", err)
		}
		created, err := d.api.CreateMeeting(ctx, &meeting)
		if err != nil {
			return "", err
		}
		if err := db.DeleteMeeting(d.db, entry.EntityID); err != nil {
			return "", err
		}
		if err := db.PutMeeting(d.db, created); err != nil {
			return "", err
		}
		if entry.EntityID != created.ID {
			if err := db.ReassignQueueEntityID(d.db, entry.EntityID, created.ID); err != nil {
				return "", err
			}
		}
		return created.ID, nil

	case models.OpUpdate:
		var patch models.MeetingPatch
		if err := json.Unmarshal(entry.Payload, &patch); err != nil {
			return "", fmt.Errorf("bad queued meeting payload: %w", err)
		}
		updated, err := d.api.UpdateMeeting(ctx, entry.EntityID, &patch)
		if err != nil {
			return "", err
		}
		return entry.EntityID, db.PutMeeting(d.db, updated)

	case models.OpDelete:
		if err := d.api.DeleteMeeting(ctx, entry.EntityID); err != nil && !isGone(err) {
			return "", err
		}
		return entry.EntityID, nil
	}
	return "", fmt.Errorf("unknown queue entry op %q", entry.Op)
}

func (d *Drainer) replayTemplate(ctx context.Context, entry models.QueueEntry) (string, error) {
	switch entry.Op {
	case models.OpCreate:
		var template models.MessageTemplate
		if err := json.Unmarshal(entry.Payload, &template); err != nil {
			return "", fmt.Errorf("bad queued template payload: %w", err)
		}
		created, err := d.api.CreateTemplate(ctx, &template)
		if err != nil {
			return "", err
		}
		if err := db.DeleteTemplate(d.db, entry.EntityID); err != nil {
			return "", err
		}
		if err := db.PutTemplate(d.db, created); err != nil {
			return "", err
		}
		if entry.EntityID != created.ID {
			if err := db.ReassignQueueEntityID(d.db, entry.EntityID, created.ID); err != nil {
				return "", err
			}
		}
		return created.ID, nil

	case models.OpUpdate:
		var patch models.TemplatePatch
		if err := json.Unmarshal(entry.Payload, &patch); err != nil {
			return "", fmt.Errorf("bad queued template payload: %w", err)
		}
		updated, err := d.api.UpdateTemplate(ctx, entry.EntityID, &patch)
		if err != nil {
			return "", err
		}
		return entry.EntityID, db.PutTemplate(d.db, updated)

	case models.OpDelete:
		if err := d.api.DeleteTemplate(ctx, entry.EntityID); err != nil && !isGone(err) {
			return "", err
		}
		return entry.EntityID, nil
	}
	return "", fmt.Errorf("unknown queue entry op %q", entry.Op)
}

// isGone treats a 404 on a replayed delete as success: the entity is
// already absent server-side, which is the state the delete wanted.
func isGone(err error) bool {
	var serr *api.StatusError
	return errors.As(err, &serr) && serr.Code == http.StatusNotFound
}

// DrainWithRetry runs Drain, retrying network failures with exponential
// backoff until the pass completes or maxElapsed runs out. Server
// rejections are permanent: retrying would fail identically.
func (d *Drainer) DrainWithRetry(ctx context.Context, maxElapsed time.Duration) (int, error) {
	total := 0
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = maxElapsed

	err := backoff.Retry(func() error {
		applied, err := d.Drain(ctx)
		total += applied
		if err == nil {
			return nil
		}
		if api.IsNetwork(err) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(bo, ctx))

	return total, err
}
