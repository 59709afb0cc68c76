// ABOUTME: Sync queue operations, the write-ahead log of unconfirmed mutations
// ABOUTME: Entries are append-only and replayed strictly in insertion order
package db

import (
	"database/sql"
	"time"

	"github.com/harperreed/kith/models"
)

// EnqueueChange appends a pending mutation to the sync queue and returns
// its assigned sequence number.
func EnqueueChange(db *sql.DB, op, kind, entityID string, payload []byte) (int64, error) {
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	res, err := db.Exec(`
		INSERT INTO sync_queue (op, kind, entity_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, op, kind, entityID, string(payload), time.Now().UTC())
	if err != nil {
		return 0, storageErr("enqueue change", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("enqueue change", err)
	}
	return seq, nil
}

// PendingChanges returns all queued mutations in insertion order.
func PendingChanges(db *sql.DB) ([]models.QueueEntry, error) {
	rows, err := db.Query(`
		SELECT seq, op, kind, entity_id, payload, created_at
		FROM sync_queue
		ORDER BY seq
	`)
	if err != nil {
		return nil, storageErr("pending changes", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []models.QueueEntry{}
	for rows.Next() {
		var e models.QueueEntry
		var payload string
		if err := rows.Scan(&e.Seq, &e.Op, &e.Kind, &e.EntityID, &payload, &e.CreatedAt); err != nil {
			return nil, storageErr("pending changes", err)
		}
		e.Payload = []byte(payload)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("pending changes", err)
	}
	return entries, nil
}

// ChangesForEntity returns queued mutations referencing one entity id, in
// insertion order.
func ChangesForEntity(db *sql.DB, entityID string) ([]models.QueueEntry, error) {
	rows, err := db.Query(`
		SELECT seq, op, kind, entity_id, payload, created_at
		FROM sync_queue
		WHERE entity_id = ?
		ORDER BY seq
	`, entityID)
	if err != nil {
		return nil, storageErr("changes for entity", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []models.QueueEntry{}
	for rows.Next() {
		var e models.QueueEntry
		var payload string
		if err := rows.Scan(&e.Seq, &e.Op, &e.Kind, &e.EntityID, &payload, &e.CreatedAt); err != nil {
			return nil, storageErr("changes for entity", err)
		}
		e.Payload = []byte(payload)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("changes for entity", err)
	}
	return entries, nil
}

// PendingCount reports the number of queued mutations.
func PendingCount(db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sync_queue`).Scan(&count); err != nil {
		return 0, storageErr("pending count", err)
	}
	return count, nil
}

// DeleteChange removes a replayed entry after the remote confirmed it.
func DeleteChange(db *sql.DB, seq int64) error {
	_, err := db.Exec(`DELETE FROM sync_queue WHERE seq = ?`, seq)
	return storageErr("delete change", err)
}

// ReassignQueueEntityID repoints later queue entries from a locally
// generated id to the server-assigned one after a create replay succeeds.
func ReassignQueueEntityID(db *sql.DB, oldID, newID string) error {
	_, err := db.Exec(`UPDATE sync_queue SET entity_id = ? WHERE entity_id = ?`, newID, oldID)
	return storageErr("reassign queue entity id", err)
}

// UpdateChangePayload rewrites the payload of a queued entry, used when an
// id embedded in a payload is reconciled to its server-assigned value.
func UpdateChangePayload(db *sql.DB, seq int64, payload []byte) error {
	_, err := db.Exec(`UPDATE sync_queue SET payload = ? WHERE seq = ?`, string(payload), seq)
	return storageErr("update change payload", err)
}
