// ABOUTME: Id reconciliation after a queued create is confirmed remotely
// ABOUTME: Repoints cached rows from a locally generated id to the server id
package db

import "database/sql"

// ReassignContactID moves cached rows referencing a locally generated
// contact id over to the server-assigned id. The contact row itself is
// replaced by the caller (delete temp, put server copy); this repoints the
// rows that reference it.
func ReassignContactID(db *sql.DB, oldID, newID string) error {
	tx, err := db.Begin()
	if err != nil {
		return storageErr("reassign contact id", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`UPDATE meetings SET contact_id = ? WHERE contact_id = ?`, newID, oldID); err != nil {
		return storageErr("reassign contact id", err)
	}
	if _, err := tx.Exec(`UPDATE reminders SET contact_id = ? WHERE contact_id = ?`, newID, oldID); err != nil {
		return storageErr("reassign contact id", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("reassign contact id", err)
	}
	return nil
}
