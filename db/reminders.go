// ABOUTME: Reminder cache operations for the local store
// ABOUTME: Reminders are server-scheduled; the cache supports offline listing only
package db

import (
	"database/sql"
	"time"

	"github.com/harperreed/kith/models"
)

// PutReminder upserts a reminder by id.
func PutReminder(db *sql.DB, reminder *models.Reminder) error {
	_, err := db.Exec(`
		INSERT INTO reminders (id, user_id, contact_id, type, scheduled_at, sent_at, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			contact_id = excluded.contact_id,
			type = excluded.type,
			scheduled_at = excluded.scheduled_at,
			sent_at = excluded.sent_at,
			status = excluded.status,
			created_at = excluded.created_at
	`, reminder.ID, reminder.UserID, reminder.ContactID, reminder.Type,
		reminder.ScheduledAt, reminder.SentAt, reminder.Status, reminder.CreatedAt)
	return storageErr("put reminder", err)
}

// BulkPutReminders upserts a batch of reminders in one transaction.
func BulkPutReminders(db *sql.DB, reminders []models.Reminder) error {
	tx, err := db.Begin()
	if err != nil {
		return storageErr("bulk put reminders", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i := range reminders {
		r := &reminders[i]
		_, err := tx.Exec(`
			INSERT INTO reminders (id, user_id, contact_id, type, scheduled_at, sent_at, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				user_id = excluded.user_id,
				contact_id = excluded.contact_id,
				type = excluded.type,
				scheduled_at = excluded.scheduled_at,
				sent_at = excluded.sent_at,
				status = excluded.status,
				created_at = excluded.created_at
		`, r.ID, r.UserID, r.ContactID, r.Type, r.ScheduledAt, r.SentAt, r.Status, r.CreatedAt)
		if err != nil {
			return storageErr("bulk put reminders", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return storageErr("bulk put reminders", err)
	}
	return nil
}

const reminderColumns = `id, user_id, contact_id, type, scheduled_at, sent_at, status, created_at`

func scanReminder(row interface{ Scan(...any) error }) (*models.Reminder, error) {
	var r models.Reminder
	var sentAt sql.NullTime
	err := row.Scan(&r.ID, &r.UserID, &r.ContactID, &r.Type, &r.ScheduledAt, &sentAt, &r.Status, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if sentAt.Valid {
		t := sentAt.Time
		r.SentAt = &t
	}
	return &r, nil
}

// GetReminder returns the cached reminder, or nil when absent.
func GetReminder(db *sql.DB, id string) (*models.Reminder, error) {
	row := db.QueryRow(`SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	reminder, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get reminder", err)
	}
	return reminder, nil
}

// ListReminders returns all cached reminders, soonest first.
func ListReminders(db *sql.DB) ([]models.Reminder, error) {
	rows, err := db.Query(`SELECT ` + reminderColumns + ` FROM reminders ORDER BY scheduled_at`)
	if err != nil {
		return nil, storageErr("list reminders", err)
	}
	return collectReminders(rows, "list reminders")
}

// PendingReminders returns cached pending reminders scheduled on or after
// the given time, soonest first.
func PendingReminders(db *sql.DB, from time.Time) ([]models.Reminder, error) {
	rows, err := db.Query(`
		SELECT `+reminderColumns+` FROM reminders
		WHERE status = ? AND scheduled_at >= ?
		ORDER BY scheduled_at
	`, models.ReminderPending, from)
	if err != nil {
		return nil, storageErr("pending reminders", err)
	}
	return collectReminders(rows, "pending reminders")
}

// RemindersByContact returns cached reminders for one contact.
func RemindersByContact(db *sql.DB, contactID string) ([]models.Reminder, error) {
	rows, err := db.Query(`
		SELECT `+reminderColumns+` FROM reminders
		WHERE contact_id = ?
		ORDER BY scheduled_at
	`, contactID)
	if err != nil {
		return nil, storageErr("reminders by contact", err)
	}
	return collectReminders(rows, "reminders by contact")
}

func collectReminders(rows *sql.Rows, op string) ([]models.Reminder, error) {
	defer func() { _ = rows.Close() }()

	reminders := []models.Reminder{}
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		reminders = append(reminders, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return reminders, nil
}

// DeleteReminder removes a reminder. Deleting an absent id is a no-op.
func DeleteReminder(db *sql.DB, id string) error {
	_, err := db.Exec(`DELETE FROM reminders WHERE id = ?`, id)
	return storageErr("delete reminder", err)
}
