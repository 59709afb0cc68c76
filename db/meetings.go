// ABOUTME: Meeting cache operations for the local store
// ABOUTME: Handles upserts plus per-contact and follow-up date queries
package db

import (
	"database/sql"
	"time"

	"github.com/harperreed/kith/models"
)

// PutMeeting upserts a meeting by id with last-write-wins semantics.
func PutMeeting(db *sql.DB, meeting *models.Meeting) error {
	_, err := db.Exec(`
		INSERT INTO meetings (id, contact_id, user_id, meeting_date, medium, notes, outcome,
			followup_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			contact_id = excluded.contact_id,
			user_id = excluded.user_id,
			meeting_date = excluded.meeting_date,
			medium = excluded.medium,
			notes = excluded.notes,
			outcome = excluded.outcome,
			followup_date = excluded.followup_date,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, meeting.ID, meeting.ContactID, meeting.UserID, meeting.MeetingDate, meeting.Medium,
		meeting.Notes, meeting.Outcome, meeting.FollowupDate, meeting.CreatedAt, meeting.UpdatedAt)
	return storageErr("put meeting", err)
}

// BulkPutMeetings upserts a batch of meetings in one transaction.
func BulkPutMeetings(db *sql.DB, meetings []models.Meeting) error {
	tx, err := db.Begin()
	if err != nil {
		return storageErr("bulk put meetings", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i := range meetings {
		m := &meetings[i]
		_, err := tx.Exec(`
			INSERT INTO meetings (id, contact_id, user_id, meeting_date, medium, notes, outcome,
				followup_date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				contact_id = excluded.contact_id,
				user_id = excluded.user_id,
				meeting_date = excluded.meeting_date,
				medium = excluded.medium,
				notes = excluded.notes,
				outcome = excluded.outcome,
				followup_date = excluded.followup_date,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at
		`, m.ID, m.ContactID, m.UserID, m.MeetingDate, m.Medium,
			m.Notes, m.Outcome, m.FollowupDate, m.CreatedAt, m.UpdatedAt)
		if err != nil {
			return storageErr("bulk put meetings", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return storageErr("bulk put meetings", err)
	}
	return nil
}

const meetingColumns = `id, contact_id, user_id, meeting_date, medium, notes, outcome,
	followup_date, created_at, updated_at`

func scanMeeting(row interface{ Scan(...any) error }) (*models.Meeting, error) {
	var m models.Meeting
	var notes, outcome sql.NullString
	var followup sql.NullTime

	err := row.Scan(&m.ID, &m.ContactID, &m.UserID, &m.MeetingDate, &m.Medium,
		&notes, &outcome, &followup, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Notes = notes.String
	m.Outcome = outcome.String
	if followup.Valid {
		t := followup.Time
		m.FollowupDate = &t
	}
	return &m, nil
}

// GetMeeting returns the cached meeting, or nil when absent.
func GetMeeting(db *sql.DB, id string) (*models.Meeting, error) {
	row := db.QueryRow(`SELECT `+meetingColumns+` FROM meetings WHERE id = ?`, id)
	meeting, err := scanMeeting(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get meeting", err)
	}
	return meeting, nil
}

// ListMeetings returns all cached meetings, most recent first.
func ListMeetings(db *sql.DB) ([]models.Meeting, error) {
	rows, err := db.Query(`SELECT ` + meetingColumns + ` FROM meetings ORDER BY meeting_date DESC`)
	if err != nil {
		return nil, storageErr("list meetings", err)
	}
	return collectMeetings(rows, "list meetings")
}

// MeetingsByContact returns cached meetings for one contact, most recent
// first.
func MeetingsByContact(db *sql.DB, contactID string) ([]models.Meeting, error) {
	rows, err := db.Query(`
		SELECT `+meetingColumns+` FROM meetings
		WHERE contact_id = ?
		ORDER BY meeting_date DESC
	`, contactID)
	if err != nil {
		return nil, storageErr("meetings by contact", err)
	}
	return collectMeetings(rows, "meetings by contact")
}

// UpcomingFollowups returns cached meetings whose follow-up date is on or
// after the given day, soonest first.
func UpcomingFollowups(db *sql.DB, from time.Time) ([]models.Meeting, error) {
	rows, err := db.Query(`
		SELECT `+meetingColumns+` FROM meetings
		WHERE followup_date IS NOT NULL AND followup_date >= ?
		ORDER BY followup_date
	`, from)
	if err != nil {
		return nil, storageErr("upcoming followups", err)
	}
	return collectMeetings(rows, "upcoming followups")
}

// MeetingsBetween returns cached meetings whose date falls in [from, to).
func MeetingsBetween(db *sql.DB, from, to time.Time) ([]models.Meeting, error) {
	rows, err := db.Query(`
		SELECT `+meetingColumns+` FROM meetings
		WHERE meeting_date >= ? AND meeting_date < ?
		ORDER BY meeting_date
	`, from, to)
	if err != nil {
		return nil, storageErr("meetings between", err)
	}
	return collectMeetings(rows, "meetings between")
}

func collectMeetings(rows *sql.Rows, op string) ([]models.Meeting, error) {
	defer func() { _ = rows.Close() }()

	meetings := []models.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		meetings = append(meetings, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return meetings, nil
}

// DeleteMeeting removes a meeting. Deleting an absent id is a no-op.
func DeleteMeeting(db *sql.DB, id string) error {
	_, err := db.Exec(`DELETE FROM meetings WHERE id = ?`, id)
	return storageErr("delete meeting", err)
}
