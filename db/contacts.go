// ABOUTME: Contact cache operations for the local store
// ABOUTME: Handles idempotent upserts, offline lookups, and tag-membership queries
package db

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/harperreed/kith/models"
)

func encodeStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, _ := json.Marshal(values)
	return string(data)
}

func decodeStrings(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return []string{}
	}
	return values
}

func encodeCalendarDate(d *models.CalendarDate) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func decodeCalendarDate(raw string) *models.CalendarDate {
	if raw == "" {
		return nil
	}
	d, err := models.ParseCalendarDate(raw)
	if err != nil {
		return nil
	}
	return &d
}

// PutContact upserts a contact by id with last-write-wins semantics and
// rebuilds its tag index rows.
func PutContact(db *sql.DB, contact *models.Contact) error {
	tx, err := db.Begin()
	if err != nil {
		return storageErr("put contact", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	if err := putContactTx(tx, contact); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageErr("put contact", err)
	}
	return nil
}

// BulkPutContacts upserts a batch of contacts in one transaction. Cached
// contacts absent from the batch are left alone (write-through, not
// full-replace).
func BulkPutContacts(db *sql.DB, contacts []models.Contact) error {
	tx, err := db.Begin()
	if err != nil {
		return storageErr("bulk put contacts", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i := range contacts {
		if err := putContactTx(tx, &contacts[i]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return storageErr("bulk put contacts", err)
	}
	return nil
}

func putContactTx(tx *sql.Tx, contact *models.Contact) error {
	_, err := tx.Exec(`
		INSERT INTO contacts (id, user_id, name, emails, phones, whatsapp_number, instagram_handle,
			company, tags, address, notes, birthday, anniversary, profile_picture,
			last_contacted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			name = excluded.name,
			emails = excluded.emails,
			phones = excluded.phones,
			whatsapp_number = excluded.whatsapp_number,
			instagram_handle = excluded.instagram_handle,
			company = excluded.company,
			tags = excluded.tags,
			address = excluded.address,
			notes = excluded.notes,
			birthday = excluded.birthday,
			anniversary = excluded.anniversary,
			profile_picture = excluded.profile_picture,
			last_contacted_at = excluded.last_contacted_at,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, contact.ID, contact.UserID, contact.Name, encodeStrings(contact.Emails), encodeStrings(contact.Phones),
		contact.WhatsAppNumber, contact.InstagramHandle, contact.Company, encodeStrings(contact.Tags),
		contact.Address, contact.Notes, encodeCalendarDate(contact.Birthday), encodeCalendarDate(contact.Anniversary),
		contact.ProfilePicture, contact.LastContactedAt, contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return storageErr("put contact", err)
	}

	// Rebuild the tag index for this contact.
	if _, err := tx.Exec(`DELETE FROM contact_tags WHERE contact_id = ?`, contact.ID); err != nil {
		return storageErr("put contact tags", err)
	}
	for _, tag := range contact.Tags {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO contact_tags (contact_id, tag) VALUES (?, ?)`, contact.ID, tag); err != nil {
			return storageErr("put contact tags", err)
		}
	}
	return nil
}

const contactColumns = `id, user_id, name, emails, phones, whatsapp_number, instagram_handle,
	company, tags, address, notes, birthday, anniversary, profile_picture,
	last_contacted_at, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	var c models.Contact
	var emails, phones, tags string
	var whatsapp, instagram, company, address, notes, birthday, anniversary, picture sql.NullString
	var lastContacted sql.NullTime

	err := row.Scan(&c.ID, &c.UserID, &c.Name, &emails, &phones, &whatsapp, &instagram,
		&company, &tags, &address, &notes, &birthday, &anniversary, &picture,
		&lastContacted, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.Emails = decodeStrings(emails)
	c.Phones = decodeStrings(phones)
	c.Tags = decodeStrings(tags)
	c.WhatsAppNumber = whatsapp.String
	c.InstagramHandle = instagram.String
	c.Company = company.String
	c.Address = address.String
	c.Notes = notes.String
	c.Birthday = decodeCalendarDate(birthday.String)
	c.Anniversary = decodeCalendarDate(anniversary.String)
	c.ProfilePicture = picture.String
	if lastContacted.Valid {
		t := lastContacted.Time
		c.LastContactedAt = &t
	}
	return &c, nil
}

// GetContact returns the cached contact, or nil when absent.
func GetContact(db *sql.DB, id string) (*models.Contact, error) {
	row := db.QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get contact", err)
	}
	return contact, nil
}

// ListContacts returns all cached contacts ordered by name.
func ListContacts(db *sql.DB) ([]models.Contact, error) {
	rows, err := db.Query(`SELECT ` + contactColumns + ` FROM contacts ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, storageErr("list contacts", err)
	}
	return collectContacts(rows, "list contacts")
}

// FindContacts filters the cache by a case-insensitive name/company match
// and tag membership. Empty query and no tags returns everything.
func FindContacts(db *sql.DB, query string, tags []string) ([]models.Contact, error) {
	var (
		clauses []string
		args    []any
	)
	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		clauses = append(clauses, `(LOWER(name) LIKE ? OR LOWER(company) LIKE ?)`)
		args = append(args, pattern, pattern)
	}
	for _, tag := range tags {
		clauses = append(clauses, `id IN (SELECT contact_id FROM contact_tags WHERE tag = ?)`)
		args = append(args, tag)
	}

	q := `SELECT ` + contactColumns + ` FROM contacts`
	if len(clauses) > 0 {
		q += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	q += ` ORDER BY name COLLATE NOCASE`

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, storageErr("find contacts", err)
	}
	return collectContacts(rows, "find contacts")
}

// RecentlyContacted returns cached contacts with a last-contacted stamp,
// most recent first.
func RecentlyContacted(db *sql.DB, limit int) ([]models.Contact, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := db.Query(`
		SELECT `+contactColumns+` FROM contacts
		WHERE last_contacted_at IS NOT NULL
		ORDER BY last_contacted_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, storageErr("recently contacted", err)
	}
	return collectContacts(rows, "recently contacted")
}

// NotContactedSince returns cached contacts whose last contact predates the
// cutoff, or who were never contacted at all.
func NotContactedSince(db *sql.DB, cutoff time.Time) ([]models.Contact, error) {
	rows, err := db.Query(`
		SELECT `+contactColumns+` FROM contacts
		WHERE last_contacted_at IS NULL OR last_contacted_at < ?
		ORDER BY last_contacted_at
	`, cutoff)
	if err != nil {
		return nil, storageErr("not contacted since", err)
	}
	return collectContacts(rows, "not contacted since")
}

func collectContacts(rows *sql.Rows, op string) ([]models.Contact, error) {
	defer func() { _ = rows.Close() }()

	contacts := []models.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return contacts, nil
}

// CountContacts reports the cached contact count.
func CountContacts(db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM contacts`).Scan(&count); err != nil {
		return 0, storageErr("count contacts", err)
	}
	return count, nil
}

// DeleteContact removes a contact and its tag index rows. Deleting an
// absent id is a no-op.
func DeleteContact(db *sql.DB, id string) error {
	tx, err := db.Begin()
	if err != nil {
		return storageErr("delete contact", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM contact_tags WHERE contact_id = ?`, id); err != nil {
		return storageErr("delete contact tags", err)
	}
	if _, err := tx.Exec(`DELETE FROM contacts WHERE id = ?`, id); err != nil {
		return storageErr("delete contact", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("delete contact", err)
	}
	return nil
}
