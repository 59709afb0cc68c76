// ABOUTME: Database schema definitions and versioned migrations
// ABOUTME: Applies additive migrations tracked by SQLite user_version
package db

import (
	"database/sql"
	"fmt"
)

// migrations are applied in order above the persisted user_version. They
// are strictly additive: opening an older database upgrades it in place
// without dropping rows.
var migrations = []string{
	// v1: initial schema
	`
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL,
	name TEXT NOT NULL,
	profile_picture TEXT,
	timezone TEXT,
	settings TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	emails TEXT NOT NULL DEFAULT '[]',
	phones TEXT NOT NULL DEFAULT '[]',
	whatsapp_number TEXT,
	instagram_handle TEXT,
	company TEXT,
	tags TEXT NOT NULL DEFAULT '[]',
	address TEXT,
	notes TEXT,
	birthday TEXT,
	anniversary TEXT,
	profile_picture TEXT,
	last_contacted_at DATETIME,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_user_id ON contacts(user_id);
CREATE INDEX IF NOT EXISTS idx_contacts_name ON contacts(name);
CREATE INDEX IF NOT EXISTS idx_contacts_company ON contacts(company);

CREATE TABLE IF NOT EXISTS contact_tags (
	contact_id TEXT NOT NULL,
	tag TEXT NOT NULL,
	PRIMARY KEY (contact_id, tag),
	FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_contact_tags_tag ON contact_tags(tag);

CREATE TABLE IF NOT EXISTS meetings (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	meeting_date DATETIME NOT NULL,
	medium TEXT NOT NULL,
	notes TEXT,
	outcome TEXT,
	followup_date DATETIME,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_meetings_contact_id ON meetings(contact_id);
CREATE INDEX IF NOT EXISTS idx_meetings_user_id ON meetings(user_id);
CREATE INDEX IF NOT EXISTS idx_meetings_date ON meetings(meeting_date);
CREATE INDEX IF NOT EXISTS idx_meetings_followup_date ON meetings(followup_date);

CREATE TABLE IF NOT EXISTS reminders (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	contact_id TEXT NOT NULL,
	type TEXT NOT NULL CHECK(type IN ('birthday', 'anniversary', 'followup', 'no_contact')),
	scheduled_at DATETIME NOT NULL,
	sent_at DATETIME,
	status TEXT NOT NULL CHECK(status IN ('pending', 'sent', 'dismissed')),
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reminders_user_id ON reminders(user_id);
CREATE INDEX IF NOT EXISTS idx_reminders_contact_id ON reminders(contact_id);
CREATE INDEX IF NOT EXISTS idx_reminders_type ON reminders(type);
CREATE INDEX IF NOT EXISTS idx_reminders_scheduled_at ON reminders(scheduled_at);
CREATE INDEX IF NOT EXISTS idx_reminders_status ON reminders(status);

CREATE TABLE IF NOT EXISTS templates (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	type TEXT NOT NULL CHECK(type IN ('followup', 'birthday', 'anniversary', 'custom')),
	content TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_templates_user_id ON templates(user_id);
CREATE INDEX IF NOT EXISTS idx_templates_type ON templates(type);

CREATE TABLE IF NOT EXISTS sync_queue (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	op TEXT NOT NULL CHECK(op IN ('create', 'update', 'delete')),
	kind TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	payload TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sync_queue_entity_id ON sync_queue(entity_id);
`,
	// v2: last-contacted index for the needs-attention query
	`
CREATE INDEX IF NOT EXISTS idx_contacts_last_contacted ON contacts(last_contacted_at);
`,
}

// Migrate brings the database schema up to the current version.
func Migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return storageErr("read schema version", err)
	}
	if version > len(migrations) {
		return storageErr("migrate", fmt.Errorf("database schema version %d is newer than this build supports (%d)", version, len(migrations)))
	}

	for v := version; v < len(migrations); v++ {
		if _, err := db.Exec(migrations[v]); err != nil {
			return storageErr(fmt.Sprintf("apply migration %d", v+1), err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			return storageErr("bump schema version", err)
		}
	}
	return nil
}

// SchemaVersion reports the persisted schema version.
func SchemaVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, storageErr("read schema version", err)
	}
	return version, nil
}
