// ABOUTME: Message-template cache operations for the local store
// ABOUTME: Handles upserts and per-type listing for offline template use
package db

import (
	"database/sql"

	"github.com/harperreed/kith/models"
)

// PutTemplate upserts a message template by id.
func PutTemplate(db *sql.DB, template *models.MessageTemplate) error {
	_, err := db.Exec(`
		INSERT INTO templates (id, user_id, name, type, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			name = excluded.name,
			type = excluded.type,
			content = excluded.content,
			created_at = excluded.created_at
	`, template.ID, template.UserID, template.Name, template.Type, template.Content, template.CreatedAt)
	return storageErr("put template", err)
}

// BulkPutTemplates upserts a batch of templates in one transaction.
func BulkPutTemplates(db *sql.DB, templates []models.MessageTemplate) error {
	tx, err := db.Begin()
	if err != nil {
		return storageErr("bulk put templates", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i := range templates {
		t := &templates[i]
		_, err := tx.Exec(`
			INSERT INTO templates (id, user_id, name, type, content, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				user_id = excluded.user_id,
				name = excluded.name,
				type = excluded.type,
				content = excluded.content,
				created_at = excluded.created_at
		`, t.ID, t.UserID, t.Name, t.Type, t.Content, t.CreatedAt)
		if err != nil {
			return storageErr("bulk put templates", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return storageErr("bulk put templates", err)
	}
	return nil
}

// GetTemplate returns the cached template, or nil when absent.
func GetTemplate(db *sql.DB, id string) (*models.MessageTemplate, error) {
	var t models.MessageTemplate
	err := db.QueryRow(`
		SELECT id, user_id, name, type, content, created_at FROM templates WHERE id = ?
	`, id).Scan(&t.ID, &t.UserID, &t.Name, &t.Type, &t.Content, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get template", err)
	}
	return &t, nil
}

// ListTemplates returns all cached templates ordered by name.
func ListTemplates(db *sql.DB) ([]models.MessageTemplate, error) {
	return queryTemplates(db, `SELECT id, user_id, name, type, content, created_at FROM templates ORDER BY name COLLATE NOCASE`)
}

// TemplatesByType returns cached templates of one type.
func TemplatesByType(db *sql.DB, templateType string) ([]models.MessageTemplate, error) {
	return queryTemplates(db, `
		SELECT id, user_id, name, type, content, created_at FROM templates
		WHERE type = ?
		ORDER BY name COLLATE NOCASE
	`, templateType)
}

func queryTemplates(db *sql.DB, query string, args ...any) ([]models.MessageTemplate, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, storageErr("list templates", err)
	}
	defer func() { _ = rows.Close() }()

	templates := []models.MessageTemplate{}
	for rows.Next() {
		var t models.MessageTemplate
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Type, &t.Content, &t.CreatedAt); err != nil {
			return nil, storageErr("list templates", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list templates", err)
	}
	return templates, nil
}

// DeleteTemplate removes a template. Deleting an absent id is a no-op.
func DeleteTemplate(db *sql.DB, id string) error {
	_, err := db.Exec(`DELETE FROM templates WHERE id = ?`, id)
	return storageErr("delete template", err)
}
