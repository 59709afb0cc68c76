// ABOUTME: User profile cache operations for the local store
// ABOUTME: Keeps the authenticated user's profile available offline
package db

import (
	"database/sql"
	"encoding/json"

	"github.com/harperreed/kith/models"
)

// PutUser upserts the user profile by id.
func PutUser(db *sql.DB, user *models.User) error {
	settings, err := json.Marshal(user.Settings)
	if err != nil {
		return storageErr("put user", err)
	}
	_, err = db.Exec(`
		INSERT INTO users (id, email, name, profile_picture, timezone, settings, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			profile_picture = excluded.profile_picture,
			timezone = excluded.timezone,
			settings = excluded.settings,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, user.ID, user.Email, user.Name, user.ProfilePicture, user.Timezone, string(settings),
		user.CreatedAt, user.UpdatedAt)
	return storageErr("put user", err)
}

// GetUser returns the cached user profile, or nil when absent.
func GetUser(db *sql.DB, id string) (*models.User, error) {
	var u models.User
	var picture, timezone, settings sql.NullString

	err := db.QueryRow(`
		SELECT id, email, name, profile_picture, timezone, settings, created_at, updated_at
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Email, &u.Name, &picture, &timezone, &settings, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get user", err)
	}

	u.ProfilePicture = picture.String
	u.Timezone = timezone.String
	if settings.Valid && settings.String != "" {
		_ = json.Unmarshal([]byte(settings.String), &u.Settings)
	}
	return &u, nil
}

// DeleteUser removes a cached user profile. Deleting an absent id is a
// no-op.
func DeleteUser(db *sql.DB, id string) error {
	_, err := db.Exec(`DELETE FROM users WHERE id = ?`, id)
	return storageErr("delete user", err)
}
