// ABOUTME: Session credential persistence at XDG paths
// ABOUTME: Stores the signed-in user and OAuth2 token pair as JSON on disk
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"golang.org/x/oauth2"

	"github.com/harperreed/kith/models"
)

// Session is the persisted login state. The token's AccessToken is sent as
// a bearer credential; RefreshToken is exchanged when the server answers 401.
type Session struct {
	User  models.User  `json:"user"`
	Token oauth2.Token `json:"token"`
}

// SessionPath returns the XDG-compliant path for the stored session.
func SessionPath() string {
	return filepath.Join(xdg.DataHome, "kith", "session.json")
}

// SaveSession writes the session to the XDG data directory with
// owner-only permissions.
func SaveSession(session *Session) error {
	path := SessionPath()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// LoadSession reads the stored session. Returns (nil, nil) when no one is
// signed in on this machine.
func LoadSession() (*Session, error) {
	data, err := os.ReadFile(SessionPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return &session, nil
}

// ClearSession removes the stored session. Missing file is not an error.
func ClearSession() error {
	err := os.Remove(SessionPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
