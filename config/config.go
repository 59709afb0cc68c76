// ABOUTME: Process configuration from environment variables and .env files
// ABOUTME: Generates and persists a per-device ULID on first run
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/oklog/ulid/v2"

	"github.com/harperreed/kith/db"
)

// Config holds everything the process needs to run. Values come from
// KITH_* environment variables, optionally seeded from a .env file, with
// XDG-based defaults for paths.
type Config struct {
	APIBaseURL     string        `envconfig:"API_BASE_URL" default:"https://api.kith.im/api"`
	DBPath         string        `envconfig:"DB_PATH"`
	DeviceID       string        `envconfig:"DEVICE_ID"`
	SyncSchedule   string        `envconfig:"SYNC_SCHEDULE" default:"@every 1m"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	Debug          bool          `envconfig:"DEBUG" default:"false"`
}

// Load reads configuration. A .env in the working directory is honored
// when present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("kith", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = db.DefaultPath()
	}
	if cfg.DeviceID == "" {
		id, err := loadOrCreateDeviceID()
		if err != nil {
			return nil, err
		}
		cfg.DeviceID = id
	}
	return &cfg, nil
}

// deviceIDPath returns the XDG-compliant path for the persisted device id.
func deviceIDPath() string {
	return filepath.Join(xdg.DataHome, "kith", "device.json")
}

type deviceFile struct {
	DeviceID string `json:"deviceId"`
}

// loadOrCreateDeviceID reads the persisted device id, minting and storing
// a fresh ULID on first run. The id identifies this installation to the
// server across sessions.
func loadOrCreateDeviceID() (string, error) {
	path := deviceIDPath()

	data, err := os.ReadFile(path)
	if err == nil {
		var df deviceFile
		if jerr := json.Unmarshal(data, &df); jerr == nil && df.DeviceID != "" {
			return df.DeviceID, nil
		}
		// Unreadable file: fall through and mint a new id.
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read device id: %w", err)
	}

	id := GenerateDeviceID()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	payload, err := json.MarshalIndent(deviceFile{DeviceID: id}, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, payload, 0600); err != nil {
		return "", fmt.Errorf("failed to write device id: %w", err)
	}
	return id, nil
}

// GenerateDeviceID mints a ULID to identify this installation.
func GenerateDeviceID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
