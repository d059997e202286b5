package config

import (
	"errors"
	"fmt"
)

// Validate checks the presence of configuration the server cannot run
// without. Production requires real database credentials and a signing
// secret; development falls back to local defaults.
func Validate(cfg *Config) error {
	env := GetEnvironment()

	if cfg.JWTSecret == "" {
		if env == Production {
			return errors.New("JWT_SECRET is required in production")
		}
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBUser == "" {
			return errors.New("DB_USER is required for the postgres driver")
		}
		if env == Production && cfg.DBPassword == "" {
			return errors.New("DB_PASSWORD is required in production")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			return errors.New("SQLITE_PATH must not be empty")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.SnapshotDBPath == "" {
		return errors.New("SNAPSHOT_DB_PATH must not be empty")
	}
	if cfg.SyncDebounce <= 0 {
		return errors.New("sync debounce must be positive")
	}
	return nil
}
