// Package storage provides persistent storage for preferences, game records and statistics.
package storage

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const appName = "fianco"

// DataDirEnv overrides the data directory when set.
const DataDirEnv = "FIANCO_DATA"

// baseDir returns the per-user application data root for the platform:
//   - macOS: ~/Library/Application Support
//   - Windows: %APPDATA%
//   - others: $XDG_DATA_HOME or ~/.local/share
func baseDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "AppData", "Roaming"), nil
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "create %s", dir)
	}
	return dir, nil
}

// GetDataDir returns the application data directory, creating it if needed.
// FIANCO_DATA takes precedence over the platform default.
func GetDataDir() (string, error) {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return ensureDir(dir)
	}

	base, err := baseDir()
	if err != nil {
		return "", errors.Wrap(err, "locate data directory")
	}
	return ensureDir(filepath.Join(base, appName))
}

// GetDatabaseDir returns the directory for the badger database.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dbDir, err := ensureDir(filepath.Join(dataDir, "db"))
	if err != nil {
		return "", err
	}
	log.Debug().Str("dir", dbDir).Msg("database-directory")
	return dbDir, nil
}
