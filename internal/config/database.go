package config

import (
	"path/filepath"
)

const (
	DB_NAME = "history.sqlite"
)

// DBPath returns the run history database location, preferring the
// configured path over the default under the data directory
func (s *Settings) DBPath() string {
	if s.History.DBPath != "" {
		return s.History.DBPath
	}

	return filepath.Join(DataDir(), DB_NAME)
}
