package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	APP_DIR_NAME = "air-quality-pipeline"

	CONFIG_FILE_NAME = "config.yaml"
)

// DataDir is where the run history database lives by default
func DataDir() string {
	return appDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// ConfigDir is where the default configuration file is looked up
func ConfigDir() string {
	return appDir("XDG_CONFIG_HOME", ".config")
}

func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), CONFIG_FILE_NAME)
}

// appDir resolves an application directory following the XDG base directory
// layout. Without a home directory it falls back to the working directory.
func appDir(xdgEnv string, homeRelative string) string {
	if xdgHome := os.Getenv(xdgEnv); xdgHome != "" {
		return filepath.Join(xdgHome, APP_DIR_NAME)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		currentDir, err := os.Getwd()
		if err != nil {
			return "."
		}

		return filepath.Join(currentDir, fmt.Sprintf(".%s", APP_DIR_NAME))
	}

	basePath := filepath.Join(homeDir, homeRelative)
	if _, err := os.Stat(basePath); err == nil {
		return filepath.Join(basePath, APP_DIR_NAME)
	}

	return filepath.Join(homeDir, fmt.Sprintf(".%s", APP_DIR_NAME))
}
