// Package config resolves where routeml keeps its data and loads the
// optional YAML settings file.
package config

import (
	"os"
	"path/filepath"
)

// Environment overrides for the data directory and the database file.
const (
	HomeEnv = "ROUTEML_HOME"
	DBEnv   = "ROUTEML_DB"
)

// DataDir returns the directory used to store routeml data.
func DataDir() (string, error) {
	if d := os.Getenv(HomeEnv); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".routeml"), nil
}

// EnsureDataDir creates the data directory if needed and returns it.
func EnsureDataDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", err
	}
	return d, nil
}

// DBPath returns the full path to the SQLite database file. DBEnv, when
// set, names the file directly.
func DBPath() (string, error) {
	if p := os.Getenv(DBEnv); p != "" {
		return p, nil
	}
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "routeml.db"), nil
}

// SettingsPath returns the default location of the settings file.
func SettingsPath() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}
