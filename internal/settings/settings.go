// Package settings persists the shell's small cross-session state.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

// Settings holds the values carried across sessions. Currently that is
// exactly one: the previous remote working directory.
type Settings struct {
	OldPwd string `json:"old_pwd"`
}

// Store reads and writes a settings file.
type Store struct {
	path string
}

// DefaultDir returns the rubox config directory.
func DefaultDir() string {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, _ := os.UserHomeDir()
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, "rubox")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "rubox")
}

// DefaultPath returns the default settings file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "shell.json")
}

// NewStore creates a store for the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. A missing file yields zero-value
// settings, not an error.
func (s *Store) Load() (*Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, err
	}
	var st Settings
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Save writes the settings file, creating the directory if needed.
func (s *Store) Save(st *Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}
