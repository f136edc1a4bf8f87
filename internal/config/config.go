// Package config loads and saves pipeline settings as JSON.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"sift-scalespace/internal/sift"
)

const (
	appDir     = "sift-scalespace"
	paramsFile = "params.json"

	// CurrentVersion is written to every saved file.
	CurrentVersion = 1
)

// File is the on-disk settings document.
type File struct {
	Version int         `json:"version"`
	Params  sift.Params `json:"params"`
	// Debug enables debug-level console logging.
	Debug bool `json:"debug"`
	// OpenCV selects the OpenCV blur and image loader.
	OpenCV bool `json:"opencv"`
}

// Default returns settings with the default pipeline parameters.
func Default() *File {
	return &File{
		Version: CurrentVersion,
		Params:  sift.DefaultParams(),
	}
}

// DefaultPath returns ~/.config/sift-scalespace/params.json or the
// platform equivalent.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir, paramsFile)
}

// Load reads settings from path. A missing file yields the defaults.
// Fields absent from the file keep their default values.
func Load(path string) (*File, error) {
	f := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read settings")
	}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, errors.Wrapf(err, "parse settings %s", path)
	}
	if err := f.Params.Validate(); err != nil {
		return nil, errors.Wrapf(err, "settings %s", path)
	}
	return f, nil
}

// Save writes the settings to path, creating parent directories.
func (f *File) Save(path string) error {
	f.Version = CurrentVersion
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode settings")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create settings directory")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write settings")
}
