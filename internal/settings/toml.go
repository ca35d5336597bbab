package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// fileFormat is the on-disk shape of a settings file. Only user values are
// persisted; defaults come from the encoder implementation at startup.
type fileFormat struct {
	Version int            `toml:"version"`
	Values  map[string]any `toml:"values"`
}

// LoadFile reads user values from a TOML settings file into the store.
// A missing file is not an error; the store keeps its defaults.
func LoadFile(path string, s *Store) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	var file fileFormat
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse settings file: %w", err)
	}

	for key, raw := range file.Values {
		switch v := raw.(type) {
		case int64:
			s.SetInt(key, v)
		case float64:
			s.SetFloat(key, v)
		case bool:
			s.SetBool(key, v)
		default:
			return fmt.Errorf("settings key %q has unsupported type %T", key, raw)
		}
	}

	return nil
}

// SaveFile writes the store's user values to a TOML settings file.
// The write goes through a temp file and rename so a crash mid-write
// never truncates the previous file.
func SaveFile(path string, s *Store) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	file := fileFormat{
		Version: 1,
		Values:  s.UserSnapshot(),
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp settings file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace settings file: %w", err)
	}

	return nil
}
