package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes a TOML file into v and returns the keys of the file
// that v has no field for.
func LoadTOMLFile(path string, v any) ([]string, error) {
	meta, err := toml.DecodeFile(path, v)
	if err != nil {
		log.Warnf("TOML parsing error in %s: %v. Attempting partial recovery...", path, err)
		return nil, err
	}
	var unknown []string
	for _, key := range meta.Undecoded() {
		unknown = append(unknown, key.String())
	}
	return unknown, nil
}

// SaveTOMLFile encodes v into path. The file is written next to its target
// and renamed into place, so readers never see a partial file.
func SaveTOMLFile(v any, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".toml-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// DecodeTOMLMap decodes a TOML file without a target struct, so values of
// the wrong type can still be picked one by one.
func DecodeTOMLMap(path string) (map[string]any, error) {
	data := make(map[string]any)
	if _, err := toml.DecodeFile(path, &data); err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v", path, err)
		return nil, err
	}
	return data, nil
}

// ExtractSection returns the table named name.
func ExtractSection(data map[string]any, name string) (map[string]any, bool) {
	return Extract[map[string]any](data, name)
}

// Extract returns data[key] when it holds a T.
func Extract[T any](data map[string]any, key string) (T, bool) {
	val, ok := data[key].(T)
	return val, ok
}

// ExtractInt returns data[key] when it holds a TOML integer.
func ExtractInt(data map[string]any, key string) (int, bool) {
	val, ok := Extract[int64](data, key)
	return int(val), ok
}
