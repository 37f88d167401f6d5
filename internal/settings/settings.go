// Package settings reads the user settings file that selects which
// currencies and stocks enrich the reports.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Keys understood by the report assembler.
const (
	KeyCurrencies = "user_currencies"
	KeyStocks     = "user_stocks"
)

// ErrMissingKey is returned when a requested settings key is absent.
var ErrMissingKey = errors.New("settings key not found")

// Settings is the parsed user_settings.json content.
type Settings map[string][]string

// Load reads a settings JSON file. A missing or unreadable file wraps
// the fs sentinel errors; invalid JSON is a parse error.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes a Settings map as JSON.
func Save(path string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// Default returns the settings a new project starts with.
func Default() Settings {
	return Settings{
		KeyCurrencies: {"USD", "EUR"},
		KeyStocks:     {"AAPL", "AMZN", "GOOGL", "MSFT", "TSLA"},
	}
}

// List returns the values stored under key.
func (s Settings) List(key string) ([]string, error) {
	values, ok := s[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingKey, key)
	}
	return values, nil
}
