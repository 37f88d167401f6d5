package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level finview.yaml configuration.
type Config struct {
	Ledger LedgerConfig `yaml:"ledger"`
	Market MarketConfig `yaml:"market"`
	Server ServerConfig `yaml:"server"`
}

// LedgerConfig locates the flat input files.
type LedgerConfig struct {
	Path         string `yaml:"path"`
	SettingsPath string `yaml:"settings_path"`
}

// MarketConfig points at the external market-data providers. The API
// key itself lives in the environment (or a .env file), never in YAML.
type MarketConfig struct {
	RatesURL  string `yaml:"rates_url"`
	QuotesURL string `yaml:"quotes_url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// ServerConfig controls the HTTP report server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads a finview.yaml file from disk. A .env file next to the
// working directory is applied first so APIKey can resolve from it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			Path:         "data/operations.csv",
			SettingsPath: "user_settings.json",
		},
		Market: MarketConfig{
			RatesURL:  "https://www.cbr-xml-daily.ru/daily_json.js",
			QuotesURL: "https://www.alphavantage.co/query",
			APIKeyEnv: "MARKET_API_KEY",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// APIKey resolves the market API key from the configured env var.
func (c *Config) APIKey() string {
	return os.Getenv(c.Market.APIKeyEnv)
}
