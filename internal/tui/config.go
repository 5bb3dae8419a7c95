package tui

import (
	"errors"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

type Keymap struct {
	Quit    string `toml:"quit"`
	Add     string `toml:"add"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Toggle  string `toml:"toggle"`
	Delete  string `toml:"delete"`
	Filter  string `toml:"filter"`
	Focus   string `toml:"focus"`
	Confirm string `toml:"confirm"`
	Cancel  string `toml:"cancel"`
}

type Config struct {
	ServerURL     string `toml:"server_url"`
	DefaultFilter string `toml:"default_filter"`
	FocusMinutes  int    `toml:"focus_minutes"`
	Keys          Keymap `toml:"keys"`
}

func DefaultConfig() Config {
	return Config{
		ServerURL:     "http://localhost:8080",
		DefaultFilter: "pending",
		FocusMinutes:  25,
		Keys: Keymap{
			Quit:    "q",
			Add:     "a",
			Up:      "k",
			Down:    "j",
			Toggle:  " ",
			Delete:  "d",
			Filter:  "f",
			Focus:   "t",
			Confirm: "enter",
			Cancel:  "esc",
		},
	}
}

// LoadOrCreateConfig reads the TOML config, writing the defaults on
// first run so the keymap is discoverable.
func LoadOrCreateConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://localhost:8080"
	}
	if cfg.FocusMinutes <= 0 {
		cfg.FocusMinutes = 25
	}
	return cfg, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
