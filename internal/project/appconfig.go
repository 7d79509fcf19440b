package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/piwi3910/DeckTakeoff/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.decktakeoff/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".decktakeoff")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

// SaveAppConfig persists an AppConfig to the given path as TOML.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(config); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Keys missing from the file keep their defaults.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	if _, err := toml.DecodeFile(path, &config); err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return config, nil
}

// CatalogPath returns the configured catalog file or the default location.
func CatalogPath(config model.AppConfig) string {
	if config.CatalogPath != "" {
		return config.CatalogPath
	}
	return filepath.Join(DefaultConfigDir(), "catalog.json")
}

// TemplatesPath returns the configured labor template file or the default.
func TemplatesPath(config model.AppConfig) string {
	if config.TemplatesPath != "" {
		return config.TemplatesPath
	}
	return filepath.Join(DefaultConfigDir(), "labor_templates.json")
}

// HistoryDir returns the configured history directory or the default.
func HistoryDir(config model.AppConfig) string {
	if config.HistoryDir != "" {
		return config.HistoryDir
	}
	return filepath.Join(DefaultConfigDir(), "history")
}
