// Package config loads application configuration from file and
// environment. Env var overrides use prefix SPENDLOG_.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	UI       UIConfig
	Search   SearchConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
	DateFormat     string `mapstructure:"date_format"`
	Timezone       string
}

// SearchConfig holds search defaults.
type SearchConfig struct {
	// CaseInsensitive seeds the default search flags; the UI toggle
	// overrides it per query.
	CaseInsensitive bool `mapstructure:"case_insensitive"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Path  string
	Level string
}

// Load reads configuration from file and env.
func Load() (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "spendlog", "spendlog.db"))
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.date_format", "02/01")
	v.SetDefault("ui.timezone", "")
	v.SetDefault("search.case_insensitive", true)
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "spendlog", "spendlog.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SPENDLOG_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "spendlog"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SPENDLOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config
// directory if needed. Used by the TUI settings view.
func Save(cfg Config) error {
	path := os.Getenv("SPENDLOG_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "spendlog", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("search.case_insensitive", cfg.Search.CaseInsensitive)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
