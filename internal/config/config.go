// Package config provides Viper-based configuration loading for the bot.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ChatConfig holds the IRC connection and bot identity.
type ChatConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Nickname string `mapstructure:"nickname"`
	Username string `mapstructure:"username"`
	RealName string `mapstructure:"realname"`
	// Channels are joined on connect.
	Channels []string `mapstructure:"channels"`
	// Owners may run owner-only commands such as saveall.
	Owners []string `mapstructure:"owners"`
	// Prefix marks channel commands.
	Prefix       string        `mapstructure:"prefix"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the "host:port" server address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (c ChatConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig selects where player records live.
type StorageConfig struct {
	// Backend is "file" or "postgres".
	Backend string `mapstructure:"backend"`
	// Dir is the file backend's record directory.
	Dir string `mapstructure:"dir"`
	// Format is the file backend's encoding: "json" or "yaml".
	Format string `mapstructure:"format"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// OutputPaths defaults to stderr when empty.
	OutputPaths []string `mapstructure:"output_paths"`
}

// GameConfig holds rules-engine settings.
type GameConfig struct {
	// AutosaveInterval is how often every logged-in player is saved; 0 disables.
	AutosaveInterval time.Duration `mapstructure:"autosave_interval"`
	// BestiaryDir holds monster template YAML files; empty means no bestiary.
	BestiaryDir string `mapstructure:"bestiary_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Chat     ChatConfig     `mapstructure:"chat"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
}

// Validate checks all configuration invariants. Database settings are only
// checked when the postgres backend is selected.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateChat(c.Chat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Storage.Backend == "postgres" {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Game.AutosaveInterval < 0 {
		errs = append(errs, "game.autosave_interval must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateChat(c ChatConfig) error {
	var errs []string
	if c.Host == "" {
		errs = append(errs, "chat.host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("chat.port must be 1-65535, got %d", c.Port))
	}
	if c.Nickname == "" || strings.ContainsAny(c.Nickname, " \r\n") {
		errs = append(errs, fmt.Sprintf("chat.nickname must be a single word, got %q", c.Nickname))
	}
	for _, ch := range c.Channels {
		if !strings.HasPrefix(ch, "#") && !strings.HasPrefix(ch, "&") {
			errs = append(errs, fmt.Sprintf("chat.channels entry %q must start with # or &", ch))
		}
	}
	if c.Prefix == "" || strings.ContainsAny(c.Prefix, " \r\n") {
		errs = append(errs, fmt.Sprintf("chat.prefix must be non-empty without whitespace, got %q", c.Prefix))
	}
	if c.ReadTimeout < 0 {
		errs = append(errs, "chat.read_timeout must not be negative")
	}
	if c.WriteTimeout < 0 {
		errs = append(errs, "chat.write_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	switch s.Backend {
	case "file":
		var errs []string
		if s.Dir == "" {
			errs = append(errs, "storage.dir must not be empty for the file backend")
		}
		if s.Format != "json" && s.Format != "yaml" {
			errs = append(errs, fmt.Sprintf("storage.format must be one of [json, yaml], got %q", s.Format))
		}
		if len(errs) > 0 {
			return fmt.Errorf("%s", strings.Join(errs, "; "))
		}
		return nil
	case "postgres":
		return nil
	default:
		return fmt.Errorf("storage.backend must be one of [file, postgres], got %q", s.Backend)
	}
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies DMBOT_
// environment overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and environment overrides
// (DMBOT_CHAT_HOST, DMBOT_STORAGE_BACKEND, ...) applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DMBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("chat.host", "localhost")
	v.SetDefault("chat.port", 6667)
	v.SetDefault("chat.nickname", "dmbot")
	v.SetDefault("chat.realname", "Dungeon Master Bot")
	v.SetDefault("chat.prefix", ".")
	v.SetDefault("chat.read_timeout", "5m")
	v.SetDefault("chat.write_timeout", "30s")

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.dir", "players")
	v.SetDefault("storage.format", "json")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "dmbot")
	v.SetDefault("database.password", "dmbot")
	v.SetDefault("database.name", "dmbot")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.autosave_interval", "5m")
}
