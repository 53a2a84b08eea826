// Package config provides Viper-based configuration loading for the extractor tools.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Tiers lists the item quality tiers in the order they are extracted.
var Tiers = []string{"common", "uncommon", "rare", "epic", "legendary"}

// Classes lists the playable character classes.
var Classes = []string{"paladin", "priest", "ranger", "sorcerer", "thief", "warlock", "wizard"}

// ExtractConfig holds the extraction run settings.
type ExtractConfig struct {
	// Root is the unpacked game asset directory every reference is resolved against.
	Root string `mapstructure:"root"`
	// Output is the file the aggregate document is written to; "-" writes to stdout.
	Output string `mapstructure:"output"`
	// Format is the output encoding: "json" or "yaml".
	Format string `mapstructure:"format"`
	// Validate runs the validator sweep over every file before extracting.
	Validate bool `mapstructure:"validate"`
	// Workers bounds the number of files decoded concurrently.
	Workers int `mapstructure:"workers"`
	// Trace logs every decoded element at debug level.
	Trace bool `mapstructure:"trace"`
	// Classes are the character classes to extract.
	Classes []string `mapstructure:"classes"`
	// Tiers are the item quality tiers to extract.
	Tiers []string `mapstructure:"tiers"`
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
	// Output is "stderr", "stdout" or a file path.
	Output string `mapstructure:"output"`
}

// SnapshotConfig controls persisting extraction results to PostgreSQL.
type SnapshotConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SimulationConfig describes the defender used by the damage simulator.
type SimulationConfig struct {
	Iterations int `mapstructure:"iterations"`
	// Seed makes runs reproducible; zero draws from crypto/rand.
	Seed             uint64  `mapstructure:"seed"`
	EnemyCount       int     `mapstructure:"enemy_count"`
	EvadePhysical    float64 `mapstructure:"evade_physical"`
	EvadeMagical     float64 `mapstructure:"evade_magical"`
	Armor            float64 `mapstructure:"armor"`
	Resistance       float64 `mapstructure:"resistance"`
	DamageMultiplier float64 `mapstructure:"damage_multiplier"`
}

// Config is the top-level application configuration.
type Config struct {
	Extract    ExtractConfig    `mapstructure:"extract"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Snapshot   SnapshotConfig   `mapstructure:"snapshot"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// Validate checks all configuration invariants. Database settings are only
// checked when snapshots are enabled.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateExtract(c.Extract); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Snapshot.Enabled {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateExtract(e ExtractConfig) error {
	var errs []string
	if e.Root == "" {
		errs = append(errs, "extract.root must not be empty")
	}
	if e.Output == "" {
		errs = append(errs, "extract.output must not be empty")
	}
	if e.Format != "json" && e.Format != "yaml" {
		errs = append(errs, fmt.Sprintf("extract.format must be one of [json, yaml], got %q", e.Format))
	}
	if e.Workers < 1 {
		errs = append(errs, fmt.Sprintf("extract.workers must be >= 1, got %d", e.Workers))
	}
	if len(e.Classes) == 0 {
		errs = append(errs, "extract.classes must not be empty")
	}
	for _, tier := range e.Tiers {
		if !slices.Contains(Tiers, tier) {
			errs = append(errs, fmt.Sprintf("extract.tiers: unknown tier %q", tier))
		}
	}
	if len(e.Tiers) == 0 {
		errs = append(errs, "extract.tiers must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Validate checks the connection settings regardless of whether snapshots
// are enabled.
func (d DatabaseConfig) Validate() error { return validateDatabase(d) }

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
		return errors.New(strings.Join(errs, "; "))
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
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Iterations < 1 {
		errs = append(errs, fmt.Sprintf("simulation.iterations must be >= 1, got %d", s.Iterations))
	}
	if s.EnemyCount < 1 {
		errs = append(errs, fmt.Sprintf("simulation.enemy_count must be >= 1, got %d", s.EnemyCount))
	}
	if s.EvadePhysical < 0 || s.EvadePhysical > 1 {
		errs = append(errs, fmt.Sprintf("simulation.evade_physical must be in [0, 1], got %v", s.EvadePhysical))
	}
	if s.EvadeMagical < 0 || s.EvadeMagical > 1 {
		errs = append(errs, fmt.Sprintf("simulation.evade_magical must be in [0, 1], got %v", s.EvadeMagical))
	}
	if s.DamageMultiplier < 0 {
		errs = append(errs, fmt.Sprintf("simulation.damage_multiplier must be >= 0, got %v", s.DamageMultiplier))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with HWX_ prefix
	v.SetEnvPrefix("HWX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
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
	v.SetDefault("extract.root", ".")
	v.SetDefault("extract.output", "data.json")
	v.SetDefault("extract.format", "json")
	v.SetDefault("extract.validate", true)
	v.SetDefault("extract.workers", 8)
	v.SetDefault("extract.trace", false)
	v.SetDefault("extract.classes", Classes)
	v.SetDefault("extract.tiers", Tiers)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "hwx")
	v.SetDefault("database.password", "hwx")
	v.SetDefault("database.name", "hwx")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("snapshot.enabled", false)

	v.SetDefault("simulation.iterations", 10000)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.enemy_count", 1)
	v.SetDefault("simulation.evade_physical", 0.1)
	v.SetDefault("simulation.evade_magical", 0.1)
	v.SetDefault("simulation.armor", 0)
	v.SetDefault("simulation.resistance", 0)
	v.SetDefault("simulation.damage_multiplier", 1)
}
