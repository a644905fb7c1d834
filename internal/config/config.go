package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/villaplan/internal/model"
)

// ErrInvalidConfig is returned when a loaded configuration cannot drive the planner.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full planner configuration read from file and environment.
type Config struct {
	Planner  model.PlannerSettings `yaml:"planner" envPrefix:"VILLAPLAN_"`
	Defaults model.AppConfig       `yaml:"defaults" envPrefix:"VILLAPLAN_"`
	LogLevel string                `yaml:"log_level" env:"VILLAPLAN_LOG_LEVEL"`
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() Config {
	return Config{
		Planner:  model.DefaultSettings(),
		Defaults: model.DefaultAppConfig(),
		LogLevel: "INFO",
	}
}

// DefaultDir returns the default directory for configuration, ~/.villaplan/.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".villaplan")
}

// DefaultPath returns the default path for the configuration file.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Backup copies the file at path next to itself with a timestamp suffix and
// returns the backup path. It returns "" when there is nothing to back up.
func Backup(path string, now time.Time) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read config for backup: %w", err)
	}
	backupPath := path + "." + now.UTC().Format("20060102T150405Z") + ".bak"
	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}
	return backupPath, nil
}

// ApplyEnv overlays VILLAPLAN_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks that the planner settings and financial defaults are usable.
func (c Config) Validate() error {
	p := c.Planner
	switch {
	case !(p.MinLotArea >= model.MinimumLotArea) || math.IsInf(p.MinLotArea, 0):
		return fmt.Errorf("%w: min_lot_area must be at least %v, got %v", ErrInvalidConfig, model.MinimumLotArea, p.MinLotArea)
	case p.NearTieTolerance < 0 || math.IsNaN(p.NearTieTolerance):
		return fmt.Errorf("%w: near_tie_tolerance must not be negative, got %v", ErrInvalidConfig, p.NearTieTolerance)
	case p.MinClubPercentage < model.ClubPercentageFloor || p.MaxClubPercentage > model.ClubPercentageCeiling ||
		p.MinClubPercentage > p.MaxClubPercentage:
		return fmt.Errorf("%w: club percentage range %d..%d must lie within %d..%d", ErrInvalidConfig,
			p.MinClubPercentage, p.MaxClubPercentage, model.ClubPercentageFloor, model.ClubPercentageCeiling)
	case p.DefaultClubPercentage < p.MinClubPercentage || p.DefaultClubPercentage > p.MaxClubPercentage:
		return fmt.Errorf("%w: default club percentage %d outside %d..%d",
			ErrInvalidConfig, p.DefaultClubPercentage, p.MinClubPercentage, p.MaxClubPercentage)
	case !(p.AllocationTolerance >= 0 && p.AllocationTolerance <= model.MaxAllocationTolerance):
		return fmt.Errorf("%w: allocation_tolerance must be within 0..%v, got %v",
			ErrInvalidConfig, model.MaxAllocationTolerance, p.AllocationTolerance)
	case p.SweepBudget < 0 || p.RecalcBudget < 0:
		return fmt.Errorf("%w: time budgets must not be negative", ErrInvalidConfig)
	}

	d := c.Defaults
	if _, err := model.ParseCurrency(string(d.DefaultCurrency)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !(d.DefaultExchangeRate > 0) || math.IsInf(d.DefaultExchangeRate, 0) {
		return fmt.Errorf("%w: default_exchange_rate must be positive, got %v", ErrInvalidConfig, d.DefaultExchangeRate)
	}
	for _, m := range d.DefaultProfitMargins {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return fmt.Errorf("%w: profit margin %v is not a number", ErrInvalidConfig, m)
		}
	}
	if d.DefaultMonthlyMaintenance < 0 {
		return fmt.Errorf("%w: default_monthly_maintenance must not be negative", ErrInvalidConfig)
	}
	return nil
}
