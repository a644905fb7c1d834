package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/villaplan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
planner:
  min_lot_area: 120
  sweep_budget: 500ms
defaults:
  default_currency: DOP
  default_profit_margins: [10, 40]
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 120.0, cfg.Planner.MinLotArea)
	assert.Equal(t, 500*time.Millisecond, cfg.Planner.SweepBudget)
	assert.Equal(t, 5.0, cfg.Planner.NearTieTolerance, "unset keys keep defaults")
	assert.Equal(t, 20, cfg.Planner.DefaultClubPercentage)
	assert.Equal(t, model.CurrencyDOP, cfg.Defaults.DefaultCurrency)
	assert.Equal(t, []float64{10, 40}, cfg.Defaults.DefaultProfitMargins)
	assert.Equal(t, 58.5, cfg.Defaults.DefaultExchangeRate)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("planner:\n  min_lot_area: 120\n"), 0644))

	t.Setenv("VILLAPLAN_MIN_LOT_AREA", "95.5")
	t.Setenv("VILLAPLAN_NEAR_TIE", "2")
	t.Setenv("VILLAPLAN_EXCHANGE_RATE", "60")
	t.Setenv("VILLAPLAN_PROFIT_MARGINS", "5,15")
	t.Setenv("VILLAPLAN_STRICT_ALLOCATION", "true")
	t.Setenv("VILLAPLAN_LOG_LEVEL", "WARN")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 95.5, cfg.Planner.MinLotArea)
	assert.Equal(t, 2.0, cfg.Planner.NearTieTolerance)
	assert.True(t, cfg.Planner.StrictAllocation)
	assert.Equal(t, 60.0, cfg.Defaults.DefaultExchangeRate)
	assert.Equal(t, []float64{5, 15}, cfg.Defaults.DefaultProfitMargins)
	assert.Equal(t, "WARN", cfg.LogLevel)
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("VILLAPLAN_MIN_LOT_AREA", "lots")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("planner: [not, a, map"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero lot area":         func(c *Config) { c.Planner.MinLotArea = 0 },
		"lot area below 90":     func(c *Config) { c.Planner.MinLotArea = 89.99 },
		"min percentage below":  func(c *Config) { c.Planner.MinClubPercentage = 9 },
		"max percentage above":  func(c *Config) { c.Planner.MaxClubPercentage = 31 },
		"loose tolerance":       func(c *Config) { c.Planner.AllocationTolerance = 0.5 },
		"negative tie":          func(c *Config) { c.Planner.NearTieTolerance = -1 },
		"inverted range":        func(c *Config) { c.Planner.MinClubPercentage, c.Planner.MaxClubPercentage = 30, 10 },
		"default outside range": func(c *Config) { c.Planner.DefaultClubPercentage = 40 },
		"negative tolerance":    func(c *Config) { c.Planner.AllocationTolerance = -0.1 },
		"negative budget":       func(c *Config) { c.Planner.RecalcBudget = -time.Second },
		"unsupported currency":  func(c *Config) { c.Defaults.DefaultCurrency = "EUR" },
		"zero exchange rate":    func(c *Config) { c.Defaults.DefaultExchangeRate = 0 },
		"negative maintenance":  func(c *Config) { c.Defaults.DefaultMonthlyMaintenance = -5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Planner.MinLotArea = 110
	cfg.Defaults.DefaultCurrency = model.CurrencyDOP

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	at := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

	got, err := Backup(path, at)
	require.NoError(t, err)
	assert.Empty(t, got, "nothing to back up yet")

	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0644))
	got, err = Backup(path, at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml.20250301T123000Z.bak"), got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "log_level: debug\n", string(data))
}

func TestLoad_RejectsEnvOutsideHardLimits(t *testing.T) {
	cases := map[string]string{
		"VILLAPLAN_MIN_PERCENTAGE": "5",
		"VILLAPLAN_MAX_PERCENTAGE": "40",
		"VILLAPLAN_MIN_LOT_AREA":   "40",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_NarrowerRangeAndTieAreAllowed(t *testing.T) {
	t.Setenv("VILLAPLAN_MIN_PERCENTAGE", "15")
	t.Setenv("VILLAPLAN_MAX_PERCENTAGE", "25")
	t.Setenv("VILLAPLAN_NEAR_TIE", "12")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Planner.MinClubPercentage)
	assert.Equal(t, 25, cfg.Planner.MaxClubPercentage)
	assert.Equal(t, 12.0, cfg.Planner.NearTieTolerance)
}
