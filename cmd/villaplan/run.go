package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/villaplan/internal/config"
	"github.com/piwi3910/villaplan/internal/diag"
	"github.com/piwi3910/villaplan/internal/engine"
	"github.com/piwi3910/villaplan/internal/finance"
	"github.com/piwi3910/villaplan/internal/model"
)

// app holds the wired planner for one CLI invocation.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	cache  *engine.ScenarioCache
	calc   *finance.Calculator
}

func newApp(cfg config.Config, logger *slog.Logger) app {
	sink := diag.NewSlogSink(logger)

	gen := engine.NewGenerator(cfg.Planner)
	gen.Diagnostics = sink

	calc := finance.NewCalculator(cfg.Planner.RecalcBudget)
	calc.Diagnostics = sink

	return app{
		cfg:    cfg,
		logger: logger,
		cache:  engine.NewScenarioCache(gen),
		calc:   calc,
	}
}

func (a *app) scenarios(width, height float64) (model.LandParcel, []model.SubdivisionScenario, error) {
	land, err := model.NewLandParcel(width, height)
	if err != nil {
		return model.LandParcel{}, nil, err
	}
	scenarios := a.cache.Get(land)
	a.logger.Debug("scenarios generated",
		"width", land.Width,
		"height", land.Height,
		"scenarios", len(scenarios),
	)
	return land, scenarios, nil
}

func (a *app) runScenarios(w io.Writer, width, height float64, asJSON bool) error {
	land, scenarios, err := a.scenarios(width, height)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, scenarios)
	}
	printScenarioTable(w, land, engine.Summarize(land, scenarios))
	return nil
}

func (a *app) runCompare(w io.Writer, width, height float64, asJSON bool) error {
	land, scenarios, err := a.scenarios(width, height)
	if err != nil {
		return err
	}
	results := engine.CompareScenarios(land, scenarios)
	if asJSON {
		return writeJSON(w, results)
	}
	printComparison(w, land, results)
	return nil
}

type analyzeOptions struct {
	percentage int
	currency   string
	margins    []float64
	asJSON     bool
}

// analysisFile is the YAML document accepted by the analyze command.
type analysisFile struct {
	Land                 landEntry        `yaml:"land"`
	SocialClubPercentage int              `yaml:"social_club_percentage"`
	LandCost             float64          `yaml:"land_cost"`
	AmenitiesCost        float64          `yaml:"amenities_cost"`
	LegalCosts           float64          `yaml:"legal_costs"`
	OtherCosts           []otherCostEntry `yaml:"other_costs"`
	ProfitMargins        []float64        `yaml:"profit_margins"`
	MonthlyMaintenance   *float64         `yaml:"monthly_maintenance"`
	Currency             string           `yaml:"currency"`
	ExchangeRate         float64          `yaml:"exchange_rate"`
}

type landEntry struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type otherCostEntry struct {
	Description string  `yaml:"description"`
	Amount      float64 `yaml:"amount"`
}

func loadAnalysisFile(path string) (analysisFile, error) {
	var f analysisFile
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("failed to read input: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("failed to parse input %s: %w", path, err)
	}
	return f, nil
}

// input merges the file over the configured defaults.
func (f analysisFile) input(defaults model.AppConfig) (finance.AnalysisInput, error) {
	in := finance.InputFromDefaults(defaults)
	in.LandCost = f.LandCost
	in.AmenitiesCost = f.AmenitiesCost
	in.LegalCosts = f.LegalCosts
	for i, c := range f.OtherCosts {
		in.OtherCosts = append(in.OtherCosts, model.NewOtherCost(i, c.Description, c.Amount))
	}
	if f.ProfitMargins != nil {
		in.ProfitMargins = f.ProfitMargins
	}
	if f.MonthlyMaintenance != nil {
		in.TotalMonthlyMaintenance = *f.MonthlyMaintenance
	}
	if f.ExchangeRate > 0 {
		in.ExchangeRate = f.ExchangeRate
	}
	if f.Currency != "" {
		c, err := model.ParseCurrency(f.Currency)
		if err != nil {
			return finance.AnalysisInput{}, err
		}
		in.Currency = c
	}
	return in, nil
}

func (a *app) runAnalyze(w io.Writer, path string, opts analyzeOptions) error {
	f, err := loadAnalysisFile(path)
	if err != nil {
		return err
	}
	in, err := f.input(a.cfg.Defaults)
	if err != nil {
		return err
	}
	if opts.margins != nil {
		in.ProfitMargins = opts.margins
	}

	land, scenarios, err := a.scenarios(f.Land.Width, f.Land.Height)
	if err != nil {
		return err
	}
	in.TotalLandArea = land.TotalArea

	percentage := opts.percentage
	if percentage == 0 {
		percentage = f.SocialClubPercentage
	}
	scenario, err := a.selectScenario(scenarios, percentage)
	if err != nil {
		return err
	}
	in.Scenario = scenario

	analysis := a.calc.Calculate(in)

	if opts.currency != "" {
		to, err := model.ParseCurrency(opts.currency)
		if err != nil {
			return err
		}
		analysis, err = finance.ConvertAnalysis(analysis, to)
		if err != nil {
			return err
		}
	}

	if opts.asJSON {
		return writeJSON(w, analysis)
	}
	printAnalysis(w, land, scenario, analysis)
	return nil
}

// selectScenario picks the requested percentage, or the default scenario when
// percentage is 0. A parcel with no viable scenario yields nil so the costs
// can still be reported.
func (a *app) selectScenario(scenarios []model.SubdivisionScenario, percentage int) (*model.SubdivisionScenario, error) {
	if len(scenarios) == 0 {
		a.logger.Warn("no viable subdivision for parcel; analysing costs only")
		return nil, nil
	}
	if percentage == 0 {
		s, _ := engine.DefaultScenario(scenarios, a.cfg.Planner.DefaultClubPercentage)
		return &s, nil
	}
	s, ok := engine.FindScenario(scenarios, percentage)
	if !ok {
		return nil, fmt.Errorf("no viable scenario at %d%% social club", percentage)
	}
	return &s, nil
}

func runConfigInit(w io.Writer, path string, force bool) error {
	_, err := os.Stat(path)
	switch {
	case err == nil && !force:
		return fmt.Errorf("config %s already exists; use --force to overwrite", path)
	case err == nil:
		backup, err := config.Backup(path, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Backed up %s to %s\n", path, backup)
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("failed to check config: %w", err)
	}

	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

func (a *app) runConfigShow(w io.Writer) error {
	data, err := yaml.Marshal(a.cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
