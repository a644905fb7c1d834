package finance

import (
	"log/slog"
	"time"

	"github.com/piwi3910/villaplan/internal/diag"
	"github.com/piwi3910/villaplan/internal/model"
)

// AnalysisInput carries everything an operator enters for a financial analysis.
// Scenario may be nil while no subdivision has been selected yet.
type AnalysisInput struct {
	LandCost                float64
	AmenitiesCost           float64
	LegalCosts              float64
	OtherCosts              []model.OtherCost
	TotalLandArea           float64 // m²
	Scenario                *model.SubdivisionScenario
	ProfitMargins           []float64
	TotalMonthlyMaintenance float64
	Currency                model.Currency
	ExchangeRate            float64
	CalculatedAt            time.Time
}

// InputFromDefaults seeds an input with the operator's configured defaults.
func InputFromDefaults(cfg model.AppConfig) AnalysisInput {
	return AnalysisInput{
		ProfitMargins:           cfg.Margins(),
		TotalMonthlyMaintenance: cfg.DefaultMonthlyMaintenance,
		Currency:                cfg.DefaultCurrency,
		ExchangeRate:            cfg.DefaultExchangeRate,
	}
}

// scenarioRef is the part of a scenario the financial model depends on.
type scenarioRef struct {
	id         string
	percentage int
	lots       []model.LotMaintenance
}

func refFromScenario(s *model.SubdivisionScenario) *scenarioRef {
	if s == nil {
		return nil
	}
	ref := &scenarioRef{
		id:         s.ID,
		percentage: s.SocialClubPercentage,
		lots:       make([]model.LotMaintenance, len(s.Lots)),
	}
	for i, lot := range s.Lots {
		ref.lots[i] = model.LotMaintenance{
			LotNumber:            lot.LotNumber,
			CommonAreaPercentage: lot.CommonAreaPercentage,
		}
	}
	return ref
}

// refFromAnalysis rebuilds the scenario reference stored in a previous analysis.
func refFromAnalysis(a model.FinancialAnalysis) *scenarioRef {
	if a.NumberOfLots == 0 && a.ScenarioID == "" {
		return nil
	}
	ref := &scenarioRef{
		id:         a.ScenarioID,
		percentage: a.SocialClubPercentage,
		lots:       make([]model.LotMaintenance, len(a.MaintenanceByLot)),
	}
	copy(ref.lots, a.MaintenanceByLot)
	return ref
}

// CalculateFinancialAnalysis derives the complete analysis for in. A nil
// scenario produces a zero base cost, an empty pricing table and no
// maintenance split.
func CalculateFinancialAnalysis(in AnalysisInput) model.FinancialAnalysis {
	a := model.FinancialAnalysis{
		LandCost:                in.LandCost,
		AmenitiesCost:           in.AmenitiesCost,
		LegalCosts:              in.LegalCosts,
		OtherCosts:              copyCosts(in.OtherCosts),
		TotalLandArea:           in.TotalLandArea,
		ProfitMargins:           copyMargins(in.ProfitMargins),
		TotalMonthlyMaintenance: in.TotalMonthlyMaintenance,
		Currency:                in.Currency,
		ExchangeRate:            in.ExchangeRate,
		CreatedAt:               in.CalculatedAt,
	}
	if a.Currency == "" {
		a.Currency = model.CurrencyUSD
	}
	derive(&a, refFromScenario(in.Scenario), in.CalculatedAt)
	return a
}

// RecalculateFinancialAnalysis re-derives every computed field of prev from its
// stored inputs. A non-nil scenario replaces the one prev was built for and
// non-nil margins replace the margin set; entered costs are never discarded.
// To drop the scenario entirely, build a fresh analysis instead.
func RecalculateFinancialAnalysis(prev model.FinancialAnalysis, scenario *model.SubdivisionScenario, margins []float64, at time.Time) model.FinancialAnalysis {
	a := prev
	a.OtherCosts = copyCosts(prev.OtherCosts)
	a.ProfitMargins = copyMargins(prev.ProfitMargins)
	if margins != nil {
		a.ProfitMargins = copyMargins(margins)
	}

	ref := refFromAnalysis(prev)
	if scenario != nil {
		ref = refFromScenario(scenario)
	}
	derive(&a, ref, at)
	return a
}

func derive(a *model.FinancialAnalysis, ref *scenarioRef, at time.Time) {
	a.TotalProjectCost = TotalProjectCost(a.LandCost, a.AmenitiesCost, a.LegalCosts, a.OtherCosts)
	a.CostPerSqm = CostPerSqm(a.TotalProjectCost, a.TotalLandArea)
	a.UpdatedAt = at

	a.ScenarioID = ""
	a.SocialClubPercentage = 0
	a.NumberOfLots = 0
	a.BaseCostPerLot = 0
	a.PricingScenarios = []model.PricingScenario{}
	a.MaintenancePerOwner = 0
	a.MaintenanceByLot = []model.LotMaintenance{}
	if ref == nil {
		return
	}

	a.ScenarioID = ref.id
	a.SocialClubPercentage = ref.percentage
	a.NumberOfLots = len(ref.lots)
	a.BaseCostPerLot = BaseCostPerLot(a.TotalProjectCost, a.NumberOfLots)

	for _, m := range a.ProfitMargins {
		a.PricingScenarios = append(a.PricingScenarios,
			GeneratePricingScenario(a.BaseCostPerLot, m, a.NumberOfLots, a.TotalProjectCost))
	}

	shares := make([]float64, len(ref.lots))
	for i, lot := range ref.lots {
		shares[i] = lot.CommonAreaPercentage
		a.MaintenanceByLot = append(a.MaintenanceByLot, model.LotMaintenance{
			LotNumber:            lot.LotNumber,
			CommonAreaPercentage: lot.CommonAreaPercentage,
			MonthlyContribution:  MaintenanceContribution(a.TotalMonthlyMaintenance, lot.CommonAreaPercentage),
		})
	}
	a.MaintenancePerOwner = averageContribution(a.TotalMonthlyMaintenance, shares)
}

func copyCosts(in []model.OtherCost) []model.OtherCost {
	out := make([]model.OtherCost, len(in))
	copy(out, in)
	return out
}

func copyMargins(in []float64) []float64 {
	out := make([]float64, len(in))
	copy(out, in)
	return out
}

// Calculator runs analyses against a clock and reports recalculations that
// overrun the budget.
type Calculator struct {
	Budget      time.Duration
	Diagnostics diag.Sink
	Now         func() time.Time
}

// NewCalculator returns a calculator with the given soft budget, a no-op sink and the wall clock.
func NewCalculator(budget time.Duration) *Calculator {
	return &Calculator{
		Budget:      budget,
		Diagnostics: diag.Nop{},
		Now:         time.Now,
	}
}

// Calculate stamps in with the current time and derives its analysis.
func (c *Calculator) Calculate(in AnalysisInput) model.FinancialAnalysis {
	now := c.now()
	start := now()
	if in.CalculatedAt.IsZero() {
		in.CalculatedAt = start
	}
	a := CalculateFinancialAnalysis(in)
	c.observe("financial_calculation", start, now(), a)
	return a
}

// Recalculate re-derives prev after a scenario or margin change.
func (c *Calculator) Recalculate(prev model.FinancialAnalysis, scenario *model.SubdivisionScenario, margins []float64) model.FinancialAnalysis {
	now := c.now()
	start := now()
	a := RecalculateFinancialAnalysis(prev, scenario, margins, start)
	c.observe("financial_recalculation", start, now(), a)
	return a
}

func (c *Calculator) observe(op string, start, end time.Time, a model.FinancialAnalysis) {
	elapsed := end.Sub(start)
	if c.Budget <= 0 || elapsed <= c.Budget {
		return
	}
	sink := c.Diagnostics
	if sink == nil {
		sink = diag.Nop{}
	}
	sink.BudgetExceeded(diag.BudgetEvent{
		Operation: op,
		Budget:    c.Budget,
		Elapsed:   elapsed,
		Attrs: []slog.Attr{
			slog.Int("lots", a.NumberOfLots),
			slog.Int("margins", len(a.ProfitMargins)),
		},
	})
}

func (c *Calculator) now() func() time.Time {
	if c.Now == nil {
		return time.Now
	}
	return c.Now
}
