package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
)

// ErrUnsupportedCurrency is returned for currency codes other than USD and DOP.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Currency is an ISO 4217 code for the display currency of an analysis.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyDOP Currency = "DOP" // Dominican peso
)

// ParseCurrency validates an ISO 4217 code and restricts it to the supported pair.
func ParseCurrency(code string) (Currency, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnsupportedCurrency, code, err)
	}
	switch c := Currency(unit.String()); c {
	case CurrencyUSD, CurrencyDOP:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCurrency, c)
	}
}

// Symbol returns the customary symbol used when printing amounts.
func (c Currency) Symbol() string {
	switch c {
	case CurrencyDOP:
		return "RD$"
	case CurrencyUSD:
		return "US$"
	default:
		return string(c)
	}
}

// OtherCost is an itemized project cost beyond land, amenities and legal fees.
type OtherCost struct {
	ID          string  `json:"id" yaml:"id"`
	Description string  `json:"description" yaml:"description"`
	Amount      float64 `json:"amount" yaml:"amount"`
}

// NewOtherCost builds an itemized cost whose ID is derived from its position and description.
func NewOtherCost(index int, description string, amount float64) OtherCost {
	return OtherCost{
		ID:          DeriveID("cost", strconv.Itoa(index), description),
		Description: description,
		Amount:      amount,
	}
}

// PricingScenario is the outcome of selling every lot at one profit margin.
type PricingScenario struct {
	ProfitMarginPercentage float64 `json:"profit_margin_percentage"`
	LotSalePrice           float64 `json:"lot_sale_price"`
	TotalRevenue           float64 `json:"total_revenue"`
	TotalProfit            float64 `json:"total_profit"`
	ProfitPerLot           float64 `json:"profit_per_lot"`
	ReturnOnInvestment     float64 `json:"return_on_investment"` // %
}

// LotMaintenance is one owner's share of the monthly social club upkeep.
type LotMaintenance struct {
	LotNumber            int     `json:"lot_number"`
	CommonAreaPercentage float64 `json:"common_area_percentage"`
	MonthlyContribution  float64 `json:"monthly_contribution"`
}

// FinancialAnalysis is the investment summary for one selected scenario.
// Raw inputs are kept alongside the derived figures so the analysis can be
// recomputed without asking the operator again.
type FinancialAnalysis struct {
	// Inputs
	LandCost                float64     `json:"land_cost"`
	AmenitiesCost           float64     `json:"amenities_cost"`
	LegalCosts              float64     `json:"legal_costs"`
	OtherCosts              []OtherCost `json:"other_costs"`
	TotalLandArea           float64     `json:"total_land_area"` // m²
	ProfitMargins           []float64   `json:"profit_margins"`
	TotalMonthlyMaintenance float64     `json:"total_monthly_maintenance"`
	Currency                Currency    `json:"currency"`
	ExchangeRate            float64     `json:"exchange_rate"` // DOP per USD

	// Scenario reference
	ScenarioID           string `json:"scenario_id,omitempty"`
	SocialClubPercentage int    `json:"social_club_percentage,omitempty"`
	NumberOfLots         int    `json:"number_of_lots"`

	// Derived
	TotalProjectCost    float64           `json:"total_project_cost"`
	CostPerSqm          float64           `json:"cost_per_sqm"`
	BaseCostPerLot      float64           `json:"base_cost_per_lot"`
	PricingScenarios    []PricingScenario `json:"pricing_scenarios"`
	MaintenancePerOwner float64           `json:"maintenance_per_owner"`
	MaintenanceByLot    []LotMaintenance  `json:"maintenance_by_lot"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OtherCostsTotal returns the unrounded sum of the itemized other costs.
func (a FinancialAnalysis) OtherCostsTotal() float64 {
	var total float64
	for _, c := range a.OtherCosts {
		total += c.Amount
	}
	return total
}

// PricingFor returns the pricing row for the given margin, if present.
func (a FinancialAnalysis) PricingFor(margin float64) (PricingScenario, bool) {
	for _, p := range a.PricingScenarios {
		if p.ProfitMarginPercentage == margin {
			return p, true
		}
	}
	return PricingScenario{}, false
}
