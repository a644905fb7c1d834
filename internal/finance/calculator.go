package finance

import (
	"github.com/piwi3910/villaplan/internal/model"
)

// TotalProjectCost sums every project cost.
func TotalProjectCost(landCost, amenitiesCost, legalCosts float64, others []model.OtherCost) float64 {
	total := dec(landCost).Add(dec(amenitiesCost)).Add(dec(legalCosts))
	for _, c := range others {
		total = total.Add(dec(c.Amount))
	}
	return cents(total)
}

// CostPerSqm returns the project cost per square metre of land, or 0 for an
// empty parcel.
func CostPerSqm(totalProjectCost, totalLandArea float64) float64 {
	if totalLandArea <= 0 {
		return 0
	}
	return cents(dec(totalProjectCost).Div(dec(totalLandArea)))
}

// BaseCostPerLot returns the break-even price of one lot, or 0 without lots.
func BaseCostPerLot(totalProjectCost float64, numberOfLots int) float64 {
	if numberOfLots <= 0 {
		return 0
	}
	return cents(dec(totalProjectCost).Div(dec(float64(numberOfLots))))
}

// GeneratePricingScenario prices every lot at the given margin over its base cost.
func GeneratePricingScenario(baseCostPerLot, marginPercentage float64, lotCount int, totalProjectCost float64) model.PricingScenario {
	hundred := dec(100)
	price := dec(baseCostPerLot).Mul(hundred.Add(dec(marginPercentage))).Div(hundred)
	revenue := price.Mul(dec(float64(lotCount)))
	profit := revenue.Sub(dec(totalProjectCost))

	p := model.PricingScenario{
		ProfitMarginPercentage: marginPercentage,
		LotSalePrice:           cents(price),
		TotalRevenue:           cents(revenue),
		TotalProfit:            cents(profit),
	}
	if lotCount > 0 {
		p.ProfitPerLot = cents(profit.Div(dec(float64(lotCount))))
	}
	if totalProjectCost != 0 {
		p.ReturnOnInvestment = cents(profit.Div(dec(totalProjectCost)).Mul(hundred))
	}
	return p
}

// MaintenanceContribution returns one owner's monthly share of the upkeep.
func MaintenanceContribution(totalMonthlyMaintenance, commonAreaPercentage float64) float64 {
	return cents(dec(totalMonthlyMaintenance).Mul(dec(commonAreaPercentage)).Div(dec(100)))
}

// AverageMaintenanceContribution returns the mean monthly contribution across
// the scenario's lots, or 0 for a nil or empty scenario.
func AverageMaintenanceContribution(totalMonthlyMaintenance float64, scenario *model.SubdivisionScenario) float64 {
	if scenario == nil || len(scenario.Lots) == 0 {
		return 0
	}
	shares := make([]float64, len(scenario.Lots))
	for i, lot := range scenario.Lots {
		shares[i] = lot.CommonAreaPercentage
	}
	return averageContribution(totalMonthlyMaintenance, shares)
}

func averageContribution(totalMonthly float64, shares []float64) float64 {
	if len(shares) == 0 {
		return 0
	}
	sum := dec(0)
	for _, pct := range shares {
		sum = sum.Add(dec(totalMonthly).Mul(dec(pct)).Div(dec(100)))
	}
	return cents(sum.Div(dec(float64(len(shares)))))
}
