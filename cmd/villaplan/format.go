package main

import (
	"fmt"
	"io"

	"github.com/piwi3910/villaplan/internal/engine"
	"github.com/piwi3910/villaplan/internal/finance"
	"github.com/piwi3910/villaplan/internal/model"
)

func printLand(w io.Writer, land model.LandParcel) {
	fmt.Fprintf(w, "Parcel %.2f x %.2f m (%.2f m²)\n\n", land.Width, land.Height, land.TotalArea)
}

func printScenarioTable(w io.Writer, land model.LandParcel, summaries []engine.ScenarioSummary) {
	printLand(w, land)
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No viable subdivision: the parcel is too small for any lot.")
		return
	}

	fmt.Fprintf(w, "%-4s %6s %10s %5s %5s %5s %5s %5s %10s %10s %10s\n",
		"", "Club %", "Club m²", "Lots", "N", "S", "E", "W", "Avg m²", "Min m²", "Eff %")
	fmt.Fprintf(w, "%-4s %6s %10s %5s %5s %5s %5s %5s %10s %10s %10s\n",
		"----", "------", "----------", "-----", "-----", "-----", "-----", "-----", "----------", "----------", "----------")

	for _, s := range summaries {
		marker := ""
		if s.IsSelected {
			marker = "*"
		}
		fmt.Fprintf(w, "%-4s %6d %10.2f %5d %5d %5d %5d %5d %10.2f %10.2f %10.2f\n",
			marker, s.SocialClubPercentage, s.SocialClubArea, s.TotalLots,
			s.LotsByQuadrant[model.QuadrantNorth], s.LotsByQuadrant[model.QuadrantSouth],
			s.LotsByQuadrant[model.QuadrantEast], s.LotsByQuadrant[model.QuadrantWest],
			s.AverageLotSize, s.SmallestLot, s.Efficiency)
	}
	fmt.Fprintf(w, "\n%d viable scenarios (* = default)\n", len(summaries))
}

func printComparison(w io.Writer, land model.LandParcel, results []engine.ComparisonResult) {
	printLand(w, land)
	if len(results) == 0 {
		fmt.Fprintln(w, "No viable subdivision to compare.")
		return
	}

	fmt.Fprintf(w, "%-22s %6s %6s %10s %10s\n", "Criterion", "Club %", "Lots", "Avg m²", "Eff %")
	fmt.Fprintf(w, "%-22s %6s %6s %10s %10s\n", "----------------------", "------", "------", "----------", "----------")
	for _, r := range results {
		fmt.Fprintf(w, "%-22s %6d %6d %10.2f %10.2f\n",
			r.Criterion, r.Summary.SocialClubPercentage, r.Summary.TotalLots, r.Summary.AverageLotSize, r.Summary.Efficiency)
	}
}

func printAnalysis(w io.Writer, land model.LandParcel, scenario *model.SubdivisionScenario, a model.FinancialAnalysis) {
	money := func(v float64) string { return finance.FormatMoney(v, a.Currency) }

	printLand(w, land)
	if scenario != nil {
		fmt.Fprintf(w, "Scenario %s: %d%% social club (%.2f m²), %d lots averaging %.2f m²\n\n",
			scenario.ID, scenario.SocialClubPercentage, scenario.SocialClub.Area, scenario.TotalLots, scenario.AverageLotSize)
	} else {
		fmt.Fprintln(w, "No scenario selected")
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Costs")
	fmt.Fprintln(w, "-----")
	fmt.Fprintf(w, "  Land:                 %s\n", money(a.LandCost))
	fmt.Fprintf(w, "  Amenities:            %s\n", money(a.AmenitiesCost))
	fmt.Fprintf(w, "  Legal:                %s\n", money(a.LegalCosts))
	for _, c := range a.OtherCosts {
		fmt.Fprintf(w, "  %-21s %s\n", c.Description+":", money(c.Amount))
	}
	fmt.Fprintf(w, "  Total project cost:   %s\n", money(a.TotalProjectCost))
	fmt.Fprintf(w, "  Cost per m²:          %s\n", money(a.CostPerSqm))
	fmt.Fprintf(w, "  Base cost per lot:    %s\n", money(a.BaseCostPerLot))
	fmt.Fprintln(w)

	if len(a.PricingScenarios) > 0 {
		fmt.Fprintf(w, "%8s %18s %18s %18s %18s %8s\n", "Margin %", "Lot price", "Revenue", "Profit", "Profit/lot", "ROI %")
		fmt.Fprintf(w, "%8s %18s %18s %18s %18s %8s\n", "--------", "------------------", "------------------", "------------------", "------------------", "--------")
		for _, p := range a.PricingScenarios {
			fmt.Fprintf(w, "%8.2f %18s %18s %18s %18s %8.2f\n",
				p.ProfitMarginPercentage, money(p.LotSalePrice), money(p.TotalRevenue),
				money(p.TotalProfit), money(p.ProfitPerLot), p.ReturnOnInvestment)
		}
		fmt.Fprintln(w)
	}

	if a.TotalMonthlyMaintenance > 0 {
		fmt.Fprintf(w, "Monthly maintenance %s, %s per owner on average\n",
			money(a.TotalMonthlyMaintenance), money(a.MaintenancePerOwner))
	}
}
