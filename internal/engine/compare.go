package engine

import (
	"github.com/piwi3910/villaplan/internal/model"
)

// ScenarioSummary condenses one scenario into the figures an operator compares.
type ScenarioSummary struct {
	ID                   string                 `json:"id"`
	SocialClubPercentage int                    `json:"social_club_percentage"`
	SocialClubArea       float64                `json:"social_club_area"`
	TotalLots            int                    `json:"total_lots"`
	AverageLotSize       float64                `json:"average_lot_size"`
	SmallestLot          float64                `json:"smallest_lot"`
	LargestLot           float64                `json:"largest_lot"`
	Efficiency           float64                `json:"efficiency"`
	LotsByQuadrant       map[model.Quadrant]int `json:"lots_by_quadrant"`
	ClubFitsLand         bool                   `json:"club_fits_land"`
	IsSelected           bool                   `json:"is_selected"`
}

// Summarize builds one summary per scenario, in input order.
func Summarize(land model.LandParcel, scenarios []model.SubdivisionScenario) []ScenarioSummary {
	summaries := make([]ScenarioSummary, 0, len(scenarios))
	for _, s := range scenarios {
		summary := ScenarioSummary{
			ID:                   s.ID,
			SocialClubPercentage: s.SocialClubPercentage,
			SocialClubArea:       s.SocialClub.Area,
			TotalLots:            s.TotalLots,
			AverageLotSize:       s.AverageLotSize,
			Efficiency:           s.Efficiency,
			LotsByQuadrant:       make(map[model.Quadrant]int, 4),
			ClubFitsLand:         s.SocialClub.FitsWithin(land),
			IsSelected:           s.IsSelected,
		}
		for i, lot := range s.Lots {
			if i == 0 || lot.Area < summary.SmallestLot {
				summary.SmallestLot = lot.Area
			}
			if lot.Area > summary.LargestLot {
				summary.LargestLot = lot.Area
			}
			summary.LotsByQuadrant[lot.Quadrant]++
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// ComparisonResult names the scenario that wins one comparison criterion.
type ComparisonResult struct {
	Criterion string          `json:"criterion"`
	Summary   ScenarioSummary `json:"summary"`
}

// CompareScenarios picks the best scenario for each criterion an operator
// usually weighs: the default allocation, the most lots, the highest land
// efficiency and the largest average lot. Ties go to the earlier scenario.
func CompareScenarios(land model.LandParcel, scenarios []model.SubdivisionScenario) []ComparisonResult {
	summaries := Summarize(land, scenarios)
	if len(summaries) == 0 {
		return nil
	}

	var results []ComparisonResult

	for _, s := range summaries {
		if s.IsSelected {
			results = append(results, ComparisonResult{Criterion: "Default Allocation", Summary: s})
			break
		}
	}

	criteria := []struct {
		name   string
		better func(a, b ScenarioSummary) bool
	}{
		{"Most Lots", func(a, b ScenarioSummary) bool { return a.TotalLots > b.TotalLots }},
		{"Highest Efficiency", func(a, b ScenarioSummary) bool { return a.Efficiency > b.Efficiency }},
		{"Largest Average Lot", func(a, b ScenarioSummary) bool { return a.AverageLotSize > b.AverageLotSize }},
	}

	for _, c := range criteria {
		best := summaries[0]
		for _, s := range summaries[1:] {
			if c.better(s, best) {
				best = s
			}
		}
		results = append(results, ComparisonResult{Criterion: c.name, Summary: best})
	}

	return results
}
