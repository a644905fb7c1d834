package engine

import (
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/piwi3910/villaplan/internal/diag"
	"github.com/piwi3910/villaplan/internal/model"
)

// Generator sweeps the social club percentage range and builds every viable
// subdivision scenario for a parcel.
type Generator struct {
	Settings    model.PlannerSettings
	Diagnostics diag.Sink
	Now         func() time.Time

	calls atomic.Int64
}

// NewGenerator returns a generator with a no-op diagnostics sink and the wall clock.
func NewGenerator(settings model.PlannerSettings) *Generator {
	return &Generator{
		Settings:    settings,
		Diagnostics: diag.Nop{},
		Now:         time.Now,
	}
}

// Calls returns how many sweeps this generator has run.
func (g *Generator) Calls() int64 {
	return g.calls.Load()
}

// Generate returns the viable scenarios for land, ordered by percentage.
// Non-viable percentages are dropped, so the result may be shorter than the
// sweep or empty.
func (g *Generator) Generate(land model.LandParcel) []model.SubdivisionScenario {
	g.calls.Add(1)

	now := g.now()
	start := now()

	scenarios := make([]model.SubdivisionScenario, 0, max(0, g.Settings.MaxClubPercentage-g.Settings.MinClubPercentage+1))
	for pct := g.Settings.MinClubPercentage; pct <= g.Settings.MaxClubPercentage; pct++ {
		scenario, ok := g.BuildScenario(land, pct, start)
		if !ok {
			continue
		}
		scenarios = append(scenarios, scenario)
	}

	if elapsed := now().Sub(start); g.Settings.SweepBudget > 0 && elapsed > g.Settings.SweepBudget {
		g.sink().BudgetExceeded(diag.BudgetEvent{
			Operation: "scenario_sweep",
			Budget:    g.Settings.SweepBudget,
			Elapsed:   elapsed,
			Attrs: []slog.Attr{
				slog.Float64("width", land.Width),
				slog.Float64("height", land.Height),
				slog.Int("scenarios", len(scenarios)),
			},
		})
	}
	return scenarios
}

// BuildScenario builds the subdivision for a single percentage. ok is false
// when the result is not viable.
func (g *Generator) BuildScenario(land model.LandParcel, percentage int, createdAt time.Time) (model.SubdivisionScenario, bool) {
	club := PlaceSocialClub(land, float64(percentage))

	var lots []model.MicroVillaLot
	next := 1
	for _, qr := range QuadrantRegions(land, club) {
		quadrantLots := SubdivideQuadrant(qr.Region, qr.Quadrant, next, g.Settings)
		lots = append(lots, quadrantLots...)
		next += len(quadrantLots)
	}

	if !viable(lots) {
		return model.SubdivisionScenario{}, false
	}

	lots, check := AllocateCommonArea(lots, club.Area, g.Settings.AllocationTolerance)
	if !check.OK {
		g.sink().InvariantViolated(diag.InvariantEvent{
			Invariant: "common_area_sum",
			Expected:  100,
			Actual:    check.Sum,
			Tolerance: check.Tolerance,
			Attrs: []slog.Attr{
				slog.Int("percentage", percentage),
				slog.Int("lots", len(lots)),
			},
		})
		if g.Settings.StrictAllocation {
			return model.SubdivisionScenario{}, false
		}
	}

	var lotArea float64
	for _, lot := range lots {
		lotArea += lot.Area
	}

	efficiency := 0.0
	if land.TotalArea > 0 {
		efficiency = (lotArea + club.Area) / land.TotalArea * 100.0
	}

	id := model.DeriveID(CacheKey(land.Width, land.Height), strconv.Itoa(percentage))
	// Subdivider IDs only identify a position within a region.
	for i := range lots {
		lots[i].ID = model.DeriveID(id, lots[i].ID)
	}

	return model.SubdivisionScenario{
		ID:                   id,
		SocialClubPercentage: percentage,
		SocialClub:           club,
		Lots:                 lots,
		TotalLots:            len(lots),
		AverageLotSize:       lotArea / float64(len(lots)),
		Efficiency:           efficiency,
		IsViable:             true,
		IsSelected:           percentage == g.Settings.DefaultClubPercentage,
		CreatedAt:            createdAt,
	}, true
}

// viable reports whether lots is non-empty and every lot meets the minimum.
func viable(lots []model.MicroVillaLot) bool {
	if len(lots) == 0 {
		return false
	}
	for _, lot := range lots {
		if !lot.IsValid {
			return false
		}
	}
	return true
}

func (g *Generator) now() func() time.Time {
	if g.Now == nil {
		return time.Now
	}
	return g.Now
}

func (g *Generator) sink() diag.Sink {
	if g.Diagnostics == nil {
		return diag.Nop{}
	}
	return g.Diagnostics
}

// FindScenario returns the scenario with the given percentage.
func FindScenario(scenarios []model.SubdivisionScenario, percentage int) (model.SubdivisionScenario, bool) {
	for _, s := range scenarios {
		if s.SocialClubPercentage == percentage {
			return s, true
		}
	}
	return model.SubdivisionScenario{}, false
}

// DefaultScenario returns the scenario flagged as selected, or the viable
// scenario whose percentage is closest to preferred. Ties go to the lower
// percentage.
func DefaultScenario(scenarios []model.SubdivisionScenario, preferred int) (model.SubdivisionScenario, bool) {
	for _, s := range scenarios {
		if s.IsSelected {
			return s, true
		}
	}

	var best model.SubdivisionScenario
	bestDist := -1
	for _, s := range scenarios {
		dist := s.SocialClubPercentage - preferred
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && s.SocialClubPercentage < best.SocialClubPercentage) {
			best = s
			bestDist = dist
		}
	}
	return best, bestDist >= 0
}
