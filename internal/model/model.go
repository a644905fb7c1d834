package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidDimensions is returned when a land parcel is built from
// non-positive or non-finite measurements.
var ErrInvalidDimensions = errors.New("invalid land dimensions")

// Quadrant names one of the four regions surrounding the social club.
type Quadrant string

const (
	QuadrantNorth Quadrant = "north"
	QuadrantSouth Quadrant = "south"
	QuadrantEast  Quadrant = "east"
	QuadrantWest  Quadrant = "west"
)

// Quadrants returns the quadrants in the order lots are numbered.
func Quadrants() []Quadrant {
	return []Quadrant{QuadrantNorth, QuadrantSouth, QuadrantEast, QuadrantWest}
}

// String returns the quadrant name.
func (q Quadrant) String() string {
	return string(q)
}

// LandParcel is the rectangular piece of land being subdivided.
type LandParcel struct {
	Width     float64 `json:"width"`      // m
	Height    float64 `json:"height"`     // m
	TotalArea float64 `json:"total_area"` // m²
}

// NewLandParcel validates the dimensions and returns a parcel with its area filled in.
func NewLandParcel(width, height float64) (LandParcel, error) {
	if !isPositiveFinite(width) || !isPositiveFinite(height) {
		return LandParcel{}, fmt.Errorf("%w: %v x %v m", ErrInvalidDimensions, width, height)
	}
	return LandParcel{
		Width:     width,
		Height:    height,
		TotalArea: width * height,
	}, nil
}

// AspectRatio returns width / height, or 0 for a degenerate parcel.
func (l LandParcel) AspectRatio() float64 {
	if l.Height <= 0 {
		return 0
	}
	return l.Width / l.Height
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// SocialClubLayout is the shared-amenity rectangle placed inside the parcel.
// X and Y locate its top-left corner relative to the parcel origin.
type SocialClubLayout struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Area   float64 `json:"area"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Right returns the x coordinate of the club's right edge.
func (c SocialClubLayout) Right() float64 {
	return c.X + c.Width
}

// Bottom returns the y coordinate of the club's bottom edge.
func (c SocialClubLayout) Bottom() float64 {
	return c.Y + c.Height
}

// FitsWithin reports whether the club rectangle lies entirely inside the parcel.
func (c SocialClubLayout) FitsWithin(land LandParcel) bool {
	return c.X >= 0 && c.Y >= 0 && c.Right() <= land.Width && c.Bottom() <= land.Height
}

// MicroVillaLot is one individually-owned residential lot.
type MicroVillaLot struct {
	ID                   string   `json:"id"`
	LotNumber            int      `json:"lot_number"`
	X                    float64  `json:"x"`
	Y                    float64  `json:"y"`
	Width                float64  `json:"width"`
	Height               float64  `json:"height"`
	Area                 float64  `json:"area"`
	Quadrant             Quadrant `json:"quadrant"`
	CommonAreaPercentage float64  `json:"common_area_percentage"` // 0-100
	IsValid              bool     `json:"is_valid"`
}

// SubdivisionScenario is one complete partition of the parcel for a given
// social club percentage.
type SubdivisionScenario struct {
	ID                   string           `json:"id"`
	SocialClubPercentage int              `json:"social_club_percentage"`
	SocialClub           SocialClubLayout `json:"social_club"`
	Lots                 []MicroVillaLot  `json:"lots"`
	TotalLots            int              `json:"total_lots"`
	AverageLotSize       float64          `json:"average_lot_size"` // m²
	Efficiency           float64          `json:"efficiency"`       // % of land used by lots and club
	IsViable             bool             `json:"is_viable"`
	IsSelected           bool             `json:"is_selected"`
	CreatedAt            time.Time        `json:"created_at"`
}

// TotalLotArea returns the summed area of every lot in the scenario.
func (s SubdivisionScenario) TotalLotArea() float64 {
	var total float64
	for _, lot := range s.Lots {
		total += lot.Area
	}
	return total
}

// CommonAreaTotal returns the summed common area percentage of all lots.
func (s SubdivisionScenario) CommonAreaTotal() float64 {
	var total float64
	for _, lot := range s.Lots {
		total += lot.CommonAreaPercentage
	}
	return total
}

// LotsIn returns the lots belonging to the given quadrant, in lot order.
func (s SubdivisionScenario) LotsIn(q Quadrant) []MicroVillaLot {
	var lots []MicroVillaLot
	for _, lot := range s.Lots {
		if lot.Quadrant == q {
			lots = append(lots, lot)
		}
	}
	return lots
}

// Clone returns a copy that shares no slices with s.
func (s SubdivisionScenario) Clone() SubdivisionScenario {
	c := s
	if s.Lots != nil {
		c.Lots = make([]MicroVillaLot, len(s.Lots))
		copy(c.Lots, s.Lots)
	}
	return c
}

// PlannerSettings holds the subdivision policy knobs.
type PlannerSettings struct {
	MinLotArea float64 `json:"min_lot_area" yaml:"min_lot_area" env:"MIN_LOT_AREA"` // m²

	// Near-tie band in m²: a candidate grid whose lot area is within this
	// distance of the current best replaces it only if its lots are squarer.
	NearTieTolerance float64 `json:"near_tie_tolerance" yaml:"near_tie_tolerance" env:"NEAR_TIE"`

	// Social club percentage sweep, inclusive on both ends.
	MinClubPercentage     int `json:"min_club_percentage" yaml:"min_club_percentage" env:"MIN_PERCENTAGE"`
	MaxClubPercentage     int `json:"max_club_percentage" yaml:"max_club_percentage" env:"MAX_PERCENTAGE"`
	DefaultClubPercentage int `json:"default_club_percentage" yaml:"default_club_percentage" env:"DEFAULT_PERCENTAGE"`

	// Allowed drift of the summed common area percentages from 100.
	AllocationTolerance float64 `json:"allocation_tolerance" yaml:"allocation_tolerance" env:"ALLOCATION_TOLERANCE"`
	// Drop scenarios whose common area sum drifts instead of only reporting them.
	StrictAllocation bool `json:"strict_allocation" yaml:"strict_allocation" env:"STRICT_ALLOCATION"`

	SweepBudget  time.Duration `json:"sweep_budget" yaml:"sweep_budget" env:"SWEEP_BUDGET"`
	RecalcBudget time.Duration `json:"recalc_budget" yaml:"recalc_budget" env:"RECALC_BUDGET"`
}

// Hard limits every configuration must stay within.
const (
	MinimumLotArea         = 90.0 // m²
	ClubPercentageFloor    = 10
	ClubPercentageCeiling  = 30
	MaxAllocationTolerance = 0.01
)

// DefaultSettings returns the production subdivision policy.
func DefaultSettings() PlannerSettings {
	return PlannerSettings{
		MinLotArea:            MinimumLotArea,
		NearTieTolerance:      5.0,
		MinClubPercentage:     ClubPercentageFloor,
		MaxClubPercentage:     ClubPercentageCeiling,
		DefaultClubPercentage: 20,
		AllocationTolerance:   MaxAllocationTolerance,
		StrictAllocation:      false,
		SweepBudget:           2 * time.Second,
		RecalcBudget:          time.Second,
	}
}

// idNamespace scopes every derived identifier in this application.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("villaplan"))

// DeriveID returns a short identifier that is stable for the same parts.
// Scenarios are regenerated rather than stored, so identifiers must not
// depend on randomness.
func DeriveID(parts ...string) string {
	return uuid.NewSHA1(idNamespace, []byte(strings.Join(parts, "|"))).String()[:8]
}
