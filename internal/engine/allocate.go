package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/piwi3910/villaplan/internal/model"
)

// ErrAllocationDrift is returned by AllocationCheck.Err when the common area
// shares do not add up to 100 within tolerance.
var ErrAllocationDrift = errors.New("common area allocation does not sum to 100")

// AllocationCheck is the post-condition of a common area allocation.
type AllocationCheck struct {
	Sum       float64 `json:"sum"`
	Drift     float64 `json:"drift"` // |Sum - 100|
	Tolerance float64 `json:"tolerance"`
	OK        bool    `json:"ok"`
}

// Err returns ErrAllocationDrift wrapped with the measured sum, or nil.
func (c AllocationCheck) Err() error {
	if c.OK {
		return nil
	}
	return fmt.Errorf("%w: got %.6f (tolerance %.4f)", ErrAllocationDrift, c.Sum, c.Tolerance)
}

// AllocateCommonArea returns a copy of lots where each lot owns a share of the
// social club proportional to its area. The input slice is not modified.
// clubArea is informational; shares depend only on lot areas.
func AllocateCommonArea(lots []model.MicroVillaLot, clubArea, tolerance float64) ([]model.MicroVillaLot, AllocationCheck) {
	out := make([]model.MicroVillaLot, len(lots))
	copy(out, lots)

	var totalArea float64
	for _, lot := range out {
		totalArea += lot.Area
	}

	var sum float64
	if totalArea > 0 {
		for i := range out {
			out[i].CommonAreaPercentage = out[i].Area / totalArea * 100.0
			sum += out[i].CommonAreaPercentage
		}
	} else {
		for i := range out {
			out[i].CommonAreaPercentage = 0
		}
	}

	drift := math.Abs(sum - 100.0)
	return out, AllocationCheck{
		Sum:       sum,
		Drift:     drift,
		Tolerance: tolerance,
		OK:        totalArea > 0 && drift <= tolerance,
	}
}
