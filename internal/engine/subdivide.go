package engine

import (
	"math"
	"strconv"

	"github.com/piwi3910/villaplan/internal/model"
)

// gridConfig is one candidate rows x cols tiling of a region.
type gridConfig struct {
	rows      int
	cols      int
	lotWidth  float64
	lotHeight float64
	lotArea   float64
	aspect    float64 // long side / short side, 1 is square
}

// betterThan reports whether c should replace best under the densest-first,
// squarer-on-near-tie policy.
func (c gridConfig) betterThan(best gridConfig, nearTie float64) bool {
	if c.lotArea < best.lotArea {
		return true
	}
	return math.Abs(c.lotArea-best.lotArea) <= nearTie && c.aspect < best.aspect
}

// bestGrid searches every rows x cols combination up to the division bound
// and returns the configuration with the smallest lot area at or above the
// minimum. ok is false when no configuration qualifies.
func bestGrid(width, height float64, settings model.PlannerSettings) (best gridConfig, ok bool) {
	area := width * height
	if width <= 0 || height <= 0 || settings.MinLotArea <= 0 || area < settings.MinLotArea {
		return gridConfig{}, false
	}

	maxDivisions := int(math.Floor(math.Sqrt(area/settings.MinLotArea))) + 1

	for rows := 1; rows <= maxDivisions; rows++ {
		for cols := 1; cols <= maxDivisions; cols++ {
			lotWidth := width / float64(cols)
			lotHeight := height / float64(rows)
			lotArea := lotWidth * lotHeight
			if lotArea < settings.MinLotArea {
				continue
			}

			candidate := gridConfig{
				rows:      rows,
				cols:      cols,
				lotWidth:  lotWidth,
				lotHeight: lotHeight,
				lotArea:   lotArea,
				aspect:    math.Max(lotWidth, lotHeight) / math.Min(lotWidth, lotHeight),
			}
			if !ok || candidate.betterThan(best, settings.NearTieTolerance) {
				best = candidate
				ok = true
			}
		}
	}
	return best, ok
}

// SubdivideQuadrant tiles region into equal lots of at least
// settings.MinLotArea, preferring the densest grid. Lots are emitted
// row-major and numbered from startLot. The result is empty when the region
// cannot hold a single lot.
func SubdivideQuadrant(region Region, quadrant model.Quadrant, startLot int, settings model.PlannerSettings) []model.MicroVillaLot {
	grid, ok := bestGrid(region.Width, region.Height, settings)
	if !ok {
		return nil
	}

	lots := make([]model.MicroVillaLot, 0, grid.rows*grid.cols)
	for row := 0; row < grid.rows; row++ {
		for col := 0; col < grid.cols; col++ {
			number := startLot + len(lots)
			x := region.X + float64(col)*grid.lotWidth
			y := region.Y + float64(row)*grid.lotHeight
			lots = append(lots, model.MicroVillaLot{
				ID:        model.DeriveID(string(quadrant), formatCoord(x), formatCoord(y), strconv.Itoa(number)),
				LotNumber: number,
				X:         x,
				Y:         y,
				Width:     grid.lotWidth,
				Height:    grid.lotHeight,
				Area:      grid.lotArea,
				Quadrant:  quadrant,
				IsValid:   grid.lotArea >= settings.MinLotArea,
			})
		}
	}
	return lots
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
