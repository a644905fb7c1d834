package engine

import (
	"math"

	"github.com/piwi3910/villaplan/internal/model"
)

// Region is an axis-aligned rectangle in land coordinates (m).
type Region struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns the region area, or 0 when either side is not positive.
func (r Region) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// QuadrantRegion pairs a quadrant with the land it covers.
type QuadrantRegion struct {
	Quadrant model.Quadrant `json:"quadrant"`
	Region   Region         `json:"region"`
}

// PlaceSocialClub sizes the social club to percentage of the land area,
// keeps the land's aspect ratio and centers it.
//
// The rectangle is not clamped: a percentage above 100 places it past the
// land boundary. Callers can check SocialClubLayout.FitsWithin.
func PlaceSocialClub(land model.LandParcel, percentage float64) model.SocialClubLayout {
	aspect := land.AspectRatio()
	if aspect <= 0 || land.TotalArea <= 0 {
		return model.SocialClubLayout{}
	}

	targetArea := land.TotalArea * percentage / 100.0
	height := math.Sqrt(targetArea / aspect)
	width := height * aspect

	return model.SocialClubLayout{
		Width:  width,
		Height: height,
		Area:   width * height,
		X:      (land.Width - width) / 2,
		Y:      (land.Height - height) / 2,
	}
}

// QuadrantRegions derives the four regions around the club in lot numbering
// order. North and south span the full land width; east and west span the
// club's height only.
func QuadrantRegions(land model.LandParcel, club model.SocialClubLayout) []QuadrantRegion {
	return []QuadrantRegion{
		{
			Quadrant: model.QuadrantNorth,
			Region:   Region{X: 0, Y: 0, Width: land.Width, Height: club.Y},
		},
		{
			Quadrant: model.QuadrantSouth,
			Region:   Region{X: 0, Y: club.Bottom(), Width: land.Width, Height: land.Height - club.Bottom()},
		},
		{
			Quadrant: model.QuadrantEast,
			Region:   Region{X: club.Right(), Y: club.Y, Width: land.Width - club.Right(), Height: club.Height},
		},
		{
			Quadrant: model.QuadrantWest,
			Region:   Region{X: 0, Y: club.Y, Width: club.X, Height: club.Height},
		},
	}
}
