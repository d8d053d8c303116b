// Package types contains the read shapes handed to the presentation layer.
package types

import "github.com/okian/remonster/internal/domain/model"

// GridCell is one sampled background cell. Coord1/Coord2 are domain
// coordinates (a*/b* or c/m); X, Y, Width and Height place the cell on the
// drawing surface.
type GridCell struct {
	Coord1  float64 `json:"coord1"`
	Coord2  float64 `json:"coord2"`
	Color   string  `json:"color"`
	Tooltip string  `json:"tooltip"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Marker is the circle plotted for the current analysis result.
type Marker struct {
	GridCell
	Radius float64 `json:"radius"`
}

// Ring is an unfilled iso-chroma reference circle centered on the neutral axis.
type Ring struct {
	Chroma float64 `json:"chroma"`
	Label  string  `json:"label"`
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	Radius float64 `json:"radius"`
}

// Axis describes one plotted axis.
type Axis struct {
	Label string     `json:"label"`
	Min   float64    `json:"min"`
	Max   float64    `json:"max"`
	Range [2]float64 `json:"range"`
}

// Visualization is the full sampler output for one color space.
type Visualization struct {
	ColorSpace model.ColorSpace `json:"color_space"`
	Width      float64          `json:"width"`
	Height     float64          `json:"height"`
	OffsetX    float64          `json:"offset_x"`
	OffsetY    float64          `json:"offset_y"`
	XAxis      Axis             `json:"x_axis"`
	YAxis      Axis             `json:"y_axis"`
	Cells      []GridCell       `json:"cells"`
	Marker     Marker           `json:"marker"`
	Rings      []Ring           `json:"rings,omitempty"`
}
