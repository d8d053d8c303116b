package sampler

import (
	"fmt"
	"strconv"

	"github.com/okian/remonster/internal/domain/colormath"
	"github.com/okian/remonster/internal/domain/model"
	"github.com/okian/remonster/internal/domain/types"
)

// LabGrid returns the a*/b* background cells at L = LabFixedL, a-major.
func (s *Sampler) LabGrid() []types.GridCell {
	x, y := s.viewport.axes(LabMin, LabMax)
	cells := make([]types.GridCell, 0, LabCellCount)
	for i := 0; i < labSamplesPerAxis; i++ {
		a := LabMin + float64(i)*LabStep
		for j := 0; j < labSamplesPerAxis; j++ {
			b := LabMin + float64(j)*LabStep
			cells = append(cells, types.GridCell{
				Coord1:  a,
				Coord2:  b,
				Color:   colormath.LabToHex(LabFixedL, a, b),
				Tooltip: labCellTooltip(a, b),
				X:       x.Map(a),
				Y:       y.Map(b),
				Width:   labCellSize,
				Height:  labCellSize,
			})
		}
	}
	return cells
}

// LabMarker places the result at its true L*, a*, b*.
func (s *Sampler) LabMarker(lab colormath.Lab) types.Marker {
	x, y := s.viewport.axes(LabMin, LabMax)
	return types.Marker{
		GridCell: types.GridCell{
			Coord1: lab.A,
			Coord2: lab.B,
			Color:  colormath.LabToHex(lab.L, lab.A, lab.B),
			Tooltip: fmt.Sprintf("Current:\nL: %.2f\na: %.2f\nb: %.2f\nChroma: %.2f\nHue: %.2f°",
				lab.L, lab.A, lab.B, colormath.Chroma(lab.A, lab.B), colormath.HueAngle(lab.A, lab.B)),
			X: x.Map(lab.A),
			Y: y.Map(lab.B),
		},
		Radius: markerRadius,
	}
}

// LabRings returns the iso-chroma reference circles around a* = b* = 0.
func (s *Sampler) LabRings() []types.Ring {
	x, y := s.viewport.axes(LabMin, LabMax)
	scale := NewLinear(0, chromaPerHalfWidth, 0, s.viewport.InnerWidth()/2)

	chromas := RingChromas()
	rings := make([]types.Ring, 0, len(chromas))
	for _, c := range chromas {
		rings = append(rings, types.Ring{
			Chroma: c,
			Label:  "Chroma: " + strconv.FormatFloat(c, 'f', -1, 64),
			CX:     x.Map(0),
			CY:     y.Map(0),
			Radius: scale.Map(c),
		})
	}
	return rings
}

func (s *Sampler) sampleLab(res *model.AnalysisResult) types.Visualization {
	x, y := s.viewport.axes(LabMin, LabMax)
	out := s.frame(model.ColorSpaceLAB, x, y, "a* (green-red)", "b* (blue-yellow)")
	out.Cells = s.LabGrid()
	out.Marker = s.LabMarker(res.RainbowLab)
	out.Rings = s.LabRings()
	return out
}

func labCellTooltip(a, b float64) string {
	return fmt.Sprintf("L: %s, a: %s, b: %s\nChroma: %.2f\nHue: %.2f°",
		strconv.FormatFloat(LabFixedL, 'f', -1, 64),
		strconv.FormatFloat(a, 'f', -1, 64),
		strconv.FormatFloat(b, 'f', -1, 64),
		colormath.Chroma(a, b), colormath.HueAngle(a, b))
}
