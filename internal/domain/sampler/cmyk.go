package sampler

import (
	"fmt"

	"github.com/okian/remonster/internal/domain/colormath"
	"github.com/okian/remonster/internal/domain/model"
	"github.com/okian/remonster/internal/domain/types"
)

// CMYKGrid returns the c/m background cells with y and k held fixed, c-major.
func (s *Sampler) CMYKGrid(yellow, key float64) []types.GridCell {
	x, y := s.viewport.axes(CMYKMin, CMYKMax)
	w := s.viewport.InnerWidth() / CMYKDivisions
	h := s.viewport.InnerHeight() / CMYKDivisions

	cells := make([]types.GridCell, 0, CMYKCellCount)
	for i := 0; i <= CMYKDivisions; i++ {
		c := float64(i) / CMYKDivisions
		for j := 0; j <= CMYKDivisions; j++ {
			m := float64(j) / CMYKDivisions
			cells = append(cells, types.GridCell{
				Coord1:  c,
				Coord2:  m,
				Color:   colormath.CMYKToHex(c, m, yellow, key),
				Tooltip: fmt.Sprintf("C: %.2f, M: %.2f, Y: %.2f, K: %.2f", c, m, yellow, key),
				X:       x.Map(c),
				Y:       y.Map(m),
				Width:   w,
				Height:  h,
			})
		}
	}
	return cells
}

// CMYKMarker places the result at its true c/m with its full color.
func (s *Sampler) CMYKMarker(cmyk colormath.CMYK) types.Marker {
	x, y := s.viewport.axes(CMYKMin, CMYKMax)
	return types.Marker{
		GridCell: types.GridCell{
			Coord1: cmyk.C,
			Coord2: cmyk.M,
			Color:  colormath.CMYKToHex(cmyk.C, cmyk.M, cmyk.Y, cmyk.K),
			Tooltip: fmt.Sprintf("Current:\nC: %.2f\nM: %.2f\nY: %.2f\nK: %.2f",
				cmyk.C, cmyk.M, cmyk.Y, cmyk.K),
			X: x.Map(cmyk.C),
			Y: y.Map(cmyk.M),
		},
		Radius: markerRadius,
	}
}

func (s *Sampler) sampleCMYK(res *model.AnalysisResult) types.Visualization {
	x, y := s.viewport.axes(CMYKMin, CMYKMax)
	cmyk := res.CMYK.Color()

	out := s.frame(model.ColorSpaceCMYK, x, y, "Cyan", "Magenta")
	out.Cells = s.CMYKGrid(cmyk.Y, cmyk.K)
	out.Marker = s.CMYKMarker(cmyk)
	return out
}
