// Package sampler generates the drawable cells of the color-space plots.
//
// The L*a*b* plot sweeps the a*/b* plane at a constant lightness and the
// CMYK plot sweeps the c/m plane at the result's own y/k. Both are constant
// slices of the real space; the marker for the current result is placed at
// its true coordinates, so it may differ from the cell it sits on.
//
// Sampling is pure: the same (mode, result) always yields the same cells in
// the same order, and a Sampler may be shared between goroutines.
package sampler

import (
	"github.com/okian/remonster/internal/domain/model"
	"github.com/okian/remonster/internal/domain/types"
)

// Grid constants. Endpoints are inclusive on both axes.
const (
	LabMin    = -100.0
	LabMax    = 100.0
	LabStep   = 5.0
	LabFixedL = 65.0

	CMYKMin = 0.0
	CMYKMax = 1.0
	// CMYKDivisions is the number of steps across [0, 1]; the step is 1/CMYKDivisions.
	CMYKDivisions = 10

	labCellSize  = 5.0
	markerRadius = 8.0
	// chromaPerHalfWidth is the chroma that spans half the inner plot width.
	chromaPerHalfWidth = 100.0
)

// LabCellCount and CMYKCellCount are the background cell counts per mode.
const (
	labSamplesPerAxis  = int((LabMax-LabMin)/LabStep) + 1
	cmykSamplesPerAxis = CMYKDivisions + 1

	LabCellCount  = labSamplesPerAxis * labSamplesPerAxis
	CMYKCellCount = cmykSamplesPerAxis * cmykSamplesPerAxis
)

// RingChromas are the iso-chroma reference radii drawn in L*a*b* mode.
func RingChromas() []float64 {
	return []float64{25, 50, 75}
}

// Option applies a configuration option to the Sampler.
type Option func(*Sampler)

// WithViewport sets the drawing surface the domains are mapped onto.
func WithViewport(v Viewport) Option {
	return func(s *Sampler) {
		if v.InnerWidth() > 0 && v.InnerHeight() > 0 {
			s.viewport = v
		}
	}
}

// Sampler maps analysis results onto a fixed viewport.
type Sampler struct {
	viewport Viewport
}

// New creates a Sampler for the default 300x300 viewport unless overridden.
func New(opts ...Option) *Sampler {
	s := &Sampler{viewport: DefaultViewport()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Viewport returns the configured drawing surface.
func (s *Sampler) Viewport() Viewport {
	return s.viewport
}

// Sample produces the cells, marker and (L*a*b* only) rings for mode.
func (s *Sampler) Sample(mode model.ColorSpace, res *model.AnalysisResult) types.Visualization {
	if mode == model.ColorSpaceCMYK {
		return s.sampleCMYK(res)
	}
	return s.sampleLab(res)
}

// Sample is a convenience wrapper around New().Sample.
func Sample(mode model.ColorSpace, res *model.AnalysisResult) types.Visualization {
	return New().Sample(mode, res)
}

func (s *Sampler) frame(mode model.ColorSpace, x, y Linear, xLabel, yLabel string) types.Visualization {
	v := s.viewport
	return types.Visualization{
		ColorSpace: mode,
		Width:      v.Width,
		Height:     v.Height,
		OffsetX:    v.MarginLeft,
		OffsetY:    v.MarginTop,
		XAxis:      types.Axis{Label: xLabel, Min: x.d0, Max: x.d1, Range: [2]float64{x.r0, x.r1}},
		YAxis:      types.Axis{Label: yLabel, Min: y.d0, Max: y.d1, Range: [2]float64{y.r0, y.r1}},
	}
}
