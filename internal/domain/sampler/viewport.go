package sampler

// Viewport is a drawing surface with margins around the plot area.
type Viewport struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	MarginTop    float64 `json:"margin_top"`
	MarginRight  float64 `json:"margin_right"`
	MarginBottom float64 `json:"margin_bottom"`
	MarginLeft   float64 `json:"margin_left"`
}

// DefaultViewport is a 300x300 surface with room for axes on the left and bottom.
func DefaultViewport() Viewport {
	return Viewport{
		Width:        300,
		Height:       300,
		MarginTop:    20,
		MarginRight:  20,
		MarginBottom: 30,
		MarginLeft:   30,
	}
}

// NewViewport returns the default margins around a width x height surface.
func NewViewport(width, height float64) Viewport {
	v := DefaultViewport()
	v.Width = width
	v.Height = height
	return v
}

// InnerWidth is the plot width without margins.
func (v Viewport) InnerWidth() float64 {
	return v.Width - v.MarginLeft - v.MarginRight
}

// InnerHeight is the plot height without margins.
func (v Viewport) InnerHeight() float64 {
	return v.Height - v.MarginTop - v.MarginBottom
}

// Linear is an affine map from a domain interval onto a range interval.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear maps [d0, d1] onto [r0, r1]. The range may be inverted, as for
// a y axis that grows downwards.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Map projects v. A degenerate domain maps everything to r0.
func (l Linear) Map(v float64) float64 {
	if l.d1 == l.d0 {
		return l.r0
	}
	return l.r0 + (v-l.d0)/(l.d1-l.d0)*(l.r1-l.r0)
}

// axes returns the x map onto [0, innerWidth] and the y map onto [innerHeight, 0].
func (v Viewport) axes(min, max float64) (x, y Linear) {
	return NewLinear(min, max, 0, v.InnerWidth()), NewLinear(min, max, v.InnerHeight(), 0)
}
