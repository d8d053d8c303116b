package analyzer

import "github.com/okian/remonster/internal/domain/colormath"

// agent is one emotional color channel of the analysis service.
type agent struct {
	name     string
	hex      string
	cmyk     colormath.CMYK
	emotions [3]string
}

// palette mirrors the analysis service's agents, in its order.
var palette = [...]agent{
	{name: "green", hex: "#00FF00", cmyk: colormath.CMYK{C: 1, Y: 1}, emotions: [3]string{"blij", "gelukkig", "neutraal"}},
	{name: "yellow", hex: "#FFFF00", cmyk: colormath.CMYK{Y: 1}, emotions: [3]string{"ongeloof", "walging", "afkeer"}},
	{name: "blue", hex: "#0000FF", cmyk: colormath.CMYK{C: 1, M: 1}, emotions: [3]string{"verward", "gekwetst", "verdriet"}},
	{name: "purple", hex: "#800080", cmyk: colormath.CMYK{C: 0.5, M: 1}, emotions: [3]string{"jaloezie", "ego", "miscommunicatie"}},
	{name: "pink", hex: "#FFC0CB", cmyk: colormath.CMYK{M: 0.25, Y: 0.2}, emotions: [3]string{"schuld", "negatief", "naïef"}},
	{name: "red", hex: "#FF0000", cmyk: colormath.CMYK{M: 1, Y: 1}, emotions: [3]string{"verraad", "kwaad", "woede"}},
	{name: "gray", hex: "#808080", cmyk: colormath.CMYK{K: 0.5}, emotions: [3]string{"overweldigd", "saturatie", "ambivalentie"}},
}

// Strategies returned by the analysis service.
const (
	StrategyDirect     = "direct"
	StrategyNeutral    = "neutral"
	StrategyEmpathetic = "empathetic"
	StrategyCautious   = "cautious"
)

// strategyFor picks the response strategy from a blended CMYK color.
func strategyFor(c colormath.CMYK) string {
	switch {
	case c.K > 0.7:
		return StrategyCautious
	case c.Y > 0.5 && c.C < 0.3:
		return StrategyDirect
	case c.M > 0.5:
		return StrategyCautious
	case c.C > 0.5:
		return StrategyEmpathetic
	default:
		return StrategyNeutral
	}
}

// blend is the weighted average of two CMYK colors; w is the weight of a.
func blend(a, b colormath.CMYK, w float64) colormath.CMYK {
	mix := func(x, y float64) float64 { return x*w + y*(1-w) }
	return colormath.CMYK{
		C: mix(a.C, b.C),
		M: mix(a.M, b.M),
		Y: mix(a.Y, b.Y),
		K: mix(a.K, b.K),
	}
}
