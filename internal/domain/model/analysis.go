// Package model contains domain models passed between layers.
package model

import (
	"math"
	"sort"
	"strconv"

	"github.com/okian/remonster/internal/domain/colormath"
)

// AnalysisResult is the analysis service's answer for one piece of text.
// It is immutable once received. Field names mirror the service's JSON.
type AnalysisResult struct {
	RainbowHex       string             `json:"rainbow_vector"`     // precomputed sRGB hex of the result color
	RainbowLab       colormath.Lab      `json:"rainbow_vector_lab"` // result color in L*a*b*
	CMYK             CMYKVector         `json:"cmyk_vector"`        // result color as (c, m, y, k)
	DominantEmotions map[string]float64 `json:"dominant_emotions"`  // emotion name -> score
	Strategy         string             `json:"strategy"`           // free-text recommendation
}

// CMYKVector is the ordered (c, m, y, k) tuple as carried on the wire.
type CMYKVector [4]float64

// Color returns the vector as a colormath.CMYK.
func (v CMYKVector) Color() colormath.CMYK {
	return colormath.CMYK{C: v[0], M: v[1], Y: v[2], K: v[3]}
}

// EmotionScore is one ranked entry of DominantEmotions.
type EmotionScore struct {
	Emotion string  `json:"emotion"`
	Score   float64 `json:"score"`
}

// RankedEmotions returns the dominant emotions sorted by score, highest
// first. Equal scores are ordered by name so the ranking is stable.
func (r *AnalysisResult) RankedEmotions() []EmotionScore {
	out := make([]EmotionScore, 0, len(r.DominantEmotions))
	for name, score := range r.DominantEmotions {
		out = append(out, EmotionScore{Emotion: name, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Emotion < out[j].Emotion
	})
	return out
}

// Chroma returns the chroma of the result's L*a*b* color.
func (r *AnalysisResult) Chroma() float64 {
	return colormath.Chroma(r.RainbowLab.A, r.RainbowLab.B)
}

// HueAngle returns the hue angle of the result's L*a*b* color in degrees.
func (r *AnalysisResult) HueAngle() float64 {
	return colormath.HueAngle(r.RainbowLab.A, r.RainbowLab.B)
}

// Validate reports whether every numeric color field is finite.
func (r *AnalysisResult) Validate() error {
	lab := map[string]float64{"L": r.RainbowLab.L, "a": r.RainbowLab.A, "b": r.RainbowLab.B}
	for name, v := range lab {
		if !finite(v) {
			return shapeError("rainbow_vector_lab." + name + " is not finite")
		}
	}
	for i, v := range r.CMYK {
		if !finite(v) {
			return shapeError("cmyk_vector has a non-finite entry at index " + strconv.Itoa(i))
		}
	}
	for name, v := range r.DominantEmotions {
		if !finite(v) {
			return shapeError("dominant_emotions." + name + " is not finite")
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
