package types

import (
	"github.com/okian/remonster/internal/domain/model"
	"github.com/okian/remonster/internal/domain/workflow"
)

// StateView is the presentation snapshot of one workflow.
type StateView struct {
	Phase          model.Phase           `json:"phase"`
	ErrorMessage   string                `json:"error_message,omitempty"`
	ColorSpace     model.ColorSpace      `json:"color_space"`
	Generation     uint64                `json:"generation"`
	Result         *model.AnalysisResult `json:"result,omitempty"`
	RankedEmotions []model.EmotionScore  `json:"ranked_emotions,omitempty"`
	Chroma         *float64              `json:"chroma,omitempty"`
	Hue            *float64              `json:"hue,omitempty"`
}

// SessionView pairs a new session's ID with its initial state.
type SessionView struct {
	SessionID string    `json:"session_id"`
	State     StateView `json:"state"`
}

// NewStateView derives the view for s. Polar descriptors are only set on
// success.
func NewStateView(s workflow.State) StateView {
	v := StateView{
		Phase:        s.Phase,
		ErrorMessage: s.ErrorMessage,
		ColorSpace:   s.ColorSpace,
		Generation:   s.Generation,
	}
	if s.Result != nil {
		chroma, hue := s.Result.Chroma(), s.Result.HueAngle()
		v.Result = s.Result
		v.RankedEmotions = s.Result.RankedEmotions()
		v.Chroma = &chroma
		v.Hue = &hue
	}
	return v
}
