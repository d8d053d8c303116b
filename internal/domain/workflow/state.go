// Package workflow implements the analysis request state machine.
//
// Reduce is a pure transition function over State. Machine owns one State,
// runs at most one analyzer call at a time and feeds its outcome back into
// Reduce. Every Submit mints a new generation; a settlement is applied only
// while its generation is current and the phase is Loading, so a superseded
// or timed-out call can never overwrite newer state.
package workflow

import (
	"fmt"
	"strings"

	"github.com/okian/remonster/internal/domain/model"
)

// State is a snapshot of one workflow. Result is non-nil iff Phase is
// Success; ErrorMessage is non-empty iff Phase is Error.
type State struct {
	Phase        model.Phase
	ErrorMessage string
	// Err holds the sentinel kind of the last failure, nil outside Error.
	Err        error
	Result     *model.AnalysisResult
	ColorSpace model.ColorSpace
	Generation uint64
}

// Initial is the state of a freshly created workflow.
func Initial() State {
	return State{Phase: model.PhaseIdle, ColorSpace: model.ColorSpaceLAB}
}

// Event drives a transition.
type Event interface {
	event()
}

// Submit asks for a new analysis of Text.
type Submit struct {
	Text string
}

// Settled reports the end of the call started for Generation. Exactly one
// of Body and Err is meaningful: Err wins when set.
type Settled struct {
	Generation uint64
	Body       []byte
	Err        error
}

// Toggle flips the visualization between L*a*b* and CMYK.
type Toggle struct{}

func (Submit) event()  {}
func (Settled) event() {}
func (Toggle) event()  {}

// Accepts reports whether ev would be applied to s.
func (s State) Accepts(ev Settled) bool {
	return s.Phase == model.PhaseLoading && ev.Generation == s.Generation
}

// Reduce returns the state that follows s after ev.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case Submit:
		next := State{ColorSpace: s.ColorSpace, Generation: s.Generation + 1}
		if strings.TrimSpace(e.Text) == "" {
			return failed(next, ErrEmptyInput)
		}
		next.Phase = model.PhaseLoading
		return next

	case Settled:
		if !s.Accepts(e) {
			return s
		}
		next := State{ColorSpace: s.ColorSpace, Generation: s.Generation}
		if e.Err != nil {
			return failed(next, e.Err)
		}
		res, err := model.ParseAnalysisResult(e.Body)
		if err != nil {
			return failed(next, fmt.Errorf("%w: %w", ErrInvalidResponse, err))
		}
		next.Phase = model.PhaseSuccess
		next.Result = &res
		return next

	case Toggle:
		s.ColorSpace = s.ColorSpace.Toggle()
		return s
	}
	return s
}

func failed(s State, err error) State {
	s.Phase = model.PhaseError
	s.Err = Classify(err)
	s.ErrorMessage = Message(err)
	if s.ErrorMessage == "" {
		s.ErrorMessage = s.Err.Error()
	}
	s.Result = nil
	return s
}
