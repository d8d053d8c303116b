package workflow_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/remonster/internal/domain/model"
	"github.com/okian/remonster/internal/domain/workflow"
	"github.com/okian/remonster/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// stubAnalyzer answers per text. Texts listed in hold block until release
// is closed and ignore their context while doing so.
type stubAnalyzer struct {
	calls   atomic.Int32
	bodies  map[string][]byte
	errs    map[string]error
	hold    map[string]bool
	release chan struct{}
	once    sync.Once
}

func newStub() *stubAnalyzer {
	return &stubAnalyzer{
		bodies:  map[string][]byte{},
		errs:    map[string]error{},
		hold:    map[string]bool{},
		release: make(chan struct{}),
	}
}

// Release unblocks every held call.
func (s *stubAnalyzer) Release() {
	s.once.Do(func() { close(s.release) })
}

func (s *stubAnalyzer) Analyze(_ context.Context, text string) ([]byte, error) {
	s.calls.Add(1)
	if s.hold[text] {
		<-s.release
	}
	if err := s.errs[text]; err != nil {
		return nil, err
	}
	return s.bodies[text], nil
}

func TestMachineSuccess(t *testing.T) {
	Convey("Given a machine with a responsive analyzer", t, func() {
		stub := newStub()
		stub.bodies["ik ben blij"] = body("direct")
		m := workflow.New(stub)
		defer m.Close()

		Convey("When text is submitted", func() {
			s, err := m.Submit(context.Background(), "ik ben blij")

			Convey("Then it should be loading immediately", func() {
				So(err, ShouldBeNil)
				So(s.Phase, ShouldEqual, model.PhaseLoading)
			})

			Convey("And it should settle into success", func() {
				m.Wait()
				got := m.State()
				So(got.Phase, ShouldEqual, model.PhaseSuccess)
				So(got.ErrorMessage, ShouldBeEmpty)
				So(got.Result, ShouldNotBeNil)
				So(got.Result.Strategy, ShouldEqual, "direct")
				So(stub.calls.Load(), ShouldEqual, 1)
			})
		})
	})
}

func TestMachineEmptyInput(t *testing.T) {
	Convey("Given a machine", t, func() {
		stub := newStub()
		m := workflow.New(stub)
		defer m.Close()

		Convey("When whitespace is submitted", func() {
			s, err := m.Submit(context.Background(), "   ")
			m.Wait()

			Convey("Then it should fail without calling the analyzer", func() {
				So(err, ShouldBeNil)
				So(s.Phase, ShouldEqual, model.PhaseError)
				So(s.ErrorMessage, ShouldEqual, workflow.MsgEmptyInput)
				So(s.Result, ShouldBeNil)
				So(stub.calls.Load(), ShouldEqual, 0)
			})
		})
	})
}

func TestMachineSupersession(t *testing.T) {
	Convey("Given a slow first request and a fast second one", t, func() {
		stub := newStub()
		stub.bodies["eerste"] = body("old")
		stub.bodies["tweede"] = body("new")
		stub.hold["eerste"] = true
		defer stub.Release()
		m := workflow.New(stub)
		defer m.Close()

		first, _ := m.Submit(context.Background(), "eerste")
		second, _ := m.Submit(context.Background(), "tweede")
		m.Wait()

		Convey("Then the second result should win", func() {
			So(second.Generation, ShouldEqual, first.Generation+1)
			got := m.State()
			So(got.Phase, ShouldEqual, model.PhaseSuccess)
			So(got.Result.Strategy, ShouldEqual, "new")
		})

		Convey("And the first reply should be discarded when it arrives", func() {
			stub.Release()
			time.Sleep(20 * time.Millisecond)
			got := m.State()
			So(got.Result.Strategy, ShouldEqual, "new")
			So(got.Generation, ShouldEqual, second.Generation)
		})
	})
}

func TestMachineTimeout(t *testing.T) {
	Convey("Given an analyzer that ignores its context", t, func() {
		stub := newStub()
		stub.bodies["traag"] = body("late")
		stub.hold["traag"] = true
		defer stub.Release()
		m := workflow.New(stub, workflow.WithTimeout(30*time.Millisecond))
		defer m.Close()

		Convey("When the deadline elapses", func() {
			_, err := m.Submit(context.Background(), "traag")
			So(err, ShouldBeNil)
			m.Wait()

			Convey("Then the timeout message should be shown", func() {
				got := m.State()
				So(got.Phase, ShouldEqual, model.PhaseError)
				So(got.ErrorMessage, ShouldEqual, "request timeout")
				So(errors.Is(got.Err, workflow.ErrTimeout), ShouldBeTrue)
				So(got.Result, ShouldBeNil)
			})

			Convey("And the late reply should not mutate state", func() {
				before := m.State()
				stub.Release()
				time.Sleep(20 * time.Millisecond)
				after := m.State()
				So(after.Phase, ShouldEqual, model.PhaseError)
				So(after.Result, ShouldBeNil)
				So(after.Generation, ShouldEqual, before.Generation)
			})
		})
	})

	Convey("Given an analyzer that honours its context", t, func() {
		m := workflow.New(workflow.AnalyzerFunc(func(ctx context.Context, _ string) ([]byte, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}), workflow.WithTimeout(20*time.Millisecond))
		defer m.Close()

		_, _ = m.Submit(context.Background(), "traag")
		m.Wait()

		Convey("Then the deadline should still be reported as a timeout", func() {
			So(m.State().ErrorMessage, ShouldEqual, workflow.MsgTimeout)
		})
	})
}

func TestMachineFailures(t *testing.T) {
	Convey("Given an analyzer with failing texts", t, func() {
		stub := newStub()
		stub.errs["offline"] = errors.New("dial tcp 127.0.0.1:5000: connect: connection refused")
		stub.bodies["kapot"] = []byte(`{"rainbow_vector": "#000000", "cmyk_vector": [0, 0, 0]}`)
		m := workflow.New(stub)
		defer m.Close()

		Convey("When the network call fails", func() {
			_, _ = m.Submit(context.Background(), "offline")
			m.Wait()

			Convey("Then the underlying failure should be shown", func() {
				got := m.State()
				So(got.Phase, ShouldEqual, model.PhaseError)
				So(got.ErrorMessage, ShouldEqual, "dial tcp 127.0.0.1:5000: connect: connection refused")
				So(errors.Is(got.Err, workflow.ErrNetworkFailure), ShouldBeTrue)
			})
		})

		Convey("When the response has the wrong shape", func() {
			_, _ = m.Submit(context.Background(), "kapot")
			m.Wait()

			Convey("Then it should report an invalid response", func() {
				got := m.State()
				So(got.ErrorMessage, ShouldEqual, workflow.MsgInvalidResponse)
				So(got.Result, ShouldBeNil)
			})
		})
	})
}

func TestMachineToggle(t *testing.T) {
	Convey("Given a machine waiting on a request", t, func() {
		stub := newStub()
		stub.bodies["wacht"] = body("direct")
		stub.hold["wacht"] = true
		defer stub.Release()
		m := workflow.New(stub)
		defer m.Close()

		_, _ = m.Submit(context.Background(), "wacht")

		Convey("When toggling the color space", func() {
			s := m.Toggle()

			Convey("Then only the mode should change", func() {
				So(s.ColorSpace, ShouldEqual, model.ColorSpaceCMYK)
				So(s.Phase, ShouldEqual, model.PhaseLoading)
			})

			Convey("And the mode should survive settlement", func() {
				stub.Release()
				m.Wait()
				got := m.State()
				So(got.Phase, ShouldEqual, model.PhaseSuccess)
				So(got.ColorSpace, ShouldEqual, model.ColorSpaceCMYK)
			})
		})
	})
}

func TestMachineCloseAndObserver(t *testing.T) {
	Convey("Given a machine with an observer", t, func() {
		var mu sync.Mutex
		var phases []model.Phase
		stub := newStub()
		stub.bodies["hoi"] = body("direct")
		m := workflow.New(stub, workflow.WithObserver(func(s workflow.State) {
			mu.Lock()
			defer mu.Unlock()
			phases = append(phases, s.Phase)
		}))

		_, _ = m.Submit(context.Background(), "hoi")
		m.Wait()

		Convey("Then every transition should be observed", func() {
			mu.Lock()
			defer mu.Unlock()
			So(phases, ShouldResemble, []model.Phase{model.PhaseLoading, model.PhaseSuccess})
		})

		Convey("When the machine is closed", func() {
			m.Close()
			s, err := m.Submit(context.Background(), "nog een")

			Convey("Then submissions should be rejected", func() {
				So(errors.Is(err, workflow.ErrClosed), ShouldBeTrue)
				So(s.Phase, ShouldEqual, model.PhaseSuccess)
			})
		})
	})
}
