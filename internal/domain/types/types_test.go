package types_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/okian/remonster/internal/domain/colormath"
	"github.com/okian/remonster/internal/domain/model"
	types "github.com/okian/remonster/internal/domain/types"
	"github.com/okian/remonster/internal/domain/workflow"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewStateView(t *testing.T) {
	Convey("Given workflow states", t, func() {
		Convey("When the workflow is idle", func() {
			v := types.NewStateView(workflow.Initial())

			Convey("Then only the mode fields should be set", func() {
				So(v.Phase, ShouldEqual, model.PhaseIdle)
				So(v.ColorSpace, ShouldEqual, model.ColorSpaceLAB)
				So(v.Result, ShouldBeNil)
				So(v.RankedEmotions, ShouldBeNil)
				So(v.Chroma, ShouldBeNil)
				So(v.Hue, ShouldBeNil)
			})
		})

		Convey("When the workflow failed", func() {
			v := types.NewStateView(workflow.State{
				Phase:        model.PhaseError,
				ErrorMessage: workflow.MsgTimeout,
				Err:          workflow.ErrTimeout,
				ColorSpace:   model.ColorSpaceCMYK,
				Generation:   3,
			})

			Convey("Then the message should be carried without descriptors", func() {
				So(v.ErrorMessage, ShouldEqual, workflow.MsgTimeout)
				So(v.Generation, ShouldEqual, 3)
				So(v.Chroma, ShouldBeNil)
			})
		})

		Convey("When the workflow succeeded", func() {
			result := &model.AnalysisResult{
				RainbowHex:       "#7f7f7f",
				RainbowLab:       colormath.Lab{L: 50, A: 3, B: 4},
				DominantEmotions: map[string]float64{"kalm": 0.2, "blij": 0.9},
				Strategy:         "direct",
			}
			v := types.NewStateView(workflow.State{Phase: model.PhaseSuccess, Result: result, Generation: 1})

			Convey("Then chroma, hue and ranked emotions should be derived", func() {
				So(v.Result, ShouldEqual, result)
				So(*v.Chroma, ShouldAlmostEqual, 5, 1e-12)
				So(*v.Hue, ShouldAlmostEqual, math.Atan2(4, 3)*180/math.Pi, 1e-9)
				So(v.RankedEmotions, ShouldHaveLength, 2)
				So(v.RankedEmotions[0].Emotion, ShouldEqual, "blij")
			})

			Convey("And the JSON view should use wire names", func() {
				data, err := json.Marshal(v)
				So(err, ShouldBeNil)
				var raw map[string]interface{}
				So(json.Unmarshal(data, &raw), ShouldBeNil)
				So(raw["phase"], ShouldEqual, "success")
				So(raw["color_space"], ShouldEqual, "LAB")
				So(raw["chroma"], ShouldAlmostEqual, 5, 1e-12)
				So(raw, ShouldNotContainKey, "error_message")
			})
		})
	})
}

func TestVisualizationJSON(t *testing.T) {
	Convey("Given a visualization with a marker", t, func() {
		vis := types.Visualization{
			ColorSpace: model.ColorSpaceCMYK,
			Marker:     types.Marker{GridCell: types.GridCell{Color: "#ff0000", X: 10}, Radius: 8},
		}

		Convey("When encoded", func() {
			data, err := json.Marshal(vis)
			So(err, ShouldBeNil)
			var raw map[string]interface{}
			So(json.Unmarshal(data, &raw), ShouldBeNil)

			Convey("Then the embedded cell fields should be flattened into the marker", func() {
				marker := raw["marker"].(map[string]interface{})
				So(marker["color"], ShouldEqual, "#ff0000")
				So(marker["radius"], ShouldEqual, 8.0)
				So(raw, ShouldNotContainKey, "rings")
			})
		})
	})
}
