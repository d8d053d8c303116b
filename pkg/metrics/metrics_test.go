package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			metricPrefixOpt := WithMetricPrefix("test-prefix")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(metricPrefixOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with defaults", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithMetricPrefix("demo"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRefreshInterval(3*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.sessionsEvicted.Inc()

			Convey("Then metric names and labels should reflect them", func() {
				So(manager.RefreshInterval(), ShouldEqual, 3*time.Second)

				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, f := range families {
					if f.GetName() != "test_unit_demo_sessions_evicted_total" {
						continue
					}
					found = true
					So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When creating a disabled manager", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithMetricsEnabled(false), WithPrometheusRegistry(registry))
			manager.staleReplies.Inc()

			Convey("Then nothing should be exported on the given registry", func() {
				So(manager.Enabled(), ShouldBeFalse)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording analyses", func() {
			before := testutil.ToFloat64(globalManager.analysesTotal.WithLabelValues("timeout"))
			RecordAnalysis("timeout", 10000)
			RecordAnalysis("timeout", 0)

			Convey("Then the outcome counter should advance", func() {
				after := testutil.ToFloat64(globalManager.analysesTotal.WithLabelValues("timeout"))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When recording workflow events", func() {
			stale := testutil.ToFloat64(globalManager.staleReplies)
			RecordStaleReplyDropped()
			RecordPhaseTransition("idle", "loading")
			RecordColorSpaceToggle("CMYK")

			Convey("Then each counter should advance", func() {
				So(testutil.ToFloat64(globalManager.staleReplies)-stale, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.phaseTransitions.WithLabelValues("idle", "loading")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.colorSpaceToggles.WithLabelValues("CMYK")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording sessions and visualizations", func() {
			UpdateActiveSessions(7)
			RecordSamplerCells("LAB", 1681)

			Convey("Then the gauges should hold the latest values", func() {
				So(testutil.ToFloat64(globalManager.activeSessions), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.samplerCells.WithLabelValues("LAB")), ShouldEqual, 1681)
			})
		})

		Convey("When recording HTTP, analyzer, error and system metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					RecordSessionEvicted()
					RecordAnalyzerStatus("200")
					RecordAnalyzerStatus("error")
					RecordHTTPRequest("sessions_create", "POST", "201")
					RecordHTTPRequestDuration("sessions_create", "POST", "201", 1.5)
					RecordErrorByComponent("http", "not_found")
					RecordErrorByType("not_found", "medium")
					RecordErrorByEndpoint("sessions_get", "GET", "not_found")
					RecordErrorLatency("http", "not_found", 0.4)
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(12)
					RecordSystemGCPauseTime(0.2)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsRegistry(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		RecordSessionEvicted()
		families, err := GetRegistry().Gather()
		So(err, ShouldBeNil)

		Convey("Then it should expose only remonster metrics", func() {
			So(families, ShouldNotBeEmpty)
			for _, f := range families {
				So(strings.HasPrefix(f.GetName(), "remonster_analysis_"), ShouldBeTrue)
			}
		})

		Convey("And the global refresh interval should be the default", func() {
			So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)

			for i := 0; i < 10; i++ {
				go func() {
					for j := 0; j < 100; j++ {
						RecordAnalysis("success", float64(j))
						UpdateActiveSessions(j)
						RecordPhaseTransition("loading", "success")
						RecordHTTPRequest("sessions_get", "GET", "200")
					}
					done <- true
				}()
			}

			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then it should handle concurrent access without panics", func() {
				So(testutil.ToFloat64(globalManager.analysesTotal.WithLabelValues("success")), ShouldBeGreaterThanOrEqualTo, 1000)
			})
		})
	})
}

func TestMetricsOptionsValidation(t *testing.T) {
	Convey("Given metrics options validation", t, func() {
		Convey("When creating with empty or nil values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithMetricPrefix(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithRefreshInterval(-1*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "remonster")
				So(manager.subsystem, ShouldEqual, "analysis")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}
