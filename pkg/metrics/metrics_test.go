package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a dedicated registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register its collectors there", func() {
				So(manager, ShouldNotBeNil)
				manager.csvLoads.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"binary": "api"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metric names should carry namespace and subsystem", func() {
				manager.regressionFits.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_unit_regression_fits_total")
			})
		})

		Convey("When ignoring empty option values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults should stay in place", func() {
				So(manager.namespace, ShouldEqual, "partidos")
				So(manager.histogramBuckets, ShouldResemble, MillisecondBuckets)
			})
		})
	})
}

func TestLatencyBuckets(t *testing.T) {
	Convey("Given a manager with default buckets", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithPrometheusRegistry(registry))

		Convey("When a 12ms request is observed", func() {
			manager.httpRequestDuration.WithLabelValues("partidos", "GET", "200").Observe(12)

			Convey("Then it should land in a finite bucket", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var bounds []float64
				var counts []uint64
				for _, f := range families {
					if f.GetName() != "partidos_http_request_duration_milliseconds" {
						continue
					}
					for _, b := range f.GetMetric()[0].GetHistogram().GetBucket() {
						bounds = append(bounds, b.GetUpperBound())
						counts = append(counts, b.GetCumulativeCount())
					}
				}
				So(bounds, ShouldResemble, MillisecondBuckets)
				So(counts[3], ShouldEqual, uint64(0)) // le=10
				So(counts[4], ShouldEqual, uint64(1)) // le=25
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording CSV loads", func() {
			before := testutil.ToFloat64(globalManager.csvLoads)
			RecordCSVLoad(12, 3.5)
			RecordCSVLoadError()

			Convey("Then counters and the row gauge should move", func() {
				So(testutil.ToFloat64(globalManager.csvLoads), ShouldEqual, before+2)
				So(testutil.ToFloat64(globalManager.csvRows), ShouldEqual, 12)
			})
		})

		Convey("When recording fetch outcomes", func() {
			before := testutil.ToFloat64(globalManager.matchesFetched)
			RecordFetch(100, 250)
			RecordFetchError("status")

			Convey("Then the fetched counter should grow by the batch size", func() {
				So(testutil.ToFloat64(globalManager.matchesFetched), ShouldEqual, before+100)
				So(testutil.ToFloat64(globalManager.fetchErrors.WithLabelValues("status")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When updating graph edges", func() {
			UpdateGraphEdges("star", 9)

			Convey("Then the gauge should hold the last value", func() {
				So(testutil.ToFloat64(globalManager.graphEdges.WithLabelValues("star")), ShouldEqual, 9)
			})
		})

		Convey("When recording the remaining collectors", func() {
			Convey("Then nothing should panic", func() {
				So(func() {
					RecordHTTPRequest("partidos", "GET", "200")
					RecordHTTPRequestDuration("partidos", "GET", "200", 1.2)
					RecordCacheHit()
					RecordRegressionFit()
					RecordChartRender("goals")
				}, ShouldNotPanic)
			})
		})

		Convey("When reading the registry", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})

		Convey("When registering runtime collectors twice", func() {
			So(func() {
				RegisterRuntimeCollectors()
				RegisterRuntimeCollectors()
			}, ShouldNotPanic)

			Convey("Then Go runtime metrics should be gathered", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "go_goroutines" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}
