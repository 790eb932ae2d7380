package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created and enabled", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.chatTurns.WithLabelValues("ok").Inc()

			Convey("Then the options shape the metric names", func() {
				So(manager.Enabled(), ShouldBeFalse)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if strings.HasPrefix(f.GetName(), "test_namespace_test_subsystem_prefix_chat_turns_total") {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording chat outcomes", func() {
			before := testutil.ToFloat64(globalManager.chatTurns.WithLabelValues("speech_degraded"))
			RecordChatTurn("speech_degraded", 120)

			Convey("Then the labelled counter increases", func() {
				after := testutil.ToFloat64(globalManager.chatTurns.WithLabelValues("speech_degraded"))
				So(after-before, ShouldEqual, 1.0)
			})
		})

		Convey("When recording a failed vendor call", func() {
			before := testutil.ToFloat64(globalManager.vendorErrors.WithLabelValues("sarvam", "tts"))
			RecordVendorCall("sarvam", "tts", 15000, true)
			RecordVendorCall("sarvam", "tts", 300, false)

			Convey("Then only the failure is counted as an error", func() {
				after := testutil.ToFloat64(globalManager.vendorErrors.WithLabelValues("sarvam", "tts"))
				So(after-before, ShouldEqual, 1.0)
			})
		})

		Convey("When recording eligibility results", func() {
			before := testutil.ToFloat64(globalManager.eligibilityTiers.WithLabelValues("Low"))
			RecordEligibility(92.5, "Low")

			Convey("Then the tier counter increases", func() {
				So(testutil.ToFloat64(globalManager.eligibilityTiers.WithLabelValues("Low"))-before, ShouldEqual, 1.0)
			})
		})

		Convey("When updating queue gauges", func() {
			UpdateQueueCapacity(10)
			UpdateQueueSize(4)
			UpdateQueueUtilization(0.4)

			Convey("Then gauges hold the latest value", func() {
				So(testutil.ToFloat64(globalManager.queueCapacity), ShouldEqual, 10.0)
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 4.0)
				So(testutil.ToFloat64(globalManager.queueUtilization), ShouldEqual, 0.4)
			})
		})

		Convey("Then the custom registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}

func TestSetEnabled(t *testing.T) {
	Convey("Given recording switched off", t, func() {
		SetEnabled(false)
		defer SetEnabled(true)

		turns := testutil.ToFloat64(globalManager.chatTurns.WithLabelValues("ok"))
		requests := testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("generate", "POST", "200"))
		UpdateQueueSize(7)
		size := testutil.ToFloat64(globalManager.queueSize)

		RecordChatTurn("ok", 10)
		RecordHTTPRequest("generate", "POST", "200")
		UpdateQueueSize(99)

		Convey("Then no helper changes a series", func() {
			So(globalManager.Enabled(), ShouldBeFalse)
			So(testutil.ToFloat64(globalManager.chatTurns.WithLabelValues("ok")), ShouldEqual, turns)
			So(testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("generate", "POST", "200")), ShouldEqual, requests)
			So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, size)
		})

		Convey("And switching it back on resumes recording", func() {
			SetEnabled(true)
			RecordChatTurn("ok", 10)
			So(testutil.ToFloat64(globalManager.chatTurns.WithLabelValues("ok"))-turns, ShouldEqual, 1.0)
		})
	})
}
