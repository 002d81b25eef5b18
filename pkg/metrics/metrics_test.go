package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// counterValue sums a counter family of the global registry, optionally
// filtered by one label value.
func counterValue(name, labelValue string) float64 {
	families, err := GetRegistry().Gather()
	if err != nil {
		return -1
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelValue != "" {
				matched := false
				for _, l := range m.GetLabel() {
					if l.GetValue() == labelValue {
						matched = true
					}
				}
				if !matched {
					continue
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it uses the classifier namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "nyusatsu")
				So(manager.subsystem, ShouldEqual, "classifier")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("batch"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.rowsProcessed.Inc()

			Convey("Then metrics carry the custom names and labels", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, mf := range families {
					if mf.GetName() == "test_batch_rows_processed_total" {
						found = true
						So(mf.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
			})
		})

		Convey("When empty option values are given", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "nyusatsu")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When row outcomes are recorded", func() {
			const name = "nyusatsu_classifier_rows_processed_total"
			before := counterValue(name, "")
			RecordRowProcessed()
			RecordRowProcessed()

			Convey("Then the counter advances", func() {
				So(counterValue(name, "")-before, ShouldEqual, 2.0)
			})
		})

		Convey("When verdicts are recorded", func() {
			const name = "nyusatsu_classifier_verdicts_total"
			eligible := counterValue(name, "eligible")
			ineligible := counterValue(name, "ineligible")
			RecordVerdict(true)
			RecordVerdict(false)
			RecordVerdict(false)

			Convey("Then they are split by outcome", func() {
				So(counterValue(name, "eligible")-eligible, ShouldEqual, 1.0)
				So(counterValue(name, "ineligible")-ineligible, ShouldEqual, 2.0)
			})
		})

		Convey("When the remaining helpers are called", func() {
			Convey("Then none of them panic", func() {
				So(func() {
					RecordRowDuplicate()
					RecordRowInvalid()
					RecordRowSkipped()
					RecordRowFailed()
					RecordRequirement("unified_qualification")
					RecordConfidence(0.95)
					RecordBuildLatency(0.4)
					RecordBatch(1.5, 1700000000)
					UpdateRepositoryShardCount(4)
					UpdateRepositoryRecordsTotal(10)
					UpdateRepositoryRecordsPerShard("0", 3)
					RecordRepositorySaveLatency(0.1)
					UpdateQueueSize(5)
					UpdateQueueCapacity(100)
					UpdateQueueUtilization(0.05)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					UpdateWorkerCount(4)
					UpdateWorkerActiveCount(4)
					RecordWorkerProcessingLatency(1.2)
					RecordWorkerError()
					RecordErrorByComponent("worker", "save_failed")
				}, ShouldNotPanic)
			})
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given the global registry", t, func() {
		RecordRowProcessed()

		Convey("When it is written to a textfile", func() {
			path := filepath.Join(t.TempDir(), "nyusatsu.prom")
			err := WriteTextfile(path)

			Convey("Then the file holds the exposition text", func() {
				So(err, ShouldBeNil)
				b, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(strings.Contains(string(b), "nyusatsu_classifier_rows_processed_total"), ShouldBeTrue)
			})
		})

		Convey("When no path is given", func() {
			err := WriteTextfile("")

			Convey("Then it is rejected", func() {
				So(err, ShouldEqual, ErrNoPath)
			})
		})

		Convey("When the directory does not exist", func() {
			err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "out.prom"))

			Convey("Then the write error is wrapped", func() {
				So(err, ShouldNotBeNil)
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}
