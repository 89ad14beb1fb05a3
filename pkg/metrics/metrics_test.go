package metrics_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/statcraft/zoneshift/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager with its own registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(metrics.WithRegistry(reg), metrics.WithNamespace("test"))

		Convey("When recording pipeline activity", func() {
			m.RecordFetchedPitches(250)
			m.RecordChunk(false)
			m.RecordChunk(true)
			m.RecordDrop(metrics.DropNoHeight, 12)
			m.RecordClassified(200)
			m.ObserveStage("fetch", 150*time.Millisecond)

			Convey("Then the handler exposes the counters", func() {
				rec := httptest.NewRecorder()
				req := httptest.NewRequest("GET", "/metrics", nil)
				m.Handler().ServeHTTP(rec, req)

				body := rec.Body.String()
				So(rec.Code, ShouldEqual, 200)
				So(body, ShouldContainSubstring, "test_pitches_fetched_total 250")
				So(body, ShouldContainSubstring, "test_fetch_chunks_total 2")
				So(body, ShouldContainSubstring, "test_fetch_chunk_failures_total 1")
				So(body, ShouldContainSubstring, `test_pitches_dropped_total{reason="no_height"} 12`)
				So(body, ShouldContainSubstring, "test_pitches_classified_total 200")
			})
		})
	})
}

func TestDefaultManager(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then it is usable without setup", func() {
			So(metrics.Default(), ShouldNotBeNil)
			So(func() { metrics.RecordClassified(1) }, ShouldNotPanic)
		})
	})
}
