// Package observability exports the figures of a run as Prometheus gauges,
// written to a node_exporter textfile since the tool does not stay running.
package observability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"cycledebt/internal/core"
)

const namespace = "cycledebt"

// WindowAll labels distances summed over every record.
const WindowAll = "all"

// Run holds what one run measured. Distances are meters.
type Run struct {
	At          time.Time
	Documents   int
	Records     int
	Total       core.Summary
	Window      core.Summary
	WindowWeeks int
}

// Metrics holds the run gauges in a private registry.
type Metrics struct {
	registry  *prometheus.Registry
	debt      prometheus.Gauge
	distance  *prometheus.GaugeVec
	records   prometheus.Gauge
	documents prometheus.Gauge
	lastRun   prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		debt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "debt_kilometers",
			Help:      "Kilometers driven minus kilometers cycled over all records.",
		}),
		distance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "distance_kilometers",
			Help:      "Kilometers per activity, over all records or over the recent window.",
		}, []string{"activity", "window"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Activity records extracted in the last run.",
		}),
		documents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "documents",
			Help:      "Documents read in the last run.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix timestamp of the last completed run.",
		}),
	}
	m.registry.MustRegister(m.debt, m.distance, m.records, m.documents, m.lastRun)
	return m
}

// WindowLabel is the window label value for a window of weeks weeks.
func WindowLabel(weeks int) string {
	return strconv.Itoa(weeks) + "w"
}

// Record sets every gauge from r. Kinds absent from a summary are exported
// as zero.
func (m *Metrics) Record(r Run) {
	m.debt.Set(core.Kilometers(r.Total.Balance()))
	m.records.Set(float64(r.Records))
	m.documents.Set(float64(r.Documents))

	window := WindowLabel(r.WindowWeeks)
	for _, kind := range core.Kinds {
		m.distance.WithLabelValues(kind.String(), WindowAll).Set(core.Kilometers(r.Total.Get(kind)))
		m.distance.WithLabelValues(kind.String(), window).Set(core.Kilometers(r.Window.Get(kind)))
	}

	if !r.At.IsZero() {
		m.lastRun.Set(float64(r.At.Unix()))
	}
}

// WriteTextfile writes the registry in the text exposition format, through a
// temporary file renamed into place.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
