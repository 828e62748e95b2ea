package monitoring

import (
	"log/slog"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	coreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "core_operations_total",
			Help: "Total core workflow operations by entity and outcome",
		},
		[]string{"entity", "operation", "outcome"},
	)

	availabilityChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "availability_checks_total",
			Help: "Total availability checks by result",
		},
		[]string{"result"},
	)

	availabilityCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "availability_check_duration_seconds",
			Help:    "Duration of availability conflict scans",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		},
	)

	openClaims = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "open_claims_total",
			Help: "Claims currently pending or under review",
		},
	)

	pendingListings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pending_listings_total",
			Help: "Venue listings awaiting verification",
		},
	)
)

// Monitor periodically samples workflow gauges from the database and exposes
// helpers for the services to record per-operation counters.
type Monitor struct {
	app      core.App
	interval time.Duration
	stopChan chan struct{}
}

func NewMonitor(app core.App) *Monitor {
	monitor := &Monitor{
		app:      app,
		interval: 30 * time.Second,
		stopChan: make(chan struct{}),
	}

	go monitor.collectMetrics()

	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.collectWorkflowGauges()
		case <-m.stopChan:
			return
		}
	}
}

func (m *Monitor) collectWorkflowGauges() {
	claims, err := m.app.CountRecords("claims",
		dbx.In("status", "pending", "under_review"))
	if err != nil {
		slog.Error("collect open claims gauge", "error", err)
	} else {
		openClaims.Set(float64(claims))
	}

	listings, err := m.app.CountRecords("venues",
		dbx.HashExp{"verification_status": "pending", "removed": false})
	if err != nil {
		slog.Error("collect pending listings gauge", "error", err)
	} else {
		pendingListings.Set(float64(listings))
	}
}

// Stop terminates the background collection loop.
func (m *Monitor) Stop() {
	close(m.stopChan)
}

// TrackOperation records one workflow operation outcome. Safe on a nil
// monitor so services can run without metrics in tests.
func (m *Monitor) TrackOperation(entity, operation, outcome string) {
	if m == nil {
		return
	}
	coreOperations.WithLabelValues(entity, operation, outcome).Inc()
}

// TrackAvailabilityCheck records one conflict scan.
func (m *Monitor) TrackAvailabilityCheck(result string, duration time.Duration) {
	if m == nil {
		return
	}
	availabilityChecks.WithLabelValues(result).Inc()
	availabilityCheckDuration.Observe(duration.Seconds())
}
