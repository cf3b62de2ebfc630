package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking wizard.
type BookingMetrics struct {
	sessionsStarted prometheus.Counter
	slotFetches     *prometheus.CounterVec
	staleDrops      prometheus.Counter
	doctorMissing   prometheus.Counter
	submissions     *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookingportal",
			Subsystem: "wizard",
			Name:      "sessions_started_total",
			Help:      "Total booking wizard sessions started",
		}),
		slotFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookingportal",
			Subsystem: "wizard",
			Name:      "slot_fetches_total",
			Help:      "Total availability fetches by outcome",
		}, []string{"status"}),
		staleDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookingportal",
			Subsystem: "wizard",
			Name:      "stale_slot_responses_dropped_total",
			Help:      "Availability responses discarded because the selection changed mid-flight",
		}),
		doctorMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookingportal",
			Subsystem: "wizard",
			Name:      "availability_doctor_missing_total",
			Help:      "Availability responses that lacked an entry for the requested doctor",
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookingportal",
			Subsystem: "wizard",
			Name:      "submissions_total",
			Help:      "Total appointment submissions by outcome",
		}, []string{"status"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bookingportal",
			Subsystem: "backend",
			Name:      "call_latency_seconds",
			Help:      "Latency of platform backend calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.sessionsStarted,
		m.slotFetches,
		m.staleDrops,
		m.doctorMissing,
		m.submissions,
		m.backendLatency,
	)
	return m
}

func (m *BookingMetrics) ObserveSessionStarted() {
	if m == nil {
		return
	}
	m.sessionsStarted.Inc()
}

func (m *BookingMetrics) ObserveSlotFetch(status string) {
	if m == nil {
		return
	}
	m.slotFetches.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveStaleDrop() {
	if m == nil {
		return
	}
	m.staleDrops.Inc()
}

func (m *BookingMetrics) ObserveDoctorMissing() {
	if m == nil {
		return
	}
	m.doctorMissing.Inc()
}

func (m *BookingMetrics) ObserveSubmission(status string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveBackendLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.backendLatency.WithLabelValues(operation).Observe(seconds)
}
