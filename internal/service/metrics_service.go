package service

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noah-isme/ccrm/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the ledger and
// file adapters. Metrics are written to a textfile instead of being served.
type MetricsService struct {
	registry          *prometheus.Registry
	enrollments       *prometheus.CounterVec
	rejections        *prometheus.CounterVec
	unenrollments     prometheus.Counter
	grades            *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec

	enrollCount   uint64
	rejectCount   uint64
	unenrollCount uint64
	gradeCount    uint64
}

// NewMetricsService registers the ledger collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	enrollments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ccrm_enrollments_total",
		Help: "Total number of accepted enrollments",
	}, []string{"semester"})

	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ccrm_enrollment_rejections_total",
		Help: "Total number of rejected enrollments by reason",
	}, []string{"reason"})

	unenrollments := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ccrm_unenrollments_total",
		Help: "Total number of enrollments removed before grading",
	})

	grades := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ccrm_grades_recorded_total",
		Help: "Total number of grades recorded by letter",
	}, []string{"grade"})

	operationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ccrm_operation_duration_seconds",
		Help:    "Duration of import, export, backup and snapshot operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	registry.MustRegister(enrollments, rejections, unenrollments, grades, operationDuration)

	return &MetricsService{
		registry:          registry,
		enrollments:       enrollments,
		rejections:        rejections,
		unenrollments:     unenrollments,
		grades:            grades,
		operationDuration: operationDuration,
	}
}

// Registry exposes the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// EnrollmentRecorded implements LedgerObserver.
func (m *MetricsService) EnrollmentRecorded(semester models.Semester) {
	if m == nil {
		return
	}
	m.enrollments.WithLabelValues(string(semester)).Inc()
	atomic.AddUint64(&m.enrollCount, 1)
}

// EnrollmentRejected implements LedgerObserver.
func (m *MetricsService) EnrollmentRejected(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
	atomic.AddUint64(&m.rejectCount, 1)
}

// Unenrolled implements LedgerObserver.
func (m *MetricsService) Unenrolled() {
	if m == nil {
		return
	}
	m.unenrollments.Inc()
	atomic.AddUint64(&m.unenrollCount, 1)
}

// GradeRecorded implements LedgerObserver.
func (m *MetricsService) GradeRecorded(grade models.Grade) {
	if m == nil {
		return
	}
	m.grades.WithLabelValues(string(grade)).Inc()
	atomic.AddUint64(&m.gradeCount, 1)
}

// ObserveOperation records the duration of an adapter operation.
func (m *MetricsService) ObserveOperation(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// Snapshot returns the ledger counters.
func (m *MetricsService) Snapshot() models.LedgerMetrics {
	if m == nil {
		return models.LedgerMetrics{}
	}
	return models.LedgerMetrics{
		Enrollments:   atomic.LoadUint64(&m.enrollCount),
		Rejections:    atomic.LoadUint64(&m.rejectCount),
		Unenrollments: atomic.LoadUint64(&m.unenrollCount),
		Grades:        atomic.LoadUint64(&m.gradeCount),
	}
}

// WriteTextfile writes every metric in the Prometheus text format, for
// pickup by a node exporter textfile collector.
func (m *MetricsService) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
