package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ccrm/internal/models"
)

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()
	m.EnrollmentRecorded(models.SemesterFall)
	m.EnrollmentRecorded(models.SemesterFall)
	m.EnrollmentRejected(RejectCreditLimit)
	m.Unenrolled()
	m.GradeRecorded(models.GradeA)
	m.ObserveOperation("export_students", 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.enrollments.WithLabelValues("FALL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues(RejectCreditLimit)))
	assert.Equal(t, models.LedgerMetrics{Enrollments: 2, Rejections: 1, Unenrollments: 1, Grades: 1}, m.Snapshot())
}

func TestMetricsServiceWriteTextfile(t *testing.T) {
	m := NewMetricsService()
	m.GradeRecorded(models.GradeS)

	path := filepath.Join(t.TempDir(), "ccrm.prom")
	require.NoError(t, m.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `ccrm_grades_recorded_total{grade="S"} 1`)

	assert.NoError(t, m.WriteTextfile(""))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.EnrollmentRecorded(models.SemesterFall)
	m.ObserveOperation("noop", time.Second)
	assert.Equal(t, models.LedgerMetrics{}, m.Snapshot())
	assert.NoError(t, m.WriteTextfile("ignored"))
}
