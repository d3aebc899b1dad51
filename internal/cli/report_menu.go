package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/noah-isme/ccrm/internal/models"
	"github.com/noah-isme/ccrm/pkg/response"
)

func (m *Menu) reportMenu(ctx context.Context) {
	switch m.submenu("Reports",
		"Student Statistics",
		"Course Statistics",
		"GPA Distribution",
		"Enrollment Summary",
		"Full Summary Report",
		"Ledger Metrics",
		"Back to Main Menu",
	) {
	case 1:
		m.studentStatistics(ctx)
	case 2:
		m.courseStatistics(ctx)
	case 3:
		m.gpaDistribution(ctx)
	case 4:
		m.enrollmentSummary(ctx)
	case 5:
		fmt.Fprint(m.out, m.deps.Reports.SummaryReport(ctx, time.Now()))
	case 6:
		m.ledgerMetrics()
	}
}

func (m *Menu) studentStatistics(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== Student Statistics ===")
	stats := m.deps.Reports.StudentStatistics(ctx)
	fmt.Fprintf(m.out, "Total Active Students: %d\n", stats.ActiveStudents)
	fmt.Fprintf(m.out, "Average GPA: %.2f\n", stats.AverageGPA)
	fmt.Fprintf(m.out, "Students with recorded grades: %d\n", stats.StudentsWithGrades)
	m.printGroups("By status", m.deps.Reports.StudentsByStatus(ctx), "students")
}

func (m *Menu) courseStatistics(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== Course Statistics ===")
	fmt.Fprintf(m.out, "Total Active Courses: %d\n", len(m.deps.Courses.ListActive(ctx)))
	m.printGroups("By department", m.deps.Reports.CoursesByDepartment(ctx, true), "courses")
	m.printGroups("By semester", m.deps.Reports.CoursesBySemester(ctx), "courses")
}

func (m *Menu) printGroups(title string, groups []models.GroupCount, unit string) {
	fmt.Fprintf(m.out, "\n%s:\n", title)
	if len(groups) == 0 {
		response.Info(m.out, "  none")
		return
	}
	for _, g := range groups {
		fmt.Fprintf(m.out, "  %s: %d %s\n", g.Label, g.Count, unit)
	}
}

func (m *Menu) gpaDistribution(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== GPA Distribution ===")
	for _, bucket := range m.deps.Reports.GPADistribution(ctx).Buckets {
		fmt.Fprintf(m.out, "%s: %d\n", bucket.Label, bucket.Count)
	}
}

func (m *Menu) enrollmentSummary(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== Enrollment Summary ===")
	counts := m.deps.Reports.EnrollmentCounts(ctx)
	fmt.Fprintf(m.out, "Total: %d\nActive: %d\nCompleted: %d\nRemoved: %d\n", counts.Total, counts.Active, counts.Completed, counts.Removed)
}

func (m *Menu) ledgerMetrics() {
	fmt.Fprintln(m.out, "\n=== Ledger Metrics ===")
	snapshot := m.deps.Metrics.Snapshot()
	fmt.Fprintf(m.out, "Enrollments: %d\nRejections: %d\nUnenrollments: %d\nGrades recorded: %d\n",
		snapshot.Enrollments, snapshot.Rejections, snapshot.Unenrollments, snapshot.Grades)
}
