package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ccrm/internal/models"
	"github.com/noah-isme/ccrm/internal/repository"
)

var fixedNow = time.Date(2024, 9, 1, 10, 30, 0, 0, time.UTC)

type testCatalog struct {
	studentRepo    *repository.StudentRepository
	courseRepo     *repository.CourseRepository
	instructorRepo *repository.InstructorRepository
	ledger         *repository.EnrollmentRepository

	students    *StudentService
	courses     *CourseService
	instructors *InstructorService
	enrollments *EnrollmentService
	reports     *ReportService
	metrics     *MetricsService
}

func newTestCatalog(t *testing.T, maxCredits int) *testCatalog {
	t.Helper()
	c := &testCatalog{
		studentRepo:    repository.NewStudentRepository(),
		courseRepo:     repository.NewCourseRepository(),
		instructorRepo: repository.NewInstructorRepository(),
		ledger:         repository.NewEnrollmentRepository(),
		metrics:        NewMetricsService(),
	}
	validate := NewValidator()
	c.students = NewStudentService(c.studentRepo, validate, nil)
	c.courses = NewCourseService(c.courseRepo, c.instructorRepo, validate, nil)
	c.instructors = NewInstructorService(c.instructorRepo, c.courseRepo, validate, nil)
	c.enrollments = NewEnrollmentService(c.studentRepo, c.courseRepo, c.ledger, maxCredits, nil,
		WithClock(func() time.Time { return fixedNow }), WithObserver(c.metrics))
	c.reports = NewReportService(c.studentRepo, c.courseRepo, c.instructorRepo, c.ledger, "en", nil)
	return c
}

func (c *testCatalog) addStudent(t *testing.T, id, regNo, first, last string) *models.Student {
	t.Helper()
	s, err := c.students.Create(context.Background(), CreateStudentRequest{
		ID: id, RegNo: regNo, FirstName: first, LastName: last, Email: first + "." + last + "@university.edu",
	})
	require.NoError(t, err)
	return s
}

func (c *testCatalog) addCourse(t *testing.T, code string, credits int, department string) *models.Course {
	t.Helper()
	course, err := c.courses.Create(context.Background(), CreateCourseRequest{
		Code: code, Title: code + " Title", Credits: credits, Department: department, Semester: "FALL",
	})
	require.NoError(t, err)
	return course
}

func (c *testCatalog) seed(t *testing.T) {
	t.Helper()
	require.NoError(t, SeedSampleData(context.Background(), c.students, c.courses, c.enrollments))
}
