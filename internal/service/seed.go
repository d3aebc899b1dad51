package service

import (
	"context"
	"fmt"

	"github.com/noah-isme/ccrm/internal/models"
)

type enrollmentWriter interface {
	Enroll(ctx context.Context, studentID, courseCode string, semester models.Semester) (*models.Enrollment, error)
	RecordGrade(ctx context.Context, studentID, courseCode string, semester models.Semester, marks float64) (bool, error)
}

type studentCreator interface {
	Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error)
}

type courseCreator interface {
	Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error)
}

// SeedSampleData loads the demonstration catalog: three students, three
// courses, four Fall enrollments and two grades.
func SeedSampleData(ctx context.Context, students studentCreator, courses courseCreator, ledger enrollmentWriter) error {
	sampleStudents := []CreateStudentRequest{
		{ID: "S001", RegNo: "2023CS001", FirstName: "John", LastName: "Doe", Email: "john.doe@university.edu"},
		{ID: "S002", RegNo: "2023CS002", FirstName: "Jane", LastName: "Smith", Email: "jane.smith@university.edu"},
		{ID: "S003", RegNo: "2023IT001", FirstName: "Alice", LastName: "Johnson", Email: "alice.johnson@university.edu"},
	}
	for _, req := range sampleStudents {
		if _, err := students.Create(ctx, req); err != nil {
			return fmt.Errorf("seed student %s: %w", req.ID, err)
		}
	}

	sampleCourses := []CreateCourseRequest{
		{Code: "CS101", Title: "Introduction to Programming", Credits: 3, Department: "Computer Science", Semester: "FALL"},
		{Code: "CS201", Title: "Data Structures", Credits: 4, Department: "Computer Science", Semester: "SPRING"},
		{Code: "IT301", Title: "Database Systems", Credits: 3, Department: "Information Technology", Semester: "FALL"},
	}
	for _, req := range sampleCourses {
		if _, err := courses.Create(ctx, req); err != nil {
			return fmt.Errorf("seed course %s: %w", req.Code, err)
		}
	}

	enrollments := [][2]string{{"S001", "CS101"}, {"S001", "IT301"}, {"S002", "CS101"}, {"S003", "IT301"}}
	for _, pair := range enrollments {
		if _, err := ledger.Enroll(ctx, pair[0], pair[1], models.SemesterFall); err != nil {
			return fmt.Errorf("seed enrollment %s/%s: %w", pair[0], pair[1], err)
		}
	}

	grades := []struct {
		studentID, courseCode string
		marks                 float64
	}{
		{"S001", "CS101", 85},
		{"S002", "CS101", 92},
	}
	for _, g := range grades {
		if _, err := ledger.RecordGrade(ctx, g.studentID, g.courseCode, models.SemesterFall, g.marks); err != nil {
			return fmt.Errorf("seed grade %s/%s: %w", g.studentID, g.courseCode, err)
		}
	}
	return nil
}
