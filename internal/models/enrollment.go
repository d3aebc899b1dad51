package models

import (
	"fmt"
	"time"
)

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses. ACTIVE records are ungraded, COMPLETED records
// carry a grade, REMOVED records were unenrolled and are kept for history.
const (
	EnrollmentStatusActive    EnrollmentStatus = "ACTIVE"
	EnrollmentStatusCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentStatusRemoved   EnrollmentStatus = "REMOVED"
)

// Enrollment captures a student's registration to a course within a semester.
type Enrollment struct {
	ID         string           `db:"id" json:"id"`
	StudentID  string           `db:"student_id" json:"student_id"`
	CourseCode string           `db:"course_code" json:"course_code"`
	Credits    int              `db:"credits" json:"credits"`
	Semester   Semester         `db:"semester" json:"semester"`
	EnrolledAt time.Time        `db:"enrolled_at" json:"enrolled_at"`
	Marks      float64          `db:"marks" json:"marks"`
	Grade      Grade            `db:"grade" json:"grade,omitempty"`
	Status     EnrollmentStatus `db:"status" json:"status"`
}

// IsActive reports whether the record still counts toward uniqueness.
func (e Enrollment) IsActive() bool {
	return e.Status != EnrollmentStatusRemoved
}

// IsCompleted reports whether a grade has been recorded.
func (e Enrollment) IsCompleted() bool {
	return e.Grade != ""
}

// Matches reports whether the record belongs to the given triple.
func (e Enrollment) Matches(studentID, courseCode string, semester Semester) bool {
	return e.StudentID == studentID && e.CourseCode == courseCode && e.Semester == semester
}

// SetMarks stores marks and re-derives the grade.
func (e *Enrollment) SetMarks(marks float64) {
	e.Marks = marks
	e.Grade = GradeFromMarks(marks)
	e.Status = EnrollmentStatusCompleted
}

func (e Enrollment) String() string {
	return fmt.Sprintf("%s enrolled in %s (%s) - %s", e.StudentID, e.CourseCode, e.Semester, e.Grade)
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID  string
	CourseCode string
	Semester   Semester
	Status     EnrollmentStatus
}
