package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/noah-isme/ccrm/internal/models"
	appErrors "github.com/noah-isme/ccrm/pkg/errors"
	"github.com/noah-isme/ccrm/pkg/response"
)

type enrollmentInput struct {
	StudentID  string `validate:"required,student_id"`
	CourseCode string `validate:"required,course_code"`
}

type gradeInput struct {
	StudentID  string  `validate:"required,student_id"`
	CourseCode string  `validate:"required,course_code"`
	Marks      float64 `validate:"gte=0,lte=100"`
}

func (m *Menu) enrollmentMenu(ctx context.Context) {
	switch m.submenu("Enrollment Management",
		"Enroll Student in Course",
		"Unenroll Student from Course",
		"View Student Enrollments",
		"View Course Enrollments",
		"Check Credit Load",
		"Back to Main Menu",
	) {
	case 1:
		m.enrollStudent(ctx)
	case 2:
		m.unenrollStudent(ctx)
	case 3:
		m.studentEnrollments(ctx)
	case 4:
		m.courseEnrollments(ctx)
	case 5:
		m.creditLoad(ctx)
	}
}

func (m *Menu) gradeMenu(ctx context.Context) {
	switch m.submenu("Grade Management",
		"Record Grade",
		"View Student Grades",
		"Back to Main Menu",
	) {
	case 1:
		m.recordGrade(ctx)
	case 2:
		m.studentGrades(ctx)
	}
}

func (m *Menu) validEnrollmentInput(op, studentID, courseCode string) bool {
	if err := m.validate.Struct(enrollmentInput{StudentID: studentID, CourseCode: courseCode}); err != nil {
		m.fail(op, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid enrollment input"))
		return false
	}
	return true
}

// promptTriple reads the student, course and semester of an enrollment.
func (m *Menu) promptTriple() (string, string, models.Semester, bool) {
	studentID := m.prompt("Enter student ID: ")
	courseCode := m.prompt("Enter course code: ")
	if m.eof {
		return "", "", "", false
	}
	semester, ok := m.promptSemester()
	return studentID, courseCode, semester, ok && !m.eof
}

func (m *Menu) enrollStudent(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== Enroll Student in Course ===")
	studentID, courseCode, semester, ok := m.promptTriple()
	if !ok || !m.validEnrollmentInput("enroll", studentID, courseCode) {
		return
	}
	enrollment, err := m.deps.Enrollments.Enroll(ctx, studentID, courseCode, semester)
	if err != nil {
		var limit *appErrors.CreditLimitError
		if errors.As(err, &limit) {
			fmt.Fprintf(m.out, "Credit limit exceeded: %d credits already taken, course adds %d, maximum is %d.\n", limit.Current, limit.Attempted, limit.Limit)
		}
		m.fail("enroll", err)
		return
	}
	response.Success(m.out, "Student enrolled successfully: %s", enrollment)
}

func (m *Menu) unenrollStudent(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== Unenroll Student from Course ===")
	studentID, courseCode, semester, ok := m.promptTriple()
	if !ok || !m.validEnrollmentInput("unenroll", studentID, courseCode) {
		return
	}
	removed, err := m.deps.Enrollments.Unenroll(ctx, studentID, courseCode, semester)
	if err != nil {
		m.fail("unenroll", err)
		return
	}
	if !removed {
		response.Info(m.out, "Unenrollment failed. Check if the student is enrolled in this course.")
		return
	}
	response.Success(m.out, "Student unenrolled successfully.")
}

func (m *Menu) studentEnrollments(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== View Student Enrollments ===")
	studentID := m.prompt("Enter student ID: ")
	if m.eof {
		return
	}
	records := m.deps.Enrollments.ForStudent(ctx, studentID)
	if len(records) == 0 {
		response.Info(m.out, "No enrollments found for student: %s", studentID)
		return
	}
	fmt.Fprintf(m.out, "\nEnrollments for student %s:\n", studentID)
	for _, e := range records {
		fmt.Fprintln(m.out, e.String())
	}
}

func (m *Menu) courseEnrollments(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== View Course Enrollments ===")
	code := m.prompt("Enter course code: ")
	if m.eof {
		return
	}
	course, err := m.deps.Courses.Get(ctx, code)
	if err != nil {
		m.fail("course_enrollments", err)
		return
	}
	records := m.deps.Enrollments.ForCourse(ctx, course.Code())
	if len(records) == 0 {
		response.Info(m.out, "No enrollments found for course: %s", course.Code())
		return
	}
	fmt.Fprintf(m.out, "\nEnrollments for course %s:\n", course.Code())
	for _, e := range records {
		fmt.Fprintf(m.out, "%s  %s\n", m.deps.Reports.StudentName(ctx, e.StudentID), e.String())
	}
}

func (m *Menu) creditLoad(ctx context.Context) {
	studentID := m.prompt("Enter student ID: ")
	if m.eof {
		return
	}
	semester, ok := m.promptSemester()
	if !ok {
		return
	}
	fmt.Fprintf(m.out, "Credit load for %s in %s: %d/%d\n", studentID, semester.DisplayName(),
		m.deps.Enrollments.CreditLoad(ctx, studentID, semester), m.deps.Enrollments.MaxCredits())
}

func (m *Menu) recordGrade(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== Record Grade ===")
	studentID, courseCode, semester, ok := m.promptTriple()
	if !ok {
		return
	}
	raw := m.prompt("Enter marks (0-100): ")
	if m.eof {
		return
	}
	marks, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		response.Info(m.out, "Marks must be a number.")
		return
	}
	input := gradeInput{StudentID: studentID, CourseCode: courseCode, Marks: marks}
	if err := m.validate.Struct(input); err != nil {
		m.fail("record_grade", appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid grade input"))
		return
	}
	recorded, err := m.deps.Enrollments.RecordGrade(ctx, studentID, courseCode, semester, marks)
	if err != nil {
		m.fail("record_grade", err)
		return
	}
	if !recorded {
		response.Info(m.out, "Failed to record grade. Check enrollment details.")
		return
	}
	response.Success(m.out, "Grade recorded successfully: %.2f (%s)", marks, models.GradeFromMarks(marks))
}

func (m *Menu) studentGrades(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== View Student Grades ===")
	studentID := m.prompt("Enter student ID: ")
	if m.eof {
		return
	}
	transcript, err := m.deps.Reports.Transcript(ctx, studentID)
	if err != nil {
		m.fail("student_grades", err)
		return
	}
	fmt.Fprintf(m.out, "\nGrades for student %s:\n", studentID)
	graded := 0
	for _, line := range transcript.Lines {
		if line.Marks == nil {
			continue
		}
		graded++
		fmt.Fprintf(m.out, "%s: %.2f marks, Grade: %s\n", line.CourseCode, *line.Marks, line.Grade)
	}
	if graded == 0 {
		response.Info(m.out, "No grades recorded.")
		return
	}
	fmt.Fprintf(m.out, "GPA: %.2f\n", transcript.Stats.GPA)
}
