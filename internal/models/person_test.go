package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseName(t *testing.T) {
	assert.Equal(t, "John Doe", ParseName("  John   Doe ").FullName())
	assert.Equal(t, Name{First: "Mary", Last: "Ann Smith"}, ParseName("Mary Ann Smith"))
	assert.Equal(t, "Cher", ParseName("Cher").FullName())
	assert.Equal(t, "", ParseName("").FullName())
	assert.Equal(t, "Ada B Lovelace", NewName(" Ada", "B ", "Lovelace").FullName())
}

func TestProfiles(t *testing.T) {
	var profiles []Profile
	student := NewStudent("S001", "2023CS001", NewName("John", "", "Doe"), "john.doe@university.edu")
	instructor := NewInstructor("I001", NewName("Grace", "", "Hopper"), "grace@university.edu", "Computer Science", "Professor")
	profiles = append(profiles, student, instructor)

	assert.Equal(t, "Student", profiles[0].DisplayTitle())
	assert.Equal(t, "Professor (Computer Science)", profiles[1].DisplayTitle())
	assert.Contains(t, profiles[0].DetailedInfo(), "Registration No: 2023CS001")
	assert.Contains(t, profiles[1].DetailedInfo(), "Designation: Professor")

	assert.Equal(t, PersonRoleStudent, student.Role)
	assert.Equal(t, StudentStatusActive, student.Status)
	assert.True(t, student.Active)
	assert.Equal(t, "John Doe [S001] - Active", student.Person.String())
}

func TestParseEnums(t *testing.T) {
	sem, ok := ParseSemester("fall")
	assert.True(t, ok)
	assert.Equal(t, SemesterFall, sem)
	assert.Equal(t, 3, sem.Order())
	assert.Equal(t, "Fall", sem.String())

	_, ok = ParseSemester("winter")
	assert.False(t, ok)

	status, ok := ParseStudentStatus(" graduated ")
	assert.True(t, ok)
	assert.Equal(t, StudentStatusGraduated, status)
}

func TestEnrollmentSetMarks(t *testing.T) {
	e := Enrollment{StudentID: "S001", CourseCode: "CS101", Semester: SemesterFall, Status: EnrollmentStatusActive}
	assert.False(t, e.IsCompleted())

	e.SetMarks(92)
	assert.Equal(t, GradeS, e.Grade)
	assert.Equal(t, EnrollmentStatusCompleted, e.Status)
	assert.True(t, e.IsActive())

	e.SetMarks(55)
	assert.Equal(t, GradeD, e.Grade)
	assert.Equal(t, 55.0, e.Marks)
}
