package models

import (
	"fmt"
	"strings"
	"time"
)

// StudentStatus tracks a student's academic standing.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "ACTIVE"
	StudentStatusInactive  StudentStatus = "INACTIVE"
	StudentStatusGraduated StudentStatus = "GRADUATED"
	StudentStatusSuspended StudentStatus = "SUSPENDED"
)

// StudentStatuses lists every status in declaration order.
var StudentStatuses = []StudentStatus{StudentStatusActive, StudentStatusInactive, StudentStatusGraduated, StudentStatusSuspended}

// ParseStudentStatus resolves a status case-insensitively.
func ParseStudentStatus(raw string) (StudentStatus, bool) {
	candidate := StudentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	for _, s := range StudentStatuses {
		if s == candidate {
			return s, true
		}
	}
	return "", false
}

// Student represents a learner registered on campus.
type Student struct {
	Person
	RegNo  string        `db:"reg_no" json:"reg_no"`
	Status StudentStatus `db:"status" json:"status"`
}

// NewStudent returns an ACTIVE student created now.
func NewStudent(id, regNo string, name Name, email string) *Student {
	return &Student{
		Person: Person{
			ID:        id,
			Role:      PersonRoleStudent,
			Name:      name,
			Email:     email,
			Active:    true,
			CreatedAt: time.Now().UTC(),
		},
		RegNo:  regNo,
		Status: StudentStatusActive,
	}
}

// DisplayTitle implements Profile.
func (s *Student) DisplayTitle() string {
	return "Student"
}

// DetailedInfo implements Profile.
func (s *Student) DetailedInfo() string {
	var b strings.Builder
	b.WriteString("Student Details:\n")
	fmt.Fprintf(&b, "ID: %s\n", s.ID)
	fmt.Fprintf(&b, "Registration No: %s\n", s.RegNo)
	fmt.Fprintf(&b, "Name: %s\n", s.Name.FullName())
	fmt.Fprintf(&b, "Email: %s\n", s.Email)
	fmt.Fprintf(&b, "Status: %s\n", s.Status)
	fmt.Fprintf(&b, "Date Created: %s\n", s.CreatedAt.Format("2006-01-02"))
	return b.String()
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search string
	Status StudentStatus
	Active *bool
}

// StudentStats summarises a student's academic record.
type StudentStats struct {
	StudentID        string  `json:"student_id"`
	TotalEnrollments int     `json:"total_enrollments"`
	GPA              float64 `json:"gpa"`
	CompletedCredits int     `json:"completed_credits"`
}
