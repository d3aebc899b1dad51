package models

import "strings"

// Semester is one of the three academic sessions of a year.
type Semester string

const (
	SemesterSpring Semester = "SPRING"
	SemesterSummer Semester = "SUMMER"
	SemesterFall   Semester = "FALL"
)

// Semesters lists the sessions in calendar order.
var Semesters = []Semester{SemesterSpring, SemesterSummer, SemesterFall}

// ParseSemester accepts either the code or the display name, case-insensitively.
func ParseSemester(raw string) (Semester, bool) {
	candidate := Semester(strings.ToUpper(strings.TrimSpace(raw)))
	for _, s := range Semesters {
		if s == candidate {
			return s, true
		}
	}
	return "", false
}

// DisplayName returns the title-cased name, e.g. "Fall".
func (s Semester) DisplayName() string {
	switch s {
	case SemesterSpring:
		return "Spring"
	case SemesterSummer:
		return "Summer"
	case SemesterFall:
		return "Fall"
	}
	return string(s)
}

// Order is the 1-based position in the academic year; 0 for unknown values.
func (s Semester) Order() int {
	for i, candidate := range Semesters {
		if candidate == s {
			return i + 1
		}
	}
	return 0
}

func (s Semester) String() string {
	return s.DisplayName()
}
