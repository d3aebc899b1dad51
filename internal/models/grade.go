package models

import "strconv"

// Grade is a letter band derived from numeric marks.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
	GradeF Grade = "F"
)

type gradeBand struct {
	grade       Grade
	minMarks    float64
	points      float64
	description string
}

// Checked top-down; the first band whose lower bound is met wins.
var gradeBands = []gradeBand{
	{GradeS, 90, 10.0, "Outstanding"},
	{GradeA, 80, 9.0, "Excellent"},
	{GradeB, 70, 8.0, "Very Good"},
	{GradeC, 60, 7.0, "Good"},
	{GradeD, 50, 6.0, "Satisfactory"},
	{GradeE, 40, 5.0, "Pass"},
}

// Grades lists every band from best to worst.
var Grades = []Grade{GradeS, GradeA, GradeB, GradeC, GradeD, GradeE, GradeF}

// GradeFromMarks maps marks onto a band. Marks outside 0-100 are not rejected.
func GradeFromMarks(marks float64) Grade {
	for _, band := range gradeBands {
		if marks >= band.minMarks {
			return band.grade
		}
	}
	return GradeF
}

// Points returns the grade-point value used for GPA.
func (g Grade) Points() float64 {
	for _, band := range gradeBands {
		if band.grade == g {
			return band.points
		}
	}
	return 0
}

// Description returns the human label of the band.
func (g Grade) Description() string {
	for _, band := range gradeBands {
		if band.grade == g {
			return band.description
		}
	}
	if g == GradeF {
		return "Fail"
	}
	return ""
}

func (g Grade) String() string {
	if g == "" {
		return "In Progress"
	}
	return string(g) + " (" + strconv.FormatFloat(g.Points(), 'f', 1, 64) + ")"
}
