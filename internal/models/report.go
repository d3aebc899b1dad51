package models

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
	ReportFormatTXT ReportFormat = "txt"
)

// GroupCount is a label with the number of records sharing it.
type GroupCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// EnrollmentCounts summarises the ledger by lifecycle state.
type EnrollmentCounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Removed   int `json:"removed"`
}

// GPABucket is one band of the GPA distribution.
type GPABucket struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// GPADistribution groups students with recorded grades into GPA bands.
// Students without any graded enrollment are not counted.
type GPADistribution struct {
	Buckets []GPABucket `json:"buckets"`
}

// StudentStatistics aggregates GPA over active students.
type StudentStatistics struct {
	ActiveStudents     int     `json:"active_students"`
	AverageGPA         float64 `json:"average_gpa"`
	StudentsWithGrades int     `json:"students_with_grades"`
}

// TranscriptLine is one course on a student's transcript.
type TranscriptLine struct {
	CourseCode  string           `json:"course_code"`
	CourseTitle string           `json:"course_title"`
	Credits     int              `json:"credits"`
	Semester    Semester         `json:"semester"`
	Marks       *float64         `json:"marks,omitempty"`
	Grade       Grade            `json:"grade,omitempty"`
	Status      EnrollmentStatus `json:"status"`
}

// Transcript lists a student's enrollments with the computed GPA.
type Transcript struct {
	Student Student          `json:"student"`
	Lines   []TranscriptLine `json:"lines"`
	Stats   StudentStats     `json:"stats"`
}

// LedgerMetrics is a point-in-time copy of the ledger counters.
type LedgerMetrics struct {
	Enrollments   uint64 `json:"enrollments"`
	Rejections    uint64 `json:"rejections"`
	Unenrollments uint64 `json:"unenrollments"`
	Grades        uint64 `json:"grades"`
}
