package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/noah-isme/ccrm/internal/models"
	appErrors "github.com/noah-isme/ccrm/pkg/errors"
)

// MissingReference is rendered in place of a student, course or instructor
// that an enrollment or course still points to after deletion.
const MissingReference = "<missing>"

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, bool)
	Search(ctx context.Context, match func(models.Student) bool) []models.Student
}

type courseReader interface {
	FindByCode(ctx context.Context, code string) (*models.Course, bool)
	Search(ctx context.Context, match func(*models.Course) bool) []*models.Course
}

type enrollmentReader interface {
	List(ctx context.Context, filter models.EnrollmentFilter) []models.Enrollment
}

// ReportService builds read-only aggregates and textual reports.
type ReportService struct {
	students    studentReader
	courses     courseReader
	instructors instructorLookup
	ledger      enrollmentReader
	printer     *message.Printer
	logger      *zap.Logger
}

// NewReportService constructs the report service. Numbers are formatted for locale.
func NewReportService(students studentReader, courses courseReader, instructors instructorLookup, ledger enrollmentReader, locale string, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		logger.Warn("invalid report locale, falling back to English", zap.String("locale", locale), zap.Error(err))
		tag = language.English
	}
	return &ReportService{
		students:    students,
		courses:     courses,
		instructors: instructors,
		ledger:      ledger,
		printer:     message.NewPrinter(tag),
		logger:      logger,
	}
}

// CoursesByDepartment counts courses per department, sorted by department.
// Courses without a department are skipped.
func (s *ReportService) CoursesByDepartment(ctx context.Context, activeOnly bool) []models.GroupCount {
	counts := map[string]int{}
	for _, c := range s.courses.Search(ctx, nil) {
		if c.Department() == "" || (activeOnly && !c.Active()) {
			continue
		}
		counts[c.Department()]++
	}
	out := make([]models.GroupCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, models.GroupCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// CoursesBySemester counts courses per semester in calendar order.
func (s *ReportService) CoursesBySemester(ctx context.Context) []models.GroupCount {
	counts := map[models.Semester]int{}
	for _, c := range s.courses.Search(ctx, nil) {
		counts[c.Semester()]++
	}
	out := make([]models.GroupCount, 0, len(models.Semesters))
	for _, sem := range models.Semesters {
		out = append(out, models.GroupCount{Label: sem.DisplayName(), Count: counts[sem]})
	}
	return out
}

// StudentsByStatus counts students per status in declaration order.
func (s *ReportService) StudentsByStatus(ctx context.Context) []models.GroupCount {
	counts := map[models.StudentStatus]int{}
	for _, st := range s.students.Search(ctx, nil) {
		counts[st.Status]++
	}
	out := make([]models.GroupCount, 0, len(models.StudentStatuses))
	for _, status := range models.StudentStatuses {
		out = append(out, models.GroupCount{Label: string(status), Count: counts[status]})
	}
	return out
}

// EnrollmentCounts tallies the ledger by status.
func (s *ReportService) EnrollmentCounts(ctx context.Context) models.EnrollmentCounts {
	var counts models.EnrollmentCounts
	for _, e := range s.ledger.List(ctx, models.EnrollmentFilter{}) {
		counts.Total++
		switch e.Status {
		case models.EnrollmentStatusActive:
			counts.Active++
		case models.EnrollmentStatusCompleted:
			counts.Completed++
		case models.EnrollmentStatusRemoved:
			counts.Removed++
		}
	}
	return counts
}

func (s *ReportService) activeStudentGPAs(ctx context.Context) []float64 {
	students := s.students.Search(ctx, func(st models.Student) bool { return st.Active })
	gpas := make([]float64, 0, len(students))
	for _, st := range students {
		gpas = append(gpas, gpaOf(s.ledger.List(ctx, models.EnrollmentFilter{StudentID: st.ID})))
	}
	return gpas
}

// GPADistribution buckets active students by GPA. Students with a GPA of 0 are left out.
func (s *ReportService) GPADistribution(ctx context.Context) models.GPADistribution {
	buckets := []models.GPABucket{
		{Label: "Excellent (9.0+)", Min: 9.0, Max: 10.0},
		{Label: "Very Good (8.0-8.9)", Min: 8.0, Max: 9.0},
		{Label: "Good (7.0-7.9)", Min: 7.0, Max: 8.0},
		{Label: "Satisfactory (6.0-6.9)", Min: 6.0, Max: 7.0},
		{Label: "Poor (<6.0)", Min: 0, Max: 6.0},
	}
	for _, gpa := range s.activeStudentGPAs(ctx) {
		if gpa <= 0 {
			continue
		}
		for i := range buckets {
			if gpa >= buckets[i].Min && (gpa < buckets[i].Max || i == 0) {
				buckets[i].Count++
				break
			}
		}
	}
	return models.GPADistribution{Buckets: buckets}
}

// StudentStatistics averages GPA over active students that have at least one grade.
func (s *ReportService) StudentStatistics(ctx context.Context) models.StudentStatistics {
	gpas := s.activeStudentGPAs(ctx)
	stats := models.StudentStatistics{ActiveStudents: len(gpas)}
	total := 0.0
	for _, gpa := range gpas {
		if gpa > 0 {
			total += gpa
			stats.StudentsWithGrades++
		}
	}
	if stats.StudentsWithGrades > 0 {
		stats.AverageGPA = total / float64(stats.StudentsWithGrades)
	}
	return stats
}

// Transcript lists the student's non-removed enrollments with the GPA summary.
func (s *ReportService) Transcript(ctx context.Context, studentID string) (*models.Transcript, error) {
	student, ok := s.students.FindByID(ctx, studentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found: "+studentID)
	}
	records := activeOnly(s.ledger.List(ctx, models.EnrollmentFilter{StudentID: studentID}))
	transcript := &models.Transcript{Student: *student, Lines: make([]models.TranscriptLine, 0, len(records))}
	for _, e := range records {
		line := models.TranscriptLine{
			CourseCode:  e.CourseCode,
			CourseTitle: MissingReference,
			Credits:     e.Credits,
			Semester:    e.Semester,
			Grade:       e.Grade,
			Status:      e.Status,
		}
		if course, ok := s.courses.FindByCode(ctx, e.CourseCode); ok {
			line.CourseTitle = course.Title()
			line.Credits = course.Credits()
		}
		if e.IsCompleted() {
			marks := e.Marks
			line.Marks = &marks
		}
		transcript.Lines = append(transcript.Lines, line)
	}

	transcript.Stats = models.StudentStats{StudentID: studentID, TotalEnrollments: len(records), GPA: gpaOf(records)}
	for _, e := range records {
		if e.IsCompleted() && e.Grade != models.GradeF {
			transcript.Stats.CompletedCredits += recordCredits(ctx, s.courses, e)
		}
	}
	return transcript, nil
}

// StudentReport renders the student profile, statistics and transcript.
func (s *ReportService) StudentReport(ctx context.Context, studentID string) (string, error) {
	transcript, err := s.Transcript(ctx, studentID)
	if err != nil {
		return "", err
	}
	p := s.printer
	var b strings.Builder
	rule := strings.Repeat("=", 50)
	b.WriteString(rule + "\nSTUDENT REPORT\n" + rule + "\n")
	b.WriteString(transcript.Student.DetailedInfo())
	b.WriteString("\nAcademic Statistics:\n")
	p.Fprintf(&b, "Total Enrollments: %d\n", transcript.Stats.TotalEnrollments)
	p.Fprintf(&b, "Completed Credits: %d\n", transcript.Stats.CompletedCredits)
	p.Fprintf(&b, "Current GPA: %.2f\n", transcript.Stats.GPA)
	if len(transcript.Lines) > 0 {
		b.WriteString("\nTranscript:\n")
		for _, line := range transcript.Lines {
			marks := "-"
			if line.Marks != nil {
				marks = p.Sprintf("%.2f", *line.Marks)
			}
			p.Fprintf(&b, "  %-8s %-32s %d cr  %-6s %6s  %s\n", line.CourseCode, line.CourseTitle, line.Credits, line.Semester.DisplayName(), marks, line.Grade)
		}
	}
	b.WriteString(rule + "\n")
	return b.String(), nil
}

// CourseReport renders a course with its instructor and enrollment count.
func (s *ReportService) CourseReport(ctx context.Context, code string) (string, error) {
	course, ok := s.courses.FindByCode(ctx, normalizeCode(code))
	if !ok {
		return "", appErrors.Clone(appErrors.ErrNotFound, "course not found: "+normalizeCode(code))
	}
	instructor := "TBA"
	if course.InstructorID() != "" {
		instructor = MissingReference
		if i, ok := s.instructors.FindByID(ctx, course.InstructorID()); ok {
			instructor = i.Name.FullName()
		}
	}
	status := "Active"
	if !course.Active() {
		status = "Inactive"
	}
	enrolled := len(activeOnly(s.ledger.List(ctx, models.EnrollmentFilter{CourseCode: course.Code()})))

	p := s.printer
	var b strings.Builder
	rule := strings.Repeat("=", 50)
	b.WriteString(rule + "\nCOURSE REPORT\n" + rule + "\n")
	p.Fprintf(&b, "Code: %s\n", course.Code())
	p.Fprintf(&b, "Title: %s\n", course.Title())
	p.Fprintf(&b, "Credits: %d\n", course.Credits())
	p.Fprintf(&b, "Department: %s\n", course.Department())
	p.Fprintf(&b, "Semester: %s\n", course.Semester().DisplayName())
	p.Fprintf(&b, "Instructor: %s\n", instructor)
	if prereqs := course.Prerequisites(); len(prereqs) > 0 {
		p.Fprintf(&b, "Prerequisites: %s\n", strings.Join(prereqs, ", "))
	}
	p.Fprintf(&b, "Enrolled: %d/%d\n", enrolled, course.MaxEnrollment())
	p.Fprintf(&b, "Status: %s\n", status)
	b.WriteString(rule + "\n")
	return b.String(), nil
}

// SummaryReport renders the catalog and ledger summary written by exports.
func (s *ReportService) SummaryReport(ctx context.Context, generatedAt time.Time) string {
	p := s.printer
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	b.WriteString(rule + "\nCCRM DATA SUMMARY REPORT\n")
	p.Fprintf(&b, "Generated: %s\n", generatedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(rule + "\n\n")

	students := s.students.Search(ctx, nil)
	active := 0
	for _, st := range students {
		if st.Active {
			active++
		}
	}
	stats := s.StudentStatistics(ctx)
	b.WriteString("STUDENT STATISTICS:\n")
	p.Fprintf(&b, "Total Students: %d\n", len(students))
	p.Fprintf(&b, "Active Students: %d\n", active)
	if stats.StudentsWithGrades > 0 {
		p.Fprintf(&b, "Average GPA: %.2f\n", stats.AverageGPA)
	}
	b.WriteString("\n")

	courses := s.courses.Search(ctx, nil)
	activeCourses := 0
	for _, c := range courses {
		if c.Active() {
			activeCourses++
		}
	}
	b.WriteString("COURSE STATISTICS:\n")
	p.Fprintf(&b, "Total Courses: %d\n", len(courses))
	p.Fprintf(&b, "Active Courses: %d\n", activeCourses)
	b.WriteString("Courses by Department:\n")
	for _, group := range s.CoursesByDepartment(ctx, false) {
		p.Fprintf(&b, "  %s: %d\n", group.Label, group.Count)
	}
	b.WriteString("\n")

	counts := s.EnrollmentCounts(ctx)
	b.WriteString("ENROLLMENT STATISTICS:\n")
	p.Fprintf(&b, "Total Enrollments: %d\n", counts.Total)
	p.Fprintf(&b, "Active Enrollments: %d\n", counts.Active)
	p.Fprintf(&b, "Completed Enrollments: %d\n", counts.Completed)
	p.Fprintf(&b, "Removed Enrollments: %d\n", counts.Removed)
	b.WriteString("\n" + rule + "\nEnd of Report\n")
	return b.String()
}

// StudentName resolves a student id for display, or MissingReference.
func (s *ReportService) StudentName(ctx context.Context, id string) string {
	if st, ok := s.students.FindByID(ctx, id); ok {
		return st.Name.FullName()
	}
	return MissingReference
}
