package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ccrm/internal/models"
	"github.com/noah-isme/ccrm/pkg/export"
	"github.com/noah-isme/ccrm/pkg/jobs"
)

// Column layouts of the CSV files read and written by the export service.
var (
	StudentImportColumns    = []string{"ID", "RegNo", "Name", "Email"}
	CourseImportColumns     = []string{"Code", "Title", "Credits", "Department", "Semester"}
	StudentExportColumns    = []string{"ID", "RegNo", "Name", "Email", "Status", "DateCreated", "Active"}
	CourseExportColumns     = []string{"Code", "Title", "Credits", "Department", "Semester", "Instructor", "Active"}
	EnrollmentExportColumns = []string{"StudentID", "CourseCode", "Semester", "EnrollmentDate", "Grade", "Marks", "Active"}
)

const fileTimestampLayout = "20060102_150405"

type studentCatalog interface {
	Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error)
	All(ctx context.Context) []models.Student
}

type courseCatalog interface {
	Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error)
	All(ctx context.Context) []*models.Course
}

type reportSource interface {
	Transcript(ctx context.Context, studentID string) (*models.Transcript, error)
	SummaryReport(ctx context.Context, generatedAt time.Time) string
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

type operationObserver interface {
	ObserveOperation(operation string, duration time.Duration)
}

type csvCodec interface {
	Render(data export.Dataset) ([]byte, error)
	Parse(r io.Reader, columns []string) ([]export.Record, []export.RowError, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string, fields []export.Field, footer string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	DateFormat string
	Now        func() time.Time
	// Workers bounds concurrent transcript rendering; defaults to 4.
	Workers int
}

// ImportResult counts the rows of an import. Invalid rows are reported, not fatal.
type ImportResult struct {
	Imported int
	Failed   int
	Errors   []string
}

// ExportService moves catalog and ledger data in and out of files.
type ExportService struct {
	students studentCatalog
	courses  courseCatalog
	ledger   enrollmentReader
	reports  reportSource
	storage  fileStorage
	metrics  operationObserver
	csv      csvCodec
	pdf      pdfRenderer
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService. A nil csv or pdf falls back to the defaults in pkg/export.
func NewExportService(students studentCatalog, courses courseCatalog, ledger enrollmentReader, reports reportSource, storage fileStorage, metrics operationObserver, cfg ExportConfig, logger *zap.Logger, csv csvCodec, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DateFormat == "" {
		cfg.DateFormat = "2006-01-02"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		students: students,
		courses:  courses,
		ledger:   ledger,
		reports:  reports,
		storage:  storage,
		metrics:  metrics,
		csv:      csv,
		pdf:      pdf,
		logger:   logger,
		cfg:      cfg,
	}
}

func (s *ExportService) observe(operation string, started time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(operation, time.Since(started))
	}
}

// ImportStudents reads ID,RegNo,Name,Email rows. The header line is skipped.
func (s *ExportService) ImportStudents(ctx context.Context, r io.Reader) (ImportResult, error) {
	defer s.observe("import_students", time.Now())
	records, rowErrs, err := s.csv.Parse(r, StudentImportColumns)
	if err != nil {
		return ImportResult{}, err
	}
	result := newImportResult(rowErrs)
	for _, rec := range records {
		name := models.ParseName(rec.Fields["Name"])
		_, err := s.students.Create(ctx, CreateStudentRequest{
			ID:        rec.Fields["ID"],
			RegNo:     rec.Fields["RegNo"],
			FirstName: name.First,
			LastName:  name.Last,
			Email:     rec.Fields["Email"],
		})
		result.record(rec.Line, err)
	}
	s.logger.Info("students imported", zap.Int("imported", result.Imported), zap.Int("failed", result.Failed))
	return result, nil
}

// ImportCourses reads Code,Title,Credits,Department,Semester rows. The header line is skipped.
func (s *ExportService) ImportCourses(ctx context.Context, r io.Reader) (ImportResult, error) {
	defer s.observe("import_courses", time.Now())
	records, rowErrs, err := s.csv.Parse(r, CourseImportColumns)
	if err != nil {
		return ImportResult{}, err
	}
	result := newImportResult(rowErrs)
	for _, rec := range records {
		credits, err := strconv.Atoi(rec.Fields["Credits"])
		if err != nil {
			result.record(rec.Line, fmt.Errorf("invalid credits %q", rec.Fields["Credits"]))
			continue
		}
		_, err = s.courses.Create(ctx, CreateCourseRequest{
			Code:       rec.Fields["Code"],
			Title:      rec.Fields["Title"],
			Credits:    credits,
			Department: rec.Fields["Department"],
			Semester:   rec.Fields["Semester"],
		})
		result.record(rec.Line, err)
	}
	s.logger.Info("courses imported", zap.Int("imported", result.Imported), zap.Int("failed", result.Failed))
	return result, nil
}

// ImportStudentsFile opens path and imports it with ImportStudents.
func (s *ExportService) ImportStudentsFile(ctx context.Context, path string) (ImportResult, error) {
	return s.importFile(ctx, path, s.ImportStudents)
}

// ImportCoursesFile opens path and imports it with ImportCourses.
func (s *ExportService) ImportCoursesFile(ctx context.Context, path string) (ImportResult, error) {
	return s.importFile(ctx, path, s.ImportCourses)
}

func (s *ExportService) importFile(ctx context.Context, path string, load func(context.Context, io.Reader) (ImportResult, error)) (ImportResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open import file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	return load(ctx, file)
}

func newImportResult(rowErrs []export.RowError) ImportResult {
	result := ImportResult{Failed: len(rowErrs)}
	for _, e := range rowErrs {
		result.Errors = append(result.Errors, e.Error())
	}
	return result
}

func (r *ImportResult) record(line int, err error) {
	if err == nil {
		r.Imported++
		return
	}
	r.Failed++
	r.Errors = append(r.Errors, export.RowError{Line: line, Err: err}.Error())
}

// ExportStudents writes every student to students_<timestamp>.csv.
func (s *ExportService) ExportStudents(ctx context.Context) (string, error) {
	defer s.observe("export_students", time.Now())
	students := s.students.All(ctx)
	data := export.Dataset{Headers: StudentExportColumns, Rows: make([]map[string]string, 0, len(students))}
	for _, st := range students {
		data.Rows = append(data.Rows, map[string]string{
			"ID":          st.ID,
			"RegNo":       st.RegNo,
			"Name":        st.Name.FullName(),
			"Email":       st.Email,
			"Status":      string(st.Status),
			"DateCreated": st.CreatedAt.Format(s.cfg.DateFormat),
			"Active":      strconv.FormatBool(st.Active),
		})
	}
	return s.writeCSV("students", data)
}

// ExportCourses writes every course to courses_<timestamp>.csv.
func (s *ExportService) ExportCourses(ctx context.Context) (string, error) {
	defer s.observe("export_courses", time.Now())
	courses := s.courses.All(ctx)
	data := export.Dataset{Headers: CourseExportColumns, Rows: make([]map[string]string, 0, len(courses))}
	for _, c := range courses {
		data.Rows = append(data.Rows, map[string]string{
			"Code":       c.Code(),
			"Title":      c.Title(),
			"Credits":    strconv.Itoa(c.Credits()),
			"Department": c.Department(),
			"Semester":   string(c.Semester()),
			"Instructor": c.InstructorID(),
			"Active":     strconv.FormatBool(c.Active()),
		})
	}
	return s.writeCSV("courses", data)
}

// ExportEnrollments writes the whole ledger, removed records included, to enrollments_<timestamp>.csv.
func (s *ExportService) ExportEnrollments(ctx context.Context) (string, error) {
	defer s.observe("export_enrollments", time.Now())
	records := s.ledger.List(ctx, models.EnrollmentFilter{})
	data := export.Dataset{Headers: EnrollmentExportColumns, Rows: make([]map[string]string, 0, len(records))}
	for _, e := range records {
		marks := ""
		if e.IsCompleted() {
			marks = strconv.FormatFloat(e.Marks, 'f', 2, 64)
		}
		data.Rows = append(data.Rows, map[string]string{
			"StudentID":      e.StudentID,
			"CourseCode":     e.CourseCode,
			"Semester":       string(e.Semester),
			"EnrollmentDate": e.EnrolledAt.Format(s.cfg.DateFormat),
			"Grade":          string(e.Grade),
			"Marks":          marks,
			"Active":         strconv.FormatBool(e.IsActive()),
		})
	}
	return s.writeCSV("enrollments", data)
}

// ExportAll writes the students, courses and enrollments files and returns their paths.
func (s *ExportService) ExportAll(ctx context.Context) ([]string, error) {
	paths := make([]string, 0, 3)
	for _, fn := range []func(context.Context) (string, error){s.ExportStudents, s.ExportCourses, s.ExportEnrollments} {
		path, err := fn(ctx)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// GenerateSummaryReport writes summary_report_<timestamp>.txt.
func (s *ExportService) GenerateSummaryReport(ctx context.Context) (string, error) {
	defer s.observe("summary_report", time.Now())
	now := s.cfg.Now()
	content := s.reports.SummaryReport(ctx, now)
	path, err := s.storage.Save(fmt.Sprintf("summary_report_%s.txt", now.Format(fileTimestampLayout)), []byte(content))
	if err != nil {
		return "", err
	}
	s.logger.Info("summary report generated", zap.String("path", path))
	return path, nil
}

// ExportTranscriptPDF renders the student's transcript to transcript_<id>_<timestamp>.pdf.
func (s *ExportService) ExportTranscriptPDF(ctx context.Context, studentID string) (string, error) {
	defer s.observe("transcript_pdf", time.Now())
	transcript, err := s.reports.Transcript(ctx, studentID)
	if err != nil {
		return "", err
	}
	data := export.Dataset{Headers: []string{"Course", "Title", "Credits", "Semester", "Marks", "Grade"}}
	for _, line := range transcript.Lines {
		marks := "-"
		if line.Marks != nil {
			marks = strconv.FormatFloat(*line.Marks, 'f', 2, 64)
		}
		data.Rows = append(data.Rows, map[string]string{
			"Course":   line.CourseCode,
			"Title":    line.CourseTitle,
			"Credits":  strconv.Itoa(line.Credits),
			"Semester": line.Semester.DisplayName(),
			"Marks":    marks,
			"Grade":    line.Grade.String(),
		})
	}
	student := transcript.Student
	fields := []export.Field{
		{Label: "Student", Value: student.Name.FullName()},
		{Label: "ID", Value: student.ID},
		{Label: "Registration No", Value: student.RegNo},
		{Label: "Status", Value: string(student.Status)},
	}
	footer := fmt.Sprintf("GPA: %.2f   Completed credits: %d", transcript.Stats.GPA, transcript.Stats.CompletedCredits)
	content, err := s.pdf.Render(data, "Academic Transcript", fields, footer)
	if err != nil {
		return "", err
	}
	now := s.cfg.Now()
	path, err := s.storage.Save(fmt.Sprintf("transcript_%s_%s.pdf", strings.ToLower(student.ID), now.Format(fileTimestampLayout)), content)
	if err != nil {
		return "", err
	}
	s.logger.Info("transcript exported", zap.String("student_id", student.ID), zap.String("path", path))
	return path, nil
}

// ExportTranscripts renders a PDF transcript for each listed student, or for
// every student when ids is empty, on a bounded worker pool. Paths of the
// written files are returned sorted; students that failed are joined into the
// error.
func (s *ExportService) ExportTranscripts(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		for _, st := range s.students.All(ctx) {
			ids = append(ids, st.ID)
		}
	}

	var (
		mu    sync.Mutex
		paths []string
	)
	queue := jobs.NewQueue("transcripts", func(ctx context.Context, job jobs.Job) error {
		path, err := s.ExportTranscriptPDF(ctx, job.ID)
		if err != nil {
			return err
		}
		mu.Lock()
		paths = append(paths, path)
		mu.Unlock()
		return nil
	}, jobs.QueueConfig{Workers: s.cfg.Workers, MaxRetries: 1, RetryDelay: 50 * time.Millisecond, Logger: s.logger})
	queue.Start(ctx)
	defer queue.Stop()

	var errs []error
	for _, id := range ids {
		if err := queue.Enqueue(jobs.Job{ID: id, Type: "transcript_pdf"}); err != nil {
			errs = append(errs, err)
			break
		}
	}
	for _, failure := range queue.Wait() {
		errs = append(errs, failure)
	}
	sort.Strings(paths)
	s.logger.Info("transcripts exported", zap.Int("written", len(paths)), zap.Int("failed", len(errs)))
	return paths, errors.Join(errs...)
}

func (s *ExportService) writeCSV(kind string, data export.Dataset) (string, error) {
	content, err := s.csv.Render(data)
	if err != nil {
		return "", err
	}
	path, err := s.storage.Save(fmt.Sprintf("%s_%s.csv", kind, s.cfg.Now().Format(fileTimestampLayout)), content)
	if err != nil {
		return "", err
	}
	s.logger.Info("export written", zap.String("kind", kind), zap.Int("rows", len(data.Rows)), zap.String("path", path))
	return path, nil
}
