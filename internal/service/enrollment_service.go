package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ccrm/internal/models"
	appErrors "github.com/noah-isme/ccrm/pkg/errors"
)

// DefaultMaxCreditsPerSemester applies when no positive limit is configured.
const DefaultMaxCreditsPerSemester = 20

// Rejection reasons reported to observers and logs.
const (
	RejectStudentNotFound = "student_not_found"
	RejectCourseNotFound  = "course_not_found"
	RejectDuplicate       = "duplicate"
	RejectCreditLimit     = "credit_limit"
)

type studentLookup interface {
	FindByID(ctx context.Context, id string) (*models.Student, bool)
}

type courseLookup interface {
	FindByCode(ctx context.Context, code string) (*models.Course, bool)
}

type enrollmentLedger interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindActive(ctx context.Context, studentID, courseCode string, semester models.Semester) (*models.Enrollment, bool)
	FindActiveUngraded(ctx context.Context, studentID, courseCode string, semester models.Semester) (*models.Enrollment, bool)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	List(ctx context.Context, filter models.EnrollmentFilter) []models.Enrollment
	ReplaceAll(ctx context.Context, records []models.Enrollment)
}

// LedgerObserver receives ledger events, typically to feed metrics.
type LedgerObserver interface {
	EnrollmentRecorded(semester models.Semester)
	EnrollmentRejected(reason string)
	Unenrolled()
	GradeRecorded(grade models.Grade)
}

type noopObserver struct{}

func (noopObserver) EnrollmentRecorded(models.Semester) {}
func (noopObserver) EnrollmentRejected(string)          {}
func (noopObserver) Unenrolled()                        {}
func (noopObserver) GradeRecorded(models.Grade)         {}

// EnrollmentOption customises an EnrollmentService.
type EnrollmentOption func(*EnrollmentService)

// WithClock overrides the clock used to date new enrollments.
func WithClock(now func() time.Time) EnrollmentOption {
	return func(s *EnrollmentService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithObserver attaches an observer for ledger events.
func WithObserver(observer LedgerObserver) EnrollmentOption {
	return func(s *EnrollmentService) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// EnrollmentService applies the ledger rules: uniqueness per
// (student, course, semester), the per-semester credit cap and grading.
// Every mutation runs under one lock so check-then-insert is atomic.
type EnrollmentService struct {
	mu         sync.Mutex
	students   studentLookup
	courses    courseLookup
	ledger     enrollmentLedger
	maxCredits int
	now        func() time.Time
	observer   LedgerObserver
	logger     *zap.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(students studentLookup, courses courseLookup, ledger enrollmentLedger, maxCredits int, logger *zap.Logger, opts ...EnrollmentOption) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxCredits <= 0 {
		maxCredits = DefaultMaxCreditsPerSemester
	}
	svc := &EnrollmentService{
		students:   students,
		courses:    courses,
		ledger:     ledger,
		maxCredits: maxCredits,
		now:        func() time.Time { return time.Now().UTC() },
		observer:   noopObserver{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// MaxCredits returns the configured per-semester limit.
func (s *EnrollmentService) MaxCredits() int {
	return s.maxCredits
}

// Enroll registers a student to a course for a semester.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseCode string, semester models.Semester) (*models.Enrollment, error) {
	code := normalizeCode(courseCode)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students.FindByID(ctx, studentID); !ok {
		s.reject(studentID, code, semester, RejectStudentNotFound)
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found: "+studentID)
	}
	course, ok := s.courses.FindByCode(ctx, code)
	if !ok {
		s.reject(studentID, code, semester, RejectCourseNotFound)
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found: "+code)
	}
	if _, exists := s.ledger.FindActive(ctx, studentID, code, semester); exists {
		s.reject(studentID, code, semester, RejectDuplicate)
		return nil, &appErrors.DuplicateEnrollmentError{StudentID: studentID, CourseCode: code, Semester: semester.DisplayName()}
	}
	current := s.creditLoad(ctx, studentID, semester)
	if current+course.Credits() > s.maxCredits {
		s.reject(studentID, code, semester, RejectCreditLimit)
		return nil, &appErrors.CreditLimitError{StudentID: studentID, Current: current, Attempted: course.Credits(), Limit: s.maxCredits}
	}

	enrollment := &models.Enrollment{
		StudentID:  studentID,
		CourseCode: code,
		Credits:    course.Credits(),
		Semester:   semester,
		EnrolledAt: s.now(),
		Status:     models.EnrollmentStatusActive,
	}
	if err := s.ledger.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to record enrollment")
	}
	s.observer.EnrollmentRecorded(semester)
	s.logger.Debug("student enrolled",
		zap.String("student_id", studentID),
		zap.String("course_code", code),
		zap.String("semester", string(semester)),
		zap.Int("credit_load", current+course.Credits()))
	out := *enrollment
	return &out, nil
}

func (s *EnrollmentService) reject(studentID, courseCode string, semester models.Semester, reason string) {
	s.observer.EnrollmentRejected(reason)
	s.logger.Info("enrollment rejected",
		zap.String("student_id", studentID),
		zap.String("course_code", courseCode),
		zap.String("semester", string(semester)),
		zap.String("reason", reason))
}

// Unenroll removes the first ungraded enrollment for the triple. Graded
// records stay on the transcript and report false.
func (s *EnrollmentService) Unenroll(ctx context.Context, studentID, courseCode string, semester models.Semester) (bool, error) {
	code := normalizeCode(courseCode)

	s.mu.Lock()
	defer s.mu.Unlock()

	enrollment, ok := s.ledger.FindActiveUngraded(ctx, studentID, code, semester)
	if !ok {
		return false, nil
	}
	enrollment.Status = models.EnrollmentStatusRemoved
	if err := s.ledger.Update(ctx, enrollment); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to unenroll")
	}
	s.observer.Unenrolled()
	return true, nil
}

// RecordGrade stores marks on the first non-removed enrollment for the triple
// and derives its grade. Re-grading overwrites the previous marks.
func (s *EnrollmentService) RecordGrade(ctx context.Context, studentID, courseCode string, semester models.Semester, marks float64) (bool, error) {
	code := normalizeCode(courseCode)

	s.mu.Lock()
	defer s.mu.Unlock()

	enrollment, ok := s.ledger.FindActive(ctx, studentID, code, semester)
	if !ok {
		return false, nil
	}
	enrollment.SetMarks(marks)
	if err := s.ledger.Update(ctx, enrollment); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to record grade")
	}
	s.observer.GradeRecorded(enrollment.Grade)
	s.logger.Debug("grade recorded",
		zap.String("student_id", studentID),
		zap.String("course_code", code),
		zap.Float64("marks", marks),
		zap.String("grade", string(enrollment.Grade)))
	return true, nil
}

// CanEnroll reports whether the course fits under the student's credit limit.
// It does not check duplicates.
func (s *EnrollmentService) CanEnroll(ctx context.Context, studentID, courseCode string, semester models.Semester) bool {
	course, ok := s.courses.FindByCode(ctx, normalizeCode(courseCode))
	if !ok {
		return false
	}
	return s.creditLoad(ctx, studentID, semester)+course.Credits() <= s.maxCredits
}

// CreditLoad sums the current credits of the courses behind the student's
// ungraded enrollments for the semester. Records whose course no longer
// exists count 0.
func (s *EnrollmentService) CreditLoad(ctx context.Context, studentID string, semester models.Semester) int {
	return s.creditLoad(ctx, studentID, semester)
}

func (s *EnrollmentService) creditLoad(ctx context.Context, studentID string, semester models.Semester) int {
	total := 0
	for _, e := range s.ledger.List(ctx, models.EnrollmentFilter{StudentID: studentID, Semester: semester}) {
		if e.IsActive() && !e.IsCompleted() {
			total += s.courseCredits(ctx, e.CourseCode)
		}
	}
	return total
}

func (s *EnrollmentService) courseCredits(ctx context.Context, code string) int {
	course, ok := s.courses.FindByCode(ctx, code)
	if !ok {
		return 0
	}
	return course.Credits()
}

// recordCredits prefers the course's current credits and falls back to the
// value copied at enrollment when the course is gone.
func recordCredits(ctx context.Context, courses courseLookup, e models.Enrollment) int {
	if course, ok := courses.FindByCode(ctx, e.CourseCode); ok {
		return course.Credits()
	}
	return e.Credits
}

// GPA averages grade points over graded enrollments; 0 when none are graded.
func (s *EnrollmentService) GPA(ctx context.Context, studentID string) float64 {
	return gpaOf(s.ledger.List(ctx, models.EnrollmentFilter{StudentID: studentID}))
}

func gpaOf(records []models.Enrollment) float64 {
	total := 0.0
	graded := 0
	for _, e := range records {
		if e.IsActive() && e.IsCompleted() {
			total += e.Grade.Points()
			graded++
		}
	}
	if graded == 0 {
		return 0
	}
	return total / float64(graded)
}

// StudentStats summarises the student's non-removed enrollments.
func (s *EnrollmentService) StudentStats(ctx context.Context, studentID string) models.StudentStats {
	records := s.ForStudent(ctx, studentID)
	stats := models.StudentStats{StudentID: studentID, TotalEnrollments: len(records), GPA: gpaOf(records)}
	for _, e := range records {
		if e.IsCompleted() && e.Grade != models.GradeF {
			stats.CompletedCredits += recordCredits(ctx, s.courses, e)
		}
	}
	return stats
}

// ForStudent lists the student's non-removed enrollments in insertion order.
func (s *EnrollmentService) ForStudent(ctx context.Context, studentID string) []models.Enrollment {
	return activeOnly(s.ledger.List(ctx, models.EnrollmentFilter{StudentID: studentID}))
}

// ForCourse lists the course's non-removed enrollments in insertion order.
func (s *EnrollmentService) ForCourse(ctx context.Context, courseCode string) []models.Enrollment {
	return activeOnly(s.ledger.List(ctx, models.EnrollmentFilter{CourseCode: normalizeCode(courseCode)}))
}

// ForSemester lists the semester's non-removed enrollments in insertion order.
func (s *EnrollmentService) ForSemester(ctx context.Context, semester models.Semester) []models.Enrollment {
	return activeOnly(s.ledger.List(ctx, models.EnrollmentFilter{Semester: semester}))
}

// List returns every record matching filter, removed ones included.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) []models.Enrollment {
	if filter.CourseCode != "" {
		filter.CourseCode = normalizeCode(filter.CourseCode)
	}
	return s.ledger.List(ctx, filter)
}

// Restore replaces the whole ledger with records. swapCatalog runs first inside
// the same critical section; when it fails the ledger is left untouched.
func (s *EnrollmentService) Restore(ctx context.Context, records []models.Enrollment, swapCatalog func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if swapCatalog != nil {
		if err := swapCatalog(); err != nil {
			return err
		}
	}
	s.ledger.ReplaceAll(ctx, records)
	s.logger.Debug("ledger restored", zap.Int("enrollments", len(records)))
	return nil
}

func activeOnly(records []models.Enrollment) []models.Enrollment {
	out := records[:0]
	for _, e := range records {
		if e.IsActive() {
			out = append(out, e)
		}
	}
	return out
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
