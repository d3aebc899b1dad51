package service

import (
	"context"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ccrm/internal/models"
	appErrors "github.com/noah-isme/ccrm/pkg/errors"
)

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByCode(ctx context.Context, code string) (*models.Course, bool)
	Update(ctx context.Context, course *models.Course) error
	Search(ctx context.Context, match func(*models.Course) bool) []*models.Course
}

type instructorLookup interface {
	FindByID(ctx context.Context, id string) (*models.Instructor, bool)
}

// CreateCourseRequest holds input for adding a course to the catalog.
type CreateCourseRequest struct {
	Code          string   `json:"code" validate:"required,course_code"`
	Title         string   `json:"title" validate:"required"`
	Credits       int      `json:"credits" validate:"gte=1,lte=6"`
	Department    string   `json:"department"`
	Semester      string   `json:"semester" validate:"omitempty,semester"`
	InstructorID  string   `json:"instructor_id"`
	Prerequisites []string `json:"prerequisites" validate:"dive,course_code"`
	MaxEnrollment int      `json:"max_enrollment" validate:"omitempty,gte=1"`
}

// UpdateCourseRequest holds optional course changes; nil fields are left unchanged.
type UpdateCourseRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1"`
	Credits       *int    `json:"credits" validate:"omitempty,gte=1,lte=6"`
	Department    *string `json:"department"`
	Semester      *string `json:"semester" validate:"omitempty,semester"`
	MaxEnrollment *int    `json:"max_enrollment" validate:"omitempty,gte=1"`
	Active        *bool   `json:"active"`
}

// CourseService handles catalog use-cases for courses.
type CourseService struct {
	repo        courseRepository
	instructors instructorLookup
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, instructors instructorLookup, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerCatalogValidations(validate)
	return &CourseService{repo: repo, instructors: instructors, validator: validate, logger: logger}
}

// Create builds and stores a course.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	req.Code = strings.TrimSpace(req.Code)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	builder := models.NewCourseBuilder(req.Code, strings.TrimSpace(req.Title), req.Credits).
		Department(strings.TrimSpace(req.Department)).
		Prerequisites(req.Prerequisites...)
	if req.Semester != "" {
		semester, _ := models.ParseSemester(req.Semester)
		builder.Semester(semester)
	}
	if req.InstructorID != "" {
		if _, ok := s.instructors.FindByID(ctx, req.InstructorID); !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found: "+req.InstructorID)
		}
		builder.Instructor(req.InstructorID)
	}
	if req.MaxEnrollment > 0 {
		builder.MaxEnrollment(req.MaxEnrollment)
	}
	course, err := builder.Build()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, err
	}
	s.logger.Info("course created", zap.String("course_code", course.Code()), zap.Int("credits", course.Credits()))
	return course, nil
}

// Get returns a course by code, case-insensitively.
func (s *CourseService) Get(ctx context.Context, code string) (*models.Course, error) {
	normalized := normalizeCode(code)
	course, ok := s.repo.FindByCode(ctx, normalized)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found: "+normalized)
	}
	return course, nil
}

// Update applies the non-nil fields of req.
func (s *CourseService) Update(ctx context.Context, code string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	course, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		course.SetTitle(strings.TrimSpace(*req.Title))
	}
	if req.Credits != nil {
		if err := course.SetCredits(*req.Credits); err != nil {
			return nil, err
		}
	}
	if req.Department != nil {
		course.SetDepartment(strings.TrimSpace(*req.Department))
	}
	if req.Semester != nil {
		semester, _ := models.ParseSemester(*req.Semester)
		course.SetSemester(semester)
	}
	if req.MaxEnrollment != nil {
		course.SetMaxEnrollment(*req.MaxEnrollment)
	}
	if req.Active != nil {
		course.SetActive(*req.Active)
	}
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Deactivate hides the course from active listings.
func (s *CourseService) Deactivate(ctx context.Context, code string) error {
	inactive := false
	_, err := s.Update(ctx, code, UpdateCourseRequest{Active: &inactive})
	return err
}

// AssignInstructor sets the course instructor after checking it exists.
func (s *CourseService) AssignInstructor(ctx context.Context, code, instructorID string) (*models.Course, error) {
	course, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if _, ok := s.instructors.FindByID(ctx, instructorID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found: "+instructorID)
	}
	course.SetInstructor(instructorID)
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}
	s.logger.Info("instructor assigned", zap.String("course_code", course.Code()), zap.String("instructor_id", instructorID))
	return course, nil
}

// List returns courses matching filter sorted by code.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) []*models.Course {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	courses := s.repo.Search(ctx, func(c *models.Course) bool {
		if filter.Department != "" && !strings.EqualFold(c.Department(), filter.Department) {
			return false
		}
		if filter.Semester != "" && c.Semester() != filter.Semester {
			return false
		}
		if filter.InstructorID != "" && c.InstructorID() != filter.InstructorID {
			return false
		}
		if filter.Active != nil && c.Active() != *filter.Active {
			return false
		}
		if search != "" &&
			!strings.HasPrefix(strings.ToLower(c.Code()), search) &&
			!strings.Contains(strings.ToLower(c.Title()), search) {
			return false
		}
		return true
	})
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].Code() < courses[j].Code() })
	return courses
}

// ListActive returns active courses sorted by code.
func (s *CourseService) ListActive(ctx context.Context) []*models.Course {
	active := true
	return s.List(ctx, models.CourseFilter{Active: &active})
}

// ByDepartment matches the department case-insensitively.
func (s *CourseService) ByDepartment(ctx context.Context, department string) []*models.Course {
	return s.List(ctx, models.CourseFilter{Department: strings.TrimSpace(department)})
}

func (s *CourseService) BySemester(ctx context.Context, semester models.Semester) []*models.Course {
	return s.List(ctx, models.CourseFilter{Semester: semester})
}

func (s *CourseService) ByInstructor(ctx context.Context, instructorID string) []*models.Course {
	return s.List(ctx, models.CourseFilter{InstructorID: instructorID})
}

// Search matches a code prefix or a title substring, case-insensitively.
func (s *CourseService) Search(ctx context.Context, term string) []*models.Course {
	return s.List(ctx, models.CourseFilter{Search: term})
}

// All returns every course in insertion order.
func (s *CourseService) All(ctx context.Context) []*models.Course {
	return s.repo.Search(ctx, nil)
}
