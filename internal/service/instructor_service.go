package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ccrm/internal/models"
	appErrors "github.com/noah-isme/ccrm/pkg/errors"
)

type instructorRepository interface {
	Create(ctx context.Context, instructor *models.Instructor) error
	FindByID(ctx context.Context, id string) (*models.Instructor, bool)
	FindAll(ctx context.Context) []models.Instructor
}

type courseSearcher interface {
	Search(ctx context.Context, match func(*models.Course) bool) []*models.Course
}

// CreateInstructorRequest holds input for adding an instructor.
type CreateInstructorRequest struct {
	ID          string `json:"id" validate:"required"`
	FirstName   string `json:"first_name" validate:"required"`
	MiddleName  string `json:"middle_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email" validate:"required,email"`
	Department  string `json:"department" validate:"required"`
	Designation string `json:"designation" validate:"required"`
}

// InstructorDetail is an instructor with the number of courses assigned to them.
type InstructorDetail struct {
	Instructor  models.Instructor
	CourseCount int
}

// InstructorService handles instructor use-cases.
type InstructorService struct {
	repo      instructorRepository
	courses   courseSearcher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInstructorService constructs the instructor service.
func NewInstructorService(repo instructorRepository, courses courseSearcher, validate *validator.Validate, logger *zap.Logger) *InstructorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{repo: repo, courses: courses, validator: validate, logger: logger}
}

func (s *InstructorService) Create(ctx context.Context, req CreateInstructorRequest) (*models.Instructor, error) {
	req.ID = strings.TrimSpace(req.ID)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid instructor payload")
	}
	instructor := models.NewInstructor(req.ID, models.NewName(req.FirstName, req.MiddleName, req.LastName), req.Email,
		strings.TrimSpace(req.Department), strings.TrimSpace(req.Designation))
	if err := s.repo.Create(ctx, instructor); err != nil {
		return nil, err
	}
	s.logger.Info("instructor created", zap.String("instructor_id", instructor.ID))
	return instructor, nil
}

func (s *InstructorService) Get(ctx context.Context, id string) (*models.Instructor, error) {
	instructor, ok := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found: "+id)
	}
	return instructor, nil
}

// Detail returns the instructor together with its assigned course count.
func (s *InstructorService) Detail(ctx context.Context, id string) (*InstructorDetail, error) {
	instructor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	assigned := s.courses.Search(ctx, func(c *models.Course) bool { return c.InstructorID() == instructor.ID })
	return &InstructorDetail{Instructor: *instructor, CourseCount: len(assigned)}, nil
}

// List returns instructors matching filter in insertion order.
func (s *InstructorService) List(ctx context.Context, filter models.InstructorFilter) []models.Instructor {
	all := s.repo.FindAll(ctx)
	out := make([]models.Instructor, 0, len(all))
	for _, i := range all {
		if filter.Department != "" && !strings.EqualFold(i.Department, filter.Department) {
			continue
		}
		if filter.Active != nil && i.Active != *filter.Active {
			continue
		}
		out = append(out, i)
	}
	return out
}
