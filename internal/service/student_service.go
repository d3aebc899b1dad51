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

type studentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, id string) (*models.Student, bool)
	FindByRegNo(ctx context.Context, regNo string) (*models.Student, bool)
	Update(ctx context.Context, student *models.Student) error
	Search(ctx context.Context, match func(models.Student) bool) []models.Student
}

// CreateStudentRequest holds input for registering a student.
type CreateStudentRequest struct {
	ID         string `json:"id" validate:"required,student_id"`
	RegNo      string `json:"reg_no" validate:"required"`
	FirstName  string `json:"first_name" validate:"required"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email" validate:"required,email"`
}

// UpdateStudentRequest holds the mutable student fields. Empty fields are left unchanged.
type UpdateStudentRequest struct {
	Email  string `json:"email" validate:"omitempty,email"`
	Status string `json:"status" validate:"omitempty,student_status"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerCatalogValidations(validate)
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	req.ID = strings.TrimSpace(req.ID)
	req.RegNo = strings.TrimSpace(req.RegNo)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student := models.NewStudent(req.ID, req.RegNo, models.NewName(req.FirstName, req.MiddleName, req.LastName), req.Email)
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, err
	}
	s.logger.Info("student created", zap.String("student_id", student.ID), zap.String("reg_no", student.RegNo))
	return student, nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, ok := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found: "+id)
	}
	return student, nil
}

// GetByRegNo returns a student by registration number.
func (s *StudentService) GetByRegNo(ctx context.Context, regNo string) (*models.Student, error) {
	student, ok := s.repo.FindByRegNo(ctx, strings.TrimSpace(regNo))
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found with reg no: "+regNo)
	}
	return student, nil
}

// Update changes a student's email and/or status.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Status = strings.TrimSpace(req.Status)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Email != "" {
		student.Email = req.Email
	}
	if req.Status != "" {
		status, _ := models.ParseStudentStatus(req.Status)
		student.Status = status
	}
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Deactivate marks the student inactive without removing it.
func (s *StudentService) Deactivate(ctx context.Context, id string) error {
	student, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	student.Active = false
	student.Status = models.StudentStatusInactive
	if err := s.repo.Update(ctx, student); err != nil {
		return err
	}
	s.logger.Info("student deactivated", zap.String("student_id", student.ID))
	return nil
}

// List returns students matching filter, sorted by full name.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) []models.Student {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	students := s.repo.Search(ctx, func(st models.Student) bool {
		if filter.Status != "" && st.Status != filter.Status {
			return false
		}
		if filter.Active != nil && st.Active != *filter.Active {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(st.Name.FullName()), search) &&
			!strings.Contains(strings.ToLower(st.RegNo), search) {
			return false
		}
		return true
	})
	sort.SliceStable(students, func(i, j int) bool {
		return students[i].Name.FullName() < students[j].Name.FullName()
	})
	return students
}

// ListActive returns active students sorted by full name.
func (s *StudentService) ListActive(ctx context.Context) []models.Student {
	active := true
	return s.List(ctx, models.StudentFilter{Active: &active})
}

// ByStatus returns students with the given status sorted by full name.
func (s *StudentService) ByStatus(ctx context.Context, status models.StudentStatus) []models.Student {
	return s.List(ctx, models.StudentFilter{Status: status})
}

// Search matches a case-insensitive substring of the name or registration number.
func (s *StudentService) Search(ctx context.Context, term string) []models.Student {
	return s.List(ctx, models.StudentFilter{Search: term})
}

// All returns every student in insertion order.
func (s *StudentService) All(ctx context.Context) []models.Student {
	return s.repo.Search(ctx, nil)
}
