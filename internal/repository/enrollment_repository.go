package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/ccrm/internal/models"
	appErrors "github.com/noah-isme/ccrm/pkg/errors"
)

// EnrollmentRepository is the insertion-ordered enrollment ledger.
type EnrollmentRepository struct {
	mu      sync.RWMutex
	records []models.Enrollment
}

// NewEnrollmentRepository constructs an empty ledger.
func NewEnrollmentRepository() *EnrollmentRepository {
	return &EnrollmentRepository{}
}

// Create appends a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusActive
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *enrollment)
	return nil
}

// FindActive returns the first non-removed record for the triple.
func (r *EnrollmentRepository) FindActive(ctx context.Context, studentID, courseCode string, semester models.Semester) (*models.Enrollment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.records {
		if e.IsActive() && e.Matches(studentID, courseCode, semester) {
			out := e
			return &out, true
		}
	}
	return nil, false
}

// FindActiveUngraded returns the first ACTIVE record for the triple that has no grade yet.
func (r *EnrollmentRepository) FindActiveUngraded(ctx context.Context, studentID, courseCode string, semester models.Semester) (*models.Enrollment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.records {
		if e.IsActive() && !e.IsCompleted() && e.Matches(studentID, courseCode, semester) {
			out := e
			return &out, true
		}
	}
	return nil, false
}

// Update replaces the record with the same ID.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == enrollment.ID {
			r.records[i] = *enrollment
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found: "+enrollment.ID)
}

// List returns a copy of the records matching filter in insertion order.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) []models.Enrollment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Enrollment, 0)
	for _, e := range r.records {
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseCode != "" && e.CourseCode != filter.CourseCode {
			continue
		}
		if filter.Semester != "" && e.Semester != filter.Semester {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ReplaceAll swaps the whole ledger, keeping the given order.
func (r *EnrollmentRepository) ReplaceAll(ctx context.Context, records []models.Enrollment) {
	copied := make([]models.Enrollment, len(records))
	copy(copied, records)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = copied
}

// Clear empties the ledger.
func (r *EnrollmentRepository) Clear(ctx context.Context) {
	r.ReplaceAll(ctx, nil)
}
