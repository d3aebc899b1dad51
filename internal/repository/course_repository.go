package repository

import (
	"context"
	"sync"

	"github.com/noah-isme/ccrm/internal/models"
	appErrors "github.com/noah-isme/ccrm/pkg/errors"
)

// CourseRepository keeps courses indexed by normalized code.
type CourseRepository struct {
	mu     sync.RWMutex
	byCode map[string]*models.Course
	order  []string
}

// NewCourseRepository constructs an empty store.
func NewCourseRepository() *CourseRepository {
	return &CourseRepository{byCode: make(map[string]*models.Course)}
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	code := course.Code()
	if _, ok := r.byCode[code]; ok {
		return appErrors.Clone(appErrors.ErrDuplicateKey, "course with code "+code+" already exists")
	}
	r.byCode[code] = course.Clone()
	r.order = append(r.order, code)
	return nil
}

// FindByCode returns a copy of the course. The code must already be normalized.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byCode[code]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// Update replaces an existing course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	code := course.Code()
	if _, ok := r.byCode[code]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found: "+code)
	}
	r.byCode[code] = course.Clone()
	return nil
}

// Delete removes the course; enrollments referencing it are left untouched.
func (r *CourseRepository) Delete(ctx context.Context, code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCode[code]; !ok {
		return false
	}
	delete(r.byCode, code)
	r.order = removeKey(r.order, code)
	return true
}

// FindAll returns copies in insertion order.
func (r *CourseRepository) FindAll(ctx context.Context) []*models.Course {
	return r.Search(ctx, nil)
}

// Search returns copies of the courses accepted by match, in insertion order.
func (r *CourseRepository) Search(ctx context.Context, match func(*models.Course) bool) []*models.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Course, 0, len(r.order))
	for _, code := range r.order {
		c := r.byCode[code].Clone()
		if match == nil || match(c) {
			out = append(out, c)
		}
	}
	return out
}

// Count returns the number of stored courses.
func (r *CourseRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byCode)
}

// ReplaceAll swaps every stored course for the given ones, keeping their order.
func (r *CourseRepository) ReplaceAll(ctx context.Context, courses []*models.Course) error {
	byCode := make(map[string]*models.Course, len(courses))
	order := make([]string, 0, len(courses))
	for _, c := range courses {
		if _, ok := byCode[c.Code()]; ok {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "course with code "+c.Code()+" already exists")
		}
		byCode[c.Code()] = c.Clone()
		order = append(order, c.Code())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byCode, r.order = byCode, order
	return nil
}
