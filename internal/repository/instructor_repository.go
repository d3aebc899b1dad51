package repository

import (
	"context"
	"sync"

	"github.com/noah-isme/ccrm/internal/models"
	appErrors "github.com/noah-isme/ccrm/pkg/errors"
)

// InstructorRepository keeps instructors indexed by id.
type InstructorRepository struct {
	mu    sync.RWMutex
	byID  map[string]*models.Instructor
	order []string
}

// NewInstructorRepository constructs an empty store.
func NewInstructorRepository() *InstructorRepository {
	return &InstructorRepository{byID: make(map[string]*models.Instructor)}
}

func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[instructor.ID]; ok {
		return appErrors.Clone(appErrors.ErrDuplicateKey, "instructor with id "+instructor.ID+" already exists")
	}
	stored := *instructor
	r.byID[instructor.ID] = &stored
	r.order = append(r.order, instructor.ID)
	return nil
}

func (r *InstructorRepository) FindByID(ctx context.Context, id string) (*models.Instructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	out := *i
	return &out, true
}

func (r *InstructorRepository) Update(ctx context.Context, instructor *models.Instructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[instructor.ID]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "instructor not found: "+instructor.ID)
	}
	stored := *instructor
	r.byID[instructor.ID] = &stored
	return nil
}

func (r *InstructorRepository) Delete(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	r.order = removeKey(r.order, id)
	return true
}

func (r *InstructorRepository) FindAll(ctx context.Context) []models.Instructor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Instructor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out
}

// ReplaceAll swaps every stored instructor for the given ones, keeping their order.
func (r *InstructorRepository) ReplaceAll(ctx context.Context, instructors []models.Instructor) error {
	byID := make(map[string]*models.Instructor, len(instructors))
	order := make([]string, 0, len(instructors))
	for i := range instructors {
		in := instructors[i]
		if _, ok := byID[in.ID]; ok {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "instructor with id "+in.ID+" already exists")
		}
		byID[in.ID] = &in
		order = append(order, in.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID, r.order = byID, order
	return nil
}
