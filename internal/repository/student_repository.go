package repository

import (
	"context"
	"sync"

	"github.com/noah-isme/ccrm/internal/models"
	appErrors "github.com/noah-isme/ccrm/pkg/errors"
)

// StudentRepository keeps students indexed by id and registration number.
type StudentRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.Student
	byRegNo map[string]string
	order   []string
}

// NewStudentRepository constructs an empty store.
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{byID: make(map[string]*models.Student), byRegNo: make(map[string]string)}
}

// Create inserts a student under both keys.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[student.ID]; ok {
		return appErrors.Clone(appErrors.ErrDuplicateKey, "student with id "+student.ID+" already exists")
	}
	if _, ok := r.byRegNo[student.RegNo]; ok {
		return appErrors.Clone(appErrors.ErrDuplicateKey, "student with reg no "+student.RegNo+" already exists")
	}
	stored := *student
	r.byID[student.ID] = &stored
	r.byRegNo[student.RegNo] = student.ID
	r.order = append(r.order, student.ID)
	return nil
}

// FindByID returns a copy of the student.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	out := *s
	return &out, true
}

// FindByRegNo returns a copy of the student with the registration number.
func (r *StudentRepository) FindByRegNo(ctx context.Context, regNo string) (*models.Student, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byRegNo[regNo]
	if !ok {
		return nil, false
	}
	out := *r.byID[id]
	return &out, true
}

// Update replaces an existing student and re-points the registration index.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[student.ID]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found: "+student.ID)
	}
	if owner, taken := r.byRegNo[student.RegNo]; taken && owner != student.ID {
		return appErrors.Clone(appErrors.ErrDuplicateKey, "student with reg no "+student.RegNo+" already exists")
	}
	delete(r.byRegNo, current.RegNo)
	stored := *student
	r.byID[student.ID] = &stored
	r.byRegNo[student.RegNo] = student.ID
	return nil
}

// Delete removes the student; enrollments referencing it are left untouched.
func (r *StudentRepository) Delete(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)
	delete(r.byRegNo, s.RegNo)
	r.order = removeKey(r.order, id)
	return true
}

// FindAll returns copies in insertion order.
func (r *StudentRepository) FindAll(ctx context.Context) []models.Student {
	return r.Search(ctx, nil)
}

// Search returns copies of the students accepted by match, in insertion order.
// A nil match accepts everything.
func (r *StudentRepository) Search(ctx context.Context, match func(models.Student) bool) []models.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Student, 0, len(r.order))
	for _, id := range r.order {
		s := *r.byID[id]
		if match == nil || match(s) {
			out = append(out, s)
		}
	}
	return out
}

// Count returns the number of stored students.
func (r *StudentRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func removeKey(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i:i], keys[i+1:]...)
		}
	}
	return keys
}

// ReplaceAll swaps every stored student for the given ones, keeping their
// order. Nothing changes when the input repeats an id or registration number.
func (r *StudentRepository) ReplaceAll(ctx context.Context, students []models.Student) error {
	byID := make(map[string]*models.Student, len(students))
	byRegNo := make(map[string]string, len(students))
	order := make([]string, 0, len(students))
	for i := range students {
		s := students[i]
		if _, ok := byID[s.ID]; ok {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "student with id "+s.ID+" already exists")
		}
		if _, ok := byRegNo[s.RegNo]; ok {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "student with reg no "+s.RegNo+" already exists")
		}
		byID[s.ID] = &s
		byRegNo[s.RegNo] = s.ID
		order = append(order, s.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID, r.byRegNo, r.order = byID, byRegNo, order
	return nil
}
