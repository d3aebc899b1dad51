package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ccrm/internal/models"
	appErrors "github.com/noah-isme/ccrm/pkg/errors"
)

type snapshotStore interface {
	EnsureSchema(ctx context.Context) error
	Save(ctx context.Context, snapshot models.Snapshot) error
	Load(ctx context.Context) (models.Snapshot, error)
}

type studentState interface {
	FindAll(ctx context.Context) []models.Student
	ReplaceAll(ctx context.Context, students []models.Student) error
}

type courseState interface {
	FindAll(ctx context.Context) []*models.Course
	ReplaceAll(ctx context.Context, courses []*models.Course) error
}

type instructorState interface {
	FindAll(ctx context.Context) []models.Instructor
	ReplaceAll(ctx context.Context, instructors []models.Instructor) error
}

type ledgerState interface {
	List(ctx context.Context, filter models.EnrollmentFilter) []models.Enrollment
	Restore(ctx context.Context, records []models.Enrollment, swapCatalog func() error) error
}

// SnapshotService copies the in-memory catalog and ledger to and from SQL.
type SnapshotService struct {
	store       snapshotStore
	students    studentState
	courses     courseState
	instructors instructorState
	ledger      ledgerState
	metrics     operationObserver
	logger      *zap.Logger
}

// NewSnapshotService constructs the snapshot service.
func NewSnapshotService(store snapshotStore, students studentState, courses courseState, instructors instructorState, ledger ledgerState, metrics operationObserver, logger *zap.Logger) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotService{
		store:       store,
		students:    students,
		courses:     courses,
		instructors: instructors,
		ledger:      ledger,
		metrics:     metrics,
		logger:      logger,
	}
}

func (s *SnapshotService) observe(operation string, started time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(operation, time.Since(started))
	}
}

// Save replaces the stored snapshot with the current state.
func (s *SnapshotService) Save(ctx context.Context) (models.Snapshot, error) {
	defer s.observe("snapshot_save", time.Now())
	snapshot := models.Snapshot{
		Students:    s.students.FindAll(ctx),
		Instructors: s.instructors.FindAll(ctx),
		Courses:     s.courses.FindAll(ctx),
		Enrollments: s.ledger.List(ctx, models.EnrollmentFilter{}),
	}
	if err := s.store.EnsureSchema(ctx); err != nil {
		return snapshot, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to prepare snapshot schema")
	}
	if err := s.store.Save(ctx, snapshot); err != nil {
		return snapshot, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to save snapshot")
	}
	s.logger.Info("snapshot saved",
		zap.Int("students", len(snapshot.Students)),
		zap.Int("courses", len(snapshot.Courses)),
		zap.Int("enrollments", len(snapshot.Enrollments)))
	return snapshot, nil
}

// Load replaces the in-memory state with the stored snapshot. The snapshot is
// checked first and nothing changes when it is inconsistent; the swap itself
// runs under the ledger lock.
func (s *SnapshotService) Load(ctx context.Context) (models.Snapshot, error) {
	defer s.observe("snapshot_load", time.Now())
	if err := s.store.EnsureSchema(ctx); err != nil {
		return models.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to prepare snapshot schema")
	}
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return models.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to load snapshot")
	}
	if err := validateSnapshot(snapshot); err != nil {
		return snapshot, err
	}
	err = s.ledger.Restore(ctx, snapshot.Enrollments, func() error {
		if err := s.students.ReplaceAll(ctx, snapshot.Students); err != nil {
			return err
		}
		if err := s.instructors.ReplaceAll(ctx, snapshot.Instructors); err != nil {
			return err
		}
		return s.courses.ReplaceAll(ctx, snapshot.Courses)
	})
	if err != nil {
		return snapshot, err
	}
	s.logger.Info("snapshot loaded",
		zap.Int("students", len(snapshot.Students)),
		zap.Int("courses", len(snapshot.Courses)),
		zap.Int("enrollments", len(snapshot.Enrollments)))
	return snapshot, nil
}

// validateSnapshot rejects snapshots the stores would refuse, so a restore
// never stops half way.
func validateSnapshot(snapshot models.Snapshot) error {
	ids := make(map[string]struct{}, len(snapshot.Students))
	regNos := make(map[string]struct{}, len(snapshot.Students))
	for _, st := range snapshot.Students {
		if _, ok := ids[st.ID]; ok {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "snapshot repeats student id "+st.ID)
		}
		if _, ok := regNos[st.RegNo]; ok {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "snapshot repeats student reg no "+st.RegNo)
		}
		ids[st.ID] = struct{}{}
		regNos[st.RegNo] = struct{}{}
	}

	instructors := make(map[string]struct{}, len(snapshot.Instructors))
	for _, in := range snapshot.Instructors {
		if _, ok := instructors[in.ID]; ok {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "snapshot repeats instructor id "+in.ID)
		}
		instructors[in.ID] = struct{}{}
	}

	codes := make(map[string]struct{}, len(snapshot.Courses))
	for _, c := range snapshot.Courses {
		if c == nil {
			return appErrors.Clone(appErrors.ErrInvalidConstruction, "snapshot contains an empty course")
		}
		if _, ok := codes[c.Code()]; ok {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "snapshot repeats course code "+c.Code())
		}
		codes[c.Code()] = struct{}{}
	}
	return nil
}
