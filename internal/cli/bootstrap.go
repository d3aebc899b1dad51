package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/ccrm/internal/repository"
	"github.com/noah-isme/ccrm/internal/service"
	"github.com/noah-isme/ccrm/pkg/config"
	"github.com/noah-isme/ccrm/pkg/database"
	"github.com/noah-isme/ccrm/pkg/storage"
)

// Bootstrap wires the repositories and services described by cfg. The
// returned close function releases the snapshot database, if one was opened.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Deps, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	noop := func() error { return nil }

	if cfg.Paths.DataDir != "" {
		if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
			return Deps{}, noop, fmt.Errorf("data dir: %w", err)
		}
	}

	students := repository.NewStudentRepository()
	courses := repository.NewCourseRepository()
	instructors := repository.NewInstructorRepository()
	ledger := repository.NewEnrollmentRepository()

	metrics := service.NewMetricsService()
	validate := service.NewValidator()

	deps := Deps{
		Config:      cfg,
		Students:    service.NewStudentService(students, validate, logger),
		Courses:     service.NewCourseService(courses, instructors, validate, logger),
		Instructors: service.NewInstructorService(instructors, courses, validate, logger),
		Enrollments: service.NewEnrollmentService(students, courses, ledger, cfg.Enrollment.MaxCreditsPerSemester, logger,
			service.WithObserver(metrics)),
		Reports: service.NewReportService(students, courses, instructors, ledger, cfg.Reports.Locale, logger),
		Metrics: metrics,
	}

	exportStore, err := storage.NewLocalStorage(cfg.Paths.ExportDir)
	if err != nil {
		return Deps{}, noop, fmt.Errorf("export dir: %w", err)
	}
	deps.Exports = service.NewExportService(deps.Students, deps.Courses, ledger, deps.Reports, exportStore, metrics,
		service.ExportConfig{DateFormat: cfg.DateFormat, Workers: cfg.Export.Workers}, logger, nil, nil)

	backupStore, err := storage.NewLocalStorage(cfg.Paths.BackupDir)
	if err != nil {
		return Deps{}, noop, fmt.Errorf("backup dir: %w", err)
	}
	deps.Backups = service.NewBackupService(backupStore, metrics,
		service.BackupConfig{SourceDir: exportStore.Root(), Keep: cfg.Backup.Keep}, logger)

	closeFn := noop
	if cfg.Snapshot.Enabled {
		var db *sqlx.DB
		db, err = database.Open(ctx, cfg.Snapshot)
		if err != nil {
			return Deps{}, noop, fmt.Errorf("open snapshot database: %w", err)
		}
		closeFn = db.Close
		deps.Snapshots = service.NewSnapshotService(repository.NewSnapshotRepository(db), students, courses, instructors, deps.Enrollments, metrics, logger)
	}

	if cfg.SeedSample {
		if err := service.SeedSampleData(ctx, deps.Students, deps.Courses, deps.Enrollments); err != nil {
			_ = closeFn()
			return Deps{}, noop, err
		}
		logger.Info("sample data initialized")
	}

	return deps, closeFn, nil
}
