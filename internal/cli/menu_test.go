package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ccrm/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	return &config.Config{
		Env:        config.EnvDevelopment,
		AppName:    "Campus Course & Records Manager",
		AppVersion: "1.0",
		DateFormat: "2006-01-02",
		Paths: config.PathsConfig{
			DataDir:   filepath.Join(root, "data"),
			ExportDir: filepath.Join(root, "exports"),
			BackupDir: filepath.Join(root, "backups"),
		},
		Enrollment: config.EnrollmentConfig{MaxCreditsPerSemester: 20},
		Backup:     config.BackupConfig{Keep: 2},
		Reports:    config.ReportsConfig{Locale: "en"},
		SeedSample: true,
	}
}

func runMenu(t *testing.T, cfg *config.Config, lines ...string) string {
	t.Helper()
	deps, closeFn, err := Bootstrap(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer closeFn() //nolint:errcheck

	var out bytes.Buffer
	menu := New(deps, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, nil)
	require.NoError(t, menu.Run(context.Background()))
	return out.String()
}

func TestMenuEnrollAndGrade(t *testing.T) {
	out := runMenu(t, testConfig(t),
		"3", "1", "S003", "cs101", "3",
		"4", "1", "S003", "CS101", "FALL", "78",
		"4", "2", "S003",
		"9",
	)

	assert.Contains(t, out, "MAIN MENU")
	assert.Contains(t, out, "✓ Student enrolled successfully: S003 enrolled in CS101 (Fall)")
	assert.Contains(t, out, "✓ Grade recorded successfully: 78.00 (B (8.0))")
	assert.Contains(t, out, "CS101: 78.00 marks, Grade: B (8.0)")
	assert.Contains(t, out, "Thank you for using CCRM!")
}

func TestMenuReportsDomainErrors(t *testing.T) {
	out := runMenu(t, testConfig(t),
		"3", "1", "S001", "CS101", "3",
		"3", "1", "S404", "CS101", "3",
		"4", "1", "S001", "IT301", "3", "150",
		"1", "1", "S010", "2024CS010", "Ada", "", "Lovelace", "not-an-email",
		"9",
	)

	assert.Contains(t, out, "✗ Error [DUPLICATE_ENROLLMENT]: student S001 is already enrolled in course CS101 for Fall semester")
	assert.Contains(t, out, "✗ Error [NOT_FOUND]: student not found: S404")
	assert.Contains(t, out, "✗ Error [VALIDATION_ERROR]: invalid grade input")
	assert.Contains(t, out, "✗ Error [VALIDATION_ERROR]: invalid student payload")
	assert.Contains(t, out, "Thank you for using CCRM!")
}

func TestMenuRejectsMalformedEnrollmentInput(t *testing.T) {
	out := runMenu(t, testConfig(t),
		"3", "1", "student-1", "CS101", "3",
		"3", "2", "S001", "CS-101", "3",
		"3", "3", "S001",
		"9",
	)

	assert.Equal(t, 2, strings.Count(out, "✗ Error [VALIDATION_ERROR]: invalid enrollment input"))
	assert.NotContains(t, out, "Student unenrolled successfully.")
	assert.Contains(t, out, "S001 enrolled in CS101 (Fall)")
	assert.Contains(t, out, "Thank you for using CCRM!")
}

func TestMenuInvalidInputAndEOF(t *testing.T) {
	out := runMenu(t, testConfig(t), "abc", "42", "3", "7")

	assert.Equal(t, 2, strings.Count(out, "Invalid choice. Please try again."))
	assert.Contains(t, out, "Invalid choice.")
	assert.NotContains(t, out, "Thank you for using CCRM!")
}

func TestMenuStudentsAndReports(t *testing.T) {
	out := runMenu(t, testConfig(t),
		"1", "2",
		"1", "6", "S001",
		"5", "3",
		"5", "4",
		"5", "6",
		"8",
		"9",
	)

	assert.Contains(t, out, "Alice Johnson [S003] - Active")
	assert.Contains(t, out, "Total active students: 3")
	assert.Contains(t, out, "Registration No: 2023CS001")
	assert.Contains(t, out, "Excellent (9.0+): 2")
	assert.Contains(t, out, "Total: 4\nActive: 2\nCompleted: 2\nRemoved: 0")
	assert.Contains(t, out, "Enrollments: 4\nRejections: 0\nUnenrollments: 0\nGrades recorded: 2")
	assert.Contains(t, out, "=== Application Configuration ===")
	assert.Contains(t, out, "Max Credits/Semester: 20")
}

func TestMenuFileAndBackupOperations(t *testing.T) {
	cfg := testConfig(t)
	out := runMenu(t, cfg,
		"6", "3",
		"7", "1",
		"7", "2",
		"7", "4",
		"7", "7",
		"9",
	)

	assert.Contains(t, out, "✓ Exported "+cfg.Paths.ExportDir)
	assert.Contains(t, out, "students_")
	assert.Contains(t, out, "✓ Backup backup_")
	assert.Contains(t, out, "3 file(s)")
	assert.Contains(t, out, "Backups: 1")
	assert.Contains(t, out, "Database snapshots are disabled")
}

func TestMenuSnapshotRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	cfg.Snapshot = config.SnapshotConfig{
		Enabled: true,
		Driver:  "sqlite",
		DSN:     "file:" + filepath.Join(cfg.Paths.DataDir, "ccrm.db"),
	}
	out := runMenu(t, cfg,
		"7", "7",
		"3", "2", "S003", "IT301", "3",
		"7", "8",
		"3", "3", "S003",
		"9",
	)

	assert.Contains(t, out, "✓ Snapshot saved: 3 students, 3 courses, 4 enrollments")
	assert.Contains(t, out, "✓ Student unenrolled successfully.")
	assert.Contains(t, out, "✓ Snapshot loaded: 3 students, 3 courses, 4 enrollments")
	assert.Contains(t, out, "S003 enrolled in IT301 (Fall)")
}
