package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ccrm/internal/models"
	"github.com/noah-isme/ccrm/internal/service"
	"github.com/noah-isme/ccrm/pkg/config"
	"github.com/noah-isme/ccrm/pkg/response"
)

// Deps are the services the menu drives. Snapshots may be nil when the SQL
// snapshot adapter is disabled.
type Deps struct {
	Config      *config.Config
	Students    *service.StudentService
	Courses     *service.CourseService
	Instructors *service.InstructorService
	Enrollments *service.EnrollmentService
	Reports     *service.ReportService
	Exports     *service.ExportService
	Backups     *service.BackupService
	Snapshots   *service.SnapshotService
	Metrics     *service.MetricsService
}

// Menu is the interactive line-oriented front end.
type Menu struct {
	deps     Deps
	in       *bufio.Scanner
	out      io.Writer
	validate *validator.Validate
	logger   *zap.Logger
	eof      bool
}

// New builds a menu reading commands from in and writing to out.
func New(deps Deps, in io.Reader, out io.Writer, logger *zap.Logger) *Menu {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Menu{
		deps:     deps,
		in:       bufio.NewScanner(in),
		out:      out,
		validate: service.NewValidator(),
		logger:   logger,
	}
}

// Run shows the main menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	fmt.Fprintln(m.out, "Welcome to Campus Course & Records Manager!")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.printMainMenu()
		choice, ok := m.promptChoice("Enter your choice: ")
		if m.eof {
			return m.in.Err()
		}
		if !ok {
			response.Info(m.out, "Invalid choice. Please try again.")
			continue
		}
		switch choice {
		case 1:
			m.studentMenu(ctx)
		case 2:
			m.courseMenu(ctx)
		case 3:
			m.enrollmentMenu(ctx)
		case 4:
			m.gradeMenu(ctx)
		case 5:
			m.reportMenu(ctx)
		case 6:
			m.fileMenu(ctx)
		case 7:
			m.backupMenu(ctx)
		case 8:
			m.deps.Config.Print(m.out)
		case 9:
			response.Info(m.out, "Thank you for using CCRM!")
			return nil
		default:
			response.Info(m.out, "Invalid choice. Please try again.")
		}
	}
}

func (m *Menu) printMainMenu() {
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, rule)
	fmt.Fprintln(m.out, "           MAIN MENU")
	fmt.Fprintln(m.out, rule)
	m.printOptions(
		"Student Management",
		"Course Management",
		"Enrollment Management",
		"Grade Management",
		"Reports",
		"File Operations (Import/Export)",
		"Backup Operations",
		"Configuration",
		"Exit",
	)
	fmt.Fprintln(m.out, rule)
}

func (m *Menu) printOptions(options ...string) {
	for i, option := range options {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, option)
	}
}

// submenu prints a titled option list and reads one choice.
func (m *Menu) submenu(title string, options ...string) int {
	fmt.Fprintf(m.out, "\n--- %s ---\n", title)
	m.printOptions(options...)
	choice, ok := m.promptChoice("Enter your choice: ")
	if !ok || choice < 1 || choice > len(options) {
		if !m.eof {
			response.Info(m.out, "Invalid choice.")
		}
		return 0
	}
	return choice
}

func (m *Menu) prompt(label string) string {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		m.eof = true
		return ""
	}
	return strings.TrimSpace(m.in.Text())
}

func (m *Menu) promptChoice(label string) (int, bool) {
	n, err := strconv.Atoi(m.prompt(label))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (m *Menu) promptSemester() (models.Semester, bool) {
	raw := m.prompt("Select Semester (1-SPRING, 2-SUMMER, 3-FALL): ")
	if n, err := strconv.Atoi(raw); err == nil {
		if n >= 1 && n <= len(models.Semesters) {
			return models.Semesters[n-1], true
		}
		response.Info(m.out, "Invalid semester.")
		return "", false
	}
	semester, ok := models.ParseSemester(raw)
	if !ok {
		response.Info(m.out, "Invalid semester.")
	}
	return semester, ok
}

func (m *Menu) fail(operation string, err error) {
	m.logger.Debug("menu operation failed", zap.String("operation", operation), zap.Error(err))
	response.Error(m.out, err)
}
