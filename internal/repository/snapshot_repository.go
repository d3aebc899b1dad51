package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ccrm/internal/models"
)

// SnapshotRepository stores and restores full snapshots in a SQL database.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository constructs the repository.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

var snapshotSchema = []string{
	`CREATE TABLE IF NOT EXISTS students (
        id TEXT PRIMARY KEY,
        seq INTEGER NOT NULL,
        reg_no TEXT NOT NULL UNIQUE,
        first_name TEXT NOT NULL,
        middle_name TEXT NOT NULL,
        last_name TEXT NOT NULL,
        email TEXT NOT NULL,
        status TEXT NOT NULL,
        active BOOLEAN NOT NULL,
        created_at TIMESTAMP NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS instructors (
        id TEXT PRIMARY KEY,
        seq INTEGER NOT NULL,
        first_name TEXT NOT NULL,
        middle_name TEXT NOT NULL,
        last_name TEXT NOT NULL,
        email TEXT NOT NULL,
        department TEXT NOT NULL,
        designation TEXT NOT NULL,
        active BOOLEAN NOT NULL,
        created_at TIMESTAMP NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS courses (
        code TEXT PRIMARY KEY,
        seq INTEGER NOT NULL,
        title TEXT NOT NULL,
        credits INTEGER NOT NULL,
        department TEXT NOT NULL,
        semester TEXT NOT NULL,
        instructor_id TEXT NOT NULL,
        prerequisites TEXT NOT NULL,
        max_enrollment INTEGER NOT NULL,
        active BOOLEAN NOT NULL,
        created_at TIMESTAMP NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
        id TEXT PRIMARY KEY,
        seq INTEGER NOT NULL,
        student_id TEXT NOT NULL,
        course_code TEXT NOT NULL,
        credits INTEGER NOT NULL,
        semester TEXT NOT NULL,
        enrolled_at TIMESTAMP NOT NULL,
        marks REAL NOT NULL,
        grade TEXT NOT NULL,
        status TEXT NOT NULL)`,
}

type studentRow struct {
	ID         string    `db:"id"`
	Seq        int       `db:"seq"`
	RegNo      string    `db:"reg_no"`
	FirstName  string    `db:"first_name"`
	MiddleName string    `db:"middle_name"`
	LastName   string    `db:"last_name"`
	Email      string    `db:"email"`
	Status     string    `db:"status"`
	Active     bool      `db:"active"`
	CreatedAt  time.Time `db:"created_at"`
}

type instructorRow struct {
	ID          string    `db:"id"`
	Seq         int       `db:"seq"`
	FirstName   string    `db:"first_name"`
	MiddleName  string    `db:"middle_name"`
	LastName    string    `db:"last_name"`
	Email       string    `db:"email"`
	Department  string    `db:"department"`
	Designation string    `db:"designation"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
}

type courseRow struct {
	Code          string    `db:"code"`
	Seq           int       `db:"seq"`
	Title         string    `db:"title"`
	Credits       int       `db:"credits"`
	Department    string    `db:"department"`
	Semester      string    `db:"semester"`
	InstructorID  string    `db:"instructor_id"`
	Prerequisites string    `db:"prerequisites"`
	MaxEnrollment int       `db:"max_enrollment"`
	Active        bool      `db:"active"`
	CreatedAt     time.Time `db:"created_at"`
}

type enrollmentRow struct {
	models.Enrollment
	Seq int `db:"seq"`
}

// EnsureSchema creates the snapshot tables when missing.
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range snapshotSchema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure snapshot schema: %w", err)
		}
	}
	return nil
}

// Save replaces every stored row with the snapshot inside one transaction.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot models.Snapshot) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"enrollments", "courses", "instructors", "students"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	const insertStudent = `INSERT INTO students (id, seq, reg_no, first_name, middle_name, last_name, email, status, active, created_at)
        VALUES (:id, :seq, :reg_no, :first_name, :middle_name, :last_name, :email, :status, :active, :created_at)`
	for seq, s := range snapshot.Students {
		row := studentRow{ID: s.ID, Seq: seq, RegNo: s.RegNo, FirstName: s.Name.First, MiddleName: s.Name.Middle, LastName: s.Name.Last,
			Email: s.Email, Status: string(s.Status), Active: s.Active, CreatedAt: s.CreatedAt}
		if _, err = tx.NamedExecContext(ctx, insertStudent, row); err != nil {
			return fmt.Errorf("insert student %s: %w", s.ID, err)
		}
	}

	const insertInstructor = `INSERT INTO instructors (id, seq, first_name, middle_name, last_name, email, department, designation, active, created_at)
        VALUES (:id, :seq, :first_name, :middle_name, :last_name, :email, :department, :designation, :active, :created_at)`
	for seq, i := range snapshot.Instructors {
		row := instructorRow{ID: i.ID, Seq: seq, FirstName: i.Name.First, MiddleName: i.Name.Middle, LastName: i.Name.Last, Email: i.Email,
			Department: i.Department, Designation: i.Designation, Active: i.Active, CreatedAt: i.CreatedAt}
		if _, err = tx.NamedExecContext(ctx, insertInstructor, row); err != nil {
			return fmt.Errorf("insert instructor %s: %w", i.ID, err)
		}
	}

	const insertCourse = `INSERT INTO courses (code, seq, title, credits, department, semester, instructor_id, prerequisites, max_enrollment, active, created_at)
        VALUES (:code, :seq, :title, :credits, :department, :semester, :instructor_id, :prerequisites, :max_enrollment, :active, :created_at)`
	for seq, c := range snapshot.Courses {
		row := courseRow{Code: c.Code(), Seq: seq, Title: c.Title(), Credits: c.Credits(), Department: c.Department(), Semester: string(c.Semester()),
			InstructorID: c.InstructorID(), Prerequisites: strings.Join(c.Prerequisites(), ","), MaxEnrollment: c.MaxEnrollment(),
			Active: c.Active(), CreatedAt: c.CreatedAt()}
		if _, err = tx.NamedExecContext(ctx, insertCourse, row); err != nil {
			return fmt.Errorf("insert course %s: %w", c.Code(), err)
		}
	}

	const insertEnrollment = `INSERT INTO enrollments (id, seq, student_id, course_code, credits, semester, enrolled_at, marks, grade, status)
        VALUES (:id, :seq, :student_id, :course_code, :credits, :semester, :enrolled_at, :marks, :grade, :status)`
	for seq, e := range snapshot.Enrollments {
		if _, err = tx.NamedExecContext(ctx, insertEnrollment, enrollmentRow{Enrollment: e, Seq: seq}); err != nil {
			return fmt.Errorf("insert enrollment %s: %w", e.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot. Every table comes back in the order it was saved.
func (r *SnapshotRepository) Load(ctx context.Context) (models.Snapshot, error) {
	var snapshot models.Snapshot

	var students []studentRow
	if err := r.db.SelectContext(ctx, &students, `SELECT id, reg_no, first_name, middle_name, last_name, email, status, active, created_at FROM students ORDER BY seq`); err != nil {
		return snapshot, fmt.Errorf("load students: %w", err)
	}
	for _, row := range students {
		s := models.NewStudent(row.ID, row.RegNo, models.NewName(row.FirstName, row.MiddleName, row.LastName), row.Email)
		s.Status = models.StudentStatus(row.Status)
		s.Active = row.Active
		s.CreatedAt = row.CreatedAt
		snapshot.Students = append(snapshot.Students, *s)
	}

	var instructors []instructorRow
	if err := r.db.SelectContext(ctx, &instructors, `SELECT id, first_name, middle_name, last_name, email, department, designation, active, created_at FROM instructors ORDER BY seq`); err != nil {
		return snapshot, fmt.Errorf("load instructors: %w", err)
	}
	for _, row := range instructors {
		i := models.NewInstructor(row.ID, models.NewName(row.FirstName, row.MiddleName, row.LastName), row.Email, row.Department, row.Designation)
		i.Active = row.Active
		i.CreatedAt = row.CreatedAt
		snapshot.Instructors = append(snapshot.Instructors, *i)
	}

	var courses []courseRow
	if err := r.db.SelectContext(ctx, &courses, `SELECT code, title, credits, department, semester, instructor_id, prerequisites, max_enrollment, active, created_at FROM courses ORDER BY seq`); err != nil {
		return snapshot, fmt.Errorf("load courses: %w", err)
	}
	for _, row := range courses {
		builder := models.NewCourseBuilder(row.Code, row.Title, row.Credits).
			Department(row.Department).
			Semester(models.Semester(row.Semester)).
			Instructor(row.InstructorID).
			MaxEnrollment(row.MaxEnrollment).
			Active(row.Active).
			CreatedAt(row.CreatedAt)
		if row.Prerequisites != "" {
			builder.Prerequisites(strings.Split(row.Prerequisites, ",")...)
		}
		course, err := builder.Build()
		if err != nil {
			return snapshot, fmt.Errorf("restore course %s: %w", row.Code, err)
		}
		snapshot.Courses = append(snapshot.Courses, course)
	}

	if err := r.db.SelectContext(ctx, &snapshot.Enrollments, `SELECT id, student_id, course_code, credits, semester, enrolled_at, marks, grade, status FROM enrollments ORDER BY seq`); err != nil {
		return snapshot, fmt.Errorf("load enrollments: %w", err)
	}
	return snapshot, nil
}
