package repository

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ccrm/internal/models"
	"github.com/noah-isme/ccrm/pkg/config"
	"github.com/noah-isme/ccrm/pkg/database"
)

func newSnapshotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSnapshotRepositoryEnsureSchema(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	for _, table := range []string{"students", "instructors", "courses", "enrollments"} {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS " + table)).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, NewSnapshotRepository(db).EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositorySave(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	course, err := models.NewCourseBuilder("CS201", "Data Structures", 4).Prerequisite("CS101").Build()
	require.NoError(t, err)
	snapshot := models.Snapshot{
		Students:    []models.Student{*models.NewStudent("S001", "2023CS001", models.NewName("John", "", "Doe"), "john.doe@university.edu")},
		Instructors: []models.Instructor{*models.NewInstructor("I001", models.NewName("Ada", "", "Lovelace"), "ada@university.edu", "CS", "Professor")},
		Courses:     []*models.Course{course},
		Enrollments: []models.Enrollment{
			{ID: "e1", StudentID: "S001", CourseCode: "CS201", Credits: 4, Semester: models.SemesterFall, Status: models.EnrollmentStatusActive},
			{ID: "e2", StudentID: "S001", CourseCode: "CS101", Credits: 3, Semester: models.SemesterFall, Status: models.EnrollmentStatusRemoved},
		},
	}

	mock.ExpectBegin()
	for _, table := range []string{"enrollments", "courses", "instructors", "students"} {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM " + table)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO instructors")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO courses")).
		WithArgs("CS201", 0, "Data Structures", 4, "", "", "", "CS101", models.DefaultMaxEnrollment, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, NewSnapshotRepository(db).Save(context.Background(), snapshot))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositorySaveRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments")).WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	err := NewSnapshotRepository(db).Save(context.Background(), models.Snapshot{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear enrollments")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryLoad(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	created := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM students ORDER BY seq")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reg_no", "first_name", "middle_name", "last_name", "email", "status", "active", "created_at"}).
			AddRow("S001", "2023CS001", "John", "", "Doe", "john.doe@university.edu", "GRADUATED", false, created))
	mock.ExpectQuery(regexp.QuoteMeta("FROM instructors ORDER BY seq")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "middle_name", "last_name", "email", "department", "designation", "active", "created_at"}).
			AddRow("I001", "Ada", "", "Lovelace", "ada@university.edu", "CS", "Professor", true, created))
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses ORDER BY seq")).
		WillReturnRows(sqlmock.NewRows([]string{"code", "title", "credits", "department", "semester", "instructor_id", "prerequisites", "max_enrollment", "active", "created_at"}).
			AddRow("CS201", "Data Structures", 4, "Computer Science", "SPRING", "I001", "CS101,MA101", 40, true, created))
	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments ORDER BY seq")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "course_code", "credits", "semester", "enrolled_at", "marks", "grade", "status"}).
			AddRow("e1", "S001", "CS201", 4, "SPRING", created, 92.0, "S", "COMPLETED"))

	snapshot, err := NewSnapshotRepository(db).Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, snapshot.Students, 1)
	assert.Equal(t, models.StudentStatusGraduated, snapshot.Students[0].Status)
	assert.False(t, snapshot.Students[0].Active)
	assert.Equal(t, "John Doe", snapshot.Students[0].Name.FullName())

	require.Len(t, snapshot.Instructors, 1)
	assert.Equal(t, "Professor (CS)", snapshot.Instructors[0].DisplayTitle())

	require.Len(t, snapshot.Courses, 1)
	assert.Equal(t, []string{"CS101", "MA101"}, snapshot.Courses[0].Prerequisites())
	assert.Equal(t, 40, snapshot.Courses[0].MaxEnrollment())
	assert.Equal(t, created, snapshot.Courses[0].CreatedAt())

	require.Len(t, snapshot.Enrollments, 1)
	assert.Equal(t, models.GradeS, snapshot.Enrollments[0].Grade)
	assert.Equal(t, models.SemesterSpring, snapshot.Enrollments[0].Semester)
}

func TestSnapshotRepositoryKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, config.SnapshotConfig{Driver: database.DriverSQLite, DSN: "file:" + filepath.Join(t.TempDir(), "order.db")})
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	var students []models.Student
	for _, id := range []string{"S009", "S002", "S005"} {
		s := models.NewStudent(id, "REG"+id, models.NewName("Student", "", id), id+"@university.edu")
		s.CreatedAt = created
		students = append(students, *s)
	}
	var courses []*models.Course
	for _, code := range []string{"MA101", "CS301", "CS101"} {
		c, err := models.NewCourseBuilder(code, code+" Title", 3).CreatedAt(created).Build()
		require.NoError(t, err)
		courses = append(courses, c)
	}
	instructors := []models.Instructor{
		*models.NewInstructor("I002", models.NewName("Grace", "", "Hopper"), "grace@university.edu", "CS", "Professor"),
		*models.NewInstructor("I001", models.NewName("Ada", "", "Lovelace"), "ada@university.edu", "CS", "Professor"),
	}

	repo := NewSnapshotRepository(db)
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.Save(ctx, models.Snapshot{Students: students, Instructors: instructors, Courses: courses}))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)

	studentIDs := make([]string, 0, len(loaded.Students))
	for _, s := range loaded.Students {
		studentIDs = append(studentIDs, s.ID)
	}
	assert.Equal(t, []string{"S009", "S002", "S005"}, studentIDs)

	codes := make([]string, 0, len(loaded.Courses))
	for _, c := range loaded.Courses {
		codes = append(codes, c.Code())
	}
	assert.Equal(t, []string{"MA101", "CS301", "CS101"}, codes)

	require.Len(t, loaded.Instructors, 2)
	assert.Equal(t, "I002", loaded.Instructors[0].ID)
	assert.Equal(t, "I001", loaded.Instructors[1].ID)
}
