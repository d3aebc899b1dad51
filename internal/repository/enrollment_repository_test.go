package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ccrm/internal/models"
)

func TestEnrollmentRepositoryCreateDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewEnrollmentRepository()

	e := &models.Enrollment{StudentID: "S001", CourseCode: "CS101", Credits: 3, Semester: models.SemesterFall}
	require.NoError(t, repo.Create(ctx, e))

	assert.NotEmpty(t, e.ID)
	assert.False(t, e.EnrolledAt.IsZero())
	assert.Equal(t, models.EnrollmentStatusActive, e.Status)
}

func TestEnrollmentRepositoryFirstInsertedMatchWins(t *testing.T) {
	ctx := context.Background()
	repo := NewEnrollmentRepository()
	repo.ReplaceAll(ctx, []models.Enrollment{
		{ID: "removed", StudentID: "S001", CourseCode: "CS101", Semester: models.SemesterFall, Status: models.EnrollmentStatusRemoved},
		{ID: "first", StudentID: "S001", CourseCode: "CS101", Semester: models.SemesterFall, Status: models.EnrollmentStatusActive},
		{ID: "second", StudentID: "S001", CourseCode: "CS101", Semester: models.SemesterFall, Status: models.EnrollmentStatusActive},
	})

	found, ok := repo.FindActive(ctx, "S001", "CS101", models.SemesterFall)
	require.True(t, ok)
	assert.Equal(t, "first", found.ID)

	_, ok = repo.FindActive(ctx, "S001", "CS101", models.SemesterSpring)
	assert.False(t, ok)
}

func TestEnrollmentRepositoryListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewEnrollmentRepository()
	repo.ReplaceAll(ctx, []models.Enrollment{
		{ID: "a", StudentID: "S001", CourseCode: "CS101", Credits: 3, Semester: models.SemesterFall, Status: models.EnrollmentStatusActive},
		{ID: "b", StudentID: "S001", CourseCode: "CS201", Credits: 4, Semester: models.SemesterFall, Status: models.EnrollmentStatusCompleted, Grade: models.GradeA},
		{ID: "c", StudentID: "S001", CourseCode: "IT301", Credits: 3, Semester: models.SemesterFall, Status: models.EnrollmentStatusRemoved},
		{ID: "d", StudentID: "S001", CourseCode: "MA101", Credits: 2, Semester: models.SemesterSpring, Status: models.EnrollmentStatusActive},
		{ID: "e", StudentID: "S002", CourseCode: "CS101", Credits: 3, Semester: models.SemesterFall, Status: models.EnrollmentStatusActive},
	})

	assert.Len(t, repo.List(ctx, models.EnrollmentFilter{StudentID: "S001", Semester: models.SemesterFall}), 3)
	assert.Len(t, repo.List(ctx, models.EnrollmentFilter{StudentID: "S001", Semester: models.SemesterSpring}), 1)

	ungraded, ok := repo.FindActiveUngraded(ctx, "S001", "CS201", models.SemesterFall)
	assert.False(t, ok)
	assert.Nil(t, ungraded)

	forStudent := repo.List(ctx, models.EnrollmentFilter{StudentID: "S001"})
	ids := make([]string, 0, len(forStudent))
	for _, e := range forStudent {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
	assert.Len(t, repo.List(ctx, models.EnrollmentFilter{CourseCode: "CS101"}), 2)
	assert.Len(t, repo.List(ctx, models.EnrollmentFilter{Semester: models.SemesterFall, Status: models.EnrollmentStatusActive}), 2)

	forStudent[0].Credits = 99
	again := repo.List(ctx, models.EnrollmentFilter{StudentID: "S001"})
	assert.Equal(t, 3, again[0].Credits)
}

func TestEnrollmentRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewEnrollmentRepository()
	e := &models.Enrollment{StudentID: "S001", CourseCode: "CS101", Credits: 3, Semester: models.SemesterFall}
	require.NoError(t, repo.Create(ctx, e))

	e.SetMarks(85)
	require.NoError(t, repo.Update(ctx, e))

	found, ok := repo.FindActive(ctx, "S001", "CS101", models.SemesterFall)
	require.True(t, ok)
	assert.Equal(t, models.GradeA, found.Grade)

	assert.Error(t, repo.Update(ctx, &models.Enrollment{ID: "missing"}))

	repo.Clear(ctx)
	assert.Empty(t, repo.List(ctx, models.EnrollmentFilter{}))
}
