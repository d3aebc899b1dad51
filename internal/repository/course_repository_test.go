package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ccrm/internal/models"
	appErrors "github.com/noah-isme/ccrm/pkg/errors"
)

func mustCourse(t *testing.T, code string, credits int, dept string) *models.Course {
	t.Helper()
	course, err := models.NewCourseBuilder(code, code+" title", credits).Department(dept).Semester(models.SemesterFall).Build()
	require.NoError(t, err)
	return course
}

func TestCourseRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository()

	require.NoError(t, repo.Create(ctx, mustCourse(t, "CS101", 3, "Computer Science")))
	err := repo.Create(ctx, mustCourse(t, "cs101", 4, "Other"))
	assert.True(t, errors.Is(err, appErrors.ErrDuplicateKey))

	found, ok := repo.FindByCode(ctx, "CS101")
	require.True(t, ok)
	assert.Equal(t, 3, found.Credits())

	found.SetTitle("Mutated outside")
	again, _ := repo.FindByCode(ctx, "CS101")
	assert.Equal(t, "CS101 title", again.Title())

	require.NoError(t, found.SetCredits(4))
	require.NoError(t, repo.Update(ctx, found))
	again, _ = repo.FindByCode(ctx, "CS101")
	assert.Equal(t, 4, again.Credits())

	assert.True(t, errors.Is(repo.Update(ctx, mustCourse(t, "XX999", 1, "")), appErrors.ErrNotFound))

	assert.True(t, repo.Delete(ctx, "CS101"))
	assert.False(t, repo.Delete(ctx, "CS101"))
	assert.Equal(t, 0, repo.Count(ctx))
}

func TestCourseRepositorySearchKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository()
	require.NoError(t, repo.Create(ctx, mustCourse(t, "IT301", 3, "Information Technology")))
	require.NoError(t, repo.Create(ctx, mustCourse(t, "CS101", 3, "Computer Science")))
	require.NoError(t, repo.Create(ctx, mustCourse(t, "CS201", 4, "Computer Science")))

	cs := repo.Search(ctx, func(c *models.Course) bool { return c.Department() == "Computer Science" })
	require.Len(t, cs, 2)
	assert.Equal(t, "CS101", cs[0].Code())
	assert.Equal(t, "CS201", cs[1].Code())
	assert.Len(t, repo.FindAll(ctx), 3)
}

func TestInstructorRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInstructorRepository()
	inst := models.NewInstructor("I001", models.NewName("Grace", "", "Hopper"), "grace@university.edu", "CS", "Professor")

	require.NoError(t, repo.Create(ctx, inst))
	assert.True(t, errors.Is(repo.Create(ctx, inst), appErrors.ErrDuplicateKey))

	found, ok := repo.FindByID(ctx, "I001")
	require.True(t, ok)
	found.Designation = "Dean"
	require.NoError(t, repo.Update(ctx, found))

	again, _ := repo.FindByID(ctx, "I001")
	assert.Equal(t, "Dean", again.Designation)
	assert.Len(t, repo.FindAll(ctx), 1)
	assert.True(t, repo.Delete(ctx, "I001"))
	assert.True(t, errors.Is(repo.Update(ctx, found), appErrors.ErrNotFound))
}
