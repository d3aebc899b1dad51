package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ccrm/internal/models"
	appErrors "github.com/noah-isme/ccrm/pkg/errors"
)

func TestCourseServiceCreate(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, 0)

	course, err := c.courses.Create(ctx, CreateCourseRequest{
		Code: " cs201 ", Title: "Data Structures", Credits: 4, Department: "Computer Science",
		Semester: "spring", Prerequisites: []string{"cs101"},
	})
	require.NoError(t, err)
	assert.Equal(t, "CS201", course.Code())
	assert.Equal(t, models.SemesterSpring, course.Semester())
	assert.Equal(t, []string{"CS101"}, course.Prerequisites())
	assert.Equal(t, models.DefaultMaxEnrollment, course.MaxEnrollment())

	invalid := map[string]CreateCourseRequest{
		"code pattern": {Code: "C1", Title: "T", Credits: 3},
		"zero credits": {Code: "CS102", Title: "T", Credits: 0},
		"many credits": {Code: "CS102", Title: "T", Credits: 7},
		"semester":     {Code: "CS102", Title: "T", Credits: 3, Semester: "WINTER"},
		"title":        {Code: "CS102", Credits: 3},
	}
	for name, req := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := c.courses.Create(ctx, req)
			assert.True(t, errors.Is(err, appErrors.ErrValidation))
		})
	}

	_, err = c.courses.Create(ctx, CreateCourseRequest{Code: "CS201", Title: "Again", Credits: 3})
	assert.True(t, errors.Is(err, appErrors.ErrDuplicateKey))

	_, err = c.courses.Create(ctx, CreateCourseRequest{Code: "CS301", Title: "T", Credits: 3, InstructorID: "I404"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestCourseServiceUpdate(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, 0)
	c.addCourse(t, "CS101", 3, "Computer Science")

	title, credits, semester := "Programming I", 4, "summer"
	course, err := c.courses.Update(ctx, "cs101", UpdateCourseRequest{Title: &title, Credits: &credits, Semester: &semester})
	require.NoError(t, err)
	assert.Equal(t, "Programming I", course.Title())
	assert.Equal(t, 4, course.Credits())
	assert.Equal(t, models.SemesterSummer, course.Semester())

	tooMany := 9
	_, err = c.courses.Update(ctx, "CS101", UpdateCourseRequest{Credits: &tooMany})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	require.NoError(t, c.courses.Deactivate(ctx, "CS101"))
	stored, err := c.courses.Get(ctx, "CS101")
	require.NoError(t, err)
	assert.False(t, stored.Active())
	assert.Equal(t, 4, stored.Credits())

	_, err = c.courses.Update(ctx, "XX999", UpdateCourseRequest{Title: &title})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestCourseServiceListingsAndInstructors(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, 0)
	_, err := c.instructors.Create(ctx, CreateInstructorRequest{
		ID: "I001", FirstName: "Grace", LastName: "Hopper", Email: "grace@university.edu",
		Department: "Computer Science", Designation: "Professor",
	})
	require.NoError(t, err)

	c.addCourse(t, "IT301", 3, "Information Technology")
	c.addCourse(t, "CS201", 4, "Computer Science")
	c.addCourse(t, "CS101", 3, "Computer Science")
	require.NoError(t, c.courses.Deactivate(ctx, "IT301"))

	active := c.courses.ListActive(ctx)
	require.Len(t, active, 2)
	assert.Equal(t, "CS101", active[0].Code())
	assert.Equal(t, "CS201", active[1].Code())

	assert.Len(t, c.courses.ByDepartment(ctx, "computer science"), 2)
	assert.Len(t, c.courses.BySemester(ctx, models.SemesterFall), 3)
	assert.Len(t, c.courses.Search(ctx, "cs"), 2)
	assert.Len(t, c.courses.Search(ctx, "it301 title"), 1)

	_, err = c.courses.AssignInstructor(ctx, "cs101", "I001")
	require.NoError(t, err)
	_, err = c.courses.AssignInstructor(ctx, "CS201", "I404")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	byInstructor := c.courses.ByInstructor(ctx, "I001")
	require.Len(t, byInstructor, 1)
	assert.Equal(t, "CS101", byInstructor[0].Code())

	detail, err := c.instructors.Detail(ctx, "I001")
	require.NoError(t, err)
	assert.Equal(t, 1, detail.CourseCount)
	assert.Equal(t, "Professor (Computer Science)", detail.Instructor.DisplayTitle())

	assert.Len(t, c.instructors.List(ctx, models.InstructorFilter{Department: "COMPUTER SCIENCE"}), 1)
	assert.Empty(t, c.instructors.List(ctx, models.InstructorFilter{Department: "Math"}))

	_, err = c.instructors.Create(ctx, CreateInstructorRequest{ID: "I002", FirstName: "X", Email: "bad", Department: "D", Designation: "P"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	_, err = c.instructors.Get(ctx, "I404")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
