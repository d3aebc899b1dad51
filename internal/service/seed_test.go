package service

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ccrm/internal/models"
	appErrors "github.com/noah-isme/ccrm/pkg/errors"
)

func TestSeedSampleData(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, 0)
	c.seed(t)

	assert.Len(t, c.students.All(ctx), 3)
	assert.Len(t, c.courses.All(ctx), 3)
	assert.Len(t, c.enrollments.ForSemester(ctx, models.SemesterFall), 4)

	stats := c.enrollments.StudentStats(ctx, "S001")
	assert.Equal(t, 2, stats.TotalEnrollments)
	assert.InDelta(t, 9.0, stats.GPA, 0.0001)
	assert.Equal(t, 3, stats.CompletedCredits)

	err := SeedSampleData(ctx, c.students, c.courses, c.enrollments)
	require.Error(t, err)
	assert.True(t, stdErrors.Is(err, appErrors.ErrDuplicateKey))
	assert.Contains(t, err.Error(), "seed student S001")
}
