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

func newStudent(id, regNo string) *models.Student {
	return models.NewStudent(id, regNo, models.NewName("John", "", "Doe"), "john.doe@university.edu")
}

func TestStudentRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository()

	original := newStudent("S001", "2023CS001")
	require.NoError(t, repo.Create(ctx, original))

	byID, ok := repo.FindByID(ctx, "S001")
	require.True(t, ok)
	byReg, ok := repo.FindByRegNo(ctx, "2023CS001")
	require.True(t, ok)

	assert.Equal(t, original.ID, byID.ID)
	assert.Equal(t, original.ID, byReg.ID)
	assert.Equal(t, *original, *byID)

	_, ok = repo.FindByID(ctx, "S999")
	assert.False(t, ok)
}

func TestStudentRepositoryRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository()
	require.NoError(t, repo.Create(ctx, newStudent("S001", "2023CS001")))

	err := repo.Create(ctx, newStudent("S001", "2023CS999"))
	assert.True(t, errors.Is(err, appErrors.ErrDuplicateKey))

	err = repo.Create(ctx, newStudent("S002", "2023CS001"))
	assert.True(t, errors.Is(err, appErrors.ErrDuplicateKey))
	assert.Equal(t, 1, repo.Count(ctx))
}

func TestStudentRepositoryReturnsSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository()
	require.NoError(t, repo.Create(ctx, newStudent("S001", "2023CS001")))

	found, _ := repo.FindByID(ctx, "S001")
	found.Email = "changed@university.edu"

	all := repo.FindAll(ctx)
	all[0].Status = models.StudentStatusSuspended

	stored, _ := repo.FindByID(ctx, "S001")
	assert.Equal(t, "john.doe@university.edu", stored.Email)
	assert.Equal(t, models.StudentStatusActive, stored.Status)
}

func TestStudentRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository()
	require.NoError(t, repo.Create(ctx, newStudent("S001", "2023CS001")))
	require.NoError(t, repo.Create(ctx, newStudent("S002", "2023CS002")))

	missing := newStudent("S404", "X")
	assert.True(t, errors.Is(repo.Update(ctx, missing), appErrors.ErrNotFound))

	updated := newStudent("S001", "2023CS010")
	updated.Email = "new@university.edu"
	require.NoError(t, repo.Update(ctx, updated))

	_, ok := repo.FindByRegNo(ctx, "2023CS001")
	assert.False(t, ok)
	found, ok := repo.FindByRegNo(ctx, "2023CS010")
	require.True(t, ok)
	assert.Equal(t, "new@university.edu", found.Email)

	clash := newStudent("S001", "2023CS002")
	assert.True(t, errors.Is(repo.Update(ctx, clash), appErrors.ErrDuplicateKey))
}

func TestStudentRepositoryDeleteAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository()
	require.NoError(t, repo.Create(ctx, newStudent("S001", "2023CS001")))
	require.NoError(t, repo.Create(ctx, newStudent("S002", "2023CS002")))
	require.NoError(t, repo.Create(ctx, newStudent("S003", "2023IT001")))

	assert.True(t, repo.Delete(ctx, "S002"))
	assert.False(t, repo.Delete(ctx, "S002"))
	_, ok := repo.FindByRegNo(ctx, "2023CS002")
	assert.False(t, ok)

	ids := []string{}
	for _, s := range repo.FindAll(ctx) {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"S001", "S003"}, ids)

	it := repo.Search(ctx, func(s models.Student) bool { return s.RegNo == "2023IT001" })
	require.Len(t, it, 1)
	assert.Equal(t, "S003", it[0].ID)
}

func TestStudentRepositoryReplaceAll(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository()
	require.NoError(t, repo.Create(ctx, newStudent("S001", "2023CS001")))

	err := repo.ReplaceAll(ctx, []models.Student{*newStudent("S002", "R1"), *newStudent("S003", "R1")})
	assert.True(t, errors.Is(err, appErrors.ErrDuplicateKey))
	assert.Equal(t, 1, repo.Count(ctx))

	require.NoError(t, repo.ReplaceAll(ctx, []models.Student{*newStudent("S009", "R9"), *newStudent("S002", "R2")}))
	all := repo.FindAll(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, "S009", all[0].ID)
	_, ok := repo.FindByRegNo(ctx, "R2")
	assert.True(t, ok)
	_, ok = repo.FindByID(ctx, "S001")
	assert.False(t, ok)
}
