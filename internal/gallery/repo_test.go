package gallery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/avelarsoto/gallery-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.Gallery{}))
	t.Cleanup(func() {
		gdb.Exec("DELETE FROM galleries")
	})
	return gdb
}

func seedGallery(t *testing.T, repo *Repository, title string) *models.Gallery {
	t.Helper()
	desc := "seeded"
	row, err := repo.Create(context.Background(), &models.Gallery{
		Title:       title,
		Description: &desc,
		Images:      datatypes.JSONSlice[string]{"gallery/seed.png"},
		Status:      true,
	})
	require.NoError(t, err)
	return row
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	row := seedGallery(t, repo, "First")

	got, err := repo.FindByID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)
	require.Len(t, got.Images, 1)
	assert.Equal(t, "gallery/seed.png", got.Images[0])
	assert.True(t, got.Status)
}

func TestRepositoryCreatePersistsInactiveStatus(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	row, err := repo.Create(context.Background(), &models.Gallery{
		Title:  "Drafts",
		Images: datatypes.JSONSlice[string]{},
		Status: false,
	})
	require.NoError(t, err)

	got, err := repo.FindByID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.False(t, got.Status, "inactive flag must survive the insert")
}

func TestRepositoryListOrdersByID(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	first := seedGallery(t, repo, "One")
	second := seedGallery(t, repo, "Two")

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, first.ID, rows[0].ID)
	assert.Equal(t, second.ID, rows[1].ID)
}

func TestRepositoryUpdateWritesZeroValues(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	row := seedGallery(t, repo, "Before")

	actor := 5
	row.Title = "After"
	row.Description = nil
	row.Images = datatypes.JSONSlice[string]{}
	row.Status = false
	row.UpdatedBy = &actor
	_, err := repo.Update(context.Background(), row)
	require.NoError(t, err)

	got, err := repo.FindByID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.Nil(t, got.Description)
	assert.False(t, got.Status)
	assert.Empty(t, got.Images)
	require.NotNil(t, got.UpdatedBy)
	assert.Equal(t, 5, *got.UpdatedBy)
}

func TestRepositorySoftDeleteHidesRow(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	row := seedGallery(t, repo, "Doomed")

	ok, err := repo.SoftDelete(context.Background(), row.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = repo.FindByID(context.Background(), row.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepositorySoftDeleteMissingRow(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	ok, err := repo.SoftDelete(context.Background(), 12345)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepositorySoftDeleteIsRepeatableSafe(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	row := seedGallery(t, repo, "Once")

	ok, err := repo.SoftDelete(context.Background(), row.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.SoftDelete(context.Background(), row.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second delete must be a no-op")
}

func TestRepositoryListAllImagePathsIncludesDeleted(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	seedGallery(t, repo, "Live")
	doomed := seedGallery(t, repo, "Doomed")

	doomed.Images = datatypes.JSONSlice[string]{"gallery/gone.png"}
	_, err := repo.Update(context.Background(), doomed)
	require.NoError(t, err)

	ok, err := repo.SoftDelete(context.Background(), doomed.ID)
	require.NoError(t, err)
	require.True(t, ok)

	paths, err := repo.ListAllImagePaths(context.Background())
	require.NoError(t, err)
	assert.Contains(t, paths, "gallery/seed.png")
	assert.Contains(t, paths, "gallery/gone.png", "soft-deleted rows keep their files referenced")
}
