package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"milktracker/internal/models"
)

func setupSqlite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSqlite(filepath.Join(t.TempDir(), "tracker.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestSqliteMealsRepository_EmptyTable(t *testing.T) {
	repo := NewSqliteMealsRepository(setupSqlite(t))
	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSqliteMealsRepository_SaveAllReplaces(t *testing.T) {
	repo := NewSqliteMealsRepository(setupSqlite(t))
	first := []models.MealRecord{
		{Date: "2024-06-09", StartTime: "21:00", EndTime: "21:30"},
		{Date: "2024-06-10", StartTime: "04:00", EndTime: "04:25:30"},
	}
	require.NoError(t, repo.SaveAll(first))

	second := []models.MealRecord{
		{Date: "2024-06-10", StartTime: "04:00", EndTime: "04:25:30"},
		{Date: "2024-06-10", StartTime: "08:00", EndTime: "08:10"},
		{Date: "2024-06-10", StartTime: "01:15", EndTime: ""},
	}
	require.NoError(t, repo.SaveAll(second))

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, second, loaded)

	require.NoError(t, repo.SaveAll(nil))
	loaded, err = repo.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSqliteMemoriesRepository_Roundtrip(t *testing.T) {
	db := setupSqlite(t)
	repo := NewSqliteMemoriesRepository(db)
	memories := []models.Memory{
		{Date: "2024-02-01", Description: "first smile"},
		{Date: "2024-01-08", Description: "first bath"},
	}
	require.NoError(t, repo.SaveAll(memories))
	require.NoError(t, repo.SaveAll(memories[:1]))

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, memories[:1], loaded)

	var count int64
	require.NoError(t, db.Model(&memoryEntity{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOpenSqlite_BadPath(t *testing.T) {
	_, err := OpenSqlite(filepath.Join(t.TempDir(), "missing", "dir", "tracker.db"), false)
	assert.Error(t, err)
}
