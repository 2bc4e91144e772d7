package setting

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/linkboard/linkboard/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Setting{Name: "site_name", Value: []byte("My Site")}).Error)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		settingName   string
		expectedError error
		expectedValue []byte
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			settingName:   "test",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			settingName:   "",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:          "setting not found",
			dbParam:       db,
			settingName:   "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:          "successful get",
			dbParam:       db,
			settingName:   "site_name",
			expectedValue: []byte("My Site"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Get(tc.dbParam, tc.settingName)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedValue, got.Value)
		})
	}
}

func TestSet(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Set(db, "theme", []byte("dark")))
	require.NoError(t, Set(db, "theme", []byte("light")))

	got, err := Get(db, "theme")
	require.NoError(t, err)
	assert.Equal(t, []byte("light"), got.Value)

	var count int64
	db.Model(&models.Setting{}).Count(&count)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, Set(nil, "theme", nil), ErrDBNil)
	assert.ErrorIs(t, Set(db, "", nil), ErrSettingNameEmpty)
}

func TestGetOrCreate(t *testing.T) {
	db := setupTestDB(t)
	calls := 0

	gen := func() ([]byte, error) {
		calls++
		return []byte("generated"), nil
	}

	first, err := GetOrCreate(db, "token_secret", gen)
	require.NoError(t, err)
	assert.Equal(t, []byte("generated"), first)

	second, err := GetOrCreate(db, "token_secret", func() ([]byte, error) {
		return []byte("other"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestGetOrCreateGeneratorError(t *testing.T) {
	db := setupTestDB(t)
	boom := errors.New("no entropy")

	_, err := GetOrCreate(db, "token_secret", func() ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	_, err = Get(db, "token_secret")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Set(db, "theme", []byte("dark")))

	require.NoError(t, Delete(db, "theme"))
	assert.ErrorIs(t, Delete(db, "theme"), ErrSettingNotFound)
	assert.ErrorIs(t, Delete(db, ""), ErrSettingNameEmpty)
	assert.ErrorIs(t, Delete(nil, "theme"), ErrDBNil)
}
