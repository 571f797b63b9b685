package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec("DELETE FROM users").Error)

	return db
}

func TestFindByIDAndUsername(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	id := uuid.New()
	require.NoError(t, db.Exec(
		"INSERT INTO users (id, username, email, is_active, created_at, updated_at) VALUES (?, ?, ?, 1, ?, ?)",
		id, "listener", "listener@example.com", time.Now(), time.Now(),
	).Error)

	user, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "listener", user.Username)
	assert.True(t, user.IsActive)

	user, err = repo.FindByUsername(ctx, "listener")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
