package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combain-support-bot/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpsertUserKeepsRegistrationTime(t *testing.T) {
	db := newTestDB(t)
	registered := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, db.UpsertUser(&models.User{
		ID: 1, ChatID: 1, Username: "alice",
		RegisteredAt: registered, LastSeenAt: registered,
	}))

	later := registered.Add(48 * time.Hour)
	require.NoError(t, db.UpsertUser(&models.User{
		ID: 1, ChatID: 10, Username: "alice_new",
		RegisteredAt: later, LastSeenAt: later,
	}))

	users, err := db.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	u := users[0]
	assert.Equal(t, int64(10), u.ChatID)
	assert.Equal(t, "alice_new", u.Username)
	assert.Equal(t, registered.Unix(), u.RegisteredAt.Unix())
	assert.Equal(t, later.Unix(), u.LastSeenAt.Unix())
}

func TestListUsersEmpty(t *testing.T) {
	users, err := newTestDB(t).ListUsers()
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestListAndDeleteInactive(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, seen := range []time.Time{now.AddDate(0, 0, -200), now.AddDate(0, 0, -10), now} {
		id := int64(i + 1)
		require.NoError(t, db.UpsertUser(&models.User{ID: id, ChatID: id, RegisteredAt: seen, LastSeenAt: seen}))
	}

	users, err := db.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{users[0].ID, users[1].ID, users[2].ID})

	n, err := db.DeleteInactive(now.AddDate(0, 0, -180))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	users, err = db.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
