package repository

import (
	"testing"

	"favor-bot/database"

	"github.com/stretchr/testify/assert"
)

func TestBotUserRepository_TouchKeepsAdminFlag(t *testing.T) {
	setupTestDB(t)
	repo := NewBotUserRepository(database.GetDB())

	assert.NoError(t, repo.Touch(1, "Ivan"))
	assert.NoError(t, repo.SetAdmin(1, true))

	// Repeated /start must not reset the flag.
	assert.NoError(t, repo.Touch(1, "Ivan"))

	isAdmin, err := repo.IsAdmin(1)
	assert.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestBotUserRepository_IsAdminUnknownUser(t *testing.T) {
	setupTestDB(t)
	repo := NewBotUserRepository(database.GetDB())

	isAdmin, err := repo.IsAdmin(999)
	assert.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestBotUserRepository_IDs(t *testing.T) {
	setupTestDB(t)
	repo := NewBotUserRepository(database.GetDB())

	assert.NoError(t, repo.Touch(1, "Ivan"))
	assert.NoError(t, repo.Touch(2, "Anna"))
	assert.NoError(t, repo.Touch(3, "Petr"))
	assert.NoError(t, repo.SetAdmin(2, true))

	all, err := repo.AllIDs()
	assert.NoError(t, err)
	assert.Len(t, all, 3)

	admins, err := repo.AdminIDs()
	assert.NoError(t, err)
	assert.Equal(t, []int64{2}, admins)

	count, err := repo.Count()
	assert.NoError(t, err)
	assert.EqualValues(t, 3, count)
}
