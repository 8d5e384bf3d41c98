package repository

import (
	"testing"
	"time"

	"favor-bot/database"
	"favor-bot/database/model"

	"github.com/stretchr/testify/assert"
)

func setupTestDB(t *testing.T) {
	err := database.InitTestDB()
	assert.NoError(t, err)
}

func newTestRegistration(userID int64, regID string) *model.Registration {
	return &model.Registration{
		RegID:       regID,
		UserID:      userID,
		Name:        "Иванов Иван",
		Days:        2,
		ArrivalDate: "03.07.2025",
		City:        "Хабаровск",
		Phone:       "+79990001122",
		BirthDate:   "01.01.2000",
		Gender:      model.GenderMale,
	}
}

func TestRegistrationRepository_CRUD(t *testing.T) {
	setupTestDB(t)
	repo := NewRegistrationRepository(database.GetDB())

	reg := newTestRegistration(1, "reg-1")
	err := repo.Create(reg)
	assert.NoError(t, err)
	assert.Greater(t, reg.Id, 0)

	found, err := repo.FindByRegID("reg-1")
	assert.NoError(t, err)
	assert.Equal(t, "Иванов Иван", found.Name)

	foundByUser, err := repo.FindByUserID(1)
	assert.NoError(t, err)
	assert.Equal(t, reg.Id, foundByUser.Id)

	all, err := repo.All()
	assert.NoError(t, err)
	assert.Len(t, all, 1)

	count, err := repo.Count()
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRegistrationRepository_DuplicateUser(t *testing.T) {
	setupTestDB(t)
	repo := NewRegistrationRepository(database.GetDB())

	assert.NoError(t, repo.Create(newTestRegistration(1, "reg-1")))
	err := repo.Create(newTestRegistration(1, "reg-2"))
	assert.Error(t, err)
}

func TestRegistrationRepository_NotFound(t *testing.T) {
	setupTestDB(t)
	repo := NewRegistrationRepository(database.GetDB())

	_, err := repo.FindByRegID("missing")
	assert.True(t, database.IsNotFound(err))

	_, err = repo.FindByUserID(42)
	assert.True(t, database.IsNotFound(err))
}

func TestRegistrationRepository_CheckIn(t *testing.T) {
	setupTestDB(t)
	repo := NewRegistrationRepository(database.GetDB())

	assert.NoError(t, repo.Create(newTestRegistration(1, "reg-1")))

	err := repo.MarkCheckedIn("reg-1", time.Now())
	assert.NoError(t, err)

	found, err := repo.FindByRegID("reg-1")
	assert.NoError(t, err)
	assert.True(t, found.CheckedIn)
	assert.False(t, found.CheckedInAt.IsZero())

	count, err := repo.CountCheckedIn()
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRegistrationRepository_Rooms(t *testing.T) {
	setupTestDB(t)
	repo := NewRegistrationRepository(database.GetDB())

	assert.NoError(t, repo.Create(newTestRegistration(1, "reg-1")))
	assert.NoError(t, repo.Create(newTestRegistration(2, "reg-2")))
	assert.NoError(t, repo.Create(newTestRegistration(3, "reg-3")))

	assert.NoError(t, repo.UpdateRoom(1, 3))
	assert.NoError(t, repo.UpdateRoom(2, 3))
	assert.NoError(t, repo.UpdateRoom(3, 7))

	inRoom, err := repo.CountInRoom(3)
	assert.NoError(t, err)
	assert.EqualValues(t, 2, inRoom)

	housed, err := repo.CountHoused()
	assert.NoError(t, err)
	assert.EqualValues(t, 3, housed)

	occupancy, err := repo.RoomOccupancy()
	assert.NoError(t, err)
	assert.EqualValues(t, 2, occupancy[3])
	assert.EqualValues(t, 1, occupancy[7])

	// Freeing the bed removes the user from the counts.
	assert.NoError(t, repo.UpdateRoom(3, 0))
	housed, err = repo.CountHoused()
	assert.NoError(t, err)
	assert.EqualValues(t, 2, housed)
}
