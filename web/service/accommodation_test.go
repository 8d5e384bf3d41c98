package service

import (
	"fmt"
	"sync"
	"testing"

	"favor-bot/config"
	"favor-bot/database"
	"favor-bot/database/model"
	"favor-bot/database/repository"
	"favor-bot/util/common"

	"github.com/stretchr/testify/assert"
)

func registerParticipant(t *testing.T, regService *RegistrationService, userID int64, gender string) {
	draft := validDraft()
	draft.Gender = gender
	draft.Phone = fmt.Sprintf("+7999%07d", userID)
	_, err := regService.Register(userID, draft)
	assert.NoError(t, err)
}

func TestAssignGenderRanges(t *testing.T) {
	regService, accService, _ := setupServices(t)
	registerParticipant(t, regService, 1, model.GenderMale)
	registerParticipant(t, regService, 2, model.GenderFemale)

	reg, err := accService.Assign(1, 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, reg.RoomNo)

	// A men's house is out of range for women and the other way around.
	_, err = accService.Assign(2, 3)
	assert.ErrorIs(t, err, common.ErrRoomUnavailable)
	_, err = accService.Assign(1, 8)
	assert.ErrorIs(t, err, common.ErrRoomUnavailable)

	reg, err = accService.Assign(2, 8)
	assert.NoError(t, err)
	assert.Equal(t, 8, reg.RoomNo)
}

func TestAssignInvalidRoom(t *testing.T) {
	regService, accService, _ := setupServices(t)
	registerParticipant(t, regService, 1, model.GenderMale)

	_, err := accService.Assign(1, 0)
	assert.ErrorIs(t, err, common.ErrInvalidRoom)
	_, err = accService.Assign(1, config.RoomCount+1)
	assert.ErrorIs(t, err, common.ErrInvalidRoom)
}

func TestAssignUnregistered(t *testing.T) {
	_, accService, _ := setupServices(t)

	_, err := accService.Assign(42, 1)
	assert.ErrorIs(t, err, common.ErrRegistrationNotFound)
}

func TestAssignFullRoom(t *testing.T) {
	regService, accService, _ := setupServices(t)

	for i := int64(1); i <= int64(config.RoomCapacity); i++ {
		registerParticipant(t, regService, i, model.GenderMale)
		_, err := accService.Assign(i, 1)
		assert.NoError(t, err)
	}

	registerParticipant(t, regService, 100, model.GenderMale)
	_, err := accService.Assign(100, 1)
	assert.ErrorIs(t, err, common.ErrRoomFull)
}

func TestAssignConcurrentNeverOverfills(t *testing.T) {
	regService, accService, _ := setupServices(t)

	// More participants than beds, all racing for the same house. Losers
	// may get ErrRoomFull or a busy-transaction error; the house must
	// never end up over capacity.
	total := config.RoomCapacity + 5
	for i := 1; i <= total; i++ {
		registerParticipant(t, regService, int64(i), model.GenderMale)
	}

	var wg sync.WaitGroup
	for i := 1; i <= total; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, _ = accService.Assign(userID, 1)
		}(int64(i))
	}
	wg.Wait()

	occupied, err := repository.NewRegistrationRepository(database.GetDB()).CountInRoom(1)
	assert.NoError(t, err)
	assert.LessOrEqual(t, occupied, int64(config.RoomCapacity))
}

func TestReassignOwnFullRoom(t *testing.T) {
	regService, accService, _ := setupServices(t)

	for i := int64(1); i <= int64(config.RoomCapacity); i++ {
		registerParticipant(t, regService, i, model.GenderMale)
		_, err := accService.Assign(i, 1)
		assert.NoError(t, err)
	}

	// The occupant's own bed does not block re-picking the same house.
	_, err := accService.Assign(1, 1)
	assert.NoError(t, err)
}

func TestAvailableRooms(t *testing.T) {
	regService, accService, _ := setupServices(t)

	rooms, err := accService.AvailableRooms(model.GenderMale)
	assert.NoError(t, err)
	assert.Len(t, rooms, config.MaleRoomMax)
	assert.Equal(t, 1, rooms[0].No)

	rooms, err = accService.AvailableRooms(model.GenderFemale)
	assert.NoError(t, err)
	assert.Len(t, rooms, config.RoomCount-config.MaleRoomMax)
	assert.Equal(t, config.MaleRoomMax+1, rooms[0].No)

	// A full house disappears from the list.
	for i := int64(1); i <= int64(config.RoomCapacity); i++ {
		registerParticipant(t, regService, i, model.GenderMale)
		_, err := accService.Assign(i, 2)
		assert.NoError(t, err)
	}
	rooms, err = accService.AvailableRooms(model.GenderMale)
	assert.NoError(t, err)
	assert.Len(t, rooms, config.MaleRoomMax-1)
	for _, room := range rooms {
		assert.NotEqual(t, 2, room.No)
	}
}

func TestCancel(t *testing.T) {
	regService, accService, _ := setupServices(t)
	registerParticipant(t, regService, 1, model.GenderMale)

	err := accService.Cancel(1)
	assert.ErrorIs(t, err, common.ErrNotHoused)

	_, err = accService.Assign(1, 1)
	assert.NoError(t, err)
	assert.NoError(t, accService.Cancel(1))

	reg, err := regService.GetByUser(1)
	assert.NoError(t, err)
	assert.False(t, reg.Housed())
}

func TestOpenFlag(t *testing.T) {
	_, accService, _ := setupServices(t)

	assert.False(t, accService.IsOpen())
	assert.NoError(t, accService.Open())
	assert.True(t, accService.IsOpen())
}

func TestOccupancy(t *testing.T) {
	regService, accService, _ := setupServices(t)
	registerParticipant(t, regService, 1, model.GenderMale)
	registerParticipant(t, regService, 2, model.GenderFemale)

	_, err := accService.Assign(1, 1)
	assert.NoError(t, err)
	_, err = accService.Assign(2, 6)
	assert.NoError(t, err)

	rooms, err := accService.Occupancy()
	assert.NoError(t, err)
	assert.Len(t, rooms, config.RoomCount)
	assert.EqualValues(t, 1, rooms[0].Occupied)
	assert.EqualValues(t, 1, rooms[5].Occupied)
	assert.EqualValues(t, 0, rooms[1].Occupied)
}
