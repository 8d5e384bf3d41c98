package service

import (
	"testing"

	"favor-bot/database"
	"favor-bot/database/model"
	"favor-bot/database/repository"

	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	regService, accService, _ := setupServices(t)
	userRepo := repository.NewBotUserRepository(database.GetDB())
	statsService := NewStatsService(repository.NewRegistrationRepository(database.GetDB()), userRepo)

	assert.NoError(t, userRepo.Touch(1, "Ivan"))
	assert.NoError(t, userRepo.Touch(2, "Anna"))
	assert.NoError(t, userRepo.Touch(3, "Petr"))

	registerParticipant(t, regService, 1, model.GenderMale)
	registerParticipant(t, regService, 2, model.GenderFemale)

	reg, err := regService.GetByUser(1)
	assert.NoError(t, err)
	_, err = regService.CheckIn(reg.RegID)
	assert.NoError(t, err)
	_, err = accService.Assign(2, 6)
	assert.NoError(t, err)

	stats, err := statsService.Get()
	assert.NoError(t, err)
	assert.EqualValues(t, 3, stats.Opened)
	assert.EqualValues(t, 2, stats.Registered)
	assert.EqualValues(t, 1, stats.CheckedIn)
	assert.EqualValues(t, 1, stats.Housed)

	report := stats.Report()
	assert.Contains(t, report, "Открыли бота: 3")
	assert.Contains(t, report, "Зарегистрированы: 2")
	assert.Contains(t, report, "Пришло: 1")
	assert.Contains(t, report, "Расселение: 1")
}
