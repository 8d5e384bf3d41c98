package service

import (
	"testing"

	"favor-bot/config"
	"favor-bot/database/model"

	"github.com/stretchr/testify/assert"
)

func TestParseChatID(t *testing.T) {
	chat, err := parseChatID("@my_channel")
	assert.NoError(t, err)
	assert.Equal(t, "@my_channel", chat.Username)

	chat, err = parseChatID("-1001234567890")
	assert.NoError(t, err)
	assert.EqualValues(t, -1001234567890, chat.ID)

	_, err = parseChatID("not-a-chat")
	assert.Error(t, err)
}

func TestRegistrationSummary(t *testing.T) {
	reg := &model.Registration{
		RegID:       "reg-1",
		Name:        "Иванов <Иван>",
		Days:        2,
		ArrivalDate: "03.07.2025",
		City:        "Хабаровск",
		Phone:       "+79990001122",
		BirthDate:   "15.06.2001",
		Gender:      model.GenderMale,
	}

	summary := registrationSummary(reg, "Новая регистрация!")
	assert.Contains(t, summary, "<b>Новая регистрация!</b>")
	assert.Contains(t, summary, "Иванов &lt;Иван&gt;")
	assert.Contains(t, summary, "Дни: 2")
	assert.Contains(t, summary, "Ник: Не указан")
	assert.NotContains(t, summary, "Расселение:")

	reg.RoomNo = 3
	reg.Nick = "ivan"
	summary = registrationSummary(reg, "")
	assert.Contains(t, summary, "Расселение: 3 Дом")
	assert.Contains(t, summary, "Ник: ivan")
	assert.NotContains(t, summary, "<b>")
}

func TestContactKeyboardRequestsContact(t *testing.T) {
	kb := contactKeyboard()
	assert.Len(t, kb.Keyboard, 1)
	assert.Len(t, kb.Keyboard[0], 1)

	btn := kb.Keyboard[0][0]
	assert.Equal(t, btnShareContact, btn.Text)
	assert.True(t, btn.RequestContact)
}

func TestBackoffDelay(t *testing.T) {
	assert.Equal(t, config.SendBackoff, backoffDelay(0))
	assert.Equal(t, 2*config.SendBackoff, backoffDelay(1))

	// No pause after the last attempt; the failure is reported right away.
	assert.Zero(t, backoffDelay(config.SendRetries-1))
	assert.Zero(t, backoffDelay(config.SendRetries))
}

func TestBotState(t *testing.T) {
	state := NewBotState()

	assert.Empty(t, state.Get(1))

	state.Set(1, stateName)
	assert.Equal(t, stateName, state.Get(1))
	assert.Empty(t, state.Get(2))

	draft := state.Draft(1)
	draft.Name = "Иванов Иван"
	assert.Equal(t, "Иванов Иван", state.Draft(1).Name)

	state.Reset(1)
	assert.Empty(t, state.Get(1))
	assert.Empty(t, state.Draft(1).Name)
}
