package service

import (
	"testing"

	"favor-bot/config"

	"github.com/stretchr/testify/assert"
)

func TestSettingPortFallback(t *testing.T) {
	_, _, settingService := setupServices(t)

	port, err := settingService.GetPort()
	assert.NoError(t, err)
	assert.Equal(t, config.GetWebPort(), port)

	assert.NoError(t, settingService.SetPort(9000))
	port, err = settingService.GetPort()
	assert.NoError(t, err)
	assert.Equal(t, 9000, port)

	assert.Error(t, settingService.SetPort(0))
	assert.Error(t, settingService.SetPort(70000))
}

func TestSettingAPITokenGenerated(t *testing.T) {
	_, _, settingService := setupServices(t)

	token, err := settingService.GetAPIToken()
	assert.NoError(t, err)
	assert.Len(t, token, 32)

	// The generated token is persisted, not re-rolled on every call.
	again, err := settingService.GetAPIToken()
	assert.NoError(t, err)
	assert.Equal(t, token, again)

	assert.NoError(t, settingService.SetAPIToken("custom-token"))
	custom, err := settingService.GetAPIToken()
	assert.NoError(t, err)
	assert.Equal(t, "custom-token", custom)
}

func TestSettingReset(t *testing.T) {
	_, _, settingService := setupServices(t)

	assert.NoError(t, settingService.SetPort(9000))
	assert.NoError(t, settingService.SetAccommodationOpen(true))

	assert.NoError(t, settingService.Reset())

	port, err := settingService.GetPort()
	assert.NoError(t, err)
	assert.Equal(t, config.GetWebPort(), port)

	open, err := settingService.IsAccommodationOpen()
	assert.NoError(t, err)
	assert.False(t, open)
}
