package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionAndName(t *testing.T) {
	assert.NotEmpty(t, GetVersion())
	assert.Equal(t, "favor-bot", GetName())
}

func TestWebPortDefault(t *testing.T) {
	assert.Equal(t, 8000, GetWebPort())
}

func TestWebPortFromEnv(t *testing.T) {
	t.Setenv("FAVOR_WEB_PORT", "9001")
	assert.Equal(t, 9001, GetWebPort())
}

func TestWebPortInvalidFallsBack(t *testing.T) {
	t.Setenv("FAVOR_WEB_PORT", "99999")
	assert.Equal(t, 8000, GetWebPort())
}

func TestBotTokenFromEnv(t *testing.T) {
	t.Setenv("FAVOR_BOT_TOKEN", "123456789:TEST")
	assert.Equal(t, "123456789:TEST", GetBotToken())
}

func TestAllowedAdminIDs(t *testing.T) {
	t.Setenv("FAVOR_BOT_ALLOWED_ADMIN_IDS", "1, 2,abc, -5, 3")
	assert.Equal(t, []int64{1, 2, 3}, GetAllowedAdminIDs())
}

func TestAllowedAdminIDsEmpty(t *testing.T) {
	t.Setenv("FAVOR_BOT_ALLOWED_ADMIN_IDS", "")
	assert.Nil(t, GetAllowedAdminIDs())
}

func TestOrganizerContactDefault(t *testing.T) {
	assert.Equal(t, "@Organizer", GetOrganizerContact())
}

func TestDBPath(t *testing.T) {
	t.Setenv("FAVOR_PATHS_DB_FOLDER", "/tmp/favor-test")
	assert.Equal(t, "/tmp/favor-test/favor-bot.db", GetDBPath())
}
