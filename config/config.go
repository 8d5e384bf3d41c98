package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug   LogLevel = "debug"
	Info    LogLevel = "info"
	Notice  LogLevel = "notice"
	Warning LogLevel = "warning"
	Error   LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := viper.GetString("app.log_level")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return viper.GetBool("app.debug")
}

// GetBotToken returns the Telegram bot token. An empty token is allowed
// here; the bot service validates it on start.
func GetBotToken() string {
	return viper.GetString("bot.token")
}

func GetAdminPassword() string {
	return viper.GetString("bot.admin_password")
}

// GetChannelID returns the announcement channel, either a numeric chat id
// or a public @username.
func GetChannelID() string {
	return strings.TrimSpace(viper.GetString("bot.channel_id"))
}

// GetAllowedAdminIDs parses the comma-separated allow-list of telegram
// user ids. An empty list means the password alone grants admin access.
func GetAllowedAdminIDs() []int64 {
	raw := viper.GetString("bot.allowed_admin_ids")
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func GetOrganizerContact() string {
	contact := viper.GetString("bot.organizer_contact")
	if contact == "" {
		return "@Organizer"
	}
	return contact
}

func GetWebListen() string {
	return viper.GetString("web.listen")
}

func GetWebPort() int {
	port := viper.GetInt("web.port")
	if port <= 0 || port > 65535 {
		return 8000
	}
	return port
}

func GetAPIToken() string {
	return viper.GetString("web.api_token")
}

func getBaseDir() string {
	exePath, err := os.Executable()
	if err != nil {
		return "."
	}
	exeDir := filepath.Dir(exePath)
	exeDirLower := strings.ToLower(filepath.ToSlash(exeDir))
	if strings.Contains(exeDirLower, "/appdata/local/temp/") || strings.Contains(exeDirLower, "/go-build") {
		wd, err := os.Getwd()
		if err != nil {
			return "."
		}
		return wd
	}
	return exeDir
}

func GetDBFolderPath() string {
	path := viper.GetString("paths.db_folder")
	if path != "" {
		return path
	}
	if runtime.GOOS == "windows" {
		return getBaseDir()
	}
	return "/etc/favor-bot"
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func init() {
	initStaticConfig()
}
