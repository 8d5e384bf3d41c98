package config

import (
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// initStaticConfig wires viper to the optional config.toml and the
// FAVOR_* environment variables (FAVOR_BOT_TOKEN -> bot.token etc).
func initStaticConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.AddConfigPath("/etc/favor-bot")
	viper.AddConfigPath(".")
	viper.AddConfigPath(getBaseDir())

	viper.SetEnvPrefix("FAVOR")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setStaticDefaults()

	// The config file is optional; defaults and env cover everything.
	_ = viper.ReadInConfig()
}

func setStaticDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")

	viper.SetDefault("bot.organizer_contact", "@Organizer")

	viper.SetDefault("web.listen", "")
	viper.SetDefault("web.port", 8000)

	if runtime.GOOS == "windows" {
		viper.SetDefault("paths.db_folder", getBaseDir())
	} else {
		viper.SetDefault("paths.db_folder", "/etc/favor-bot")
	}
}
