package web

import (
	"fmt"

	"favor-bot/logger"
)

// cronLogger adapts the app logger to the cron.Logger interface. Routine
// scheduler chatter goes to debug, failures to warning.
type cronLogger struct{}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	logger.Debugf("cron: %s %s", msg, formatKVs(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logger.Warningf("cron: %s: %v %s", msg, err, formatKVs(keysAndValues))
}

func formatKVs(keysAndValues []any) string {
	if len(keysAndValues) == 0 {
		return ""
	}
	return fmt.Sprint(keysAndValues...)
}
