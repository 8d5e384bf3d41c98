package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLogsFiltersByLevel(t *testing.T) {
	logBuffer = nil

	Debug("debug entry")
	Info("info entry")
	Warning("warning entry")
	Error("error entry")

	errOnly := GetLogs(10, "ERROR")
	for _, line := range errOnly {
		assert.Contains(t, line, "error entry")
	}
	assert.NotEmpty(t, errOnly)

	all := GetLogs(10, "DEBUG")
	assert.GreaterOrEqual(t, len(all), 4)
}

func TestGetLogsNewestFirst(t *testing.T) {
	logBuffer = nil

	Info("first")
	Info("second")

	logs := GetLogs(10, "INFO")
	assert.True(t, strings.Contains(logs[0], "second"))
}

func TestBufferBounded(t *testing.T) {
	logBuffer = nil

	for i := 0; i < 1200; i++ {
		Infof("entry %d", i)
	}
	assert.LessOrEqual(t, len(logBuffer), 1000)
}
