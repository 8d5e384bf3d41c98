//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"

	"favor-bot/logger"
	"favor-bot/web/service"
)

func setupSignalHandler(sigCh chan os.Signal) {
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT, syscall.SIGUSR2)
}

// handleCustomSignal handles platform-specific signals. SIGUSR2 triggers
// an out-of-schedule database backup to the admin chats.
func handleCustomSignal(sig os.Signal, tgbot service.TelegramService) bool {
	if sig == syscall.SIGUSR2 {
		if tgbot != nil {
			logger.Info("Received SIGUSR2 signal. Sending database backup to admins...")
			tgbot.SendBackupToAdmins()
		}
		return true
	}
	return false
}
