//go:build windows

package main

import (
	"os"
	"os/signal"
	"syscall"

	"favor-bot/web/service"
)

func setupSignalHandler(sigCh chan os.Signal) {
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
}

// handleCustomSignal handles platform-specific signals. Windows has no
// SIGUSR2, so nothing is handled here.
func handleCustomSignal(sig os.Signal, tgbot service.TelegramService) bool {
	return false
}
