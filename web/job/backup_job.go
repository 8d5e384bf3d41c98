package job

import (
	"favor-bot/web/service"
)

// BackupJob ships the database file to the admin chats.
type BackupJob struct {
	tgbotService service.TelegramService
}

func NewBackupJob(tgbotService service.TelegramService) *BackupJob {
	return &BackupJob{tgbotService: tgbotService}
}

func (j *BackupJob) Run() {
	if j.tgbotService == nil || !j.tgbotService.IsRunning() {
		return
	}
	j.tgbotService.SendBackupToAdmins()
}
