package job

import (
	"favor-bot/logger"
	"favor-bot/web/service"
)

// StatsReportJob posts the daily registration summary to the
// announcement channel.
type StatsReportJob struct {
	statsService *service.StatsService
	tgbotService service.TelegramService
}

func NewStatsReportJob(statsService *service.StatsService, tgbotService service.TelegramService) *StatsReportJob {
	return &StatsReportJob{
		statsService: statsService,
		tgbotService: tgbotService,
	}
}

func (j *StatsReportJob) Run() {
	if j.tgbotService == nil || !j.tgbotService.IsRunning() {
		return
	}
	stats, err := j.statsService.Get()
	if err != nil {
		logger.Warning("stats report job failed:", err)
		return
	}
	if err := j.tgbotService.NotifyChannel(stats.Report()); err != nil {
		logger.Warning("stats report delivery failed:", err)
	}
}
