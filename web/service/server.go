package service

import (
	"fmt"
	"time"

	"favor-bot/config"
	"favor-bot/util/common"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Status is a host snapshot for the admin /status command.
type Status struct {
	CPUPercent float64
	MemUsed    uint64
	MemTotal   uint64
	Uptime     uint64
	Version    string
}

type ServerService struct{}

func NewServerService() *ServerService {
	return &ServerService{}
}

func (s *ServerService) GetStatus() (*Status, error) {
	const op = "ServerService.GetStatus"

	status := &Status{Version: config.GetVersion()}

	percents, err := cpu.Percent(0, false)
	if err != nil {
		return nil, common.Wrap(op, err)
	}
	if len(percents) > 0 {
		status.CPUPercent = percents[0]
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return nil, common.Wrap(op, err)
	}
	status.MemUsed = memInfo.Used
	status.MemTotal = memInfo.Total

	uptime, err := host.Uptime()
	if err != nil {
		return nil, common.Wrap(op, err)
	}
	status.Uptime = uptime

	return status, nil
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// Report renders the status for the bot.
func (st *Status) Report() string {
	up := time.Duration(st.Uptime) * time.Second
	return fmt.Sprintf(
		"<b>Сервер:</b>\nВерсия бота: %s\nCPU: %.1f%%\nПамять: %s / %s\nАптайм: %s",
		st.Version, st.CPUPercent, formatBytes(st.MemUsed), formatBytes(st.MemTotal), up.Truncate(time.Second),
	)
}
