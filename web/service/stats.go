package service

import (
	"fmt"

	"favor-bot/database/repository"
	"favor-bot/util/common"
)

// Stats are the organizer-facing counters.
type Stats struct {
	Opened     int64 `json:"opened"`
	Registered int64 `json:"registered"`
	CheckedIn  int64 `json:"checkedIn"`
	Housed     int64 `json:"housed"`
}

type StatsService struct {
	regRepo  repository.RegistrationRepository
	userRepo repository.BotUserRepository
}

func NewStatsService(regRepo repository.RegistrationRepository, userRepo repository.BotUserRepository) *StatsService {
	return &StatsService{regRepo: regRepo, userRepo: userRepo}
}

func (s *StatsService) Get() (*Stats, error) {
	const op = "StatsService.Get"

	opened, err := s.userRepo.Count()
	if err != nil {
		return nil, common.Wrap(op, err)
	}
	registered, err := s.regRepo.Count()
	if err != nil {
		return nil, common.Wrap(op, err)
	}
	checkedIn, err := s.regRepo.CountCheckedIn()
	if err != nil {
		return nil, common.Wrap(op, err)
	}
	housed, err := s.regRepo.CountHoused()
	if err != nil {
		return nil, common.Wrap(op, err)
	}

	return &Stats{
		Opened:     opened,
		Registered: registered,
		CheckedIn:  checkedIn,
		Housed:     housed,
	}, nil
}

// Report renders the stats for the admin keyboard and the daily channel
// report.
func (s *Stats) Report() string {
	return fmt.Sprintf(
		"<b>Статистика:</b>\nОткрыли бота: %d\nЗарегистрированы: %d\nПришло: %d\nРасселение: %d",
		s.Opened, s.Registered, s.CheckedIn, s.Housed,
	)
}
