package service

import (
	"errors"

	"favor-bot/config"
	"favor-bot/database"
	"favor-bot/database/model"
	"favor-bot/database/repository"
	"favor-bot/logger"
	"favor-bot/util/common"

	"gorm.io/gorm"
)

// RoomInfo is one house with its current occupancy.
type RoomInfo struct {
	No       int   `json:"no"`
	Occupied int64 `json:"occupied"`
	Capacity int   `json:"capacity"`
}

// AccommodationService assigns registered participants to houses.
// Houses 1-5 take men, 6-10 take women, 15 beds each.
type AccommodationService struct {
	regRepo        repository.RegistrationRepository
	settingService *SettingService
}

func NewAccommodationService(regRepo repository.RegistrationRepository, settingService *SettingService) *AccommodationService {
	return &AccommodationService{regRepo: regRepo, settingService: settingService}
}

// Open starts the accommodation phase; until then participants cannot
// pick a house.
func (s *AccommodationService) Open() error {
	return s.settingService.SetAccommodationOpen(true)
}

func (s *AccommodationService) IsOpen() bool {
	open, err := s.settingService.IsAccommodationOpen()
	if err != nil {
		logger.Warning("failed to read accommodation phase flag:", err)
		return false
	}
	return open
}

// roomRange returns the inclusive house range for a gender.
func roomRange(gender string) (int, int, error) {
	switch gender {
	case model.GenderMale:
		return 1, config.MaleRoomMax, nil
	case model.GenderFemale:
		return config.MaleRoomMax + 1, config.RoomCount, nil
	default:
		return 0, 0, common.NewServiceError("roomRange", common.ErrRoomUnavailable).WithCode(common.ErrCodeInvalidInput)
	}
}

// AvailableRooms lists houses of the participant's gender range that
// still have free beds, with occupancy counts for the keyboard labels.
func (s *AccommodationService) AvailableRooms(gender string) ([]RoomInfo, error) {
	lo, hi, err := roomRange(gender)
	if err != nil {
		return nil, err
	}
	occupancy, err := s.regRepo.RoomOccupancy()
	if err != nil {
		return nil, common.Wrap("AccommodationService.AvailableRooms", err)
	}

	var rooms []RoomInfo
	for no := lo; no <= hi; no++ {
		occupied := occupancy[no]
		if occupied < config.RoomCapacity {
			rooms = append(rooms, RoomInfo{No: no, Occupied: occupied, Capacity: config.RoomCapacity})
		}
	}
	return rooms, nil
}

// Occupancy reports all houses for the admin API.
func (s *AccommodationService) Occupancy() ([]RoomInfo, error) {
	occupancy, err := s.regRepo.RoomOccupancy()
	if err != nil {
		return nil, common.Wrap("AccommodationService.Occupancy", err)
	}
	rooms := make([]RoomInfo, 0, config.RoomCount)
	for no := 1; no <= config.RoomCount; no++ {
		rooms = append(rooms, RoomInfo{No: no, Occupied: occupancy[no], Capacity: config.RoomCapacity})
	}
	return rooms, nil
}

// Assign books a bed. Any previous assignment of the participant is
// replaced. The house must match the participant's gender range and have
// a free bed.
func (s *AccommodationService) Assign(userID int64, room int) (*model.Registration, error) {
	const op = "AccommodationService.Assign"

	if room < 1 || room > config.RoomCount {
		return nil, common.NewServiceError(op, common.ErrInvalidRoom).WithCode(common.ErrCodeInvalidInput)
	}

	reg, err := s.regRepo.FindByUserID(userID)
	if err != nil {
		return nil, common.ErrRegistrationNotFound
	}

	lo, hi, err := roomRange(reg.Gender)
	if err != nil {
		return nil, err
	}
	if room < lo || room > hi {
		return nil, common.NewServiceError(op, common.ErrRoomUnavailable).WithCode(common.ErrCodeConflict)
	}

	// Counting and booking must be one transaction: the bot handles every
	// update in its own goroutine, and two participants racing for the
	// last bed would otherwise both pass the capacity check.
	err = database.WithTx(func(tx *gorm.DB) error {
		var occupied int64
		if err := tx.Model(model.Registration{}).Where("room_no = ?", room).Count(&occupied).Error; err != nil {
			return err
		}
		// The participant's own current bed does not count against the limit.
		if reg.RoomNo == room {
			occupied--
		}
		if occupied >= config.RoomCapacity {
			return common.NewServiceError(op, common.ErrRoomFull).WithCode(common.ErrCodeConflict)
		}
		return tx.Model(model.Registration{}).Where("user_id = ?", userID).Update("room_no", room).Error
	})
	if err != nil {
		if errors.Is(err, common.ErrRoomFull) {
			return nil, err
		}
		return nil, common.Wrap(op, err)
	}
	logger.Infof("room assigned: userId=%d room=%d", userID, room)
	reg.RoomNo = room
	return reg, nil
}

// Cancel frees the participant's bed.
func (s *AccommodationService) Cancel(userID int64) error {
	const op = "AccommodationService.Cancel"

	reg, err := s.regRepo.FindByUserID(userID)
	if err != nil {
		return common.ErrRegistrationNotFound
	}
	if reg.RoomNo == 0 {
		return common.NewServiceError(op, common.ErrNotHoused).WithCode(common.ErrCodeConflict)
	}
	if err := s.regRepo.UpdateRoom(userID, 0); err != nil {
		return common.Wrap(op, err)
	}
	logger.Infof("room assignment cancelled: userId=%d", userID)
	return nil
}
