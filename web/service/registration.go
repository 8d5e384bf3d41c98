package service

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"favor-bot/config"
	"favor-bot/database"
	"favor-bot/database/model"
	"favor-bot/database/repository"
	"favor-bot/logger"
	"favor-bot/util/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var phoneRe = regexp.MustCompile(`^\+?\d{10,15}$`)

// RegDraft accumulates conversation answers before a registration is
// persisted.
type RegDraft struct {
	Name        string
	Days        int
	ArrivalDate string
	City        string
	Nick        string
	Phone       string
	BirthDate   string
	Gender      string
}

type RegistrationService struct {
	regRepo repository.RegistrationRepository
}

func NewRegistrationService(regRepo repository.RegistrationRepository) *RegistrationService {
	return &RegistrationService{regRepo: regRepo}
}

// ValidateName requires at least a first and a last name.
func ValidateName(name string) error {
	if len(strings.Fields(strings.TrimSpace(name))) < 2 {
		return common.NewServiceError("ValidateName", nil).WithCode(common.ErrCodeInvalidInput)
	}
	return nil
}

func ValidateDays(days int) error {
	if days < 1 || days > config.MaxDays {
		return common.NewServiceError("ValidateDays", nil).WithCode(common.ErrCodeInvalidInput)
	}
	return nil
}

func ValidateArrivalDate(date string) error {
	if !slices.Contains(config.ArrivalDates, date) {
		return common.NewServiceError("ValidateArrivalDate", nil).WithCode(common.ErrCodeInvalidInput)
	}
	return nil
}

func ValidateCity(city string) error {
	if len(strings.TrimSpace(city)) < 2 {
		return common.NewServiceError("ValidateCity", nil).WithCode(common.ErrCodeInvalidInput)
	}
	return nil
}

func ValidatePhone(phone string) error {
	if !phoneRe.MatchString(phone) {
		return common.NewServiceError("ValidatePhone", nil).WithCode(common.ErrCodeInvalidInput)
	}
	return nil
}

// ValidateBirthDate checks DD.MM.YYYY, real calendar date, year 1900-2025.
func ValidateBirthDate(birthDate string) error {
	invalid := common.NewServiceError("ValidateBirthDate", nil).WithCode(common.ErrCodeInvalidInput)

	parsed, err := time.Parse("02.01.2006", birthDate)
	if err != nil {
		return invalid
	}
	// time.Parse normalizes overflow dates (32.01 -> 01.02), reject those.
	if parsed.Format("02.01.2006") != birthDate {
		return invalid
	}
	year := parsed.Year()
	if year < 1900 || year > 2025 {
		return invalid
	}
	return nil
}

func ValidateGender(gender string) error {
	if gender != model.GenderMale && gender != model.GenderFemale {
		return common.NewServiceError("ValidateGender", nil).WithCode(common.ErrCodeInvalidInput)
	}
	return nil
}

func (s *RegistrationService) validateDraft(d *RegDraft) error {
	checks := []error{
		ValidateName(d.Name),
		ValidateDays(d.Days),
		ValidateArrivalDate(d.ArrivalDate),
		ValidateCity(d.City),
		ValidatePhone(d.Phone),
		ValidateBirthDate(d.BirthDate),
		ValidateGender(d.Gender),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

// Register persists a completed draft. One registration per telegram
// account; a second attempt returns ErrAlreadyRegistered.
func (s *RegistrationService) Register(userID int64, d *RegDraft) (*model.Registration, error) {
	const op = "RegistrationService.Register"

	if err := s.validateDraft(d); err != nil {
		return nil, err
	}
	if _, err := s.regRepo.FindByUserID(userID); err == nil {
		return nil, common.NewServiceError(op, common.ErrAlreadyRegistered).WithCode(common.ErrCodeConflict)
	} else if !database.IsNotFound(err) {
		return nil, common.Wrap(op, err)
	}

	reg := &model.Registration{
		RegID:       uuid.NewString(),
		UserID:      userID,
		Name:        strings.TrimSpace(d.Name),
		Days:        d.Days,
		ArrivalDate: d.ArrivalDate,
		City:        strings.TrimSpace(d.City),
		Nick:        d.Nick,
		Phone:       d.Phone,
		BirthDate:   d.BirthDate,
		Gender:      d.Gender,
	}
	if err := s.regRepo.Create(reg); err != nil {
		return nil, common.Wrap(op, err)
	}
	logger.Infof("registration created: regId=%s userId=%d", reg.RegID, userID)
	return reg, nil
}

func (s *RegistrationService) GetByRegID(regID string) (*model.Registration, error) {
	reg, err := s.regRepo.FindByRegID(regID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, common.ErrRegistrationNotFound
		}
		return nil, common.Wrap("RegistrationService.GetByRegID", err)
	}
	return reg, nil
}

func (s *RegistrationService) GetByUser(userID int64) (*model.Registration, error) {
	reg, err := s.regRepo.FindByUserID(userID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, common.ErrRegistrationNotFound
		}
		return nil, common.Wrap("RegistrationService.GetByUser", err)
	}
	return reg, nil
}

func (s *RegistrationService) IsRegistered(userID int64) bool {
	_, err := s.regRepo.FindByUserID(userID)
	return err == nil
}

func (s *RegistrationService) All() ([]*model.Registration, error) {
	return s.regRepo.All()
}

// CheckIn marks the registration as arrived. Idempotent: a second scan
// returns the registration unchanged.
func (s *RegistrationService) CheckIn(regID string) (*model.Registration, error) {
	const op = "RegistrationService.CheckIn"

	reg, err := s.GetByRegID(regID)
	if err != nil {
		return nil, err
	}
	if reg.CheckedIn {
		return reg, nil
	}
	if err := s.regRepo.MarkCheckedIn(regID, time.Now()); err != nil {
		return nil, common.Wrap(op, err)
	}
	return s.GetByRegID(regID)
}

// Clear removes every registration (rooms and check-ins with them) and
// closes the accommodation phase, in one transaction.
func (s *RegistrationService) Clear() error {
	const op = "RegistrationService.Clear"

	err := database.WithTx(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Registration{}).Error; err != nil {
			return err
		}
		setting := &model.Setting{Key: settingAccommodationOpen, Value: strconv.FormatBool(false)}
		return tx.Where("key = ?", settingAccommodationOpen).
			Assign(map[string]any{"value": setting.Value}).
			FirstOrCreate(setting).Error
	})
	if err != nil {
		return common.Wrap(op, err)
	}
	logger.Info("all registrations cleared")
	return nil
}
