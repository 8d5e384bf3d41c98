package service

import (
	"fmt"
	"strconv"

	"favor-bot/config"
	"favor-bot/database/repository"
	"favor-bot/logger"
	"favor-bot/util/common"
	"favor-bot/util/random"
)

// Setting keys. Values stored in the settings table override the static
// viper config, so `favor-bot setting` changes survive restarts.
const (
	settingWebPort           = "webPort"
	settingWebListen         = "webListen"
	settingAPIToken          = "apiToken"
	settingAccommodationOpen = "accommodationOpen"
)

type SettingService struct {
	settingRepo repository.SettingRepository
}

func NewSettingService(settingRepo repository.SettingRepository) *SettingService {
	return &SettingService{settingRepo: settingRepo}
}

func (s *SettingService) GetPort() (int, error) {
	value, err := s.settingRepo.Get(settingWebPort)
	if err != nil {
		return 0, common.Wrap("SettingService.GetPort", err)
	}
	if value == "" {
		return config.GetWebPort(), nil
	}
	port, err := strconv.Atoi(value)
	if err != nil || port <= 0 || port > 65535 {
		logger.Warningf("stored web port %q is invalid, falling back to config", value)
		return config.GetWebPort(), nil
	}
	return port, nil
}

func (s *SettingService) SetPort(port int) error {
	if port <= 0 || port > 65535 {
		return common.NewServiceError("SettingService.SetPort", fmt.Errorf("port %d out of range", port)).
			WithCode(common.ErrCodeInvalidInput)
	}
	return s.settingRepo.Set(settingWebPort, strconv.Itoa(port))
}

func (s *SettingService) GetListen() (string, error) {
	value, err := s.settingRepo.Get(settingWebListen)
	if err != nil {
		return "", common.Wrap("SettingService.GetListen", err)
	}
	if value == "" {
		return config.GetWebListen(), nil
	}
	return value, nil
}

func (s *SettingService) SetListen(listen string) error {
	return s.settingRepo.Set(settingWebListen, listen)
}

// GetAPIToken resolves the API bearer token: stored setting, then config,
// then a generated one persisted for subsequent starts.
func (s *SettingService) GetAPIToken() (string, error) {
	value, err := s.settingRepo.Get(settingAPIToken)
	if err != nil {
		return "", common.Wrap("SettingService.GetAPIToken", err)
	}
	if value != "" {
		return value, nil
	}
	if token := config.GetAPIToken(); token != "" {
		return token, nil
	}

	token := random.Seq(32)
	if err := s.settingRepo.Set(settingAPIToken, token); err != nil {
		return "", common.Wrap("SettingService.GetAPIToken", err)
	}
	logger.Infof("generated API token: %s", token)
	return token, nil
}

func (s *SettingService) SetAPIToken(token string) error {
	return s.settingRepo.Set(settingAPIToken, token)
}

func (s *SettingService) IsAccommodationOpen() (bool, error) {
	value, err := s.settingRepo.Get(settingAccommodationOpen)
	if err != nil {
		return false, common.Wrap("SettingService.IsAccommodationOpen", err)
	}
	return value == "true", nil
}

func (s *SettingService) SetAccommodationOpen(open bool) error {
	return s.settingRepo.Set(settingAccommodationOpen, strconv.FormatBool(open))
}

// Reset drops all stored settings, falling back to the static config.
func (s *SettingService) Reset() error {
	return s.settingRepo.DeleteAll()
}

// Show prints the effective settings for the `setting -show` subcommand.
func (s *SettingService) Show() (string, error) {
	port, err := s.GetPort()
	if err != nil {
		return "", err
	}
	listen, err := s.GetListen()
	if err != nil {
		return "", err
	}
	token, err := s.GetAPIToken()
	if err != nil {
		return "", err
	}
	open, err := s.IsAccommodationOpen()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("listen: %q\nport: %d\napiToken: %s\naccommodationOpen: %v\n", listen, port, token, open), nil
}
