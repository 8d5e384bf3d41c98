package repository

import (
	"time"

	"favor-bot/database/model"

	"gorm.io/gorm"
)

// RegistrationRepository is the data access layer for registrations.
type RegistrationRepository interface {
	Create(reg *model.Registration) error
	FindByRegID(regID string) (*model.Registration, error)
	FindByUserID(userID int64) (*model.Registration, error)
	All() ([]*model.Registration, error)
	Count() (int64, error)
	CountCheckedIn() (int64, error)
	CountHoused() (int64, error)
	CountInRoom(room int) (int64, error)
	RoomOccupancy() (map[int]int64, error)
	UpdateRoom(userID int64, room int) error
	MarkCheckedIn(regID string, at time.Time) error

	GetDB() *gorm.DB
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *registrationRepository) Create(reg *model.Registration) error {
	return r.db.Create(reg).Error
}

func (r *registrationRepository) FindByRegID(regID string) (*model.Registration, error) {
	reg := &model.Registration{}
	err := r.db.Model(model.Registration{}).Where("reg_id = ?", regID).First(reg).Error
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) FindByUserID(userID int64) (*model.Registration, error) {
	reg := &model.Registration{}
	err := r.db.Model(model.Registration{}).Where("user_id = ?", userID).First(reg).Error
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) All() ([]*model.Registration, error) {
	var regs []*model.Registration
	err := r.db.Model(model.Registration{}).Order("created_at").Find(&regs).Error
	return regs, err
}

func (r *registrationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(model.Registration{}).Count(&count).Error
	return count, err
}

func (r *registrationRepository) CountCheckedIn() (int64, error) {
	var count int64
	err := r.db.Model(model.Registration{}).Where("checked_in = ?", true).Count(&count).Error
	return count, err
}

func (r *registrationRepository) CountHoused() (int64, error) {
	var count int64
	err := r.db.Model(model.Registration{}).Where("room_no > 0").Count(&count).Error
	return count, err
}

func (r *registrationRepository) CountInRoom(room int) (int64, error) {
	var count int64
	err := r.db.Model(model.Registration{}).Where("room_no = ?", room).Count(&count).Error
	return count, err
}

func (r *registrationRepository) RoomOccupancy() (map[int]int64, error) {
	type roomCount struct {
		RoomNo int
		Total  int64
	}
	var rows []roomCount
	err := r.db.Model(model.Registration{}).
		Select("room_no, count(*) as total").
		Where("room_no > 0").
		Group("room_no").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	occupancy := make(map[int]int64, len(rows))
	for _, row := range rows {
		occupancy[row.RoomNo] = row.Total
	}
	return occupancy, nil
}

func (r *registrationRepository) UpdateRoom(userID int64, room int) error {
	return r.db.Model(model.Registration{}).Where("user_id = ?", userID).Update("room_no", room).Error
}

func (r *registrationRepository) MarkCheckedIn(regID string, at time.Time) error {
	return r.db.Model(model.Registration{}).Where("reg_id = ?", regID).
		Updates(map[string]any{"checked_in": true, "checked_in_at": at}).Error
}
