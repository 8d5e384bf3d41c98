package repository

import (
	"favor-bot/database/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository stores mutable runtime settings as key/value rows.
type SettingRepository interface {
	Get(key string) (string, error)
	Set(key string, value string) error
	DeleteAll() error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// Get returns the stored value, or "" without error when the key has
// never been set.
func (r *settingRepository) Get(key string) (string, error) {
	setting := &model.Setting{}
	err := r.db.Model(model.Setting{}).Where("key = ?", key).First(setting).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}

func (r *settingRepository) Set(key string, value string) error {
	setting := &model.Setting{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(setting).Error
}

func (r *settingRepository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&model.Setting{}).Error
}
