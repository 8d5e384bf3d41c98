package repository

import (
	"favor-bot/database/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BotUserRepository tracks every chat that opened the bot and the
// persisted admin flags.
type BotUserRepository interface {
	Touch(userID int64, firstName string) error
	SetAdmin(userID int64, isAdmin bool) error
	IsAdmin(userID int64) (bool, error)
	AdminIDs() ([]int64, error)
	AllIDs() ([]int64, error)
	Count() (int64, error)
}

type botUserRepository struct {
	db *gorm.DB
}

func NewBotUserRepository(db *gorm.DB) BotUserRepository {
	return &botUserRepository{db: db}
}

// Touch records the chat if it is new; an existing row is left untouched
// so the admin flag survives repeated /start.
func (r *botUserRepository) Touch(userID int64, firstName string) error {
	user := &model.BotUser{UserID: userID, FirstName: firstName}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(user).Error
}

func (r *botUserRepository) SetAdmin(userID int64, isAdmin bool) error {
	return r.db.Model(model.BotUser{}).Where("user_id = ?", userID).Update("is_admin", isAdmin).Error
}

func (r *botUserRepository) IsAdmin(userID int64) (bool, error) {
	user := &model.BotUser{}
	err := r.db.Model(model.BotUser{}).Where("user_id = ?", userID).First(user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin, nil
}

func (r *botUserRepository) AdminIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(model.BotUser{}).Where("is_admin = ?", true).Pluck("user_id", &ids).Error
	return ids, err
}

func (r *botUserRepository) AllIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(model.BotUser{}).Pluck("user_id", &ids).Error
	return ids, err
}

func (r *botUserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(model.BotUser{}).Count(&count).Error
	return count, err
}
