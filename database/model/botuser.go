package model

import "time"

// BotUser is every chat that ever opened the bot. The row doubles as the
// "bot opened" statistic and carries the persisted admin flag so admin
// sessions survive restarts.
type BotUser struct {
	UserID    int64     `json:"userId" gorm:"column:user_id;primaryKey"`
	FirstName string    `json:"firstName" gorm:"column:first_name"`
	IsAdmin   bool      `json:"isAdmin" gorm:"column:is_admin;default:false"`
	CreatedAt time.Time `json:"createdAt"`
}
