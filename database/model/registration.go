package model

import "time"

// Gender values stored on a registration. The Russian labels are what the
// bot shows and what the room split is keyed on.
const (
	GenderMale   = "Мужской"
	GenderFemale = "Женский"
)

// Registration is one participant of the event. RegID is the public
// identifier encoded into the participant's QR code; UserID ties the
// registration to a telegram account, one registration per account.
type Registration struct {
	Id          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	RegID       string    `json:"regId" gorm:"column:reg_id;uniqueIndex;size:36"`
	UserID      int64     `json:"userId" gorm:"column:user_id;uniqueIndex"`
	Name        string    `json:"name"`
	Days        int       `json:"days"`
	ArrivalDate string    `json:"arrivalDate" gorm:"column:arrival_date"`
	City        string    `json:"city"`
	Nick        string    `json:"nick"`
	Phone       string    `json:"phone"`
	BirthDate   string    `json:"birthDate" gorm:"column:birth_date"`
	Gender      string    `json:"gender"`
	RoomNo      int       `json:"roomNo" gorm:"column:room_no;default:0"`
	CheckedIn   bool      `json:"checkedIn" gorm:"column:checked_in;default:false"`
	CheckedInAt time.Time `json:"checkedInAt" gorm:"column:checked_in_at"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (r *Registration) Housed() bool {
	return r.RoomNo > 0
}
