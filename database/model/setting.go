package model

// Setting is a key/value row for mutable runtime settings (web port, API
// token, accommodation phase flag).
type Setting struct {
	Id    int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Key   string `json:"key" gorm:"column:key;uniqueIndex;size:64"`
	Value string `json:"value" gorm:"column:value"`
}
