// Package model contains the database models:
// - registration.go: Registration
// - botuser.go: BotUser
// - setting.go: Setting
package model
