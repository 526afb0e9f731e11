package model

import "time"

// NotificationPreference controls which reminders a user receives.
type NotificationPreference string

const (
	NotifyAll           NotificationPreference = "ALL"
	NotifyImportantOnly NotificationPreference = "IMPORTANT_ONLY"
	NotifyNever         NotificationPreference = "NEVER"
)

// UserSettings holds all settings specific to a user.
type UserSettings struct {
	ID                     uint                   `gorm:"primaryKey"`
	UserID                 uint                   `gorm:"uniqueIndex;not null"`
	NotificationPreference NotificationPreference `gorm:"not null"`
	Theme                  string                 `gorm:"not null"`
	Language               string                 `gorm:"not null"`
	ShowDueDates           bool
	ReminderTime           *string // HH:MM
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// DefaultUserSettings returns the settings every new user starts with.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		NotificationPreference: NotifyImportantOnly,
		Theme:                  "dark",
		Language:               "tr",
		ShowDueDates:           true,
	}
}
