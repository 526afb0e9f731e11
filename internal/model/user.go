package model

import "time"

// User is an account owning tasks, achievement unlocks and settings.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null" json:"-"`
	LastLoginAt  *time.Time
	LoginStreak  int
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Settings     *UserSettings     `gorm:"constraint:OnDelete:CASCADE;"`
	Tasks        []Task            `gorm:"constraint:OnDelete:CASCADE;"`
	Achievements []UserAchievement `gorm:"constraint:OnDelete:CASCADE;"`
}

// NextLoginStreak returns the streak after a login at now, given the previous
// login time. Days are compared in UTC.
func NextLoginStreak(last *time.Time, streak int, now time.Time) int {
	if last == nil || streak <= 0 {
		return 1
	}
	prev := truncateDay(last.UTC())
	today := truncateDay(now.UTC())
	switch {
	case today.Equal(prev):
		return streak
	case today.Equal(prev.AddDate(0, 0, 1)):
		return streak + 1
	default:
		return 1
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
