package model

import "time"

// AchievementTier ranks badges.
type AchievementTier string

const (
	TierBronze   AchievementTier = "BRONZE"
	TierSilver   AchievementTier = "SILVER"
	TierGold     AchievementTier = "GOLD"
	TierPlatinum AchievementTier = "PLATINUM"
)

// RuleKey is the stable identifier the unlock engine matches definitions by.
// Display names may change; rule keys must not.
type RuleKey string

const (
	RuleFirstCompletion RuleKey = "first_completion"
	RuleCompletions10   RuleKey = "completions_10"
	RuleCompletions25   RuleKey = "completions_25"
	RuleCompletions50   RuleKey = "completions_50"
	RuleLoginStreak3    RuleKey = "login_streak_3"
)

// Achievement is a catalog entry. The catalog is seeded once.
type Achievement struct {
	ID            uint            `gorm:"primaryKey"`
	RuleKey       RuleKey         `gorm:"uniqueIndex;not null"`
	Name          string          `gorm:"uniqueIndex;not null"`
	Description   string
	Tier          AchievementTier `gorm:"not null"`
	BadgeIconName string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Unlocks []UserAchievement `gorm:"constraint:OnDelete:CASCADE;"`
}

// UserAchievement records that a user unlocked an achievement.
type UserAchievement struct {
	ID            uint         `gorm:"primaryKey"`
	UserID        uint         `gorm:"not null;index:idx_user_achievement,unique"`
	AchievementID uint         `gorm:"not null;index:idx_user_achievement,unique"`
	Achievement   *Achievement `gorm:"foreignKey:AchievementID"`
	UnlockedAt    time.Time    `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
