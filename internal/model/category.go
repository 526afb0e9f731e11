package model

import "time"

// DefaultCategoryColor is used when a category is created without a colour.
const DefaultCategoryColor = "#A287E7"

// TaskCategory groups tasks by area (work, health, study, etc.).
// Categories are shared between users.
type TaskCategory struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	ColorHex    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Tasks       []Task `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
}
