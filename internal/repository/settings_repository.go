package repository

import (
	"context"

	"gorm.io/gorm"

	"gorev/internal/model"
)

// SettingsRepository reads and writes UserSettings rows.
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) FindByUserID(ctx context.Context, userID uint) (*model.UserSettings, error) {
	var settings model.UserSettings
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return nil, wrap("find settings", err)
	}
	return &settings, nil
}

// Save inserts or updates the row.
func (r *SettingsRepository) Save(ctx context.Context, settings *model.UserSettings) error {
	return wrap("save settings", r.db.WithContext(ctx).Save(settings).Error)
}
