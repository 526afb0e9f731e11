package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gorev/internal/model"
)

// AchievementRepository reads the achievement catalog and records unlocks.
type AchievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) ListDefinitions(ctx context.Context) ([]model.Achievement, error) {
	var achievements []model.Achievement
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&achievements).Error; err != nil {
		return nil, wrap("list achievements", err)
	}
	return achievements, nil
}

// ListEarned returns the user's unlocks with achievements, newest first.
func (r *AchievementRepository) ListEarned(ctx context.Context, userID uint) ([]model.UserAchievement, error) {
	var earned []model.UserAchievement
	if err := r.db.WithContext(ctx).Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").Order("id DESC").
		Find(&earned).Error; err != nil {
		return nil, wrap("list user achievements", err)
	}
	return earned, nil
}

// EarnedIDs returns the set of achievement ids the user has unlocked.
func (r *AchievementRepository) EarnedIDs(ctx context.Context, userID uint) (map[uint]struct{}, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&model.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error; err != nil {
		return nil, wrap("list user achievements", err)
	}

	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// CreateUnlocks inserts all unlock records in one statement.
func (r *AchievementRepository) CreateUnlocks(ctx context.Context, unlocks []model.UserAchievement) error {
	if len(unlocks) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&unlocks).Error; err != nil {
		return wrap("create user achievements", err)
	}
	return nil
}

// EnsureDefinitions inserts catalog entries whose rule key and name are not present yet.
func (r *AchievementRepository) EnsureDefinitions(ctx context.Context, defs []model.Achievement) error {
	if len(defs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&defs).Error; err != nil {
		return wrap("seed achievements", err)
	}
	return nil
}
