package repository

import (
	"context"

	"github.com/charmbracelet/log"

	"gorev/internal/model"
)

// DefaultAchievements is the achievement catalog.
func DefaultAchievements() []model.Achievement {
	return []model.Achievement{
		{
			RuleKey:       model.RuleFirstCompletion,
			Name:          "Getting Started",
			Description:   "You completed your first task!",
			Tier:          model.TierBronze,
			BadgeIconName: "star.circle.fill",
		},
		{
			RuleKey:       model.RuleCompletions10,
			Name:          "Making Progress",
			Description:   "You made progress by completing 10 tasks",
			Tier:          model.TierSilver,
			BadgeIconName: "star.square.fill",
		},
		{
			RuleKey:       model.RuleCompletions25,
			Name:          "Expert",
			Description:   "You proved your expertise by completing 25 tasks!",
			Tier:          model.TierGold,
			BadgeIconName: "star.fill",
		},
		{
			RuleKey:       model.RuleCompletions50,
			Name:          "Champion",
			Description:   "You became a true champion by completing 50 tasks!",
			Tier:          model.TierPlatinum,
			BadgeIconName: "crown.fill",
		},
		{
			RuleKey:       model.RuleLoginStreak3,
			Name:          "On Fire",
			Description:   "You logged in 3 days in a row!",
			Tier:          model.TierSilver,
			BadgeIconName: "flame.fill",
		},
	}
}

// DefaultCategories are created when the category table is empty.
func DefaultCategories() []model.TaskCategory {
	return []model.TaskCategory{
		{Name: "Work", Description: "Work category", ColorHex: "#A470ED"},
		{Name: "Health", Description: "Health category", ColorHex: "#4CAF50"},
		{Name: "Personal", Description: "Personal category", ColorHex: "#2196F3"},
		{Name: "Home", Description: "Home category", ColorHex: "#FF9800"},
		{Name: "Education", Description: "Education category", ColorHex: "#E91E63"},
	}
}

// Seed inserts missing catalog entries and, on an empty category table, the
// default categories. It is safe to run repeatedly.
func Seed(ctx context.Context, store *Store) error {
	return store.Transaction(ctx, func(tx *Store) error {
		if err := tx.Achievements.EnsureDefinitions(ctx, DefaultAchievements()); err != nil {
			return err
		}

		count, err := tx.Categories.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			log.Debug("Categories present, skipping defaults", "count", count)
			return nil
		}
		for _, category := range DefaultCategories() {
			if err := tx.Categories.Create(ctx, &category); err != nil {
				return err
			}
		}
		log.Info("Seeded default categories", "count", len(DefaultCategories()))
		return nil
	})
}
