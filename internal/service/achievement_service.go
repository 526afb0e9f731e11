package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"gorev/internal/model"
	"gorev/internal/repository"
)

// AchievementStatus is one catalog entry joined with the user's unlock.
type AchievementStatus struct {
	Achievement model.Achievement
	IsUnlocked  bool
	UnlockedAt  *time.Time
}

// AchievementService exposes the catalog and unlocks achievements.
type AchievementService struct {
	store   *repository.Store
	session *Session
	log     *log.Logger
	now     func() time.Time
}

func NewAchievementService(store *repository.Store, session *Session) *AchievementService {
	return &AchievementService{
		store:   store,
		session: session,
		log:     log.Default().WithPrefix("achievements"),
		now:     time.Now,
	}
}

// AllDefinitions returns the whole catalog, or nothing on a store error.
func (s *AchievementService) AllDefinitions(ctx context.Context) []model.Achievement {
	defs, err := s.store.Achievements.ListDefinitions(ctx)
	if err != nil {
		s.log.Error("Failed to list achievements", "error", err)
		return []model.Achievement{}
	}
	return defs
}

// UserEarned returns the session user's unlocks, newest first.
func (s *AchievementService) UserEarned(ctx context.Context) []model.UserAchievement {
	userID, ok := s.session.UserID()
	if !ok {
		return []model.UserAchievement{}
	}
	earned, err := s.store.Achievements.ListEarned(ctx, userID)
	if err != nil {
		s.log.Error("Failed to list earned achievements", "user_id", userID, "error", err)
		return []model.UserAchievement{}
	}
	return earned
}

// StatusForUser returns one entry per catalog definition.
func (s *AchievementService) StatusForUser(ctx context.Context) []AchievementStatus {
	defs := s.AllDefinitions(ctx)
	earned := lo.KeyBy(s.UserEarned(ctx), func(ua model.UserAchievement) uint {
		return ua.AchievementID
	})

	return lo.Map(defs, func(def model.Achievement, _ int) AchievementStatus {
		status := AchievementStatus{Achievement: def}
		if ua, ok := earned[def.ID]; ok {
			status.IsUnlocked = true
			status.UnlockedAt = lo.ToPtr(ua.UnlockedAt)
		}
		return status
	})
}

// Evaluate runs the rule engine for the session user and returns the new
// unlocks. Without a session it does nothing.
func (s *AchievementService) Evaluate(ctx context.Context, action Action) ([]model.UserAchievement, error) {
	userID, ok := s.session.UserID()
	if !ok {
		return nil, nil
	}

	var unlocked []model.UserAchievement
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		unlocked, err = s.evaluate(ctx, tx, userID, action)
		return err
	})
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}

// evaluate runs inside the caller's transaction. The earned set is re-read
// from tx so an achievement is never inserted twice for one user.
func (s *AchievementService) evaluate(ctx context.Context, tx *repository.Store, userID uint, action Action) ([]model.UserAchievement, error) {
	defs, err := tx.Achievements.ListDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	earned, err := tx.Achievements.EarnedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	in := &ruleInput{ctx: ctx, tx: tx, userID: userID, action: action}
	now := s.now().UTC()

	var unlocks []model.UserAchievement
	for _, def := range defs {
		if _, done := earned[def.ID]; done {
			continue
		}
		match, ok := rules[def.RuleKey]
		if !ok {
			continue
		}
		hit, err := match(in)
		if err != nil {
			return nil, err
		}
		if hit {
			unlocks = append(unlocks, model.UserAchievement{
				UserID:        userID,
				AchievementID: def.ID,
				UnlockedAt:    now,
			})
		}
	}

	if len(unlocks) == 0 {
		return nil, nil
	}
	if err := tx.Achievements.CreateUnlocks(ctx, unlocks); err != nil {
		return nil, err
	}

	byID := lo.KeyBy(defs, func(def model.Achievement) uint { return def.ID })
	for i := range unlocks {
		def := byID[unlocks[i].AchievementID]
		unlocks[i].Achievement = &def
		s.log.Info("Achievement unlocked", "user_id", userID, "rule", def.RuleKey, "name", def.Name)
	}
	return unlocks, nil
}
