package service

import (
	"context"
	"errors"

	"gorev/internal/model"
	"gorev/internal/repository"
)

// SettingsUpdate carries the fields to change; nil fields are left alone.
type SettingsUpdate struct {
	NotificationPreference *model.NotificationPreference `validate:"omitempty,oneof=ALL IMPORTANT_ONLY NEVER"`
	Theme                  *string                       `validate:"omitempty,oneof=dark light system"`
	Language               *string                       `validate:"omitempty,min=2,max=8"`
	ShowDueDates           *bool
	ReminderTime           *string
	ClearReminderTime      bool
}

// SettingsService reads and writes the session user's settings.
type SettingsService struct {
	store   *repository.Store
	session *Session
}

func NewSettingsService(store *repository.Store, session *Session) *SettingsService {
	return &SettingsService{store: store, session: session}
}

// Get returns the session user's settings, creating defaults when missing.
func (s *SettingsService) Get(ctx context.Context) (*model.UserSettings, error) {
	userID, ok := s.session.UserID()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	var settings *model.UserSettings
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		settings, err = loadOrDefault(ctx, tx, userID)
		return err
	})
	return settings, err
}

func (s *SettingsService) Update(ctx context.Context, update SettingsUpdate) (*model.UserSettings, error) {
	userID, ok := s.session.UserID()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	if err := validateInput(update); err != nil {
		return nil, err
	}
	if update.ReminderTime != nil {
		if _, _, err := ParseClock(*update.ReminderTime); err != nil {
			return nil, errors.Join(ErrInvalidInput, err)
		}
	}

	var settings *model.UserSettings
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		settings, err = loadOrDefault(ctx, tx, userID)
		if err != nil {
			return err
		}

		if update.NotificationPreference != nil {
			settings.NotificationPreference = *update.NotificationPreference
		}
		if update.Theme != nil {
			settings.Theme = *update.Theme
		}
		if update.Language != nil {
			settings.Language = *update.Language
		}
		if update.ShowDueDates != nil {
			settings.ShowDueDates = *update.ShowDueDates
		}
		switch {
		case update.ClearReminderTime:
			settings.ReminderTime = nil
		case update.ReminderTime != nil:
			settings.ReminderTime = update.ReminderTime
		}
		return tx.Settings.Save(ctx, settings)
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func loadOrDefault(ctx context.Context, tx *repository.Store, userID uint) (*model.UserSettings, error) {
	settings, err := tx.Settings.FindByUserID(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	defaults := model.DefaultUserSettings()
	defaults.UserID = userID
	if err := tx.Settings.Save(ctx, &defaults); err != nil {
		return nil, err
	}
	return &defaults, nil
}
