package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"gorev/internal/model"
	"gorev/internal/repository"
)

// RegisterInput is the data required to create an account.
type RegisterInput struct {
	Username string `validate:"required,min=3,max=32"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// AuthService manages accounts and the session.
type AuthService struct {
	store        *repository.Store
	session      *Session
	hasher       PasswordHasher
	achievements *AchievementService
	log          *log.Logger
	now          func() time.Time
}

func NewAuthService(store *repository.Store, session *Session, hasher PasswordHasher, achievements *AchievementService) *AuthService {
	return &AuthService{
		store:        store,
		session:      session,
		hasher:       hasher,
		achievements: achievements,
		log:          log.Default().WithPrefix("auth"),
		now:          time.Now,
	}
}

// Register creates a user with default settings. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	settings := model.DefaultUserSettings()
	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Settings:     &settings,
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		exists, err := tx.Users.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: username or email already registered", ErrDuplicateIdentity)
		}
		return tx.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, identityTaken(err)
	}

	s.log.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login authenticates by username or email, updates the login streak and
// evaluates streak achievements, then starts the session.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*model.User, error) {
	var user *model.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		user, err = tx.Users.FindByLogin(ctx, usernameOrEmail)
		if err != nil {
			return err
		}

		ok, err := s.hasher.Verify(user.PasswordHash, password)
		if err != nil {
			return fmt.Errorf("verify password: %w", err)
		}
		if !ok {
			return ErrInvalidCredentials
		}

		now := s.now().UTC()
		user.LoginStreak = model.NextLoginStreak(user.LastLoginAt, user.LoginStreak, now)
		user.LastLoginAt = &now
		if err := tx.Users.Save(ctx, user); err != nil {
			return err
		}

		_, err = s.achievements.evaluate(ctx, tx, user.ID, LoginStreak{Days: user.LoginStreak})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.log.Warn("Login rejected", "login", usernameOrEmail)
		}
		return nil, err
	}

	s.session.set(user.ID)
	s.log.Info("User logged in", "user_id", user.ID, "session", s.session.ID(), "streak", user.LoginStreak)
	return user, nil
}

// Logout clears the session. Calling it without a session is fine.
func (s *AuthService) Logout(ctx context.Context) {
	if userID, ok := s.session.UserID(); ok {
		s.log.Info("User logged out", "user_id", userID, "session", s.session.ID())
	}
	s.session.clear()
}

// CurrentUser re-reads the session user from the store.
func (s *AuthService) CurrentUser(ctx context.Context) *model.User {
	userID, ok := s.session.UserID()
	if !ok {
		return nil
	}
	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error("Failed to load current user", "user_id", userID, "error", err)
		}
		return nil
	}
	return user
}

func (s *AuthService) IsLoggedIn() bool {
	_, ok := s.session.UserID()
	return ok
}

// DeleteAccount removes the session user with tasks, unlocks and settings,
// then logs out.
func (s *AuthService) DeleteAccount(ctx context.Context) error {
	userID, ok := s.session.UserID()
	if !ok {
		return ErrNotAuthenticated
	}

	if err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Users.Delete(ctx, userID)
	}); err != nil {
		return err
	}

	s.log.Info("Account deleted", "user_id", userID)
	s.session.clear()
	return nil
}
