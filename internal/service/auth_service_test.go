package service

import (
	"strings"
	"time"

	"gorev/internal/model"
	"gorev/internal/repository"
)

func (s *ServiceSuite) TestRegister_DuplicateIdentity() {
	s.register("alice")

	_, err := s.auth.Register(s.ctx, RegisterInput{Username: "alice", Email: "other@x.com", Password: testPassword})
	s.ErrorIs(err, ErrDuplicateIdentity)

	_, err = s.auth.Register(s.ctx, RegisterInput{Username: "alice2", Email: "alice@x.com", Password: testPassword})
	s.ErrorIs(err, ErrDuplicateIdentity)

	// Matching is case-sensitive.
	_, err = s.auth.Register(s.ctx, RegisterInput{Username: "Alice", Email: "Alice@x.com", Password: testPassword})
	s.NoError(err)
}

func (s *ServiceSuite) TestRegister_InvalidInput() {
	tests := []RegisterInput{
		{Username: "al", Email: "al@x.com", Password: testPassword},
		{Username: "alice", Email: "not-an-email", Password: testPassword},
		{Username: "alice", Email: "alice@x.com", Password: "12345"},
	}
	for _, input := range tests {
		_, err := s.auth.Register(s.ctx, input)
		s.ErrorIs(err, ErrInvalidInput, input)
	}
}

func (s *ServiceSuite) TestRegister_CreatesDefaultSettings() {
	user := s.register("alice")

	s.False(s.auth.IsLoggedIn())
	s.True(strings.HasPrefix(user.PasswordHash, "$argon2id$"))
	s.NotContains(user.PasswordHash, testPassword)

	stored, err := s.store.Users.FindByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.Settings)
	s.Equal(model.NotifyImportantOnly, stored.Settings.NotificationPreference)
	s.Equal("dark", stored.Settings.Theme)
	s.Equal("tr", stored.Settings.Language)
	s.True(stored.Settings.ShowDueDates)
	s.Nil(stored.Settings.ReminderTime)
}

func (s *ServiceSuite) TestLogin() {
	s.register("alice")

	user, err := s.auth.Login(s.ctx, "alice", testPassword)
	s.Require().NoError(err)
	s.Equal("alice", user.Username)
	s.True(s.auth.IsLoggedIn())
	s.NotEmpty(s.session.ID())

	current := s.auth.CurrentUser(s.ctx)
	s.Require().NotNil(current)
	s.Equal(user.ID, current.ID)
	s.NotNil(current.Settings)
}

func (s *ServiceSuite) TestLogin_ByEmail() {
	s.register("alice")

	user, err := s.auth.Login(s.ctx, "alice@x.com", testPassword)
	s.Require().NoError(err)
	s.Equal("alice", user.Username)
}

func (s *ServiceSuite) TestLogin_WrongPasswordKeepsSession() {
	s.register("alice")
	bob := s.registerAndLogin("bob")

	_, err := s.auth.Login(s.ctx, "alice", "wrongpw")
	s.ErrorIs(err, ErrInvalidCredentials)

	current := s.auth.CurrentUser(s.ctx)
	s.Require().NotNil(current)
	s.Equal(bob.ID, current.ID)

	stored, err := s.store.Users.FindByLogin(s.ctx, "alice")
	s.Require().NoError(err)
	s.Nil(stored.LastLoginAt)
}

func (s *ServiceSuite) TestLogin_UnknownUser() {
	_, err := s.auth.Login(s.ctx, "nobody", testPassword)
	s.ErrorIs(err, ErrNotFound)
	s.False(s.auth.IsLoggedIn())
}

func (s *ServiceSuite) TestLogout_Idempotent() {
	s.registerAndLogin("alice")

	s.auth.Logout(s.ctx)
	s.False(s.auth.IsLoggedIn())
	s.Nil(s.auth.CurrentUser(s.ctx))
	s.Empty(s.session.ID())

	s.auth.Logout(s.ctx)
	s.False(s.auth.IsLoggedIn())
}

func (s *ServiceSuite) TestCurrentUser_RefetchesFromStore() {
	user := s.registerAndLogin("alice")

	user.Username = "changed-in-memory"
	s.Equal("alice", s.auth.CurrentUser(s.ctx).Username)

	s.Require().NoError(s.store.Transaction(s.ctx, func(tx *repository.Store) error {
		return tx.Users.Delete(s.ctx, user.ID)
	}))
	s.Nil(s.auth.CurrentUser(s.ctx))
	s.True(s.auth.IsLoggedIn())
}

func (s *ServiceSuite) TestLogin_StreakUnlocksAchievement() {
	s.register("alice")

	login := func() *model.User {
		user, err := s.auth.Login(s.ctx, "alice", testPassword)
		s.Require().NoError(err)
		return user
	}

	s.Equal(1, login().LoginStreak)
	s.clock = s.clock.Add(2 * time.Hour)
	s.Equal(1, login().LoginStreak)

	s.clock = s.clock.AddDate(0, 0, 1)
	s.Equal(2, login().LoginStreak)
	s.NotContains(s.earnedKeys(), model.RuleLoginStreak3)

	s.clock = s.clock.AddDate(0, 0, 1)
	s.Equal(3, login().LoginStreak)
	s.Equal([]model.RuleKey{model.RuleLoginStreak3}, s.earnedKeys())

	s.clock = s.clock.AddDate(0, 0, 1)
	s.Equal(4, login().LoginStreak)
	s.Len(s.earnedKeys(), 1)

	s.clock = s.clock.AddDate(0, 0, 3)
	s.Equal(1, login().LoginStreak)
}

func (s *ServiceSuite) TestDeleteAccount() {
	s.Require().ErrorIs(s.auth.DeleteAccount(s.ctx), ErrNotAuthenticated)

	alice := s.registerAndLogin("alice")
	task := s.createTask("Buy milk", "Home")
	_, err := s.tasks.CompleteTask(s.ctx, task)
	s.Require().NoError(err)

	s.Require().NoError(s.auth.DeleteAccount(s.ctx))
	s.False(s.auth.IsLoggedIn())

	_, err = s.store.Users.FindByID(s.ctx, alice.ID)
	s.ErrorIs(err, ErrNotFound)
	tasks, err := s.store.Tasks.List(s.ctx, repository.TaskFilter{UserID: alice.ID})
	s.Require().NoError(err)
	s.Empty(tasks)
	earned, err := s.store.Achievements.ListEarned(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Empty(earned)

	// Shared reference data survives.
	_, err = s.store.Categories.FindByName(s.ctx, "Home")
	s.NoError(err)
}

func (s *ServiceSuite) TestIndependentSessions() {
	s.register("bob")
	alice := s.registerAndLogin("alice")

	other := NewSession()
	otherAuth := NewAuthService(s.store, other, s.hasher, NewAchievementService(s.store, other))
	bob, err := otherAuth.Login(s.ctx, "bob", testPassword)
	s.Require().NoError(err)

	s.Equal(alice.ID, s.auth.CurrentUser(s.ctx).ID)
	s.Equal(bob.ID, otherAuth.CurrentUser(s.ctx).ID)

	otherAuth.Logout(s.ctx)
	s.True(s.auth.IsLoggedIn())
}

func (s *ServiceSuite) TestIdentityTaken_UniqueIndexViolation() {
	s.register("alice")

	// Bypasses the existence check the way a concurrent writer would.
	err := s.store.Users.Create(s.ctx, &model.User{Username: "alice", Email: "late@x.com", PasswordHash: "x"})
	s.Require().Error(err)

	err = identityTaken(err)
	s.ErrorIs(err, ErrDuplicateIdentity)
	var storeErr *StoreError
	s.ErrorAs(err, &storeErr)

	s.NoError(identityTaken(nil))
	s.NotErrorIs(identityTaken(ErrNotFound), ErrDuplicateIdentity)
}
