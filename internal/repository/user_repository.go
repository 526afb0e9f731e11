package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gorev/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user together with user.Settings when set.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return wrap("create user", r.db.WithContext(ctx).Create(user).Error)
}

// ExistsByUsernameOrEmail reports whether any user has the given username or email.
// Matching is exact and case-sensitive.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, wrap("find user", err)
	}
	return count > 0, nil
}

// FindByLogin finds a user whose username or email equals login.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ? OR email = ?", login, login).
		Order("id ASC").First(&user).Error; err != nil {
		return nil, wrap("find user", err)
	}
	return &user, nil
}

// FindByID loads a user with its settings.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Settings").First(&user, id).Error; err != nil {
		return nil, wrap("find user", err)
	}
	return &user, nil
}

// Save writes the user's own columns; associations are left alone.
func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	return wrap("save user", r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error)
}

// Delete removes a user with its settings, tasks and achievement unlocks.
// Callers run it inside Store.Transaction so the cascade is all-or-nothing.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ?", id).Delete(&model.UserAchievement{}).Error; err != nil {
		return wrap("delete user achievements", err)
	}
	if err := db.Where("user_id = ?", id).Delete(&model.Task{}).Error; err != nil {
		return wrap("delete user tasks", err)
	}
	if err := db.Where("user_id = ?", id).Delete(&model.UserSettings{}).Error; err != nil {
		return wrap("delete user settings", err)
	}
	res := db.Delete(&model.User{}, id)
	if res.Error != nil {
		return wrap("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete user", gorm.ErrRecordNotFound)
	}
	return nil
}

// ListAll returns every user with settings.
func (r *UserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Preload("Settings").Order("id ASC").Find(&users).Error; err != nil {
		return nil, wrap("list users", err)
	}
	return users, nil
}
