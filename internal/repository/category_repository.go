package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gorev/internal/model"
)

// CategoryRepository manages task categories. Categories are shared by all users.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetOrCreate finds a category by exact name or creates it with an
// auto-generated description and the default colour.
func (r *CategoryRepository) GetOrCreate(ctx context.Context, name string) (*model.TaskCategory, error) {
	if name == "" {
		return nil, nil
	}

	var category model.TaskCategory
	db := r.db.WithContext(ctx)
	err := db.Where("name = ?", name).First(&category).Error
	switch {
	case err == nil:
		return &category, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		category = model.TaskCategory{
			Name:        name,
			Description: fmt.Sprintf("%s category", name),
			ColorHex:    model.DefaultCategoryColor,
		}
		if err := db.Omit(clause.Associations).Create(&category).Error; err != nil {
			return nil, wrap("create category", err)
		}
		return &category, nil
	default:
		return nil, wrap("find category", err)
	}
}

// FindByName returns the category with the exact name.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*model.TaskCategory, error) {
	var category model.TaskCategory
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, wrap("find category", err)
	}
	return &category, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*model.TaskCategory, error) {
	var category model.TaskCategory
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, wrap("find category", err)
	}
	return &category, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.TaskCategory, error) {
	var categories []model.TaskCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, wrap("list categories", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.TaskCategory{}).Count(&count).Error; err != nil {
		return 0, wrap("count categories", err)
	}
	return count, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.TaskCategory) error {
	return wrap("create category", r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error)
}

func (r *CategoryRepository) Save(ctx context.Context, category *model.TaskCategory) error {
	return wrap("save category", r.db.WithContext(ctx).Omit(clause.Associations).Save(category).Error)
}

// Delete removes the category row. Tasks must be detached first, see
// TaskRepository.ClearCategory.
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.TaskCategory{}, id)
	if res.Error != nil {
		return wrap("delete category", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete category", gorm.ErrRecordNotFound)
	}
	return nil
}
