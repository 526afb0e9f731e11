package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"gorev/internal/model"
	"gorev/internal/repository"
)

// CategoryInput is the data required to create a category.
type CategoryInput struct {
	Name        string `validate:"required,max=64"`
	Description string
	ColorHex    string `validate:"omitempty,hexcolor"`
}

// CategoryUpdate carries the fields to change; nil fields are left alone.
type CategoryUpdate struct {
	Name        *string `validate:"omitempty,min=1,max=64"`
	Description *string
	ColorHex    *string `validate:"omitempty,hexcolor"`
}

// CategoryService provides helpers around the shared category list.
type CategoryService struct {
	store *repository.Store
	log   *log.Logger
}

func NewCategoryService(store *repository.Store) *CategoryService {
	return &CategoryService{store: store, log: log.Default().WithPrefix("categories")}
}

// FindOrCreate returns the category with exactly this name, creating it if needed.
// An empty name yields nil.
func (s *CategoryService) FindOrCreate(ctx context.Context, name string) (*model.TaskCategory, error) {
	var category *model.TaskCategory
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		category, err = tx.Categories.GetOrCreate(ctx, name)
		return err
	})
	return category, err
}

// List returns all categories by name, or nothing on a store error.
func (s *CategoryService) List(ctx context.Context) []model.TaskCategory {
	categories, err := s.store.Categories.List(ctx)
	if err != nil {
		s.log.Error("Failed to list categories", "error", err)
		return []model.TaskCategory{}
	}
	return categories
}

func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*model.TaskCategory, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	category := &model.TaskCategory{
		Name:        input.Name,
		Description: input.Description,
		ColorHex:    input.ColorHex,
	}
	if category.ColorHex == "" {
		category.ColorHex = model.DefaultCategoryColor
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := ensureNameFree(ctx, tx, input.Name, 0); err != nil {
			return err
		}
		return tx.Categories.Create(ctx, category)
	})
	if err != nil {
		return nil, identityTaken(err)
	}
	return category, nil
}

// Update renames or recolours a category.
func (s *CategoryService) Update(ctx context.Context, id uint, update CategoryUpdate) (*model.TaskCategory, error) {
	if err := validateInput(update); err != nil {
		return nil, err
	}

	var category *model.TaskCategory
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		category, err = tx.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}

		changed := false
		if update.Name != nil && *update.Name != category.Name {
			if err := ensureNameFree(ctx, tx, *update.Name, id); err != nil {
				return err
			}
			category.Name = *update.Name
			changed = true
		}
		if update.Description != nil && *update.Description != category.Description {
			category.Description = *update.Description
			changed = true
		}
		if update.ColorHex != nil && *update.ColorHex != category.ColorHex {
			category.ColorHex = *update.ColorHex
			changed = true
		}
		if !changed {
			return nil
		}
		return tx.Categories.Save(ctx, category)
	})
	if err != nil {
		return nil, identityTaken(err)
	}
	return category, nil
}

// Delete removes a category. Its tasks stay, uncategorized.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Tasks.ClearCategory(ctx, id); err != nil {
			return err
		}
		return tx.Categories.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("Category deleted", "category_id", id)
	return nil
}

func ensureNameFree(ctx context.Context, tx *repository.Store, name string, selfID uint) error {
	existing, err := tx.Categories.FindByName(ctx, name)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return fmt.Errorf("%w: category %q already exists", ErrDuplicateIdentity, name)
	default:
		return nil
	}
}
