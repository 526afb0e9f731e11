package service

import (
	"github.com/samber/lo"

	"gorev/internal/model"
)

func (s *ServiceSuite) TestCategory_Create() {
	category, err := s.categories.Create(s.ctx, CategoryInput{Name: "Garden", ColorHex: "#00FF00"})
	s.Require().NoError(err)
	s.Equal("#00FF00", category.ColorHex)

	plain, err := s.categories.Create(s.ctx, CategoryInput{Name: "Music"})
	s.Require().NoError(err)
	s.Equal(model.DefaultCategoryColor, plain.ColorHex)

	_, err = s.categories.Create(s.ctx, CategoryInput{Name: "Garden"})
	s.ErrorIs(err, ErrDuplicateIdentity)

	_, err = s.categories.Create(s.ctx, CategoryInput{Name: "Paint", ColorHex: "green"})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.categories.Create(s.ctx, CategoryInput{})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *ServiceSuite) TestCategory_List() {
	names := lo.Map(s.categories.List(s.ctx), func(c model.TaskCategory, _ int) string { return c.Name })
	s.Equal([]string{"Education", "Health", "Home", "Personal", "Work"}, names)
}

func (s *ServiceSuite) TestCategory_Update() {
	garden, err := s.categories.Create(s.ctx, CategoryInput{Name: "Garden"})
	s.Require().NoError(err)

	updated, err := s.categories.Update(s.ctx, garden.ID, CategoryUpdate{
		Name:     lo.ToPtr("Yard"),
		ColorHex: lo.ToPtr("#123456"),
	})
	s.Require().NoError(err)
	s.Equal("Yard", updated.Name)
	s.Equal("#123456", updated.ColorHex)
	s.Equal("", updated.Description)

	_, err = s.categories.Update(s.ctx, garden.ID, CategoryUpdate{Name: lo.ToPtr("Work")})
	s.ErrorIs(err, ErrDuplicateIdentity)

	_, err = s.categories.Update(s.ctx, 9999, CategoryUpdate{Name: lo.ToPtr("Nope")})
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestCategory_DeleteKeepsTasks() {
	s.registerAndLogin("alice")
	task := s.createTask("Buy milk", "Home")
	homeID := *task.CategoryID

	s.Require().NoError(s.categories.Delete(s.ctx, homeID))

	reloaded, err := s.tasks.GetTask(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Nil(reloaded.CategoryID)
	s.Nil(reloaded.Category)
	s.Len(s.tasks.FetchUserTasks(s.ctx, TaskQuery{}), 1)

	s.ErrorIs(s.categories.Delete(s.ctx, homeID), ErrNotFound)
}
