package service

import (
	"time"

	"github.com/samber/lo"

	"gorev/internal/model"
)

func (s *ServiceSuite) TestTasks_RequireSession() {
	tasks := s.tasks.FetchUserTasks(s.ctx, TaskQuery{})
	s.NotNil(tasks)
	s.Empty(tasks)

	_, err := s.tasks.CreateTask(s.ctx, TaskInput{Title: "x", Difficulty: model.DifficultyBeginner})
	s.ErrorIs(err, ErrNotAuthenticated)

	_, err = s.tasks.UpdateTask(s.ctx, &model.Task{ID: 1}, TaskUpdate{Title: lo.ToPtr("y")})
	s.ErrorIs(err, ErrNotAuthenticated)

	s.ErrorIs(s.tasks.DeleteTask(s.ctx, &model.Task{ID: 1}), ErrNotAuthenticated)

	_, err = s.tasks.GetTask(s.ctx, 1)
	s.ErrorIs(err, ErrNotAuthenticated)

	s.Zero(s.tasks.Summary(s.ctx).Total)
}

func (s *ServiceSuite) TestCreateTask() {
	user := s.registerAndLogin("alice")
	due := time.Date(2026, 3, 12, 18, 0, 0, 0, time.FixedZone("TRT", 3*3600))

	task := s.createTask("Write report", "Work", func(in *TaskInput) {
		in.Description = "quarterly"
		in.Difficulty = model.DifficultyAdvanced
		in.DueDate = &due
	})

	s.NotZero(task.ID)
	s.Equal(user.ID, *task.UserID)
	s.Equal(model.StatusNotStarted, task.Status)
	s.Require().NotNil(task.Category)
	s.Equal("Work", task.Category.Name)
	s.True(task.DueDate.Equal(due))
	s.Equal(time.UTC, task.DueDate.Location())
	s.Equal(150*time.Minute, task.EstimatedEffort())
}

func (s *ServiceSuite) TestCreateTask_ReusesCategory() {
	s.registerAndLogin("alice")

	first := s.createTask("one", "Gym")
	second := s.createTask("two", "Gym")
	third := s.createTask("three", "gym")

	s.Equal(*first.CategoryID, *second.CategoryID)
	s.NotEqual(*first.CategoryID, *third.CategoryID)
	s.Equal("Gym category", first.Category.Description)
	s.Equal(model.DefaultCategoryColor, first.Category.ColorHex)

	gyms := lo.Filter(s.categories.List(s.ctx), func(c model.TaskCategory, _ int) bool { return c.Name == "Gym" })
	s.Len(gyms, 1)
}

func (s *ServiceSuite) TestCreateTask_EmptyCategory() {
	s.registerAndLogin("alice")

	task := s.createTask("loose", "")
	s.Nil(task.CategoryID)
	s.Nil(task.Category)
}

func (s *ServiceSuite) TestCreateTask_InvalidInput() {
	s.registerAndLogin("alice")

	_, err := s.tasks.CreateTask(s.ctx, TaskInput{Title: "", Difficulty: model.DifficultyBeginner})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.tasks.CreateTask(s.ctx, TaskInput{Title: "x", Difficulty: "LEGENDARY"})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *ServiceSuite) TestUpdateTask_NoChangeKeepsUpdatedAt() {
	s.registerAndLogin("alice")
	task := s.createTask("Buy milk", "Home")
	before, err := s.tasks.GetTask(s.ctx, task.ID)
	s.Require().NoError(err)

	time.Sleep(5 * time.Millisecond)
	updated, err := s.tasks.UpdateTask(s.ctx, task, TaskUpdate{
		Title:      lo.ToPtr("Buy milk"),
		Difficulty: lo.ToPtr(model.DifficultyBeginner),
		Status:     lo.ToPtr(model.StatusNotStarted),
		Category:   lo.ToPtr("Home"),
	})
	s.Require().NoError(err)
	s.True(before.UpdatedAt.Equal(updated.UpdatedAt))

	after, err := s.tasks.GetTask(s.ctx, task.ID)
	s.Require().NoError(err)
	s.True(before.UpdatedAt.Equal(after.UpdatedAt))
}

func (s *ServiceSuite) TestUpdateTask_Partial() {
	s.registerAndLogin("alice")
	task := s.createTask("Buy milk", "Home", func(in *TaskInput) { in.Description = "2 litres" })
	before := task.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	due := s.clock.Add(24 * time.Hour)
	_, err := s.tasks.UpdateTask(s.ctx, task, TaskUpdate{
		Title:   lo.ToPtr("Buy oat milk"),
		DueDate: &due,
	})
	s.Require().NoError(err)

	s.Equal("Buy oat milk", task.Title)
	s.Equal("2 litres", task.Description)
	s.Equal("Home", task.Category.Name)
	s.True(task.DueDate.Equal(due))
	s.True(task.UpdatedAt.After(before))

	_, err = s.tasks.UpdateTask(s.ctx, task, TaskUpdate{ClearDueDate: true})
	s.Require().NoError(err)
	s.Nil(task.DueDate)
}

func (s *ServiceSuite) TestUpdateTask_ChangesCategory() {
	s.registerAndLogin("alice")
	task := s.createTask("Run", "Home")
	home := *task.CategoryID

	_, err := s.tasks.UpdateTask(s.ctx, task, TaskUpdate{Category: lo.ToPtr("Health")})
	s.Require().NoError(err)
	s.NotEqual(home, *task.CategoryID)
	s.Equal("Health", task.Category.Name)

	s.Empty(s.tasks.FetchUserTasks(s.ctx, TaskQuery{CategoryID: &home}))

	_, err = s.tasks.UpdateTask(s.ctx, task, TaskUpdate{Category: lo.ToPtr("")})
	s.Require().NoError(err)
	s.Nil(task.CategoryID)
}

func (s *ServiceSuite) TestUpdateTask_RejectsOverdueAndForeignTasks() {
	s.registerAndLogin("bob")
	bobTask := s.createTask("bob's", "")
	s.auth.Logout(s.ctx)

	s.registerAndLogin("alice")
	task := s.createTask("alice's", "")

	_, err := s.tasks.UpdateTask(s.ctx, task, TaskUpdate{Status: lo.ToPtr(model.StatusOverdue)})
	s.ErrorIs(err, ErrInvalidInput)
	s.Equal(model.StatusNotStarted, task.Status)

	_, err = s.tasks.UpdateTask(s.ctx, bobTask, TaskUpdate{Title: lo.ToPtr("mine now")})
	s.ErrorIs(err, ErrNotFound)
	s.Equal("bob's", bobTask.Title)

	s.ErrorIs(s.tasks.DeleteTask(s.ctx, bobTask), ErrNotFound)
}

func (s *ServiceSuite) TestCancelAndReopen() {
	s.registerAndLogin("alice")
	task := s.createTask("maybe", "")

	_, err := s.tasks.CancelTask(s.ctx, task)
	s.Require().NoError(err)
	s.Equal(model.StatusCancelled, task.Status)

	_, err = s.tasks.ReopenTask(s.ctx, task)
	s.Require().NoError(err)
	s.Equal(model.StatusNotStarted, task.Status)
	s.Empty(s.achievements.UserEarned(s.ctx))
}

func (s *ServiceSuite) TestDeleteTask() {
	s.registerAndLogin("alice")
	task := s.createTask("gone", "Work")

	s.Require().NoError(s.tasks.DeleteTask(s.ctx, task))
	s.Empty(s.tasks.FetchUserTasks(s.ctx, TaskQuery{}))

	_, err := s.tasks.GetTask(s.ctx, task.ID)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.store.Categories.FindByName(s.ctx, "Work")
	s.NoError(err)
}

func (s *ServiceSuite) TestFetchUserTasks_Filters() {
	s.registerAndLogin("bob")
	s.createTask("bob's", "Work")
	s.auth.Logout(s.ctx)

	s.registerAndLogin("alice")
	past := s.clock.Add(-time.Hour)
	future := s.clock.Add(time.Hour)

	work := s.createTask("work", "Work")
	late := s.createTask("late", "Work", func(in *TaskInput) { in.DueDate = &past })
	soon := s.createTask("soon", "Home", func(in *TaskInput) { in.DueDate = &future })
	doneLate := s.createTask("done late", "Home", func(in *TaskInput) { in.DueDate = &past })
	_, err := s.tasks.CompleteTask(s.ctx, doneLate)
	s.Require().NoError(err)

	ids := func(tasks []model.Task) []uint {
		return lo.Map(tasks, func(t model.Task, _ int) uint { return t.ID })
	}

	s.Equal([]uint{doneLate.ID, soon.ID, late.ID, work.ID}, ids(s.tasks.FetchUserTasks(s.ctx, TaskQuery{})))
	s.Equal([]uint{late.ID, doneLate.ID, soon.ID, work.ID}, ids(s.tasks.FetchUserTasks(s.ctx, TaskQuery{Sort: SortDueDate})))
	s.Equal([]uint{doneLate.ID}, ids(s.tasks.FetchUserTasks(s.ctx, TaskQuery{Status: model.StatusCompleted})))
	s.Equal([]uint{late.ID}, ids(s.tasks.FetchUserTasks(s.ctx, TaskQuery{Status: model.StatusOverdue})))
	s.Equal([]uint{late.ID, work.ID}, ids(s.tasks.FetchUserTasks(s.ctx, TaskQuery{CategoryID: work.CategoryID})))
	s.Equal([]uint{late.ID, work.ID}, ids(s.tasks.FetchUserTasks(s.ctx, TaskQuery{
		Status:     model.StatusNotStarted,
		CategoryID: work.CategoryID,
	})))
	s.Empty(s.tasks.FetchUserTasks(s.ctx, TaskQuery{Status: model.StatusInProgress}))

	// Overdue is derived, never stored.
	stored, err := s.tasks.GetTask(s.ctx, late.ID)
	s.Require().NoError(err)
	s.Equal(model.StatusNotStarted, stored.Status)
	s.Equal(model.StatusOverdue, stored.DisplayStatus(s.clock))
}

func (s *ServiceSuite) TestSummary() {
	s.registerAndLogin("alice")
	past := s.clock.Add(-time.Hour)

	s.createTask("easy", "")
	s.createTask("hard", "", func(in *TaskInput) {
		in.Difficulty = model.DifficultyExpert
		in.DueDate = &past
	})
	done := s.createTask("done", "", func(in *TaskInput) { in.Difficulty = model.DifficultyIntermediate })
	_, err := s.tasks.CompleteTask(s.ctx, done)
	s.Require().NoError(err)

	summary := s.tasks.Summary(s.ctx)
	s.Equal(map[model.TaskStatus]int64{
		model.StatusNotStarted: 2,
		model.StatusCompleted:  1,
	}, summary.ByStatus)
	s.Equal(int64(3), summary.Total)
	s.Equal(int64(2), summary.Active)
	s.Equal(int64(1), summary.Overdue)
	s.Equal(4*time.Hour+30*time.Minute, summary.ActiveEffort)
}

func (s *ServiceSuite) TestFindOrCreateCategory() {
	first, err := s.tasks.FindOrCreateCategory(s.ctx, "Reading")
	s.Require().NoError(err)
	second, err := s.tasks.FindOrCreateCategory(s.ctx, "Reading")
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
	s.Equal("Reading category", first.Description)
}
