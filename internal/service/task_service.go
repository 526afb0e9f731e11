package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"gorev/internal/model"
	"gorev/internal/repository"
)

// TaskSort selects the ordering of FetchUserTasks.
type TaskSort = repository.TaskSort

const (
	SortCreatedAt  = repository.SortCreatedAt
	SortUpdatedAt  = repository.SortUpdatedAt
	SortDueDate    = repository.SortDueDate
	SortTitle      = repository.SortTitle
	SortDifficulty = repository.SortDifficulty
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string               `validate:"required,max=200"`
	Description string               `validate:"max=2000"`
	Difficulty  model.TaskDifficulty `validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
	DueDate     *time.Time
	// Category is resolved by exact name, created if missing. Empty means uncategorized.
	Category string `validate:"max=64"`
}

// TaskUpdate carries the fields to change; nil fields are left alone.
type TaskUpdate struct {
	Title       *string               `validate:"omitempty,min=1,max=200"`
	Description *string               `validate:"omitempty,max=2000"`
	Difficulty  *model.TaskDifficulty `validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
	// Status may not be OVERDUE; that state is derived from the due date.
	Status       *model.TaskStatus `validate:"omitempty,oneof=NOT_STARTED IN_PROGRESS COMPLETED CANCELLED"`
	DueDate      *time.Time
	ClearDueDate bool
	// Category re-points the task; an empty name makes it uncategorized.
	Category *string `validate:"omitempty,max=64"`
}

// TaskQuery filters FetchUserTasks. Zero values mean "any".
type TaskQuery struct {
	// Status matches the stored status; StatusOverdue matches the derived state.
	Status     model.TaskStatus
	CategoryID *uint
	Sort       TaskSort
}

// TaskSummary holds per-user statistics.
type TaskSummary struct {
	ByStatus map[model.TaskStatus]int64
	Total    int64
	Active   int64
	Overdue  int64
	// ActiveEffort is the estimated effort left on open tasks.
	ActiveEffort time.Duration
}

// TaskService wraps task-related business logic.
type TaskService struct {
	store        *repository.Store
	session      *Session
	categories   *CategoryService
	achievements *AchievementService
	log          *log.Logger
	now          func() time.Time
}

func NewTaskService(store *repository.Store, session *Session, categories *CategoryService, achievements *AchievementService) *TaskService {
	return &TaskService{
		store:        store,
		session:      session,
		categories:   categories,
		achievements: achievements,
		log:          log.Default().WithPrefix("tasks"),
		now:          time.Now,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	userID, ok := s.session.UserID()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	task := &model.Task{
		UserID:      lo.ToPtr(userID),
		Title:       input.Title,
		Description: input.Description,
		Difficulty:  input.Difficulty,
		Status:      model.StatusNotStarted,
		DueDate:     utcPtr(input.DueDate),
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		category, err := tx.Categories.GetOrCreate(ctx, input.Category)
		if err != nil {
			return err
		}
		if category != nil {
			task.CategoryID = lo.ToPtr(category.ID)
			task.Category = category
		}
		return tx.Tasks.Create(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("Task created", "user_id", userID, "task_id", task.ID)
	return task, nil
}

// UpdateTask applies the non-nil fields of update to the session user's task.
// Nothing is written when no value changes. On success task is refreshed in place.
func (s *TaskService) UpdateTask(ctx context.Context, task *model.Task, update TaskUpdate) (*model.Task, error) {
	userID, ok := s.session.UserID()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	if err := validateInput(update); err != nil {
		return nil, err
	}

	var current *model.Task
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		current, err = tx.Tasks.FindByID(ctx, userID, task.ID)
		if err != nil {
			return err
		}

		wasCompleted := current.Status == model.StatusCompleted
		changed, err := applyUpdate(ctx, tx, current, update)
		if err != nil || !changed {
			return err
		}
		if err := tx.Tasks.Save(ctx, current); err != nil {
			return err
		}

		if !wasCompleted && current.Status == model.StatusCompleted {
			if _, err := s.achievements.evaluate(ctx, tx, userID, TaskCompleted{Task: *current}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	*task = *current
	return task, nil
}

// applyUpdate mutates task and reports whether any value actually changed.
func applyUpdate(ctx context.Context, tx *repository.Store, task *model.Task, update TaskUpdate) (bool, error) {
	changed := false

	if update.Title != nil && *update.Title != task.Title {
		task.Title = *update.Title
		changed = true
	}
	if update.Description != nil && *update.Description != task.Description {
		task.Description = *update.Description
		changed = true
	}
	if update.Difficulty != nil && *update.Difficulty != task.Difficulty {
		task.Difficulty = *update.Difficulty
		changed = true
	}
	if update.Status != nil && *update.Status != task.Status {
		task.Status = *update.Status
		changed = true
	}

	switch {
	case update.ClearDueDate:
		if task.DueDate != nil {
			task.DueDate = nil
			changed = true
		}
	case update.DueDate != nil:
		if task.DueDate == nil || !task.DueDate.Equal(*update.DueDate) {
			task.DueDate = utcPtr(update.DueDate)
			changed = true
		}
	}

	if update.Category != nil {
		category, err := tx.Categories.GetOrCreate(ctx, *update.Category)
		if err != nil {
			return false, err
		}
		switch {
		case category == nil && task.CategoryID != nil:
			task.CategoryID, task.Category = nil, nil
			changed = true
		case category != nil && (task.CategoryID == nil || *task.CategoryID != category.ID):
			task.CategoryID, task.Category = lo.ToPtr(category.ID), category
			changed = true
		}
	}

	return changed, nil
}

func (s *TaskService) CompleteTask(ctx context.Context, task *model.Task) (*model.Task, error) {
	return s.UpdateTask(ctx, task, TaskUpdate{Status: lo.ToPtr(model.StatusCompleted)})
}

func (s *TaskService) CancelTask(ctx context.Context, task *model.Task) (*model.Task, error) {
	return s.UpdateTask(ctx, task, TaskUpdate{Status: lo.ToPtr(model.StatusCancelled)})
}

// ReopenTask moves a completed or cancelled task back to not started.
func (s *TaskService) ReopenTask(ctx context.Context, task *model.Task) (*model.Task, error) {
	return s.UpdateTask(ctx, task, TaskUpdate{Status: lo.ToPtr(model.StatusNotStarted)})
}

// DeleteTask removes one of the session user's tasks.
func (s *TaskService) DeleteTask(ctx context.Context, task *model.Task) error {
	userID, ok := s.session.UserID()
	if !ok {
		return ErrNotAuthenticated
	}
	if err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Tasks.Delete(ctx, userID, task.ID)
	}); err != nil {
		return err
	}
	s.log.Debug("Task deleted", "user_id", userID, "task_id", task.ID)
	return nil
}

// GetTask loads one of the session user's tasks with its category.
func (s *TaskService) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	userID, ok := s.session.UserID()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return s.store.Tasks.FindByID(ctx, userID, id)
}

// FetchUserTasks lists the session user's tasks. It never fails: without a
// session or on a store error the result is empty.
func (s *TaskService) FetchUserTasks(ctx context.Context, query TaskQuery) []model.Task {
	userID, ok := s.session.UserID()
	if !ok {
		return []model.Task{}
	}

	filter := repository.TaskFilter{
		UserID:     userID,
		CategoryID: query.CategoryID,
		Sort:       query.Sort,
	}
	switch query.Status {
	case "":
	case model.StatusOverdue:
		filter.Statuses = []model.TaskStatus{model.StatusNotStarted, model.StatusInProgress}
	default:
		filter.Statuses = []model.TaskStatus{query.Status}
	}

	tasks, err := s.store.Tasks.List(ctx, filter)
	if err != nil {
		s.log.Error("Failed to fetch tasks", "user_id", userID, "error", err)
		return []model.Task{}
	}

	if query.Status == model.StatusOverdue {
		now := s.now()
		tasks = lo.Filter(tasks, func(task model.Task, _ int) bool { return task.IsOverdue(now) })
	}
	return tasks
}

// Summary computes statistics for the session user's tasks.
func (s *TaskService) Summary(ctx context.Context) TaskSummary {
	summary := TaskSummary{ByStatus: map[model.TaskStatus]int64{}}

	userID, ok := s.session.UserID()
	if !ok {
		return summary
	}

	counts, err := s.store.Tasks.CountGroupedByStatus(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count tasks", "user_id", userID, "error", err)
		return summary
	}
	open, err := s.store.Tasks.List(ctx, repository.TaskFilter{
		UserID:   userID,
		Statuses: []model.TaskStatus{model.StatusNotStarted, model.StatusInProgress},
	})
	if err != nil {
		s.log.Error("Failed to list open tasks", "user_id", userID, "error", err)
		return summary
	}

	now := s.now()
	summary.ByStatus = counts
	summary.Total = lo.Sum(lo.Values(counts))
	summary.Active = int64(len(open))
	summary.Overdue = int64(lo.CountBy(open, func(task model.Task) bool { return task.IsOverdue(now) }))
	summary.ActiveEffort = lo.SumBy(open, func(task model.Task) time.Duration { return task.EstimatedEffort() })
	return summary
}

// FindOrCreateCategory resolves a category by exact name.
func (s *TaskService) FindOrCreateCategory(ctx context.Context, name string) (*model.TaskCategory, error) {
	return s.categories.FindOrCreate(ctx, name)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return lo.ToPtr(t.UTC())
}
