package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gorev/internal/model"
)

// TaskSort names a supported ordering for task lists.
type TaskSort string

const (
	SortCreatedAt  TaskSort = "created_at" // newest first, the default
	SortUpdatedAt  TaskSort = "updated_at" // most recently changed first
	SortDueDate    TaskSort = "due_date"   // soonest first, tasks without due date last
	SortTitle      TaskSort = "title"
	SortDifficulty TaskSort = "difficulty" // beginner to expert
)

// TaskFilter narrows List. Zero values mean "any".
type TaskFilter struct {
	UserID     uint
	Statuses   []model.TaskStatus
	CategoryID *uint
	Sort       TaskSort
}

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error; err != nil {
		return wrap("create task", err)
	}
	return nil
}

// FindByID loads the user's task with its category.
func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, wrap("find task", err)
	}
	return &task, nil
}

// Save writes the task's columns, including category_id, and bumps updated_at.
func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error; err != nil {
		return wrap("save task", err)
	}
	return nil
}

// Delete removes a task owned by the given user.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).Delete(&model.Task{})
	if res.Error != nil {
		return wrap("delete task", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete task", gorm.ErrRecordNotFound)
	}
	return nil
}

// List returns the tasks matching filter with categories loaded.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Preload("Category").Where("user_id = ?", filter.UserID)
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	for _, order := range orderFor(filter.Sort) {
		q = q.Order(order)
	}

	var tasks []model.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, wrap("list tasks", err)
	}
	return tasks, nil
}

func orderFor(sort TaskSort) []string {
	switch sort {
	case SortUpdatedAt:
		return []string{"updated_at DESC", "id DESC"}
	case SortDueDate:
		return []string{"due_date IS NULL", "due_date ASC", "id ASC"}
	case SortTitle:
		return []string{"title ASC", "id ASC"}
	case SortDifficulty:
		return []string{
			"CASE difficulty WHEN 'BEGINNER' THEN 1 WHEN 'INTERMEDIATE' THEN 2 " +
				"WHEN 'ADVANCED' THEN 3 WHEN 'EXPERT' THEN 4 ELSE 5 END ASC",
			"id ASC",
		}
	default:
		return []string{"created_at DESC", "id DESC"}
	}
}

// CountByStatus counts the user's tasks in the given status.
func (r *TaskRepository) CountByStatus(ctx context.Context, userID uint, status model.TaskStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error; err != nil {
		return 0, wrap("count tasks", err)
	}
	return count, nil
}

// CountGroupedByStatus counts the user's tasks per stored status.
func (r *TaskRepository) CountGroupedByStatus(ctx context.Context, userID uint) (map[model.TaskStatus]int64, error) {
	var rows []struct {
		Status model.TaskStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, wrap("count tasks", err)
	}

	counts := make(map[model.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// ClearCategory detaches every task from the category.
func (r *TaskRepository) ClearCategory(ctx context.Context, categoryID uint) error {
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("category_id = ?", categoryID).
		Update("category_id", nil).Error; err != nil {
		return wrap("clear task category", err)
	}
	return nil
}
