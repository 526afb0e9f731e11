package model

import "time"

// TaskDifficulty grades how much effort a task takes.
type TaskDifficulty string

const (
	DifficultyBeginner     TaskDifficulty = "BEGINNER"
	DifficultyIntermediate TaskDifficulty = "INTERMEDIATE"
	DifficultyAdvanced     TaskDifficulty = "ADVANCED"
	DifficultyExpert       TaskDifficulty = "EXPERT"
)

// Effort is the estimated time to finish a task of this difficulty.
func (d TaskDifficulty) Effort() time.Duration {
	switch d {
	case DifficultyBeginner:
		return 30 * time.Minute
	case DifficultyIntermediate:
		return time.Hour
	case DifficultyAdvanced:
		return 2*time.Hour + 30*time.Minute
	case DifficultyExpert:
		return 4 * time.Hour
	default:
		return 0
	}
}

// Rank orders difficulties from beginner (1) to expert (4); unknown values are 0.
func (d TaskDifficulty) Rank() int {
	switch d {
	case DifficultyBeginner:
		return 1
	case DifficultyIntermediate:
		return 2
	case DifficultyAdvanced:
		return 3
	case DifficultyExpert:
		return 4
	default:
		return 0
	}
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "NOT_STARTED"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	// StatusOverdue is only ever derived at read time, see Task.DisplayStatus.
	StatusOverdue   TaskStatus = "OVERDUE"
	StatusCancelled TaskStatus = "CANCELLED"
)

// Closed reports whether the status ends the task's lifecycle.
func (s TaskStatus) Closed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Task represents a single item in the tracker.
type Task struct {
	ID          uint           `gorm:"primaryKey"`
	UserID      *uint          `gorm:"index"`
	CategoryID  *uint          `gorm:"index"`
	Category    *TaskCategory  `gorm:"foreignKey:CategoryID"`
	Title       string         `gorm:"not null"`
	Description string
	Difficulty  TaskDifficulty `gorm:"not null"`
	Status      TaskStatus     `gorm:"not null;index"`
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOverdue reports whether the task is past its due date and still open.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.Status.Closed()
}

// DisplayStatus is the stored status, or StatusOverdue when IsOverdue holds.
func (t Task) DisplayStatus(now time.Time) TaskStatus {
	if t.IsOverdue(now) {
		return StatusOverdue
	}
	return t.Status
}

// EstimatedEffort is a pure function of the task difficulty.
func (t Task) EstimatedEffort() time.Duration {
	return t.Difficulty.Effort()
}
