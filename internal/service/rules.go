package service

import (
	"context"

	"gorev/internal/model"
	"gorev/internal/repository"
)

// Action is an event the achievement engine evaluates.
type Action interface {
	action()
}

// TaskCompleted is raised when a task transitions to completed.
type TaskCompleted struct {
	Task model.Task
}

// LoginStreak is raised after a login with the user's consecutive-day streak.
type LoginStreak struct {
	Days int
}

func (TaskCompleted) action() {}
func (LoginStreak) action()   {}

// ruleInput is what a rule sees during one evaluation. The completed-task
// count is queried lazily and at most once.
type ruleInput struct {
	ctx    context.Context
	tx     *repository.Store
	userID uint
	action Action

	completed   int64
	haveCounted bool
}

func (in *ruleInput) completedCount() (int64, error) {
	if in.haveCounted {
		return in.completed, nil
	}
	count, err := in.tx.Tasks.CountByStatus(in.ctx, in.userID, model.StatusCompleted)
	if err != nil {
		return 0, err
	}
	in.completed, in.haveCounted = count, true
	return count, nil
}

// rule decides whether an achievement unlocks for the action.
type rule func(in *ruleInput) (bool, error)

// rules maps catalog rule keys to predicates. Definitions without an entry never unlock.
var rules = map[model.RuleKey]rule{
	model.RuleFirstCompletion: completions(func(n int64) bool { return n == 1 }),
	model.RuleCompletions10:   completions(func(n int64) bool { return n >= 10 }),
	model.RuleCompletions25:   completions(func(n int64) bool { return n >= 25 }),
	model.RuleCompletions50:   completions(func(n int64) bool { return n >= 50 }),
	model.RuleLoginStreak3:    loginStreak(3),
}

func completions(match func(count int64) bool) rule {
	return func(in *ruleInput) (bool, error) {
		if _, ok := in.action.(TaskCompleted); !ok {
			return false, nil
		}
		count, err := in.completedCount()
		if err != nil {
			return false, err
		}
		return match(count), nil
	}
}

func loginStreak(days int) rule {
	return func(in *ruleInput) (bool, error) {
		streak, ok := in.action.(LoginStreak)
		return ok && streak.Days >= days, nil
	}
}
