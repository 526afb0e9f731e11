package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize/english"
	"github.com/mergestat/timediff"

	"gorev/internal/model"
	"gorev/internal/repository"
)

const dueSoonWindow = 48 * time.Hour

// DigestSink receives a rendered daily digest.
type DigestSink func(user model.User, digest string)

// ReminderService builds human-readable summaries for daily reminders.
type ReminderService struct {
	store *repository.Store
	log   *log.Logger
	now   func() time.Time
}

func NewReminderService(store *repository.Store) *ReminderService {
	return &ReminderService{store: store, log: log.Default().WithPrefix("reminder"), now: time.Now}
}

// DailySummary renders the user's open tasks: overdue first, then tasks due
// within 48 hours, then (preference ALL only) everything else. It returns ""
// when the user opted out or, for IMPORTANT_ONLY, when nothing is urgent.
func (s *ReminderService) DailySummary(ctx context.Context, user model.User, now time.Time) (string, error) {
	settings := model.DefaultUserSettings()
	if user.Settings != nil {
		settings = *user.Settings
	}
	if settings.NotificationPreference == model.NotifyNever {
		return "", nil
	}

	tasks, err := s.store.Tasks.List(ctx, repository.TaskFilter{
		UserID:   user.ID,
		Statuses: []model.TaskStatus{model.StatusNotStarted, model.StatusInProgress},
		Sort:     repository.SortDueDate,
	})
	if err != nil {
		return "", err
	}

	var overdue, dueSoon, other []model.Task
	for _, task := range tasks {
		switch {
		case task.IsOverdue(now):
			overdue = append(overdue, task)
		case task.DueDate != nil && task.DueDate.Sub(now) <= dueSoonWindow:
			dueSoon = append(dueSoon, task)
		default:
			other = append(other, task)
		}
	}

	if settings.NotificationPreference == model.NotifyImportantOnly && len(overdue)+len(dueSoon) == 0 {
		return "", nil
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Daily summary for %s, %s\n", user.Username, now.Format("Mon 02 Jan 2006")))
	builder.WriteString(fmt.Sprintf("%s open, %s overdue\n",
		english.Plural(len(tasks), "task", ""), english.Plural(len(overdue), "task", "")))

	writeSection(&builder, "Overdue", overdue, settings.ShowDueDates, now)
	writeSection(&builder, "Due soon", dueSoon, settings.ShowDueDates, now)
	if settings.NotificationPreference == model.NotifyAll {
		writeSection(&builder, "Other open tasks", other, settings.ShowDueDates, now)
	}

	return strings.TrimSpace(builder.String()), nil
}

func writeSection(builder *strings.Builder, title string, tasks []model.Task, showDue bool, now time.Time) {
	if len(tasks) == 0 {
		return
	}
	builder.WriteString(fmt.Sprintf("\n%s\n", title))
	for _, task := range tasks {
		builder.WriteString(formatTask(task, showDue, now))
	}
}

func formatTask(task model.Task, showDue bool, now time.Time) string {
	var sb strings.Builder

	icon := "-"
	if task.DueDate != nil {
		switch {
		case task.IsOverdue(now):
			icon = "!"
		case task.DueDate.Sub(now) <= dueSoonWindow:
			icon = "~"
		}
	}

	sb.WriteString(fmt.Sprintf("%s %s", icon, strings.TrimSpace(task.Title)))
	if task.Category != nil {
		if name := strings.TrimSpace(task.Category.Name); name != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", name))
		}
	}
	sb.WriteString(fmt.Sprintf(" [%s]", strings.ToLower(string(task.Difficulty))))

	if showDue && task.DueDate != nil {
		sb.WriteString(fmt.Sprintf("\n   due %s, %s",
			task.DueDate.In(now.Location()).Format("2006-01-02 15:04"),
			timediff.TimeDiff(*task.DueDate, timediff.WithStartTime(now))))
	}

	if task.Description != "" {
		sb.WriteString(fmt.Sprintf("\n   %s", strings.TrimSpace(task.Description)))
	}

	sb.WriteByte('\n')
	return sb.String()
}

// ScheduleAll registers a daily digest job for every user with a reminder
// time and a preference other than NEVER. It returns the number of jobs added.
func (s *ReminderService) ScheduleAll(ctx context.Context, scheduler *SchedulerService, sink DigestSink) (int, error) {
	users, err := s.store.Users.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	scheduled := 0
	for _, user := range users {
		if user.Settings == nil || user.Settings.ReminderTime == nil ||
			user.Settings.NotificationPreference == model.NotifyNever {
			continue
		}

		userID := user.ID
		if _, err := scheduler.ScheduleDaily(*user.Settings.ReminderTime, func() {
			s.runDigest(ctx, userID, sink)
		}); err != nil {
			s.log.Warn("Skipping reminder", "user_id", userID, "time", *user.Settings.ReminderTime, "error", err)
			continue
		}
		scheduled++
	}

	s.log.Info("Reminders scheduled", "jobs", scheduled, "users", len(users))
	return scheduled, nil
}

// RunAll builds and delivers a digest for every user now, regardless of
// reminder time. It returns the number of digests delivered.
func (s *ReminderService) RunAll(ctx context.Context, sink DigestSink) (int, error) {
	users, err := s.store.Users.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, user := range users {
		if s.runDigest(ctx, user.ID, sink) {
			sent++
		}
	}
	return sent, nil
}

func (s *ReminderService) runDigest(ctx context.Context, userID uint, sink DigestSink) bool {
	jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	user, err := s.store.Users.FindByID(jobCtx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error("Failed to load user for reminder", "user_id", userID, "error", err)
		}
		return false
	}

	digest, err := s.DailySummary(jobCtx, *user, s.now())
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Error("Failed to build digest", "user_id", userID, "error", err)
		}
		return false
	}
	if digest == "" {
		return false
	}
	sink(*user, digest)
	return true
}
