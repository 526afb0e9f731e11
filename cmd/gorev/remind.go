package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"gorev/internal/model"
	"gorev/internal/service"
)

var remindCmdFlags struct {
	Once  bool
	Every time.Duration
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run the daily reminder scheduler",
	Long:  `Schedule a daily digest for every user with a reminder time and write the digests to the log until interrupted.`,
	Example: `gorev remind
gorev remind --once
gorev remind --every 6h`,
	Run: remind,
}

func init() {
	remindCmd.Flags().BoolVar(&remindCmdFlags.Once, "once", false, "Build digests for all users now and exit")
	remindCmd.Flags().DurationVar(&remindCmdFlags.Every, "every", 0, "Also send digests to all users at this interval")
	rootCmd.AddCommand(remindCmd)
}

func remind(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()
	store := openStore(cfg)
	defer store.Close()

	reminders := service.NewReminderService(store)
	digestLog := log.Default().WithPrefix("digest")
	sink := func(user model.User, digest string) {
		digestLog.Info("Daily digest", "user", user.Username, "email", user.Email)
		digestLog.Print(digest)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if remindCmdFlags.Once {
		sent, err := reminders.RunAll(ctx, sink)
		if err != nil {
			log.Fatalf("failed to build digests: %v", err)
		}
		log.Info("digests built", "sent", sent)
		return
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("invalid timezone: %v", err)
	}
	scheduler := service.NewSchedulerService(loc)

	if _, err := reminders.ScheduleAll(ctx, scheduler, sink); err != nil {
		log.Fatalf("failed to schedule reminders: %v", err)
	}
	if remindCmdFlags.Every > 0 {
		if _, err := scheduler.ScheduleInterval(remindCmdFlags.Every, func() {
			jobCtx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()
			if _, err := reminders.RunAll(jobCtx, sink); err != nil {
				log.Error("periodic digests failed", "error", err)
			}
		}); err != nil {
			log.Fatalf("failed to schedule periodic digests: %v", err)
		}
	}

	scheduler.Start()
	log.Info("reminder scheduler started", "jobs", scheduler.Len(), "timezone", loc.String())
	<-ctx.Done()

	log.Info("shutting down gracefully...")
	scheduler.Stop()
}
