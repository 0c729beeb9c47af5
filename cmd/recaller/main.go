package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nexlified/Recaller-sub002/internal/config"
	"github.com/Nexlified/Recaller-sub002/internal/logging"
	"github.com/Nexlified/Recaller-sub002/internal/notify"
	"github.com/Nexlified/Recaller-sub002/internal/recurrence"
	"github.com/Nexlified/Recaller-sub002/internal/repository"
	"github.com/Nexlified/Recaller-sub002/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, cfg.LogPretty)

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	taskRepo := repository.NewTaskRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	specRepo := repository.NewSpecRepository(db)

	var notifier notify.Notifier = notify.NewLogNotifier(log)
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		telegram, err := notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Fatal().Err(err).Msg("telegram notifier")
		}
		notifier = telegram
	}

	offsets := recurrence.Offsets{
		SameDay:    cfg.Reminders.SameDay,
		DayBefore:  cfg.Reminders.DayBefore,
		WeekBefore: cfg.Reminders.WeekBefore,
		CustomDays: cfg.Reminders.CustomDays,
	}
	reminderSvc := service.NewReminderService(reminderRepo, notifier, offsets, log)

	sources := []service.Source{
		service.NewTaskSource(taskRepo),
		service.NewTransactionSource(transactionRepo),
	}
	scheduler := service.NewScheduler(service.SchedulerConfig{
		TickInterval:        cfg.TickInterval(),
		ReminderInterval:    cfg.ReminderInterval(),
		DefaultLeadTimeDays: cfg.DefaultLeadTimeDays,
	}, sources, reminderSvc, specRepo, log)

	// One-shot operator command: run the generation routine and exit.
	if len(os.Args) > 1 && os.Args[1] == "generate" {
		runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
		stats, err := scheduler.RunNow(runCtx)
		if err != nil {
			log.Fatal().Err(err).Msg("manual generation")
		}
		log.Info().
			Int("checked", stats.Checked).
			Int("generated", stats.Generated).
			Int("errors", stats.Errors).
			Msg("manual generation finished")
		return
	}

	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("start scheduler")
	}

	for _, job := range scheduler.Status().Jobs {
		log.Info().Str("job", job.Name).Time("next_run", job.Next).Msg("job scheduled")
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")
	scheduler.Stop()
	log.Info().Msg("shutdown complete")
}
