package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Nexlified/Recaller-sub002/internal/recurrence"
	"github.com/Nexlified/Recaller-sub002/internal/repository"
)

// ErrBusy is returned when a manual run is requested while a tick is
// already in flight. Runs never interleave.
var ErrBusy = errors.New("generation run already in progress")

// TickStats aggregates one pass over all recurrence sources. The JSON
// shape is what manual-generation callers receive.
type TickStats struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"-"`
	Checked   int           `json:"total_recurrences_checked"`
	Generated int           `json:"tasks_generated"`
	Errors    int           `json:"errors"`
}

// JobInfo describes one scheduled job for the status surface.
type JobInfo struct {
	ID   int       `json:"id"`
	Name string    `json:"name"`
	Next time.Time `json:"next_run_time"`
}

// Status is the scheduler's operational snapshot.
type Status struct {
	Running  bool       `json:"is_running"`
	State    string     `json:"scheduler_state"`
	Jobs     []JobInfo  `json:"jobs"`
	LastTick *TickStats `json:"last_tick,omitempty"`
}

// SchedulerConfig sets the job cadence.
type SchedulerConfig struct {
	TickInterval     time.Duration // generation tick, order of hours
	ReminderInterval time.Duration // due-reminder dispatch
	CleanupInterval  time.Duration // orphaned-spec purge
	JobTimeout       time.Duration

	// DefaultLeadTimeDays applies to specs that leave their look-ahead
	// window unset; an explicit zero stays same-day only.
	DefaultLeadTimeDays int
}

func (c SchedulerConfig) withDefaults() SchedulerConfig {
	if c.TickInterval <= 0 {
		c.TickInterval = 6 * time.Hour
	}
	if c.ReminderInterval <= 0 {
		c.ReminderInterval = 12 * time.Hour
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = 24 * time.Hour
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = 5 * time.Minute
	}
	return c
}

// Scheduler drives periodic generation over all sources. One instance per
// process, constructed with its dependencies; lifecycle is
// stopped -> running -> stopped and both transitions are idempotent.
type Scheduler struct {
	cfg       SchedulerConfig
	sources   []Source
	reminders *ReminderService
	specs     *repository.SpecRepository
	log       zerolog.Logger
	now       func() time.Time

	mu        sync.Mutex // lifecycle and lastTick
	runMu     sync.Mutex // single-flight for tick/manual runs
	cron      *cron.Cron
	jobNames  map[cron.EntryID]string
	running   bool
	runCtx    context.Context
	runCancel context.CancelFunc
	lastTick  *TickStats
}

func NewScheduler(cfg SchedulerConfig, sources []Source, reminders *ReminderService, specs *repository.SpecRepository, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cfg:       cfg.withDefaults(),
		sources:   sources,
		reminders: reminders,
		specs:     specs,
		log:       log.With().Str("component", "scheduler").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start registers the periodic jobs and begins ticking. Calling Start on a
// running scheduler is a no-op.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	s.cron = cron.New()
	s.jobNames = make(map[cron.EntryID]string)
	s.runCtx, s.runCancel = context.WithCancel(context.Background())

	jobs := []struct {
		name  string
		every time.Duration
		run   func()
	}{
		{"generate-recurrences", s.cfg.TickInterval, s.scheduledTick},
		{"dispatch-reminders", s.cfg.ReminderInterval, s.scheduledReminders},
		{"purge-orphaned-specs", s.cfg.CleanupInterval, s.scheduledCleanup},
	}
	for _, job := range jobs {
		id, err := s.cron.AddFunc(fmt.Sprintf("@every %s", job.every), job.run)
		if err != nil {
			return fmt.Errorf("schedule %s: %w", job.name, err)
		}
		s.jobNames[id] = job.name
	}

	s.cron.Start()
	s.running = true
	s.log.Info().
		Dur("tick_interval", s.cfg.TickInterval).
		Dur("reminder_interval", s.cfg.ReminderInterval).
		Msg("scheduler started")
	return nil
}

// Stop cancels future ticks and waits for the in-flight one to finish its
// current recurrence and exit. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.runCancel
	c := s.cron
	s.mu.Unlock()

	// Wait outside the lock: an in-flight tick takes mu to publish its
	// stats before the cron context resolves.
	cancel()
	<-c.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow runs the generation routine once, outside the periodic cadence.
// It shares the single-flight lock with scheduled ticks: a run already in
// progress rejects the trigger with ErrBusy rather than interleaving.
func (s *Scheduler) RunNow(ctx context.Context) (TickStats, error) {
	if !s.runMu.TryLock() {
		return TickStats{}, ErrBusy
	}
	defer s.runMu.Unlock()

	stats := s.tick(ctx)
	s.mu.Lock()
	s.lastTick = &stats
	s.mu.Unlock()
	return stats, nil
}

// Status reports the lifecycle state, registered jobs with their next run
// times, and the last tick's stats.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{Running: s.running, State: "stopped", LastTick: s.lastTick}
	if s.running {
		status.State = "running"
	}
	// A stopped scheduler has no upcoming runs; the old entries are stale.
	if s.running && s.cron != nil {
		for _, entry := range s.cron.Entries() {
			status.Jobs = append(status.Jobs, JobInfo{
				ID:   int(entry.ID),
				Name: s.jobNames[entry.ID],
				Next: entry.Next,
			})
		}
	}
	return status
}

func (s *Scheduler) scheduledTick() {
	ctx, cancel := context.WithTimeout(s.runCtx, s.cfg.JobTimeout)
	defer cancel()

	stats, err := s.RunNow(ctx)
	if errors.Is(err, ErrBusy) {
		s.log.Debug().Msg("tick skipped, run already in progress")
		return
	}
	s.log.Info().
		Str("run_id", stats.RunID).
		Int("checked", stats.Checked).
		Int("generated", stats.Generated).
		Int("errors", stats.Errors).
		Dur("took", stats.Duration).
		Msg("tick finished")
}

func (s *Scheduler) scheduledReminders() {
	ctx, cancel := context.WithTimeout(s.runCtx, s.cfg.JobTimeout)
	defer cancel()

	sent, err := s.reminders.DispatchDue(ctx, s.now())
	if err != nil {
		s.log.Error().Err(err).Msg("reminder dispatch failed")
		return
	}
	if sent > 0 {
		s.log.Info().Int("sent", sent).Msg("reminders dispatched")
	}
}

func (s *Scheduler) scheduledCleanup() {
	ctx, cancel := context.WithTimeout(s.runCtx, s.cfg.JobTimeout)
	defer cancel()

	purged, err := s.specs.PurgeOrphans(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("spec cleanup failed")
		return
	}
	if purged > 0 {
		s.log.Info().Int64("purged", purged).Msg("orphaned specs purged")
	}
}

// tick is the core generation routine shared by the periodic job and the
// manual trigger. Per-recurrence failures are counted and logged, never
// propagated; a source whose enumeration fails is abandoned for this cycle
// only.
func (s *Scheduler) tick(ctx context.Context) TickStats {
	stats := TickStats{RunID: uuid.NewString(), StartedAt: s.now()}
	today := recurrence.DateOf(stats.StartedAt)
	log := s.log.With().Str("run_id", stats.RunID).Logger()

	for _, source := range s.sources {
		candidates, err := source.ActiveRecurrences(ctx)
		if err != nil {
			stats.Errors++
			log.Error().Err(err).Str("source", source.Name()).Msg("failed to enumerate recurrences")
			continue
		}

		for _, candidate := range candidates {
			// Finish the current recurrence, then bail out on stop.
			if ctx.Err() != nil {
				stats.Duration = s.now().Sub(stats.StartedAt)
				return stats
			}
			stats.Checked++

			generated, err := s.processCandidate(ctx, source, candidate, today)
			if err != nil {
				stats.Errors++
				log.Warn().Err(err).
					Str("source", source.Name()).
					Uint("parent_id", candidate.ParentID).
					Msg("recurrence skipped")
				continue
			}
			if generated {
				stats.Generated++
			}
		}
	}

	stats.Duration = s.now().Sub(stats.StartedAt)
	return stats
}

func (s *Scheduler) processCandidate(ctx context.Context, source Source, candidate Candidate, today time.Time) (bool, error) {
	if candidate.RuleErr != nil {
		return false, candidate.RuleErr
	}
	// An explicit zero window means same-day only; only unset falls back.
	if candidate.Rule.LeadTimeDays == nil {
		d := s.cfg.DefaultLeadTimeDays
		candidate.Rule.LeadTimeDays = &d
	}

	generated, err := source.CountGenerated(ctx, candidate.ParentID)
	if err != nil {
		return false, err
	}

	eligible, err := recurrence.ShouldGenerate(candidate.Rule, generated, today)
	if err != nil || !eligible {
		return false, err
	}

	due, ok, err := recurrence.NextDue(candidate.Rule)
	if err != nil || !ok {
		return false, err
	}

	if err := source.Generate(ctx, candidate.ParentID, due); err != nil {
		return false, err
	}
	return true, nil
}
