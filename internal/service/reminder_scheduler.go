package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DueDateChecker is the part of the rule evaluator the scheduler drives.
type DueDateChecker interface {
	CheckDueDates(ctx context.Context, session Session) (int, error)
}

// ReminderScheduler runs due date checks for one session on a fixed interval.
type ReminderScheduler struct {
	checker  DueDateChecker
	interval time.Duration
	logger   zerolog.Logger
}

// NewReminderScheduler constructs a scheduler. Non-positive intervals fall back to one minute.
func NewReminderScheduler(checker DueDateChecker, interval time.Duration, logger zerolog.Logger) *ReminderScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReminderScheduler{
		checker:  checker,
		interval: interval,
		logger:   logger.With().Str("component", "reminder_scheduler").Logger(),
	}
}

// Run checks immediately and then on every tick until ctx is cancelled. Ticks never overlap.
// Failed checks are logged and retried on the next tick.
func (s *ReminderScheduler) Run(ctx context.Context, session Session) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx, session)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx, session)
		}
	}
}

func (s *ReminderScheduler) tick(ctx context.Context, session Session) {
	created, err := s.checker.CheckDueDates(ctx, session)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error().Err(err).Str("username", session.Username).Msg("due date check failed")
		return
	}
	s.logger.Debug().Str("username", session.Username).Int("created", created).Msg("due date check finished")
}
