// Package schedule drives timer conditions. A cron job ticks at a fixed
// cadence; each tick evaluates the active triggers against a tick context
// carrying the trigger's last firing time, so timer conditions can decide
// whether their interval has elapsed.
package schedule

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"trigger-engine/internal/common/errors"
	"trigger-engine/internal/common/logging"
	"trigger-engine/internal/conditions"
	"trigger-engine/internal/triggers"
)

// FireFunc is called for every trigger that fires on a tick.
type FireFunc func(t triggers.Trigger, ctx conditions.Context)

// Scheduler owns the tick loop and the per-trigger last-firing bookkeeping.
type Scheduler struct {
	cron      *cron.Cron
	evaluator *triggers.Evaluator
	interval  time.Duration
	onFire    FireFunc
	logger    logging.Logger

	mu        sync.Mutex
	lastFired map[string]time.Time
	entryID   cron.EntryID
	running   bool
}

// New creates a scheduler ticking at the given interval. onFire may be nil.
func New(evaluator *triggers.Evaluator, interval time.Duration, onFire FireFunc) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		evaluator: evaluator,
		interval:  interval,
		onFire:    onFire,
		logger:    logging.GetGlobalLogger().WithFields(logging.String("component", "scheduler")),
		lastFired: make(map[string]time.Time),
	}
}

// Start begins ticking. Starting a running scheduler is an error.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.InternalError("trigger.schedule.already_running",
			"scheduler is already running", nil)
	}
	if s.interval <= 0 {
		return errors.InvalidInputError("trigger.schedule.invalid_interval",
			fmt.Sprintf("tick interval must be positive, got %s", s.interval))
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		s.Tick(time.Now())
	})
	if err != nil {
		return errors.InternalError("trigger.schedule.start_failed",
			"failed to schedule tick job", err)
	}

	s.entryID = entryID
	s.running = true
	s.cron.Start()

	s.logger.Info("scheduler started", logging.Duration("interval", s.interval))
	return nil
}

// Stop halts ticking and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cron.Remove(s.entryID)
	s.running = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// Tick evaluates every active trigger against a tick context at the given
// time and fires the matching ones. Exposed for tests and manual drives.
func (s *Scheduler) Tick(now time.Time) {
	for _, t := range s.evaluator.Active() {
		ctx := conditions.NewTickContext(now)
		if last, ok := s.lastFiredAt(t.ID()); ok {
			ctx = ctx.WithLastFired(last)
		}

		matched, err := t.Evaluate(ctx)
		if err != nil {
			s.logger.Warn("tick evaluation failed",
				logging.String("trigger_id", t.ID()),
				logging.Err(err),
			)
			continue
		}
		if !matched {
			continue
		}

		s.recordFiring(t.ID(), now)
		s.logger.Debug("trigger fired on tick",
			logging.String("trigger_id", t.ID()),
			logging.String("name", t.Name()),
		)
		if s.onFire != nil {
			s.onFire(t, ctx)
		}
	}
}

// RecordFiring notes that a trigger fired outside the tick loop (e.g. on an
// inbound event) so its timer conditions restart their interval.
func (s *Scheduler) RecordFiring(id string, at time.Time) {
	s.recordFiring(id, at)
}

// Forget drops the bookkeeping for an unregistered trigger.
func (s *Scheduler) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lastFired, id)
}

func (s *Scheduler) lastFiredAt(id string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lastFired[id]
	return t, ok
}

func (s *Scheduler) recordFiring(id string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFired[id] = at
}
