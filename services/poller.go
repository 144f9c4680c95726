package services

import (
	"context"
	"sync"
	"time"

	"github.com/Nahnamehran/study-planner/models"
	"go.uber.org/zap"
)

// Notifier shows a reminder to the user.
type Notifier func(models.Reminder)

// ReminderPoller evaluates a live plan on a fixed interval until stopped.
// It is owned by whatever view displays the plan and must be stopped on teardown.
type ReminderPoller struct {
	mu       sync.Mutex
	plan     *models.SchedulePlan
	notified map[models.BlockRef]bool
	interval time.Duration
	window   time.Duration
	notify   Notifier
	now      func() time.Time
	logger   *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewReminderPoller(plan *models.SchedulePlan, interval, window time.Duration, notify Notifier, logger *zap.Logger) *ReminderPoller {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderPoller{
		plan:     plan,
		notified: make(map[models.BlockRef]bool),
		interval: interval,
		window:   window,
		notify:   notify,
		now:      time.Now,
		logger:   logger,
	}
}

// SetClock replaces the wall clock, used by tests.
func (p *ReminderPoller) SetClock(now func() time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = now
}

// Start launches the polling goroutine. Calling Start on a running poller is a no-op.
func (p *ReminderPoller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	p.logger.Debug("reminder poller started", zap.Duration("interval", p.interval))
	go func() {
		defer close(done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.Check()
			}
		}
	}()
}

// Stop cancels the goroutine and waits for it to exit.
func (p *ReminderPoller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.logger.Debug("reminder poller stopped")
}

// Replace supersedes the watched plan and forgets which blocks were already notified.
func (p *ReminderPoller) Replace(plan *models.SchedulePlan) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plan = plan
	p.notified = make(map[models.BlockRef]bool)
}

// Check runs one evaluation and fires the notifier for every newly due block.
func (p *ReminderPoller) Check() []models.Reminder {
	p.mu.Lock()
	due := DueReminders(p.plan, p.now(), p.notified, p.window)
	reminders := make([]models.Reminder, 0, len(due))
	for _, ref := range due {
		p.notified[ref] = true
		r, err := ReminderFor(p.plan, ref)
		if err != nil {
			continue
		}
		reminders = append(reminders, r)
	}
	p.mu.Unlock()

	for _, r := range reminders {
		p.logger.Info("reminder due", zap.String("block", r.Ref.String()), zap.String("body", r.Body))
		if p.notify != nil {
			p.notify(r)
		}
	}
	return reminders
}
