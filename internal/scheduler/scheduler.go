package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/service/notify"
	"github.com/mamadbah2/hatchery/internal/service/tray"
)

// Sweep periodically scans active trays and alerts the ones whose incubation
// period has elapsed. Each tray is alerted at most once: it is flagged as
// notified after the dispatch attempt whether or not the send succeeded.
type Sweep struct {
	cron       *cron.Cron
	schedule   string
	traySvc    *tray.Service
	dispatcher *notify.Dispatcher
	logger     *zap.Logger
	scanning   atomic.Bool
	now        func() time.Time
}

// NewSweep creates a new sweep bound to the given cron schedule.
func NewSweep(schedule string, traySvc *tray.Service, dispatcher *notify.Dispatcher, logger *zap.Logger) *Sweep {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Sweep{
		cron:       cron.New(),
		schedule:   schedule,
		traySvc:    traySvc,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Start registers the cron entry and runs one scan immediately, so trays that
// became due while the process was down are alerted without waiting a full
// interval.
func (s *Sweep) Start() {
	s.logger.Info("starting notification sweep", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.Run); err != nil {
		s.logger.Error("failed to schedule notification sweep", zap.Error(err))
	}

	s.cron.Start()
	go s.Run()
}

// Stop stops the underlying cron runner.
func (s *Sweep) Stop() {
	s.logger.Info("stopping notification sweep")
	s.cron.Stop()
}

// Run performs one scan. Overlapping triggers are skipped; the next interval
// picks up whatever this scan would have found.
func (s *Sweep) Run() {
	if !s.scanning.CompareAndSwap(false, true) {
		s.logger.Debug("sweep already scanning, skipping trigger")
		return
	}
	defer s.scanning.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := s.now()

	due, err := s.traySvc.ListAwaitingNotification(ctx, now)
	if err != nil {
		s.logger.Error("failed to list trays awaiting notification", zap.Error(err))
		return
	}

	for _, t := range due {
		if err := s.dispatcher.Dispatch(ctx, notify.ComposeOverdueAlert(t, now)); err != nil {
			s.logger.Error("overdue alert dispatch failed", zap.String("tray_id", t.ID), zap.Error(err))
		}

		// Flag the tray regardless of dispatch outcome; the alert is
		// best-effort and must not repeat every hour.
		if _, err := s.traySvc.MarkNotificationSent(ctx, t.ID); err != nil {
			s.logger.Error("failed to flag tray as notified", zap.String("tray_id", t.ID), zap.Error(err))
			continue
		}

		s.logger.Info("overdue alert processed", zap.String("tray_id", t.ID))
	}

	if len(due) > 0 {
		s.logger.Info("sweep finished", zap.Int("alerted", len(due)))
	}
}
