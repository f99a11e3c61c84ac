package worker

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/homeservice/internal/config"
	"github.com/spec-kit/homeservice/internal/service"
)

// CompletionWorker periodically completes confirmed bookings whose slot has
// ended.
type CompletionWorker struct {
	cron     *cron.Cron
	bookings *service.BookingService
	cfg      config.BookingConfig
	logger   *zap.Logger
}

// NewCompletionWorker constructs the worker.
func NewCompletionWorker(bookings *service.BookingService, cfg config.BookingConfig, logger *zap.Logger) *CompletionWorker {
	return &CompletionWorker{
		cron:     cron.New(),
		bookings: bookings,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start schedules the sweep. A no-op when auto-completion is disabled.
func (w *CompletionWorker) Start() error {
	if !w.cfg.AutoCompleteEnabled {
		w.logger.Info("booking auto-complete disabled")
		return nil
	}
	if _, err := w.cron.AddFunc(w.cfg.AutoCompleteSchedule, w.sweep); err != nil {
		return err
	}
	w.cron.Start()
	w.logger.Info("booking auto-complete scheduled", zap.String("schedule", w.cfg.AutoCompleteSchedule))
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (w *CompletionWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}

func (w *CompletionWorker) sweep() {
	completed, err := w.bookings.CompleteElapsed(context.Background())
	if err != nil {
		w.logger.Error("auto-complete sweep failed", zap.Error(err))
		return
	}
	if completed > 0 {
		w.logger.Info("auto-completed bookings", zap.Int("count", completed))
	}
}
