package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"hospital-booking/internal/usecase"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CompletionWorker periodically moves pending appointments whose slot has
// ended to completed. Completed appointments keep holding their slot.
type CompletionWorker struct {
	appointmentUsecase usecase.AppointmentUsecase
	log                *logrus.Logger
	scheduler          *cron.Cron
	timeout            time.Duration

	// initial tracks the pass Start launches outside the scheduler.
	initial sync.WaitGroup
	running atomic.Bool
	stopped atomic.Bool
}

// NewCompletionWorker validates spec (standard cron syntax or descriptors
// such as "@every 5m") without starting anything.
func NewCompletionWorker(
	appointmentUsecase usecase.AppointmentUsecase,
	log *logrus.Logger,
	spec string,
	timeout time.Duration,
) (*CompletionWorker, error) {
	// A slow run is skipped rather than stacked behind the next tick.
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	w := &CompletionWorker{
		appointmentUsecase: appointmentUsecase,
		log:                log,
		scheduler:          scheduler,
		timeout:            timeout,
	}

	if _, err := w.scheduler.AddFunc(spec, w.runOnce); err != nil {
		return nil, fmt.Errorf("invalid completion schedule %q: %w", spec, err)
	}

	return w, nil
}

// Start runs one pass immediately, then follows the schedule. A tick that
// lands while that pass is still going is skipped.
func (w *CompletionWorker) Start() {
	w.initial.Add(1)
	go func() {
		defer w.initial.Done()
		w.runOnce()
	}()
	w.scheduler.Start()
	w.log.Info("Completion worker started")
}

// Stop waits for any running pass, scheduled or initial, to finish. Safe to
// call multiple times.
func (w *CompletionWorker) Stop() {
	if w.stopped.CompareAndSwap(false, true) {
		<-w.scheduler.Stop().Done()
		w.initial.Wait()
		w.log.Info("Completion worker stopped")
	}
}

func (w *CompletionWorker) runOnce() {
	if !w.running.CompareAndSwap(false, true) {
		w.log.Debug("Completion pass already running, skipping")
		return
	}
	defer w.running.Store(false)

	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	completed, err := w.appointmentUsecase.CompleteElapsedAppointments(ctx)
	if err != nil {
		w.log.Warnf("Failed to complete elapsed appointments: %+v", err)
		return
	}
	if completed > 0 {
		w.log.WithField("completed", completed).Info("Completed elapsed appointments")
	}
}
