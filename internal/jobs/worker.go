package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
)

type Completer interface {
	Execute(ctx context.Context, providerID, reservationID uint) (*models.Reservation, error)
}

type Sweeper interface {
	Execute(ctx context.Context) (int, error)
}

// Worker runs the completion handlers and the periodic sweep.
type Worker struct {
	srv       *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	log       *zap.Logger
}

func NewWorker(opt asynq.RedisClientOpt, completer Completer, sweeper Sweeper, log *zap.Logger) *Worker {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
		Logger: log.Sugar(),
	})

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Logger: log.Sugar(),
	})

	return &Worker{
		srv:       srv,
		scheduler: scheduler,
		mux:       NewMux(completer, sweeper, log),
		log:       log,
	}
}

func NewMux(completer Completer, sweeper Sweeper, log *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCompleteReservation, handleComplete(completer, log))
	mux.HandleFunc(TypeSweepCompleted, handleSweep(sweeper, log))
	return mux
}

func (w *Worker) Start() error {
	if _, err := w.scheduler.Register(SweepSpec, NewSweepTask()); err != nil {
		return fmt.Errorf("register sweep: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	if err := w.srv.Start(w.mux); err != nil {
		w.scheduler.Shutdown()
		return fmt.Errorf("start worker: %w", err)
	}

	w.log.Info("worker started", zap.String("sweep", SweepSpec))
	return nil
}

func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.srv.Shutdown()
}

func handleComplete(completer Completer, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p CompletePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return fmt.Errorf("%w: invalid payload: %v", asynq.SkipRetry, err)
		}

		_, err := completer.Execute(ctx, 0, p.ReservationID)
		switch {
		case err == nil:
			log.Info("reservation completed", zap.Uint("reservation_id", p.ReservationID))
			return nil

		// cancelled or already completed in the meantime
		case httperr.IsKind(err, httperr.KindInvalidState):
			log.Debug("completion skipped", zap.Uint("reservation_id", p.ReservationID), zap.Error(err))
			return nil

		case httperr.IsKind(err, httperr.KindNotFound):
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		return err
	}
}

func handleSweep(sweeper Sweeper, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		n, err := sweeper.Execute(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("sweep completed reservations", zap.Int("count", n))
		}
		return nil
	}
}
