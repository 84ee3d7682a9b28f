package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/beauty-booking/internal/config"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler queues completion tasks on the asynq Redis database.
type Scheduler struct {
	client enqueuer
	log    *zap.Logger
}

func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
}

func NewScheduler(client *asynq.Client, log *zap.Logger) *Scheduler {
	return &Scheduler{client: client, log: log}
}

func (s *Scheduler) ScheduleCompletion(ctx context.Context, reservationID uint, at time.Time) error {
	task, opts, err := NewCompleteTask(reservationID, at)
	if err != nil {
		return err
	}

	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	if err != nil {
		return err
	}

	s.log.Debug("completion scheduled",
		zap.Uint("reservation_id", reservationID),
		zap.String("task_id", info.ID),
		zap.Time("process_at", at),
	)
	return nil
}
