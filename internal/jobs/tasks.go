package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeCompleteReservation = "reservation:complete"
	TypeSweepCompleted      = "reservation:sweep_completed"
)

// SweepSpec runs the completion sweep every fifteen minutes.
const SweepSpec = "*/15 * * * *"

type CompletePayload struct {
	ReservationID uint `json:"reservation_id"`
}

// NewCompleteTask fires once the appointment has ended. The task id keeps
// a re-confirmed reservation from being queued twice.
func NewCompleteTask(reservationID uint, at time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(CompletePayload{ReservationID: reservationID})
	if err != nil {
		return nil, nil, err
	}

	task := asynq.NewTask(TypeCompleteReservation, b)
	opts := []asynq.Option{
		asynq.ProcessAt(at),
		asynq.TaskID(completeTaskID(reservationID)),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

func NewSweepTask() *asynq.Task {
	return asynq.NewTask(TypeSweepCompleted, nil)
}

func completeTaskID(reservationID uint) string {
	return fmt.Sprintf("complete:%d", reservationID)
}
