package jobevent

import (
	"encoding/json"
	"time"

	"worker-finder/pkg/task"

	"github.com/hibiken/asynq"
)

// Payload is the body of every job:* task.
type Payload struct {
	EventID       int64     `json:"event_id"`
	JobID         int64     `json:"job_id"`
	ActorID       int64     `json:"actor_id"`
	SeekerID      int64     `json:"seeker_id,omitempty"`
	WorkerID      int64     `json:"worker_id,omitempty"`
	ApplicationID int64     `json:"application_id,omitempty"`
	FromStatus    string    `json:"from_status,omitempty"`
	ToStatus      string    `json:"to_status,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewTask(typename string, p Payload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(typename, b,
		asynq.Queue(task.QueueDefault),
		asynq.MaxRetry(5),
	), nil
}
