package jobevent

import (
	"context"
	"encoding/json"
	"fmt"

	"worker-finder/pkg/taskname"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// ProcessTask records one event. Redeliveries of the same event are
// absorbed by the primary key.
func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p Payload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}

	if p.EventID == 0 || p.JobID == 0 {
		return fmt.Errorf("%s payload without event or job id: %w", t.Type(), asynq.SkipRetry)
	}

	ev := &JobEvent{
		ID:         p.EventID,
		JobID:      p.JobID,
		Type:       t.Type(),
		ActorID:    p.ActorID,
		FromStatus: p.FromStatus,
		ToStatus:   p.ToStatus,
		Payload:    datatypes.JSON(t.Payload()),
		OccurredAt: p.OccurredAt,
	}

	if err := h.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(ev).Error; err != nil {
		return err
	}

	zap.L().Debug("job event recorded",
		zap.String("task_type", t.Type()),
		zap.Int64("job_id", p.JobID),
		zap.Int64("event_id", p.EventID),
	)

	return nil
}

// Register routes every job event type to h.
func Register(mux *asynq.ServeMux, h *Handler) {
	for _, typename := range taskname.JobEvents {
		mux.Handle(typename, h)
	}
}
