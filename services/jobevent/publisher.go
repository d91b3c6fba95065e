package jobevent

import (
	"context"
	"time"

	applog "worker-finder/pkg/logger"
	"worker-finder/pkg/task"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var published = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "job_events_published_total",
	Help: "Job lifecycle events handed to the queue, by type and result.",
}, []string{"type", "result"})

type Publisher interface {
	// Publish is fire and forget. It is called after the owning transaction
	// committed, so failures are logged and never surfaced to the caller.
	Publish(ctx context.Context, typename string, p Payload)
}

type publisher struct {
	enq  task.Enqueuer
	node *snowflake.Node
}

func NewPublisher(enq task.Enqueuer, node *snowflake.Node) Publisher {
	return &publisher{enq: enq, node: node}
}

func (p *publisher) Publish(ctx context.Context, typename string, payload Payload) {
	if p.enq == nil {
		return
	}

	if payload.EventID == 0 {
		payload.EventID = p.node.Generate().Int64()
	}
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now().UTC()
	}

	log := applog.FromContext(ctx).With(
		zap.String("task_type", typename),
		zap.Int64("job_id", payload.JobID),
	)

	t, err := NewTask(typename, payload)
	if err != nil {
		published.WithLabelValues(typename, "error").Inc()
		log.Error("failed to build job event", zap.Error(err))
		return
	}

	if _, err := p.enq.Enqueue(t); err != nil {
		published.WithLabelValues(typename, "error").Inc()
		log.Warn("failed to enqueue job event", zap.Error(err))
		return
	}

	published.WithLabelValues(typename, "ok").Inc()
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, Payload) {}
