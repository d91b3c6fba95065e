package jobevent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"worker-finder/pkg/task"
	"worker-finder/pkg/taskname"
	"worker-finder/services/testutil"

	"github.com/bwmarrin/snowflake"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func TestPublishEnqueuesTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	enq := task.NewMockEnqueuer(ctrl)

	var got *asynq.Task
	enq.EXPECT().Enqueue(gomock.Any()).DoAndReturn(func(tk *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
		got = tk
		return &asynq.TaskInfo{}, nil
	})

	NewPublisher(enq, newNode(t)).Publish(context.Background(), taskname.JobAssigned, Payload{JobID: 9, ActorID: 1, WorkerID: 2})

	require.NotNil(t, got)
	require.Equal(t, taskname.JobAssigned, got.Type())

	var p Payload
	require.NoError(t, json.Unmarshal(got.Payload(), &p))
	require.Equal(t, int64(9), p.JobID)
	require.NotZero(t, p.EventID)
	require.False(t, p.OccurredAt.IsZero())
}

func TestPublishSwallowsBrokerErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	enq := task.NewMockEnqueuer(ctrl)
	enq.EXPECT().Enqueue(gomock.Any()).Return(nil, errors.New("redis down"))

	require.NotPanics(t, func() {
		NewPublisher(enq, newNode(t)).Publish(context.Background(), taskname.JobCreated, Payload{JobID: 1})
	})
}

func TestHandlerRecordsEventOnce(t *testing.T) {
	db := testutil.NewTestDB(t, &JobEvent{})
	h := NewHandler(db)
	ctx := context.Background()

	tk, err := NewTask(taskname.JobStatusChanged, Payload{
		EventID:    100,
		JobID:      9,
		ActorID:    2,
		FromStatus: "assigned",
		ToStatus:   "in_progress",
		OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	require.NoError(t, h.ProcessTask(ctx, tk))
	require.NoError(t, h.ProcessTask(ctx, tk))

	var events []JobEvent
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1)
	require.Equal(t, taskname.JobStatusChanged, events[0].Type)
	require.Equal(t, "in_progress", events[0].ToStatus)

	var p Payload
	require.NoError(t, json.Unmarshal(events[0].Payload, &p))
	require.Equal(t, int64(9), p.JobID)
}

func TestHandlerSkipsRetryOnBadPayload(t *testing.T) {
	db := testutil.NewTestDB(t, &JobEvent{})
	h := NewHandler(db)

	err := h.ProcessTask(context.Background(), asynq.NewTask(taskname.JobCreated, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)

	err = h.ProcessTask(context.Background(), asynq.NewTask(taskname.JobCreated, []byte(`{"job_id":1}`)))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestRegisterRoutesEveryJobEvent(t *testing.T) {
	mux := asynq.NewServeMux()
	Register(mux, NewHandler(nil))

	for _, typename := range taskname.JobEvents {
		_, pattern := mux.Handler(asynq.NewTask(typename, nil))
		require.Equal(t, typename, pattern)
	}
}
