package notification

import (
	"context"
	"errors"
	"testing"

	"worker-finder/pkg/db/pagination"
	"worker-finder/pkg/errutil"
	"worker-finder/services/testutil"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t, &Notification{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewService(ServiceParams{DB: db, Node: node}), db
}

func TestEnqueueRollsBackWithTransaction(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := db.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, svc.Enqueue(ctx, tx, Message{UserID: 7, Title: "t", Body: "b", Type: TypeJob, ReferenceID: 1}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&Notification{}).Count(&count).Error)
	require.Zero(t, count)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.Enqueue(ctx, tx, Message{UserID: 7, Title: "Job Cancelled", Body: "Job has been cancelled", Type: TypeJob, ReferenceID: 42})
	}))

	var n Notification
	require.NoError(t, db.Take(&n).Error)
	require.Equal(t, int64(7), n.UserID)
	require.Equal(t, TypeJob, n.Type)
	require.NotNil(t, n.ReferenceID)
	require.Equal(t, int64(42), *n.ReferenceID)
	require.False(t, n.IsRead)
}

func TestEnqueueRejectsBadInput(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	require.Error(t, svc.Enqueue(ctx, db, Message{UserID: 0, Type: TypeJob}))
	require.Error(t, svc.Enqueue(ctx, db, Message{UserID: 1, Type: "sms"}))
}

func TestListAndMarkRead(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Enqueue(ctx, db, Message{UserID: 1, Title: "t", Body: "b", Type: TypeJob, ReferenceID: int64(i + 1)}))
	}
	require.NoError(t, svc.Enqueue(ctx, db, Message{UserID: 2, Title: "t", Body: "b", Type: TypeSystem}))

	res, err := svc.List(ctx, 1, false, pagination.Pagination{Limit: 2})
	require.NoError(t, err)
	require.Len(t, res.Notifications, 2)
	require.Equal(t, int64(3), res.Pagination.Total)
	require.Equal(t, 2, res.Pagination.TotalPages)
	require.Equal(t, int64(3), *res.Notifications[0].ReferenceID)

	other, err := svc.List(ctx, 2, false, pagination.Pagination{})
	require.NoError(t, err)
	require.Len(t, other.Notifications, 1)

	first := res.Notifications[0].ID
	require.NoError(t, svc.MarkRead(ctx, 1, first))

	err = svc.MarkRead(ctx, 2, first)
	require.True(t, errutil.Is(err, errutil.StatusNotFound))

	unread, err := svc.List(ctx, 1, true, pagination.Pagination{})
	require.NoError(t, err)
	require.Len(t, unread.Notifications, 2)
	require.Equal(t, int64(2), unread.Pagination.Total)
}
