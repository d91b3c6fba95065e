package profile

import (
	"context"
	"testing"

	"worker-finder/pkg/money"
	"worker-finder/services/testutil"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func seed(t *testing.T, svc *Service) {
	t.Helper()
	require.NoError(t, svc.db.Create(&[]User{
		{ID: 1, Email: "seeker@example.com", UserType: UserTypeSeeker, IsActive: true},
		{ID: 2, Email: "worker@example.com", UserType: UserTypeWorker, IsActive: true},
		{ID: 3, Email: "idle@example.com", UserType: UserTypeWorker},
	}).Error)
	require.NoError(t, svc.db.Create(&SeekerProfile{ID: 10, UserID: 1, FullName: "Asha"}).Error)
	require.NoError(t, svc.db.Create(&WorkerProfile{ID: 20, UserID: 2, FullName: "Ravi"}).Error)
}

func TestActiveWorker(t *testing.T) {
	db := testutil.NewTestDB(t, Models()...)
	svc := NewService(ServiceParams{DB: db})
	seed(t, svc)
	ctx := context.Background()

	u, err := svc.ActiveWorker(ctx, nil, 2)
	require.NoError(t, err)
	require.NotNil(t, u)

	for _, id := range []int64{0, 1, 3, 99} {
		u, err := svc.ActiveWorker(ctx, nil, id)
		require.NoError(t, err)
		require.Nil(t, u, "user %d", id)
	}
}

func TestLoadPrincipal(t *testing.T) {
	db := testutil.NewTestDB(t, Models()...)
	svc := NewService(ServiceParams{DB: db})
	seed(t, svc)
	ctx := context.Background()

	p, err := svc.LoadPrincipal(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "worker", p.UserType)
	require.False(t, p.IsActive)

	p, err = svc.LoadPrincipal(ctx, 404)
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestAggregates(t *testing.T) {
	db := testutil.NewTestDB(t, Models()...)
	svc := NewService(ServiceParams{DB: db})
	seed(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.IncrementJobsPosted(ctx, db, 1))
	require.NoError(t, svc.IncrementJobsPosted(ctx, db, 1))

	worker := int64(2)
	require.NoError(t, svc.RecordCompletion(ctx, db, &worker, 1, money.FromUnits(820), money.FromUnits(1000)))
	require.NoError(t, svc.RecordCompletion(ctx, db, &worker, 1, money.Amount(7519), money.Amount(10025)))

	sp, err := svc.SeekerProfile(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), sp.TotalJobsPosted)
	require.Equal(t, money.Amount(110025), sp.TotalAmountSpent)

	wp, err := svc.WorkerProfile(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), wp.TotalJobsCompleted)
	require.Equal(t, money.Amount(89519), wp.TotalEarnings)

	// missing profiles are skipped, not failed
	require.NoError(t, svc.IncrementJobsPosted(ctx, db, 77))
	require.NoError(t, svc.RecordCompletion(ctx, db, nil, 77, 0, money.FromUnits(5)))
}
