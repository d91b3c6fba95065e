package profile

import (
	"context"

	"worker-finder/pkg/middleware"
	"worker-finder/pkg/money"
	"worker-finder/pkg/repository"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("profile",
	fx.Provide(
		NewService,
		func(s *Service) middleware.PrincipalStore { return s },
	),
)

type Service struct {
	db      *gorm.DB
	users   repository.Repository[User]
	workers repository.Repository[WorkerProfile]
	seekers repository.Repository[SeekerProfile]
}

type ServiceParams struct {
	fx.In
	DB *gorm.DB
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:      p.DB,
		users:   repository.ProvideStore[User](p.DB),
		workers: repository.ProvideStore[WorkerProfile](p.DB),
		seekers: repository.ProvideStore[SeekerProfile](p.DB),
	}
}

// FindUser returns nil, nil when the user does not exist.
func (s *Service) FindUser(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, nil
	}
	return s.users.FindOne(ctx, &User{ID: id})
}

// ActiveWorker returns the user when id names an active worker account and
// nil otherwise.
func (s *Service) ActiveWorker(ctx context.Context, tx *gorm.DB, id int64) (*User, error) {
	if id <= 0 {
		return nil, nil
	}

	u, err := s.users.WithTrx(tx).FindOne(ctx, &User{ID: id})
	if err != nil || u == nil {
		return nil, err
	}

	if u.UserType != UserTypeWorker || !u.IsActive {
		return nil, nil
	}

	return u, nil
}

func (s *Service) LoadPrincipal(ctx context.Context, userID int64) (*middleware.Principal, error) {
	u, err := s.FindUser(ctx, userID)
	if err != nil || u == nil {
		return nil, err
	}

	return &middleware.Principal{
		UserID:     u.ID,
		UserType:   string(u.UserType),
		Email:      u.Email,
		IsVerified: u.IsVerified,
		IsActive:   u.IsActive,
	}, nil
}

// IncrementJobsPosted bumps the seeker's posted counter inside tx. A seeker
// without a profile row is logged and skipped.
func (s *Service) IncrementJobsPosted(ctx context.Context, tx *gorm.DB, seekerID int64) error {
	n, err := s.seekers.WithTrx(tx).UpdateWhere(ctx, &SeekerProfile{UserID: seekerID}, map[string]any{
		"total_jobs_posted": gorm.Expr("total_jobs_posted + ?", 1),
	})
	if err != nil {
		return err
	}

	if n == 0 {
		zap.L().Warn("seeker profile missing, total_jobs_posted not updated", zap.Int64("seeker_id", seekerID))
	}

	return nil
}

// RecordCompletion applies the completion aggregates inside tx: the worker
// gains one completed job and earnings, the seeker's spend grows by the
// gross budget.
func (s *Service) RecordCompletion(ctx context.Context, tx *gorm.DB, workerID *int64, seekerID int64, earnings, spent money.Amount) error {
	if workerID != nil {
		n, err := s.workers.WithTrx(tx).UpdateWhere(ctx, &WorkerProfile{UserID: *workerID}, map[string]any{
			"total_jobs_completed": gorm.Expr("total_jobs_completed + ?", 1),
			"total_earnings":       gorm.Expr("total_earnings + ?", earnings),
		})
		if err != nil {
			return err
		}
		if n == 0 {
			zap.L().Warn("worker profile missing, completion aggregates not updated", zap.Int64("worker_id", *workerID))
		}
	}

	n, err := s.seekers.WithTrx(tx).UpdateWhere(ctx, &SeekerProfile{UserID: seekerID}, map[string]any{
		"total_amount_spent": gorm.Expr("total_amount_spent + ?", spent),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		zap.L().Warn("seeker profile missing, total_amount_spent not updated", zap.Int64("seeker_id", seekerID))
	}

	return nil
}

func (s *Service) WorkerProfile(ctx context.Context, userID int64) (*WorkerProfile, error) {
	return s.workers.FindOne(ctx, &WorkerProfile{UserID: userID})
}

func (s *Service) SeekerProfile(ctx context.Context, userID int64) (*SeekerProfile, error) {
	return s.seekers.FindOne(ctx, &SeekerProfile{UserID: userID})
}
