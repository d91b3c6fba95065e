package notification

import (
	"context"
	"fmt"

	"worker-finder/pkg/config"
	"worker-finder/pkg/db/option"
	"worker-finder/pkg/db/pagination"
	"worker-finder/pkg/errutil"
	"worker-finder/pkg/httpapi"
	"worker-finder/pkg/repository"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("notification",
	fx.Provide(
		NewService,
		func(s *Service) Sink { return s },
		httpapi.AsRouter(NewHandler),
	),
)

// Sink appends notifications. Enqueue runs on tx so the record commits or
// rolls back with the caller's change.
type Sink interface {
	Enqueue(ctx context.Context, tx *gorm.DB, n Message) error
}

// Message is what a caller hands to the sink.
type Message struct {
	UserID      int64
	Title       string
	Body        string
	Type        Type
	ReferenceID int64
}

type Service struct {
	repo repository.Repository[Notification]
	node *snowflake.Node
	cfg  *config.Config
}

type ServiceParams struct {
	fx.In
	DB     *gorm.DB
	Node   *snowflake.Node
	Config *config.Config `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		repo: repository.ProvideStore[Notification](p.DB),
		node: p.Node,
		cfg:  p.Config,
	}
}

func (s *Service) Enqueue(ctx context.Context, tx *gorm.DB, m Message) error {
	if m.UserID <= 0 {
		return fmt.Errorf("notification: recipient required")
	}
	if !m.Type.Valid() {
		return fmt.Errorf("notification: invalid type %q", m.Type)
	}

	n := &Notification{
		ID:      s.node.Generate().Int64(),
		UserID:  m.UserID,
		Title:   m.Title,
		Message: m.Body,
		Type:    m.Type,
	}
	if m.ReferenceID > 0 {
		ref := m.ReferenceID
		n.ReferenceID = &ref
	}

	return s.repo.WithTrx(tx).Create(ctx, n)
}

type ListResult struct {
	Notifications []*Notification      `json:"notifications"`
	Pagination    *pagination.PageInfo `json:"pagination"`
}

func (s *Service) pageLimits() (int, int) {
	if s.cfg == nil {
		return 20, 100
	}
	return s.cfg.Marketplace.DefaultPageLimit, s.cfg.Marketplace.MaxPageLimit
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID int64, unreadOnly bool, p pagination.Pagination) (*ListResult, error) {
	p = p.Normalize(s.pageLimits())

	var opts []option.QueryOption
	if unreadOnly {
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "is_read", Operator: option.EQ, Value: false}))
	}

	total, err := s.repo.Count(ctx, &Notification{UserID: userID}, opts...)
	if err != nil {
		return nil, errutil.Internal("Failed to fetch notifications", err)
	}

	items, err := s.repo.Find(ctx, &Notification{UserID: userID}, append(opts,
		option.WithSortBy(option.QuerySortBy{SortBy: "id", OrderBy: "desc", Allow: map[string]bool{"id": true}}),
		option.ApplyPagination(p),
	)...)
	if err != nil {
		return nil, errutil.Internal("Failed to fetch notifications", err)
	}

	return &ListResult{
		Notifications: items,
		Pagination:    pagination.BuildPageInfo(p, total),
	}, nil
}

// MarkRead acknowledges one of the user's notifications. Another user's
// notification is reported as not found.
func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	n, err := s.repo.UpdateWhere(ctx, &Notification{ID: id, UserID: userID}, map[string]any{"is_read": true})
	if err != nil {
		return errutil.Internal("Failed to update notification", err)
	}
	if n == 0 {
		return errutil.NotFound("Notification not found", nil)
	}
	return nil
}
