package job

import (
	"cmp"
	"context"
	"slices"

	"worker-finder/pkg/db/pagination"
	"worker-finder/pkg/errutil"
	"worker-finder/pkg/geo"
	"worker-finder/pkg/money"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const viewColumns = "j.*, c.name AS category_name, " +
	"sp.full_name AS seeker_name, sp.profile_photo AS seeker_photo, sp.city AS seeker_city, " +
	"wp.full_name AS worker_name, wp.profile_photo AS worker_photo"

const detailColumns = ", su.mobile AS seeker_mobile, sp.address AS seeker_address, " +
	"wu.mobile AS worker_mobile, wp.profession AS worker_profession, wp.experience_years AS worker_experience"

type ListFilter struct {
	Status     JobStatus
	CategoryID int64
	MinBudget  *money.Amount
	MaxBudget  *money.Amount
	Latitude   *float64
	Longitude  *float64
	RadiusKm   float64
	pagination.Pagination
}

func (f ListFilter) hasLocation() bool {
	return f.Latitude != nil && f.Longitude != nil
}

type ListResult struct {
	Jobs       []*View              `json:"jobs"`
	Pagination *pagination.PageInfo `json:"pagination"`
}

func (s *Service) views(ctx context.Context, columns string) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("jobs AS j").
		Select(columns).
		Joins("LEFT JOIN categories c ON j.category_id = c.id").
		Joins("LEFT JOIN seeker_profiles sp ON j.seeker_id = sp.user_id").
		Joins("LEFT JOIN worker_profiles wp ON j.worker_id = wp.user_id")
}

func (s *Service) normalize(p pagination.Pagination) pagination.Pagination {
	return p.Normalize(s.market.DefaultPageLimit, s.market.MaxPageLimit)
}

// List is the public job board. With a location the candidates inside the
// radius are ordered nearest first, then newest; otherwise newest first.
// The total only reflects the status and category filters.
func (s *Service) List(ctx context.Context, f ListFilter) (*ListResult, error) {
	f.Pagination = s.normalize(f.Pagination)
	if f.RadiusKm <= 0 {
		f.RadiusKm = s.market.DefaultRadiusKm
	}

	var total int64
	var jobs []*View

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q := s.db.WithContext(gctx).Model(&Job{})
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		if f.CategoryID > 0 {
			q = q.Where("category_id = ?", f.CategoryID)
		}
		return q.Count(&total).Error
	})
	g.Go(func() error {
		var err error
		if f.hasLocation() {
			jobs, err = s.nearby(gctx, f)
		} else {
			err = s.filtered(gctx, f).
				Order("j.created_at DESC").Order("j.id DESC").
				Limit(f.Limit).Offset(f.Offset()).
				Find(&jobs).Error
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errutil.Internal("Failed to fetch jobs", err)
	}

	if jobs == nil {
		jobs = []*View{}
	}

	return &ListResult{
		Jobs:       jobs,
		Pagination: pagination.BuildPageInfo(f.Pagination, total),
	}, nil
}

func (s *Service) filtered(ctx context.Context, f ListFilter) *gorm.DB {
	q := s.views(ctx, viewColumns)
	if f.Status != "" {
		q = q.Where("j.status = ?", f.Status)
	}
	if f.CategoryID > 0 {
		q = q.Where("j.category_id = ?", f.CategoryID)
	}
	if f.MinBudget != nil {
		q = q.Where("j.budget >= ?", *f.MinBudget)
	}
	if f.MaxBudget != nil {
		q = q.Where("j.budget <= ?", *f.MaxBudget)
	}
	return q
}

// nearby narrows candidates with a bounding box in SQL, then applies the
// exact great-circle radius, ordering and paging in memory.
func (s *Service) nearby(ctx context.Context, f ListFilter) ([]*View, error) {
	center := geo.Point{Lat: *f.Latitude, Lng: *f.Longitude}
	lo, hi := geo.BoundingBox(center, f.RadiusKm)

	q := s.filtered(ctx, f).
		Where("j.latitude IS NOT NULL AND j.longitude IS NOT NULL").
		Where("j.latitude BETWEEN ? AND ?", lo.Lat, hi.Lat)
	// the longitude window is skipped when it wraps the antimeridian
	if lo.Lng >= -180 && hi.Lng <= 180 {
		q = q.Where("j.longitude BETWEEN ? AND ?", lo.Lng, hi.Lng)
	}

	var candidates []*View
	if err := q.Order("j.created_at DESC").Order("j.id DESC").Find(&candidates).Error; err != nil {
		return nil, err
	}

	within := make([]*View, 0, len(candidates))
	for _, v := range candidates {
		d := geo.DistanceKm(center, geo.Point{Lat: *v.Latitude, Lng: *v.Longitude})
		if d > f.RadiusKm {
			continue
		}
		v.Distance = &d
		within = append(within, v)
	}

	// stable, so equal distances keep the newest-first order from SQL
	slices.SortStableFunc(within, func(a, b *View) int {
		return cmp.Compare(*a.Distance, *b.Distance)
	})

	start := max(0, min(f.Offset(), len(within)))
	end := min(start+f.Limit, len(within))
	return within[start:end], nil
}

// Get returns a single job with its display names and contact details.
func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	var v Detail
	res := s.views(ctx, viewColumns+detailColumns).
		Joins("LEFT JOIN users su ON j.seeker_id = su.id").
		Joins("LEFT JOIN users wu ON j.worker_id = wu.id").
		Where("j.id = ?", id).Limit(1).Find(&v)
	if res.Error != nil {
		return nil, errutil.Internal("Failed to fetch job details", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errutil.NotFound("Job not found", nil)
	}
	return &v, nil
}

// Mine lists jobs where userID is the worker (asWorker) or the seeker.
func (s *Service) Mine(ctx context.Context, userID int64, asWorker bool, status JobStatus, p pagination.Pagination) (*ListResult, error) {
	p = s.normalize(p)

	field := "seeker_id"
	if asWorker {
		field = "worker_id"
	}

	var total int64
	var jobs []*View

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q := s.db.WithContext(gctx).Model(&Job{}).Where(field+" = ?", userID)
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q.Count(&total).Error
	})
	g.Go(func() error {
		q := s.views(gctx, viewColumns).Where("j."+field+" = ?", userID)
		if status != "" {
			q = q.Where("j.status = ?", status)
		}
		return q.Order("j.created_at DESC").Order("j.id DESC").
			Limit(p.Limit).Offset(p.Offset()).
			Find(&jobs).Error
	})
	if err := g.Wait(); err != nil {
		return nil, errutil.Internal("Failed to fetch jobs", err)
	}

	if jobs == nil {
		jobs = []*View{}
	}

	return &ListResult{
		Jobs:       jobs,
		Pagination: pagination.BuildPageInfo(p, total),
	}, nil
}

// Applications lists the bids on a job owned by seekerID, newest first.
func (s *Service) Applications(ctx context.Context, seekerID, jobID int64) ([]*ApplicationView, error) {
	job, err := s.jobs.FindOne(ctx, &Job{ID: jobID})
	if err != nil {
		return nil, errutil.Internal("Failed to fetch applications", err)
	}
	if job == nil || job.SeekerID != seekerID {
		return nil, errutil.NotFound("Job not found or unauthorized", nil)
	}

	out := []*ApplicationView{}
	err = s.db.WithContext(ctx).
		Table("job_applications AS ja").
		Select("ja.*, wp.full_name AS worker_name, wp.profile_photo AS worker_photo, " +
			"wp.profession, wp.experience_years, wp.average_rating, wp.total_jobs_completed, " +
			"u.mobile AS worker_mobile").
		Joins("LEFT JOIN worker_profiles wp ON ja.worker_id = wp.user_id").
		Joins("LEFT JOIN users u ON ja.worker_id = u.id").
		Where("ja.job_id = ?", jobID).
		Order("ja.created_at DESC").Order("ja.id DESC").
		Find(&out).Error
	if err != nil {
		return nil, errutil.Internal("Failed to fetch applications", err)
	}

	return out, nil
}
