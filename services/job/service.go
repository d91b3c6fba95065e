package job

import (
	"context"
	"time"

	"worker-finder/pkg/commission"
	"worker-finder/pkg/config"
	"worker-finder/pkg/db/option"
	"worker-finder/pkg/errutil"
	"worker-finder/pkg/featureflags"
	"worker-finder/pkg/httpapi"
	applog "worker-finder/pkg/logger"
	"worker-finder/pkg/money"
	"worker-finder/pkg/repository"
	"worker-finder/pkg/taskname"
	"worker-finder/services/category"
	"worker-finder/services/jobevent"
	"worker-finder/services/notification"
	"worker-finder/services/profile"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("job",
	fx.Provide(
		func(s *profile.Service) Profiles { return s },
		func(s *category.Service) Categories { return s },
		NewService,
		httpapi.AsRouter(NewHandler),
	),
)

// Profiles is the slice of the profile store the lifecycle writes through.
type Profiles interface {
	ActiveWorker(ctx context.Context, tx *gorm.DB, id int64) (*profile.User, error)
	IncrementJobsPosted(ctx context.Context, tx *gorm.DB, seekerID int64) error
	RecordCompletion(ctx context.Context, tx *gorm.DB, workerID *int64, seekerID int64, earnings, spent money.Amount) error
}

type Categories interface {
	Exists(ctx context.Context, tx *gorm.DB, id int64) (bool, error)
}

type Service struct {
	db         *gorm.DB
	jobs       repository.Repository[Job]
	apps       repository.Repository[Application]
	node       *snowflake.Node
	calc       *commission.Calculator
	profiles   Profiles
	categories Categories
	notifier   notification.Sink
	events     jobevent.Publisher
	flags      featureflags.FeatureFlag
	market     config.Marketplace
}

type ServiceParams struct {
	fx.In
	DB         *gorm.DB
	Config     *config.Config
	Node       *snowflake.Node
	Calculator *commission.Calculator
	Profiles   Profiles
	Categories Categories
	Notifier   notification.Sink
	Events     jobevent.Publisher        `optional:"true"`
	Flags      featureflags.FeatureFlag `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	events := p.Events
	if events == nil {
		events = jobevent.Nop{}
	}

	flags := p.Flags
	if flags == nil {
		flags = featureflags.Static{}
	}

	return &Service{
		db:         p.DB,
		jobs:       repository.ProvideStore[Job](p.DB),
		apps:       repository.ProvideStore[Application](p.DB),
		node:       p.Node,
		calc:       p.Calculator,
		profiles:   p.Profiles,
		categories: p.Categories,
		notifier:   p.Notifier,
		events:     events,
		flags:      flags,
		market:     p.Config.Marketplace,
	}
}

type CreateInput struct {
	SeekerID      int64
	Title         string
	Description   string
	CategoryID    *int64
	Budget        money.Amount
	Location      string
	Latitude      *float64
	Longitude     *float64
	ScheduledDate *time.Time
	WorkerID      *int64
}

type CreateResult struct {
	JobID             int64                `json:"job_id,string"`
	Status            JobStatus            `json:"status"`
	CommissionDetails commission.Breakdown `json:"commission_details"`
}

// Create posts a job. A worker_id that does not name an active worker is
// dropped and the job is posted open instead of failing the request.
func (s *Service) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	log := applog.FromContext(ctx)
	breakdown := s.calc.Calculate(in.Budget)

	job := &Job{
		ID:               s.node.Generate().Int64(),
		SeekerID:         in.SeekerID,
		CategoryID:       in.CategoryID,
		Title:            in.Title,
		Description:      in.Description,
		Budget:           in.Budget,
		Location:         in.Location,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		Status:           JobStatusOpen,
		ScheduledDate:    in.ScheduledDate,
		PaymentStatus:    PaymentStatusPending,
		CommissionAmount: breakdown.Commission,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.CategoryID != nil {
			ok, err := s.categories.Exists(ctx, tx, *in.CategoryID)
			if err != nil {
				return err
			}
			if !ok {
				return errutil.BadRequest("Invalid category_id", nil)
			}
		}

		if in.WorkerID != nil {
			worker, err := s.profiles.ActiveWorker(ctx, tx, *in.WorkerID)
			if err != nil {
				return err
			}
			if worker == nil {
				log.Warn("worker_id is not an active worker, posting job as open", zap.Int64("worker_id", *in.WorkerID))
			} else {
				job.WorkerID = &worker.ID
				job.Status = JobStatusAssigned
			}
		}

		if err := s.jobs.WithTrx(tx).Create(ctx, job); err != nil {
			return err
		}

		if err := s.profiles.IncrementJobsPosted(ctx, tx, in.SeekerID); err != nil {
			return err
		}

		if job.WorkerID != nil {
			return s.notifier.Enqueue(ctx, tx, notification.Message{
				UserID:      *job.WorkerID,
				Title:       "New Job Assigned",
				Body:        "You have been assigned a new job: " + job.Title,
				Type:        notification.TypeJob,
				ReferenceID: job.ID,
			})
		}

		return nil
	})
	if err != nil {
		return nil, translate(err, "Failed to create job")
	}

	jobsCreated.WithLabelValues(string(job.Status)).Inc()
	log.Info("job created", zap.Int64("job_id", job.ID), zap.String("status", string(job.Status)))

	payload := jobevent.Payload{
		JobID:    job.ID,
		ActorID:  in.SeekerID,
		SeekerID: in.SeekerID,
		ToStatus: string(job.Status),
	}
	s.events.Publish(ctx, taskname.JobCreated, payload)
	if job.WorkerID != nil {
		payload.WorkerID = *job.WorkerID
		s.events.Publish(ctx, taskname.JobAssigned, payload)
	}

	return &CreateResult{
		JobID:             job.ID,
		Status:            job.Status,
		CommissionDetails: breakdown,
	}, nil
}

type ApplyInput struct {
	WorkerID        int64
	JobID           int64
	ProposalMessage string
	QuotedPrice     *money.Amount
}

type ApplyResult struct {
	ApplicationID int64 `json:"application_id,string"`
}

// Apply records a pending bid by a worker on an open job. The job row is
// locked for the duration so an application cannot land after the job has
// been assigned.
func (s *Service) Apply(ctx context.Context, in ApplyInput) (*ApplyResult, error) {
	var app *Application
	var seekerID int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		job, err := s.jobs.WithTrx(tx).FindOne(ctx, &Job{ID: in.JobID}, option.WithLockingUpdate())
		if err != nil {
			return err
		}
		if job == nil || job.Status != JobStatusOpen {
			return errutil.NotFound("Job not found or not available", nil)
		}
		seekerID = job.SeekerID

		n, err := s.apps.WithTrx(tx).Count(ctx, &Application{JobID: in.JobID, WorkerID: in.WorkerID})
		if err != nil {
			return err
		}
		if n > 0 {
			return errutil.Conflict("You have already applied for this job", nil)
		}

		price := job.Budget
		if in.QuotedPrice != nil {
			price = *in.QuotedPrice
		}

		app = &Application{
			ID:              s.node.Generate().Int64(),
			JobID:           in.JobID,
			WorkerID:        in.WorkerID,
			ProposalMessage: in.ProposalMessage,
			QuotedPrice:     price,
			Status:          ApplicationStatusPending,
		}
		if err := s.apps.WithTrx(tx).Create(ctx, app); err != nil {
			if errutil.IsUniqueViolation(err) {
				return errutil.Conflict("You have already applied for this job", err)
			}
			return err
		}

		return s.notifier.Enqueue(ctx, tx, notification.Message{
			UserID:      job.SeekerID,
			Title:       "New Job Application",
			Body:        "A worker has applied for your job: " + job.Title,
			Type:        notification.TypeJob,
			ReferenceID: job.ID,
		})
	})
	if err != nil {
		return nil, translate(err, "Failed to submit application")
	}

	applicationsSubmitted.Inc()
	s.events.Publish(ctx, taskname.JobApplicationCreated, jobevent.Payload{
		JobID:         in.JobID,
		ActorID:       in.WorkerID,
		SeekerID:      seekerID,
		WorkerID:      in.WorkerID,
		ApplicationID: app.ID,
	})

	return &ApplyResult{ApplicationID: app.ID}, nil
}

type AcceptResult struct {
	JobID    int64 `json:"job_id,string"`
	WorkerID int64 `json:"worker_id,string"`
}

// Accept assigns the applicant to the seeker's job at the quoted price and
// rejects every other application on it. The job row lock serializes
// concurrent accepts; whoever commits second finds the job no longer open.
func (s *Service) Accept(ctx context.Context, seekerID, applicationID int64) (*AcceptResult, error) {
	var job *Job
	var app *Application

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.apps.WithTrx(tx).FindOne(ctx, &Application{ID: applicationID})
		if err != nil {
			return err
		}
		if found == nil {
			return errutil.NotFound("Application not found or unauthorized", nil)
		}

		job, err = s.jobs.WithTrx(tx).FindOne(ctx, &Job{ID: found.JobID}, option.WithLockingUpdate())
		if err != nil {
			return err
		}
		if job == nil || job.SeekerID != seekerID {
			return errutil.NotFound("Application not found or unauthorized", nil)
		}

		// re-read under the job lock
		app, err = s.apps.WithTrx(tx).FindOne(ctx, &Application{ID: applicationID}, option.WithLockingUpdate())
		if err != nil {
			return err
		}
		if app == nil {
			return errutil.NotFound("Application not found or unauthorized", nil)
		}

		if job.Status != JobStatusOpen || app.Status != ApplicationStatusPending {
			acceptConflicts.Inc()
			return errutil.Conflict("Job is no longer open for assignment", nil)
		}

		updates := map[string]any{
			"worker_id": app.WorkerID,
			"status":    JobStatusAssigned,
			"budget":    app.QuotedPrice,
		}
		if s.flags.Enabled(ctx, featureflags.RecomputeCommissionOnAccept, false) {
			updates["commission_amount"] = s.calc.Calculate(app.QuotedPrice).Commission
		}
		if err := s.jobs.WithTrx(tx).Update(ctx, job.ID, updates); err != nil {
			return err
		}

		if err := s.apps.WithTrx(tx).Update(ctx, app.ID, map[string]any{
			"status": ApplicationStatusAccepted,
		}); err != nil {
			return err
		}

		if _, err := s.apps.WithTrx(tx).UpdateWhere(ctx, &Application{JobID: job.ID},
			map[string]any{"status": ApplicationStatusRejected},
			option.ApplyOperator(option.Condition{Field: "id", Operator: option.NEQ, Value: app.ID}),
		); err != nil {
			return err
		}

		return s.notifier.Enqueue(ctx, tx, notification.Message{
			UserID:      app.WorkerID,
			Title:       "Application Accepted",
			Body:        "Your application has been accepted for job: " + job.Title,
			Type:        notification.TypeJob,
			ReferenceID: job.ID,
		})
	})
	if err != nil {
		return nil, translate(err, "Failed to accept application")
	}

	statusTransitions.WithLabelValues(string(JobStatusOpen), string(JobStatusAssigned)).Inc()
	s.events.Publish(ctx, taskname.JobAssigned, jobevent.Payload{
		JobID:         job.ID,
		ActorID:       seekerID,
		SeekerID:      seekerID,
		WorkerID:      app.WorkerID,
		ApplicationID: app.ID,
		FromStatus:    string(JobStatusOpen),
		ToStatus:      string(JobStatusAssigned),
	})

	return &AcceptResult{JobID: job.ID, WorkerID: app.WorkerID}, nil
}

type StatusInput struct {
	ActorID         int64
	JobID           int64
	Status          JobStatus
	CompletionNotes string
}

// UpdateStatus moves a job along the lifecycle on behalf of one of its
// participants. Reaching completed also books the worker's earnings and
// the seeker's spend in the same transaction.
func (s *Service) UpdateStatus(ctx context.Context, in StatusInput) error {
	var job *Job

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		job, err = s.jobs.WithTrx(tx).FindOne(ctx, &Job{ID: in.JobID}, option.WithLockingUpdate())
		if err != nil {
			return err
		}
		if job == nil || !job.IsParticipant(in.ActorID) {
			return errutil.NotFound("Job not found or unauthorized", nil)
		}

		if !job.Status.CanTransitionTo(in.Status) {
			return errutil.InvalidTransition(string(job.Status), string(in.Status))
		}

		updates := map[string]any{"status": in.Status}
		if in.Status == JobStatusCompleted {
			updates["completion_date"] = time.Now().UTC()
			updates["payment_status"] = PaymentStatusPending
			if in.CompletionNotes != "" {
				updates["completion_notes"] = in.CompletionNotes
			}

			earnings := job.Budget - job.CommissionAmount
			if err := s.profiles.RecordCompletion(ctx, tx, job.WorkerID, job.SeekerID, earnings, job.Budget); err != nil {
				return err
			}
		}

		if err := s.jobs.WithTrx(tx).Update(ctx, job.ID, updates); err != nil {
			return err
		}

		recipient := job.Counterpart(in.ActorID)
		if recipient == nil {
			return nil
		}
		return s.notifier.Enqueue(ctx, tx, notification.Message{
			UserID:      *recipient,
			Title:       "Job Status Updated",
			Body:        "Job status changed to: " + string(in.Status),
			Type:        notification.TypeJob,
			ReferenceID: job.ID,
		})
	})
	if err != nil {
		return translate(err, "Failed to update job status")
	}

	statusTransitions.WithLabelValues(string(job.Status), string(in.Status)).Inc()
	s.events.Publish(ctx, taskname.JobStatusChanged, s.payload(job, in.ActorID, in.Status))

	return nil
}

const defaultCancelMessage = "Job has been cancelled"

// Cancel is open to either participant from any state except completed.
// It does not consult the transition table and leaves aggregates alone.
func (s *Service) Cancel(ctx context.Context, actorID, jobID int64, reason string) error {
	var job *Job

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		job, err = s.jobs.WithTrx(tx).FindOne(ctx, &Job{ID: jobID}, option.WithLockingUpdate())
		if err != nil {
			return err
		}
		if job == nil || !job.IsParticipant(actorID) {
			return errutil.NotFound("Job not found or unauthorized", nil)
		}

		if job.Status == JobStatusCompleted {
			return errutil.BadRequest("Cannot cancel completed job", nil)
		}

		if err := s.jobs.WithTrx(tx).Update(ctx, job.ID, map[string]any{
			"status":              JobStatusCancelled,
			"cancellation_reason": reason,
		}); err != nil {
			return err
		}

		recipient := job.Counterpart(actorID)
		if recipient == nil {
			return nil
		}

		body := reason
		if body == "" {
			body = defaultCancelMessage
		}
		return s.notifier.Enqueue(ctx, tx, notification.Message{
			UserID:      *recipient,
			Title:       "Job Cancelled",
			Body:        body,
			Type:        notification.TypeJob,
			ReferenceID: job.ID,
		})
	})
	if err != nil {
		return translate(err, "Failed to cancel job")
	}

	statusTransitions.WithLabelValues(string(job.Status), string(JobStatusCancelled)).Inc()
	p := s.payload(job, actorID, JobStatusCancelled)
	p.Reason = reason
	s.events.Publish(ctx, taskname.JobCancelled, p)

	return nil
}

func (s *Service) payload(job *Job, actorID int64, to JobStatus) jobevent.Payload {
	p := jobevent.Payload{
		JobID:      job.ID,
		ActorID:    actorID,
		SeekerID:   job.SeekerID,
		FromStatus: string(job.Status),
		ToStatus:   string(to),
	}
	if job.WorkerID != nil {
		p.WorkerID = *job.WorkerID
	}
	return p
}

// translate keeps errors already classified and maps driver failures onto
// the HTTP taxonomy.
func translate(err error, msg string) error {
	if _, ok := errutil.As(err); ok {
		return err
	}
	if errutil.IsForeignKeyViolation(err) {
		return errutil.InvalidReference("Invalid reference provided (worker_id/category_id may not exist)", err)
	}
	if errutil.IsUniqueViolation(err) {
		return errutil.Conflict("Duplicate record", err)
	}
	return errutil.Internal(msg, err)
}
