package job

import (
	"time"

	"worker-finder/pkg/money"
	"worker-finder/services/category"
	"worker-finder/services/profile"
)

type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusAssigned   JobStatus = "assigned"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
	JobStatusDisputed   JobStatus = "disputed"
)

var jobStatuses = []JobStatus{
	JobStatusOpen,
	JobStatusAssigned,
	JobStatusInProgress,
	JobStatusCompleted,
	JobStatusCancelled,
	JobStatusDisputed,
}

func ParseJobStatus(s string) (JobStatus, bool) {
	for _, st := range jobStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to
// next. cancelled and disputed are terminal here; disputes are resolved
// elsewhere.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusOpen:
		return next == JobStatusCancelled
	case JobStatusAssigned:
		return next == JobStatusInProgress || next == JobStatusCancelled
	case JobStatusInProgress:
		return next == JobStatusCompleted || next == JobStatusDisputed
	case JobStatusCompleted:
		return next == JobStatusDisputed
	case JobStatusCancelled, JobStatusDisputed:
		return false
	default:
		return false
	}
}

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Job struct {
	ID                 int64         `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	SeekerID           int64         `gorm:"index;not null" json:"seeker_id,string"`
	WorkerID           *int64        `gorm:"index" json:"worker_id,string"`
	CategoryID         *int64        `gorm:"index" json:"category_id"`
	Title              string        `gorm:"type:varchar(255);not null" json:"title"`
	Description        string        `gorm:"type:text" json:"description"`
	Budget             money.Amount  `gorm:"type:decimal(12,2);not null" json:"budget"`
	Location           string        `gorm:"type:varchar(500)" json:"location"`
	Latitude           *float64      `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude          *float64      `gorm:"type:decimal(11,8)" json:"longitude"`
	Status             JobStatus     `gorm:"type:varchar(20);index;not null;default:open" json:"status"`
	ScheduledDate      *time.Time    `json:"scheduled_date"`
	CompletionDate     *time.Time    `json:"completion_date"`
	CompletionNotes    string        `gorm:"type:text" json:"completion_notes,omitempty"`
	CancellationReason string        `gorm:"type:text" json:"cancellation_reason,omitempty"`
	PaymentStatus      PaymentStatus `gorm:"type:varchar(20);not null;default:pending" json:"payment_status"`
	CommissionAmount   money.Amount  `gorm:"type:decimal(12,2);not null;default:0" json:"commission_amount"`
	CreatedAt          time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	Seeker   *profile.User      `gorm:"foreignKey:SeekerID;constraint:OnDelete:CASCADE" json:"-"`
	Worker   *profile.User      `gorm:"foreignKey:WorkerID;constraint:OnDelete:SET NULL" json:"-"`
	Category *category.Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
}

// IsParticipant reports whether userID is the job's seeker or its assigned
// worker.
func (j *Job) IsParticipant(userID int64) bool {
	if j.SeekerID == userID {
		return true
	}
	return j.WorkerID != nil && *j.WorkerID == userID
}

// Counterpart returns the participant on the other side of actorID, if any.
func (j *Job) Counterpart(actorID int64) *int64 {
	if actorID == j.SeekerID {
		return j.WorkerID
	}
	seeker := j.SeekerID
	return &seeker
}

type Application struct {
	ID              int64             `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	JobID           int64             `gorm:"not null;uniqueIndex:idx_job_applications_job_worker,priority:1" json:"job_id,string"`
	WorkerID        int64             `gorm:"not null;uniqueIndex:idx_job_applications_job_worker,priority:2;index" json:"worker_id,string"`
	ProposalMessage string            `gorm:"type:text" json:"proposal_message"`
	QuotedPrice     money.Amount      `gorm:"type:decimal(12,2);not null" json:"quoted_price"`
	Status          ApplicationStatus `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	Job    *Job          `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	Worker *profile.User `gorm:"foreignKey:WorkerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Application) TableName() string {
	return "job_applications"
}

// View is a job joined with the display names of its category and
// participants. Distance is set only on proximity listings.
type View struct {
	Job
	CategoryName *string  `json:"category_name"`
	SeekerName   *string  `json:"seeker_name"`
	SeekerPhoto  *string  `json:"seeker_photo"`
	SeekerCity   *string  `json:"seeker_city"`
	WorkerName   *string  `json:"worker_name"`
	WorkerPhoto  *string  `json:"worker_photo"`
	Distance     *float64 `gorm:"-" json:"distance,omitempty"`
}

// Detail adds the participants' contact details to a View. Only the single
// job lookup returns it.
type Detail struct {
	View
	SeekerMobile     *string  `json:"seeker_mobile"`
	SeekerAddress    *string  `json:"seeker_address"`
	WorkerMobile     *string  `json:"worker_mobile"`
	WorkerProfession *string  `json:"worker_profession"`
	WorkerExperience *float64 `json:"worker_experience"`
}

// ApplicationView is an application joined with the applicant's profile.
type ApplicationView struct {
	Application
	WorkerName         *string  `json:"worker_name"`
	WorkerPhoto        *string  `json:"worker_photo"`
	Profession         *string  `json:"profession"`
	ExperienceYears    *float64 `json:"experience_years"`
	AverageRating      *float64 `json:"average_rating"`
	TotalJobsCompleted *int64   `json:"total_jobs_completed"`
	WorkerMobile       *string  `json:"worker_mobile"`
}

// Models lists the tables owned by this package, for migrations.
func Models() []any {
	return []any{&Job{}, &Application{}}
}
