package profile

import (
	"time"

	"worker-finder/pkg/money"
)

type UserType string

const (
	UserTypeWorker UserType = "worker"
	UserTypeSeeker UserType = "seeker"
)

// User is owned by the auth service. This service only reads it.
type User struct {
	ID         int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Mobile     string    `gorm:"type:varchar(15)" json:"mobile"`
	UserType   UserType  `gorm:"type:varchar(10);not null" json:"user_type"`
	IsVerified bool      `gorm:"not null" json:"is_verified"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type WorkerProfile struct {
	ID                 int64        `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	UserID             int64        `gorm:"uniqueIndex;not null" json:"user_id,string"`
	FullName           string       `gorm:"type:varchar(255)" json:"full_name"`
	Profession         string       `gorm:"type:varchar(100)" json:"profession"`
	ExperienceYears    float64      `gorm:"type:decimal(4,1);not null;default:0" json:"experience_years"`
	AverageRating      float64      `gorm:"type:decimal(3,2);not null;default:0" json:"average_rating"`
	ProfilePhoto       string       `gorm:"type:varchar(500)" json:"profile_photo,omitempty"`
	TotalJobsCompleted int64        `gorm:"not null;default:0" json:"total_jobs_completed"`
	TotalEarnings      money.Amount `gorm:"type:decimal(12,2);not null;default:0" json:"total_earnings"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

type SeekerProfile struct {
	ID               int64        `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	UserID           int64        `gorm:"uniqueIndex;not null" json:"user_id,string"`
	FullName         string       `gorm:"type:varchar(255)" json:"full_name"`
	Address          string       `gorm:"type:text" json:"address,omitempty"`
	City             string       `gorm:"type:varchar(100)" json:"city,omitempty"`
	ProfilePhoto     string       `gorm:"type:varchar(500)" json:"profile_photo,omitempty"`
	TotalJobsPosted  int64        `gorm:"not null;default:0" json:"total_jobs_posted"`
	TotalAmountSpent money.Amount `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount_spent"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// Models lists the tables owned by this package, for migrations.
func Models() []any {
	return []any{&User{}, &WorkerProfile{}, &SeekerProfile{}}
}
