package jobevent

import (
	"time"

	"gorm.io/datatypes"
)

// JobEvent is the audit trail of job lifecycle changes, written by the
// worker process from queued events.
type JobEvent struct {
	ID         int64          `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	JobID      int64          `gorm:"index;not null" json:"job_id,string"`
	Type       string         `gorm:"type:varchar(50);not null" json:"type"`
	ActorID    int64          `gorm:"not null" json:"actor_id,string"`
	FromStatus string         `gorm:"type:varchar(20)" json:"from_status,omitempty"`
	ToStatus   string         `gorm:"type:varchar(20)" json:"to_status,omitempty"`
	Payload    datatypes.JSON `json:"payload"`
	OccurredAt time.Time      `gorm:"not null" json:"occurred_at"`
	CreatedAt  time.Time      `json:"created_at"`
}
