package notification

import "time"

type Type string

const (
	TypeJob      Type = "job"
	TypePayment  Type = "payment"
	TypeReview   Type = "review"
	TypeSystem   Type = "system"
	TypeReferral Type = "referral"
)

func (t Type) Valid() bool {
	switch t {
	case TypeJob, TypePayment, TypeReview, TypeSystem, TypeReferral:
		return true
	}
	return false
}

type Notification struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	UserID      int64     `gorm:"index:idx_notifications_user_read,priority:1;not null" json:"user_id,string"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	Type        Type      `gorm:"type:varchar(20);not null" json:"type"`
	ReferenceID *int64    `json:"reference_id,string,omitempty"`
	IsRead      bool      `gorm:"index:idx_notifications_user_read,priority:2;not null" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
