package models

import "time"

// Notification types, mirrored in the frontend badge routing.
const (
	NotifyPaymentSubmitted = "PAYMENT_SUBMITTED"
	NotifyPaymentVerified  = "PAYMENT_VERIFIED"
	NotifyPaymentRejected  = "PAYMENT_REJECTED"
	NotifyJobApproved      = "JOB_APPROVED"
	NotifyJobRejected      = "JOB_REJECTED"
	NotifyNewApplication   = "NEW_APPLICATION"
	NotifyStatusUpdated    = "APPLICATION_STATUS_UPDATED"
)

// Notification records are only ever created as a side effect of a
// workflow transition, never by a direct user action.
type Notification struct {
	ID      string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID  string `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Title   string `gorm:"column:title;type:text" json:"title"`
	Message string `gorm:"column:message;type:text" json:"message"`
	Type    string `gorm:"column:type;type:text" json:"type"`
	Link    string `gorm:"column:link;type:text" json:"link"`

	Read      bool      `gorm:"column:read;default:false" json:"read"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
