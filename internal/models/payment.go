package models

import "time"

type PaymentStatus string

const (
	PaymentPendingReview PaymentStatus = "PENDING_REVIEW"
	PaymentVerified      PaymentStatus = "VERIFIED"
	PaymentRejected      PaymentStatus = "REJECTED"
)

// Processed reports whether the payment has reached a terminal status.
// VERIFIED and REJECTED are one-shot; no transition leaves them.
func (s PaymentStatus) Processed() bool {
	return s == PaymentVerified || s == PaymentRejected
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPendingReview, PaymentVerified, PaymentRejected:
		return true
	}
	return false
}

// ManualPayment is one proof-of-payment submission. Employers may submit
// again after a rejection; the latest by upload date is the one shown as
// the current badge.
type ManualPayment struct {
	ID         string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EmployerID string `gorm:"column:employer_id;type:uuid;index" json:"employer_id"`

	FilePath        string        `gorm:"column:file_path;type:text" json:"file_path"`
	ReferenceNumber string        `gorm:"column:reference_number;type:text" json:"reference_number"`
	Status          PaymentStatus `gorm:"column:status;type:text;index" json:"status"`
	AdminNotes      string        `gorm:"column:admin_notes;type:text" json:"admin_notes"`

	VerifiedByID *string    `gorm:"column:verified_by;type:uuid" json:"verified_by,omitempty"`
	UploadDate   time.Time  `gorm:"column:upload_date;type:timestamptz" json:"upload_date"`
	VerifiedDate *time.Time `gorm:"column:verified_date;type:timestamptz" json:"verified_date,omitempty"`
}

func (ManualPayment) TableName() string { return "manual_payments" }
