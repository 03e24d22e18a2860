package models

import (
	"time"

	"github.com/lib/pq"
)

type JobStatus string

const (
	JobPendingApproval JobStatus = "PENDING_APPROVAL"
	JobActive          JobStatus = "ACTIVE"
	JobRejected        JobStatus = "REJECTED"
	JobClosed          JobStatus = "CLOSED"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobPendingApproval, JobActive, JobRejected, JobClosed:
		return true
	}
	return false
}

type Job struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CompanyID string `gorm:"column:company_id;type:uuid;index" json:"company_id"`

	Title          string `gorm:"column:title;type:text" json:"title"`
	Description    string `gorm:"column:description;type:text" json:"description"`
	Category       string `gorm:"column:category;type:text" json:"category"`
	Location       string `gorm:"column:location;type:text" json:"location"`
	EmploymentType string `gorm:"column:employment_type;type:text" json:"employment_type"`

	MinSalary *float64 `gorm:"column:min_salary;type:numeric(12,2)" json:"min_salary,omitempty"`
	MaxSalary *float64 `gorm:"column:max_salary;type:numeric(12,2)" json:"max_salary,omitempty"`

	Requirements     pq.StringArray `gorm:"column:requirements;type:text[]" json:"requirements"`
	Responsibilities pq.StringArray `gorm:"column:responsibilities;type:text[]" json:"responsibilities"`

	// PaymentProofPath is set by the legacy creation path that attaches a
	// proof file directly to the posting.
	PaymentProofPath string `gorm:"column:payment_proof_path;type:text" json:"payment_proof_path,omitempty"`

	Status          JobStatus `gorm:"column:status;type:text;index" json:"status"`
	ApprovedByID    *string   `gorm:"column:approved_by;type:uuid" json:"approved_by,omitempty"`
	RejectionReason string    `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`

	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
	PublishedAt *time.Time `gorm:"column:published_at;type:timestamptz" json:"published_at,omitempty"`
}

func (Job) TableName() string { return "jobs" }
