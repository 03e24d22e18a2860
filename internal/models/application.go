package models

import "time"

type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "SUBMITTED"
	ApplicationShortlisted ApplicationStatus = "SHORTLISTED"
	ApplicationRejected    ApplicationStatus = "REJECTED"
	ApplicationHired       ApplicationStatus = "HIRED"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationSubmitted, ApplicationShortlisted, ApplicationRejected, ApplicationHired:
		return true
	}
	return false
}

// Application is one job seeker's submission against one job. The unique
// index on (job_id, job_seeker_id) is the source of truth for the
// at-most-one invariant; the service-level existence check only gives a
// friendlier error on the common path.
type Application struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	JobID       string `gorm:"column:job_id;type:uuid;uniqueIndex:uniq_job_applicant;index" json:"job_id"`
	JobSeekerID string `gorm:"column:job_seeker_id;type:uuid;uniqueIndex:uniq_job_applicant;index" json:"job_seeker_id"`

	ResumePath  string `gorm:"column:resume_path;type:text" json:"resume_path"`
	CoverLetter string `gorm:"column:cover_letter;type:text" json:"cover_letter"`

	Status        ApplicationStatus `gorm:"column:status;type:text;index" json:"status"`
	EmployerNotes string            `gorm:"column:employer_notes;type:text" json:"employer_notes"`

	AppliedAt time.Time `gorm:"column:applied_at;type:timestamptz" json:"applied_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Application) TableName() string { return "applications" }
