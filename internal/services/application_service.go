package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jobspher/jobspher/internal/models"
	pgrepo "github.com/jobspher/jobspher/internal/repositories/postgres"
	"github.com/jobspher/jobspher/internal/utils"
)

// ApplicationService governs submissions against ACTIVE jobs. Status
// updates are free-form reassignment by the owning employer (any status to
// any other, including un-hiring); there is no transition DAG here.
type ApplicationService interface {
	Apply(ctx context.Context, jobSeeker *models.User, jobID, resumePath, coverLetter string) (*models.Application, error)
	UpdateStatus(ctx context.Context, applicationID string, employer *models.User, status models.ApplicationStatus, notes string) (*models.Application, error)
	GetByID(ctx context.Context, id string) (*models.Application, error)
	ListByApplicant(ctx context.Context, jobSeeker *models.User) ([]models.Application, error)
	ListByJob(ctx context.Context, employer *models.User, jobID string) ([]models.Application, error)
}

type applicationService struct {
	repos    pgrepo.Repos
	txm      pgrepo.TxManager
	notifier *Notifier
}

func NewApplicationService(repos pgrepo.Repos, txm pgrepo.TxManager, notifier *Notifier) ApplicationService {
	return &applicationService{repos: repos, txm: txm, notifier: notifier}
}

func (s *applicationService) Apply(ctx context.Context, jobSeeker *models.User, jobID, resumePath, coverLetter string) (*models.Application, error) {
	const op = "ApplicationService.Apply"

	if jobSeeker == nil || jobSeeker.Role != models.RoleJobSeeker {
		return nil, utils.E(utils.CodeForbidden, op, "only job seekers can apply", nil)
	}

	job, err := s.repos.Jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	if job.Status != models.JobActive {
		return nil, utils.E(utils.CodeFailedPrecondition, op, "cannot apply to a job that is not active", nil)
	}

	// Fall back to the profile resume when no upload accompanies the
	// application.
	if strings.TrimSpace(resumePath) == "" {
		resumePath = jobSeeker.ResumePath
	}
	if strings.TrimSpace(resumePath) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "a resume is required to apply", nil)
	}

	// Fast-path duplicate check for a friendly error; the unique index
	// decides the race.
	exists, err := s.repos.Applications.ExistsByJobAndSeeker(ctx, job.ID, jobSeeker.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing application", err)
	}
	if exists {
		return nil, utils.E(utils.CodeConflict, op, "you have already applied to this job", nil)
	}

	now := time.Now().UTC()
	app := &models.Application{
		ID:          uuid.NewString(),
		JobID:       job.ID,
		JobSeekerID: jobSeeker.ID,
		ResumePath:  resumePath,
		CoverLetter: coverLetter,
		Status:      models.ApplicationSubmitted,
		AppliedAt:   now,
		UpdatedAt:   now,
	}

	var notif models.Notification
	err = s.txm.InTx(ctx, func(r pgrepo.Repos) error {
		if err := r.Applications.Insert(ctx, app); err != nil {
			if errors.Is(err, utils.ErrDuplicate) {
				return utils.E(utils.CodeConflict, op, "you have already applied to this job", err)
			}
			return utils.E(utils.CodeInternal, op, "failed to save application", err)
		}

		company, err := r.Companies.GetByID(ctx, job.CompanyID)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to get company", err)
		}

		notif = models.Notification{
			ID:        uuid.NewString(),
			UserID:    company.EmployerID,
			Title:     "New Application",
			Message:   jobSeeker.FullName() + " applied to '" + job.Title + "'",
			Type:      models.NotifyNewApplication,
			Link:      "/applications/" + app.ID,
			CreatedAt: now,
		}
		return r.Notifications.Insert(ctx, &notif)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Push(ctx, &notif)
	s.notifier.Audit(ctx, &models.AuditEvent{
		EntityKind: "application",
		EntityID:   app.ID,
		Action:     "submitted",
		ActorID:    jobSeeker.ID,
		ToStatus:   string(models.ApplicationSubmitted),
	})

	return app, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, applicationID string, employer *models.User, status models.ApplicationStatus, notes string) (*models.Application, error) {
	const op = "ApplicationService.UpdateStatus"

	if employer == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "employer is required", nil)
	}
	if !status.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "application status is required", nil)
	}

	var (
		app   *models.Application
		notif models.Notification
		from  models.ApplicationStatus
	)
	err := s.txm.InTx(ctx, func(r pgrepo.Repos) error {
		a, err := r.Applications.GetByID(ctx, applicationID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return utils.E(utils.CodeNotFound, op, "application not found", err)
			}
			return utils.E(utils.CodeInternal, op, "failed to get application", err)
		}

		job, err := r.Jobs.GetByID(ctx, a.JobID)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to get job", err)
		}
		company, err := r.Companies.GetByID(ctx, job.CompanyID)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to get company", err)
		}
		if company.EmployerID != employer.ID {
			return utils.E(utils.CodeForbidden, op, "you do not own this application's job", nil)
		}

		from = a.Status
		a.Status = status
		a.EmployerNotes = notes
		a.UpdatedAt = time.Now().UTC()
		if err := r.Applications.Update(ctx, a); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to update application", err)
		}
		app = a

		notif = models.Notification{
			ID:        uuid.NewString(),
			UserID:    a.JobSeekerID,
			Title:     "Application Status Updated",
			Message:   "Your application for '" + job.Title + "' has been " + strings.ToLower(StatusPhrase(status)),
			Type:      models.NotifyStatusUpdated,
			Link:      "/applications/" + a.ID,
			CreatedAt: a.UpdatedAt,
		}
		return r.Notifications.Insert(ctx, &notif)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Push(ctx, &notif)
	s.notifier.Audit(ctx, &models.AuditEvent{
		EntityKind: "application",
		EntityID:   app.ID,
		Action:     "status_updated",
		ActorID:    employer.ID,
		FromStatus: string(from),
		ToStatus:   string(status),
		Note:       notes,
	})

	return app, nil
}

func (s *applicationService) GetByID(ctx context.Context, id string) (*models.Application, error) {
	const op = "ApplicationService.GetByID"

	a, err := s.repos.Applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get application", err)
	}
	return a, nil
}

func (s *applicationService) ListByApplicant(ctx context.Context, jobSeeker *models.User) ([]models.Application, error) {
	const op = "ApplicationService.ListByApplicant"

	out, err := s.repos.Applications.ListBySeeker(ctx, jobSeeker.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return out, nil
}

func (s *applicationService) ListByJob(ctx context.Context, employer *models.User, jobID string) ([]models.Application, error) {
	const op = "ApplicationService.ListByJob"

	job, err := s.repos.Jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	company, err := s.repos.Companies.GetByID(ctx, job.CompanyID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to get company", err)
	}
	if company.EmployerID != employer.ID {
		return nil, utils.E(utils.CodeForbidden, op, "you do not own this job", nil)
	}

	out, err := s.repos.Applications.ListByJob(ctx, jobID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return out, nil
}

// StatusPhrase is the human-readable phrase echoed to applicants.
func StatusPhrase(s models.ApplicationStatus) string {
	switch s {
	case models.ApplicationShortlisted:
		return "Shortlisted"
	case models.ApplicationRejected:
		return "Rejected"
	case models.ApplicationHired:
		return "Hired"
	default:
		return "Updated"
	}
}
