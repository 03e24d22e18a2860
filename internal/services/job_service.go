package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jobspher/jobspher/internal/cache"
	"github.com/jobspher/jobspher/internal/models"
	pgrepo "github.com/jobspher/jobspher/internal/repositories/postgres"
	"github.com/jobspher/jobspher/internal/utils"
)

const (
	searchVersionKey = "jobs:search:ver"
	searchTTL        = 60 * time.Second

	defaultPageSize = 20
	maxPageSize     = 100
)

type JobInput struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	Location         string   `json:"location"`
	EmploymentType   string   `json:"employment_type"`
	MinSalary        *float64 `json:"min_salary"`
	MaxSalary        *float64 `json:"max_salary"`
	Requirements     []string `json:"requirements"`
	Responsibilities []string `json:"responsibilities"`
	PaymentProofPath string   `json:"payment_proof_path"`
}

// SearchResult is one page of ACTIVE jobs.
type SearchResult struct {
	Jobs  []models.Job `json:"jobs"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Size  int          `json:"size"`
}

// JobService governs the posting lifecycle:
// PENDING_APPROVAL -> ACTIVE | REJECTED, ACTIVE -> CLOSED. Creation is
// gated on the company's payment verification.
type JobService interface {
	Create(ctx context.Context, employer *models.User, in JobInput) (*models.Job, error)
	Approve(ctx context.Context, jobID string, admin *models.User) (*models.Job, error)
	Reject(ctx context.Context, jobID string, admin *models.User, reason string) (*models.Job, error)
	Close(ctx context.Context, jobID string, employer *models.User) (*models.Job, error)
	Search(ctx context.Context, f pgrepo.JobFilters, page, size int) (*SearchResult, error)
	GetByID(ctx context.Context, id string) (*models.Job, error)
	ListByEmployer(ctx context.Context, employer *models.User) ([]models.Job, error)
	ListPending(ctx context.Context) ([]models.Job, error)
}

type jobService struct {
	repos    pgrepo.Repos
	txm      pgrepo.TxManager
	notifier *Notifier
	cache    cache.Cache
}

func NewJobService(repos pgrepo.Repos, txm pgrepo.TxManager, notifier *Notifier, c cache.Cache) JobService {
	return &jobService{repos: repos, txm: txm, notifier: notifier, cache: c}
}

func (s *jobService) Create(ctx context.Context, employer *models.User, in JobInput) (*models.Job, error) {
	const op = "JobService.Create"

	if employer == nil || employer.Role != models.RoleEmployer {
		return nil, utils.E(utils.CodeForbidden, op, "only employers can post jobs", nil)
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "title and description are required", nil)
	}
	if in.MinSalary != nil && in.MaxSalary != nil && *in.MinSalary > *in.MaxSalary {
		return nil, utils.E(utils.CodeInvalidArgument, op, "min_salary cannot exceed max_salary", nil)
	}

	company, err := s.repos.Companies.GetByEmployer(ctx, employer.ID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "company not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get company", err)
	}
	if !company.PaymentVerified {
		return nil, utils.E(utils.CodeFailedPrecondition, op,
			"company payment must be verified before posting jobs", nil)
	}

	now := time.Now().UTC()
	job := &models.Job{
		ID:               uuid.NewString(),
		CompanyID:        company.ID,
		Title:            strings.TrimSpace(in.Title),
		Description:      in.Description,
		Category:         in.Category,
		Location:         in.Location,
		EmploymentType:   in.EmploymentType,
		MinSalary:        in.MinSalary,
		MaxSalary:        in.MaxSalary,
		Requirements:     in.Requirements,
		Responsibilities: in.Responsibilities,
		PaymentProofPath: in.PaymentProofPath,
		Status:           models.JobPendingApproval,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// No notification on creation: admins find pending jobs via listing.
	if err := s.repos.Jobs.Insert(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save job", err)
	}

	s.notifier.Audit(ctx, &models.AuditEvent{
		EntityKind: "job",
		EntityID:   job.ID,
		Action:     "created",
		ActorID:    employer.ID,
		ToStatus:   string(models.JobPendingApproval),
	})
	return job, nil
}

func (s *jobService) Approve(ctx context.Context, jobID string, admin *models.User) (*models.Job, error) {
	const op = "JobService.Approve"

	if admin == nil || admin.Role != models.RoleAdmin {
		return nil, utils.E(utils.CodeForbidden, op, "only admins can approve jobs", nil)
	}

	var (
		job   *models.Job
		notif models.Notification
	)
	err := s.txm.InTx(ctx, func(r pgrepo.Repos) error {
		j, err := s.getJobTx(ctx, r, jobID, op)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		rows, err := r.Jobs.UpdateStatusFrom(ctx, j.ID, models.JobPendingApproval, map[string]any{
			"status":       models.JobActive,
			"approved_by":  admin.ID,
			"published_at": now,
			"updated_at":   now,
		})
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to update job", err)
		}
		if rows == 0 {
			return s.alreadyProcessed(ctx, r, j, op)
		}

		j.Status = models.JobActive
		j.ApprovedByID = &admin.ID
		j.PublishedAt = &now
		j.UpdatedAt = now
		job = j

		company, err := r.Companies.GetByID(ctx, j.CompanyID)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to get company", err)
		}

		notif = models.Notification{
			ID:        uuid.NewString(),
			UserID:    company.EmployerID,
			Title:     "Job Approved",
			Message:   "Your job posting '" + j.Title + "' has been approved and is now live.",
			Type:      models.NotifyJobApproved,
			Link:      "/jobs/" + j.ID,
			CreatedAt: now,
		}
		return r.Notifications.Insert(ctx, &notif)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Push(ctx, &notif)
	s.notifier.Audit(ctx, &models.AuditEvent{
		EntityKind: "job",
		EntityID:   job.ID,
		Action:     "approved",
		ActorID:    admin.ID,
		FromStatus: string(models.JobPendingApproval),
		ToStatus:   string(models.JobActive),
	})
	s.bumpSearchVersion(ctx)

	return job, nil
}

func (s *jobService) Reject(ctx context.Context, jobID string, admin *models.User, reason string) (*models.Job, error) {
	const op = "JobService.Reject"

	if admin == nil || admin.Role != models.RoleAdmin {
		return nil, utils.E(utils.CodeForbidden, op, "only admins can reject jobs", nil)
	}
	if strings.TrimSpace(reason) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "rejection reason is required", nil)
	}

	var (
		job   *models.Job
		notif models.Notification
	)
	err := s.txm.InTx(ctx, func(r pgrepo.Repos) error {
		j, err := s.getJobTx(ctx, r, jobID, op)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		rows, err := r.Jobs.UpdateStatusFrom(ctx, j.ID, models.JobPendingApproval, map[string]any{
			"status":           models.JobRejected,
			"approved_by":      admin.ID,
			"rejection_reason": reason,
			"updated_at":       now,
		})
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to update job", err)
		}
		if rows == 0 {
			return s.alreadyProcessed(ctx, r, j, op)
		}

		j.Status = models.JobRejected
		j.ApprovedByID = &admin.ID
		j.RejectionReason = reason
		j.UpdatedAt = now
		job = j

		company, err := r.Companies.GetByID(ctx, j.CompanyID)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to get company", err)
		}

		notif = models.Notification{
			ID:        uuid.NewString(),
			UserID:    company.EmployerID,
			Title:     "Job Rejected",
			Message:   "Your job posting '" + j.Title + "' has been rejected. Reason: " + reason,
			Type:      models.NotifyJobRejected,
			Link:      "/jobs/" + j.ID,
			CreatedAt: now,
		}
		return r.Notifications.Insert(ctx, &notif)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Push(ctx, &notif)
	s.notifier.Audit(ctx, &models.AuditEvent{
		EntityKind: "job",
		EntityID:   job.ID,
		Action:     "rejected",
		ActorID:    admin.ID,
		FromStatus: string(models.JobPendingApproval),
		ToStatus:   string(models.JobRejected),
		Note:       reason,
	})

	return job, nil
}

// Close takes an ACTIVE job off the board. Restricted to ACTIVE -> CLOSED;
// ownership is checked before the status guard.
func (s *jobService) Close(ctx context.Context, jobID string, employer *models.User) (*models.Job, error) {
	const op = "JobService.Close"

	if employer == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "employer is required", nil)
	}

	var job *models.Job
	err := s.txm.InTx(ctx, func(r pgrepo.Repos) error {
		j, err := s.getJobTx(ctx, r, jobID, op)
		if err != nil {
			return err
		}

		company, err := r.Companies.GetByID(ctx, j.CompanyID)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to get company", err)
		}
		if company.EmployerID != employer.ID {
			return utils.E(utils.CodeForbidden, op, "you do not own this job", nil)
		}

		now := time.Now().UTC()
		rows, err := r.Jobs.UpdateStatusFrom(ctx, j.ID, models.JobActive, map[string]any{
			"status":     models.JobClosed,
			"updated_at": now,
		})
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to update job", err)
		}
		if rows == 0 {
			return s.alreadyProcessed(ctx, r, j, op)
		}

		j.Status = models.JobClosed
		j.UpdatedAt = now
		job = j
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Audit(ctx, &models.AuditEvent{
		EntityKind: "job",
		EntityID:   job.ID,
		Action:     "closed",
		ActorID:    employer.ID,
		FromStatus: string(models.JobActive),
		ToStatus:   string(models.JobClosed),
	})
	s.bumpSearchVersion(ctx)

	return job, nil
}

func (s *jobService) Search(ctx context.Context, f pgrepo.JobFilters, page, size int) (*SearchResult, error) {
	const op = "JobService.Search"

	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	key := s.searchKey(ctx, f, page, size)
	if key != "" {
		var cached SearchResult
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	jobs, total, err := s.repos.Jobs.Search(ctx, f, (page-1)*size, size)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to search jobs", err)
	}

	res := &SearchResult{Jobs: jobs, Total: total, Page: page, Size: size}
	if key != "" {
		_ = s.cache.SetJSON(ctx, key, res, searchTTL)
	}
	return res, nil
}

func (s *jobService) GetByID(ctx context.Context, id string) (*models.Job, error) {
	const op = "JobService.GetByID"

	j, err := s.repos.Jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	return j, nil
}

func (s *jobService) ListByEmployer(ctx context.Context, employer *models.User) ([]models.Job, error) {
	const op = "JobService.ListByEmployer"

	company, err := s.repos.Companies.GetByEmployer(ctx, employer.ID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "company not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get company", err)
	}

	out, err := s.repos.Jobs.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return out, nil
}

func (s *jobService) ListPending(ctx context.Context) ([]models.Job, error) {
	const op = "JobService.ListPending"

	out, err := s.repos.Jobs.ListByStatus(ctx, models.JobPendingApproval)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list pending jobs", err)
	}
	return out, nil
}

// getJobTx loads a job inside a transaction, translating not-found.
func (s *jobService) getJobTx(ctx context.Context, r pgrepo.Repos, jobID, op string) (*models.Job, error) {
	j, err := r.Jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	return j, nil
}

// alreadyProcessed builds the terminal-state error with the status the job
// actually has right now.
func (s *jobService) alreadyProcessed(ctx context.Context, r pgrepo.Repos, j *models.Job, op string) error {
	st := j.Status
	if cur, err := r.Jobs.GetByID(ctx, j.ID); err == nil {
		st = cur.Status
	}
	return utils.E(utils.CodeAlreadyProcessed, op,
		fmt.Sprintf("job has already been processed; current status: %s", st), nil)
}

// searchKey derives the cache key from the filters and the current search
// version; an empty key disables caching for this call.
func (s *jobService) searchKey(ctx context.Context, f pgrepo.JobFilters, page, size int) string {
	if s.cache == nil {
		return ""
	}
	ver, err := s.cache.GetInt(ctx, searchVersionKey)
	if err != nil {
		return ""
	}
	raw, err := json.Marshal(struct {
		F    pgrepo.JobFilters
		Page int
		Size int
	}{f, page, size})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("jobs:search:v%d:%x", ver, sum[:8])
}

func (s *jobService) bumpSearchVersion(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_, _ = s.cache.Incr(ctx, searchVersionKey)
}
