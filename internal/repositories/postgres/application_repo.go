package postgres

import (
	"context"
	"errors"

	"github.com/jobspher/jobspher/internal/models"
	"github.com/jobspher/jobspher/internal/utils"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	// Insert returns utils.ErrDuplicate when the (job, applicant) unique
	// index rejects the row. The index, not the service-level existence
	// check, decides concurrent duplicate submissions.
	Insert(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	ExistsByJobAndSeeker(ctx context.Context, jobID, jobSeekerID string) (bool, error)
	ListBySeeker(ctx context.Context, jobSeekerID string) ([]models.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Application, error)
	Update(ctx context.Context, a *models.Application) error
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Insert(ctx context.Context, a *models.Application) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if isUniqueViolation(err) {
		return utils.ErrDuplicate
	}
	return err
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var a models.Application
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &a, err
}

func (r *applicationRepo) ExistsByJobAndSeeker(ctx context.Context, jobID, jobSeekerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("job_id = ? AND job_seeker_id = ?", jobID, jobSeekerID).
		Count(&count).Error
	return count > 0, err
}

func (r *applicationRepo) ListBySeeker(ctx context.Context, jobSeekerID string) ([]models.Application, error) {
	var out []models.Application
	err := r.db.WithContext(ctx).
		Where("job_seeker_id = ?", jobSeekerID).
		Order("applied_at DESC").
		Find(&out).Error
	return out, err
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	var out []models.Application
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("applied_at DESC").
		Find(&out).Error
	return out, err
}

func (r *applicationRepo) Update(ctx context.Context, a *models.Application) error {
	return r.db.WithContext(ctx).Save(a).Error
}
