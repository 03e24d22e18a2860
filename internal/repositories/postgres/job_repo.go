package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jobspher/jobspher/internal/models"
	"github.com/jobspher/jobspher/internal/utils"
	"gorm.io/gorm"
)

// JobFilters are the public search parameters. Every field is optional;
// set fields are combined with AND. Search only ever sees ACTIVE jobs.
type JobFilters struct {
	Keyword   string   `json:"keyword"`
	Category  string   `json:"category"`
	Location  string   `json:"location"`
	MinSalary *float64 `json:"min_salary"`
	MaxSalary *float64 `json:"max_salary"`
}

type JobRepository interface {
	Insert(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	ListByCompany(ctx context.Context, companyID string) ([]models.Job, error)
	ListByStatus(ctx context.Context, status models.JobStatus) ([]models.Job, error)
	Search(ctx context.Context, f JobFilters, offset, limit int) ([]models.Job, int64, error)

	// UpdateStatusFrom applies updates only while the job still has the
	// given status; the returned row count is zero when another transition
	// got there first.
	UpdateStatusFrom(ctx context.Context, id string, from models.JobStatus, updates map[string]any) (int64, error)
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Insert(ctx context.Context, j *models.Job) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var j models.Job
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &j, err
}

func (r *jobRepo) ListByCompany(ctx context.Context, companyID string) ([]models.Job, error) {
	var out []models.Job
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *jobRepo) ListByStatus(ctx context.Context, status models.JobStatus) ([]models.Job, error) {
	var out []models.Job
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *jobRepo) Search(ctx context.Context, f JobFilters, offset, limit int) ([]models.Job, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("status = ?", models.JobActive)

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if cat := strings.TrimSpace(f.Category); cat != "" {
		q = q.Where("LOWER(category) = LOWER(?)", cat)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		q = q.Where("location ILIKE ?", "%"+loc+"%")
	}
	if f.MinSalary != nil {
		q = q.Where("min_salary >= ?", *f.MinSalary)
	}
	if f.MaxSalary != nil {
		q = q.Where("max_salary <= ?", *f.MaxSalary)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Job
	err := q.
		Order("published_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, total, err
}

func (r *jobRepo) UpdateStatusFrom(ctx context.Context, id string, from models.JobStatus, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}
