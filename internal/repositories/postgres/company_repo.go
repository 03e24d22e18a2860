package postgres

import (
	"context"
	"errors"

	"github.com/jobspher/jobspher/internal/models"
	"github.com/jobspher/jobspher/internal/utils"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	Insert(ctx context.Context, c *models.Company) error
	GetByID(ctx context.Context, id string) (*models.Company, error)
	GetByEmployer(ctx context.Context, employerID string) (*models.Company, error)
	ExistsByEmployer(ctx context.Context, employerID string) (bool, error)
	Update(ctx context.Context, c *models.Company) error
	SetPaymentVerified(ctx context.Context, id string, verified bool) error
}

type companyRepo struct {
	db *gorm.DB
}

func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Insert(ctx context.Context, c *models.Company) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if isUniqueViolation(err) {
		return utils.ErrDuplicate
	}
	return err
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*models.Company, error) {
	var c models.Company
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *companyRepo) GetByEmployer(ctx context.Context, employerID string) (*models.Company, error) {
	var c models.Company
	err := r.db.WithContext(ctx).
		Where("employer_id = ?", employerID).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *companyRepo) ExistsByEmployer(ctx context.Context, employerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("employer_id = ?", employerID).
		Count(&count).Error
	return count > 0, err
}

func (r *companyRepo) Update(ctx context.Context, c *models.Company) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *companyRepo) SetPaymentVerified(ctx context.Context, id string, verified bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", id).
		Update("payment_verified", verified)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
