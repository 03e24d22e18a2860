package postgres

import (
	"context"
	"errors"

	"github.com/jobspher/jobspher/internal/models"
	"github.com/jobspher/jobspher/internal/utils"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Insert(ctx context.Context, p *models.ManualPayment) error
	GetByID(ctx context.Context, id string) (*models.ManualPayment, error)
	ListByEmployer(ctx context.Context, employerID string) ([]models.ManualPayment, error)
	LatestByEmployer(ctx context.Context, employerID string) (*models.ManualPayment, error)
	ListByStatus(ctx context.Context, status models.PaymentStatus) ([]models.ManualPayment, error)

	// ClaimPending applies updates only while the payment is still in
	// PENDING_REVIEW and reports how many rows changed. The status guard
	// lives in the UPDATE's WHERE clause, so two concurrent reviews cannot
	// both win.
	ClaimPending(ctx context.Context, id string, updates map[string]any) (int64, error)
}

type paymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepo(db *gorm.DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Insert(ctx context.Context, p *models.ManualPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paymentRepo) GetByID(ctx context.Context, id string) (*models.ManualPayment, error) {
	var p models.ManualPayment
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *paymentRepo) ListByEmployer(ctx context.Context, employerID string) ([]models.ManualPayment, error) {
	var out []models.ManualPayment
	err := r.db.WithContext(ctx).
		Where("employer_id = ?", employerID).
		Order("upload_date DESC").
		Find(&out).Error
	return out, err
}

func (r *paymentRepo) LatestByEmployer(ctx context.Context, employerID string) (*models.ManualPayment, error) {
	var p models.ManualPayment
	err := r.db.WithContext(ctx).
		Where("employer_id = ?", employerID).
		Order("upload_date DESC").
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *paymentRepo) ListByStatus(ctx context.Context, status models.PaymentStatus) ([]models.ManualPayment, error) {
	var out []models.ManualPayment
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("upload_date ASC").
		Find(&out).Error
	return out, err
}

func (r *paymentRepo) ClaimPending(ctx context.Context, id string, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ManualPayment{}).
		Where("id = ? AND status = ?", id, models.PaymentPendingReview).
		Updates(updates)
	return res.RowsAffected, res.Error
}
