package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jobspher/jobspher/internal/models"
	pgrepo "github.com/jobspher/jobspher/internal/repositories/postgres"
	"github.com/jobspher/jobspher/internal/utils"
)

// PaymentService governs the manual payment lifecycle:
// PENDING_REVIEW -> VERIFIED | REJECTED, both terminal. A VERIFIED review
// flips the company's payment_verified flag inside the same transaction;
// nothing ever flips it back.
type PaymentService interface {
	Upload(ctx context.Context, employer *models.User, filePath, referenceNumber string) (*models.ManualPayment, error)
	Review(ctx context.Context, paymentID string, admin *models.User, status models.PaymentStatus, notes string) (*models.ManualPayment, error)
	GetByID(ctx context.Context, id string) (*models.ManualPayment, error)
	LatestByEmployer(ctx context.Context, employer *models.User) (*models.ManualPayment, error)
	ListByEmployer(ctx context.Context, employer *models.User) ([]models.ManualPayment, error)
	ListPending(ctx context.Context) ([]models.ManualPayment, error)
}

type paymentService struct {
	repos    pgrepo.Repos
	txm      pgrepo.TxManager
	notifier *Notifier
}

func NewPaymentService(repos pgrepo.Repos, txm pgrepo.TxManager, notifier *Notifier) PaymentService {
	return &paymentService{repos: repos, txm: txm, notifier: notifier}
}

func (s *paymentService) Upload(ctx context.Context, employer *models.User, filePath, referenceNumber string) (*models.ManualPayment, error) {
	const op = "PaymentService.Upload"

	if employer == nil || employer.Role != models.RoleEmployer {
		return nil, utils.E(utils.CodeForbidden, op, "only employers can submit payments", nil)
	}
	if strings.TrimSpace(filePath) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "payment proof file is required", nil)
	}
	if strings.TrimSpace(referenceNumber) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "reference number is required", nil)
	}

	payment := &models.ManualPayment{
		ID:              uuid.NewString(),
		EmployerID:      employer.ID,
		FilePath:        filePath,
		ReferenceNumber: strings.TrimSpace(referenceNumber),
		Status:          models.PaymentPendingReview,
		UploadDate:      time.Now().UTC(),
	}

	// Resubmission after rejection is always allowed; no precondition on
	// the employer's earlier payments.
	var created []models.Notification
	err := s.txm.InTx(ctx, func(r pgrepo.Repos) error {
		if err := r.Payments.Insert(ctx, payment); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to save payment", err)
		}

		// Broadcast to the admin role set: every admin sees new submissions.
		admins, err := r.Users.ListByRole(ctx, models.RoleAdmin)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to list admins", err)
		}
		for _, admin := range admins {
			n := models.Notification{
				ID:        uuid.NewString(),
				UserID:    admin.ID,
				Title:     "New Payment Submission",
				Message:   employer.FullName() + " submitted a payment proof for review.",
				Type:      models.NotifyPaymentSubmitted,
				Link:      "/admin/payments",
				CreatedAt: time.Now().UTC(),
			}
			if err := r.Notifications.Insert(ctx, &n); err != nil {
				return utils.E(utils.CodeInternal, op, "failed to save notification", err)
			}
			created = append(created, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range created {
		s.notifier.Push(ctx, &created[i])
	}
	s.notifier.Audit(ctx, &models.AuditEvent{
		EntityKind: "payment",
		EntityID:   payment.ID,
		Action:     "submitted",
		ActorID:    employer.ID,
		ToStatus:   string(models.PaymentPendingReview),
	})

	return payment, nil
}

func (s *paymentService) Review(ctx context.Context, paymentID string, admin *models.User, status models.PaymentStatus, notes string) (*models.ManualPayment, error) {
	const op = "PaymentService.Review"

	if admin == nil || admin.Role != models.RoleAdmin {
		return nil, utils.E(utils.CodeForbidden, op, "only admins can review payments", nil)
	}
	if status != models.PaymentVerified && status != models.PaymentRejected {
		return nil, utils.E(utils.CodeInvalidArgument, op, "payment status must be VERIFIED or REJECTED", nil)
	}
	if status == models.PaymentRejected && strings.TrimSpace(notes) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "rejection reason is required when rejecting a payment", nil)
	}

	var (
		payment *models.ManualPayment
		notif   models.Notification
		from    models.PaymentStatus
	)
	err := s.txm.InTx(ctx, func(r pgrepo.Repos) error {
		p, err := r.Payments.GetByID(ctx, paymentID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return utils.E(utils.CodeNotFound, op, "payment not found", err)
			}
			return utils.E(utils.CodeInternal, op, "failed to get payment", err)
		}
		from = p.Status

		now := time.Now().UTC()
		rows, err := r.Payments.ClaimPending(ctx, p.ID, map[string]any{
			"status":        status,
			"admin_notes":   notes,
			"verified_by":   admin.ID,
			"verified_date": now,
		})
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to update payment", err)
		}
		if rows == 0 {
			// Lost the race or already terminal; report the current status.
			cur, curErr := r.Payments.GetByID(ctx, p.ID)
			st := p.Status
			if curErr == nil {
				st = cur.Status
			}
			return utils.E(utils.CodeAlreadyProcessed, op,
				fmt.Sprintf("payment has already been processed; current status: %s", st), nil)
		}

		p.Status = status
		p.AdminNotes = notes
		p.VerifiedByID = &admin.ID
		p.VerifiedDate = &now
		payment = p

		if status == models.PaymentVerified {
			company, err := r.Companies.GetByEmployer(ctx, p.EmployerID)
			if err != nil {
				if errors.Is(err, utils.ErrNotFound) {
					return utils.E(utils.CodeNotFound, op, "company not found", err)
				}
				return utils.E(utils.CodeInternal, op, "failed to get company", err)
			}
			if err := r.Companies.SetPaymentVerified(ctx, company.ID, true); err != nil {
				return utils.E(utils.CodeInternal, op, "failed to mark company verified", err)
			}

			notif = models.Notification{
				ID:        uuid.NewString(),
				UserID:    p.EmployerID,
				Title:     "Payment Verified",
				Message:   "Your payment proof has been verified. You can now post jobs.",
				Type:      models.NotifyPaymentVerified,
				Link:      "/payments/status",
				CreatedAt: now,
			}
		} else {
			notif = models.Notification{
				ID:        uuid.NewString(),
				UserID:    p.EmployerID,
				Title:     "Payment Rejected",
				Message:   "Your payment proof has been rejected. " + notes,
				Type:      models.NotifyPaymentRejected,
				Link:      "/payments/status",
				CreatedAt: now,
			}
		}
		if err := r.Notifications.Insert(ctx, &notif); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to save notification", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Push(ctx, &notif)
	s.notifier.Audit(ctx, &models.AuditEvent{
		EntityKind: "payment",
		EntityID:   payment.ID,
		Action:     "reviewed",
		ActorID:    admin.ID,
		FromStatus: string(from),
		ToStatus:   string(status),
		Note:       notes,
	})

	return payment, nil
}

func (s *paymentService) GetByID(ctx context.Context, id string) (*models.ManualPayment, error) {
	const op = "PaymentService.GetByID"

	p, err := s.repos.Payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "payment not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get payment", err)
	}
	return p, nil
}

func (s *paymentService) LatestByEmployer(ctx context.Context, employer *models.User) (*models.ManualPayment, error) {
	const op = "PaymentService.LatestByEmployer"

	p, err := s.repos.Payments.LatestByEmployer(ctx, employer.ID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "no payments submitted", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get latest payment", err)
	}
	return p, nil
}

func (s *paymentService) ListByEmployer(ctx context.Context, employer *models.User) ([]models.ManualPayment, error) {
	const op = "PaymentService.ListByEmployer"

	out, err := s.repos.Payments.ListByEmployer(ctx, employer.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list payments", err)
	}
	return out, nil
}

func (s *paymentService) ListPending(ctx context.Context) ([]models.ManualPayment, error) {
	const op = "PaymentService.ListPending"

	out, err := s.repos.Payments.ListByStatus(ctx, models.PaymentPendingReview)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list pending payments", err)
	}
	return out, nil
}
