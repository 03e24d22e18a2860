package postgres

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Repos bundles all postgres repositories over one gorm handle. NewRepos
// over a transaction handle yields transaction-bound repositories.
type Repos struct {
	Users         UserRepository
	Companies     CompanyRepository
	Jobs          JobRepository
	Payments      PaymentRepository
	Applications  ApplicationRepository
	Notifications NotificationRepository
}

func NewRepos(db *gorm.DB) Repos {
	return Repos{
		Users:         NewUserRepo(db),
		Companies:     NewCompanyRepo(db),
		Jobs:          NewJobRepo(db),
		Payments:      NewPaymentRepo(db),
		Applications:  NewApplicationRepo(db),
		Notifications: NewNotificationRepo(db),
	}
}

// TxManager is the write-path transaction boundary. Every workflow
// transition runs its entity update, cross-entity writes, and notification
// inserts inside one InTx call; a returned error rolls everything back.
type TxManager interface {
	InTx(ctx context.Context, fn func(r Repos) error) error
}

type txManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) InTx(ctx context.Context, fn func(r Repos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}

// isUniqueViolation reports whether err is a postgres duplicate-key error
// (SQLSTATE 23505), regardless of driver.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
