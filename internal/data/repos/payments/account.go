package payments

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fernpay/payments-backend/internal/domain"
	"github.com/fernpay/payments-backend/internal/pkg/dbctx"
	pkgerrors "github.com/fernpay/payments-backend/internal/pkg/errors"
	"github.com/fernpay/payments-backend/internal/pkg/logger"
)

type AccountRepo interface {
	Create(dbc dbctx.Context, account *domain.Account) (*domain.Account, error)
	GetByAccountNumber(dbc dbctx.Context, accountNumber int64) (*domain.Account, error)
	// GetByAccountNumberForUpdate resolves an account while taking a row lock
	// that is held until the enclosing transaction commits or rolls back.
	// Concurrent lookups for the same account number block (or fail per the
	// session's lock wait policy) until release.
	GetByAccountNumberForUpdate(dbc dbctx.Context, accountNumber int64) (*domain.Account, error)
	UpdateBalance(dbc dbctx.Context, id uuid.UUID, balance float64) error
	List(dbc dbctx.Context) ([]*domain.Account, error)
}

type accountRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAccountRepo(db *gorm.DB, baseLog *logger.Logger) AccountRepo {
	return &accountRepo{
		db:  db,
		log: baseLog.With("repo", "AccountRepo"),
	}
}

func (r *accountRepo) Create(dbc dbctx.Context, account *domain.Account) (*domain.Account, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account is nil", pkgerrors.ErrInvalidInput)
	}
	if err := transaction.WithContext(dbc.Ctx).Create(account).Error; err != nil {
		return nil, pkgerrors.TranslatePG(err)
	}
	return account, nil
}

func (r *accountRepo) GetByAccountNumber(dbc dbctx.Context, accountNumber int64) (*domain.Account, error) {
	return r.getByAccountNumber(dbc, accountNumber, false)
}

func (r *accountRepo) GetByAccountNumberForUpdate(dbc dbctx.Context, accountNumber int64) (*domain.Account, error) {
	return r.getByAccountNumber(dbc, accountNumber, true)
}

func (r *accountRepo) getByAccountNumber(dbc dbctx.Context, accountNumber int64, forUpdate bool) (*domain.Account, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var account domain.Account
	err := q.Where("account_number = ?", accountNumber).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("account %d: %w", accountNumber, pkgerrors.ErrNotFound)
	}
	if err != nil {
		return nil, pkgerrors.TranslatePG(err)
	}
	return &account, nil
}

func (r *accountRepo) UpdateBalance(dbc dbctx.Context, id uuid.UUID, balance float64) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&domain.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"balance":    balance,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return pkgerrors.TranslatePG(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("account %s: %w", id, pkgerrors.ErrNotFound)
	}
	return nil
}

func (r *accountRepo) List(dbc dbctx.Context) ([]*domain.Account, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*domain.Account
	if err := transaction.WithContext(dbc.Ctx).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, pkgerrors.TranslatePG(err)
	}
	return out, nil
}
