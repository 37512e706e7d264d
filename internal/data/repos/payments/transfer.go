package payments

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fernpay/payments-backend/internal/domain"
	"github.com/fernpay/payments-backend/internal/pkg/dbctx"
	pkgerrors "github.com/fernpay/payments-backend/internal/pkg/errors"
	"github.com/fernpay/payments-backend/internal/pkg/logger"
)

// TransferRepo is append-only: rows are inserted once and never updated.
type TransferRepo interface {
	Create(dbc dbctx.Context, transfer *domain.Transfer) (*domain.Transfer, error)
	// ListByAccountID returns every transfer where the account appears as
	// sender or receiver, newest first. Same-timestamp rows order by the
	// sequence id, most recent insertion first.
	ListByAccountID(dbc dbctx.Context, accountID uuid.UUID) ([]*domain.Transfer, error)
}

type transferRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTransferRepo(db *gorm.DB, baseLog *logger.Logger) TransferRepo {
	return &transferRepo{
		db:  db,
		log: baseLog.With("repo", "TransferRepo"),
	}
}

func (r *transferRepo) Create(dbc dbctx.Context, transfer *domain.Transfer) (*domain.Transfer, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if transfer == nil {
		return nil, fmt.Errorf("%w: transfer is nil", pkgerrors.ErrInvalidInput)
	}
	if err := transaction.WithContext(dbc.Ctx).
		Omit("Sender", "Receiver").
		Create(transfer).Error; err != nil {
		return nil, pkgerrors.TranslatePG(err)
	}
	return transfer, nil
}

func (r *transferRepo) ListByAccountID(dbc dbctx.Context, accountID uuid.UUID) ([]*domain.Transfer, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*domain.Transfer{}
	if err := transaction.WithContext(dbc.Ctx).
		Where("sender_id = ? OR receiver_id = ?", accountID, accountID).
		Order("transfer_time DESC, id DESC").
		Preload("Sender").
		Preload("Receiver").
		Find(&out).Error; err != nil {
		return nil, pkgerrors.TranslatePG(err)
	}
	return out, nil
}
