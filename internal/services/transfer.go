package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	redisclient "github.com/fernpay/payments-backend/internal/clients/redis"
	"github.com/fernpay/payments-backend/internal/data/repos/payments"
	"github.com/fernpay/payments-backend/internal/domain"
	"github.com/fernpay/payments-backend/internal/pkg/dbctx"
	"github.com/fernpay/payments-backend/internal/pkg/logger"
)

type TransferService interface {
	// ProcessTransfer moves amount from the sender to the receiver and
	// appends exactly one ledger row for the attempt. A rejected transfer
	// (insufficient funds) returns a FAIL-status record and a nil error;
	// only storage-level failures return an error, and those roll the whole
	// unit of work back so no partial state survives.
	ProcessTransfer(ctx context.Context, senderAccountNumber, receiverAccountNumber int64, amount float64) (*domain.Transfer, error)
	ListByAccountNumber(ctx context.Context, accountNumber int64) ([]*domain.Transfer, error)
}

type transferService struct {
	db           *gorm.DB
	log          *logger.Logger
	accountRepo  payments.AccountRepo
	transferRepo payments.TransferRepo
	cache        *redisclient.AccountCache
	lockTimeout  time.Duration

	// beforeSenderLock and beforeReceiverLock run inside the transaction just
	// before the respective row lock is taken. Tests use them to force
	// interleavings; they are never set in production wiring.
	beforeSenderLock   func()
	beforeReceiverLock func()
}

func NewTransferService(
	db *gorm.DB,
	log *logger.Logger,
	accountRepo payments.AccountRepo,
	transferRepo payments.TransferRepo,
	cache *redisclient.AccountCache,
	lockTimeout time.Duration,
) TransferService {
	if lockTimeout <= 0 {
		lockTimeout = 3 * time.Second
	}
	return &transferService{
		db:           db,
		log:          log.With("service", "TransferService"),
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		cache:        cache,
		lockTimeout:  lockTimeout,
	}
}

func (s *transferService) ProcessTransfer(ctx context.Context, senderAccountNumber, receiverAccountNumber int64, amount float64) (*domain.Transfer, error) {
	var record *domain.Transfer
	var touched []*domain.Account

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		// Bounded wait on row locks: a blocked lookup fails (SQLSTATE 55P03)
		// instead of hanging, and Postgres's deadlock detector covers the
		// swapped sender/receiver cycle. Locks are taken in caller order,
		// sender first.
		if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())).Error; err != nil {
			return fmt.Errorf("set lock timeout: %w", err)
		}

		if s.beforeSenderLock != nil {
			s.beforeSenderLock()
		}
		sender, err := s.accountRepo.GetByAccountNumberForUpdate(dbc, senderAccountNumber)
		if err != nil {
			return fmt.Errorf("resolve sender: %w", err)
		}

		// A self-transfer works on one row; resolving it twice would yield two
		// detached structs whose debit and credit overwrite each other. Alias
		// the receiver to the sender so the adjustments cancel in place.
		receiver := sender
		if receiverAccountNumber != senderAccountNumber {
			if s.beforeReceiverLock != nil {
				s.beforeReceiverLock()
			}
			receiver, err = s.accountRepo.GetByAccountNumberForUpdate(dbc, receiverAccountNumber)
			if err != nil {
				return fmt.Errorf("resolve receiver: %w", err)
			}
		}

		outcome, err := s.executeTransfer(dbc, sender, receiver, amount)
		if err != nil {
			return err
		}

		transfer := &domain.Transfer{
			SenderID:     sender.ID,
			ReceiverID:   receiver.ID,
			TransferTime: time.Now().UTC(),
			Status:       outcome.Message(),
		}
		if _, err := s.transferRepo.Create(dbc, transfer); err != nil {
			return fmt.Errorf("append transfer record: %w", err)
		}
		transfer.Sender = sender
		transfer.Receiver = receiver
		record = transfer
		if outcome.Succeeded() {
			touched = []*domain.Account{sender}
			if receiver != sender {
				touched = append(touched, receiver)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.refreshAccountViews(ctx, touched)
	return record, nil
}

// executeTransfer decides the outcome for two already-locked accounts and
// mutates balances on success. It attempts the mutation exactly once; a
// storage failure while persisting aborts the enclosing transaction rather
// than recording a misleading status.
func (s *transferService) executeTransfer(dbc dbctx.Context, sender, receiver *domain.Account, amount float64) (domain.Outcome, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return domain.InternalFaultOutcome("amount is not a finite number"), nil
	}
	if sender.Balance < amount {
		return domain.InsufficientFundsOutcome(), nil
	}

	sender.Balance -= amount
	receiver.Balance += amount
	if err := s.accountRepo.UpdateBalance(dbc, sender.ID, sender.Balance); err != nil {
		return domain.Outcome{}, fmt.Errorf("persist sender balance: %w", err)
	}
	if err := s.accountRepo.UpdateBalance(dbc, receiver.ID, receiver.Balance); err != nil {
		return domain.Outcome{}, fmt.Errorf("persist receiver balance: %w", err)
	}
	return domain.SuccessOutcome(), nil
}

func (s *transferService) ListByAccountNumber(ctx context.Context, accountNumber int64) ([]*domain.Transfer, error) {
	dbc := dbctx.Context{Ctx: ctx}
	account, err := s.accountRepo.GetByAccountNumber(dbc, accountNumber)
	if err != nil {
		return nil, err
	}
	return s.transferRepo.ListByAccountID(dbc, account.ID)
}

// refreshAccountViews pushes post-commit balances into the read cache. Cache
// writes are best effort; the entries expire on their own if this fails.
func (s *transferService) refreshAccountViews(ctx context.Context, accounts []*domain.Account) {
	for _, account := range accounts {
		if err := s.cache.Put(ctx, account); err != nil {
			s.log.Warn("failed to refresh account view", "account_number", account.AccountNumber, "error", err)
		}
	}
}
