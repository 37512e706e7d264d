package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	redisclient "github.com/fernpay/payments-backend/internal/clients/redis"
	"github.com/fernpay/payments-backend/internal/data/repos/payments"
	"github.com/fernpay/payments-backend/internal/domain"
	"github.com/fernpay/payments-backend/internal/pkg/dbctx"
	pkgerrors "github.com/fernpay/payments-backend/internal/pkg/errors"
	"github.com/fernpay/payments-backend/internal/pkg/logger"
)

type AccountService interface {
	Create(ctx context.Context, name string, balance float64, accountNumber int64) (*domain.Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber int64) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
}

type accountService struct {
	db          *gorm.DB
	log         *logger.Logger
	accountRepo payments.AccountRepo
	cache       *redisclient.AccountCache
}

func NewAccountService(
	db *gorm.DB,
	log *logger.Logger,
	accountRepo payments.AccountRepo,
	cache *redisclient.AccountCache,
) AccountService {
	return &accountService{
		db:          db,
		log:         log.With("service", "AccountService"),
		accountRepo: accountRepo,
		cache:       cache,
	}
}

func (s *accountService) Create(ctx context.Context, name string, balance float64, accountNumber int64) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", pkgerrors.ErrInvalidInput)
	}
	if accountNumber <= 0 {
		return nil, fmt.Errorf("%w: account number is required", pkgerrors.ErrInvalidInput)
	}

	account := &domain.Account{
		Name:          name,
		Balance:       balance,
		AccountNumber: accountNumber,
	}
	created, err := s.accountRepo.Create(dbctx.Context{Ctx: ctx}, account)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, created); err != nil {
		s.log.Warn("failed to cache account view", "account_number", created.AccountNumber, "error", err)
	}
	return created, nil
}

func (s *accountService) GetByAccountNumber(ctx context.Context, accountNumber int64) (*domain.Account, error) {
	cached, err := s.cache.Get(ctx, accountNumber)
	if err != nil {
		s.log.Warn("account view cache read failed", "account_number", accountNumber, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	account, err := s.accountRepo.GetByAccountNumber(dbctx.Context{Ctx: ctx}, accountNumber)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(ctx, account); err != nil {
		s.log.Warn("failed to cache account view", "account_number", account.AccountNumber, "error", err)
	}
	return account, nil
}

func (s *accountService) List(ctx context.Context) ([]*domain.Account, error) {
	return s.accountRepo.List(dbctx.Context{Ctx: ctx})
}
