package app

import (
	"gorm.io/gorm"

	"github.com/fernpay/payments-backend/internal/data/repos/payments"
	"github.com/fernpay/payments-backend/internal/pkg/logger"
)

type Repos struct {
	Account  payments.AccountRepo
	Transfer payments.TransferRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Account:  payments.NewAccountRepo(db, log),
		Transfer: payments.NewTransferRepo(db, log),
	}
}
