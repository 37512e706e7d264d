package app

import (
	"gorm.io/gorm"

	redisclient "github.com/fernpay/payments-backend/internal/clients/redis"
	"github.com/fernpay/payments-backend/internal/pkg/logger"
	"github.com/fernpay/payments-backend/internal/services"
)

type Services struct {
	Account  services.AccountService
	Transfer services.TransferService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos) Services {
	log.Info("Wiring services...")

	// The account view cache is optional: without a Redis address every read
	// goes straight to Postgres.
	var cache *redisclient.AccountCache
	if cfg.RedisAddr != "" {
		var err error
		cache, err = redisclient.NewAccountCache(cfg.RedisAddr, log)
		if err != nil {
			log.Warn("account view cache unavailable, reads go to Postgres", "error", err)
			cache = nil
		}
	}

	return Services{
		Account:  services.NewAccountService(db, log, repos.Account, cache),
		Transfer: services.NewTransferService(db, log, repos.Account, repos.Transfer, cache, cfg.LockTimeout),
	}
}
