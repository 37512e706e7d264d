package app

import (
	"github.com/fernpay/payments-backend/internal/http"
	httpH "github.com/fernpay/payments-backend/internal/http/handlers"
	"github.com/fernpay/payments-backend/internal/pkg/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Account  *httpH.AccountHandler
	Transfer *httpH.TransferHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(),
		Account:  httpH.NewAccountHandler(log, services.Account),
		Transfer: httpH.NewTransferHandler(log, services.Transfer),
	}
}

func wireServer(log *logger.Logger, handlers Handlers) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:             log,
		HealthHandler:   handlers.Health,
		AccountHandler:  handlers.Account,
		TransferHandler: handlers.Transfer,
	})
}
