package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/fernpay/payments-backend/internal/http/handlers"
	httpMW "github.com/fernpay/payments-backend/internal/http/middleware"
	"github.com/fernpay/payments-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler   *httpH.HealthHandler
	AccountHandler  *httpH.AccountHandler
	TransferHandler *httpH.TransferHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())
	r.Use(otelgin.Middleware("payments-backend"))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api/v1")
	{
		// Accounts
		if cfg.AccountHandler != nil {
			api.POST("/accounts", cfg.AccountHandler.CreateAccount)
			api.GET("/accounts", cfg.AccountHandler.ListAccounts)
			api.GET("/accounts/:accountNumber", cfg.AccountHandler.GetAccount)
		}

		// Transfers
		if cfg.TransferHandler != nil {
			api.POST("/transfers/pay", cfg.TransferHandler.Pay)
			api.GET("/transfers/:accountNumber", cfg.TransferHandler.ListByAccount)
		}
	}

	return r
}
