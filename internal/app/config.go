package app

import (
	"time"

	"github.com/fernpay/payments-backend/internal/pkg/logger"
	"github.com/fernpay/payments-backend/internal/utils"
)

type Config struct {
	Port        string
	RedisAddr   string
	LockTimeout time.Duration
	Environment string
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
	lockTimeoutMS := utils.GetEnvAsInt("TRANSFER_LOCK_TIMEOUT_MS", 3000, log)
	environment := utils.GetEnv("APP_ENV", "development", log)
	return Config{
		Port:        port,
		RedisAddr:   redisAddr,
		LockTimeout: time.Duration(lockTimeoutMS) * time.Millisecond,
		Environment: environment,
	}
}
