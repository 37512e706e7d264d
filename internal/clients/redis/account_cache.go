package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fernpay/payments-backend/internal/domain"
	"github.com/fernpay/payments-backend/internal/pkg/logger"
)

const accountViewTTL = 5 * time.Minute

// AccountCache keeps recently read account views in Redis so point lookups
// skip Postgres. The write store stays the source of truth: entries are
// refreshed after every balance mutation and expire on their own. A nil
// *AccountCache is valid and disables caching.
type AccountCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewAccountCache(addr string, log *logger.Logger) (*AccountCache, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &AccountCache{
		log: log.With("client", "AccountCache"),
		rdb: rdb,
	}, nil
}

func (c *AccountCache) Get(ctx context.Context, accountNumber int64) (*domain.Account, error) {
	if c == nil || c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, accountKey(accountNumber)).Result()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account view: %w", err)
	}
	var account domain.Account
	if err := json.Unmarshal([]byte(data), &account); err != nil {
		return nil, fmt.Errorf("unmarshal account view: %w", err)
	}
	return &account, nil
}

func (c *AccountCache) Put(ctx context.Context, account *domain.Account) error {
	if c == nil || c.rdb == nil || account == nil {
		return nil
	}
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("marshal account view: %w", err)
	}
	if err := c.rdb.Set(ctx, accountKey(account.AccountNumber), data, accountViewTTL).Err(); err != nil {
		return fmt.Errorf("cache account view: %w", err)
	}
	return nil
}

func (c *AccountCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func accountKey(accountNumber int64) string {
	return fmt.Sprintf("account:%d", accountNumber)
}
