package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "foodgram:revoked:"

// RedisDenylist хранит jti отозванных токенов в Redis.
// Ключ живёт ровно до истечения токена, после чего токен и так недействителен.
type RedisDenylist struct {
	rdb    redis.Cmdable
	logger *slog.Logger
	now    func() time.Time
}

func NewRedisDenylist(rdb redis.Cmdable, logger *slog.Logger) *RedisDenylist {
	return &RedisDenylist{rdb: rdb, logger: logger, now: time.Now}
}

func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.rdb.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		d.logger.Error("failed to revoke token", "jti", tokenID, "error", err)
		return fmt.Errorf("revoke token: %w", err)
	}
	d.logger.Info("token revoked", "jti", tokenID, "ttl", ttl.String())
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := d.rdb.Get(ctx, revokedKeyPrefix+tokenID).Err()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return true, nil
}
