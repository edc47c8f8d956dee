package ports

import (
	"context"
	"time"

	"github.com/GoArmGo/Foodgram/internal/auth"
)

// TokenManager выпускает и проверяет токены доступа
type TokenManager interface {
	Issue(userID int64) (string, *auth.Claims, error)
	Parse(token string) (*auth.Claims, error)
}

// TokenDenylist хранит отозванные токены до истечения их срока действия
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
