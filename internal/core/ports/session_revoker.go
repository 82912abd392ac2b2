package ports

import (
	"context"
	"time"
)

// SessionRevoker invalidates issued session tokens before their natural
// expiry. Revocations only need to outlive the token, hence the TTL.
type SessionRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
