package redis

import (
	"context"
	"time"

	"medblock-service/internal/app/contracts"
	"medblock-service/internal/pkg/constvars"
)

type tokenRevocationList struct {
	repository contracts.RedisRepository
}

// NewTokenRevocationList keeps revoked token ids until the token would have
// expired anyway.
func NewTokenRevocationList(repository contracts.RedisRepository) contracts.TokenRevocationList {
	return &tokenRevocationList{repository: repository}
}

func (t *tokenRevocationList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return t.repository.Set(ctx, constvars.RevokedTokenKeyPrefix+tokenID, time.Now().UTC(), ttl)
}

func (t *tokenRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return t.repository.Exists(ctx, constvars.RevokedTokenKeyPrefix+tokenID)
}
