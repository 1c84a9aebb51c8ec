package cache

import (
	"context"
	"fmt"
	"time"

	"neuropharm-backend/internal/domain/gateway"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const revokeScanBatch = 100

// RedisTokenStore whitelists issued token ids under "<kind>:<user_id>:<token_id>".
// A token is valid only while its key exists. Each operation is bounded by
// timeout when it is positive.
type RedisTokenStore struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedisTokenStore(client *redis.Client, timeout time.Duration) *RedisTokenStore {
	return &RedisTokenStore{client: client, timeout: timeout}
}

func (s *RedisTokenStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func tokenKey(kind gateway.TokenKind, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", kind, userID.String(), tokenID)
}

func (s *RedisTokenStore) Store(ctx context.Context, kind gateway.TokenKind, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.Set(ctx, tokenKey(kind, userID, tokenID), "1", ttl).Err()
}

func (s *RedisTokenStore) Exists(ctx context.Context, kind gateway.TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	n, err := s.client.Exists(ctx, tokenKey(kind, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisTokenStore) Revoke(ctx context.Context, kind gateway.TokenKind, userID uuid.UUID, tokenID string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.Del(ctx, tokenKey(kind, userID, tokenID)).Err()
}

// RevokeAll removes every access and refresh token of the user
func (s *RedisTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for _, kind := range []gateway.TokenKind{gateway.TokenKindAccess, gateway.TokenKindRefresh} {
		if err := s.revokeKind(ctx, kind, userID); err != nil {
			return err
		}
	}
	return nil
}

// revokeKind scans and deletes under a single timeout
func (s *RedisTokenStore) revokeKind(ctx context.Context, kind gateway.TokenKind, userID uuid.UUID) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	pattern := fmt.Sprintf("%s:%s:*", kind, userID.String())
	iter := s.client.Scan(ctx, 0, pattern, revokeScanBatch).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
