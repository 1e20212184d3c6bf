package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	accessTokenKeyPrefix  = "access_token"
	refreshTokenKeyPrefix = "refresh_token"
)

// TokenStore keeps the allow-list of issued JWT ids so tokens can be revoked before expiry.
type TokenStore interface {
	StoreAccess(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error
	StoreRefresh(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error
	AccessValid(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	// ConsumeRefresh deletes the refresh token and reports whether it existed.
	ConsumeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

type redisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func tokenKey(prefix string, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", prefix, userID.String(), tokenID)
}

func (s *redisTokenStore) StoreAccess(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(accessTokenKeyPrefix, userID, tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) StoreRefresh(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(refreshTokenKeyPrefix, userID, tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) AccessValid(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	exists, err := s.client.Exists(ctx, tokenKey(accessTokenKeyPrefix, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *redisTokenStore) ConsumeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	deleted, err := s.client.Del(ctx, tokenKey(refreshTokenKeyPrefix, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	keys := []string{tokenKey(accessTokenKeyPrefix, userID, accessTokenID)}
	if refreshTokenID != "" {
		keys = append(keys, tokenKey(refreshTokenKeyPrefix, userID, refreshTokenID))
	}
	return s.client.Del(ctx, keys...).Err()
}

// RevokeAll removes every token issued to the user, e.g. after deactivation.
func (s *redisTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for _, prefix := range []string{accessTokenKeyPrefix, refreshTokenKeyPrefix} {
		pattern := fmt.Sprintf("%s:%s:*", prefix, userID.String())
		iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}
