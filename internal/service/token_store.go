package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	accessTokenKeyPrefix  = "access_token"
	refreshTokenKeyPrefix = "refresh_token"
)

// TokenStore is the allow-list of issued bearer tokens. A token whose ID is
// not present is treated as revoked even if its signature is still valid.
type TokenStore interface {
	StorePair(ctx context.Context, subject, accessTokenID, refreshTokenID string, accessTTL, refreshTTL time.Duration) error
	IsAccessTokenActive(ctx context.Context, subject, tokenID string) (bool, error)
	// ConsumeRefreshToken removes the refresh token and reports whether it was
	// still active. Only one of two concurrent callers gets true.
	ConsumeRefreshToken(ctx context.Context, subject, tokenID string) (bool, error)
	Revoke(ctx context.Context, subject, accessTokenID, refreshTokenID string) error
}

// consumeScript deletes a key and returns how many keys were removed, so the
// existence check and the delete happen as one step on the server.
var consumeScript = redis.NewScript(`
	return redis.call('DEL', KEYS[1])
`)

type redisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func accessTokenKey(subject, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", accessTokenKeyPrefix, subject, tokenID)
}

func refreshTokenKey(subject, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", refreshTokenKeyPrefix, subject, tokenID)
}

func (s *redisTokenStore) StorePair(ctx context.Context, subject, accessTokenID, refreshTokenID string, accessTTL, refreshTTL time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, accessTokenKey(subject, accessTokenID), "valid", accessTTL)
		pipe.Set(ctx, refreshTokenKey(subject, refreshTokenID), "valid", refreshTTL)
		return nil
	})
	return err
}

func (s *redisTokenStore) IsAccessTokenActive(ctx context.Context, subject, tokenID string) (bool, error) {
	exists, err := s.client.Exists(ctx, accessTokenKey(subject, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *redisTokenStore) ConsumeRefreshToken(ctx context.Context, subject, tokenID string) (bool, error) {
	removed, err := consumeScript.Run(ctx, s.client, []string{refreshTokenKey(subject, tokenID)}).Int64()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, subject, accessTokenID, refreshTokenID string) error {
	keys := []string{accessTokenKey(subject, accessTokenID)}
	if refreshTokenID != "" {
		keys = append(keys, refreshTokenKey(subject, refreshTokenID))
	}
	return s.client.Del(ctx, keys...).Err()
}
