package auth

import (
	"context"
	"fmt"

	"recipebox/internal/cache"
)

const userTokenKeyPrefix = "user_token:"

// TokenStoreInterface defines the keyed user-to-token storage operations.
// One token is cached per user and survives until explicitly invalidated.
type TokenStoreInterface interface {
	StoreUserToken(ctx context.Context, userID uint, token string) error
	GetUserToken(ctx context.Context, userID uint) (string, error)
	DeleteUserToken(ctx context.Context, userID uint) error
}

// TokenStore handles storage and retrieval of per-user tokens in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

func userTokenKey(userID uint) string {
	return fmt.Sprintf("%s%d", userTokenKeyPrefix, userID)
}

// StoreUserToken stores the user's current token without expiry.
func (s *TokenStore) StoreUserToken(ctx context.Context, userID uint, token string) error {
	return s.cache.Set(ctx, userTokenKey(userID), []byte(token), 0)
}

// GetUserToken returns the user's current token, or "" when none is cached.
func (s *TokenStore) GetUserToken(ctx context.Context, userID uint) (string, error) {
	data, err := s.cache.Get(ctx, userTokenKey(userID))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DeleteUserToken invalidates the user's token; the next issue rotates it.
func (s *TokenStore) DeleteUserToken(ctx context.Context, userID uint) error {
	return s.cache.Delete(ctx, userTokenKey(userID))
}
