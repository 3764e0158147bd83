package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"recipebox/internal/apperrors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

// Claims carries the principal's identity inside a signed token. Clients
// treat the token as an opaque string.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and resolves bearer tokens. Issuance is get-or-create
// keyed by user: re-authenticating returns the cached token, and a token
// rotates only after explicit invalidation. Resolution requires an exact
// match with the stored token, so stale tokens die with the cache entry.
type TokenService struct {
	secret []byte
	store  TokenStoreInterface
	users  repository.UserRepository
}

// NewTokenService creates a token service with the given signing secret.
func NewTokenService(secret string, store TokenStoreInterface, users repository.UserRepository) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		store:  store,
		users:  users,
	}
}

// Issue returns the user's current token, generating and caching one if none
// exists.
func (s *TokenService) Issue(ctx context.Context, user *model.User) (string, error) {
	existing, err := s.store.GetUserToken(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("load cached token: %w", err)
	}
	if existing != "" {
		if _, parseErr := s.parse(existing); parseErr == nil {
			return existing, nil
		}
		// cached token no longer verifies (e.g. secret rotation): reissue
	}

	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.New().String(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	if err := s.store.StoreUserToken(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Invalidate drops the user's cached token. The next Issue rotates it.
func (s *TokenService) Invalidate(ctx context.Context, userID uint) error {
	return s.store.DeleteUserToken(ctx, userID)
}

// Resolve maps a presented token back to its principal. Any failure is
// reported uniformly as an authentication error.
func (s *TokenService) Resolve(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}

	stored, err := s.store.GetUserToken(ctx, claims.UserID)
	if err != nil || stored != tokenString {
		return nil, apperrors.ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, apperrors.ErrUnauthenticated
	}
	return user, nil
}

func (s *TokenService) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
