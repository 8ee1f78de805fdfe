package services

import (
	"context"

	"github.com/weqtian/user_center/internal/core/domain"
	"github.com/weqtian/user_center/internal/dto"
)

// TokenCodec signs and verifies token pairs.
type TokenCodec interface {
	CreatePair(identity domain.Identity) (*domain.IssuedTokenPair, error)
	Decode(token string) (*domain.TokenClaims, error)
}

// AuthSessionSvc covers the session lifecycle of a user.
type AuthSessionSvc interface {
	// Register creates a user and returns the persisted record.
	Register(ctx context.Context, req dto.RegisterRequest, meta domain.RequestMeta) (*domain.User, error)

	// Login verifies credentials and issues a new session, replacing any previous one.
	Login(ctx context.Context, req dto.LoginRequest) (*domain.IssuedTokenPair, error)

	// Logout clears the stored session of the caller.
	Logout(ctx context.Context, claims domain.TokenClaims) error

	// RefreshToken rotates the session when given the live refresh token.
	RefreshToken(ctx context.Context, refreshToken string) (*domain.IssuedTokenPair, error)
}

// TokenVerifierSvc is used by the request identity guard.
type TokenVerifierSvc interface {
	// VerifyAccessToken checks signature, expiry, type and the stored session.
	VerifyAccessToken(ctx context.Context, accessToken string) (*domain.TokenClaims, error)
}

// AuthSvcFacade combines all auth-related service interfaces
type AuthSvcFacade interface {
	AuthSessionSvc
	TokenVerifierSvc
}
