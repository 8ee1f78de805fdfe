package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/weqtian/user_center/internal/apperrors"
	"github.com/weqtian/user_center/internal/core/domain"
)

// TokenCodecConfig configures a TokenCodec.
type TokenCodecConfig struct {
	Secret          string
	Algorithm       string // HS256, HS384 or HS512
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	// Now overrides the clock. Used by tests.
	Now func() time.Time
}

type tokenClaims struct {
	UserID   string           `json:"user_id"`
	Nickname string           `json:"nickname"`
	Type     domain.TokenType `json:"type"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies the access/refresh token pair.
type TokenCodec struct {
	secret     []byte
	method     jwt.SigningMethod
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenCodec validates cfg and builds a codec.
func NewTokenCodec(cfg TokenCodecConfig) (*TokenCodec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	method, err := signingMethod(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &TokenCodec{
		secret:     []byte(cfg.Secret),
		method:     method,
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		now:        now,
	}, nil
}

func signingMethod(alg string) (jwt.SigningMethod, error) {
	switch alg {
	case "", "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported token algorithm %q", alg)
	}
}

// CreatePair issues a fresh access token and refresh token for identity.
func (c *TokenCodec) CreatePair(identity domain.Identity) (*domain.IssuedTokenPair, error) {
	now := c.now()

	accessExpiry := now.Add(c.accessTTL).Truncate(jwt.TimePrecision)
	accessToken, err := c.sign(identity, domain.TokenTypeAccess, now, accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := c.sign(identity, domain.TokenTypeRefresh, now, now.Add(c.refreshTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &domain.IssuedTokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    domain.BearerTokenType,
		ExpiresAtMs:  accessExpiry.UnixMilli(),
		UserID:       identity.UserID,
		Nickname:     identity.Nickname,
	}, nil
}

func (c *TokenCodec) sign(identity domain.Identity, tokenType domain.TokenType, issuedAt, expiresAt time.Time) (string, error) {
	claims := tokenClaims{
		UserID:   identity.UserID,
		Nickname: identity.Nickname,
		Type:     tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.issuer,
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// Decode verifies signature, algorithm and expiry and returns the claims.
// Expired tokens yield a TokenExpired error. Every other failure yields TokenInvalid.
func (c *TokenCodec) Decode(tokenString string) (*domain.TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.TokenExpired()
		}
		appErr := apperrors.TokenInvalid("")
		appErr.Cause = err
		return nil, appErr
	}

	if claims.UserID == "" {
		return nil, apperrors.TokenInvalid("Token is missing user_id")
	}
	if claims.Type != domain.TokenTypeAccess && claims.Type != domain.TokenTypeRefresh {
		return nil, apperrors.TokenInvalid("Token type is unknown")
	}

	decoded := &domain.TokenClaims{
		UserID:   claims.UserID,
		Nickname: claims.Nickname,
		Type:     claims.Type,
	}
	if claims.ExpiresAt != nil {
		decoded.ExpiresAt = claims.ExpiresAt.Time
	}
	return decoded, nil
}
