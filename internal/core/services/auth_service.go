package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/weqtian/user_center/internal/apperrors"
	"github.com/weqtian/user_center/internal/core/domain"
	portsrepo "github.com/weqtian/user_center/internal/core/ports/repositories"
	portssvc "github.com/weqtian/user_center/internal/core/ports/services"
	"github.com/weqtian/user_center/internal/dto"
	"github.com/weqtian/user_center/internal/platform/telemetry"
	"github.com/weqtian/user_center/internal/utils"
)

type authService struct {
	BaseService
	userRepo   portsrepo.UserRepositoryFacade
	tokens     portssvc.TokenCodec
	generateID utils.IDGenerator
	idAttempts int
	now        func() time.Time
	metrics    *telemetry.AuthMetrics
}

// AuthServiceOption configures optional collaborators of the auth service.
type AuthServiceOption func(*authService)

// WithIDGenerator replaces the identifier generator used at registration.
func WithIDGenerator(generate utils.IDGenerator) AuthServiceOption {
	return func(s *authService) { s.generateID = generate }
}

// WithIDAttempts sets the identifier retry budget.
func WithIDAttempts(attempts int) AuthServiceOption {
	return func(s *authService) { s.idAttempts = attempts }
}

// WithClock replaces the clock used for audit stamps.
func WithClock(now func() time.Time) AuthServiceOption {
	return func(s *authService) { s.now = now }
}

// WithAuthMetrics records operation outcomes on m.
func WithAuthMetrics(m *telemetry.AuthMetrics) AuthServiceOption {
	return func(s *authService) { s.metrics = m }
}

// NewAuthService creates the auth orchestrator.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade, tokens portssvc.TokenCodec, opts ...AuthServiceOption) portssvc.AuthSvcFacade {
	s := &authService{
		userRepo:   userRepo,
		tokens:     tokens,
		generateID: utils.GenerateID,
		idAttempts: utils.DefaultIDAttempts,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest, meta domain.RequestMeta) (user *domain.User, err error) {
	email := normalizeEmail(req.Email)
	ctx, span := telemetry.StartSpan(ctx, "auth.register")
	defer func() {
		s.metrics.Record(ctx, "register", err)
		telemetry.EndSpan(span, err)
	}()
	logger := s.GetLogger(ctx).With().Str("email", email).Logger()

	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		logger.Warn().Msg("Registration rejected, email already registered")
		return nil, apperrors.EmailAlreadyRegistered()
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, s.SystemError(ctx, err, "Failed to check email availability")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, s.SystemError(ctx, err, "Failed to hash password")
	}

	userID, err := utils.GenerateUniqueID(ctx, "user_id", s.generateID, s.userRepo.UserIDExists, s.idAttempts)
	if err != nil {
		return nil, err
	}
	displayID, err := utils.GenerateUniqueID(ctx, "display_id", s.generateID, s.userRepo.DisplayIDExists, s.idAttempts)
	if err != nil {
		return nil, err
	}

	now := s.now()
	newUser := domain.User{
		UserID:       userID,
		DisplayID:    displayID,
		Email:        email,
		Nickname:     strings.TrimSpace(req.Nickname),
		HeadFileURL:  strings.TrimSpace(req.HeadFileURL),
		Gender:       domain.Gender(req.Gender),
		Birthday:     req.Birthday,
		PasswordHash: passwordHash,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if meta.ClientIP != "" {
		ip := meta.ClientIP
		newUser.CreateIP = &ip
	}

	created, err := s.userRepo.CreateUser(ctx, newUser)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			key := apperrors.DuplicateKeyOf(err)
			logger.Warn().Str("key", key).Msg("Registration lost a uniqueness race")
			// An unnamed key comes from a store that cannot tell its indexes apart.
			if key == "" || key == apperrors.DuplicateKeyEmail {
				return nil, apperrors.EmailAlreadyRegistered()
			}
			return nil, s.SystemError(ctx, err, "Generated user identifier collided")
		}
		return nil, s.SystemError(ctx, err, "Failed to persist new user")
	}

	span.SetAttributes(attribute.String("user.id", created.UserID))
	logger.Info().Str("user_id", created.UserID).Msg("User registered")
	return created, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (pair *domain.IssuedTokenPair, err error) {
	email := normalizeEmail(req.Email)
	ctx, span := telemetry.StartSpan(ctx, "auth.login")
	defer func() {
		s.metrics.Record(ctx, "login", err)
		telemetry.EndSpan(span, err)
	}()

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.EmailNotRegistered()
		}
		return nil, s.SystemError(ctx, err, "Failed to load user for login")
	}

	ok, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, s.SystemError(ctx, fmt.Errorf("user %s: %w", user.UserID, err), "Stored password hash is unreadable")
	}
	if !ok {
		s.GetLogger(ctx).Warn().Str("user_id", user.UserID).Msg("Login rejected, wrong password")
		return nil, apperrors.InvalidCredentials()
	}

	pair, err = s.issueSession(ctx, *user, nil)
	if err != nil {
		return nil, err
	}
	s.GetLogger(ctx).Info().Str("user_id", user.UserID).Msg("User logged in")
	return pair, nil
}

// issueSession signs a new pair and stores its fingerprints. With expectedRefresh
// set, the store only accepts the write while that refresh token is still live.
func (s *authService) issueSession(ctx context.Context, user domain.User, expectedRefresh *string) (*domain.IssuedTokenPair, error) {
	pair, err := s.tokens.CreatePair(user.Identity())
	if err != nil {
		return nil, s.SystemError(ctx, err, "Failed to create token pair")
	}

	accessFingerprint := utils.FingerprintToken(pair.AccessToken)
	refreshFingerprint := utils.FingerprintToken(pair.RefreshToken)
	err = s.userRepo.UpdateSessionTokens(ctx, domain.SessionUpdate{
		UserID:               user.UserID,
		AccessToken:          &accessFingerprint,
		RefreshToken:         &refreshFingerprint,
		ExpectedRefreshToken: expectedRefresh,
		ModifiedBy:           user.UserID,
		ModifiedAt:           s.now(),
	})
	if err != nil {
		if expectedRefresh != nil && errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.TokenInvalid("Refresh token has been superseded")
		}
		return nil, s.SystemError(ctx, err, "Failed to persist session tokens")
	}
	return pair, nil
}

func (s *authService) Logout(ctx context.Context, claims domain.TokenClaims) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "auth.logout", attribute.String("user.id", claims.UserID))
	defer func() {
		s.metrics.Record(ctx, "logout", err)
		telemetry.EndSpan(span, err)
	}()

	err = s.userRepo.UpdateSessionTokens(ctx, domain.SessionUpdate{
		UserID:     claims.UserID,
		ModifiedBy: claims.UserID,
		ModifiedAt: s.now(),
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.UserNotExist()
		}
		return s.SystemError(ctx, err, "Failed to clear session tokens")
	}
	s.GetLogger(ctx).Info().Str("user_id", claims.UserID).Msg("User logged out")
	return nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (pair *domain.IssuedTokenPair, err error) {
	ctx, span := telemetry.StartSpan(ctx, "auth.refresh")
	defer func() {
		s.metrics.Record(ctx, "refresh", err)
		telemetry.EndSpan(span, err)
	}()

	claims, err := s.tokens.Decode(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != domain.TokenTypeRefresh {
		return nil, apperrors.TokenInvalid("Token is not a refresh token")
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.TokenInvalid("")
		}
		return nil, s.SystemError(ctx, err, "Failed to load user for refresh")
	}
	if !utils.MatchesFingerprint(refreshToken, user.RefreshToken) {
		s.GetLogger(ctx).Warn().Str("user_id", user.UserID).Msg("Refresh rejected, token is not the live session")
		return nil, apperrors.TokenInvalid("")
	}

	pair, err = s.issueSession(ctx, *user, user.RefreshToken)
	if err != nil {
		return nil, err
	}
	s.GetLogger(ctx).Info().Str("user_id", user.UserID).Msg("Session refreshed")
	return pair, nil
}

func (s *authService) VerifyAccessToken(ctx context.Context, accessToken string) (*domain.TokenClaims, error) {
	claims, err := s.tokens.Decode(accessToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != domain.TokenTypeAccess {
		return nil, apperrors.TokenTypeError()
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.TokenInvalid("")
		}
		return nil, s.SystemError(ctx, err, "Failed to load user for token verification")
	}
	if !utils.MatchesFingerprint(accessToken, user.AccessToken) {
		return nil, apperrors.TokenInvalid("")
	}
	return claims, nil
}
