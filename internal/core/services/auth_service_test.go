package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/weqtian/user_center/internal/apperrors"
	"github.com/weqtian/user_center/internal/core/domain"
	portssvc "github.com/weqtian/user_center/internal/core/ports/services"
	"github.com/weqtian/user_center/internal/core/services"
	"github.com/weqtian/user_center/internal/dto"
	"github.com/weqtian/user_center/internal/utils"
)

const testPassword = "secret123"

type AuthServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockUserRepository
	codec        *utils.TokenCodec
	now          time.Time
	passwordHash string
	service      portssvc.AuthSvcFacade
	ctx          context.Context
}

func (s *AuthServiceTestSuite) SetupSuite() {
	hash, err := utils.HashPassword(testPassword)
	s.Require().NoError(err)
	s.passwordHash = hash
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockUserRepository)
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = context.Background()

	codec, err := utils.NewTokenCodec(utils.TokenCodecConfig{
		Secret:          "test-secret",
		Algorithm:       "HS256",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Now:             func() time.Time { return s.now },
	})
	s.Require().NoError(err)
	s.codec = codec

	s.service = services.NewAuthService(s.mockRepo, s.codec, services.WithClock(func() time.Time { return s.now }))
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) storedUser() *domain.User {
	return &domain.User{
		ID:           "doc-1",
		UserID:       "0000000042",
		DisplayID:    "0000000043",
		Email:        "alice@example.com",
		Nickname:     "alice",
		PasswordHash: s.passwordHash,
		IsActive:     true,
	}
}

func validRegisterRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:       "Alice@Example.com",
		Password:    testPassword,
		Nickname:    "alice",
		HeadFileURL: "https://cdn.example.com/a.png",
		Gender:      1,
		Birthday:    "1990-01-31",
	}
}

// --- Register ---

func (s *AuthServiceTestSuite) TestRegister_Success() {
	s.mockRepo.On("FindUserByEmail", mock.Anything, "alice@example.com").Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepo.On("UserIDExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()
	s.mockRepo.On("DisplayIDExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()

	var saved domain.User
	s.mockRepo.CreateUserFn = func(ctx context.Context, user domain.User) (*domain.User, error) {
		saved = user
		user.ID = "doc-1"
		return &user, nil
	}

	created, err := s.service.Register(s.ctx, validRegisterRequest(), domain.RequestMeta{ClientIP: "10.0.0.1"})

	s.Require().NoError(err)
	s.Equal("doc-1", created.ID)
	s.Equal("alice@example.com", saved.Email)
	s.Len(saved.UserID, 10)
	s.Len(saved.DisplayID, 10)
	s.NotEqual(testPassword, saved.PasswordHash)
	ok, err := utils.VerifyPassword(testPassword, saved.PasswordHash)
	s.NoError(err)
	s.True(ok)
	s.Equal(domain.GenderMale, saved.Gender)
	s.True(saved.IsActive)
	s.False(saved.IsDeleted)
	s.Nil(saved.AccessToken)
	s.Nil(saved.RefreshToken)
	s.Require().NotNil(saved.CreateIP)
	s.Equal("10.0.0.1", *saved.CreateIP)
	s.Equal(s.now, saved.CreatedAt)
	s.Equal(saved.UserID, saved.CreatedBy)
	s.Equal(saved.UserID, saved.LastUpdatedBy)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestRegister_EmailAlreadyRegistered() {
	s.mockRepo.On("FindUserByEmail", mock.Anything, "alice@example.com").Return(s.storedUser(), nil).Once()

	created, err := s.service.Register(s.ctx, validRegisterRequest(), domain.RequestMeta{})

	s.Nil(created)
	s.Equal(apperrors.CodeEmailAlreadyRegistered, apperrors.CodeOf(err))
	s.Equal(apperrors.KindBusiness, apperrors.KindOf(err))
	s.mockRepo.AssertNotCalled(s.T(), "CreateUser", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestRegister_DuplicateOnInsert() {
	s.mockRepo.On("FindUserByEmail", mock.Anything, "alice@example.com").Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepo.On("UserIDExists", mock.Anything, mock.Anything).Return(false, nil)
	s.mockRepo.On("DisplayIDExists", mock.Anything, mock.Anything).Return(false, nil)
	s.mockRepo.On("CreateUser", mock.Anything, mock.Anything).Return(nil, apperrors.ErrDuplicate).Once()

	_, err := s.service.Register(s.ctx, validRegisterRequest(), domain.RequestMeta{})

	s.Equal(apperrors.CodeEmailAlreadyRegistered, apperrors.CodeOf(err))
}

func (s *AuthServiceTestSuite) TestRegister_DuplicateEmailKeyOnInsert() {
	s.mockRepo.On("FindUserByEmail", mock.Anything, "alice@example.com").Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepo.On("UserIDExists", mock.Anything, mock.Anything).Return(false, nil)
	s.mockRepo.On("DisplayIDExists", mock.Anything, mock.Anything).Return(false, nil)
	s.mockRepo.On("CreateUser", mock.Anything, mock.Anything).
		Return(nil, &apperrors.DuplicateKeyError{Key: apperrors.DuplicateKeyEmail}).Once()

	_, err := s.service.Register(s.ctx, validRegisterRequest(), domain.RequestMeta{})

	s.Equal(apperrors.CodeEmailAlreadyRegistered, apperrors.CodeOf(err))
}

func (s *AuthServiceTestSuite) TestRegister_GeneratedIDCollisionOnInsert() {
	for _, key := range []string{apperrors.DuplicateKeyUserID, apperrors.DuplicateKeyDisplayID} {
		s.Run(key, func() {
			repo := new(MockUserRepository)
			repo.On("FindUserByEmail", mock.Anything, "alice@example.com").Return(nil, apperrors.ErrNotFound).Once()
			repo.On("UserIDExists", mock.Anything, mock.Anything).Return(false, nil)
			repo.On("DisplayIDExists", mock.Anything, mock.Anything).Return(false, nil)
			repo.On("CreateUser", mock.Anything, mock.Anything).
				Return(nil, &apperrors.DuplicateKeyError{Key: key}).Once()
			svc := services.NewAuthService(repo, s.codec, services.WithClock(func() time.Time { return s.now }))

			created, err := svc.Register(s.ctx, validRegisterRequest(), domain.RequestMeta{})

			s.Nil(created)
			s.Equal(apperrors.KindSystem, apperrors.KindOf(err))
			s.NotEqual(apperrors.CodeEmailAlreadyRegistered, apperrors.CodeOf(err))
		})
	}
}

func (s *AuthServiceTestSuite) TestRegister_PersistFailure() {
	s.mockRepo.On("FindUserByEmail", mock.Anything, "alice@example.com").Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepo.On("UserIDExists", mock.Anything, mock.Anything).Return(false, nil)
	s.mockRepo.On("DisplayIDExists", mock.Anything, mock.Anything).Return(false, nil)
	s.mockRepo.On("CreateUser", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()

	_, err := s.service.Register(s.ctx, validRegisterRequest(), domain.RequestMeta{})

	s.Equal(apperrors.KindSystem, apperrors.KindOf(err))
}

func (s *AuthServiceTestSuite) TestRegister_IDGenerationExhausted() {
	calls := 0
	s.mockRepo.UserIDExistsFn = func(ctx context.Context, userID string) (bool, error) {
		calls++
		return true, nil
	}
	s.mockRepo.On("FindUserByEmail", mock.Anything, "alice@example.com").Return(nil, apperrors.ErrNotFound).Once()
	service := services.NewAuthService(s.mockRepo, s.codec, services.WithIDGenerator(func() string { return "0000000001" }))

	_, err := service.Register(s.ctx, validRegisterRequest(), domain.RequestMeta{})

	s.Equal(apperrors.KindSystem, apperrors.KindOf(err))
	s.Equal(utils.DefaultIDAttempts, calls)
	s.mockRepo.AssertNotCalled(s.T(), "CreateUser", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestRegister_RetriesTakenDisplayID() {
	candidates := []string{"0000000001", "0000000002", "0000000003"}
	next := 0
	generate := func() string {
		id := candidates[next]
		next++
		return id
	}
	s.mockRepo.UserIDExistsFn = func(ctx context.Context, userID string) (bool, error) { return false, nil }
	s.mockRepo.DisplayIDExistsFn = func(ctx context.Context, displayID string) (bool, error) {
		return displayID == "0000000002", nil
	}
	s.mockRepo.On("FindUserByEmail", mock.Anything, "alice@example.com").Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepo.CreateUserFn = func(ctx context.Context, user domain.User) (*domain.User, error) { return &user, nil }
	service := services.NewAuthService(s.mockRepo, s.codec, services.WithIDGenerator(generate))

	created, err := service.Register(s.ctx, validRegisterRequest(), domain.RequestMeta{})

	s.Require().NoError(err)
	s.Equal("0000000001", created.UserID)
	s.Equal("0000000003", created.DisplayID)
}

// --- Login ---

func (s *AuthServiceTestSuite) TestLogin_Success() {
	s.mockRepo.On("FindUserByEmail", mock.Anything, "alice@example.com").Return(s.storedUser(), nil).Once()
	var update domain.SessionUpdate
	s.mockRepo.UpdateSessionTokensFn = func(ctx context.Context, u domain.SessionUpdate) error {
		update = u
		return nil
	}

	pair, err := s.service.Login(s.ctx, dto.LoginRequest{Email: " ALICE@example.com ", Password: testPassword})

	s.Require().NoError(err)
	s.Equal(domain.BearerTokenType, pair.TokenType)
	s.Equal("0000000042", pair.UserID)
	s.Equal("alice", pair.Nickname)
	s.Equal(s.now.Add(30*time.Minute).UnixMilli(), pair.ExpiresAtMs)

	s.Equal("0000000042", update.UserID)
	s.Nil(update.ExpectedRefreshToken)
	s.True(utils.MatchesFingerprint(pair.AccessToken, update.AccessToken))
	s.True(utils.MatchesFingerprint(pair.RefreshToken, update.RefreshToken))
	s.Equal(s.now, update.ModifiedAt)

	claims, err := s.codec.Decode(pair.AccessToken)
	s.Require().NoError(err)
	s.Equal(domain.TokenTypeAccess, claims.Type)
}

func (s *AuthServiceTestSuite) TestLogin_EmailNotRegistered() {
	s.mockRepo.On("FindUserByEmail", mock.Anything, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	pair, err := s.service.Login(s.ctx, dto.LoginRequest{Email: "nobody@example.com", Password: testPassword})

	s.Nil(pair)
	s.Equal(apperrors.CodeEmailNotRegistered, apperrors.CodeOf(err))
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	s.mockRepo.On("FindUserByEmail", mock.Anything, "alice@example.com").Return(s.storedUser(), nil).Once()

	pair, err := s.service.Login(s.ctx, dto.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})

	s.Nil(pair)
	s.Equal(apperrors.CodeInvalidCredentials, apperrors.CodeOf(err))
	s.Equal(apperrors.KindAuth, apperrors.KindOf(err))
	s.mockRepo.AssertNotCalled(s.T(), "UpdateSessionTokens", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_PersistFailure() {
	s.mockRepo.On("FindUserByEmail", mock.Anything, "alice@example.com").Return(s.storedUser(), nil).Once()
	s.mockRepo.On("UpdateSessionTokens", mock.Anything, mock.Anything).Return(errors.New("write timeout")).Once()

	pair, err := s.service.Login(s.ctx, dto.LoginRequest{Email: "alice@example.com", Password: testPassword})

	s.Nil(pair)
	s.Equal(apperrors.KindSystem, apperrors.KindOf(err))
}

// --- Logout ---

func (s *AuthServiceTestSuite) TestLogout_ClearsSession() {
	s.mockRepo.On("UpdateSessionTokens", mock.Anything, mock.MatchedBy(func(u domain.SessionUpdate) bool {
		return u.UserID == "0000000042" && u.AccessToken == nil && u.RefreshToken == nil && u.ModifiedBy == "0000000042"
	})).Return(nil).Once()

	err := s.service.Logout(s.ctx, domain.TokenClaims{UserID: "0000000042", Type: domain.TokenTypeAccess})

	s.NoError(err)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogout_PersistFailure() {
	s.mockRepo.On("UpdateSessionTokens", mock.Anything, mock.Anything).Return(errors.New("write timeout")).Once()

	err := s.service.Logout(s.ctx, domain.TokenClaims{UserID: "0000000042"})

	s.Equal(apperrors.KindSystem, apperrors.KindOf(err))
}

// --- RefreshToken ---

func (s *AuthServiceTestSuite) TestRefreshToken_Success() {
	user := s.storedUser()
	pair, err := s.codec.CreatePair(user.Identity())
	s.Require().NoError(err)
	stored := utils.FingerprintToken(pair.RefreshToken)
	user.RefreshToken = &stored

	s.mockRepo.On("FindUserByID", mock.Anything, user.UserID).Return(user, nil).Once()
	var update domain.SessionUpdate
	s.mockRepo.UpdateSessionTokensFn = func(ctx context.Context, u domain.SessionUpdate) error {
		update = u
		return nil
	}

	newPair, err := s.service.RefreshToken(s.ctx, pair.RefreshToken)

	s.Require().NoError(err)
	s.NotEqual(pair.RefreshToken, newPair.RefreshToken)
	s.Require().NotNil(update.ExpectedRefreshToken)
	s.Equal(stored, *update.ExpectedRefreshToken)
	s.True(utils.MatchesFingerprint(newPair.RefreshToken, update.RefreshToken))
}

func (s *AuthServiceTestSuite) TestRefreshToken_RejectsAccessToken() {
	pair, err := s.codec.CreatePair(s.storedUser().Identity())
	s.Require().NoError(err)

	_, err = s.service.RefreshToken(s.ctx, pair.AccessToken)

	s.Equal(apperrors.CodeTokenInvalid, apperrors.CodeOf(err))
	s.mockRepo.AssertNotCalled(s.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestRefreshToken_RejectsSupersededToken() {
	user := s.storedUser()
	oldPair, err := s.codec.CreatePair(user.Identity())
	s.Require().NoError(err)
	livePair, err := s.codec.CreatePair(user.Identity())
	s.Require().NoError(err)
	live := utils.FingerprintToken(livePair.RefreshToken)
	user.RefreshToken = &live

	s.mockRepo.On("FindUserByID", mock.Anything, user.UserID).Return(user, nil).Once()

	_, err = s.service.RefreshToken(s.ctx, oldPair.RefreshToken)

	s.Equal(apperrors.CodeTokenInvalid, apperrors.CodeOf(err))
	s.mockRepo.AssertNotCalled(s.T(), "UpdateSessionTokens", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestRefreshToken_LosesConcurrentRotation() {
	user := s.storedUser()
	pair, err := s.codec.CreatePair(user.Identity())
	s.Require().NoError(err)
	stored := utils.FingerprintToken(pair.RefreshToken)
	user.RefreshToken = &stored

	s.mockRepo.On("FindUserByID", mock.Anything, user.UserID).Return(user, nil).Once()
	s.mockRepo.On("UpdateSessionTokens", mock.Anything, mock.Anything).Return(apperrors.ErrNotFound).Once()

	_, err = s.service.RefreshToken(s.ctx, pair.RefreshToken)

	s.Equal(apperrors.CodeTokenInvalid, apperrors.CodeOf(err))
}

func (s *AuthServiceTestSuite) TestRefreshToken_Garbage() {
	_, err := s.service.RefreshToken(s.ctx, "not-a-jwt")

	s.Equal(apperrors.CodeTokenInvalid, apperrors.CodeOf(err))
}

// --- VerifyAccessToken ---

func (s *AuthServiceTestSuite) TestVerifyAccessToken() {
	user := s.storedUser()
	pair, err := s.codec.CreatePair(user.Identity())
	s.Require().NoError(err)
	access := utils.FingerprintToken(pair.AccessToken)
	user.AccessToken = &access

	s.Run("live token", func() {
		s.mockRepo.On("FindUserByID", mock.Anything, user.UserID).Return(user, nil).Once()
		claims, err := s.service.VerifyAccessToken(s.ctx, pair.AccessToken)
		s.Require().NoError(err)
		s.Equal(user.UserID, claims.UserID)
		s.Equal("alice", claims.Nickname)
	})

	s.Run("refresh token used as access token", func() {
		_, err := s.service.VerifyAccessToken(s.ctx, pair.RefreshToken)
		s.Equal(apperrors.CodeTokenTypeError, apperrors.CodeOf(err))
	})

	s.Run("logged out user", func() {
		loggedOut := *user
		loggedOut.AccessToken = nil
		s.mockRepo.On("FindUserByID", mock.Anything, user.UserID).Return(&loggedOut, nil).Once()
		_, err := s.service.VerifyAccessToken(s.ctx, pair.AccessToken)
		s.Equal(apperrors.CodeTokenInvalid, apperrors.CodeOf(err))
	})

	s.Run("unknown user", func() {
		s.mockRepo.On("FindUserByID", mock.Anything, user.UserID).Return(nil, apperrors.ErrNotFound).Once()
		_, err := s.service.VerifyAccessToken(s.ctx, pair.AccessToken)
		s.Equal(apperrors.CodeTokenInvalid, apperrors.CodeOf(err))
	})

	s.Run("expired token", func() {
		s.now = s.now.Add(31 * time.Minute)
		_, err := s.service.VerifyAccessToken(s.ctx, pair.AccessToken)
		s.Equal(apperrors.CodeTokenExpired, apperrors.CodeOf(err))
		assert.Equal(s.T(), apperrors.KindAuth, apperrors.KindOf(err))
	})
}
