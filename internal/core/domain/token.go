package domain

import "time"

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// BearerTokenType is echoed in every issued pair.
const BearerTokenType = "bearer"

// Identity is what a token asserts about its holder.
type Identity struct {
	UserID   string
	Nickname string
}

// TokenClaims is the decoded payload of a verified token.
type TokenClaims struct {
	UserID    string
	Nickname  string
	Type      TokenType
	ExpiresAt time.Time
}

// IssuedTokenPair is returned by login and refresh.
type IssuedTokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAtMs  int64 // access token expiry, epoch milliseconds
	UserID       string
	Nickname     string
}

// SessionUpdate replaces the stored session pointers of a user.
// Nil token fields clear the session. When ExpectedRefreshToken is set the
// update only applies while the stored refresh pointer still equals it.
type SessionUpdate struct {
	UserID               string
	AccessToken          *string
	RefreshToken         *string
	ExpectedRefreshToken *string
	ModifiedBy           string
	ModifiedAt           time.Time
}
