package dto

import "github.com/weqtian/user_center/internal/core/domain"

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type" example:"bearer"`
	ExpiresAtMs  int64  `json:"expires_at_ms"`
	UserID       string `json:"user_id"`
	Nickname     string `json:"nickname"`
}

// ToTokenResponse converts an issued pair to its wire form.
func ToTokenResponse(pair domain.IssuedTokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresAtMs:  pair.ExpiresAtMs,
		UserID:       pair.UserID,
		Nickname:     pair.Nickname,
	}
}
