package httpapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bnema/fyp-cli/internal/domain"
)

// AccessClaims are the claims the backend puts in access tokens.
type AccessClaims struct {
	TokenType string `json:"token_type,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type TokenInfo struct {
	Subject   domain.UserID
	Email     string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ParseAccessTokenClaims reads the claims of an access token without verifying its signature.
// The result is for display only and must never be used for authorization decisions.
func ParseAccessTokenClaims(token string) (TokenInfo, error) {
	if token == "" {
		return TokenInfo{}, errors.New("access token is empty")
	}

	claims := &AccessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("parse access token: %w", err)
	}

	info := TokenInfo{
		Subject: domain.UserID(claims.Subject),
		Email:   claims.Email,
		Role:    domain.Role(claims.Role),
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
