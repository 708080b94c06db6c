package ports

import (
	"context"

	"github.com/bnema/fyp-cli/internal/domain"
)

// AuthBackend is the remote authentication service. Failures are *domain.APIError values.
type AuthBackend interface {
	Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResult, error)
	Register(ctx context.Context, req domain.Registration) (domain.AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAllDevices(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, refreshToken string) (domain.CredentialPair, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req domain.PasswordReset) (string, error)
	ResendEmailVerification(ctx context.Context, email string) (string, error)
}

type AccessTokenSource interface {
	AccessToken() string
}
