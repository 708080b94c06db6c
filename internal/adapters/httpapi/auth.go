package httpapi

import (
	"context"
	"net/http"

	"github.com/bnema/fyp-cli/internal/domain"
)

const (
	loginPath              = "/auth/login"
	registerPath           = "/auth/register"
	logoutPath             = "/auth/logout"
	logoutAllPath          = "/auth/logout-all"
	refreshPath            = "/auth/refresh"
	verifyEmailPath        = "/auth/verify-email"
	forgotPasswordPath     = "/auth/forgot-password"
	resetPasswordPath      = "/auth/reset-password"
	resendVerificationPath = "/auth/resend-verification"
)

type LoginBody struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me,omitempty"`
}

type RegisterBody struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Role       string `json:"role,omitempty"`
	StudentID  string `json:"student_id,omitempty"`
	Department string `json:"department,omitempty"`
}

type RefreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenBody struct {
	Token string `json:"token"`
}

type EmailBody struct {
	Email string `json:"email"`
}

type ResetPasswordBody struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// AuthData is the data member of login, register and refresh responses.
type AuthData struct {
	User         *domain.User `json:"user,omitempty"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
}

func (c Client) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResult, error) {
	var data AuthData
	if _, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   loginPath,
		body:   LoginBody{Email: req.Email, Password: req.Password, RememberMe: req.RememberMe},
	}, &data); err != nil {
		return domain.AuthResult{}, err
	}
	return data.authResult(), nil
}

func (c Client) Register(ctx context.Context, req domain.Registration) (domain.AuthResult, error) {
	var data AuthData
	if _, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   registerPath,
		body: RegisterBody{
			Email:      req.Email,
			Password:   req.Password,
			Name:       req.Name,
			Role:       string(req.Role),
			StudentID:  req.StudentID,
			Department: req.Department,
		},
	}, &data); err != nil {
		return domain.AuthResult{}, err
	}
	return data.authResult(), nil
}

func (c Client) Logout(ctx context.Context, refreshToken string) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   logoutPath,
		body:   RefreshBody{RefreshToken: refreshToken},
	}, nil)
	return err
}

// LogoutAllDevices authenticates with accessToken rather than the configured token source, since the
// caller may already be clearing its session.
func (c Client) LogoutAllDevices(ctx context.Context, accessToken string) error {
	withToken := c
	withToken.Tokens = staticToken(accessToken)
	_, err := withToken.do(ctx, request{
		method: http.MethodPost,
		path:   logoutAllPath,
		auth:   true,
	}, nil)
	return err
}

func (c Client) Refresh(ctx context.Context, refreshToken string) (domain.CredentialPair, error) {
	var data AuthData
	if _, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   refreshPath,
		body:   RefreshBody{RefreshToken: refreshToken},
	}, &data); err != nil {
		return domain.CredentialPair{}, err
	}
	return domain.CredentialPair{AccessToken: data.AccessToken, RefreshToken: data.RefreshToken}, nil
}

func (c Client) VerifyEmail(ctx context.Context, token string) (string, error) {
	return c.do(ctx, request{method: http.MethodPost, path: verifyEmailPath, body: TokenBody{Token: token}}, nil)
}

func (c Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	return c.do(ctx, request{method: http.MethodPost, path: forgotPasswordPath, body: EmailBody{Email: email}}, nil)
}

func (c Client) ResetPassword(ctx context.Context, req domain.PasswordReset) (string, error) {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   resetPasswordPath,
		body:   ResetPasswordBody{Token: req.Token, NewPassword: req.NewPassword, ConfirmPassword: req.ConfirmPassword},
	}, nil)
}

func (c Client) ResendEmailVerification(ctx context.Context, email string) (string, error) {
	return c.do(ctx, request{method: http.MethodPost, path: resendVerificationPath, body: EmailBody{Email: email}}, nil)
}

func (d AuthData) authResult() domain.AuthResult {
	result := domain.AuthResult{
		Credentials: domain.CredentialPair{AccessToken: d.AccessToken, RefreshToken: d.RefreshToken},
	}
	if d.User != nil {
		result.User = *d.User
	}
	return result
}

type staticToken string

func (t staticToken) AccessToken() string {
	return string(t)
}
