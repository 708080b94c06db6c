package domain

import (
	"errors"
	"strings"
)

// CredentialPair holds the bearer secrets issued by the backend. Both values are opaque.
type CredentialPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (c CredentialPair) IsZero() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

type AuthResult struct {
	User        User
	Credentials CredentialPair
}

type LoginRequest struct {
	Email      string
	Password   string
	RememberMe bool
}

type Registration struct {
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
	Role            Role
	StudentID       string
	Department      string
}

type PasswordReset struct {
	Token           string
	NewPassword     string
	ConfirmPassword string
}

func (r Registration) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	if r.ConfirmPassword != "" && r.ConfirmPassword != r.Password {
		return errors.New("passwords do not match")
	}
	if r.Role != "" && !r.Role.Valid() {
		return errors.New("unsupported role " + string(r.Role))
	}

	return nil
}

func (r PasswordReset) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return errors.New("reset token is required")
	}
	if r.NewPassword == "" {
		return errors.New("new password is required")
	}
	if r.NewPassword != r.ConfirmPassword {
		return errors.New("passwords do not match")
	}

	return nil
}
