package fakeapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bnema/fyp-cli/internal/adapters/httpapi"
	"github.com/bnema/fyp-cli/internal/domain"
)

type userKey struct{}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body httpapi.LoginBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[strings.ToLower(strings.TrimSpace(body.Email))]
	if !ok || acc.password != body.Password {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}
	data, err := s.issueLocked(acc.user, true)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	writeData(w, http.StatusOK, "Login successful", data)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body httpapi.RegisterBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if email == "" || body.Password == "" || strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "email, password and name are required")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email already registered")
		return
	}
	role := domain.Role(body.Role)
	if role == "" {
		role = domain.RoleStudent
	}
	user := domain.User{
		ID:    domain.UserID(uuid.NewString()),
		Email: email,
		Name:  strings.TrimSpace(body.Name),
		Role:  role,
	}
	s.accounts[email] = &account{user: user, password: body.Password}
	data, err := s.issueLocked(user, true)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	writeData(w, http.StatusCreated, "Registration successful", data)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	var body httpapi.RefreshBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}

	s.mu.Lock()
	delete(s.refreshTokens, body.RefreshToken)
	s.mu.Unlock()

	writeData(w, http.StatusOK, "Logged out", nil)
}

func (s *Server) logoutAll(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(userKey{}).(domain.UserID)

	s.mu.Lock()
	for token, owner := range s.refreshTokens {
		if owner == userID {
			delete(s.refreshTokens, token)
		}
	}
	s.mu.Unlock()

	writeData(w, http.StatusOK, "Logged out from all devices", nil)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var body httpapi.RefreshBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}

	s.mu.Lock()
	userID, ok := s.refreshTokens[body.RefreshToken]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Refresh token is invalid or expired")
		return
	}
	user, found := s.userByIDLocked(userID)
	if !found {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Refresh token is invalid or expired")
		return
	}
	if s.rotate {
		delete(s.refreshTokens, body.RefreshToken)
	}
	data, err := s.issueLocked(user, s.rotate)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	data.User = nil

	writeData(w, http.StatusOK, "Token refreshed", data)
}

func (s *Server) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var body httpapi.TokenBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}

	s.mu.Lock()
	email, ok := s.verifyTokens[body.Token]
	if ok {
		delete(s.verifyTokens, body.Token)
		if acc, exists := s.accounts[email]; exists {
			acc.user.EmailVerified = true
		}
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_TOKEN", "Verification link is invalid or expired")
		return
	}

	writeData(w, http.StatusOK, "Email verified successfully", nil)
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var body httpapi.EmailBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))
	s.mu.Lock()
	_, ok := s.accounts[email]
	if ok {
		s.resetTokens[uuid.NewString()] = email
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "No account with that email")
		return
	}

	writeData(w, http.StatusOK, "Password reset email sent to "+email, nil)
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var body httpapi.ResetPasswordBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if body.NewPassword == "" || body.NewPassword != body.ConfirmPassword {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Passwords do not match")
		return
	}

	s.mu.Lock()
	email, ok := s.resetTokens[body.Token]
	if ok {
		delete(s.resetTokens, body.Token)
		if acc, exists := s.accounts[email]; exists {
			acc.password = body.NewPassword
		}
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_TOKEN", "Reset link is invalid or expired")
		return
	}

	writeData(w, http.StatusOK, "Password has been reset", nil)
}

func (s *Server) resendVerification(w http.ResponseWriter, r *http.Request) {
	var body httpapi.EmailBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))
	s.mu.Lock()
	acc, ok := s.accounts[email]
	if ok && !acc.user.EmailVerified {
		s.verifyTokens[uuid.NewString()] = email
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "No account with that email")
		return
	}

	writeData(w, http.StatusOK, "Verification email sent", nil)
}

// requireAuth rejects requests without a valid access token and stores the subject in the context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			return
		}

		claims, err := s.parseAccessToken(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid access token")
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, domain.UserID(claims.Subject))
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) issueLocked(user domain.User, withRefresh bool) (httpapi.AuthData, error) {
	now := s.now()
	claims := httpapi.AccessClaims{
		TokenType: "access",
		Email:     user.Email,
		Role:      string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
			ID:        uuid.NewString(),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return httpapi.AuthData{}, err
	}

	data := httpapi.AuthData{AccessToken: access}
	copied := user
	data.User = &copied
	if withRefresh {
		data.RefreshToken = uuid.NewString()
		s.refreshTokens[data.RefreshToken] = user.ID
	}
	return data, nil
}

func (s *Server) parseAccessToken(raw string) (*httpapi.AccessClaims, error) {
	claims := &httpapi.AccessClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing algorithm")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.TokenType != "access" {
		return nil, errors.New("invalid access token")
	}
	return claims, nil
}

func (s *Server) userByIDLocked(id domain.UserID) (domain.User, bool) {
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			return acc.user, true
		}
	}
	return domain.User{}, false
}
