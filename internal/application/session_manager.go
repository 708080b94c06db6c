package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bnema/fyp-cli/internal/domain"
	"github.com/bnema/fyp-cli/internal/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// AccessTokenLifetime is the access token lifetime agreed with the backend.
	AccessTokenLifetime = 15 * time.Minute
	// RefreshLeadTime is how long before expiry the scheduled refresh runs.
	RefreshLeadTime = 2 * time.Minute

	refreshTimeout = 30 * time.Second

	SessionTokensKey   = "fyp/session/tokens"
	SessionUserKey     = "fyp/session/user"
	SessionIssuedAtKey = "fyp/session/issued_at"

	ForgotPasswordMessage = "If the email exists, a password reset link has been sent."
)

type SessionState struct {
	User            *domain.User
	Credentials     *domain.CredentialPair
	ExpiresAt       time.Time
	RefreshAt       time.Time
	IssuedAt        time.Time
	LastActivity    time.Time
	IsAuthenticated bool
	IsLoading       bool
	Err             error
}

// SessionManager owns the authenticated identity, the credential pair and the refresh timer.
// user and credentials are always both set or both nil.
type SessionManager struct {
	backend   ports.AuthBackend
	store     ports.SecretStore
	clock     ports.Clock
	scheduler ports.Scheduler
	logger    *zap.Logger

	refreshes singleflight.Group
	listeners listeners[SessionState]

	mu           sync.Mutex
	user         *domain.User
	credentials  *domain.CredentialPair
	expiresAt    time.Time
	issuedAt     time.Time
	lastActivity time.Time
	loading      bool
	err          error

	timer     ports.Timer
	timerGen  uint64
	refreshAt time.Time
}

var _ ports.AccessTokenSource = (*SessionManager)(nil)

func NewSessionManager(backend ports.AuthBackend, store ports.SecretStore, clock ports.Clock, scheduler ports.Scheduler, logger *zap.Logger) *SessionManager {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if scheduler == nil {
		scheduler = ports.SystemScheduler{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SessionManager{
		backend:   backend,
		store:     store,
		clock:     clock,
		scheduler: scheduler,
		logger:    logger.Named("session"),
	}
}

// Initialize restores a persisted session. The expiry is assumed to be a full token lifetime from now.
func (s *SessionManager) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	credentials, ok := s.loadCredentials(ctx)
	if !ok {
		return nil
	}
	user, ok := s.loadUser(ctx)
	if !ok {
		return nil
	}
	issuedAt := s.loadIssuedAt(ctx)

	now := s.clock.Now()
	s.mu.Lock()
	s.user = &user
	s.credentials = &credentials
	s.expiresAt = now.Add(AccessTokenLifetime)
	s.issuedAt = issuedAt
	s.lastActivity = now
	s.armRefreshLocked(now)
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("session restored", zap.String("user_id", string(user.ID)), zap.Time("expires_at", state.ExpiresAt))
	s.listeners.notify(state)
	return nil
}

func (s *SessionManager) Authenticate(ctx context.Context, email, password string, rememberMe bool) (state SessionState, err error) {
	s.begin()
	defer func() { state = s.end(err) }()

	result, err := s.backend.Login(ctx, domain.LoginRequest{
		Email:      strings.TrimSpace(email),
		Password:   password,
		RememberMe: rememberMe,
	})
	if err != nil {
		return SessionState{}, classify(err)
	}
	if err := validateAuthResult(result); err != nil {
		return SessionState{}, err
	}

	now := s.clock.Now()
	s.mu.Lock()
	s.setSessionLocked(result, now)
	s.expiresAt = now.Add(AccessTokenLifetime)
	s.armRefreshLocked(now)
	s.mu.Unlock()

	s.persist(ctx, result.User, result.Credentials, now)
	s.logger.Info("authenticated", zap.String("user_id", string(result.User.ID)), zap.Bool("remember_me", rememberMe))
	return SessionState{}, nil
}

// Register creates an account and stores the returned session. It does not set an expiry or arm the
// refresh timer; the next Initialize does.
func (s *SessionManager) Register(ctx context.Context, registration domain.Registration) (state SessionState, err error) {
	s.begin()
	defer func() { state = s.end(err) }()

	if err := registration.Validate(); err != nil {
		return SessionState{}, invalidRequest(err)
	}

	result, err := s.backend.Register(ctx, registration)
	if err != nil {
		return SessionState{}, classify(err)
	}
	if err := validateAuthResult(result); err != nil {
		return SessionState{}, err
	}

	now := s.clock.Now()
	s.mu.Lock()
	s.cancelRefreshLocked()
	s.setSessionLocked(result, now)
	s.expiresAt = time.Time{}
	s.mu.Unlock()

	s.persist(ctx, result.User, result.Credentials, now)
	s.logger.Info("registered", zap.String("user_id", string(result.User.ID)))
	return SessionState{}, nil
}

// Logout invalidates the refresh token on the backend when possible and always clears local state.
func (s *SessionManager) Logout(ctx context.Context) {
	s.begin()
	defer s.end(nil)

	s.mu.Lock()
	refreshToken := ""
	if s.credentials != nil {
		refreshToken = s.credentials.RefreshToken
	}
	s.mu.Unlock()

	if refreshToken != "" {
		if err := s.backend.Logout(ctx, refreshToken); err != nil {
			s.logger.Warn("backend logout failed, clearing local session", zap.Error(err))
		}
	}

	s.clear(ctx)
}

func (s *SessionManager) LogoutFromAllDevices(ctx context.Context) {
	s.begin()
	defer s.end(nil)

	accessToken := s.AccessToken()
	if accessToken != "" {
		if err := s.backend.LogoutAllDevices(ctx, accessToken); err != nil {
			s.logger.Warn("backend logout from all devices failed, clearing local session", zap.Error(err))
		}
	}

	s.clear(ctx)
}

// Refresh renews the credential pair. Concurrent callers share a single backend call, which is
// detached from any one caller's cancellation and bounded by refreshTimeout. A caller whose ctx ends
// first gets ctx.Err() while the shared call completes.
// A backend failure clears the session and returns an error matching domain.ErrSessionExpired, unless
// the session was replaced while the call was in flight.
func (s *SessionManager) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}

	shared := context.WithoutCancel(ctx)
	results := s.refreshes.DoChan("refresh", func() (any, error) {
		callCtx, cancel := context.WithTimeout(shared, refreshTimeout)
		defer cancel()
		return nil, s.refresh(callCtx)
	})

	select {
	case <-ctx.Done():
		return fmt.Errorf("refresh session: %w", ctx.Err())
	case result := <-results:
		return result.Err
	}
}

func (s *SessionManager) refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.credentials == nil || s.credentials.RefreshToken == "" {
		err := fmt.Errorf("refresh session: %w", domain.ErrUnauthenticated)
		s.err = err
		state := s.snapshotLocked()
		s.mu.Unlock()
		s.listeners.notify(state)
		return err
	}
	refreshToken := s.credentials.RefreshToken
	s.mu.Unlock()

	pair, err := s.backend.Refresh(ctx, refreshToken)
	if err == nil && pair.AccessToken == "" {
		err = &domain.APIError{Kind: domain.ErrNetworkOrUnknown, Message: "refresh response missing access token"}
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("refresh session: %w", err)
		}
		expired := fmt.Errorf("%w: %w", domain.ErrSessionExpired, classify(err))
		s.mu.Lock()
		if s.credentials == nil || s.credentials.RefreshToken != refreshToken {
			s.mu.Unlock()
			s.logger.Debug("refresh for a replaced session failed", zap.Error(err))
			return fmt.Errorf("refresh session: session changed during refresh: %w: %w", domain.ErrUnauthenticated, classify(err))
		}
		s.clearLocked()
		s.err = expired
		state := s.snapshotLocked()
		s.mu.Unlock()

		s.removePersisted(ctx)
		s.logger.Warn("session refresh failed, session cleared", zap.Error(err))
		s.listeners.notify(state)
		return expired
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}

	now := s.clock.Now()
	s.mu.Lock()
	if s.credentials == nil || s.credentials.RefreshToken != refreshToken {
		s.mu.Unlock()
		return fmt.Errorf("refresh session: session changed during refresh: %w", domain.ErrUnauthenticated)
	}
	s.credentials = &pair
	s.expiresAt = now.Add(AccessTokenLifetime)
	s.issuedAt = now
	s.err = nil
	s.armRefreshLocked(now)
	user := *s.user
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, user, pair, now)
	s.logger.Debug("session refreshed", zap.Time("expires_at", state.ExpiresAt), zap.Bool("rotated", pair.RefreshToken != refreshToken))
	s.listeners.notify(state)
	return nil
}

func (s *SessionManager) VerifyEmail(ctx context.Context, token string) (message string, err error) {
	s.begin()
	defer func() { s.end(err) }()

	if strings.TrimSpace(token) == "" {
		return "", invalidRequest(errors.New("verification token is required"))
	}

	message, err = s.backend.VerifyEmail(ctx, token)
	if err != nil {
		return "", classify(err)
	}

	s.mu.Lock()
	var verified *domain.User
	if s.user != nil {
		s.user.EmailVerified = true
		copied := *s.user
		verified = &copied
	}
	s.mu.Unlock()

	if verified != nil {
		s.persistUser(ctx, *verified)
	}
	return message, nil
}

// ForgotPassword never reveals whether the email belongs to an account.
func (s *SessionManager) ForgotPassword(ctx context.Context, email string) (message string, err error) {
	s.begin()
	defer func() { s.end(err) }()

	if strings.TrimSpace(email) == "" {
		return "", invalidRequest(errors.New("email is required"))
	}

	if _, err := s.backend.ForgotPassword(ctx, strings.TrimSpace(email)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ForgotPasswordMessage, nil
		}
		return "", classify(err)
	}

	return ForgotPasswordMessage, nil
}

func (s *SessionManager) ResetPassword(ctx context.Context, reset domain.PasswordReset) (message string, err error) {
	s.begin()
	defer func() { s.end(err) }()

	if err := reset.Validate(); err != nil {
		return "", invalidRequest(err)
	}

	message, err = s.backend.ResetPassword(ctx, reset)
	if err != nil {
		return "", classify(err)
	}
	return message, nil
}

func (s *SessionManager) ResendEmailVerification(ctx context.Context, email string) (message string, err error) {
	s.begin()
	defer func() { s.end(err) }()

	if strings.TrimSpace(email) == "" {
		return "", invalidRequest(errors.New("email is required"))
	}

	message, err = s.backend.ResendEmailVerification(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", classify(err)
	}
	return message, nil
}

func (s *SessionManager) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive every state change. The returned func unsubscribes.
func (s *SessionManager) Subscribe(fn func(SessionState)) func() {
	return s.listeners.add(fn)
}

func (s *SessionManager) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.credentials == nil {
		return ""
	}
	return s.credentials.AccessToken
}

func (s *SessionManager) TouchActivity() {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	s.lastActivity = s.clock.Now()
	state := s.snapshotLocked()
	s.mu.Unlock()
	s.listeners.notify(state)
}

// IsExpired reports whether the assumed access token expiry has passed.
func (s *SessionManager) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.credentials == nil || s.expiresAt.IsZero() {
		return false
	}
	return !s.clock.Now().Before(s.expiresAt)
}

func (s *SessionManager) PendingRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Close cancels the pending refresh without touching the session.
func (s *SessionManager) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelRefreshLocked()
}

func (s *SessionManager) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	state := s.snapshotLocked()
	s.mu.Unlock()
	s.listeners.notify(state)
}

func (s *SessionManager) end(err error) SessionState {
	s.mu.Lock()
	s.loading = false
	s.err = err
	state := s.snapshotLocked()
	s.mu.Unlock()
	s.listeners.notify(state)
	return state
}

func (s *SessionManager) setSessionLocked(result domain.AuthResult, now time.Time) {
	user := result.User
	credentials := result.Credentials
	s.user = &user
	s.credentials = &credentials
	s.issuedAt = now
	s.lastActivity = now
}

func (s *SessionManager) clear(ctx context.Context) {
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()

	s.removePersisted(ctx)
}

func (s *SessionManager) clearLocked() {
	s.cancelRefreshLocked()
	s.user = nil
	s.credentials = nil
	s.expiresAt = time.Time{}
	s.issuedAt = time.Time{}
}

func (s *SessionManager) armRefreshLocked(now time.Time) {
	s.cancelRefreshLocked()

	delay := s.expiresAt.Sub(now) - RefreshLeadTime
	if delay <= 0 {
		s.logger.Debug("refresh not scheduled, expiry too close", zap.Time("expires_at", s.expiresAt))
		return
	}

	gen := s.timerGen
	s.refreshAt = now.Add(delay)
	s.timer = s.scheduler.AfterFunc(delay, func() {
		s.runScheduledRefresh(gen)
	})
}

func (s *SessionManager) cancelRefreshLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.refreshAt = time.Time{}
	// Callbacks carrying an older generation are ignored when they fire.
	s.timerGen++
}

func (s *SessionManager) runScheduledRefresh(gen uint64) {
	s.mu.Lock()
	if gen != s.timerGen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.refreshAt = time.Time{}
	s.mu.Unlock()

	if err := s.Refresh(context.Background()); err != nil {
		s.logger.Warn("scheduled refresh failed", zap.Error(err))
	}
}

func (s *SessionManager) snapshotLocked() SessionState {
	state := SessionState{
		ExpiresAt:       s.expiresAt,
		RefreshAt:       s.refreshAt,
		IssuedAt:        s.issuedAt,
		LastActivity:    s.lastActivity,
		IsAuthenticated: s.user != nil && s.credentials != nil,
		IsLoading:       s.loading,
		Err:             s.err,
	}
	if s.user != nil {
		user := *s.user
		state.User = &user
	}
	if s.credentials != nil {
		credentials := *s.credentials
		state.Credentials = &credentials
	}
	return state
}

func validateAuthResult(result domain.AuthResult) error {
	if strings.TrimSpace(string(result.User.ID)) == "" {
		return &domain.APIError{Kind: domain.ErrNetworkOrUnknown, Message: "authentication response missing user"}
	}
	if result.Credentials.AccessToken == "" || result.Credentials.RefreshToken == "" {
		return &domain.APIError{Kind: domain.ErrNetworkOrUnknown, Message: "authentication response missing tokens"}
	}
	return nil
}

func (s *SessionManager) persist(ctx context.Context, user domain.User, credentials domain.CredentialPair, issuedAt time.Time) {
	if s.store == nil {
		return
	}

	encoded, err := json.Marshal(credentials)
	if err != nil {
		s.logger.Warn("encode credentials", zap.Error(err))
		return
	}
	if err := s.store.Put(ctx, SessionTokensKey, string(encoded)); err != nil {
		s.logger.Warn("persist credentials", zap.Error(err))
	}
	s.persistUser(ctx, user)
	if err := s.store.Put(ctx, SessionIssuedAtKey, issuedAt.UTC().Format(time.RFC3339)); err != nil {
		s.logger.Warn("persist token issue time", zap.Error(err))
	}
}

func (s *SessionManager) persistUser(ctx context.Context, user domain.User) {
	if s.store == nil {
		return
	}

	encoded, err := json.Marshal(user)
	if err != nil {
		s.logger.Warn("encode session user", zap.Error(err))
		return
	}
	if err := s.store.Put(ctx, SessionUserKey, string(encoded)); err != nil {
		s.logger.Warn("persist session user", zap.Error(err))
	}
}

func (s *SessionManager) removePersisted(ctx context.Context) {
	if s.store == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	for _, key := range []string{SessionTokensKey, SessionUserKey, SessionIssuedAtKey} {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("remove persisted session entry", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *SessionManager) loadCredentials(ctx context.Context) (domain.CredentialPair, bool) {
	raw, ok := s.loadKey(ctx, SessionTokensKey)
	if !ok {
		return domain.CredentialPair{}, false
	}

	var credentials domain.CredentialPair
	if err := json.Unmarshal([]byte(raw), &credentials); err != nil {
		s.logger.Warn("decode persisted credentials", zap.Error(err))
		return domain.CredentialPair{}, false
	}
	if credentials.AccessToken == "" || credentials.RefreshToken == "" {
		return domain.CredentialPair{}, false
	}
	return credentials, true
}

func (s *SessionManager) loadUser(ctx context.Context) (domain.User, bool) {
	raw, ok := s.loadKey(ctx, SessionUserKey)
	if !ok {
		return domain.User{}, false
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("decode persisted user", zap.Error(err))
		return domain.User{}, false
	}
	if strings.TrimSpace(string(user.ID)) == "" {
		return domain.User{}, false
	}
	return user, true
}

func (s *SessionManager) loadIssuedAt(ctx context.Context) time.Time {
	raw, ok := s.loadKey(ctx, SessionIssuedAtKey)
	if !ok {
		return time.Time{}
	}

	issuedAt, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return issuedAt
}

func (s *SessionManager) loadKey(ctx context.Context, key string) (string, bool) {
	if s.store == nil {
		return "", false
	}

	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrSecretNotFound) {
			s.logger.Warn("read persisted session entry", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	return raw, true
}
