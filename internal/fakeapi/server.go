// Package fakeapi is an in-process FYP backend used by adapter and command tests.
package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/bnema/fyp-cli/internal/domain"
)

const AccessTokenTTL = 15 * time.Minute

type account struct {
	user     domain.User
	password string
}

type failure struct {
	status  int
	message string
}

type Server struct {
	mu sync.Mutex

	secret []byte
	now    func() time.Time
	router chi.Router

	accounts      map[string]*account
	refreshTokens map[string]domain.UserID
	verifyTokens  map[string]string
	resetTokens   map[string]string
	projects      []domain.Project
	bookmarks     map[domain.UserID]map[domain.ProjectID]bool
	views         map[domain.ProjectID]int

	failures map[string][]failure
	calls    map[string]int
	rotate   bool
}

type Option func(*Server)

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = []byte(secret) }
}

// WithoutRotation makes refresh responses omit the refresh token.
func WithoutRotation() Option {
	return func(s *Server) { s.rotate = false }
}

func New(opts ...Option) *Server {
	s := &Server{
		secret:        []byte("fakeapi-" + uuid.NewString()),
		now:           time.Now,
		accounts:      map[string]*account{},
		refreshTokens: map[string]domain.UserID{},
		verifyTokens:  map[string]string{},
		resetTokens:   map[string]string{},
		bookmarks:     map[domain.UserID]map[domain.ProjectID]bool{},
		views:         map[domain.ProjectID]int{},
		failures:      map[string][]failure{},
		calls:         map[string]int{},
		rotate:        true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	s.handle(r, http.MethodPost, "/auth/login", s.login)
	s.handle(r, http.MethodPost, "/auth/register", s.register)
	s.handle(r, http.MethodPost, "/auth/logout", s.logout)
	s.handle(r, http.MethodPost, "/auth/logout-all", s.requireAuth(s.logoutAll))
	s.handle(r, http.MethodPost, "/auth/refresh", s.refresh)
	s.handle(r, http.MethodPost, "/auth/verify-email", s.verifyEmail)
	s.handle(r, http.MethodPost, "/auth/forgot-password", s.forgotPassword)
	s.handle(r, http.MethodPost, "/auth/reset-password", s.resetPassword)
	s.handle(r, http.MethodPost, "/auth/resend-verification", s.resendVerification)

	s.handle(r, http.MethodGet, "/projects", s.searchProjects)
	s.handle(r, http.MethodGet, "/projects/popular", s.popularProjects)
	s.handle(r, http.MethodGet, "/projects/{id}", s.getProject)
	s.handle(r, http.MethodGet, "/projects/{id}/related", s.relatedProjects)
	s.handle(r, http.MethodPost, "/projects/{id}/bookmark", s.requireAuth(s.bookmark))
	s.handle(r, http.MethodDelete, "/projects/{id}/bookmark", s.requireAuth(s.unbookmark))

	return r
}

// handle registers h and wraps it with call counting and queued failure injection.
func (s *Server) handle(r chi.Router, method, pattern string, h http.HandlerFunc) {
	key := method + " " + pattern
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		s.calls[key]++
		var injected *failure
		if queue := s.failures[key]; len(queue) > 0 {
			injected = &queue[0]
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()

		if injected != nil {
			writeError(w, injected.status, http.StatusText(injected.status), injected.message)
			return
		}
		h(w, req)
	}))
}

// FailNext makes the next call to route ("POST /auth/refresh") answer with status and message.
func (s *Server) FailNext(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], failure{status: status, message: message})
}

func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

func (s *Server) AddUser(user domain.User, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = domain.UserID(uuid.NewString())
	}
	if user.Role == "" {
		user.Role = domain.RoleStudent
	}
	s.accounts[strings.ToLower(user.Email)] = &account{user: user, password: password}
}

func (s *Server) AddProjects(projects ...domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append(s.projects, projects...)
}

// User returns the stored account for email.
func (s *Server) User(email string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[strings.ToLower(email)]
	if !ok {
		return domain.User{}, false
	}
	return acc.user, true
}

func (s *Server) Bookmarks(userID domain.UserID) []domain.ProjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []domain.ProjectID
	for _, project := range s.projects {
		if s.bookmarks[userID][project.ID] {
			ids = append(ids, project.ID)
		}
	}
	return ids
}

// IssueVerificationToken returns a token accepted by /auth/verify-email for email.
func (s *Server) IssueVerificationToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.verifyTokens[token] = strings.ToLower(email)
	return token
}

// IssueResetToken returns a token accepted by /auth/reset-password for email.
func (s *Server) IssueResetToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.resetTokens[token] = strings.ToLower(email)
	return token
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
