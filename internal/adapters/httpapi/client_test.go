package httpapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bnema/fyp-cli/internal/adapters/httpapi"
	"github.com/bnema/fyp-cli/internal/domain"
	"github.com/bnema/fyp-cli/internal/fakeapi"
)

type tokenFunc func() string

func (f tokenFunc) AccessToken() string { return f() }

func newFakeBackend(t *testing.T, opts ...fakeapi.Option) (*fakeapi.Server, httpapi.Client) {
	t.Helper()

	fake := fakeapi.New(opts...)
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	return fake, httpapi.Client{BaseURL: server.URL, HTTPClient: server.Client()}
}

func TestClientClassifiesErrorStatuses(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		status int
		body   string
		kind   error
		msg    string
	}{
		{status: http.StatusUnauthorized, body: `{"success":false,"error":{"code":"INVALID_CREDENTIALS","message":"Invalid email or password"}}`, kind: domain.ErrInvalidCredentials, msg: "Invalid email or password"},
		{status: http.StatusForbidden, body: `{"success":false,"message":"Email not verified"}`, kind: domain.ErrForbidden, msg: "Email not verified"},
		{status: http.StatusNotFound, body: `{"success":false,"error":{"message":"Project not found"}}`, kind: domain.ErrNotFound, msg: "Project not found"},
		{status: http.StatusConflict, body: `{"success":false,"error":{"message":"Email already registered"}}`, kind: domain.ErrConflict, msg: "Email already registered"},
		{status: http.StatusUnprocessableEntity, body: `{"success":false,"error":{"message":"name is required"}}`, kind: domain.ErrInvalidRequest, msg: "name is required"},
		{status: http.StatusTooManyRequests, body: `{"success":false}`, kind: domain.ErrRateLimited},
		{status: http.StatusBadGateway, body: `<html>bad gateway</html>`, kind: domain.ErrNetworkOrUnknown},
	}

	for _, tc := range testCases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(server.Close)

			client := httpapi.Client{BaseURL: server.URL, HTTPClient: server.Client()}
			_, err := client.GetProject(context.Background(), "p-1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)

			var apiErr *domain.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.msg, apiErr.Message)
		})
	}
}

func TestClientTransportFailureIsNetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := httpapi.Client{BaseURL: baseURL, RequestTimeout: time.Second}
	_, err := client.Login(context.Background(), domain.LoginRequest{Email: "a@uni.edu", Password: "pw"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetworkOrUnknown)
}

func TestClientRejectsSuccessWithoutData(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":null}`))
	}))
	t.Cleanup(server.Close)

	client := httpapi.Client{BaseURL: server.URL, HTTPClient: server.Client()}
	_, err := client.SearchProjects(context.Background(), domain.DefaultSearchFilters())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetworkOrUnknown)
	assert.ErrorContains(t, err, "response missing data")
}

func TestClientSendsHeadersAndLogsRequests(t *testing.T) {
	t.Parallel()

	var got http.Header
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"success":true,"message":"Project bookmarked"}`))
	}))
	t.Cleanup(server.Close)

	core, logs := observer.New(zap.DebugLevel)
	client := httpapi.Client{
		BaseURL:    server.URL + "/api",
		HTTPClient: server.Client(),
		Tokens:     tokenFunc(func() string { return "access-1" }),
		UserAgent:  "fyp/test",
		Logger:     zap.New(core),
	}

	require.NoError(t, client.BookmarkProject(context.Background(), "p-7"))
	assert.Equal(t, "/api/projects/p-7/bookmark", gotPath)
	assert.Equal(t, "Bearer access-1", got.Get("Authorization"))
	assert.Equal(t, "fyp/test", got.Get("User-Agent"))
	assert.NotEmpty(t, got.Get(httpapi.RequestIDHeader))

	entries := logs.FilterMessage("api request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, got.Get(httpapi.RequestIDHeader), entries[0].ContextMap()["request_id"])
	assert.EqualValues(t, http.StatusOK, entries[0].ContextMap()["status"])
}

func TestClientAuthenticatedCallWithoutTokenFailsLocally(t *testing.T) {
	t.Parallel()

	fake, client := newFakeBackend(t)
	client.Tokens = tokenFunc(func() string { return "" })

	err := client.UnbookmarkProject(context.Background(), "p-1")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Zero(t, fake.Calls("DELETE /projects/{id}/bookmark"))
}

func TestClientAuthFlowAgainstFakeBackend(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	fake, client := newFakeBackend(t, fakeapi.WithClock(func() time.Time { return now }))
	fake.AddUser(domain.User{ID: "u-1", Email: "ada@uni.edu", Name: "Ada"}, "s3cret")
	ctx := context.Background()

	_, err := client.Login(ctx, domain.LoginRequest{Email: "ada@uni.edu", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	result, err := client.Login(ctx, domain.LoginRequest{Email: "ada@uni.edu", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u-1"), result.User.ID)
	assert.Equal(t, domain.RoleStudent, result.User.Role)
	require.NotEmpty(t, result.Credentials.AccessToken)
	require.NotEmpty(t, result.Credentials.RefreshToken)

	info, err := httpapi.ParseAccessTokenClaims(result.Credentials.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u-1"), info.Subject)
	assert.Equal(t, "ada@uni.edu", info.Email)
	assert.WithinDuration(t, now.Add(fakeapi.AccessTokenTTL), info.ExpiresAt, 0)

	rotated, err := client.Refresh(ctx, result.Credentials.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEqual(t, result.Credentials.RefreshToken, rotated.RefreshToken)

	_, err = client.Refresh(ctx, result.Credentials.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "rotated refresh tokens are single use")

	require.NoError(t, client.LogoutAllDevices(ctx, rotated.AccessToken))
	_, err = client.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestClientRegisterAndVerify(t *testing.T) {
	t.Parallel()

	fake, client := newFakeBackend(t)
	ctx := context.Background()

	result, err := client.Register(ctx, domain.Registration{Email: "Grace@Uni.edu", Password: "pw", Name: "Grace", Role: domain.RoleSupervisor})
	require.NoError(t, err)
	assert.Equal(t, "grace@uni.edu", result.User.Email)
	assert.Equal(t, domain.RoleSupervisor, result.User.Role)

	_, err = client.Register(ctx, domain.Registration{Email: "grace@uni.edu", Password: "pw", Name: "Grace"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	message, err := client.VerifyEmail(ctx, fake.IssueVerificationToken("grace@uni.edu"))
	require.NoError(t, err)
	assert.Equal(t, "Email verified successfully", message)
	user, ok := fake.User("grace@uni.edu")
	require.True(t, ok)
	assert.True(t, user.EmailVerified)

	_, err = client.VerifyEmail(ctx, "stale")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestClientPasswordReset(t *testing.T) {
	t.Parallel()

	fake, client := newFakeBackend(t)
	fake.AddUser(domain.User{Email: "alan@uni.edu", Name: "Alan"}, "old")
	ctx := context.Background()

	_, err := client.ForgotPassword(ctx, "nobody@uni.edu")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	token := fake.IssueResetToken("alan@uni.edu")
	_, err = client.ResetPassword(ctx, domain.PasswordReset{Token: token, NewPassword: "new", ConfirmPassword: "other"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Equal(t, "Passwords do not match", domain.UserMessage(err))

	_, err = client.ResetPassword(ctx, domain.PasswordReset{Token: token, NewPassword: "new", ConfirmPassword: "new"})
	require.NoError(t, err)

	_, err = client.Login(ctx, domain.LoginRequest{Email: "alan@uni.edu", Password: "old"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = client.Login(ctx, domain.LoginRequest{Email: "alan@uni.edu", Password: "new"})
	assert.NoError(t, err)
}

func TestClientProjectsAgainstFakeBackend(t *testing.T) {
	t.Parallel()

	fake, client := newFakeBackend(t)
	fake.AddProjects(fakeapi.SeedProjects(35)...)
	ctx := context.Background()

	first, err := client.SearchProjects(ctx, domain.DefaultSearchFilters())
	require.NoError(t, err)
	assert.Len(t, first.Items, 20)
	assert.Equal(t, 35, first.Total)
	assert.True(t, first.HasMore)
	assert.Equal(t, domain.ProjectID("p-35"), first.Items[0].ID, "newest first by default")

	filters := domain.DefaultSearchFilters()
	filters.Offset = 20
	second, err := client.SearchProjects(ctx, filters)
	require.NoError(t, err)
	assert.Len(t, second.Items, 15)
	assert.False(t, second.HasMore)

	project, err := client.GetProject(ctx, "p-3")
	require.NoError(t, err)
	assert.Equal(t, "Graph embeddings 3", project.Title)

	_, err = client.GetProject(ctx, "p-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	popular, err := client.PopularProjects(ctx, 1)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, domain.ProjectID("p-3"), popular[0].ID)

	related, err := client.RelatedProjects(ctx, "p-3", 3)
	require.NoError(t, err)
	require.NotEmpty(t, related)
	assert.Equal(t, domain.ProjectID("p-18"), related[0].ID, "shares tags and department with p-3")
}

func TestClientBookmarksAgainstFakeBackend(t *testing.T) {
	t.Parallel()

	fake, client := newFakeBackend(t)
	fake.AddUser(domain.User{ID: "u-1", Email: "ada@uni.edu", Name: "Ada"}, "pw")
	fake.AddProjects(fakeapi.SeedProjects(3)...)
	ctx := context.Background()

	result, err := client.Login(ctx, domain.LoginRequest{Email: "ada@uni.edu", Password: "pw"})
	require.NoError(t, err)
	client.Tokens = tokenFunc(func() string { return result.Credentials.AccessToken })

	require.NoError(t, client.BookmarkProject(ctx, "p-2"))
	require.NoError(t, client.BookmarkProject(ctx, "p-1"))
	assert.Equal(t, []domain.ProjectID{"p-1", "p-2"}, fake.Bookmarks("u-1"))

	require.NoError(t, client.UnbookmarkProject(ctx, "p-2"))
	assert.Equal(t, []domain.ProjectID{"p-1"}, fake.Bookmarks("u-1"))

	client.Tokens = tokenFunc(func() string { return "forged" })
	assert.ErrorIs(t, client.BookmarkProject(ctx, "p-3"), domain.ErrInvalidCredentials)
}
