// Package httpapi talks to the FYP backend over its JSON envelope API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bnema/fyp-cli/internal/domain"
	"github.com/bnema/fyp-cli/internal/ports"
)

const (
	maxResponseBytes      = 1 << 20
	defaultRequestTimeout = 30 * time.Second

	RequestIDHeader = "X-Request-ID"
)

// Client implements ports.AuthBackend and ports.ProjectBackend.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	// Tokens supplies the bearer token for authenticated endpoints.
	Tokens    ports.AccessTokenSource
	UserAgent string
	Logger    *zap.Logger
}

var (
	_ ports.AuthBackend    = Client{}
	_ ports.ProjectBackend = Client{}
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *envelopeError  `json:"error,omitempty"`
}

type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

// do sends req and decodes the envelope data into out when out is non-nil. It returns the envelope message.
func (c Client) do(ctx context.Context, req request, out any) (string, error) {
	endpoint, err := buildAPIURL(c.BaseURL, req.path)
	if err != nil {
		return "", &domain.APIError{Kind: domain.ErrNetworkOrUnknown, Err: err}
	}
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return "", fmt.Errorf("encode %s %s request: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(encoded)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(requestCtx, req.method, endpoint, body)
	if err != nil {
		return "", &domain.APIError{Kind: domain.ErrNetworkOrUnknown, Err: fmt.Errorf("create %s request: %w", req.path, err)}
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}
	if req.auth {
		token := ""
		if c.Tokens != nil {
			token = c.Tokens.AccessToken()
		}
		if token == "" {
			return "", fmt.Errorf("%s %s: %w", req.method, req.path, domain.ErrUnauthenticated)
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return "", &domain.APIError{Kind: domain.ErrNetworkOrUnknown, Err: fmt.Errorf("%s %s: %w", req.method, req.path, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger().Debug("api request",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(started)),
	)

	var payload envelope
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload)
	if decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
			return "", &domain.APIError{
				Kind:   domain.ErrNetworkOrUnknown,
				Status: resp.StatusCode,
				Err:    fmt.Errorf("decode %s response: %w", req.path, decodeErr),
			}
		}
		payload = envelope{}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", domain.NewAPIError(resp.StatusCode, payload.errorMessage())
	}
	if payload.Error != nil && !payload.Success {
		return "", &domain.APIError{Kind: domain.ErrNetworkOrUnknown, Status: resp.StatusCode, Message: payload.errorMessage()}
	}

	if out != nil {
		if len(payload.Data) == 0 || string(payload.Data) == "null" {
			return "", &domain.APIError{Kind: domain.ErrNetworkOrUnknown, Status: resp.StatusCode, Message: "response missing data"}
		}
		if err := json.Unmarshal(payload.Data, out); err != nil {
			return "", &domain.APIError{Kind: domain.ErrNetworkOrUnknown, Status: resp.StatusCode, Err: fmt.Errorf("decode %s data: %w", req.path, err)}
		}
	}

	return payload.Message, nil
}

func (e envelope) errorMessage() string {
	if e.Error != nil && strings.TrimSpace(e.Error.Message) != "" {
		return e.Error.Message
	}
	return e.Message
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	// Resolve relative to the base path so a base of https://host/api keeps its /api prefix.
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	endpoint, err := parsed.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	return endpoint.String(), nil
}
