package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"timely/internal/logging"
	"timely/internal/tasks"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// maxResponseBytes caps how much of a backend body is read.
const maxResponseBytes = 1 << 20

// Transport performs the backend calls. Client is the HTTP implementation;
// tests substitute their own.
type Transport interface {
	Health(ctx context.Context) (*HealthStatus, error)
	Chat(ctx context.Context, endpoint Endpoint, req ChatRequest) (*ChatResponse, error)
}

// ClientConfig configures the HTTP transport.
type ClientConfig struct {
	BaseURL    string // e.g. http://127.0.0.1:8000; /health lives here
	APIPrefix  string // e.g. /api/v1; chat endpoints live under it
	Timeout    time.Duration
	HTTPClient *http.Client // optional
}

// DefaultClientConfig returns the settings of a locally running backend.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:   "http://127.0.0.1:8000",
		APIPrefix: "/api/v1",
		Timeout:   30 * time.Second,
	}
}

// Client talks JSON over HTTP to the Timely backend.
type Client struct {
	baseURL    string
	apiPrefix  string
	timeout    time.Duration
	httpClient *http.Client
	probe      singleflight.Group
	logger     *zap.Logger
}

// NewClient creates a client. A nil logger uses the api category logger.
func NewClient(config ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = logging.Get(logging.CategoryAPI)
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultClientConfig().Timeout
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiPrefix:  normalizePrefix(config.APIPrefix),
		timeout:    config.Timeout,
		httpClient: httpClient,
		logger:     logger,
	}
}

func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// URL returns the absolute URL of an endpoint.
func (c *Client) URL(endpoint Endpoint) string {
	if endpoint == EndpointHealth {
		return c.baseURL + string(endpoint)
	}
	return c.baseURL + c.apiPrefix + string(endpoint)
}

// Health probes GET /health. Any 2xx counts as healthy; the body is decoded
// on a best-effort basis. Concurrent probes share one request, bounded by
// the client timeout; each caller still returns when its own ctx ends.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	ch := c.probe.DoChan(string(EndpointHealth), func() (any, error) {
		return c.health(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, &RequestError{Endpoint: EndpointHealth, Kind: ErrConnectivity, Err: ctx.Err()}
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("health probe shared with concurrent caller")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		status := *res.Val.(*HealthStatus)
		return &status, nil
	}
}

func (c *Client) health(ctx context.Context) (*HealthStatus, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(EndpointHealth), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, body, err := c.do(req, EndpointHealth)
	if err != nil {
		return nil, err
	}

	status := &HealthStatus{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, status); err != nil {
			c.logger.Debug("health body is not JSON", zap.Error(err))
			status = &HealthStatus{}
		}
	}
	status.StatusCode = resp.StatusCode
	return status, nil
}

// Chat POSTs req to a chat endpoint.
func (c *Client) Chat(ctx context.Context, endpoint Endpoint, chatReq ChatRequest) (*ChatResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if chatReq.Tasks == nil {
		chatReq.Tasks = []tasks.Task{}
	}
	payload, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(endpoint), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	_, body, err := c.do(req, endpoint)
	if err != nil {
		return nil, err
	}

	var wire struct {
		Response    *string        `json:"response"`
		TokensUsed  *int           `json:"tokens_used"`
		Fallback    bool           `json:"fallback"`
		Timestamp   string         `json:"timestamp"`
		ContextUsed map[string]any `json:"context_used"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &RequestError{Endpoint: endpoint, Kind: ErrMalformedResponse, Err: err}
	}
	if wire.Response == nil {
		return nil, &RequestError{Endpoint: endpoint, Kind: ErrMalformedResponse, Err: errors.New("missing response field")}
	}

	out := &ChatResponse{
		Response:    *wire.Response,
		TokensUsed:  wire.TokensUsed,
		Fallback:    wire.Fallback,
		Timestamp:   wire.Timestamp,
		ContextUsed: wire.ContextUsed,
	}
	c.logger.Debug("chat call completed",
		zap.String("endpoint", string(endpoint)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("tokens", out.Tokens()),
		zap.Bool("fallback", out.Fallback))
	return out, nil
}

// do sends req and returns the body of a 2xx response.
func (c *Client) do(req *http.Request, endpoint Endpoint) (*http.Response, []byte, error) {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("backend request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", requestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &RequestError{Endpoint: endpoint, Kind: ErrConnectivity, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, nil, &RequestError{Endpoint: endpoint, StatusCode: resp.StatusCode, Kind: ErrConnectivity, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &RequestError{Endpoint: endpoint, StatusCode: resp.StatusCode, Kind: ErrStatus, Err: errors.New(truncate(string(body), 200))}
	}
	return resp, body, nil
}

// withTimeout applies the client timeout when ctx carries no deadline.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "") + "..."
}
