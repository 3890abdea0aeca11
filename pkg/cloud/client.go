package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/jtollefsen/emberon/pkg/brasa"
)

const (
	// DefaultBaseURL is the production Emberon cloud API endpoint
	DefaultBaseURL = "https://app.emberon.cloud/api/v2"

	// DefaultUserAgent identifies this client library to the service
	DefaultUserAgent = "emberon-go"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 30 * time.Second
)

// Client talks to the Emberon cloud API on behalf of one account.
//
// The zero value is not usable; construct with Login or NewClient.
// A Client is safe for concurrent use.
type Client struct {
	baseURL    string
	host       string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	logger     *zap.Logger
	userAgent  string

	maxRetries    int
	retryDelay    time.Duration
	maxRetryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API endpoint, such as a
// staging environment or a local emberon-mock instance.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client. The caller keeps
// ownership of the client's transport and timeout settings.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger attaches a logger for request-level debug output.
// Without it the client is silent.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetry overrides the retry policy. maxRetries is the number of
// attempts after the first; 0 disables retries entirely.
func WithRetry(maxRetries int, retryDelay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryDelay = retryDelay
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client that authenticates each request with a token
// from ts. Use this when a token from a previous Login has been persisted;
// the library never stores tokens itself.
func NewClient(ts oauth2.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:       DefaultBaseURL,
		httpClient:    &http.Client{Timeout: DefaultTimeout},
		tokens:        ts,
		logger:        zap.NewNop(),
		userAgent:     DefaultUserAgent,
		maxRetries:    DefaultMaxRetries,
		retryDelay:    DefaultRetryDelay,
		maxRetryDelay: DefaultMaxRetryDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	if u, err := url.Parse(c.baseURL); err == nil {
		c.host = u.Host
	}

	return c
}

// BaseURL returns the API endpoint the client is configured for.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListFires returns every fireplace registered to the account.
func (c *Client) ListFires(ctx context.Context) ([]Fire, error) {
	body, err := c.do(ctx, http.MethodGet, "/fires", nil, "")
	if err != nil {
		return nil, err
	}

	var parsed firesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, NewParseError("failed to parse fires listing", err)
	}

	return parsed.Fires, nil
}

// GetOverview fetches the current state of one fireplace. The response is
// a sequence of binary parameter frames; it is decoded into an Overview
// with one field per reported parameter.
func (c *Client) GetOverview(ctx context.Context, serial string) (*Overview, error) {
	if serial == "" {
		return nil, NewValidationError("fireplace serial is required")
	}

	body, err := c.do(ctx, http.MethodGet, "/fires/"+url.PathEscape(serial)+"/overview", nil, "")
	if err != nil {
		return nil, err
	}

	overview, err := ParseOverview(serial, body)
	if err != nil {
		return nil, err
	}
	overview.FetchedAt = time.Now()

	c.logger.Debug("overview fetched",
		zap.String("serial", serial),
		zap.Int("bytes", len(body)),
		zap.Int("unknown_params", len(overview.Unknown)))

	return overview, nil
}

// WriteParameters encodes the given parameters and sends them to the
// fireplace in a single request. The service applies them in order and
// pushes them to the unit on its next keepalive.
//
// All values are absolute, so a retried write is harmless; network and
// server errors are retried like reads.
func (c *Client) WriteParameters(ctx context.Context, serial string, params ...brasa.Parameter) error {
	if serial == "" {
		return NewValidationError("fireplace serial is required")
	}
	if len(params) == 0 {
		return NewValidationError("at least one parameter is required")
	}

	var buf bytes.Buffer
	for _, p := range params {
		frame, err := brasa.EncodeParameter(p)
		if err != nil {
			return &APIError{
				Type:      ErrTypeValidation,
				Message:   fmt.Sprintf("cannot encode %s parameter", p.Tag()),
				Err:       err,
				Retryable: false,
			}
		}
		buf.Write(frame)
	}

	c.logger.Debug("writing parameters",
		zap.String("serial", serial),
		zap.Int("count", len(params)),
		zap.Int("bytes", buf.Len()))

	_, err := c.do(ctx, http.MethodPut, "/fires/"+url.PathEscape(serial)+"/parameters", buf.Bytes(), "application/octet-stream")
	return err
}

// SetMode switches the fireplace between standby, on and eco.
func (c *Client) SetMode(ctx context.Context, serial string, mode brasa.OperatingMode) error {
	return c.WriteParameters(ctx, serial, brasa.ModeParam{Mode: mode})
}

// TurnOn brings the fireplace out of standby.
func (c *Client) TurnOn(ctx context.Context, serial string) error {
	return c.SetMode(ctx, serial, brasa.ModeOn)
}

// TurnOff puts the fireplace into standby. The flame effect and heater
// stop; the unit keeps its cloud connection.
func (c *Client) TurnOff(ctx context.Context, serial string) error {
	return c.SetMode(ctx, serial, brasa.ModeStandby)
}

// SetSetpoint selects the heat mode and target room temperature.
func (c *Client) SetSetpoint(ctx context.Context, serial string, mode brasa.HeatMode, target brasa.Temperature) error {
	return c.WriteParameters(ctx, serial, brasa.SetpointParam{HeatMode: mode, Setpoint: target})
}

// SetFlameEffect selects the flame animation style.
func (c *Client) SetFlameEffect(ctx context.Context, serial string, effect brasa.FlameEffect) error {
	return c.WriteParameters(ctx, serial, brasa.FlameEffectParam{Effect: effect})
}

// SetTimer arms or disarms the sleep timer. minutes is the countdown
// until the unit returns to standby.
func (c *Client) SetTimer(ctx context.Context, serial string, enabled bool, minutes uint16) error {
	return c.WriteParameters(ctx, serial, brasa.TimerParam{Enabled: enabled, Minutes: minutes})
}

// SetColor sets the flame bed RGBW color.
func (c *Client) SetColor(ctx context.Context, serial string, r, g, b, w uint8) error {
	return c.WriteParameters(ctx, serial, brasa.ColorParam{R: r, G: g, B: b, W: w})
}

// SetLight configures the downlight mode and brightness.
func (c *Client) SetLight(ctx context.Context, serial string, mode brasa.LightMode, brightness uint8) error {
	return c.WriteParameters(ctx, serial, brasa.LightParam{Mode: mode, Brightness: brightness})
}

// do performs an API request with retries and returns the response body.
// Non-retryable failures return immediately; network and 5xx failures are
// retried with exponential backoff up to the configured limit.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string) ([]byte, error) {
	var lastErr error
	currentDelay := c.retryDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying request",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Duration("delay", currentDelay))

			select {
			case <-ctx.Done():
				return nil, NewNetworkError("request cancelled while waiting to retry", ctx.Err())
			case <-time.After(currentDelay):
			}

			// Exponential backoff
			currentDelay *= 2
			if currentDelay > c.maxRetryDelay {
				currentDelay = c.maxRetryDelay
			}
		}

		data, err := c.attempt(ctx, method, path, body, contentType)
		if err == nil {
			return data, nil
		}

		lastErr = err

		// Don't retry non-retryable errors
		if !IsRetryable(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

// attempt performs a single API request
func (c *Client) attempt(ctx context.Context, method, path string, body []byte, contentType string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, NewNetworkError("failed to create request", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, application/octet-stream")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, &APIError{
				Type:      ErrTypeAuth,
				Message:   "failed to obtain access token",
				Err:       err,
				Retryable: false,
			}
		}
		tok.SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		classified := ClassifyNetworkError(err, c.host)
		classified.Message = fmt.Sprintf("%s %s failed", method, path)
		return nil, classified
	}
	defer func() { _ = resp.Body.Close() }()

	if apiErr := c.checkStatus(resp, path); apiErr != nil {
		return nil, apiErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	c.logger.Debug("request complete",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)))

	return data, nil
}

// checkStatus maps a non-2xx response to an APIError
func (c *Client) checkStatus(resp *http.Response, path string) *APIError {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewAuthError("authentication rejected (log in again or refresh the token)")
	case resp.StatusCode == http.StatusNotFound && strings.HasPrefix(path, "/fires/"):
		return NewNotFoundError(serialFromPath(path))
	default:
		return NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}
}

// serialFromPath recovers the serial segment from a /fires/{serial}/... path
// for error messages. Returns the raw path when it has no serial segment.
func serialFromPath(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "fires" {
		if s, err := url.PathUnescape(parts[1]); err == nil {
			return s
		}
		return parts[1]
	}
	return path
}
