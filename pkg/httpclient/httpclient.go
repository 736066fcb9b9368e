package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/pkg/errs"
)

const (
	DefaultBaseURL       = "http://localhost:5027/api"
	DefaultTimeout       = 10 * time.Second
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = time.Second

	connectionProbePath = "/categories"
)

// Config holds the settings of a Client.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration

	// Transport defaults to http.DefaultTransport. It is always wrapped by otelhttp.
	Transport http.RoundTripper

	// NewBreaker builds the circuit breaker guarding a base URL. A nil NewBreaker
	// disables the breaker.
	NewBreaker func(baseURL string) *gobreaker.CircuitBreaker[*Result]
}

func DefaultConfig() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		Timeout:       DefaultTimeout,
		RetryAttempts: DefaultRetryAttempts,
		RetryDelay:    DefaultRetryDelay,
	}
}

// Result is a successful response. Body is empty for 204 No Content.
type Result struct {
	StatusCode  int
	ContentType string
	Body        []byte
	IsJSON      bool
}

// Text returns the body as opaque text.
func (r *Result) Text() string {
	return string(r.Body)
}

// Decode unmarshals a JSON body into out. It is a no-op for a nil out or an empty body.
func (r *Result) Decode(out interface{}) error {
	if out == nil || r.StatusCode == http.StatusNoContent || len(r.Body) == 0 {
		return nil
	}

	if !r.IsJSON {
		return fmt.Errorf("%w: expected JSON, got content-type %q", errs.ErrInvalidResponse, r.ContentType)
	}

	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidResponse, err)
	}

	return nil
}

// Client sends requests to the inventory API. The base URL can be changed at runtime;
// requests already in flight keep the URL they were built with.
type Client struct {
	mu      sync.RWMutex
	baseURL string
	breaker *gobreaker.CircuitBreaker[*Result]

	config     Config
	httpClient *http.Client
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = DefaultRetryAttempts
	}
	if config.RetryDelay < 0 {
		config.RetryDelay = DefaultRetryDelay
	}

	transport := config.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	c := &Client{
		config:     config,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(transport)},
		sleep:      sleepContext,
	}
	c.SetBaseURL(config.BaseURL)

	return c
}

// SetBaseURL swaps the live base URL and resets the circuit breaker for it.
func (c *Client) SetBaseURL(baseURL string) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")

	c.mu.Lock()
	defer c.mu.Unlock()

	c.baseURL = baseURL
	if c.config.NewBreaker != nil {
		c.breaker = c.config.NewBreaker(baseURL)
	}
}

func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.baseURL
}

// Request sends method to path relative to the base URL. body, when non-nil, is sent as JSON.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}) (*Result, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	c.mu.RLock()
	target := c.baseURL + path
	breaker := c.breaker
	c.mu.RUnlock()

	if breaker == nil {
		return c.sendWithRetry(ctx, method, target, payload)
	}

	res, err := breaker.Execute(func() (*Result, error) {
		return c.sendWithRetry(ctx, method, target, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", errs.ErrCircuitOpen, err)
	}

	return res, err
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}

	res, err := c.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	return res.Decode(out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	res, err := c.Request(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}

	return res.Decode(out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	res, err := c.Request(ctx, http.MethodPut, path, body)
	if err != nil {
		return err
	}

	return res.Decode(out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Request(ctx, http.MethodDelete, path, nil)
	return err
}

// TestConnection reports whether the API answers a cheap GET. It never returns an error.
// The GET is always sent, even while the circuit breaker is open, and a success closes the
// breaker again.
func (c *Client) TestConnection(ctx context.Context) bool {
	baseURL := c.BaseURL()

	if _, err := c.sendWithRetry(ctx, http.MethodGet, baseURL+connectionProbePath, nil); err != nil {
		log.Debug().Err(err).Str("component", "TestConnection").Str("base_url", baseURL).Msg("connection test failed")
		return false
	}

	c.resetBreaker(baseURL)

	return true
}

// resetBreaker replaces a tripped breaker, provided baseURL is still the live one.
func (c *Client) resetBreaker(baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.baseURL != baseURL || c.breaker == nil || c.breaker.State() == gobreaker.StateClosed {
		return
	}

	c.breaker = c.config.NewBreaker(baseURL)
}

// retryableError marks a failure that never reached the server.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (c *Client) sendWithRetry(ctx context.Context, method, target string, payload []byte) (*Result, error) {
	for attempt := 1; ; attempt++ {
		res, err := c.send(ctx, method, target, payload)
		if err == nil {
			return res, nil
		}

		var rerr *retryableError
		if !errors.As(err, &rerr) {
			return nil, err
		}

		if attempt >= c.config.RetryAttempts {
			return nil, &errs.NetworkError{URL: target, Attempts: attempt, Err: rerr.err}
		}

		delay := c.config.RetryDelay * time.Duration(attempt)
		log.Warn().Err(rerr.err).Str("component", "httpclient").
			Str("method", method).
			Str("url", target).
			Int("attempt", attempt+1).
			Int("max_attempts", c.config.RetryAttempts).
			Dur("delay", delay).
			Msg("request failed, retrying")

		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func (c *Client) send(ctx context.Context, method, target string, payload []byte) (*Result, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(attemptCtx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("Accept", "application/json")
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, c.classify(ctx, attemptCtx, target, err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNoContent {
		return &Result{StatusCode: response.StatusCode}, nil
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, c.classify(ctx, attemptCtx, target, err)
	}

	contentType := response.Header.Get("Content-Type")
	res := &Result{
		StatusCode:  response.StatusCode,
		ContentType: contentType,
		Body:        data,
		IsJSON:      isJSONContentType(contentType),
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, newHTTPError(res)
	}

	if res.IsJSON && len(data) > 0 && !json.Valid(data) {
		return nil, fmt.Errorf("%w: malformed JSON body from %s", errs.ErrInvalidResponse, target)
	}

	return res, nil
}

func (c *Client) classify(ctx, attemptCtx context.Context, target string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return &errs.TimeoutError{URL: target, Timeout: c.config.Timeout}
	}

	return &retryableError{err: err}
}

func newHTTPError(res *Result) *errs.HTTPError {
	herr := &errs.HTTPError{
		StatusCode: res.StatusCode,
		Body:       res.Body,
	}

	if res.IsJSON {
		var payload struct {
			Message string          `json:"message"`
			Title   string          `json:"title"`
			Errors  json.RawMessage `json:"errors"`
		}
		if err := json.Unmarshal(res.Body, &payload); err == nil {
			herr.Message = payload.Message
			if herr.Message == "" {
				herr.Message = payload.Title
			}
			herr.FieldErrors = parseFieldErrors(payload.Errors)
		}
	} else if text := strings.TrimSpace(string(res.Body)); text != "" {
		herr.Message = text
	}

	if herr.Message == "" {
		herr.Message = fmt.Sprintf("HTTP Error: %d", res.StatusCode)
	}

	return herr
}

// parseFieldErrors accepts {"Field": "msg"} and {"Field": ["msg", ...]} and keeps the
// first message per field. Keys are re-cased to match the JSON field names ("CategoryId"
// becomes "categoryId").
func parseFieldErrors(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) == 0 {
		return nil
	}

	out := make(map[string]string, len(fields))
	for field, value := range fields {
		key := lowerFirst(field)

		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			out[key] = single
			continue
		}

		var many []string
		if err := json.Unmarshal(value, &many); err == nil && len(many) > 0 {
			out[key] = many[0]
		}
	}

	return out
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToLower(r)) + s[size:]
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}

	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsBreakerFailure reports whether err should count against the circuit breaker:
// network failures, timeouts and 5xx responses. 4xx answers prove the API is up.
func IsBreakerFailure(err error) bool {
	if err == nil {
		return false
	}

	var herr *errs.HTTPError
	if errors.As(err, &herr) {
		return herr.StatusCode >= 500
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	return errors.Is(err, errs.ErrNetwork) || errors.Is(err, errs.ErrTimeout)
}
