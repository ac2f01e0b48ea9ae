package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/go-logr/logr"
	"golang.org/x/time/rate"

	"github.com/fleetsync/fleetsync/internal/config"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

const maxErrorBodySize = 512

var (
	ErrNotFound         = errors.New("not found")
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// StatusError is returned for any non 2xx response. Message holds the server provided reason when there is one.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e StatusError) Is(target error) bool {
	if target == ErrNotFound {
		return e.StatusCode == http.StatusNotFound
	}

	return target == ErrUnexpectedStatus
}

// Client calls the monitoring server HTTP API.
// Calls are rate limited and retried on network errors and 5xx responses.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	token      config.Secret
	limiter    *rate.Limiter
	retry      config.Retry

	logger *logr.Logger
}

func NewClient(conf config.API, retryConf config.Retry) (*Client, error) {
	baseURL, err := url.Parse(strings.TrimSuffix(conf.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}

	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", conf.BaseURL)
	}

	limit := rate.Inf
	if conf.RateLimit > 0 {
		limit = rate.Limit(conf.RateLimit)
	}

	return &Client{
		httpClient: &http.Client{Timeout: conf.Timeout},
		baseURL:    baseURL,
		token:      conf.Token,
		limiter:    rate.NewLimiter(limit, max(conf.Burst, 1)),
		retry:      retryConf,
	}, nil
}

func (c *Client) WithLogger(logger logr.Logger) *Client {
	c.logger = &logger

	return c
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in interface{}, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, in, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in interface{}, out interface{}) error {
	var body []byte

	if in != nil {
		var err error

		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s body: %w", method, path, err)
		}
	}

	opts := []retry.Option{
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return idempotent(method) && errors.Is(err, pipeline.ErrRetryableError) }),
		retry.OnRetry(func(n uint, err error) {
			c.logInfo(1, "Retrying request", "method", method, "path", path, "attempt", n+1, "error", err.Error())
		}),
	}

	if c.retry.MaxAttempt > 0 {
		opts = append(opts, retry.Attempts(c.retry.MaxAttempt))
	}

	if c.retry.Delay > 0 {
		opts = append(opts, retry.Delay(c.retry.Delay))
	}

	return retry.Do(func() error {
		return c.once(ctx, method, path, query, body, out)
	}, opts...)
}

// idempotent reports whether a failed request may be sent again. A POST may have started an execution already.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	default:
		return false
	}
}

func (c *Client) once(ctx context.Context, method, path string, query url.Values, body []byte, out interface{}) error {
	err := c.limiter.Wait(ctx)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	c.logInfo(3, "Sending request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		statusErr := StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}

		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return pipeline.NewErrRetryableError(statusErr)
		}

		return statusErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Request, error) {
	target := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+string(c.token))
	}

	return req, nil
}

func (c *Client) transportError(method, path string, err error) error {
	wrapped := fmt.Errorf("%s %s: %w", method, path, err)

	// Cancellation is final
	if errors.Is(err, context.Canceled) {
		return wrapped
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return pipeline.NewErrRetryableError(wrapped)
	}

	return wrapped
}

// readErrorMessage extracts the error reason of a failed response.
// JSON bodies like {"error": "..."} or {"errors": [{"detail": "..."}]} are unwrapped, anything else is returned as is.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil || len(raw) == 0 {
		return ""
	}

	payload := struct {
		Error  string `json:"error"`
		Errors []struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}{}

	if json.Unmarshal(raw, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}

		if len(payload.Errors) > 0 {
			if payload.Errors[0].Detail != "" {
				return payload.Errors[0].Detail
			}

			return payload.Errors[0].Title
		}
	}

	return strings.TrimSpace(string(raw))
}

func (c *Client) logInfo(level int, msg string, keysAndValues ...any) {
	if c.logger == nil {
		return
	}

	c.logger.V(level).Info(msg, keysAndValues...)
}
