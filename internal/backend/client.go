package backend

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

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hookx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	restPath      = "/rest/v1"
	storagePath   = "/storage/v1"
	functionsPath = "/functions/v1"
)

// ClientOpts configures a [Client]. Zero values fall back to http.DefaultClient, no rate
// limit, no timeout and the default logger.
type ClientOpts struct {
	HTTPClient *http.Client
	RateLimit  float64 // requests per second; <= 0 disables limiting
	Timeout    time.Duration
	Logger     *log.Logger
}

// Client talks to the backend's REST, storage and function endpoints.
type Client struct {
	coords     Coordinates
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewClient creates a client for coords. The context supplies the base transport to oauth2.
func NewClient(ctx context.Context, coords Coordinates, opts ClientOpts) *Client {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: coords.AnonKey, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(ctx, src)
	httpClient.Timeout = opts.Timeout

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &Client{
		coords:     coords,
		baseURL:    strings.TrimRight(coords.URL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     shared.WithLogger(opts.Logger, "component", "backend", "source", string(coords.Source)),
	}
}

// IsConfigured reports whether the client has real coordinates.
func (c *Client) IsConfigured() bool { return c.coords.IsConfigured() }

// Coordinates returns the coordinates the client was built with.
func (c *Client) Coordinates() Coordinates { return c.coords }

// response is a raw backend response.
type response struct {
	status int
	body   []byte
}

func (r response) ok() bool { return r.status >= 200 && r.status < 300 }

// do sends one request. Only transport failures are returned as errors; callers interpret
// the status.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body any) (response, error) {
	if !c.IsConfigured() {
		return response{}, shared.ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return response{}, fmt.Errorf("rate limiter: %w", err)
	}

	fullURL := c.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return response{}, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.coords.AnonKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("backend request", "method", method, "path", endpoint, "status", resp.StatusCode, "took", time.Since(start))
	return response{status: resp.StatusCode, body: data}, nil
}

// decode unmarshals a successful response into out, or turns a failed one into an error.
func decode(resp response, out any) error {
	if resp.status == http.StatusServiceUnavailable {
		return fmt.Errorf("%w: %s", shared.ErrServiceUnavailable, errorMessage(resp))
	}
	if !resp.ok() {
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.status, errorMessage(resp))
	}
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the message from {"error"} or {"message"} bodies, falling back to the
// status text.
func errorMessage(resp response) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return http.StatusText(resp.status)
}

// Rest performs row-level data access against table.
func (c *Client) Rest(ctx context.Context, method, table string, query url.Values, body, out any) error {
	if table == "" {
		return fmt.Errorf("%w: table", shared.ErrMissingArgument)
	}
	resp, err := c.do(ctx, method, restPath+"/"+url.PathEscape(table), query, body)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

// RPC calls the stored procedure fn with args.
func (c *Client) RPC(ctx context.Context, fn string, args, out any) error {
	if fn == "" {
		return fmt.Errorf("%w: function name", shared.ErrMissingArgument)
	}
	if args == nil {
		args = map[string]any{}
	}
	resp, err := c.do(ctx, http.MethodPost, restPath+"/rpc/"+url.PathEscape(fn), nil, args)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

// SignedURL returns an absolute, time-limited download url for object in bucket.
func (c *Client) SignedURL(ctx context.Context, bucket, object string, expiresIn time.Duration) (string, error) {
	if bucket == "" || object == "" {
		return "", fmt.Errorf("%w: bucket and object", shared.ErrMissingArgument)
	}
	if expiresIn < time.Second {
		return "", fmt.Errorf("%w: expiry must be at least one second", shared.ErrInvalidArgument)
	}

	endpoint := fmt.Sprintf("%s/object/sign/%s/%s", storagePath, url.PathEscape(bucket), escapeObject(object))
	resp, err := c.do(ctx, http.MethodPost, endpoint, nil, map[string]int{"expiresIn": int(expiresIn / time.Second)})
	if err != nil {
		return "", err
	}

	var signed struct {
		SignedURL string `json:"signedURL"`
	}
	if err := decode(resp, &signed); err != nil {
		return "", err
	}
	if signed.SignedURL == "" {
		return "", fmt.Errorf("%w: empty signed url", shared.ErrAPIRequest)
	}
	return c.baseURL + storagePath + signed.SignedURL, nil
}

// escapeObject escapes each segment of a slash-separated object path.
func escapeObject(object string) string {
	parts := strings.Split(strings.TrimLeft(object, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// FunctionError is a failure reported by a serverless function.
type FunctionError struct {
	Function string
	Status   int
	Message  string
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("function %s failed (status %d): %s", e.Function, e.Status, e.Message)
}

func (e *FunctionError) Unwrap() error { return shared.ErrAPIRequest }

// Invoke calls the serverless function fn with body and decodes its success payload into out.
//
// A non-2xx status or a body carrying a non-empty "error" field yields a [*FunctionError].
func (c *Client) Invoke(ctx context.Context, fn string, body, out any) error {
	if fn == "" {
		return fmt.Errorf("%w: function name", shared.ErrMissingArgument)
	}

	resp, err := c.do(ctx, http.MethodPost, functionsPath+"/"+url.PathEscape(fn), nil, body)
	if err != nil {
		return err
	}

	if !resp.ok() {
		return &FunctionError{Function: fn, Status: resp.status, Message: errorMessage(resp)}
	}

	var failure struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(resp.body, &failure) == nil && failure.Error != "" {
		return &FunctionError{Function: fn, Status: resp.status, Message: failure.Error}
	}

	if err := decode(resp, out); err != nil {
		return err
	}
	return nil
}

// IsFunctionError reports whether err is a [*FunctionError] and returns it.
func IsFunctionError(err error) (*FunctionError, bool) {
	var fe *FunctionError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
