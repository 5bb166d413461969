package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"backoffice-client/internal/notify"
	"backoffice-client/internal/session"
	"backoffice-client/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoToken is the precondition failure raised before any network call when
// an authenticated request is attempted without a stored token.
var ErrNoToken = session.ErrNoToken

// Client issues authenticated requests against the back-office REST API.
// It injects the bearer token from the session store, maps failures onto
// user-facing notifications, and detects expired sessions. The 401 path is
// the single place where the client state is reset.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
	notify  *notify.Notifier
	logger  *zap.Logger

	mu             sync.RWMutex
	onUnauthorized func()
}

// NewClient creates an API client for the given base URL
func NewClient(baseURL string, timeout time.Duration, sess *session.Store, notifier *notify.Notifier) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
		notify:  notifier,
		logger:  util.GetLogger(),
	}
}

// SetUnauthorizedHook registers the callback invoked after a 401 clears the
// session. The hook runs at most once per failed call and must not issue
// further authenticated requests.
func (c *Client) SetUnauthorizedHook(hook func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = hook
}

func (c *Client) unauthorizedHook() func() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onUnauthorized
}

type requestOptions struct {
	public bool
}

// Get issues an authenticated GET and decodes the response into out
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out, requestOptions{})
}

// Post issues an authenticated JSON POST
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	reader, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, reader, "application/json", out, requestOptions{})
}

// PostPublic issues an unauthenticated JSON POST (signin/signup)
func (c *Client) PostPublic(ctx context.Context, path string, body, out interface{}) error {
	reader, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, reader, "application/json", out, requestOptions{public: true})
}

// Patch issues an authenticated JSON PATCH
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	reader, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, path, reader, "application/json", out, requestOptions{})
}

// PostForm issues an authenticated multipart POST
func (c *Client) PostForm(ctx context.Context, path string, form *Form, out interface{}) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, body, contentType, out, requestOptions{})
}

// PatchForm issues an authenticated multipart PATCH
func (c *Client) PatchForm(ctx context.Context, path string, form *Form, out interface{}) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, path, body, contentType, out, requestOptions{})
}

// PutForm issues an authenticated multipart PUT
func (c *Client) PutForm(ctx context.Context, path string, form *Form, out interface{}) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, body, contentType, out, requestOptions{})
}

// Delete issues an authenticated DELETE
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", nil, requestOptions{})
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}, opts requestOptions) error {
	ctx, span := util.StartSpan(ctx, fmt.Sprintf("api.%s %s", method, path))
	defer span.End()

	token := c.session.Token()
	if token == "" && !opts.public {
		util.RequestFailuresTotal.WithLabelValues("precondition").Inc()
		return ErrNoToken
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if method == http.MethodPost && !opts.public {
		req.Header.Set("Idempotency-Key", uuid.New().String())
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		util.RequestFailuresTotal.WithLabelValues("transport").Inc()
		c.logger.Warn("Request failed before a response was received",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		c.notify.Error("Cannot reach the server, check your connection")
		return &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	util.RequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
	util.RequestsTotal.WithLabelValues(method, path, status).Inc()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		util.RequestFailuresTotal.WithLabelValues("transport").Inc()
		c.notify.Error("Cannot reach the server, check your connection")
		return &ConnectivityError{Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil && len(raw) > 0 {
			if err := json.Unmarshal(raw, out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode, Message: serverMessage(resp.StatusCode, raw)}

	if resp.StatusCode == http.StatusUnauthorized && !opts.public {
		c.expireSession()
	} else {
		util.RequestFailuresTotal.WithLabelValues("server").Inc()
		c.notify.Error(apiErr.Message)
	}

	c.logger.Warn("Request rejected by server",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("message", apiErr.Message))

	return apiErr
}

// expireSession handles a 401: clears the stored token, tells the operator,
// and invokes the unauthorized hook. Runs once per failed call; the hook is
// forbidden from issuing authenticated requests, so it cannot loop back here.
func (c *Client) expireSession() {
	util.SessionExpiriesTotal.Inc()

	if err := c.session.Clear(); err != nil {
		c.logger.Error("Failed to clear session after 401", zap.Error(err))
	}

	c.notify.Error("Your session has expired, please sign in again")

	if hook := c.unauthorizedHook(); hook != nil {
		hook()
	}
}

func encodeJSON(body interface{}) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(data), nil
}
