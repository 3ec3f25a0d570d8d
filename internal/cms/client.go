// Package cms is the client for the headless CMS content API.
//
// Reads never fail loudly: every failure (missing configuration, transport
// error, non-success status, malformed envelope) is logged once and turned
// into an empty value by One and List. Only the contact write path returns
// errors to its caller.
package cms

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

	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/logging"
	"github.com/Zachkp/folio/internal/query"
)

const (
	apiPrefix = "/api"

	// maxErrorBody bounds how much of a failed response is kept for logs.
	maxErrorBody = 4 << 10
	// maxBody bounds successful responses.
	maxBody = 8 << 20

	defaultTimeout = 10 * time.Second
)

// Getter fetches one resource and decodes its envelope data into out.
type Getter interface {
	Get(ctx context.Context, resource string, q query.Values, out any) error
}

type Options struct {
	BaseURL string
	// Token is sent as a bearer credential when non-empty.
	Token      string
	HTTPClient *http.Client
	// Cache and Revalidate bound how long a successful response is reused.
	// A nil Cache or non-positive Revalidate disables reuse.
	Cache      *Cache
	Revalidate time.Duration
	Logger     *zap.Logger
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	cache      *Cache
	revalidate time.Duration
	logger     *zap.Logger
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		httpClient: httpClient,
		cache:      opts.Cache,
		revalidate: opts.Revalidate,
		logger:     logging.OrNop(opts.Logger).Named("cms"),
	}
}

// Configured reports whether a base URL is set.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins the base, the API prefix, the resource path and the encoded query.
func (c *Client) URL(resource string, q query.Values) string {
	u := c.baseURL + apiPrefix + "/" + strings.TrimPrefix(resource, "/")
	if qs := q.Encode(); qs != "" {
		u += "?" + qs
	}
	return u
}

// MediaURL resolves an asset URL against the configured base.
func (c *Client) MediaURL(u string) string {
	return ResolveMediaURL(c.baseURL, u)
}

// Get fetches resource and decodes the envelope's data into out. Every
// failure is logged exactly once here before being returned.
func (c *Client) Get(ctx context.Context, resource string, q query.Values, out any) error {
	if !c.Configured() {
		c.logger.Warn("cms base url not configured, skipping fetch",
			zap.String("resource", resource))
		return ErrNotConfigured
	}

	u := c.URL(resource, q)

	body, cached := c.cache.Get(ctx, u, c.revalidate)
	if !cached {
		var err error
		body, err = c.do(ctx, http.MethodGet, u, nil)
		if err != nil {
			c.logFailure(resource, err)
			return err
		}
	}

	if err := decodeEnvelope(body, out); err != nil {
		c.logFailure(resource, err)
		return err
	}

	if !cached {
		c.cache.Put(ctx, u, body)
	}

	c.logger.Debug("cms fetch", zap.String("resource", resource), zap.Bool("cached", cached))
	return nil
}

// SubmitContact posts a contact message. Unlike reads, failures are returned.
func (c *Client) SubmitContact(ctx context.Context, msg ContactMessage) error {
	if !c.Configured() {
		c.logger.Warn("cms base url not configured, cannot submit contact message")
		return ErrNotConfigured
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode contact message: %w", err)
	}

	if _, err := c.do(ctx, http.MethodPost, c.URL("contact", nil), bytes.NewReader(payload)); err != nil {
		c.logFailure("contact", err)
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Status: resp.StatusCode, Body: string(data)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

func (c *Client) logFailure(resource string, err error) {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		c.logger.Error("cms responded with error",
			zap.String("resource", resource),
			zap.Int("status", statusErr.Status),
			zap.String("body", statusErr.Body))
	case errors.Is(err, ErrMissingData):
		c.logger.Error("cms response did not include data",
			zap.String("resource", resource),
			zap.Int("status", http.StatusOK),
			zap.Error(err))
	default:
		c.logger.Error("cms request failed",
			zap.String("resource", resource),
			zap.Int("status", 0),
			zap.Error(err))
	}
}

func decodeEnvelope(body []byte, out any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingData, err)
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return ErrMissingData
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingData, err)
	}
	return nil
}

// One fetches a single-entity resource. It returns nil on any failure.
func One[T any](ctx context.Context, g Getter, resource string, q query.Values) *T {
	var v T
	if err := g.Get(ctx, resource, q, &v); err != nil {
		return nil
	}
	return &v
}

// List fetches a list resource. It returns an empty, non-nil slice on any
// failure, so a failed fetch and a valid empty list render alike while
// remaining distinguishable by the logged diagnostic.
func List[T any](ctx context.Context, g Getter, resource string, q query.Values) []T {
	var v []T
	if err := g.Get(ctx, resource, q, &v); err != nil || v == nil {
		return []T{}
	}
	return v
}
