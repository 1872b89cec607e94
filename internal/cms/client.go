// Package cms reads objects and lists from the headless content store.
//
// The client never reports failures to callers: a missing configuration,
// network error, non-2xx status, or undecodable body yields a nil object or an
// empty list, and the reason is logged. Pages render with fallback copy instead
// of failing.
package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"

	"saraobi.com/web/internal/content"
	"saraobi.com/web/internal/requestctx"
)

const (
	defaultTimeout   = 5 * time.Second
	defaultListLimit = 100
	apiKeyHeader     = "X-MICROCMS-API-KEY"
)

// ErrNotConfigured is logged when a fetch is attempted without credentials.
var ErrNotConfigured = errors.New("cms: not configured")

// Config holds the content store credentials. BaseURL overrides the URL derived
// from ServiceDomain (used for tests and proxies).
type Config struct {
	ServiceDomain string
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	CacheTTL      time.Duration
}

// ListOptions are forwarded as query parameters on list requests.
type ListOptions struct {
	Limit   int
	Offset  int
	Orders  string
	Filters string
	Fields  []string
}

// Client fetches records by endpoint name.
type Client struct {
	baseURL    string
	apiKey     string
	configured bool
	http       *resty.Client
	logger     *zap.Logger
	cache      *recordCache
}

// NewClient builds a client. When credentials are missing the client is still
// usable but reports Configured() == false and performs no requests.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := strings.TrimSpace(cfg.BaseURL)
	domain := strings.TrimSpace(cfg.ServiceDomain)
	if base == "" && domain != "" {
		base = fmt.Sprintf("https://%s.microcms.io/api/v1", domain)
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	c := &Client{
		baseURL:    strings.TrimRight(base, "/"),
		apiKey:     apiKey,
		configured: base != "" && apiKey != "",
		logger:     logger.Named("cms"),
		http: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("Accept", "application/json"),
	}
	if cfg.CacheTTL > 0 {
		c.cache = newRecordCache(cfg.CacheTTL)
	}
	return c
}

// Configured reports whether credentials were supplied.
func (c *Client) Configured() bool {
	return c != nil && c.configured
}

// Close releases idle connections.
func (c *Client) Close() error {
	if c == nil || c.http == nil {
		return nil
	}
	return c.http.Close()
}

// FetchObject returns the object endpoint, or nil on any failure.
func (c *Client) FetchObject(ctx context.Context, endpoint string) content.Record {
	body, ok := c.get(ctx, endpoint, nil)
	if !ok {
		return nil
	}
	rec, err := content.DecodeRecord(body)
	if err != nil {
		c.log(ctx).Warn("cms object decode failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil
	}
	return rec
}

type listPayload struct {
	Contents   []content.Record `json:"contents"`
	TotalCount int              `json:"totalCount"`
	Offset     int              `json:"offset"`
	Limit      int              `json:"limit"`
}

// FetchList returns the contents of the list endpoint, or an empty slice on any failure.
func (c *Client) FetchList(ctx context.Context, endpoint string, opts ListOptions) []content.Record {
	body, ok := c.get(ctx, endpoint, opts.query())
	if !ok {
		return []content.Record{}
	}
	var payload listPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.log(ctx).Warn("cms list decode failed", zap.String("endpoint", endpoint), zap.Error(err))
		return []content.Record{}
	}
	out := make([]content.Record, 0, len(payload.Contents))
	for _, rec := range payload.Contents {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	limit := o.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	q.Set("limit", strconv.Itoa(limit))
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.Orders != "" {
		q.Set("orders", o.Orders)
	}
	if o.Filters != "" {
		q.Set("filters", o.Filters)
	}
	if len(o.Fields) > 0 {
		q.Set("fields", strings.Join(o.Fields, ","))
	}
	return q
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values) ([]byte, bool) {
	if !c.Configured() {
		c.log(ctx).Debug("cms fetch skipped", zap.String("endpoint", endpoint), zap.Error(ErrNotConfigured))
		return nil, false
	}
	endpoint = strings.Trim(strings.TrimSpace(endpoint), "/")
	if endpoint == "" || strings.Contains(endpoint, "..") {
		c.log(ctx).Warn("cms invalid endpoint", zap.String("endpoint", endpoint))
		return nil, false
	}
	target, err := url.JoinPath(c.baseURL, endpoint)
	if err != nil {
		c.log(ctx).Warn("cms endpoint join failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, false
	}
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	if body, ok := c.cache.get(target); ok {
		return body, true
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(apiKeyHeader, c.apiKey).
		Get(target)
	if err != nil {
		c.log(ctx).Warn("cms request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, false
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		c.log(ctx).Warn("cms unexpected status",
			zap.String("endpoint", endpoint),
			zap.Int("status", code),
		)
		return nil, false
	}
	body := []byte(resp.String())
	c.cache.put(target, body)
	return body, true
}

func (c *Client) log(ctx context.Context) *zap.Logger {
	if l := requestctx.Logger(ctx); l != requestctx.NoopLogger() {
		return l.Named("cms")
	}
	if c == nil || c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}
