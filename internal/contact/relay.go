package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
	"resty.dev/v3"
)

const (
	defaultRelayTimeout   = 10 * time.Second
	defaultRelayPerSecond = 2
)

var (
	// ErrRelayFailed wraps every unsuccessful relay attempt.
	ErrRelayFailed = errors.New("contact: relay failed")
	// ErrRelayNotConfigured is returned by NoopRelay.
	ErrRelayNotConfigured = errors.New("contact: relay not configured")
)

// Relay delivers a validated inquiry.
type Relay interface {
	Submit(ctx context.Context, form Form) error
}

// RelayConfig configures RelayClient.
type RelayConfig struct {
	URL       string
	Timeout   time.Duration
	PerSecond int
}

// RelayClient posts inquiries as JSON to a form relay endpoint. Any 2xx is a
// success; it never retries.
type RelayClient struct {
	url    string
	http   *resty.Client
	rl     ratelimit.Limiter
	logger *zap.Logger
}

// NewRelayClient builds a client. When cfg.URL is empty it returns a NoopRelay.
func NewRelayClient(cfg RelayConfig, logger *zap.Logger) Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	target := strings.TrimSpace(cfg.URL)
	if target == "" {
		return NoopRelay{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRelayTimeout
	}
	perSecond := cfg.PerSecond
	if perSecond <= 0 {
		perSecond = defaultRelayPerSecond
	}
	return &RelayClient{
		url: target,
		http: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("Accept", "application/json"),
		rl:     ratelimit.New(perSecond),
		logger: logger.Named("contact"),
	}
}

type relayPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Submit sends the inquiry. The inquiry type is sent as its label in the
// form's language so the recipient reads the wording the visitor picked.
func (c *RelayClient) Submit(ctx context.Context, form Form) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrRelayFailed, err)
	}
	if err := c.wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRelayFailed, err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(relayPayload{
			Name:    form.Name,
			Email:   form.Email,
			Type:    form.Type.Label(form.Lang),
			Message: form.Message,
		}).
		Post(c.url)
	if err != nil {
		c.logger.Warn("contact relay request failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrRelayFailed, err)
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		c.logger.Warn("contact relay rejected submission", zap.Int("status", code))
		return fmt.Errorf("%w: status %d", ErrRelayFailed, code)
	}
	c.logger.Info("contact submission relayed", zap.String("type", string(form.Type)))
	return nil
}

// wait blocks for a rate limiter slot or until ctx ends. The slot is still
// consumed when ctx ends first.
func (c *RelayClient) wait(ctx context.Context) error {
	taken := make(chan struct{})
	go func() {
		c.rl.Take()
		close(taken)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-taken:
		return ctx.Err()
	}
}

// Close releases idle connections.
func (c *RelayClient) Close() error {
	return c.http.Close()
}

// NoopRelay rejects every submission so visitors see an error instead of a
// silently dropped message.
type NoopRelay struct{}

func (NoopRelay) Submit(context.Context, Form) error {
	return fmt.Errorf("%w: %w", ErrRelayFailed, ErrRelayNotConfigured)
}
