package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTarget  = "ru"
	defaultBaseURL = "https://translate.googleapis.com"
)

// ErrEmptyTranslation is returned when the service answers without text.
var ErrEmptyTranslation = errors.New("empty translation")

// Translator converts text into a target language.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Client calls the public Google Translate endpoint.
type Client struct {
	target     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTarget sets the target language code.
func WithTarget(lang string) Option {
	return func(c *Client) {
		c.target = lang
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a new translation client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		target:     defaultTarget,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate detects the source language and translates text to the target.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyTranslation
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", c.target)
	q.Set("dt", "t")
	q.Set("q", text)
	endpoint := c.baseURL + "/translate_a/single?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var body []any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return parseSegments(body)
}

// parseSegments joins the translated pieces of a response shaped like
// [[["translated","source",...], ...], ...].
func parseSegments(body []any) (string, error) {
	if len(body) == 0 {
		return "", ErrEmptyTranslation
	}
	segments, ok := body[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected response shape: %T", body[0])
	}

	var sb strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			sb.WriteString(s)
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return out, nil
}

// BestEffort wraps a Translator so that any failure yields the input unchanged.
type BestEffort struct {
	next Translator
}

// NewBestEffort decorates next. A nil next disables translation.
func NewBestEffort(next Translator) *BestEffort {
	return &BestEffort{next: next}
}

// Translate returns the translation of text, or text itself on any error.
func (b *BestEffort) Translate(ctx context.Context, text string) string {
	if b == nil || b.next == nil {
		return text
	}
	out, err := b.next.Translate(ctx, text)
	if err != nil {
		slog.Debug("translation skipped", "error", err)
		return text
	}
	return out
}
