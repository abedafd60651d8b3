package domjudge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a single API request.
	DefaultTimeout = 15 * time.Second
	// DefaultMaxBodyBytes limits response payloads to 8 MB.
	DefaultMaxBodyBytes int64 = 8 << 20
)

var (
	// ErrNoBaseURL is returned when the client has no API endpoint.
	ErrNoBaseURL = errors.New("domjudge: base url is not configured")
	// ErrNoContestID is returned when the client has no contest to query.
	ErrNoContestID = errors.New("domjudge: contest id is not configured")
)

// StatusError reports a non-2xx API response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("domjudge: GET %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("domjudge: GET %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Settings captures how to reach the judge API.
type Settings struct {
	// BaseURL points at the API root, e.g. https://judge.example.org/api/v4.
	BaseURL      string
	ContestID    string
	Strict       bool
	Timeout      time.Duration
	MaxBodyBytes int64
}

func (s *Settings) normalize() {
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	s.ContestID = strings.TrimSpace(s.ContestID)
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}
}

// Validate reports missing connection settings.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.BaseURL) == "" {
		return ErrNoBaseURL
	}
	if strings.TrimSpace(s.ContestID) == "" {
		return ErrNoContestID
	}
	return nil
}

// Logger records request progress and malformed records. It matches
// logging.Logger's signature.
type Logger interface {
	Printf(format string, args ...any)
	Warn(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}

// Client fetches contest, team, and group descriptors.
type Client struct {
	settings Settings
	http     *http.Client
	logger   Logger
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient prepares a client using the provided settings.
func NewClient(settings Settings, opts ...Option) *Client {
	settings.normalize()
	c := &Client{
		settings: settings,
		http:     &http.Client{Timeout: settings.Timeout},
		logger:   nopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Contest fetches the contest descriptor.
func (c *Client) Contest(ctx context.Context) (ContestDescriptor, error) {
	body, err := c.get(ctx, "")
	if err != nil {
		return ContestDescriptor{}, err
	}
	return DecodeContest(body)
}

// Teams fetches every team of the contest, hidden ones included.
func (c *Client) Teams(ctx context.Context) ([]TeamDescriptor, error) {
	body, err := c.get(ctx, "teams")
	if err != nil {
		return nil, err
	}
	return DecodeTeams(body, c.logger)
}

// Groups fetches the contest's team categories.
func (c *Client) Groups(ctx context.Context) ([]GroupDescriptor, error) {
	body, err := c.get(ctx, "groups")
	if err != nil {
		return nil, err
	}
	return DecodeGroups(body, c.logger)
}

// endpoint builds {base}/contests/{cid}[/{resource}?strict=...].
func (c *Client) endpoint(resource string) (string, error) {
	if err := c.settings.Validate(); err != nil {
		return "", err
	}
	base, err := url.Parse(c.settings.BaseURL)
	if err != nil {
		return "", fmt.Errorf("domjudge: parse base url: %w", err)
	}
	segments := []string{"contests", url.PathEscape(c.settings.ContestID)}
	if resource != "" {
		segments = append(segments, resource)
	}
	base.Path = strings.TrimRight(base.Path, "/") + "/" + strings.Join(segments, "/")
	base.RawPath = ""
	if resource != "" {
		q := base.Query()
		q.Set("strict", fmt.Sprintf("%t", c.settings.Strict))
		base.RawQuery = q.Encode()
	}
	return base.String(), nil
}

func (c *Client) get(ctx context.Context, resource string) ([]byte, error) {
	target, err := c.endpoint(resource)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("domjudge: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.logger.Printf("domjudge: GET %s", target)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("domjudge: GET %s: %w", target, err)
	}
	defer resp.Body.Close()
	limited := io.LimitReader(resp.Body, c.settings.MaxBodyBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("domjudge: read %s: %w", target, err)
	}
	if int64(len(body)) > c.settings.MaxBodyBytes {
		return nil, fmt.Errorf("domjudge: response from %s exceeds %d bytes", target, c.settings.MaxBodyBytes)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode, Body: snippet(body)}
	}
	return body, nil
}

const maxSnippetRunes = 200

func snippet(body []byte) string {
	text := []rune(strings.TrimSpace(string(body)))
	if len(text) > maxSnippetRunes {
		return string(text[:maxSnippetRunes]) + "..."
	}
	return string(text)
}
