// Package pokeapi is a rate-limited client for the public PokeAPI.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public PokeAPI v2 endpoint
	DefaultBaseURL = "https://pokeapi.co/api/v2"
	// DefaultRequestInterval paces requests to stay polite to the public API
	DefaultRequestInterval = 150 * time.Millisecond

	maxResponseSize = 5 << 20
)

var (
	// ErrNotFound is returned when PokeAPI answers 404
	ErrNotFound = errors.New("pokeapi: resource not found")
	// ErrUnavailable is returned on transport failures and 5xx answers
	ErrUnavailable = errors.New("pokeapi: service unavailable")
)

// Config configures a Client
type Config struct {
	BaseURL         string
	RequestInterval time.Duration
	Timeout         time.Duration
}

// Client fetches catalog data from PokeAPI. Every request, whatever the
// caller's concurrency, waits on a shared token bucket.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets the client logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Client
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestInterval <= 0 {
		cfg.RequestInterval = DefaultRequestInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: rate.NewLimiter(rate.Every(cfg.RequestInterval), 1),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListPokemon returns the first limit entries in pokedex order
func (c *Client) ListPokemon(ctx context.Context, limit int) ([]NamedResource, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", "0")

	var list ResourceList
	if err := c.get(ctx, c.baseURL+"/pokemon?"+q.Encode(), &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// GetPokemon fetches an entry by name or by the URL a list returned
func (c *Client) GetPokemon(ctx context.Context, nameOrURL string) (*Pokemon, error) {
	var p Pokemon
	if err := c.get(ctx, c.resolve("pokemon", nameOrURL), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetSpecies fetches species data by name or URL
func (c *Client) GetSpecies(ctx context.Context, nameOrURL string) (*Species, error) {
	var s Species
	if err := c.get(ctx, c.resolve("pokemon-species", nameOrURL), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) resolve(resource, nameOrURL string) string {
	if strings.HasPrefix(nameOrURL, "http://") || strings.HasPrefix(nameOrURL, "https://") {
		return nameOrURL
	}
	return c.baseURL + "/" + resource + "/" + url.PathEscape(strings.ToLower(nameOrURL))
}

func (c *Client) get(ctx context.Context, target string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("pokeapi: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("PokeAPI request",
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, target)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("pokeapi: request failed: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("pokeapi: failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("pokeapi: failed to decode response: %w", err)
	}
	return nil
}
