package statsapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/pitchsync/internal/domain/team"
	"github.com/riskibarqy/pitchsync/internal/domain/venue"
	"github.com/riskibarqy/pitchsync/internal/platform/cache"
	"github.com/riskibarqy/pitchsync/internal/platform/logging"
	"github.com/riskibarqy/pitchsync/internal/platform/resilience"
	"github.com/riskibarqy/pitchsync/internal/usecase"
)

const (
	defaultBaseURL    = "https://statsapi.mlb.com/api"
	defaultTimeout    = 20 * time.Second
	defaultRateLimit  = 10
	defaultRateBurst  = 5
	maxResponseBytes  = 32 << 20
	fallbackMemoTTL   = 6 * time.Hour
	userAgent         = "pitchsync/1.0"
	venueHydrateParam = "location,fieldInfo"
)

var errStatsAPITransient = crerr.New("statsapi transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	// RateLimit is requests per second across all endpoints; zero uses the default.
	RateLimit      float64
	RateBurst      int
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
	Normalizer     Normalizer
}

// Client talks to the public stats API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	limiter    *rate.Limiter
	logger     *logging.Logger
	breaker    *resilience.Breaker
	flight     resilience.Group[string, []byte]
	normalizer Normalizer
	validate   *validator.Validate

	venuesByID *cache.Memo[int64, venue.Venue]
	teamsByID  *cache.Memo[int64, team.Team]
}

func NewClient(cfg ClientConfig) *Client {
	logger := logging.OrDefault(cfg.Logger).Named("statsapi")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = defaultRateLimit
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = defaultRateBurst
	}

	normalizer := cfg.Normalizer
	if normalizer == nil {
		normalizer = DefaultNormalizer()
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		maxRetries: max(cfg.MaxRetries, 0),
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
		breaker:    resilience.NewBreaker(cfg.CircuitBreaker),
		normalizer: normalizer,
		validate:   validator.New(),
		venuesByID: cache.NewMemo[int64, venue.Venue](fallbackMemoTTL),
		teamsByID:  cache.NewMemo[int64, team.Team](fallbackMemoTTL),
	}
}

// doJSON fetches path, applies the normalizer and decodes into target. The raw
// normalized payload is returned for archiving.
func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) ([]byte, error) {
	raw, err := c.fetch(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return raw, nil
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, crerr.Mark(crerr.Wrapf(err, "decode %s", path), usecase.ErrParse)
	}
	return raw, nil
}

// fetch issues one GET through the breaker, collapsing identical in-flight
// requests into a single call.
func (c *Client) fetch(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err, _ := c.flight.DoContext(ctx, fullURL, func() ([]byte, error) {
		var body []byte
		execErr := c.breaker.Execute(func() error {
			var reqErr error
			body, reqErr = c.executeRequest(ctx, fullURL)
			return reqErr
		}, isTransient)
		return body, execErr
	})
	if err != nil {
		return nil, classify(err)
	}
	return c.normalizer.Normalize(path, raw), nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, crerr.Mark(crerr.Wrap(err, "wait for rate limiter"), errStatsAPITransient)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("user-agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Mark(crerr.Wrap(err, "send request"), errStatsAPITransient)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Mark(crerr.Wrap(readErr, "read response body"), errStatsAPITransient)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, crerr.Wrapf(usecase.ErrNotFound, "provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Mark(crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw)), errStatsAPITransient)
			default:
				return nil, crerr.Wrapf(usecase.ErrInvalidInput, "provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, crerr.Mark(ctx.Err(), errStatsAPITransient)
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.Mark(crerr.New("provider request failed"), errStatsAPITransient)
	}
	c.logger.WarnContext(ctx, "statsapi request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// classify maps client failures onto the pipeline's error taxonomy.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case crerr.Is(err, resilience.ErrCircuitOpen):
		return crerr.Mark(crerr.Wrap(err, "stats provider is temporarily unavailable"), usecase.ErrDependencyUnavailable)
	case crerr.Is(err, errStatsAPITransient):
		return crerr.Mark(err, usecase.ErrNetwork)
	default:
		return err
	}
}

func isTransient(err error) bool {
	return crerr.Is(err, errStatsAPITransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

// check validates a mapped record, marking failures as malformed payloads.
func (c *Client) check(record any, what string) error {
	if err := c.validate.Struct(record); err != nil {
		return crerr.Mark(crerr.Wrapf(err, "validate %s", what), usecase.ErrParse)
	}
	return nil
}
