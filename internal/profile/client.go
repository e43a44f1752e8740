// Package profile reads display attributes for user ids from the external
// profile service. The engine never stores these; they are attached to
// responses on request.
package profile

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"circletrust/backend/internal/apperr"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Profile is the public part of a user profile.
type Profile struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// Config configures the client.
type Config struct {
	BaseURL string
	// Timeout bounds each request to the profile service.
	Timeout time.Duration
	// Concurrency bounds parallel lookups in Hydrate.
	Concurrency int

	// Circuit breaker settings.
	BreakerMinRequests      uint32
	BreakerFailureThreshold float64
	BreakerInterval         time.Duration
	BreakerOpenTimeout      time.Duration
}

// DefaultConfig returns defaults for baseURL.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:                 baseURL,
		Timeout:                 2 * time.Second,
		Concurrency:             8,
		BreakerMinRequests:      5,
		BreakerFailureThreshold: 0.6,
		BreakerInterval:         30 * time.Second,
		BreakerOpenTimeout:      15 * time.Second,
	}
}

// Client looks up profiles behind a circuit breaker. Concurrent lookups for
// the same id share one request.
type Client struct {
	http        *resty.Client
	breaker     *gobreaker.CircuitBreaker
	group       singleflight.Group
	concurrency int
	logger      *zap.Logger
}

// NewClient builds a client. A nil logger disables logging.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	def := DefaultConfig(cfg.BaseURL)
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.BreakerMinRequests == 0 {
		cfg.BreakerMinRequests = def.BreakerMinRequests
	}
	if cfg.BreakerFailureThreshold <= 0 {
		cfg.BreakerFailureThreshold = def.BreakerFailureThreshold
	}
	if cfg.BreakerInterval <= 0 {
		cfg.BreakerInterval = def.BreakerInterval
	}
	if cfg.BreakerOpenTimeout <= 0 {
		cfg.BreakerOpenTimeout = def.BreakerOpenTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "profile-service",
		Interval: cfg.BreakerInterval,
		Timeout:  cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.BreakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// A missing profile is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, apperr.ErrNotFound)
		},
	})

	return &Client{
		http:        httpClient,
		breaker:     breaker,
		concurrency: cfg.Concurrency,
		logger:      logger,
	}
}

// Get fetches one profile. It returns apperr.ErrNotFound for unknown users
// and apperr.ErrUpstreamUnavailable when the service fails or the breaker
// is open.
func (c *Client) Get(ctx context.Context, userID string) (Profile, error) {
	ch := c.group.DoChan(userID, func() (any, error) {
		// Shared by every caller, so it must not die with the first one.
		return c.breaker.Execute(func() (any, error) {
			return c.fetch(context.WithoutCancel(ctx), userID)
		})
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			if errors.Is(res.Err, gobreaker.ErrOpenState) || errors.Is(res.Err, gobreaker.ErrTooManyRequests) {
				return Profile{}, fmt.Errorf("profile %s: %w: %w", userID, apperr.ErrUpstreamUnavailable, res.Err)
			}
			return Profile{}, res.Err
		}
		return res.Val.(Profile), nil
	case <-ctx.Done():
		return Profile{}, ctx.Err()
	}
}

func (c *Client) fetch(ctx context.Context, userID string) (Profile, error) {
	var p Profile
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&p).
		Get("/users/" + url.PathEscape(userID) + "/public")
	if err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w: %w", userID, apperr.ErrUpstreamUnavailable, err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return Profile{}, fmt.Errorf("profile %s: %w", userID, apperr.ErrNotFound)
	case resp.StatusCode() != http.StatusOK:
		return Profile{}, fmt.Errorf("profile %s: %w: status %d", userID, apperr.ErrUpstreamUnavailable, resp.StatusCode())
	}
	if p.UserID == "" {
		p.UserID = userID
	}
	return p, nil
}

// Hydrate looks up every distinct id with bounded concurrency. Lookups that
// fail are left out of the result; Hydrate itself never fails.
func (c *Client) Hydrate(ctx context.Context, ids []string) map[string]Profile {
	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			unique[id] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(unique))
	for id := range unique {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	var (
		mu  sync.Mutex
		out = make(map[string]Profile, len(sorted))
		g   errgroup.Group
	)
	g.SetLimit(c.concurrency)
	for _, id := range sorted {
		id := id
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			p, err := c.Get(ctx, id)
			if err != nil {
				c.logger.Debug("profile lookup failed", zap.String("user_id", id), zap.Error(err))
				return nil
			}
			mu.Lock()
			out[id] = p
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}
