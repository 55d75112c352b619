// Package prayertime fetches daily prayer times from an external provider.
// Calls go through a circuit breaker; when the provider is unavailable the
// client falls back to fixed approximate times so schedule generation keeps
// working with slightly coarser prayer buffering.
package prayertime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kampungcare/medsched/internal/cultural/profile"
	"github.com/kampungcare/medsched/pkg/circuitbreaker"
)

// Config holds configuration for the prayer time client
type Config struct {
	// BaseURL is the provider endpoint, e.g. the e-solat JAKIM mirror
	BaseURL string
	// Timeout is the per-request timeout
	Timeout time.Duration
	// CacheTTL is how long a zone's daily times stay cached
	CacheTTL time.Duration
}

// DefaultConfig returns defaults for the Malaysian e-solat provider
func DefaultConfig() Config {
	return Config{
		BaseURL:  "https://www.e-solat.gov.my/index.php",
		Timeout:  5 * time.Second,
		CacheTTL: 6 * time.Hour,
	}
}

// Client fetches prayer windows for a geographic zone
type Client struct {
	config  Config
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewClient creates a prayer time client with a dedicated circuit breaker
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cb, err := circuitbreaker.New(circuitbreaker.DefaultConfig("prayer-time-provider"), logger)
	if err != nil {
		return nil, fmt.Errorf("create breaker: %w", err)
	}

	return &Client{
		config:  cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: cb,
		logger:  logger,
	}, nil
}

// providerResponse mirrors the e-solat daily payload
type providerResponse struct {
	PrayerTime []struct {
		Fajr    string `json:"fajr"`
		Dhuhr   string `json:"dhuhr"`
		Asr     string `json:"asr"`
		Maghrib string `json:"maghrib"`
		Isha    string `json:"isha"`
	} `json:"prayerTime"`
}

// DailyWindows returns the five prayer windows for a zone code such as
// "SGR01". When the circuit is open it returns approximate fallback times.
func (c *Client) DailyWindows(ctx context.Context, zone string) ([]profile.PrayerWindow, error) {
	result, err := c.breaker.ExecuteWithFallback(ctx,
		func() (interface{}, error) {
			return c.fetch(ctx, zone)
		},
		func(cbErr error) (interface{}, error) {
			c.logger.Warn("prayer provider unavailable, using approximate times",
				zap.String("zone", zone), zap.Error(cbErr))
			return FallbackWindows(), nil
		})
	if err != nil {
		return nil, err
	}
	return result.([]profile.PrayerWindow), nil
}

func (c *Client) fetch(ctx context.Context, zone string) ([]profile.PrayerWindow, error) {
	q := url.Values{}
	q.Set("r", "esolatApi/takwimsolat")
	q.Set("period", "today")
	q.Set("zone", zone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned %d", resp.StatusCode)
	}

	var payload providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(payload.PrayerTime) == 0 {
		return nil, fmt.Errorf("provider returned no prayer times for zone %s", zone)
	}

	day := payload.PrayerTime[0]
	return parseWindows(map[string]string{
		"subuh":   day.Fajr,
		"zohor":   day.Dhuhr,
		"asar":    day.Asr,
		"maghrib": day.Maghrib,
		"isyak":   day.Isha,
	})
}

// parseWindows converts provider "HH:MM:SS" strings into prayer windows,
// kept in canonical order.
func parseWindows(raw map[string]string) ([]profile.PrayerWindow, error) {
	order := []string{"subuh", "zohor", "asar", "maghrib", "isyak"}

	var windows []profile.PrayerWindow
	for _, name := range order {
		s := raw[name]
		if len(s) > 5 {
			s = s[:5]
		}
		t, err := profile.ParseTimeOfDay(s)
		if err != nil {
			return nil, fmt.Errorf("parse %s time %q: %w", name, raw[name], err)
		}
		windows = append(windows, profile.PrayerWindow{Name: name, Time: t})
	}
	return windows, nil
}

// FallbackWindows returns approximate prayer times for peninsular Malaysia.
// Used when the provider is unreachable; households still get buffering,
// just not zone-exact times.
func FallbackWindows() []profile.PrayerWindow {
	return []profile.PrayerWindow{
		{Name: "subuh", Time: profile.MustTimeOfDay("05:45")},
		{Name: "zohor", Time: profile.MustTimeOfDay("13:15")},
		{Name: "asar", Time: profile.MustTimeOfDay("16:30")},
		{Name: "maghrib", Time: profile.MustTimeOfDay("19:20")},
		{Name: "isyak", Time: profile.MustTimeOfDay("20:30")},
	}
}

// BreakerState exposes the circuit state for health reporting
func (c *Client) BreakerState() circuitbreaker.State {
	return c.breaker.GetState()
}
