package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Harvest   HarvestConfig
	Widget    WidgetConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 4

	// DefaultProxy is the default proxy URL for all requests.
	DefaultProxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// HarvestConfig controls the acquisition protocol timing.
//
// The defaults mirror the cadence the widget was measured against:
// a long settle between load polls (in-flight batches can take
// several seconds to land), short settles around individual clicks.
type HarvestConfig struct {
	// DefaultTimeout is the per-request deadline for one full
	// acquisition (navigation through snapshot).
	DefaultTimeout time.Duration // default: 300s

	// MaxTimeout is the maximum allowed timeout from the client.
	MaxTimeout time.Duration // default: 600s

	// ContainerTimeout bounds the wait for the review container to
	// become visible. Failing it is fatal to the whole run.
	ContainerTimeout time.Duration // default: 30s

	// LoadSettle is the pause before each load-poll iteration.
	LoadSettle time.Duration // default: 10s

	// MaxLoadAttempts caps the convergence loop. Exceeding it turns
	// "never converges" into an explicit error instead of spinning
	// against a misbehaving widget.
	MaxLoadAttempts int // default: 120

	// ClickTimeout is the per-click deadline inside the guarded
	// interaction wrapper.
	ClickTimeout time.Duration // default: 2s

	// ClickSettle is the pause before each expander click.
	ClickSettle time.Duration // default: 2s

	// MinExpandPasses is the floor on expansion passes. Expander
	// controls can reappear after reflow, so the loop keeps polling
	// for this many passes even when a query comes back empty.
	MinExpandPasses int // default: 10

	// MaxExpandPasses caps the expansion loop.
	MaxExpandPasses int // default: 60

	// FinalSettle is the pause before the markup snapshot is taken.
	FinalSettle time.Duration // default: 2s

	// BlockedResourceTypes lists resource types to block during
	// acquisition. Stylesheets stay enabled: expander visibility
	// depends on rendered layout.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string
}

// WidgetConfig pins the CSS contract of the review widget. The
// defaults target the business-card review widget; overriding them
// lets a deployment track markup changes without a rebuild.
type WidgetConfig struct {
	ContainerSelector string // default: ".business-reviews-card-view__reviews-container"
	ItemSelector      string // default: ".business-reviews-card-view__review"
	ExpanderSelector  string // default: `.business-review-view__expand[aria-hidden="false"]`
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per API key.
	Burst int // default: 3
}

// CacheConfig controls the review response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int // default: 500
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("MAPREVIEWS_HOST", "0.0.0.0"),
			Port: envIntOr("MAPREVIEWS_PORT", 8080),
			Mode: envOr("MAPREVIEWS_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("MAPREVIEWS_HEADLESS", true),
			MaxPages:     envIntOr("MAPREVIEWS_MAX_PAGES", 4),
			DefaultProxy: os.Getenv("MAPREVIEWS_PROXY"),
			NoSandbox:    envBoolOr("MAPREVIEWS_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("MAPREVIEWS_BROWSER_BIN"),
		},
		Harvest: HarvestConfig{
			DefaultTimeout:   envDurationOr("MAPREVIEWS_DEFAULT_TIMEOUT", 300*time.Second),
			MaxTimeout:       envDurationOr("MAPREVIEWS_MAX_TIMEOUT", 600*time.Second),
			ContainerTimeout: envDurationOr("MAPREVIEWS_CONTAINER_TIMEOUT", 30*time.Second),
			LoadSettle:       envDurationOr("MAPREVIEWS_LOAD_SETTLE", 10*time.Second),
			MaxLoadAttempts:  envIntOr("MAPREVIEWS_MAX_LOAD_ATTEMPTS", 120),
			ClickTimeout:     envDurationOr("MAPREVIEWS_CLICK_TIMEOUT", 2*time.Second),
			ClickSettle:      envDurationOr("MAPREVIEWS_CLICK_SETTLE", 2*time.Second),
			MinExpandPasses:  envIntOr("MAPREVIEWS_MIN_EXPAND_PASSES", 10),
			MaxExpandPasses:  envIntOr("MAPREVIEWS_MAX_EXPAND_PASSES", 60),
			FinalSettle:      envDurationOr("MAPREVIEWS_FINAL_SETTLE", 2*time.Second),
			BlockedResourceTypes: envSliceOr("MAPREVIEWS_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
		},
		Widget: WidgetConfig{
			ContainerSelector: envOr("MAPREVIEWS_CONTAINER_SELECTOR",
				".business-reviews-card-view__reviews-container"),
			ItemSelector: envOr("MAPREVIEWS_ITEM_SELECTOR",
				".business-reviews-card-view__review"),
			ExpanderSelector: envOr("MAPREVIEWS_EXPANDER_SELECTOR",
				`.business-review-view__expand[aria-hidden="false"]`),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("MAPREVIEWS_AUTH_ENABLED", true),
			APIKeys: envSliceOr("MAPREVIEWS_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("MAPREVIEWS_RATE_RPS", 1.0),
			Burst:             envIntOr("MAPREVIEWS_RATE_BURST", 3),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("MAPREVIEWS_CACHE_MAX_ENTRIES", 500),
		},
		Log: LogConfig{
			Level:  envOr("MAPREVIEWS_LOG_LEVEL", "info"),
			Format: envOr("MAPREVIEWS_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
