// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file, and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the ops HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// SteamAPIKey authenticates requests to the Steam Web API.
	SteamAPIKey string `koanf:"steam_api_key"`

	// SteamAPIURL is the Steam Web API base URL.
	SteamAPIURL string `koanf:"steam_api_url"`

	// BanURL is the enforcement service endpoint.
	BanURL string `koanf:"ban_url"`

	// CloudWhitelistURL serves the newline-separated remote whitelist.
	CloudWhitelistURL string `koanf:"cloud_whitelist_url"`

	// RconLogPath is the connection log scanned for identifiers.
	RconLogPath string `koanf:"rcon_log_path"`

	// WhitelistPath is the local whitelist file, read once at startup.
	WhitelistPath string `koanf:"whitelist_path"`

	// SuspectLogPath is the suspected-account audit file.
	SuspectLogPath string `koanf:"suspect_log_path"`

	// AppID is the title whose playtime feeds the score.
	AppID int `koanf:"app_id"`

	// PollIntervalSeconds is the sleep between poll cycles.
	PollIntervalSeconds int `koanf:"poll_interval_seconds"`

	// BanThreshold is the score below which enforcement is attempted.
	BanThreshold int `koanf:"ban_threshold"`

	// BanLimit caps ban actions per rate window.
	BanLimit int `koanf:"ban_limit"`

	// BanWindowMinutes is the rate window duration.
	BanWindowMinutes int `koanf:"ban_window_minutes"`

	// BanDuration is the exclusion period sent with each ban, e.g. "7d".
	BanDuration string `koanf:"ban_duration"`

	// RetryAttempts bounds profile and ban request retries.
	RetryAttempts int `koanf:"retry_attempts"`

	// RetryDelaySeconds is the fixed delay between retry attempts.
	RetryDelaySeconds int `koanf:"retry_delay_seconds"`

	// RequestTimeoutSeconds is the per-request HTTP timeout.
	RequestTimeoutSeconds int `koanf:"request_timeout_seconds"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9090",
		SteamAPIKey:           "",
		SteamAPIURL:           "http://api.steampowered.com",
		BanURL:                "",
		CloudWhitelistURL:     "",
		RconLogPath:           "rconlog.txt",
		WhitelistPath:         "white.txt",
		SuspectLogPath:        "suspected.txt",
		AppID:                 393380,
		PollIntervalSeconds:   120,
		BanThreshold:          50,
		BanLimit:              12,
		BanWindowMinutes:      25,
		BanDuration:           "7d",
		RetryAttempts:         3,
		RetryDelaySeconds:     2,
		RequestTimeoutSeconds: 10,
	}
}
