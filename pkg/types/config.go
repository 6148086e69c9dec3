package types

import "time"

// HTTPConfig holds settings for the outbound GovInfo client.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "govinfo-table/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429 and 5xx (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RateLimit is the sustained request rate in requests per second.
	// GovInfo allows 36,000 requests per hour on a data.gov key.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`

	// RateBurst is the number of requests allowed at once.
	RateBurst int `json:"rate_burst" yaml:"rate_burst" mapstructure:"rate_burst"`
}

// CacheConfig holds settings for the sqlite response cache.
type CacheConfig struct {
	// Path is the sqlite database file. ":memory:" keeps the cache in
	// process.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// ExpireAfter is how long a cached response stays fresh (default 180s).
	ExpireAfter time.Duration `json:"expire_after" yaml:"expire_after" mapstructure:"expire_after"`

	// Disabled skips the cache entirely.
	Disabled bool `json:"disabled" yaml:"disabled" mapstructure:"disabled"`
}

// GovInfoConfig holds settings for the GovInfo adapter family.
type GovInfoConfig struct {
	// Host is the URI authority the classifier accepts.
	Host string `json:"host" yaml:"host" mapstructure:"host"`

	// BaseURL, when set, replaces scheme://host for outgoing requests.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// APIKey is used when the table URI carries no api_key parameter.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// Config groups every setting of the govinfo-table binary.
type Config struct {
	HTTP    HTTPConfig    `json:"http" yaml:"http" mapstructure:"http"`
	Cache   CacheConfig   `json:"cache" yaml:"cache" mapstructure:"cache"`
	GovInfo GovInfoConfig `json:"govinfo" yaml:"govinfo" mapstructure:"govinfo"`

	// SecretsDir holds API key files (default ".secrets").
	SecretsDir string `json:"secrets_dir" yaml:"secrets_dir" mapstructure:"secrets_dir"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:    30 * time.Second,
			UserAgent:  "govinfo-table/0.1",
			MaxRetries: 3,
			RateLimit:  10,
			RateBurst:  5,
		},
		Cache: CacheConfig{
			Path:        "govinfo_cache.sqlite",
			ExpireAfter: 180 * time.Second,
		},
		GovInfo: GovInfoConfig{
			Host: "api.govinfo.gov",
		},
		SecretsDir: ".secrets",
	}
}
