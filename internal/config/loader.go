package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates the configuration file at path. Environment
// variable references (secret_env and friends) are resolved here, so the
// returned Config is ready to use.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.resolveEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveEnv fills secret-bearing fields from their _env references. An env
// reference that is set but empty is treated as unset.
func (c *Config) resolveEnv() error {
	if c.Webhook.SecretEnv != "" {
		if v := os.Getenv(c.Webhook.SecretEnv); v != "" {
			c.Webhook.Secret = v
		}
	}
	if c.Chat.UserIDEnv != "" {
		if v := os.Getenv(c.Chat.UserIDEnv); v != "" {
			c.Chat.UserID = v
		}
	}
	if c.Chat.AuthTokenEnv != "" {
		if v := os.Getenv(c.Chat.AuthTokenEnv); v != "" {
			c.Chat.AuthToken = v
		}
	}
	return nil
}

// Validate checks the configuration for completeness and coherence.
func (c *Config) Validate() error {
	if c.Webhook.Listen == "" {
		return fmt.Errorf("webhook.listen is required")
	}
	if !strings.HasPrefix(c.Webhook.Path, "/") {
		return fmt.Errorf("webhook.path must start with '/', got %q", c.Webhook.Path)
	}
	if c.Webhook.Secret == "" {
		return fmt.Errorf("webhook secret is not configured (set webhook.secret or the %s environment variable)",
			c.Webhook.SecretEnv)
	}
	if _, err := c.Webhook.MaxBodySizeBytes(); err != nil {
		return fmt.Errorf("webhook.max_body_size: %w", err)
	}

	if c.Chat.BaseURL == "" {
		return fmt.Errorf("chat.base_url is required")
	}
	if err := validateHTTPURL("chat.base_url", c.Chat.BaseURL); err != nil {
		return err
	}
	if c.Chat.UserID == "" || c.Chat.AuthToken == "" {
		return fmt.Errorf("chat credentials are not configured (set chat.user_id/auth_token or their _env references)")
	}

	if c.RFD.ParentChannel == "" {
		return fmt.Errorf("rfd.parent_channel is required")
	}
	if c.RFD.SiteURL != "" {
		if err := validateHTTPURL("rfd.site_url", c.RFD.SiteURL); err != nil {
			return err
		}
	}

	if c.State.Path == "" {
		return fmt.Errorf("state.path is required")
	}
	return nil
}

// DiscussionSiteURL returns the site used in generated discussion links:
// rfd.site_url when set, otherwise the chat base URL.
func (c *Config) DiscussionSiteURL() string {
	if c.RFD.SiteURL != "" {
		return strings.TrimRight(c.RFD.SiteURL, "/")
	}
	return strings.TrimRight(c.Chat.BaseURL, "/")
}

// MaxBodySizeBytes parses size strings like "1MB" or "2048576" to bytes.
// Returns the webhook default when empty.
func (w *WebhookConfig) MaxBodySizeBytes() (int64, error) {
	size := w.MaxBodySize
	if size == "" {
		return DefaultMaxBodySize, nil
	}

	upper := strings.ToUpper(size)
	multiplier := int64(1)

	if strings.HasSuffix(upper, "KB") {
		multiplier = 1024
		size = strings.TrimSuffix(upper, "KB")
	} else if strings.HasSuffix(upper, "MB") {
		multiplier = 1024 * 1024
		size = strings.TrimSuffix(upper, "MB")
	} else if strings.HasSuffix(upper, "GB") {
		multiplier = 1024 * 1024 * 1024
		size = strings.TrimSuffix(upper, "GB")
	}

	value, err := strconv.ParseInt(strings.TrimSpace(size), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value: %w", err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("size must be positive")
	}

	result := value * multiplier
	if result < 0 { // overflow
		return 0, fmt.Errorf("size too large")
	}
	return result, nil
}

// DefaultMaxBodySize bounds webhook bodies when max_body_size is unset.
const DefaultMaxBodySize = 1048576 // 1 MB

func validateHTTPURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: URL must be http or https, got %q", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s: URL has no host: %q", field, raw)
	}
	return nil
}
