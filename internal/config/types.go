package config

// Config represents the complete rfd-discussd configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	State   StateConfig   `yaml:"state"`
	Webhook WebhookConfig `yaml:"webhook"`
	Chat    ChatConfig    `yaml:"chat"`
	RFD     RFDConfig     `yaml:"rfd"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name      string `yaml:"name"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// StateConfig defines state storage settings.
type StateConfig struct {
	Path string `yaml:"path"`
}

// WebhookConfig defines the HTTP listener for incoming RFD events.
type WebhookConfig struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`

	// Secret is the shared HMAC key. SecretEnv names an environment
	// variable and takes precedence; it keeps the key out of the file.
	Secret    string `yaml:"secret,omitempty"`
	SecretEnv string `yaml:"secret_env,omitempty"`

	// MaxBodySize accepts values like "1MB" or a bare byte count.
	MaxBodySize string `yaml:"max_body_size,omitempty"`
}

// ChatConfig defines the Rocket.Chat connection.
type ChatConfig struct {
	BaseURL string `yaml:"base_url"`

	UserID       string `yaml:"user_id,omitempty"`
	UserIDEnv    string `yaml:"user_id_env,omitempty"`
	AuthToken    string `yaml:"auth_token,omitempty"`
	AuthTokenEnv string `yaml:"auth_token_env,omitempty"`

	// Alias overrides the display name on posted messages.
	Alias string `yaml:"alias,omitempty"`
}

// RFDConfig defines how discussion rooms are derived from RFD records.
type RFDConfig struct {
	ParentChannel string `yaml:"parent_channel"`
	Prefix        string `yaml:"prefix,omitempty"`

	// SiteURL overrides the chat base URL in generated discussion links.
	SiteURL string `yaml:"site_url,omitempty"`

	// UseDeepLinks switches generated discussion URLs to the universal
	// go.rocket.chat form. On by default; set use_deep_links: false for
	// direct /group/<id> links.
	UseDeepLinks bool `yaml:"use_deep_links"`

	// OverwriteInvalidDiscussion replaces discussion references that do
	// not point at the configured site instead of trusting them.
	OverwriteInvalidDiscussion bool `yaml:"overwrite_invalid_discussion,omitempty"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:      "rfd-discussd",
			LogLevel:  "info",
			LogFormat: "json",
		},
		State: StateConfig{
			Path: "./data/state.db",
		},
		Webhook: WebhookConfig{
			Listen:    "127.0.0.1:8080",
			Path:      "/webhook/rfd",
			SecretEnv: "RFD_WEBHOOK_SECRET",
		},
		Chat: ChatConfig{
			UserIDEnv:    "ROCKETCHAT_USER_ID",
			AuthTokenEnv: "ROCKETCHAT_AUTH_TOKEN",
		},
		RFD: RFDConfig{
			Prefix:       "RFD",
			UseDeepLinks: true,
		},
	}
}
