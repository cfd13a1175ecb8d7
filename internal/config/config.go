package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"timely/internal/assistant"

	"gopkg.in/yaml.v3"
)

// Config holds all Timely client configuration.
type Config struct {
	// Backend connection
	Server ServerConfig `yaml:"server"`

	// Values forwarded with every chat request
	Assistant AssistantConfig `yaml:"assistant"`

	// Task list behaviour
	Tasks TasksConfig `yaml:"tasks"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig locates the backend.
type ServerConfig struct {
	BaseURL   string `yaml:"base_url"`   // /health is served here
	APIPrefix string `yaml:"api_prefix"` // chat endpoints live under base_url + api_prefix
	Timeout   string `yaml:"timeout"`
}

// AssistantConfig holds the default energy level and personality mode.
type AssistantConfig struct {
	Energy      string `yaml:"energy"`      // low, medium, high
	Personality string `yaml:"personality"` // coach, friend, strict, zen
}

// TasksConfig configures the session task list.
type TasksConfig struct {
	SeedSamples     bool `yaml:"seed_samples"`     // start with the three starter tasks
	DefaultDuration int  `yaml:"default_duration"` // minutes, used by /add without a duration
}

// UIConfig configures the interactive chat.
type UIConfig struct {
	Theme         string `yaml:"theme"`          // light, dark, auto
	ToastDuration string `yaml:"toast_duration"` // how long notices stay visible
	ShowWelcome   bool   `yaml:"show_welcome"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	client := assistant.DefaultClientConfig()
	return &Config{
		Server: ServerConfig{
			BaseURL:   client.BaseURL,
			APIPrefix: client.APIPrefix,
			Timeout:   client.Timeout.String(),
		},
		Assistant: AssistantConfig{
			Energy:      string(assistant.DefaultEnergy),
			Personality: string(assistant.DefaultPersonality),
		},
		Tasks: TasksConfig{
			SeedSamples:     true,
			DefaultDuration: 30,
		},
		UI: UIConfig{
			Theme:         "auto",
			ToastDuration: "4s",
			ShowWelcome:   true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "json",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/timely/config.yaml, falling back to
// ~/.config/timely/config.yaml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "timely", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".timely", "config.yaml")
	}
	return filepath.Join(home, ".config", "timely", "config.yaml")
}

// Load reads the config at path over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to disk.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TIMELY_BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v, ok := os.LookupEnv("TIMELY_API_PREFIX"); ok {
		c.Server.APIPrefix = v
	}
	if v := os.Getenv("TIMELY_TIMEOUT"); v != "" {
		c.Server.Timeout = v
	}
	if v := os.Getenv("TIMELY_ENERGY"); v != "" {
		c.Assistant.Energy = v
	}
	if v := os.Getenv("TIMELY_PERSONALITY"); v != "" {
		c.Assistant.Personality = v
	}
	if v := os.Getenv("TIMELY_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("TIMELY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TIMELY_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("TIMELY_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = b
		}
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.BaseURL) == "" {
		return fmt.Errorf("server.base_url must not be empty")
	}
	if !strings.HasPrefix(c.Server.BaseURL, "http://") && !strings.HasPrefix(c.Server.BaseURL, "https://") {
		return fmt.Errorf("server.base_url must start with http:// or https://: %q", c.Server.BaseURL)
	}
	if c.Server.Timeout != "" {
		if _, err := time.ParseDuration(c.Server.Timeout); err != nil {
			return fmt.Errorf("invalid server.timeout %q: %w", c.Server.Timeout, err)
		}
	}
	if _, ok := assistant.ParseEnergy(c.Assistant.Energy); !ok {
		return fmt.Errorf("invalid assistant.energy %q (valid: %v)", c.Assistant.Energy, assistant.Energies())
	}
	if _, ok := assistant.ParsePersonality(c.Assistant.Personality); !ok {
		return fmt.Errorf("invalid assistant.personality %q (valid: %v)", c.Assistant.Personality, assistant.Personalities())
	}
	switch strings.ToLower(c.UI.Theme) {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("invalid ui.theme %q (valid: auto, light, dark)", c.UI.Theme)
	}
	if c.Tasks.DefaultDuration < 0 {
		return fmt.Errorf("tasks.default_duration must not be negative")
	}
	return nil
}

// GetTimeout returns the backend timeout.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil || d <= 0 {
		return assistant.DefaultClientConfig().Timeout
	}
	return d
}

// GetToastDuration returns how long notices stay visible.
func (c *Config) GetToastDuration() time.Duration {
	d, err := time.ParseDuration(c.UI.ToastDuration)
	if err != nil || d <= 0 {
		return 4 * time.Second
	}
	return d
}

// Energy returns the configured default energy level.
func (c *Config) Energy() assistant.Energy {
	if e, ok := assistant.ParseEnergy(c.Assistant.Energy); ok {
		return e
	}
	return assistant.DefaultEnergy
}

// Personality returns the configured default personality mode.
func (c *Config) Personality() assistant.Personality {
	if p, ok := assistant.ParsePersonality(c.Assistant.Personality); ok {
		return p
	}
	return assistant.DefaultPersonality
}

// ClientConfig converts the server section for the HTTP transport.
func (c *Config) ClientConfig() assistant.ClientConfig {
	return assistant.ClientConfig{
		BaseURL:   c.Server.BaseURL,
		APIPrefix: c.Server.APIPrefix,
		Timeout:   c.GetTimeout(),
	}
}
