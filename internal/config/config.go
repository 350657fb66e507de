package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration loaded from file.
type Config struct {
	ListenAddr        string        `yaml:"listen_addr"`
	GraceTimeout      time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	HTTPTimeout       time.Duration `yaml:"http_timeout"`
	LogLevel          string        `yaml:"log_level"`

	Resources  Resources  `yaml:"resources"`
	TokenStore TokenStore `yaml:"token_store"`

	TokenReloadInterval time.Duration `yaml:"token_reload_interval"`
	GasPriceAttempts    int           `yaml:"gas_price_attempts"`

	// Settings are keyed by provider name.
	Settings map[string]ProviderSettings `yaml:"settings"`
}

// Resources lists the static resource files.
type Resources struct {
	Chains    string `yaml:"chains"`
	Tokens    string `yaml:"tokens"`
	Providers string `yaml:"providers"`
	// Proxies is optional; without it outbound calls go direct.
	Proxies string `yaml:"proxies"`
}

// TokenStore locates the durable store of tokens discovered on chain.
type TokenStore struct {
	Path     string `yaml:"path"`
	LockPath string `yaml:"lock_path"`
}

// ProviderSettings are per-provider integration settings.
type ProviderSettings struct {
	Referrer     string `yaml:"referrer"`
	Fee          string `yaml:"fee"`
	APIKey       string `yaml:"api_key"`
	DisableFee   bool   `yaml:"disable_fee"`
	ReferralCode string `yaml:"referral_code"`
	BaseURL      string `yaml:"base_url"`
}

// Setting returns the settings of a provider, zero value when absent.
func (c *Config) Setting(name string) ProviderSettings {
	return c.Settings[name]
}

// Load reads the config from a YAML file path and applies fallbacks.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "os.Open")
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoder.Decode")
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	const (
		defaultTimeout        = 5 * time.Second
		defaultRequestTimeout = 60 * time.Second
		defaultHTTPTimeout    = 30 * time.Second
		defaultReload         = 300 * time.Second
		defaultGasAttempts    = 10
	)

	if c.ListenAddr == "" {
		c.ListenAddr = ":1337"
	}
	if c.GraceTimeout == 0 {
		c.GraceTimeout = defaultTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaultTimeout
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = defaultHTTPTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.TokenReloadInterval == 0 {
		c.TokenReloadInterval = defaultReload
	}
	if c.GasPriceAttempts <= 0 {
		c.GasPriceAttempts = defaultGasAttempts
	}
	if c.TokenStore.Path == "" {
		c.TokenStore.Path = "data/tokens.db"
	}
	if c.TokenStore.LockPath == "" {
		c.TokenStore.LockPath = c.TokenStore.Path + ".lock"
	}
}

func (c *Config) validate() error {
	switch {
	case c.Resources.Chains == "":
		return errors.New("resources.chains is required in config")
	case c.Resources.Tokens == "":
		return errors.New("resources.tokens is required in config")
	case c.Resources.Providers == "":
		return errors.New("resources.providers is required in config")
	}
	return nil
}
