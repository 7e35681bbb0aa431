package config

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/ghodss/yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// ListenAddress is the address the connect/HTTP server listens on.
	ListenAddress string `json:"listen" env:"LISTEN, overwrite"`

	// DatabaseURL is the MongoDB connection string. Channel and post
	// endpoints are disabled if it is empty.
	DatabaseURL string `json:"databaseURL" env:"DATABASE_URL, overwrite"`

	AllowedOrigins []string `json:"allowedOrigins" env:"ALLOWED_ORIGINS, overwrite"`

	// AutolinkedURLSchemes lists the URL schemes that are turned into
	// links automatically.
	AutolinkedURLSchemes []string `json:"autolinkedURLSchemes" env:"AUTOLINKED_URL_SCHEMES, overwrite"`

	MinimumHashtagLength int `json:"minimumHashtagLength" env:"MINIMUM_HASHTAG_LENGTH, overwrite"`

	// ServerURL and SiteURL are used to detect channel and permalink deep
	// links.
	ServerURL string `json:"serverURL" env:"SERVER_URL, overwrite"`
	SiteURL   string `json:"siteURL" env:"SITE_URL, overwrite"`

	// IdmURL enables resolving @-mentions to user profiles.
	IdmURL string `json:"idmURL" env:"IDM_URL, overwrite"`

	// RegisterService registers the service at the service catalog.
	RegisterService bool `json:"registerService" env:"REGISTER_SERVICE, overwrite"`
}

var (
	DefaultListenAddress        = ":8080"
	DefaultAutolinkedURLSchemes = []string{"http", "https", "ftp", "mailto", "tel"}
	DefaultMinimumHashtagLength = 3
)

// LoadConfig loads the configuration from the YAML (or JSON) file at path,
// if any, and applies environment variables on top.
func LoadConfig(ctx context.Context, path string) (*Config, error) {
	return loadConfig(ctx, path, envconfig.OsLookuper())
}

func loadConfig(ctx context.Context, path string, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}

		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) setDefaults() {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	if len(cfg.AutolinkedURLSchemes) == 0 {
		cfg.AutolinkedURLSchemes = DefaultAutolinkedURLSchemes
	}

	if cfg.MinimumHashtagLength == 0 {
		cfg.MinimumHashtagLength = DefaultMinimumHashtagLength
	}

	if cfg.SiteURL == "" {
		cfg.SiteURL = cfg.ServerURL
	}
}

func (cfg *Config) Validate() error {
	merr := new(multierror.Error)

	if cfg.MinimumHashtagLength < 1 {
		merr.Errors = append(merr.Errors, fmt.Errorf("minimumHashtagLength must be greater than 0"))
	}

	for name, value := range map[string]string{
		"serverURL": cfg.ServerURL,
		"siteURL":   cfg.SiteURL,
		"idmURL":    cfg.IdmURL,
	} {
		if value == "" {
			continue
		}

		if u, err := url.Parse(value); err != nil || u.Scheme == "" || u.Host == "" {
			merr.Errors = append(merr.Errors, fmt.Errorf("%s has an invalid url %q", name, value))
		}
	}

	return merr.ErrorOrNil()
}
