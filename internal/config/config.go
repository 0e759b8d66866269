package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/example/shopadmin/internal/session"
)

// DefaultAPIURL is the hosted product API.
const DefaultAPIURL = "https://api.bitechx.com"

// Config carries everything the CLI needs to build the gateway and the
// stores. Values come from defaults, an optional config.yaml under the
// user config dir, and SHOPADMIN_* environment variables, in that order of
// increasing precedence.
type Config struct {
	APIURL             string
	CredentialsFile    string
	ItemsPerPage       int
	ProductsCacheTTL   time.Duration
	CategoriesCacheTTL time.Duration
}

// Load reads the configuration. A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("credentials_file", "")
	v.SetDefault("items_per_page", 12)
	v.SetDefault("products_cache_ttl", "5m")
	v.SetDefault("categories_cache_ttl", "10m")

	v.SetEnvPrefix("SHOPADMIN")
	v.AutomaticEnv()

	if dir, err := os.UserConfigDir(); err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(dir, "shopadmin"))
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, err
			}
		}
	}

	cfg := &Config{
		APIURL:             v.GetString("api_url"),
		CredentialsFile:    v.GetString("credentials_file"),
		ItemsPerPage:       v.GetInt("items_per_page"),
		ProductsCacheTTL:   v.GetDuration("products_cache_ttl"),
		CategoriesCacheTTL: v.GetDuration("categories_cache_ttl"),
	}

	if cfg.CredentialsFile == "" {
		path, err := session.DefaultPath()
		if err != nil {
			return nil, err
		}
		cfg.CredentialsFile = path
	}

	return cfg, nil
}
