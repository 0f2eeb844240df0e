package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	API struct {
		BaseURL string
		Timeout time.Duration
	}
	Database struct {
		Path string
	}
	Session struct {
		CookieName    string
		MaxAge        time.Duration
		Secure        bool
		PurgeInterval time.Duration
	}
	Cache struct {
		Size int
		TTL  time.Duration
	}
	Log struct {
		Level  string
		Format string
	}
	UI struct {
		RegisterRedirect time.Duration
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// .env never overrides variables already present in the environment.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FORUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:3000")
	v.SetDefault("api.baseurl", "http://localhost:5000")
	v.SetDefault("api.timeout", "0s")
	v.SetDefault("database.path", "data/sessions.db")
	v.SetDefault("session.cookiename", "forum_session")
	v.SetDefault("session.maxage", "720h")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.purgeinterval", "1h")
	v.SetDefault("cache.size", 256)
	v.SetDefault("cache.ttl", "15s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("ui.registerredirect", "2s")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.BaseURL == "" {
		return Config{}, fmt.Errorf("api base url is required")
	}
	if cfg.Session.CookieName == "" {
		return Config{}, fmt.Errorf("session cookie name is required")
	}

	return cfg, nil
}
