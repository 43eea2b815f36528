// Package config loads proxy configuration from file and environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/skysurvey/ssc-view/internal/ssc"
)

// Config holds all proxy settings.
type Config struct {
	ListenAddr       string        // HTTP listen address
	UpstreamURL      string        // SSC Web Services base URL
	UpstreamTimeout  time.Duration // bound on upstream requests
	ResolutionFactor int           // default when the client omits it
	LogLevel         string
}

// Load reads ssc-proxy.{yaml,toml,json} from confPath (or the working
// directory), applies SSC_PROXY_* environment overrides, and falls back to
// defaults for everything unset. A missing config file is not an error.
func Load(confPath string) (Config, error) {
	v := viper.New()

	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("upstream.base_url", ssc.DefaultBaseURL)
	v.SetDefault("upstream.timeout", "30s")
	v.SetDefault("upstream.resolution_factor", 5)
	v.SetDefault("log.level", "info")

	v.SetConfigName("ssc-proxy")
	if confPath != "" {
		v.AddConfigPath(confPath)
	} else {
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SSC_PROXY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		ListenAddr:       v.GetString("server.listen_addr"),
		UpstreamURL:      v.GetString("upstream.base_url"),
		UpstreamTimeout:  v.GetDuration("upstream.timeout"),
		ResolutionFactor: v.GetInt("upstream.resolution_factor"),
		LogLevel:         v.GetString("log.level"),
	}

	if cfg.ResolutionFactor < 1 {
		return Config{}, fmt.Errorf("resolution factor must be positive, got %d", cfg.ResolutionFactor)
	}

	return cfg, nil
}
