// SPDX-License-Identifier: Apache-2.0

// Package config loads glitchcat settings from, in order of precedence,
// command-line flags, GLITCHCAT_* environment variables, .env files, an
// optional .glitchcat.yaml and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/glitchcat/glitchcat/internal/catalogue"
)

const (
	// EnvPrefix is prepended to every environment variable name.
	EnvPrefix = "GLITCHCAT"

	DefaultJBCAURL     = "http://www.jb.man.ac.uk/~pulsar/glitches/gTable.html"
	DefaultATNFURL     = "https://www.atnf.csiro.au/research/pulsar/psrcat/download.html"
	DefaultHTTPTimeout = 60 * time.Second
	DefaultCacheTTL    = 24 * time.Hour
	DefaultUserAgent   = "glitchcat/1.0"
)

// Config holds the application configuration.
type Config struct {
	JBCAURL     string        `mapstructure:"jbca_url"`
	ATNFURL     string        `mapstructure:"atnf_url"`
	CacheDir    string        `mapstructure:"cache_dir"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`

	// Policy is the end-of-stream policy for psrcat.db records.
	Policy string `mapstructure:"policy"`
	Output string `mapstructure:"output"`
	// Missing is written for missing cells in table and CSV output.
	Missing string `mapstructure:"missing"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// ConfigFile is the config file that was read, if any.
	ConfigFile string `mapstructure:"-"`
}

// Options controls where Load looks for configuration.
type Options struct {
	// ConfigFile is an explicit config path; empty searches the home and
	// working directories for .glitchcat.yaml.
	ConfigFile string
	// EnvFiles are loaded before reading the environment. Missing files are
	// skipped. Nil means .env and .env.local.
	EnvFiles []string
	// Flags are bound over every other source when set.
	Flags *pflag.FlagSet
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("jbca_url", DefaultJBCAURL)
	v.SetDefault("atnf_url", DefaultATNFURL)
	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("cache_ttl", DefaultCacheTTL)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("policy", "append-always")
	v.SetDefault("output", "")
	v.SetDefault("missing", catalogue.MissingMarker)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "auto")
}

// Load builds a Config from every configured source.
func Load(opts Options) (*Config, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env", ".env.local"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".glitchcat")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if opts.Flags != nil {
		bindFlags(v, opts.Flags)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindFlags binds changed flags to their config keys; "log-level" becomes
// "log_level".
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		_ = v.BindPFlag(key, f)
	})
}

// Validate checks settings that would otherwise fail later in a confusing way.
func (c *Config) Validate() error {
	if c.JBCAURL == "" || c.ATNFURL == "" {
		return fmt.Errorf("configuration error: catalogue URLs must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("configuration error: http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("configuration error: cache_ttl must not be negative, got %s", c.CacheTTL)
	}
	return nil
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "glitchcat")
	}
	return filepath.Join(os.TempDir(), "glitchcat")
}
