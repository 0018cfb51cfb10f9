// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{EnvFiles: []string{}})
	require.NoError(t, err)

	assert.Equal(t, DefaultJBCAURL, cfg.JBCAURL)
	assert.Equal(t, DefaultATNFURL, cfg.ATNFURL)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, "append-always", cfg.Policy)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "NaN", cfg.Missing)
	assert.NotEmpty(t, cfg.CacheDir)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("GLITCHCAT_POLICY", "on-boundary")
	t.Setenv("GLITCHCAT_HTTP_TIMEOUT", "5s")

	cfg, err := Load(Options{EnvFiles: []string{}})
	require.NoError(t, err)
	assert.Equal(t, "on-boundary", cfg.Policy)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestLoad_EnvFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("GLITCHCAT_USER_AGENT=test-agent\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("GLITCHCAT_USER_AGENT") })

	cfg, err := Load(Options{EnvFiles: []string{envFile, filepath.Join(dir, "missing.env")}})
	require.NoError(t, err)
	assert.Equal(t, "test-agent", cfg.UserAgent)
}

func TestLoad_ConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "glitchcat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache_dir: /tmp/psr\ncache_ttl: 2h\noutput: yaml\n"), 0o600))

	cfg, err := Load(Options{ConfigFile: path, EnvFiles: []string{}})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/psr", cfg.CacheDir)
	assert.Equal(t, 2*time.Hour, cfg.CacheTTL)
	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	isolate(t)
	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"), EnvFiles: []string{}})
	require.Error(t, err)
}

func TestLoad_FlagsWin(t *testing.T) {
	isolate(t)
	t.Setenv("GLITCHCAT_LOG_LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "", "")
	flags.String("output", "", "")
	require.NoError(t, flags.Parse([]string{"--log-level=debug"}))

	cfg, err := Load(Options{EnvFiles: []string{}, Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "", cfg.Output, "unchanged flags do not override")
}

func TestValidate(t *testing.T) {
	cfg := &Config{JBCAURL: "a", ATNFURL: "b", HTTPTimeout: 0}
	assert.Error(t, cfg.Validate())

	cfg.HTTPTimeout = time.Second
	assert.NoError(t, cfg.Validate())

	cfg.ATNFURL = ""
	assert.Error(t, cfg.Validate())
}
