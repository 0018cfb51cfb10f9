// SPDX-License-Identifier: Apache-2.0

package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/glitchcat/glitchcat/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
		"trace":   zerolog.TraceLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(in), "level %q", in)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: "warn", Format: "json", Output: &buf})

	logger.Info().Msg("hidden")
	logger.Warn().Str("source", "glitch.db").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"source":"glitch.db"`)
	assert.Contains(t, out, `"message":"shown"`)
}

func TestNew_AutoFormatOnBufferIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: "info", Output: &buf})
	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"level":"info"`)
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: "info", Format: "json", Output: &buf})

	ctx := logging.WithLogger(context.Background(), &logger)
	ctx = logging.WithSource(ctx, "psrcat.db")
	logging.FromContext(ctx).Info().Msg("parsed")

	assert.Contains(t, buf.String(), `"source":"psrcat.db"`)
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	original := *logging.Default()
	defer logging.SetDefault(original)

	var buf bytes.Buffer
	logging.SetDefault(logging.New(logging.Config{Level: "info", Format: "json", Output: &buf}))

	logging.FromContext(context.Background()).Info().Msg("fallback")
	assert.Contains(t, buf.String(), "fallback")
}
