package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ninjatrace.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func isolate(t *testing.T) {
	t.Helper()
	// Keep a developer's own config out of the search path.
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ".ninja_log", cfg.LogFilename)
	assert.Equal(t, uint32(0), cfg.Tolerance())
	assert.Equal(t, 10, cfg.Top)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "tolerance_ms: 250\nper_invocation: true\ndatabase: /tmp/traces.db\ntop: 3\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(250), cfg.Tolerance())
	assert.True(t, cfg.PerInvocation)
	assert.Equal(t, "/tmp/traces.db", cfg.Database)
	assert.Equal(t, 3, cfg.Top)
	assert.Equal(t, ".ninja_log", cfg.LogFilename, "unset keys keep their defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "tolerance_ms: 250\n")
	t.Setenv("NINJATRACE_TOLERANCE_MS", "40")
	t.Setenv("NINJATRACE_LOG_FILENAME", "build.log")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(40), cfg.Tolerance())
	assert.Equal(t, "build.log", cfg.LogFilename)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"negative tolerance", "tolerance_ms: -5\n", "tolerance_ms"},
		{"tolerance beyond uint32", "tolerance_ms: 4294967296\n", "tolerance_ms"},
		{"zero top", "top: 0\n", "top"},
		{"empty log filename", "log_filename: \"\"\n", "log_filename"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)

			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestValidate_MaxTolerance(t *testing.T) {
	cfg := Default()
	cfg.ToleranceMS = 4294967295

	require.NoError(t, Validate(cfg))
	assert.Equal(t, ^uint32(0), cfg.Tolerance())
}
