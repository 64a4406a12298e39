package config_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/crispdm/datasets"
	"github.com/ezoic/crispdm/internal/config"
	"github.com/ezoic/crispdm/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crispdm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, ":8501", cfg.Server.Addr)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, datasets.DefaultParams(), cfg.Defaults.Params)
	assert.True(t, cfg.Defaults.FixedSeed)
	assert.Equal(t, uint64(42), cfg.Generator.BaseSeed)
	assert.Equal(t, 0.2, cfg.Split.TestSize)
	assert.Equal(t, uint64(42), cfg.Split.RandomState)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
  mode: debug
defaults:
  a: 3.5
  noise: 0.5
  n: 200
  fixed_seed: false
generator:
  base_seed: 1000
`)

	v := config.New()
	used, err := config.ReadFile(v, path)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	cfg, err := config.Decode(v)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, datasets.Params{A: 3.5, B: 5, NoiseSigma: 0.5, N: 200}, cfg.Defaults.Params)
	assert.False(t, cfg.Defaults.FixedSeed)
	assert.Equal(t, uint64(1000), cfg.Generator.BaseSeed)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9000\"\n")
	t.Setenv("CRISPDM_SERVER_ADDR", ":7000")
	t.Setenv("CRISPDM_DEFAULTS_N", "300")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 300, cfg.Defaults.N)
}

func TestLoad_MissingOptionalFile(t *testing.T) {
	v := config.New()
	used, err := config.ReadFile(v, "")
	require.NoError(t, err)
	assert.Empty(t, used)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
	assert.Contains(t, fmt.Sprintf("%+v", err), "config.ReadFile")
}

func TestLoad_MalformedFile(t *testing.T) {
	_, err := config.Load(writeConfig(t, "server: [addr\n"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "read config: "), err.Error())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		target error
	}{
		{"sample size", "defaults:\n  n: 20\n", errors.ErrInvalidParameter},
		{"slope", "defaults:\n  a: 11\n", errors.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target))
		})
	}

	for _, body := range []string{
		"server:\n  mode: production\n",
		"log:\n  level: loud\n",
		"split:\n  test_size: 1.5\n",
	} {
		_, err := config.Load(writeConfig(t, body))
		var valErr *errors.ValueError
		assert.True(t, errors.As(err, &valErr), "body %q: %v", body, err)
	}
}
