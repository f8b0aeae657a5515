package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, int64(40_000_000), cfg.Upload.MaxPixels)
}

func TestValidate_CORSOrigins(t *testing.T) {
	cfg := Defaults()
	cfg.Server.CORSOrigins = []string{"https://iskort.kz", "http://localhost:3000"}
	assert.NoError(t, cfg.Validate())

	cfg.Server.CORSOrigins = []string{"iskort.kz"}
	assert.Error(t, cfg.Validate())
}

func TestApplyEnv_CORSOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " https://iskort.kz , ,https://admin.iskort.kz")
	cfg := Defaults()
	applyEnv(cfg)
	assert.Equal(t, []string{"https://iskort.kz", "https://admin.iskort.kz"}, cfg.Server.CORSOrigins)
}
