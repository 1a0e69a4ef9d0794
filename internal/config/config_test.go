package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, []string{"localhost:3000"}, cfg.OriginPatterns)
	assert.Equal(t, 64, cfg.SendBuffer)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("ORIGIN_PATTERNS", "chat.example.com,*.example.org")
	t.Setenv("SEND_BUFFER", "128")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9001", cfg.Port)
	assert.Equal(t, []string{"chat.example.com", "*.example.org"}, cfg.OriginPatterns)
	assert.Equal(t, 128, cfg.SendBuffer)
}
