package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/echo-signer/pkg/crypto"
)

const testChainID = "39f5e2ede1f8bc1a3a54a7914414e3779e33193f1f5693510e73cb7a87617447"

func TestDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.ChainID)
	assert.Equal(t, 30*time.Second, cfg.ExpirationOffset)
	assert.Equal(t, crypto.DefaultKeyPrefix, cfg.KeyPrefix)
	assert.False(t, cfg.Testnet)
	assert.Equal(t, crypto.WIFVersionMainnet, cfg.WIFVersion())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)

	_, err = cfg.RequireChainID()
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("ECHO_SIGNER_CHAIN_ID", testChainID)
	t.Setenv("ECHO_SIGNER_EXPIRATION_OFFSET", "2m")
	t.Setenv("ECHO_SIGNER_TESTNET", "true")
	t.Setenv("ECHO_SIGNER_LOG_LEVEL", "debug")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, testChainID, cfg.ChainID)
	assert.Equal(t, 2*time.Minute, cfg.ExpirationOffset)
	assert.True(t, cfg.Testnet)
	assert.Equal(t, crypto.WIFVersionTestnet, cfg.WIFVersion())

	id, err := cfg.RequireChainID()
	require.NoError(t, err)
	assert.Equal(t, byte(0x39), id[0])
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chain_id: "+testChainID+"\nkey_prefix: TEST\n"), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, testChainID, cfg.ChainID)
	assert.Equal(t, "TEST", cfg.KeyPrefix)

	_, err = Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		ChainID:          testChainID,
		ExpirationOffset: time.Second,
		KeyPrefix:        "ECHO",
		LogLevel:         "warn",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"short chain id", func(c *Config) { c.ChainID = "39f5" }},
		{"non hex chain id", func(c *Config) { c.ChainID = "zz" }},
		{"zero offset", func(c *Config) { c.ExpirationOffset = 0 }},
		{"empty prefix", func(c *Config) { c.KeyPrefix = "" }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
