// Package config loads signer settings from defaults, an optional config
// file and ECHO_SIGNER_* environment variables, in increasing priority.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/suffix-labs/echo-signer/pkg/chain"
	"github.com/suffix-labs/echo-signer/pkg/crypto"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "ECHO_SIGNER"

// Keys understood by Load.
const (
	KeyChainID          = "chain_id"
	KeyExpirationOffset = "expiration_offset"
	KeyKeyPrefix        = "key_prefix"
	KeyLogLevel         = "log_level"
	KeyTestnet          = "testnet"
)

// Config holds the signer settings.
type Config struct {
	ChainID          string        `mapstructure:"chain_id" json:"chain_id"`
	ExpirationOffset time.Duration `mapstructure:"expiration_offset" json:"expiration_offset"`
	KeyPrefix        string        `mapstructure:"key_prefix" json:"key_prefix"`
	LogLevel         string        `mapstructure:"log_level" json:"log_level"`
	Testnet          bool          `mapstructure:"testnet" json:"testnet"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyChainID, "")
	v.SetDefault(KeyExpirationOffset, 30*time.Second)
	v.SetDefault(KeyKeyPrefix, crypto.DefaultKeyPrefix)
	v.SetDefault(KeyLogLevel, zerolog.InfoLevel.String())
	v.SetDefault(KeyTestnet, false)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configFile into v when it is set and decodes the result.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field that is set.
func (c *Config) Validate() error {
	if c.ChainID != "" {
		if _, err := chain.ParseChainID(c.ChainID); err != nil {
			return fmt.Errorf("invalid %s: %w", KeyChainID, err)
		}
	}
	if c.ExpirationOffset <= 0 {
		return fmt.Errorf("invalid %s: must be positive, got %s", KeyExpirationOffset, c.ExpirationOffset)
	}
	if c.KeyPrefix == "" {
		return fmt.Errorf("invalid %s: must not be empty", KeyKeyPrefix)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// RequireChainID fails unless a chain id is configured.
func (c *Config) RequireChainID() ([chain.ChainIDLength]byte, error) {
	if c.ChainID == "" {
		return [chain.ChainIDLength]byte{}, fmt.Errorf("%s is required (flag --chain-id or %s_CHAIN_ID)", KeyChainID, EnvPrefix)
	}
	return chain.ParseChainID(c.ChainID)
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid %s: %w", KeyLogLevel, err)
	}
	return level, nil
}

// WIFVersion returns the key export version byte for the configured network.
func (c *Config) WIFVersion() byte {
	if c.Testnet {
		return crypto.WIFVersionTestnet
	}
	return crypto.WIFVersionMainnet
}
