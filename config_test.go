package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		bind:           "127.0.0.1",
		port:           8080,
		messageRate:    2,
		messageBurst:   5,
		sessionTimeout: time.Hour,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, false},
		{"key without cert", func(c *Config) { c.tlsKey = "key.pem" }, false},
		{"cert and key", func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }, true},
		{"port zero", func(c *Config) { c.port = 0 }, false},
		{"port too high", func(c *Config) { c.port = 70000 }, false},
		{"zero rate", func(c *Config) { c.messageRate = 0 }, false},
		{"zero burst", func(c *Config) { c.messageBurst = 0 }, false},
		{"reaper disabled", func(c *Config) { c.sessionTimeout = 0 }, true},
		{"negative timeout", func(c *Config) { c.sessionTimeout = -time.Second }, false},
		{"sub-second timeout", func(c *Config) { c.sessionTimeout = time.Nanosecond }, false},
		{"one second timeout", func(c *Config) { c.sessionTimeout = time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			if tt.ok {
				assert.NoError(t, cfg.validate())
			} else {
				assert.Error(t, cfg.validate())
			}
		})
	}
}

func TestConfigScheme(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "http", cfg.scheme())

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	assert.Equal(t, "https", cfg.scheme())
}

func TestNewCmdDefaults(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)

	require.NoError(t, cmd.ParseFlags(nil))

	assert.Equal(t, "0.0.0.0", cfg.bind)
	assert.Equal(t, 8080, cfg.port)
	assert.Equal(t, 60*time.Minute, cfg.sessionTimeout)
	assert.Equal(t, 5, cfg.messageBurst)
	assert.False(t, cfg.metrics)
	assert.NoError(t, cfg.validate())
}

func TestNewCmdReadsEnvironment(t *testing.T) {
	t.Setenv("ICEBREAKERS_PORT", "9090")
	t.Setenv("ICEBREAKERS_SESSION_TIMEOUT", "5m")
	t.Setenv("ICEBREAKERS_METRICS", "true")
	t.Setenv("ICEBREAKERS_SEED", "42")

	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, 9090, cfg.port)
	assert.Equal(t, 5*time.Minute, cfg.sessionTimeout)
	assert.True(t, cfg.metrics)
	assert.Equal(t, int64(42), cfg.seed)
}

func TestNewCmdFlagsOverride(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)

	require.NoError(t, cmd.ParseFlags([]string{"--port", "3000", "--message_rate", "0.5", "-v"}))

	assert.Equal(t, 3000, cfg.port)
	assert.Equal(t, 0.5, cfg.messageRate)
	assert.True(t, cfg.verbose)
}
