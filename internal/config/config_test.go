package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hance08/txgate/internal/constants"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	assert.Equal(t, DriverLog, cfg.Notify.Driver)
	assert.Equal(t, 72*time.Hour, cfg.Links.TTL)
	assert.Equal(t, 5, cfg.Allocation.MaxAttempts)
	assert.Contains(t, cfg.Auth.Roles[constants.RoleAdmin], constants.CapApprove)
	assert.NotContains(t, cfg.Auth.Roles[constants.RoleUser], constants.CapApprove)

	// Secret is generated on first run, so the bare defaults are not usable as is.
	assert.Error(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := NewDefault()
		cfg.Links.Secret = "s3cret"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults with secret", func(*Config) {}, ""},
		{"missing secret", func(c *Config) { c.Links.Secret = "" }, "links.secret"},
		{"zero ttl", func(c *Config) { c.Links.TTL = 0 }, "links.ttl"},
		{"mail without admin", func(c *Config) { c.Notify.Driver = DriverMail }, "admin.email"},
		{"mail without host", func(c *Config) {
			c.Notify.Driver = DriverMail
			c.Admin.Email = "admin@example.com"
			c.Mail.Host = ""
		}, "mail.host"},
		{"mail complete", func(c *Config) {
			c.Notify.Driver = DriverMail
			c.Admin.Email = "admin@example.com"
		}, ""},
		{"discord without channel", func(c *Config) {
			c.Notify.Driver = DriverDiscord
			c.Discord.Token = "t"
		}, "discord.channel_id"},
		{"unknown driver", func(c *Config) { c.Notify.Driver = "fax" }, "unknown notify.driver"},
		{"no attempts", func(c *Config) { c.Allocation.MaxAttempts = 0 }, "allocation.max_attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
