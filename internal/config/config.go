package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/hance08/txgate/internal/constants"
)

type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Links      LinksConfig      `mapstructure:"links"`
	Mail       MailConfig       `mapstructure:"mail"`
	Discord    DiscordConfig    `mapstructure:"discord"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Allocation AllocationConfig `mapstructure:"allocation"`
	Server     ServerConfig     `mapstructure:"server"`
	Auth       AuthConfig       `mapstructure:"auth"`
	ConfigPath string           `mapstructure:"-"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type AdminConfig struct {
	Email string `mapstructure:"email"`
}

type LinksConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Secret  string        `mapstructure:"secret"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	UseTLS   bool   `mapstructure:"use_tls"`
}

type DiscordConfig struct {
	Token     string `mapstructure:"token"`
	ChannelID string `mapstructure:"channel_id"`
}

type NotifyConfig struct {
	Driver  string        `mapstructure:"driver"` // mail, discord or log
	Timeout time.Duration `mapstructure:"timeout"`
}

type AllocationConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type AuthConfig struct {
	Users []UserConfig        `mapstructure:"users"`
	Roles map[string][]string `mapstructure:"roles"`
}

type UserConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
	Role         string `mapstructure:"role"`
}

const (
	DriverMail    = "mail"
	DriverDiscord = "discord"
	DriverLog     = "log"
)

func NewDefault() *Config {
	return &Config{
		Database: DatabaseConfig{Path: ""},
		Log:      LogConfig{Level: "info", Format: "console"},
		Links: LinksConfig{
			BaseURL: "http://127.0.0.1:5000",
			TTL:     72 * time.Hour,
		},
		Mail: MailConfig{
			Host:   "smtp.gmail.com",
			Port:   587,
			From:   "Transaction System",
			UseTLS: true,
		},
		Notify: NotifyConfig{
			Driver:  DriverLog,
			Timeout: 30 * time.Second,
		},
		Allocation: AllocationConfig{
			MaxAttempts: 5,
			BaseDelay:   20 * time.Millisecond,
		},
		Server: ServerConfig{Addr: "127.0.0.1:5000"},
		Auth: AuthConfig{
			Roles: DefaultRoles(),
		},
	}
}

// DefaultRoles maps each built-in role to its capability set.
func DefaultRoles() map[string][]string {
	return map[string][]string{
		constants.RoleAdmin: {
			constants.CapApprove,
			constants.CapReject,
			constants.CapViewAll,
			constants.CapViewOwn,
		},
		constants.RoleUser: {
			constants.CapSubmit,
			constants.CapViewOwn,
		},
	}
}

// Validate checks settings that would otherwise fail deep inside a request.
func (c *Config) Validate() error {
	if c.Links.Secret == "" {
		return errors.New("links.secret must be set to sign approval links")
	}
	if c.Links.TTL <= 0 {
		return fmt.Errorf("links.ttl must be positive, got %s", c.Links.TTL)
	}

	switch c.Notify.Driver {
	case DriverLog:
	case DriverMail:
		if c.Admin.Email == "" {
			return errors.New("admin.email is required for the mail notifier")
		}
		if c.Mail.Host == "" {
			return errors.New("mail.host is required for the mail notifier")
		}
	case DriverDiscord:
		if c.Discord.Token == "" || c.Discord.ChannelID == "" {
			return errors.New("discord.token and discord.channel_id are required for the discord notifier")
		}
	default:
		return fmt.Errorf("unknown notify.driver %q (must be mail, discord or log)", c.Notify.Driver)
	}

	if c.Allocation.MaxAttempts < 1 {
		return fmt.Errorf("allocation.max_attempts must be at least 1, got %d", c.Allocation.MaxAttempts)
	}

	return nil
}
