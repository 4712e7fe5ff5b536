package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Turnstile TurnstileConfig `mapstructure:"turnstile"`
	Mail      MailConfig      `mapstructure:"mail"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// TurnstileConfig holds settings for the Cloudflare Turnstile verifier.
type TurnstileConfig struct {
	SecretKey string        `mapstructure:"secret_key"`
	VerifyURL string        `mapstructure:"verify_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// MailConfig holds settings for the mail transport. Provider selects between
// the SMTP and SES implementations.
type MailConfig struct {
	Provider  string     `mapstructure:"provider"`
	FromName  string     `mapstructure:"from_name"`
	FromEmail string     `mapstructure:"from_email"`
	Recipient string     `mapstructure:"recipient"`
	SMTP      SMTPConfig `mapstructure:"smtp"`
	SES       SESConfig  `mapstructure:"ses"`
}

// From returns the RFC 5322 From header value.
func (m MailConfig) From() string {
	if m.FromName == "" {
		return m.FromEmail
	}
	return fmt.Sprintf("%s <%s>", m.FromName, m.FromEmail)
}

type SMTPConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	ImplicitTLS bool          `mapstructure:"implicit_tls"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type SESConfig struct {
	Region string `mapstructure:"region"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
