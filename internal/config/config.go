package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

type Config struct {
	ServerAddr     string
	AllowedOrigins []string
	DatabaseDriver string
	DatabaseDSN    string
	SigningKey     []byte
	TokenTTL       time.Duration
	LogLevel       string
	LogDevelopment bool
	FrontendURL    string
	Mail           MailConfig
	RateLimitRPS   float64
	RateLimitBurst int
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether an SMTP relay is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

func decodeSigningSecret(base64Secret string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(base64Secret)
}

// Load reads configuration from command line flags, CAMPUS_* environment
// variables and an optional config.toml, in that order of precedence.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("campus-connect", pflag.ContinueOnError)
	fs.String("addr", ":8000", "address to listen on")
	fs.String("driver", DriverPostgres, "storage driver (postgres or memory)")
	fs.String("dsn", "", "postgres connection string")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("config", "", "path to a config.toml file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("campus")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindPFlag("server.addr", fs.Lookup("addr"))
	v.BindPFlag("database.driver", fs.Lookup("driver"))
	v.BindPFlag("database.dsn", fs.Lookup("dsn"))
	v.BindPFlag("log.level", fs.Lookup("log-level"))

	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)
	v.SetDefault("log.development", false)
	v.SetDefault("app.frontend_url", "http://localhost:3000")
	v.SetDefault("mail.port", 587)
	v.SetDefault("ratelimit.rps", 5)
	v.SetDefault("ratelimit.burst", 10)

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return NewConfig(v)
}

// NewConfig validates the settings held by v.
func NewConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ServerAddr:     v.GetString("server.addr"),
		AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
		DatabaseDriver: v.GetString("database.driver"),
		DatabaseDSN:    v.GetString("database.dsn"),
		TokenTTL:       v.GetDuration("auth.token_ttl"),
		LogLevel:       v.GetString("log.level"),
		LogDevelopment: v.GetBool("log.development"),
		FrontendURL:    v.GetString("app.frontend_url"),
		Mail: MailConfig{
			Host:     v.GetString("mail.host"),
			Port:     v.GetInt("mail.port"),
			Username: v.GetString("mail.username"),
			Password: v.GetString("mail.password"),
			From:     v.GetString("mail.from"),
		},
		RateLimitRPS:   v.GetFloat64("ratelimit.rps"),
		RateLimitBurst: v.GetInt("ratelimit.burst"),
	}

	if cfg.ServerAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}

	switch cfg.DatabaseDriver {
	case DriverPostgres:
		if cfg.DatabaseDSN == "" {
			return nil, fmt.Errorf("database DSN cannot be empty")
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}

	base64Secret := v.GetString("auth.signing_key")
	if base64Secret == "" {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}

	signingKey, err := decodeSigningSecret(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}
	cfg.SigningKey = signingKey

	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}

	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}

	if cfg.Mail.Enabled() && cfg.Mail.From == "" {
		return nil, fmt.Errorf("mail.from is required when mail.host is set")
	}

	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("rate limit values must be positive")
	}

	return cfg, nil
}
