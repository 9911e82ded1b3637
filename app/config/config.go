package config

import (
	"fmt"
	"time"
)

// Transport selects how verification mail leaves the process.
const (
	TransportSMTP = "smtp"
	TransportAMQP = "amqp"
)

// Config is assembled once in main and passed by reference to every
// component that needs it. There is no ambient global configuration.
type Config struct {
	Addr string
	DB   DBConfig

	// TokenSecret signs verification tokens. Required.
	TokenSecret string
	// TokenTTL adds an expiry claim to issued tokens when > 0. Zero keeps
	// tokens expiry-less for compatibility with links already sent out.
	TokenTTL time.Duration
	// VerifyBaseURL is the public base the verification link is built on,
	// e.g. "http://localhost:8080".
	VerifyBaseURL string

	Notify NotifyConfig

	// VerifySingleUse marks tokens as consumed in redis so a link only
	// activates once. Off by default; replayed valid tokens then behave
	// idempotently instead of failing.
	VerifySingleUse bool
	RedisAddr       string
}

type DBConfig struct {
	Addr         string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  string
}

type NotifyConfig struct {
	Transport string
	SMTP      SMTPConfig
	AMQPURL   string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// ForceTo overrides the recipient for every message when non-empty.
	// Debug knob only.
	ForceTo string
	Timeout time.Duration
}

// FromEnv builds the Config from environment variables with dev defaults.
func FromEnv() Config {
	dbAddr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		GetString("POSTGRES_USER", "postgres"),
		GetString("POSTGRES_PASSWORD", "postgres"),
		GetString("POSTGRES_HOST", "localhost"),
		GetString("POSTGRES_PORT", "5432"),
		GetString("POSTGRES_DB", "accounts"),
		GetString("POSTGRES_SSLMODE", "disable"),
	)

	return Config{
		Addr: GetString("ADDR", ":8080"),
		DB: DBConfig{
			Addr:         dbAddr,
			MaxOpenConns: GetInt("DB_MAX_OPEN_CONNS", 30),
			MaxIdleConns: GetInt("DB_MAX_IDLE_CONNS", 30),
			MaxIdleTime:  GetString("DB_MAX_IDLE_TIME", "15m"),
		},
		TokenSecret:   GetString("TOKEN_SECRET", ""),
		TokenTTL:      GetDuration("TOKEN_TTL", 0),
		VerifyBaseURL: GetString("VERIFY_BASE_URL", "http://localhost:8080"),
		Notify: NotifyConfig{
			Transport: GetString("NOTIFY_TRANSPORT", TransportSMTP),
			SMTP: SMTPConfig{
				Host:     GetString("SMTP_HOST", "localhost"),
				Port:     GetInt("SMTP_PORT", 465),
				Username: GetString("SMTP_USERNAME", ""),
				Password: GetString("SMTP_PASSWORD", ""),
				From:     GetString("SMTP_FROM", "noreply@localhost"),
				ForceTo:  GetString("SMTP_FORCE_TO", ""),
				Timeout:  GetDuration("SMTP_TIMEOUT", 10*time.Second),
			},
			AMQPURL: GetString("RABBITMQ_URL", ""),
		},
		VerifySingleUse: GetBool("VERIFY_SINGLE_USE", false),
		RedisAddr:       GetString("REDIS_ADDR", "localhost:6379"),
	}
}

// Validate checks the settings that have no usable default.
func (c Config) Validate() error {
	if c.TokenSecret == "" {
		return fmt.Errorf("TOKEN_SECRET is required")
	}
	switch c.Notify.Transport {
	case TransportSMTP, TransportAMQP:
	default:
		return fmt.Errorf("unknown NOTIFY_TRANSPORT %q", c.Notify.Transport)
	}
	if c.Notify.Transport == TransportAMQP && c.Notify.AMQPURL == "" {
		return fmt.Errorf("RABBITMQ_URL is required when NOTIFY_TRANSPORT=amqp")
	}
	return nil
}
