package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

const EnvDevelopment = "development"

type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Postgres PostgresConfig `env:",prefix=POSTGRES_"`
	Redis    RedisConfig    `env:",prefix=REDIS_"`
	JWT      JWTConfig      `env:",prefix=JWT_"`
	Session  SessionConfig  `env:",prefix=SESSION_"`
	Recovery RecoveryConfig `env:",prefix=RECOVER_"`
	Security SecurityConfig `env:",prefix="`
	CORS     CORSConfig     `env:",prefix=CORS_"`
	Email    EmailConfig    `env:",prefix=EMAIL_"`
	Env      string         `env:"ENV,default=production"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
	// TrustedProxies lists proxy CIDRs whose forwarding headers are honored
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

type PostgresConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=5432"`
	User     string `env:"USER,default=connect"`
	Password string `env:"PASSWORD,default=connect_password"`
	DBName   string `env:"DB,default=connect_db"`
	SSLMode  string `env:"SSLMODE,default=disable"`

	MaxOpenConns    int      `env:"MAX_OPEN_CONNS,default=10"`
	ConnMaxIdleTime Duration `env:"CONN_MAX_IDLE_TIME,default=5m"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

type JWTConfig struct {
	Secret    string   `env:"SECRET,required"`
	ExpiresIn Duration `env:"EXPIRES_IN,default=1d"`
	Issuer    string   `env:"ISSUER,default=connect-api"`
	Audience  string   `env:"AUDIENCE,default=connect-client"`
}

// SessionConfig controls the server-side session lifetime.
type SessionConfig struct {
	Timeout Duration `env:"TIMEOUT,default=24h"`
}

// RecoveryConfig controls how long a password recovery ticket stays valid.
type RecoveryConfig struct {
	Timeout Duration `env:"TIMEOUT,default=15m"`
}

type SecurityConfig struct {
	BCryptCost        int      `env:"BCRYPT_COST,default=10"`
	RateLimitRequests int      `env:"RATE_LIMIT_REQUESTS,default=10"`
	RateLimitWindow   Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization,X-Requested-With"`
}

// EmailConfig describes the SMTP relay used for recovery emails.
// RecoverTemplate is base64-encoded HTML containing a ":link" placeholder.
type EmailConfig struct {
	Host            string `env:"HOST,default=localhost"`
	Port            string `env:"PORT,default=587"`
	User            string `env:"USER,default="`
	Password        string `env:"PASS,default="`
	From            string `env:"FROM,default=no-reply@connect.local"`
	RecoverSubject  string `env:"RECOVER_SUBJECT,default=Account recovery"`
	RecoverTemplate string `env:"RECOVER_HTML,default="`
	FrontendURL     string `env:"FRONTEND_URL,default=http://localhost:3000"`
}

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// IsDevelopment reports whether the service runs with the development profile.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if len(config.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if config.Session.Timeout.Duration <= 0 {
		return nil, fmt.Errorf("SESSION_TIMEOUT must be positive")
	}

	if config.Recovery.Timeout.Duration <= 0 {
		return nil, fmt.Errorf("RECOVER_TIMEOUT must be positive")
	}

	if config.Postgres.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("POSTGRES_MAX_OPEN_CONNS must be positive")
	}

	return &config, nil
}
