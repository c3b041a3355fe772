package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// DefaultAccessTokenTTL is used when ACCESS_TOKEN_TTL_MINUTES is unset.
	DefaultAccessTokenTTL = 15 * time.Minute
	// RefreshTokenTTL is fixed; it is not read from the environment.
	RefreshTokenTTL = 7 * 24 * time.Hour

	// insecureDevelopmentSecret is only ever used outside production.
	insecureDevelopmentSecret = "virtual-wardrobe-development-secret"
	defaultIssuer             = "virtual-wardrobe"
	defaultAudience           = "virtual-wardrobe-clients"
	defaultAuthRatePerSecond  = 5
)

var (
	ErrMissingSecretInProduction = errors.New("JWT_SECRET must be set in production")
	ErrInvalidAccessTokenTTL     = errors.New("ACCESS_TOKEN_TTL_MINUTES must be a positive integer")
	ErrInvalidRateLimit          = errors.New("AUTH_RATE_LIMIT_PER_SECOND must be a positive number")
)

type DatabaseConfig struct {
	Host             string
	Port             string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" port=" + c.Port + " sslmode=disable TimeZone=UTC"
}

type ServerConfig struct {
	Port string
}

type AdminConfig struct {
	Username string
	Password string
}

// TokenConfig holds everything needed to mint and validate credentials.
// It is built once at start-up and injected into the services that need it.
type TokenConfig struct {
	Secret     string
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// InsecureDefault reports that Secret is the built-in development value.
	InsecureDefault bool
}

type CorsConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	AuthPerSecond float64
}

type Config struct {
	Env       string
	LogLevel  string
	Database  *DatabaseConfig
	Server    *ServerConfig
	Admin     *AdminConfig
	Token     *TokenConfig
	Cors      *CorsConfig
	RateLimit *RateLimitConfig
}

// Development reports whether the service runs in local-development mode.
func (c *Config) Development() bool {
	return c.Env != EnvProduction
}

// LoadConfig reads an optional dotenv file and then the process environment.
// A missing dotenv file is not an error.
func LoadConfig(dotenvPath string) (*Config, error) {
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", dotenvPath, err)
	}

	env := strings.ToLower(getEnv("APP_ENV", EnvDevelopment))
	if env != EnvProduction {
		env = EnvDevelopment
	}

	tokenCfg, err := loadTokenConfig(env)
	if err != nil {
		return nil, err
	}

	rate, err := strconv.ParseFloat(getEnv("AUTH_RATE_LIMIT_PER_SECOND", strconv.Itoa(defaultAuthRatePerSecond)), 64)
	if err != nil || rate <= 0 {
		return nil, ErrInvalidRateLimit
	}

	dbCfg := &DatabaseConfig{
		Host:             getEnv("POSTGRES_HOST", "localhost"),
		Port:             getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
	}
	serverCfg := &ServerConfig{
		Port: getEnv("SERVER_PORT", "8080"),
	}
	adminCfg := &AdminConfig{
		Username: os.Getenv("ADMIN_USERNAME"),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}
	corsCfg := &CorsConfig{
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	return &Config{
		Env:       env,
		LogLevel:  os.Getenv("LOG_LEVEL"),
		Database:  dbCfg,
		Server:    serverCfg,
		Admin:     adminCfg,
		Token:     tokenCfg,
		Cors:      corsCfg,
		RateLimit: &RateLimitConfig{AuthPerSecond: rate},
	}, nil
}

func loadTokenConfig(env string) (*TokenConfig, error) {
	cfg := &TokenConfig{
		Secret:     os.Getenv("JWT_SECRET"),
		Issuer:     getEnv("JWT_ISSUER", defaultIssuer),
		Audience:   getEnv("JWT_AUDIENCE", defaultAudience),
		AccessTTL:  DefaultAccessTokenTTL,
		RefreshTTL: RefreshTokenTTL,
	}

	if cfg.Secret == "" {
		if env == EnvProduction {
			return nil, ErrMissingSecretInProduction
		}
		cfg.Secret = insecureDevelopmentSecret
		cfg.InsecureDefault = true
	}

	if raw := os.Getenv("ACCESS_TOKEN_TTL_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return nil, ErrInvalidAccessTokenTTL
		}
		cfg.AccessTTL = time.Duration(minutes) * time.Minute
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
