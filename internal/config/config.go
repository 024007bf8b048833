package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DevJWTSecret is used outside production when no secret is configured
const DevJWTSecret = "dev-insecure-secret-change-me"

var configValidator = validator.New()

// Config application configuration
type Config struct {
	Env       string          `yaml:"env"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Auth      AuthConfig      `yaml:"auth"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig HTTP listener settings
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port" validate:"min=1,max=65535"`
	ShutdownTimeout int    `yaml:"shutdown_timeout" validate:"min=0"` // seconds
	BodyLimit       int64  `yaml:"body_limit" validate:"min=0"`       // bytes
}

// DatabaseConfig MySQL connection and pool settings
type DatabaseConfig struct {
	Host            string `yaml:"host" validate:"required"`
	Port            int    `yaml:"port" validate:"min=1,max=65535"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname" validate:"required"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
}

// RedisConfig Redis settings. Redis is optional; an empty host disables it.
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// JWTConfig token settings (seconds)
type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in" validate:"gt=0"`
	RefreshIn int    `yaml:"refresh_in" validate:"gt=0"`
}

// AuthConfig password hashing settings
type AuthConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

// CORSConfig comma-separated allowed origins
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// RateLimitConfig requests per minute; 0 disables the limiter
type RateLimitConfig struct {
	RequestsPerMinute     int `yaml:"requests_per_minute" validate:"min=0"`
	AuthRequestsPerMinute int `yaml:"auth_requests_per_minute" validate:"min=0"`
}

// LogConfig logger settings
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
}

// Default returns the configuration used when no file and no env overrides exist
func Default() *Config {
	return &Config{
		Env: "local",
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			ShutdownTimeout: 10,
			BodyLimit:       1 << 20,
		},
		Database: DatabaseConfig{
			Host:            "127.0.0.1",
			Port:            3306,
			User:            "root",
			DBName:          "notes_app",
			MaxIdleConns:    5,
			MaxOpenConns:    10,
			ConnMaxLifetime: 3600,
		},
		Redis: RedisConfig{
			Port:     6379,
			PoolSize: 10,
		},
		JWT: JWTConfig{
			ExpiresIn: 86400,
			RefreshIn: 7 * 86400,
		},
		Auth: AuthConfig{
			BcryptCost: 10,
		},
		CORS: CORSConfig{
			AllowOrigins: "http://localhost:4200,http://127.0.0.1:4200,http://localhost:3000,http://127.0.0.1:3000",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute:     120,
			AuthRequestsPerMinute: 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the yaml file at path (if it exists), then applies environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// env-only configuration
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"APP_ENV":        &c.Env,
		"HOST":           &c.Server.Host,
		"DB_HOST":        &c.Database.Host,
		"DB_USER":        &c.Database.User,
		"DB_PASSWORD":    &c.Database.Password,
		"DB_NAME":        &c.Database.DBName,
		"REDIS_HOST":     &c.Redis.Host,
		"REDIS_PASSWORD": &c.Redis.Password,
		"JWT_SECRET":     &c.JWT.Secret,
		"CORS_ORIGIN":    &c.CORS.AllowOrigins,
		"LOG_LEVEL":      &c.Log.Level,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"PORT":                    &c.Server.Port,
		"DB_PORT":                 &c.Database.Port,
		"DB_POOL_LIMIT":           &c.Database.MaxOpenConns,
		"DB_MAX_IDLE":             &c.Database.MaxIdleConns,
		"REDIS_PORT":              &c.Redis.Port,
		"REDIS_DB":                &c.Redis.DB,
		"JWT_EXPIRES_IN":          &c.JWT.ExpiresIn,
		"JWT_REFRESH_IN":          &c.JWT.RefreshIn,
		"BCRYPT_SALT_ROUNDS":      &c.Auth.BcryptCost,
		"RATE_LIMIT_PER_MIN":      &c.RateLimit.RequestsPerMinute,
		"AUTH_RATE_LIMIT_PER_MIN": &c.RateLimit.AuthRequestsPerMinute,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", key, v, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks required settings. Outside production a missing JWT secret falls back to
// DevJWTSecret; UsesDevSecret reports that so the caller can warn.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		c.JWT.Secret = DevJWTSecret
	}
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Database.MaxOpenConns < 1 {
		c.Database.MaxOpenConns = 1
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		c.Database.MaxIdleConns = c.Database.MaxOpenConns
	}
	return nil
}

// UsesDevSecret reports whether the insecure development secret is active
func (c *Config) UsesDevSecret() bool {
	return c.JWT.Secret == DevJWTSecret
}

// IsDevelopment reports local/dev environments
func (c *Config) IsDevelopment() bool {
	switch c.Env {
	case "", "local", "dev", "development":
		return true
	}
	return false
}

// IsProduction reports prod environments
func (c *Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

// AllowOrigins splits the CORS origin list
func (c *Config) AllowOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORS.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// GetDSN builds the MySQL DSN
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// Addr returns host:port for the HTTP listener
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Enabled reports whether a Redis host is configured
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}
