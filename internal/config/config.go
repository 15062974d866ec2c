// Package config assembles server settings from defaults, an optional .env
// file, environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the chat server.
type Config struct {
	Env  string
	Port string

	// DBType is one of postgres, pgx, mongodb or memory.
	DBType      string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBName      string
	DBUser      string
	DBPassword  string

	JWTSecret      string
	SessionTTL     time.Duration
	AllowedOrigins []string

	// BlobBackend is one of s3 or memory.
	BlobBackend   string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3PublicURL   string
	MaxImageBytes int

	LogLevel string
	LogFile  string
}

var (
	ErrMissingJWTSecret = errors.New("JWT_SECRET is required")
	ErrMissingDatabase  = errors.New("database connection details missing: set DATABASE_URL or DB_HOST, DB_NAME and DB_USER")
)

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Env = "development"
	c.Port = "8080"
	c.DBType = "postgres"
	c.DBPort = "5432"
	c.SessionTTL = 7 * 24 * time.Hour
	c.AllowedOrigins = []string{"http://localhost:5173"}
	c.BlobBackend = "memory"
	c.S3Region = "us-east-1"
	c.MaxImageBytes = 5 << 20
}

// Load builds a Config from defaults, the .env file at envFile (ignored when
// absent), the environment and args.
func Load(envFile string, args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fileVals := map[string]string{}
	if envFile != "" {
		vals, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
		if vals != nil {
			fileVals = vals
		}
	}

	// The environment wins over the .env file.
	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fileVals[key]
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) string) error {
	setString := func(dst *string, key string) {
		if v := lookup(key); v != "" {
			*dst = v
		}
	}

	setString(&c.Env, "ENV")
	setString(&c.Port, "PORT")
	setString(&c.DBType, "DB_TYPE")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.DBHost, "DB_HOST")
	setString(&c.DBPort, "DB_PORT")
	setString(&c.DBName, "DB_NAME")
	setString(&c.DBUser, "DB_USER")
	setString(&c.DBPassword, "DB_PASSWORD")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.BlobBackend, "BLOB_BACKEND")
	setString(&c.S3Bucket, "S3_BUCKET")
	setString(&c.S3Region, "S3_REGION")
	setString(&c.S3Endpoint, "S3_ENDPOINT")
	setString(&c.S3AccessKey, "S3_ACCESS_KEY")
	setString(&c.S3SecretKey, "S3_SECRET_KEY")
	setString(&c.S3PublicURL, "S3_PUBLIC_URL")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFile, "LOG_FILE")

	if v := lookup("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}

	if v := lookup("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}

	if v := lookup("MAX_IMAGE_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_IMAGE_BYTES: %w", err)
		}
		c.MaxImageBytes = n
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}

	switch c.DBType {
	case "postgres", "pgx", "mongodb":
		if _, err := c.ConnectionString(); err != nil {
			return err
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}

	switch c.BlobBackend {
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET is required for the s3 blob backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported BLOB_BACKEND %q", c.BlobBackend)
	}

	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.MaxImageBytes <= 0 {
		return errors.New("MAX_IMAGE_BYTES must be positive")
	}
	return nil
}

// ConnectionString returns DATABASE_URL, or a URL assembled from the
// individual DB_* settings for the configured backend.
func (c *Config) ConnectionString() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	if c.DBType == "memory" {
		return "", nil
	}
	if c.DBHost == "" || c.DBName == "" || c.DBUser == "" {
		return "", ErrMissingDatabase
	}

	u := url.URL{
		User: url.UserPassword(c.DBUser, c.DBPassword),
		Host: c.DBHost + ":" + c.DBPort,
		Path: "/" + c.DBName,
	}
	if c.DBType == "mongodb" {
		u.Scheme = "mongodb"
	} else {
		u.Scheme = "postgres"
		u.RawQuery = "sslmode=disable"
	}
	return u.String(), nil
}
