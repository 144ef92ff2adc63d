package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend names accepted by IDENTITY_BACKEND and PROFILE_STORE.
const (
	BackendSurreal  = "surreal"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Provider exposes configuration values to the rest of the application.
// Packages depend on this interface instead of the concrete Config so tests
// can supply partial fakes.
type Provider interface {
	GetAppAddr() string
	GetAppBaseURL() string
	GetSessionSecret() string

	GetDBURL() string
	GetDBNs() string
	GetDBDb() string
	GetDBUser() string
	GetDBPass() string
	GetDBQueryTimeout() time.Duration
	GetDBExecuteTimeout() time.Duration

	GetIdentityBackend() string
	GetProfileStore() string
	GetPostgresURL() string

	GetEmailProvider() string
	GetEmailAPIKey() string
	GetEmailSender() string

	GetPhoneCountryCode() string
	GetLoginVerify() bool
	GetAuthCookieTTL() time.Duration
}

// Config holds all configuration for the application.
type Config struct {
	AppAddr       string
	AppBaseURL    string
	SessionSecret string

	DBUrl            string
	DBNs             string
	DBDb             string
	DBUser           string
	DBPass           string
	DBQueryTimeout   time.Duration
	DBExecuteTimeout time.Duration

	IdentityBackend string
	ProfileStore    string
	PostgresURL     string

	EmailProvider string
	EmailAPIKey   string
	EmailSender   string

	PhoneCountryCode string
	LoginVerify      bool
	AuthCookieTTL    time.Duration
}

// New loads configuration from a .env file (if present) and the environment.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env files.
func FromEnv() *Config {
	return &Config{
		AppAddr:       getEnv("APP_ADDR", ":8080"),
		AppBaseURL:    getEnv("APP_BASE_URL", "http://localhost:8080"),
		SessionSecret: os.Getenv("SESSION_SECRET"),

		DBUrl:            os.Getenv("SURREAL_URL"),
		DBNs:             os.Getenv("SURREAL_NS"),
		DBDb:             os.Getenv("SURREAL_DB"),
		DBUser:           os.Getenv("SURREAL_USER"),
		DBPass:           os.Getenv("SURREAL_PASS"),
		DBQueryTimeout:   getDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		DBExecuteTimeout: getDuration("DB_EXECUTE_TIMEOUT", 10*time.Second),

		IdentityBackend: strings.ToLower(getEnv("IDENTITY_BACKEND", BackendSurreal)),
		ProfileStore:    strings.ToLower(getEnv("PROFILE_STORE", BackendSurreal)),
		PostgresURL:     os.Getenv("DATABASE_URL"),

		EmailProvider: getEnv("EMAIL_PROVIDER", "log"),
		EmailAPIKey:   os.Getenv("EMAIL_API_KEY"),
		EmailSender:   os.Getenv("EMAIL_SENDER"),

		PhoneCountryCode: getEnv("PHONE_COUNTRY_CODE", "+91"),
		// false restores the validate-only login stub.
		LoginVerify:   getBool("LOGIN_VERIFY", true),
		AuthCookieTTL: getDuration("AUTH_COOKIE_TTL", 24*time.Hour),
	}
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is not set")
	}

	switch c.IdentityBackend {
	case BackendSurreal, BackendMemory:
	default:
		return fmt.Errorf("unknown IDENTITY_BACKEND %q", c.IdentityBackend)
	}

	switch c.ProfileStore {
	case BackendSurreal, BackendMemory:
	case BackendPostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("PROFILE_STORE is %q but DATABASE_URL is not set", c.ProfileStore)
		}
	default:
		return fmt.Errorf("unknown PROFILE_STORE %q", c.ProfileStore)
	}

	if c.UsesSurreal() && (c.DBUrl == "" || c.DBNs == "" || c.DBDb == "") {
		return fmt.Errorf("required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set")
	}
	return nil
}

// UsesSurreal reports whether any configured backend needs a SurrealDB connection.
func (c *Config) UsesSurreal() bool {
	return c.IdentityBackend == BackendSurreal || c.ProfileStore == BackendSurreal
}

func (c *Config) GetAppAddr() string                 { return c.AppAddr }
func (c *Config) GetAppBaseURL() string              { return c.AppBaseURL }
func (c *Config) GetSessionSecret() string           { return c.SessionSecret }
func (c *Config) GetDBURL() string                   { return c.DBUrl }
func (c *Config) GetDBNs() string                    { return c.DBNs }
func (c *Config) GetDBDb() string                    { return c.DBDb }
func (c *Config) GetDBUser() string                  { return c.DBUser }
func (c *Config) GetDBPass() string                  { return c.DBPass }
func (c *Config) GetDBQueryTimeout() time.Duration   { return c.DBQueryTimeout }
func (c *Config) GetDBExecuteTimeout() time.Duration { return c.DBExecuteTimeout }
func (c *Config) GetIdentityBackend() string         { return c.IdentityBackend }
func (c *Config) GetProfileStore() string            { return c.ProfileStore }
func (c *Config) GetPostgresURL() string             { return c.PostgresURL }
func (c *Config) GetEmailProvider() string           { return c.EmailProvider }
func (c *Config) GetEmailAPIKey() string             { return c.EmailAPIKey }
func (c *Config) GetEmailSender() string             { return c.EmailSender }
func (c *Config) GetPhoneCountryCode() string        { return c.PhoneCountryCode }
func (c *Config) GetLoginVerify() bool               { return c.LoginVerify }
func (c *Config) GetAuthCookieTTL() time.Duration    { return c.AuthCookieTTL }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid boolean for %s=%q, using default %t", key, v, fallback)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration for %s=%q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}
