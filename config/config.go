package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds every process-wide setting. It is built once by Load and passed
// explicitly to the components that need it.
type Config struct {
	Port string

	DatabaseURL       string
	MigrationsEnabled bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	TokenTTL  time.Duration

	CORSOrigins   []string
	DefaultLocale string

	UploadDir       string
	UploadURLPrefix string
	MaxUploadBytes  int64

	FeaturedLimit        int
	LeaderboardLimit     int
	UserLeaderboardLimit int

	SessionSweepInterval time.Duration

	MailHost     string
	MailPort     string
	MailUsername string
	MailPassword string
	ClientURL    string

	DiscordWebhookID    string
	DiscordWebhookToken string

	AdminEmail    string
	AdminPassword string

	LogLevel  string
	LogFormat string

	RateLimit RateLimitConfig
}

// Load reads the optional .env file, then the environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional when variables come from the environment (Docker, CI...)
		log.Debug("no .env file loaded")
	}

	cfg := &Config{
		Port:                 getenv("PORT", "8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		MigrationsEnabled:    getbool("MIGRATIONS_ENABLED", false),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getint("REDIS_DB", 0),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		TokenTTL:             getduration("TOKEN_TTL", 7*24*time.Hour),
		CORSOrigins:          splitList(getenv("CORS_ORIGIN", "http://localhost:5173")),
		DefaultLocale:        getenv("DEFAULT_LOCALE", "vi"),
		UploadDir:            getenv("UPLOAD_DIR", "uploads"),
		UploadURLPrefix:      strings.TrimRight(getenv("UPLOAD_URL_PREFIX", "/uploads"), "/"),
		MaxUploadBytes:       int64(getint("MAX_UPLOAD_BYTES", 100<<20)),
		FeaturedLimit:        getint("FEATURED_LIMIT", 6),
		LeaderboardLimit:     getint("LEADERBOARD_LIMIT", 20),
		UserLeaderboardLimit: getint("USER_LEADERBOARD_LIMIT", 10),
		SessionSweepInterval: getduration("SESSION_SWEEP_INTERVAL", time.Hour),
		MailHost:             os.Getenv("MAIL_HOST"),
		MailPort:             getenv("MAIL_PORT", "587"),
		MailUsername:         os.Getenv("MAIL_USERNAME"),
		MailPassword:         os.Getenv("MAIL_PASSWORD"),
		ClientURL:            getenv("CLIENT_URL", "http://localhost:5173"),
		DiscordWebhookID:     os.Getenv("DISCORD_WEBHOOK_ID"),
		DiscordWebhookToken:  os.Getenv("DISCORD_WEBHOOK_TOKEN"),
		AdminEmail:           os.Getenv("ADMIN_EMAIL"),
		AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
		LogLevel:             getenv("LOG_LEVEL", "info"),
		LogFormat:            getenv("LOG_FORMAT", "text"),
		RateLimit:            loadRateLimitConfig(),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = postgresURLFromParts()
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks the loaded configuration.
func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}

	if strings.HasPrefix(c.DatabaseURL, "sqlite://") {
		if strings.TrimPrefix(c.DatabaseURL, "sqlite://") == "" {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): missing sqlite path", c.DatabaseURL)
		}
	} else {
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.DatabaseURL)
		}
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: MAX_UPLOAD_BYTES must be positive")
	}
	if c.FeaturedLimit <= 0 || c.LeaderboardLimit <= 0 || c.UserLeaderboardLimit <= 0 {
		return fmt.Errorf("config: listing limits must be positive")
	}
	if c.DefaultLocale != "vi" && c.DefaultLocale != "en" {
		return fmt.Errorf("config: DEFAULT_LOCALE must be vi or en, got %q", c.DefaultLocale)
	}
	return c.RateLimit.validate()
}

// MailEnabled reports whether SMTP settings are complete.
func (c *Config) MailEnabled() bool {
	return c.MailHost != "" && c.MailUsername != ""
}

// DiscordEnabled reports whether a moderation webhook is configured.
func (c *Config) DiscordEnabled() bool {
	return c.DiscordWebhookID != "" && c.DiscordWebhookToken != ""
}

// ConfigureLogger applies the log level and format to the global logger.
func (c *Config) ConfigureLogger() {
	if level, err := log.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// postgresURLFromParts builds a DSN from the discrete POSTGRES_* variables.
func postgresURLFromParts() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getenv("POSTGRES_USER", "postgres"), os.Getenv("POSTGRES_PASSWORD")),
		Host:     getenv("POSTGRES_HOST", "localhost") + ":" + getenv("POSTGRES_PORT", "5432"),
		Path:     "/" + getenv("POSTGRES_DB", "viemind"),
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warnf("config: %s=%q is not an integer, using %d", k, v, def)
		return def
	}
	return n
}

func getbool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warnf("config: %s=%q is not a duration, using %s", k, v, def)
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}
