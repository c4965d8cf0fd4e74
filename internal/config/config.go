package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	LedgerPostgres = "postgres"
	LedgerRedis    = "redis"
	LedgerMemory   = "memory"
)

// Config is built once at startup and handed to bootstrap. Nothing in the
// service reads the environment after Load returns.
type Config struct {
	//App
	Env string // dev / test / prod
	//HTTP
	HTTPAddr           string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	CORSAllowedOrigins []string

	//Auth / Security
	JWTSecret  string
	TokenTTL   time.Duration // 0 = tokens never expire
	BcryptCost int

	// Infrastructure
	DBAddr           string
	DBDebug          bool
	DBMaxOpenConns   int
	DBMaxIdleConns   int
	DBConnectTimeout time.Duration
	LedgerBackend string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Messaging (optional; empty URL disables lifecycle events)
	RabbitURL      string
	RabbitExchange string

	// Logging
	LogLevel  string
	LogFormat string

	SeedUsers bool
}

// Load reads .env.<ENV> and .env (when present) and then the process
// environment. Values already set in the environment win.
func Load() (*Config, error) {
	env := getEnv("ENV", "dev")
	loadEnvFiles(".env."+env, ".env")

	cfg := &Config{
		Env:       getEnv("ENV", env),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	cfg.HTTPAddr = getEnv("HTTP_ADDR", "")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":" + getEnv("PORT", "8080")
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	cfg.DBAddr = getEnv("DATABASE_URL", "")
	if cfg.DBAddr == "" {
		return nil, fmt.Errorf("missing required env var: DATABASE_URL")
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.TokenTTL < 0 {
		return nil, fmt.Errorf("TOKEN_TTL must not be negative")
	}

	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 10); err != nil {
		return nil, err
	}

	if cfg.DBDebug, err = getBool("DB_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.DBMaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", 20); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = getInt("DB_MAX_IDLE_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.DBConnectTimeout, err = getDuration("DB_CONNECT_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SeedUsers, err = getBool("SEED_USERS", false); err != nil {
		return nil, err
	}

	cfg.LedgerBackend = strings.ToLower(getEnv("LEDGER_BACKEND", LedgerPostgres))
	switch cfg.LedgerBackend {
	case LedgerPostgres, LedgerRedis, LedgerMemory:
	default:
		return nil, fmt.Errorf("invalid LEDGER_BACKEND %q", cfg.LedgerBackend)
	}

	cfg.RedisAddr = getEnv("REDIS_ADDR", "127.0.0.1:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	cfg.RabbitURL = getEnv("RABBITMQ_URL", "")
	cfg.RabbitExchange = getEnv("RABBITMQ_EXCHANGE", "todo.events")

	// any origin only by default in dev; elsewhere cross-origin access is opt-in
	defOrigins := ""
	if cfg.Env == "dev" {
		defOrigins = "*"
	}
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", defOrigins))

	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadEnvFiles(files ...string) {
	for _, f := range files {
		// missing files are fine; godotenv never overrides set variables
		_ = godotenv.Load(f)
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q: %w", key, v, err)
	}
	return i, nil
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	switch strings.ToLower(v) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean for %s: %q", key, v)
	}
}

// AllowsAnyOrigin reports whether CORS is open to every origin.
func (c *Config) AllowsAnyOrigin() bool {
	return slices.Contains(c.CORSAllowedOrigins, "*")
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
