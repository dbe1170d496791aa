package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	JWTSecret   string
	TokenTTL    time.Duration
	BcryptCost  int
	LogLevel    string

	RedisAddress  string
	RedisPassword string
	RedisDB       int
	NATSURL       string

	SettlementPollInterval time.Duration
	SettlementRetryDelay   time.Duration
	WorkerPoolSize         int
	LockTTL                time.Duration
	BidRetryAttempts       int
	ShutdownTimeout        time.Duration
}

const (
	defaultRunAddress             = ":8080"
	defaultJWTSecret              = "change-me-in-production"
	defaultTokenTTL               = 24 * time.Hour
	defaultLogLevel               = "info"
	defaultSettlementPollInterval = 5 * time.Second
	defaultSettlementRetryDelay   = 10 * time.Second
	defaultWorkerPoolSize         = 4
	defaultLockTTL                = 30 * time.Second
	defaultBidRetryAttempts       = 3
	defaultShutdownTimeout        = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:             getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:            getString(lookup, "DATABASE_URI", ""),
		JWTSecret:              getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:               getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		BcryptCost:             getInt(lookup, "BCRYPT_COST", 0),
		LogLevel:               getString(lookup, "LOG_LEVEL", defaultLogLevel),
		RedisAddress:           getString(lookup, "REDIS_ADDR", ""),
		RedisPassword:          getString(lookup, "REDIS_PASSWORD", ""),
		RedisDB:                getInt(lookup, "REDIS_DB", 0),
		NATSURL:                getString(lookup, "NATS_URL", ""),
		SettlementPollInterval: getDuration(lookup, "SETTLEMENT_POLL_INTERVAL", defaultSettlementPollInterval),
		SettlementRetryDelay:   getDuration(lookup, "SETTLEMENT_RETRY_DELAY", defaultSettlementRetryDelay),
		WorkerPoolSize:         getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		LockTTL:                getDuration(lookup, "LOCK_TTL", defaultLockTTL),
		BidRetryAttempts:       getInt(lookup, "BID_RETRY_ATTEMPTS", defaultBidRetryAttempts),
		ShutdownTimeout:        getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("auctionhouse", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.SettlementPollInterval.String()
		retryDelayStr      = cfg.SettlementRetryDelay.String()
		lockTTLStr         = cfg.LockTTL.String()
		tokenTTLStr        = cfg.TokenTTL.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Lifetime of issued auth tokens")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", cfg.BcryptCost, "bcrypt cost for password hashes, 0 for default")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for settlement locks")
	fs.StringVar(&cfg.NATSURL, "nats", cfg.NATSURL, "NATS URL for auction events")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent settlement workers")
	fs.IntVar(&cfg.BidRetryAttempts, "bid-retries", cfg.BidRetryAttempts, "Attempts for a bid on conflict")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between settlement rescans")
	fs.StringVar(&retryDelayStr, "retry-delay", retryDelayStr, "Delay before retrying a failed settlement")
	fs.StringVar(&lockTTLStr, "lock-ttl", lockTTLStr, "Settlement lock lifetime")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SettlementPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.SettlementRetryDelay, err = time.ParseDuration(retryDelayStr); err != nil {
		return nil, fmt.Errorf("invalid retry delay: %w", err)
	}

	if cfg.LockTTL, err = time.ParseDuration(lockTTLStr); err != nil {
		return nil, fmt.Errorf("invalid lock ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.BidRetryAttempts <= 0 {
		cfg.BidRetryAttempts = defaultBidRetryAttempts
	}

	if cfg.SettlementPollInterval <= 0 {
		cfg.SettlementPollInterval = defaultSettlementPollInterval
	}

	if cfg.SettlementRetryDelay <= 0 {
		cfg.SettlementRetryDelay = defaultSettlementRetryDelay
	}

	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultLockTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
