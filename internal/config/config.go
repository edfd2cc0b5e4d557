package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// WompiConfig carries the gateway credentials and tuning. Secrets are always
// injected explicitly into the components that need them; business logic never
// reads the environment on its own.
type WompiConfig struct {
	PublicKey        string
	PrivateKey       string
	IntegrityKey     string
	EventsSecret     string
	BaseURL          string
	Currency         string
	MinAmountInCents int64
}

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	FrontendBaseURL string
	Wompi           WompiConfig
	ShutdownTimeout time.Duration
	SweepInterval   time.Duration
	PendingOrderTTL time.Duration
	SweepBatchSize  int
	WorkerPoolSize  int
}

const (
	defaultRunAddress       = ":8080"
	defaultFrontendBaseURL  = "http://localhost:5173"
	defaultGatewayBaseURL   = "https://api-sandbox.co.uat.wompi.dev/v1"
	defaultCurrency         = "COP"
	defaultMinAmountInCents = 150000
	defaultShutdownTimeout  = 10 * time.Second
	defaultSweepInterval    = time.Minute
	defaultPendingOrderTTL  = 30 * time.Minute
	defaultSweepBatchSize   = 32
	defaultWorkerPoolSize   = 4
)

// Load parses configuration from a .env file (if present), environment
// variables and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		FrontendBaseURL: getString(lookup, "FRONTEND_BASE_URL", defaultFrontendBaseURL),
		Wompi: WompiConfig{
			PublicKey:        getString(lookup, "WOMPI_PUBLIC_KEY", ""),
			PrivateKey:       getString(lookup, "WOMPI_PRIVATE_KEY", ""),
			IntegrityKey:     getString(lookup, "WOMPI_INTEGRITY_KEY", ""),
			EventsSecret:     getString(lookup, "WOMPI_EVENTS_SECRET_KEY", ""),
			BaseURL:          getString(lookup, "WOMPI_API_BASE_URL", defaultGatewayBaseURL),
			Currency:         getString(lookup, "WOMPI_CURRENCY", defaultCurrency),
			MinAmountInCents: getInt64(lookup, "WOMPI_MIN_AMOUNT_IN_CENTS", defaultMinAmountInCents),
		},
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		SweepInterval:   getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		PendingOrderTTL: getDuration(lookup, "PENDING_ORDER_TTL", defaultPendingOrderTTL),
		SweepBatchSize:  getInt(lookup, "SWEEP_BATCH_SIZE", defaultSweepBatchSize),
		WorkerPoolSize:  getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
	}

	fs := flag.NewFlagSet("payflow", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		sweepIntervalStr   = cfg.SweepInterval.String()
		pendingTTLStr      = cfg.PendingOrderTTL.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.FrontendBaseURL, "frontend-url", cfg.FrontendBaseURL, "Frontend base URL for payment redirects")
	fs.StringVar(&cfg.Wompi.BaseURL, "gateway-url", cfg.Wompi.BaseURL, "Wompi API base URL")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent sweep workers")
	fs.IntVar(&cfg.SweepBatchSize, "sweep-batch", cfg.SweepBatchSize, "Maximum stale orders per sweep batch")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between pending order sweeps")
	fs.StringVar(&pendingTTLStr, "pending-ttl", pendingTTLStr, "Age after which a PENDING order is swept")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.PendingOrderTTL, err = time.ParseDuration(pendingTTLStr); err != nil {
		return nil, fmt.Errorf("invalid pending order ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("WOMPI_EVENTS_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read events secret file: %w", err)
		}
		// Secrets mounted as files conventionally end with a newline; any
		// stray whitespace would poison every checksum computed with it.
		cfg.Wompi.EventsSecret = strings.TrimSpace(string(content))
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = defaultSweepBatchSize
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.PendingOrderTTL <= 0 {
		cfg.PendingOrderTTL = defaultPendingOrderTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.Wompi.MinAmountInCents <= 0 {
		cfg.Wompi.MinAmountInCents = defaultMinAmountInCents
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

func getInt64(lookup envLookup, key string, def int64) int64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
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
