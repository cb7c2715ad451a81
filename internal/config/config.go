package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	RedisAddr   string

	VendorAPIAddress string
	VendorAccountID  string
	VendorSecret     string
	VendorSalt       string
	VendorTimeout    time.Duration

	GatewayMPGURL     string
	GatewayMerchantID string
	GatewayHashKey    string
	GatewayHashIV     string
	GatewayReturnURL  string
	GatewayNotifyURL  string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	NotifyPollInterval time.Duration
	WorkerPoolSize     int
	MaxNotifyBatch     int
	ShutdownTimeout    time.Duration
}

const (
	defaultRunAddress         = ":8080"
	defaultVendorTimeout      = 15 * time.Second
	defaultNotifyPollInterval = 30 * time.Second
	defaultWorkerPoolSize     = 2
	defaultMaxNotifyBatch     = 16
	defaultShutdownTimeout    = 10 * time.Second
	defaultSMTPPort           = 587
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:  getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI: getString(lookup, "DATABASE_URI", ""),
		RedisAddr:   getString(lookup, "REDIS_ADDR", ""),

		VendorAPIAddress: getString(lookup, "VENDOR_API_ADDRESS", ""),
		VendorAccountID:  getString(lookup, "VENDOR_ACCOUNT_ID", ""),
		VendorSecret:     getString(lookup, "VENDOR_SECRET", ""),
		VendorSalt:       getString(lookup, "VENDOR_SALT", ""),
		VendorTimeout:    getDuration(lookup, "VENDOR_TIMEOUT", defaultVendorTimeout),

		GatewayMPGURL:     getString(lookup, "GATEWAY_MPG_URL", ""),
		GatewayMerchantID: getString(lookup, "GATEWAY_MERCHANT_ID", ""),
		GatewayHashKey:    getString(lookup, "GATEWAY_HASH_KEY", ""),
		GatewayHashIV:     getString(lookup, "GATEWAY_HASH_IV", ""),
		GatewayReturnURL:  getString(lookup, "GATEWAY_RETURN_URL", ""),
		GatewayNotifyURL:  getString(lookup, "GATEWAY_NOTIFY_URL", ""),

		SMTPHost:     getString(lookup, "SMTP_HOST", ""),
		SMTPPort:     getInt(lookup, "SMTP_PORT", defaultSMTPPort),
		SMTPUsername: getString(lookup, "SMTP_USERNAME", ""),
		SMTPPassword: getString(lookup, "SMTP_PASSWORD", ""),
		MailFrom:     getString(lookup, "MAIL_FROM", ""),

		NotifyPollInterval: getDuration(lookup, "NOTIFY_POLL_INTERVAL", defaultNotifyPollInterval),
		WorkerPoolSize:     getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		MaxNotifyBatch:     getInt(lookup, "NOTIFY_BATCH_SIZE", defaultMaxNotifyBatch),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("esimshop", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.NotifyPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.VendorAPIAddress, "vendor-api", cfg.VendorAPIAddress, "eSIM vendor API base URL")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for the plan catalog cache")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent notification workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between notification polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.MaxNotifyBatch, "poll-batch", cfg.MaxNotifyBatch, "Maximum orders per notification batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.NotifyPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxNotifyBatch <= 0 {
		cfg.MaxNotifyBatch = defaultMaxNotifyBatch
	}

	if cfg.NotifyPollInterval <= 0 {
		cfg.NotifyPollInterval = defaultNotifyPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.VendorTimeout <= 0 {
		cfg.VendorTimeout = defaultVendorTimeout
	}

	// Missing credentials are a deployment bug, not a runtime condition to
	// recover from: fail loudly instead of signing or encrypting with
	// empty values.
	required := []struct {
		name  string
		value string
	}{
		{"database URI", cfg.DatabaseURI},
		{"vendor API address", cfg.VendorAPIAddress},
		{"vendor account id", cfg.VendorAccountID},
		{"vendor secret", cfg.VendorSecret},
		{"vendor salt", cfg.VendorSalt},
		{"gateway MPG URL", cfg.GatewayMPGURL},
		{"gateway merchant id", cfg.GatewayMerchantID},
		{"gateway hash key", cfg.GatewayHashKey},
		{"gateway hash IV", cfg.GatewayHashIV},
		{"SMTP host", cfg.SMTPHost},
		{"mail sender address", cfg.MailFrom},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("%s must be provided", r.name)
		}
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
