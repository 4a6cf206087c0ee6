// Package config resolves the adapter configuration once, at construction
// time, into an immutable value. Precedence: built-in defaults, then the
// optional project file (.testpulse.yaml), then TESTPULSE_* environment
// variables, then explicit options.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// EnvPrefix is the prefix for all environment variables.
	EnvPrefix = "TESTPULSE"
	// ProjectConfigFile is the project-level config file name.
	ProjectConfigFile = ".testpulse.yaml"

	// FallbackProjectID is used when no project identifier is configured.
	FallbackProjectID = "unknown-project"

	defaultBaseURL        = "http://localhost:8080"
	defaultTimeout        = 30 * time.Second
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = time.Second
)

// Config is the resolved, immutable adapter configuration.
type Config struct {
	// Project identifier in the collection service
	ProjectID string
	// Human-readable project name, defaults to ProjectID
	ProjectName string
	// Base URL of the collection service
	BaseURL string
	// Per-request timeout
	Timeout time.Duration
	// Maximum delivery attempts per run
	MaxRetries int
	// Base delay for the linear retry backoff
	RetryBaseDelay time.Duration
	// Whether reporting is active at all
	Enabled bool
	// Whether a delivery failure is surfaced to the caller instead of logged
	FailOnError bool
}

// Options are the explicit overrides a caller passes in. Zero values mean
// "not set"; boolean options are pointers so an explicit false survives.
type Options struct {
	ProjectID    string
	ProjectName  string
	BaseURL      string
	TimeoutMS    int
	MaxRetries   int
	RetryDelayMS int
	Enabled      *bool
	FailOnError  *bool
	ProjectRoot  string
}

// Resolve builds the final configuration. It never fails: a missing
// project identifier degrades to FallbackProjectID, an unreadable or
// malformed project file is ignored.
func Resolve(opts Options) Config {
	cfg := Config{
		BaseURL:        defaultBaseURL,
		Timeout:        defaultTimeout,
		MaxRetries:     defaultMaxRetries,
		RetryBaseDelay: defaultRetryBaseDelay,
		Enabled:        true,
	}

	applyFile(&cfg, opts.ProjectRoot)
	applyEnv(&cfg)
	applyOptions(&cfg, opts)

	if cfg.ProjectID == "" {
		cfg.ProjectID = FallbackProjectID
	}
	if cfg.ProjectName == "" {
		cfg.ProjectName = cfg.ProjectID
	}

	return cfg
}

func applyOptions(cfg *Config, opts Options) {
	if opts.ProjectID != "" {
		cfg.ProjectID = opts.ProjectID
	}
	if opts.ProjectName != "" {
		cfg.ProjectName = opts.ProjectName
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.TimeoutMS > 0 {
		cfg.Timeout = time.Duration(opts.TimeoutMS) * time.Millisecond
	}
	if opts.MaxRetries > 0 {
		cfg.MaxRetries = opts.MaxRetries
	}
	if opts.RetryDelayMS > 0 {
		cfg.RetryBaseDelay = time.Duration(opts.RetryDelayMS) * time.Millisecond
	}
	if opts.Enabled != nil {
		cfg.Enabled = *opts.Enabled
	}
	if opts.FailOnError != nil {
		cfg.FailOnError = *opts.FailOnError
	}
}

func applyEnv(cfg *Config) {
	if v := envVar("PROJECT_ID"); v != "" {
		cfg.ProjectID = v
	}
	if v := envVar("PROJECT_NAME"); v != "" {
		cfg.ProjectName = v
	}
	if v := envVar("BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if ms, ok := envInt("TIMEOUT_MS"); ok && ms > 0 {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	if n, ok := envInt("RETRIES"); ok && n > 0 {
		cfg.MaxRetries = n
	}
	if ms, ok := envInt("RETRY_DELAY_MS"); ok && ms > 0 {
		cfg.RetryBaseDelay = time.Duration(ms) * time.Millisecond
	}
	if b, ok := envBool("ENABLED"); ok {
		cfg.Enabled = b
	}
	if b, ok := envBool("FAIL_ON_ERROR"); ok {
		cfg.FailOnError = b
	}
}

func envVar(name string) string {
	return os.Getenv(EnvPrefix + "_" + name)
}

func envInt(name string) (int, bool) {
	v := envVar(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string) (bool, bool) {
	v := strings.ToLower(envVar(name))
	switch v {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	default:
		return false, false
	}
}
