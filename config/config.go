// Package config loads application configuration from environment variables
// using kelseyhightower/envconfig. All variables share the INKWELL prefix,
// e.g. INKWELL_PORT=8080, INKWELL_STORE_URI=badger:///var/lib/inkwell.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"8080"`

	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	// Env selects error verbosity: "development" echoes internal error
	// details in responses, "production" replaces them with a generic message.
	Env string `envconfig:"ENV" default:"development"`
}

// StoreConfig holds the Badger store location and connection behaviour.
type StoreConfig struct {
	// URI locates the store: badger://<path> for on-disk, badger+mem:// for
	// an in-memory store (test mode, disables the reconnect watchdog).
	URI string `envconfig:"STORE_URI" default:"badger://data/inkwell"`

	// Startup connect retry envelope.
	ConnectAttempts  int           `envconfig:"STORE_CONNECT_ATTEMPTS" default:"5"`
	ConnectBaseDelay time.Duration `envconfig:"STORE_CONNECT_BASE_DELAY" default:"1s"`
	ConnectMaxDelay  time.Duration `envconfig:"STORE_CONNECT_MAX_DELAY" default:"30s"`
	ConnectTimeout   time.Duration `envconfig:"STORE_CONNECT_TIMEOUT" default:"5s"`

	// ReconnectDelay is the pause before the watchdog's reconnect attempt
	// after an unexpected disconnect.
	ReconnectDelay time.Duration `envconfig:"STORE_RECONNECT_DELAY" default:"5s"`

	// WatchdogPoll is how often the watchdog checks the handle for an
	// unexpected close.
	WatchdogPoll time.Duration `envconfig:"STORE_WATCHDOG_POLL" default:"1s"`

	// Badger resource bounds; the store's equivalent of a pool size.
	NumGoroutines int  `envconfig:"STORE_NUM_GOROUTINES" default:"8"`
	SyncWrites    bool `envconfig:"STORE_SYNC_WRITES" default:"false"`
}

// RateLimitConfig holds per-client request limiting settings.
type RateLimitConfig struct {
	Enabled bool    `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RPS     float64 `envconfig:"RATE_LIMIT_RPS" default:"10"`
	Burst   int     `envconfig:"RATE_LIMIT_BURST" default:"20"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	// Format is json or text.
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load reads configuration from the environment. Each section is processed
// separately so the variable names stay flat (INKWELL_PORT, INKWELL_STORE_URI)
// instead of composing the section name into the key (INKWELL_SERVER_PORT).
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("inkwell", &cfg.Server); err != nil {
		return nil, fmt.Errorf("process server config: %w", err)
	}
	if err := envconfig.Process("inkwell", &cfg.Store); err != nil {
		return nil, fmt.Errorf("process store config: %w", err)
	}
	if err := envconfig.Process("inkwell", &cfg.RateLimit); err != nil {
		return nil, fmt.Errorf("process rate limit config: %w", err)
	}
	if err := envconfig.Process("inkwell", &cfg.Log); err != nil {
		return nil, fmt.Errorf("process log config: %w", err)
	}
	return &cfg, nil
}

// Addr returns the server listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction reports whether production safeguards are enabled.
func (c *ServerConfig) IsProduction() bool {
	return c.Env == "production"
}
