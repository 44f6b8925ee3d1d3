// Package config holds the logo server configuration.
//
// Values come from Default, are optionally overlaid by a YAML file (Load),
// and are finally overridden by command-line flags and environment in
// cmd/logoserver.
package config

import (
	"fmt"
	"os"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/tickerlogos/tickerlogos/internal/lookup"
)

// RootEnvVar overrides LogosRoot when set.
const RootEnvVar = "TICKERLOGOS_ROOT"

// Config is the complete server configuration.
type Config struct {
	// Addr is the address to listen on (e.g., ":8000").
	Addr string `json:"addr"`

	// LogosRoot is the directory scanned for logos.
	LogosRoot string `json:"logosRoot"`

	// DocsURL is where GET /logo without a ticker redirects.
	DocsURL string `json:"docsURL"`

	// FallbackMode is "first" or "deterministic".
	FallbackMode lookup.FallbackMode `json:"fallbackMode"`

	// FallbackRate limits fallback scans per second. Zero means unlimited.
	FallbackRate float64 `json:"fallbackRate"`

	// FallbackBurst is the limiter burst; ignored when FallbackRate is zero.
	FallbackBurst int `json:"fallbackBurst"`

	// AllowedOrigins for CORS. "*" allows any origin.
	AllowedOrigins []string `json:"allowedOrigins"`

	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string `json:"logLevel"`

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string `json:"tlsCertFile,omitempty"`
	TLSKeyFile  string `json:"tlsKeyFile,omitempty"`

	ReadTimeout     Duration `json:"readTimeout"`
	WriteTimeout    Duration `json:"writeTimeout"`
	IdleTimeout     Duration `json:"idleTimeout"`
	ShutdownTimeout Duration `json:"shutdownTimeout"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		Addr:            ":8000",
		LogosRoot:       "logos",
		DocsURL:         "/docs",
		FallbackMode:    lookup.FallbackFirstMatch,
		FallbackBurst:   1,
		AllowedOrigins:  []string{"*"},
		LogLevel:        "info",
		ReadTimeout:     Duration(10 * time.Second),
		WriteTimeout:    Duration(30 * time.Second),
		IdleTimeout:     Duration(60 * time.Second),
		ShutdownTimeout: Duration(10 * time.Second),
	}
}

// Load reads a YAML file over Default. Fields absent from the file keep
// their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if root := os.Getenv(RootEnvVar); root != "" {
		c.LogosRoot = root
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.LogosRoot == "" {
		return fmt.Errorf("logosRoot must not be empty")
	}
	switch c.FallbackMode {
	case lookup.FallbackFirstMatch, lookup.FallbackDeterministic:
	default:
		return fmt.Errorf("unknown fallbackMode %q (want %q or %q)",
			c.FallbackMode, lookup.FallbackFirstMatch, lookup.FallbackDeterministic)
	}
	if c.FallbackRate < 0 {
		return fmt.Errorf("fallbackRate must not be negative")
	}
	if c.FallbackRate > 0 && c.FallbackBurst < 1 {
		return fmt.Errorf("fallbackBurst must be at least 1 when fallbackRate is set")
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("tlsCertFile and tlsKeyFile must be set together")
	}
	return nil
}

// Duration is a time.Duration that reads and writes as a string such as "10s".
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %s: %w", string(b), err)
	}
	*d = Duration(parsed)
	return nil
}
