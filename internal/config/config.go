package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Transport values accepted by SERVER_TRANSPORT.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "streamable-http"
)

// DefaultConfigDir is the directory that holds the optional .env file and
// the OAuth token cache. Relative to the user's home directory.
const DefaultConfigDir = ".config/ticktick-mcp"

// TokenCacheFile is the name of the OAuth token cache file inside the
// config directory.
const TokenCacheFile = ".token-oauth"

// Config holds the flat, process-wide configuration read once at startup.
// All values come from environment variables; an optional .env file can
// populate the environment first (see Load).
type Config struct {
	// TickTick OAuth application credentials
	ClientID     string `env:"TICKTICK_CLIENT_ID"`
	ClientSecret string `env:"TICKTICK_CLIENT_SECRET"`
	RedirectURI  string `env:"TICKTICK_REDIRECT_URI"`

	// TickTick account credentials for the v2 session API
	Username string `env:"TICKTICK_USERNAME"`
	Password string `env:"TICKTICK_PASSWORD"`

	// Server transport configuration
	Transport string `env:"SERVER_TRANSPORT" envDefault:"stdio"`
	Host      string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port      int    `env:"SERVER_PORT" envDefault:"8150"`

	// ConfigDir is where the .env file and token cache live.
	// Not itself read from the environment; set by Load.
	ConfigDir string `env:"-"`
}

// requiredVars are the credential variables that must be present for the
// upstream client to initialize.
var requiredVars = []string{
	"TICKTICK_CLIENT_ID",
	"TICKTICK_CLIENT_SECRET",
	"TICKTICK_REDIRECT_URI",
	"TICKTICK_USERNAME",
	"TICKTICK_PASSWORD",
}

// envComplete reports whether all required credential variables are already
// set in the environment.
func envComplete() bool {
	for _, k := range requiredVars {
		if os.Getenv(k) == "" {
			return false
		}
	}
	return true
}

// Load reads configuration from the environment, optionally loading a .env
// file first. dotenvDir selects the directory containing the .env file; if
// empty and all credentials are already in the environment, no .env file is
// consulted at all. Otherwise the default config directory is used.
func Load(dotenvDir string) (*Config, error) {
	dir := dotenvDir
	if dir == "" {
		if envComplete() {
			// Nothing to load; still record the default dir for the
			// token cache.
			cfg, err := parse()
			if err != nil {
				return nil, err
			}
			cfg.ConfigDir = defaultConfigDir()
			return cfg, nil
		}
		dir = defaultConfigDir()
	} else {
		dir = expandHome(dir)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	dotenvPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(dotenvPath); err == nil {
		if err := godotenv.Overload(dotenvPath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
		}
	} else if !envComplete() {
		return nil, fmt.Errorf("required .env file not found at %s and credentials missing from environment", dotenvPath)
	}

	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	cfg.ConfigDir = dir
	return cfg, nil
}

// parse fills a Config from the current environment.
func parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.Transport = NormalizeTransport(cfg.Transport)
	return &cfg, nil
}

// NormalizeTransport maps accepted transport spellings onto the canonical
// values. The original server accepted "http" as an alias for the
// streamable HTTP transport.
func NormalizeTransport(transport string) string {
	switch strings.ToLower(strings.TrimSpace(transport)) {
	case "http", "streamable-http":
		return TransportHTTP
	case "", "stdio":
		return TransportStdio
	default:
		return strings.ToLower(strings.TrimSpace(transport))
	}
}

// ValidateCredentials checks that every upstream credential is present.
// The error lists all missing variables so the operator can fix them in
// one pass.
func (c *Config) ValidateCredentials() error {
	var missing []string
	for name, value := range map[string]string{
		"TICKTICK_CLIENT_ID":     c.ClientID,
		"TICKTICK_CLIENT_SECRET": c.ClientSecret,
		"TICKTICK_REDIRECT_URI":  c.RedirectURI,
		"TICKTICK_USERNAME":      c.Username,
		"TICKTICK_PASSWORD":      c.Password,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		// Sort for deterministic error messages.
		sort.Strings(missing)
		return fmt.Errorf("missing TickTick credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}

// HasCredentials reports whether every upstream credential is set.
func (c *Config) HasCredentials() bool {
	return c.ValidateCredentials() == nil
}

// ListenAddr returns the host:port address for the HTTP transport.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TokenCachePath returns the path of the OAuth token cache file.
func (c *Config) TokenCachePath() string {
	return filepath.Join(c.ConfigDir, TokenCacheFile)
}

func defaultConfigDir() string {
	return filepath.Join(homeDir(), filepath.FromSlash(DefaultConfigDir))
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.Getenv("HOME")
}
