package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/0xcro3dile/podpanel-go/internal/domain/entities"
)

type Config struct {
	API     APIConfig
	Server  ServerConfig
	Journal JournalConfig
	Watch   WatchConfig
	Log     LogConfig
}

type APIConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type ServerConfig struct {
	ListenAddr string
}

type JournalConfig struct {
	Path string // empty keeps the journal in memory
}

type WatchConfig struct {
	Extensions []string
	Settle     time.Duration
}

type LogConfig struct {
	Level  string // debug|info|warn|error
	Format string // json|text
}

func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "",
			RequestTimeout: 10 * time.Minute,
		},
		Server: ServerConfig{
			ListenAddr: "127.0.0.1:5173",
		},
		Journal: JournalConfig{
			Path: "",
		},
		Watch: WatchConfig{
			Extensions: entities.DefaultTranscriptExtensions(),
			Settle:     500 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads envFile (if present) into the environment, then builds a Config
// from Default() overridden by PANEL_* variables.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from Default() and the process environment.
func FromEnv() (Config, error) {
	cfg := Default()

	cfg.API.BaseURL = envOr("PANEL_API_BASE_URL", envOr("VITE_API_BASE_URL", cfg.API.BaseURL))
	cfg.Server.ListenAddr = envOr("PANEL_LISTEN_ADDR", cfg.Server.ListenAddr)
	cfg.Journal.Path = envOr("PANEL_JOURNAL_PATH", cfg.Journal.Path)
	cfg.Log.Level = envOr("PANEL_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envOr("PANEL_LOG_FORMAT", cfg.Log.Format)

	if v := strings.TrimSpace(os.Getenv("PANEL_WATCH_EXTENSIONS")); v != "" {
		cfg.Watch.Extensions = splitCSV(v)
	}

	var err error
	if cfg.API.RequestTimeout, err = envOrDuration("PANEL_REQUEST_TIMEOUT", cfg.API.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Watch.Settle, err = envOrDuration("PANEL_WATCH_SETTLE", cfg.Watch.Settle); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the fields every command needs.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("API base URL is required (set PANEL_API_BASE_URL or --api)")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid API base URL %q: scheme must be http or https", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid API base URL %q: missing host", c.API.BaseURL)
	}
	if c.API.RequestTimeout < 0 {
		return errors.New("request timeout must not be negative")
	}
	return nil
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envOrDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
