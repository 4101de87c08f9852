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

type Config struct {
	Addr          string
	AllowOrigins  string
	MatchInterval time.Duration
	WSBufferSize  int
}

// Load reads flags from args, falling back to CHESS960_* environment variables and
// then to defaults.
func Load(args []string) (Config, error) {
	interval, err := getenvDuration("CHESS960_MATCH_INTERVAL", time.Second)
	if err != nil {
		return Config{}, err
	}
	buffer, err := getenvInt("CHESS960_WS_BUFFER", 1024)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	fs := flag.NewFlagSet("chess960", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Addr, "addr", getenv("CHESS960_ADDR", ":3000"), "listen address")
	fs.StringVar(&cfg.AllowOrigins, "allow-origins", getenv("CHESS960_ALLOW_ORIGINS", "http://localhost:5173"), "comma-separated CORS origins")
	fs.DurationVar(&cfg.MatchInterval, "match-interval", interval, "how often queued players are paired")
	fs.IntVar(&cfg.WSBufferSize, "ws-buffer", buffer, "websocket read/write buffer size in bytes")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.MatchInterval <= 0 {
		return Config{}, fmt.Errorf("match interval must be positive, got %s", cfg.MatchInterval)
	}
	if cfg.WSBufferSize <= 0 {
		return Config{}, fmt.Errorf("websocket buffer must be positive, got %d", cfg.WSBufferSize)
	}
	return cfg, nil
}

// Origins splits AllowOrigins for the websocket origin check.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
