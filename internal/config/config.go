// Package config reads process configuration from flags, with defaults taken
// from CHESS_* environment variables.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type Config struct {
	Addr          string
	Origins       string
	Depth         int
	Pruning       bool
	DataDir       string
	LogLevel      log.Level
	ReplyInterval time.Duration
}

var logLevels = map[string]log.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Load parses args (without the program name).
func Load(args []string) (*Config, error) {
	depth, err := getenvInt("CHESS_DEPTH", 3)
	if err != nil {
		return nil, err
	}
	pruning, err := getenvBool("CHESS_PRUNING", true)
	if err != nil {
		return nil, err
	}
	interval, err := getenvDuration("CHESS_REPLY_INTERVAL", 100*time.Millisecond)
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	addr := fs.String("addr", getenv("CHESS_ADDR", ":3000"), "listen address")
	origins := fs.String("origins", getenv("CHESS_ORIGINS", "http://localhost:5173"), "comma-separated CORS origins")
	fs.IntVar(&depth, "depth", depth, "default search depth in plies")
	fs.BoolVar(&pruning, "pruning", pruning, "enable alpha-beta pruning")
	dataDir := fs.String("data-dir", getenv("CHESS_DATA_DIR", ""), "game archive directory (empty keeps games in memory)")
	level := fs.String("log-level", getenv("CHESS_LOG_LEVEL", "info"), "trace, debug, info, warn or error")
	fs.DurationVar(&interval, "reply-interval", interval, "how often queued engine replies are played")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:          *addr,
		Origins:       *origins,
		Depth:         depth,
		Pruning:       pruning,
		DataDir:       *dataDir,
		ReplyInterval: interval,
	}
	lvl, ok := logLevels[strings.ToLower(*level)]
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", *level)
	}
	cfg.LogLevel = lvl
	if cfg.Depth < 1 {
		return nil, fmt.Errorf("depth must be at least 1, got %d", cfg.Depth)
	}
	if cfg.ReplyInterval <= 0 {
		return nil, fmt.Errorf("reply interval must be positive, got %s", cfg.ReplyInterval)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
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

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("%s: not a boolean: %q", key, v)
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
