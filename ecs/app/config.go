package app

import (
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// Config holds host settings.
type Config struct {
	Title      string
	FPS        int
	LogLevel   string
	LogFormat  string
	StartScene string
}

// DefaultConfig returns the settings used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Title:     "scenery",
		FPS:       60,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// FromEnv overlays LOG_LEVEL, LOG_FORMAT and SCENERY_FPS on cfg.
func FromEnv(cfg Config) (Config, error) {
	if level, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = level
	}
	if format, ok := os.LookupEnv("LOG_FORMAT"); ok {
		cfg.LogFormat = strings.ToLower(format)
	}
	if fps, ok := os.LookupEnv("SCENERY_FPS"); ok {
		n, err := strconv.Atoi(fps)
		if err != nil {
			return cfg, eris.Wrapf(err, "SCENERY_FPS=%q", fps)
		}
		cfg.FPS = n
	}
	return cfg, nil
}

// Validate checks that cfg can drive an App.
func (c Config) Validate() error {
	if c.FPS <= 0 {
		return eris.Errorf("fps must be positive, got %d", c.FPS)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return eris.Errorf("unknown log format %q", c.LogFormat)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return eris.Wrap(err, "log level")
	}
	return nil
}
