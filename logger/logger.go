package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"realtimesales/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init configures the standard logrus logger. When cfg.File is set output is
// written to stdout and to a size-rotated file.
func Init(cfg *config.LogConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	logrus.SetLevel(level)

	switch cfg.Format {
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.File == "" {
		logrus.SetOutput(os.Stdout)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	rotated := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}
	logrus.SetOutput(io.MultiWriter(os.Stdout, rotated))
	return nil
}
