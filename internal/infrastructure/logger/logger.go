// Package logger builds the zap loggers used by the console binaries.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultTimeFormat is the layout used when none is configured
const DefaultTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Config holds logger configuration
type Config struct {
	Name       string // added to every entry as "app" when set
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	TimeFormat string // Go time layout
}

// ForEnvironment fills the blank fields of base for the web console.
// Production defaults to JSON lines; other environments to console output.
func ForEnvironment(env string, base Config) *Config {
	cfg := base
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "console"
		if env == "production" {
			cfg.Format = "json"
		}
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
	return &cfg
}

// ForTerminal is the configuration of catalogctl. Logs go to stderr so they
// never interleave with table output, and stay quiet unless verbose.
func ForTerminal(verbose bool, timeFormat string) *Config {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return &Config{
		Level:      level,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: timeFormat,
	}
}

// New creates a zap logger. A nil cfg logs info and above to stdout.
func New(cfg *Config) (*zap.Logger, error) {
	if cfg == nil {
		cfg = ForEnvironment("", Config{})
	}
	writer, err := createWriter(cfg.Output)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(createEncoder(cfg), writer, parseLevel(cfg.Level))
	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	}
	if cfg.Name != "" {
		opts = append(opts, zap.Fields(zap.String("app", cfg.Name)))
	}
	return zap.New(core, opts...), nil
}

// parseLevel converts a string level to zapcore.Level
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// isStream reports whether output is a standard stream rather than a file
func isStream(output string) bool {
	switch strings.ToLower(output) {
	case "", "stdout", "stderr":
		return true
	}
	return false
}

func createEncoder(cfg *Config) zapcore.Encoder {
	layout := cfg.TimeFormat
	if layout == "" {
		layout = DefaultTimeFormat
	}
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(layout)
	ec.EncodeDuration = zapcore.MillisDurationEncoder

	if cfg.Format != "console" {
		return zapcore.NewJSONEncoder(ec)
	}
	// colour codes only make sense on a terminal stream
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if isStream(cfg.Output) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}

// createWriter opens the log destination. Files are appended to.
func createWriter(output string) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(output) {
	case "", "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}
	file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", output, err)
	}
	return zapcore.AddSync(file), nil
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func Sync(logger *zap.Logger) {
	_ = logger.Sync()
}
