package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps the zap logger with additional functionality.
type Logger struct {
	*zap.Logger
}

// Config controls where log entries go and at which level.
type Config struct {
	// Level is the minimum level written to stdout (debug, info, warn, error).
	Level string `yaml:"log_level" json:"log_level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	// FileLevel is the minimum level written to the log file. Empty disables the file output.
	FileLevel string `yaml:"log_level_file" json:"log_level_file" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	// Directory is the folder of the log file. Required when FileLevel is set.
	Directory string `yaml:"log_directory" json:"log_directory"`
	// FileName is the log file name inside Directory.
	FileName string `yaml:"log_file_name" json:"log_file_name"`
	// Bypass disables logging entirely.
	Bypass bool `yaml:"bypass_logging" json:"bypass_logging"`
}

// NewLogger creates a new logger instance with production configuration.
func NewLogger() (*Logger, error) {
	config := zap.NewProductionConfig()

	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger: zapLogger,
	}, nil
}

// NewNopLogger creates a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// NewLoggerWithConfig creates a console logger and, when a file level is configured,
// tees a second JSON core into a file below the configured directory.
func NewLoggerWithConfig(cfg Config) (*Logger, error) {
	if cfg.Bypass {
		return NewNopLogger(), nil
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stdout), level),
	}

	if cfg.FileLevel != "" {
		fileLevel, err := ParseLevel(cfg.FileLevel)
		if err != nil {
			return nil, err
		}

		if cfg.Directory == "" {
			return nil, fmt.Errorf("log directory is required when log_level_file is set")
		}

		if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		name := cfg.FileName
		if name == "" {
			name = "backtest.log"
		}

		file, err := os.OpenFile(filepath.Join(cfg.Directory, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}

		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(file), fileLevel))
	}

	return &Logger{
		Logger: zap.New(zapcore.NewTee(cores...)),
	}, nil
}

// ParseLevel converts a case-insensitive level name into a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}

	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return l, nil
}

// Named returns a child logger tagged with the component name.
func (l *Logger) Named(name string) *Logger {
	if l == nil || l.Logger == nil {
		return NewNopLogger()
	}

	return &Logger{Logger: l.Logger.Named(name)}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	if l.Logger != nil {
		return l.Logger.Sync()
	}

	return nil
}
