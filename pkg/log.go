package pkg

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Component identifies a subsystem for log filtering.
type Component string

// Driver component identifiers.
const (
	ComponentRegister Component = "reg"
	ComponentBBP      Component = "bbp"
	ComponentPower    Component = "power"
	ComponentInit     Component = "init"
	ComponentMAC      Component = "mac"
	ComponentStats    Component = "stats"
	ComponentUSB      Component = "usb"
	ComponentHAL      Component = "hal"
	ComponentSim      Component = "sim"
)

// LogFormat specifies the output format for logging.
type LogFormat int

// Log format options.
const (
	LogFormatText LogFormat = iota // Text format (default)
	LogFormatJSON                  // JSON format
)

var (
	// DefaultLogger is the default logger used by the driver.
	DefaultLogger *slog.Logger

	// logLevel controls the minimum log level.
	logLevel = new(slog.LevelVar)

	// logFormat is the format most recently selected by SetLogFormat.
	logFormat LogFormat

	// logOutput is where the default logger writes.
	logOutput io.Writer = os.Stderr

	// logFile is the rotating file sink installed by SetLogFile, if any.
	logFile *lumberjack.Logger

	// logMutex protects logger configuration.
	logMutex sync.RWMutex
)

func init() {
	logLevel.Set(slog.LevelWarn)
	DefaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// SetLogLevel sets the minimum log level for all driver logging.
func SetLogLevel(level slog.Level) {
	logMutex.Lock()
	defer logMutex.Unlock()
	logLevel.Set(level)
}

// GetLogLevel returns the current minimum log level.
func GetLogLevel() slog.Level {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return logLevel.Level()
}

// ParseLogLevel converts a level name ("debug", "info", "warn", "error")
// into a [slog.Level]. Unknown names yield [slog.LevelWarn] and false.
func ParseLogLevel(name string) (slog.Level, bool) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelWarn, false
	}
	return level, true
}

// SetLogger replaces the default logger with a custom logger.
func SetLogger(logger *slog.Logger) {
	logMutex.Lock()
	defer logMutex.Unlock()
	DefaultLogger = logger
}

// SetLogFormat configures the default logger to use the specified format.
// The logger writes to os.Stderr (and the log file, if one is set) and uses
// the current log level.
func SetLogFormat(format LogFormat) {
	logMutex.Lock()
	defer logMutex.Unlock()
	logFormat = format
	rebuildLocked()
}

// SetLogFile tees the default logger into a size-rotated file. An empty
// path closes any previously installed file and restores stderr-only
// output.
func SetLogFile(path string, maxSizeMB, maxBackups int) error {
	logMutex.Lock()
	defer logMutex.Unlock()

	if logFile != nil {
		if err := logFile.Close(); err != nil {
			return err
		}
		logFile = nil
	}
	logOutput = os.Stderr

	if path != "" {
		logFile = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
		}
		logOutput = io.MultiWriter(os.Stderr, logFile)
	}
	rebuildLocked()
	return nil
}

// rebuildLocked recreates DefaultLogger from the current format and output.
// The caller must hold logMutex.
func rebuildLocked() {
	opts := &slog.HandlerOptions{Level: logLevel}
	switch logFormat {
	case LogFormatJSON:
		DefaultLogger = slog.New(slog.NewJSONHandler(logOutput, opts))
	default:
		DefaultLogger = slog.New(slog.NewTextHandler(logOutput, opts))
	}
}

// NewLogger creates a new text logger writing to the given writer.
func NewLogger(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: logLevel}
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewJSONLogger creates a new JSON logger writing to the given writer.
func NewJSONLogger(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: logLevel}
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func logger() *slog.Logger {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return DefaultLogger
}

// LogDebug logs a debug message with the given component.
func LogDebug(component Component, msg string, args ...any) {
	logger().Debug(msg, append([]any{"component", string(component)}, args...)...)
}

// LogInfo logs an info message with the given component.
func LogInfo(component Component, msg string, args ...any) {
	logger().Info(msg, append([]any{"component", string(component)}, args...)...)
}

// LogWarn logs a warning message with the given component.
func LogWarn(component Component, msg string, args ...any) {
	logger().Warn(msg, append([]any{"component", string(component)}, args...)...)
}

// LogError logs an error message with the given component.
func LogError(component Component, msg string, args ...any) {
	logger().Error(msg, append([]any{"component", string(component)}, args...)...)
}
