package debug

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Debug levels
const (
	LevelOff     = 0 // No output
	LevelInfo    = 1 // Important info (inputs, results table)
	LevelLive    = 2 // Live info (requests, computations)
	LevelVerbose = 3 // Verbose (intermediate angles, scene details)
	LevelTrace   = 4 // Trace (vectors, very low level)
)

// FileConfig holds rotated log file settings.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns default file logging settings.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

var (
	mu     sync.RWMutex
	level  int
	out    io.Writer = os.Stdout
	file   *lumberjack.Logger
	logger *zap.SugaredLogger
)

// Init initializes the debug system with a level (0-4).
// 0 = no output
// 1 = important info (inputs, results)
// 2 = live info (requests, computations)
// 3 = verbose (formula steps, intermediate angles, scene parameters)
// 4 = trace (vectors, mesh sizes)
func Init(debugLevel int) {
	_ = InitWithFile(debugLevel, FileConfig{})
}

// InitWithFile initializes the debug system and, when fileCfg.Path is set, mirrors
// every message to a rotated log file.
func InitWithFile(debugLevel int, fileCfg FileConfig) error {
	if fileCfg.Path != "" {
		if _, err := os.Stat(filepath.Dir(fileCfg.Path)); err != nil {
			return fmt.Errorf("log file directory: %w", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()

	level = debugLevel
	if file != nil {
		_ = file.Close()
		file = nil
	}
	if fileCfg.Path != "" {
		file = &lumberjack.Logger{
			Filename:   fileCfg.Path,
			MaxSize:    fileCfg.MaxSizeMB,
			MaxBackups: fileCfg.MaxBackups,
			MaxAge:     fileCfg.MaxAgeDays,
			Compress:   fileCfg.Compress,
			LocalTime:  true,
		}
	}
	rebuild()
	return nil
}

// SetOutput replaces the console writer (stdout by default). The web server uses it to
// mirror debug output to SSE clients.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	rebuild()
}

// Sync flushes any buffered log entries.
func Sync() {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		_ = l.Sync()
	}
}

// rebuild recreates the zap logger. Callers hold mu.
func rebuild() {
	if level <= LevelOff {
		logger = nil
		return
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig(zapcore.TimeEncoderOfLayout("15:04:05.000"))),
			zapcore.Lock(zapcore.AddSync(out)),
			zapcore.DebugLevel,
		),
	}
	if file != nil {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig(zapcore.ISO8601TimeEncoder)),
			zapcore.AddSync(file),
			zapcore.DebugLevel,
		))
	}
	logger = zap.New(zapcore.NewTee(cores...)).Named("solargeo").Sugar()
}

func encoderConfig(timeEnc zapcore.TimeEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		EncodeTime:       timeEnc,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}
}

// sink returns the logger when output at minLevel is enabled.
func sink(minLevel int) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	if level < minLevel {
		return nil
	}
	return logger
}

// Level returns the current debug level.
func Level() int {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// IsEnabled returns true if debug level is >= the requested level.
func IsEnabled(minLevel int) bool {
	return Level() >= minLevel
}

// --- Level 1 functions (Info): important info ---

// Info prints a level 1 message (important info).
func Info(format string, args ...interface{}) {
	if l := sink(LevelInfo); l != nil {
		l.Infof(format, args...)
	}
}

// Summary prints an important summary (level 1).
func Summary(title string) {
	if l := sink(LevelInfo); l != nil {
		l.Info("═══════════════════════════════════════")
		l.Infof("  %s", title)
		l.Info("═══════════════════════════════════════")
	}
}

// Value prints a named value in formatted form (level 1).
func Value(name string, value interface{}) {
	if l := sink(LevelInfo); l != nil {
		l.Infof("  %s = %v", name, value)
	}
}

// --- Level 2 functions (Live): real-time info ---

// Live prints a level 2 message (live info).
func Live(format string, args ...interface{}) {
	if l := sink(LevelLive); l != nil {
		l.Infof(format, args...)
	}
}

// --- Level 3 functions (Verbose): everything ---

// Verbose prints a level 3 message (verbose).
func Verbose(format string, args ...interface{}) {
	if l := sink(LevelVerbose); l != nil {
		l.Debugf(format, args...)
	}
}

// Print prints a level 3 message (alias for Verbose).
func Print(format string, args ...interface{}) {
	Verbose(format, args...)
}

// Printf is an alias for Print for compatibility.
func Printf(format string, args ...interface{}) {
	Verbose(format, args...)
}

// Println prints a level 3 message.
func Println(args ...interface{}) {
	if l := sink(LevelVerbose); l != nil {
		l.Debugln(args...)
	}
}

// PrintStruct prints a struct in formatted form (level 3).
func PrintStruct(name string, v interface{}) {
	if l := sink(LevelVerbose); l != nil {
		l.Debugf("%s: %+v", name, v)
	}
}

// Section prints a section separator (level 3).
func Section(name string) {
	if l := sink(LevelVerbose); l != nil {
		l.Debug("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		l.Debugf("  %s", name)
		l.Debug("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	}
}

// Step prints a numbered step (level 3).
func Step(num int, description string) {
	if l := sink(LevelVerbose); l != nil {
		l.Debugf("Step %d: %s", num, description)
	}
}

// Angle prints an angle given in radians together with its value in degrees (level 3).
func Angle(name string, radians float64) {
	if l := sink(LevelVerbose); l != nil {
		l.Debugf("  %s = %.6f rad (%.4f°)", name, radians, radians*180/math.Pi)
	}
}

// --- Level 4 functions (Trace): very low level ---

// Trace prints a level 4 message (trace).
func Trace(format string, args ...interface{}) {
	if l := sink(LevelTrace); l != nil {
		l.Debugf(format, args...)
	}
}

// --- General functions ---

// Error prints a debug error (level 1+).
func Error(err error) {
	if l := sink(LevelInfo); l != nil {
		l.Errorf("%v", err)
	}
}

// Fmt is a helper function that returns a formatted string
// only if debug is enabled (to avoid unnecessary allocations).
func Fmt(format string, args ...interface{}) string {
	if Level() > 0 {
		return fmt.Sprintf(format, args...)
	}
	return ""
}
