// Package logging provides config-driven categorized logging for Timely on top of zap.
// Each category gets a named child of the root logger. When debug mode is on,
// individual categories can be switched off; disabled categories get a no-op logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup and shutdown
	CategorySession Category = "session" // Session state, transcript
	CategoryAPI     Category = "api"     // Backend HTTP calls
	CategoryTasks   Category = "tasks"   // Task list changes
	CategoryConfig  Category = "config"  // Config loading and live reload
	CategoryUI      Category = "ui"      // Interactive chat
)

// Options configures the root logger.
type Options struct {
	Level      string          // debug, info, warn, error
	Format     string          // json, console
	File       string          // empty = stderr
	DebugMode  bool            // enables per-category filtering and debug level
	Categories map[string]bool // per-category toggles, only honoured in debug mode
	Silent     bool            // discard everything (interactive mode without a log file)
}

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	opts    Options
	loggers = make(map[Category]*zap.Logger)
)

// New builds a zap logger from options without touching package state.
func New(o Options) (*zap.Logger, error) {
	if o.Silent {
		return zap.NewNop(), nil
	}

	var zc zap.Config
	if strings.EqualFold(o.Format, "console") {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	level := zapcore.InfoLevel
	if o.Level != "" {
		parsed, err := zapcore.ParseLevel(o.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", o.Level, err)
		}
		level = parsed
	}
	if o.DebugMode {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if o.File != "" {
		if err := os.MkdirAll(filepath.Dir(o.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		zc.OutputPaths = []string{o.File}
		zc.ErrorOutputPaths = []string{o.File}
	}

	return zc.Build()
}

// Initialize builds the root logger and installs it.
func Initialize(o Options) (*zap.Logger, error) {
	l, err := New(o)
	if err != nil {
		return nil, err
	}
	install(l, o)
	l.Named(string(CategoryBoot)).Debug("logging initialized",
		zap.String("level", o.Level),
		zap.String("file", o.File),
		zap.Bool("debug_mode", o.DebugMode))
	return l, nil
}

// SetRoot installs an already built logger, e.g. zap.NewNop() or an observer core in tests.
func SetRoot(l *zap.Logger, o Options) {
	if l == nil {
		l = zap.NewNop()
	}
	install(l, o)
}

func install(l *zap.Logger, o Options) {
	mu.Lock()
	defer mu.Unlock()
	root = l
	opts = o
	loggers = make(map[Category]*zap.Logger)
}

// Root returns the root logger.
func Root() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// IsCategoryEnabled returns whether a category writes anything.
// Outside debug mode every category is enabled; in debug mode a category is
// enabled unless explicitly set to false.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return categoryEnabledLocked(category)
}

func categoryEnabledLocked(category Category) bool {
	if !opts.DebugMode || opts.Categories == nil {
		return true
	}
	enabled, exists := opts.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) the logger for a category.
func Get(category Category) *zap.Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	l := zap.NewNop()
	if categoryEnabledLocked(category) {
		l = root.Named(string(category))
	}
	loggers[category] = l
	return l
}

// Sync flushes the root logger. Errors from syncing stderr are ignored.
func Sync() {
	_ = Root().Sync()
}
