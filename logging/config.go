// Package logging is a small hierarchical logging facility on top of log/slog.
//
// A Config owns the root severity threshold, per-logger overrides and the
// registered sinks. Loggers obtained from it read the threshold on every call,
// so changing it affects loggers created earlier. Changing the format template
// applies to every sink registered at that moment.
package logging

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// RootName is how the root logger shows up in the name field.
const RootName = "root"

type Config struct {
	root *slog.LevelVar

	mu     sync.RWMutex
	sinks  []*Sink
	levels map[string]slog.Level
	format string
}

var defaultConfig atomic.Pointer[Config]

func init() {
	defaultConfig.Store(New(NewTerminalSink(os.Stderr, nil)))
}

// Default returns the process-wide configuration. It starts with one stderr sink.
func Default() *Config {
	return defaultConfig.Load()
}

func SetDefault(c *Config) {
	defaultConfig.Store(c)
}

// New creates a configuration with the root threshold at WARNING.
func New(sinks ...*Sink) *Config {
	c := &Config{
		root:   new(slog.LevelVar),
		sinks:  slices.Clone(sinks),
		levels: make(map[string]slog.Level),
		format: DefaultFormat,
	}
	c.root.Set(LevelWarning.Slog())

	return c
}

// Level returns the root threshold.
func (c *Config) Level() slog.Level {
	return c.root.Level()
}

func (c *Config) SetLevel(level Level) {
	c.root.Set(level.Slog())
}

// Format returns the template most recently applied with SetFormat.
func (c *Config) Format() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.format
}

// SetFormat compiles template and applies it to every registered sink.
// Nothing changes when the template is malformed.
func (c *Config) SetFormat(template string) error {
	f, err := Compile(template)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.sinks {
		s.SetFormatter(f)
	}
	c.format = template

	return nil
}

// AddSink registers s. It keeps its own formatter until the next SetFormat.
func (c *Config) AddSink(s *Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sinks = append(c.sinks, s)
}

func (c *Config) Sinks() []*Sink {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.sinks)
}

// SetLoggerLevel overrides the threshold of a named logger and its descendants.
// The empty name is the root logger.
func (c *Config) SetLoggerLevel(name string, level Level) {
	if name == "" {
		c.SetLevel(level)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.levels[name] = level.Slog()
}

// ClearLoggerLevel makes a named logger inherit its threshold again.
func (c *Config) ClearLoggerLevel(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.levels, name)
}

// EffectiveLevel walks up the dotted name until it finds an override,
// falling back to the root threshold.
func (c *Config) EffectiveLevel(name string) slog.Level {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for name != "" {
		if level, ok := c.levels[name]; ok {
			return level
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			break
		}
		name = name[:i]
	}

	return c.root.Level()
}

// Logger returns a slog logger named name. The empty name is the root logger.
func (c *Config) Logger(name string) *slog.Logger {
	return slog.New(&handler{config: c, name: name})
}

// Install makes the root logger the slog default.
func (c *Config) Install() {
	slog.SetDefault(c.Logger(""))
}

func (c *Config) emit(r *Record) error {
	var errs []error
	for _, s := range c.Sinks() {
		if err := s.Emit(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type handler struct {
	config *Config
	name   string
	attrs  []slog.Attr
	groups []string
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.config.EffectiveLevel(h.name)
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	attrs := slices.Clone(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.grouped(a))
		return true
	})

	name := h.name
	if name == "" {
		name = RootName
	}

	return h.config.emit(&Record{
		Logger:  name,
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		PC:      r.PC,
		Attrs:   attrs,
	})
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = slices.Clip(h.attrs)
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, h.grouped(a))
	}
	return &h2
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(slices.Clip(h.groups), name)
	return &h2
}

func (h *handler) grouped(a slog.Attr) slog.Attr {
	for i := len(h.groups) - 1; i >= 0; i-- {
		a = slog.Group(h.groups[i], a)
	}
	return a
}
