package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var ErrNoSuchLevel = errors.New("no such level")

// Level is a named severity threshold. Its rank is the slog level it maps to.
type Level slog.Level

const (
	LevelDebug    = Level(slog.LevelDebug)
	LevelInfo     = Level(slog.LevelInfo)
	LevelWarning  = Level(slog.LevelWarn)
	LevelError    = Level(slog.LevelError)
	LevelCritical = Level(slog.LevelError + 4)
	LevelFatal    = LevelCritical
)

var levelNames = []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL", "FATAL"}

var levelsByName = map[string]Level{
	"DEBUG":    LevelDebug,
	"INFO":     LevelInfo,
	"WARNING":  LevelWarning,
	"ERROR":    LevelError,
	"CRITICAL": LevelCritical,
	"FATAL":    LevelFatal,
}

// Levels returns the named levels in ascending order. CRITICAL and FATAL share a rank.
func Levels() []Level {
	levels := make([]Level, len(levelNames))
	for i, name := range levelNames {
		levels[i] = levelsByName[name]
	}
	return levels
}

// LevelNames returns the accepted level names in ascending order.
func LevelNames() []string {
	return append([]string(nil), levelNames...)
}

// ParseLevel looks a level up by its exact, upper-case name.
func ParseLevel(name string) (Level, error) {
	level, ok := levelsByName[name]
	if !ok {
		return 0, fmt.Errorf("%w %q (choose from %s)", ErrNoSuchLevel, name, strings.Join(levelNames, ", "))
	}
	return level, nil
}

func (l Level) Slog() slog.Level {
	return slog.Level(l)
}

// Level implements slog.Leveler.
func (l Level) Level() slog.Level {
	return slog.Level(l)
}

func (l Level) String() string {
	return LevelName(slog.Level(l))
}

// LevelName renders a slog level the way the levelname template field shows it.
func LevelName(level slog.Level) string {
	switch Level(level) {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return fmt.Sprintf("Level %d", int(level))
	}
}
