package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

type SinkOptions struct {
	// Level drops records below it. Nil accepts everything the logger lets through.
	Level slog.Leveler
	// Formatter defaults to DefaultFormat.
	Formatter *Formatter
	// Color paints level names with ANSI colors regardless of the environment.
	// NewTerminalSink decides it from the terminal and NO_COLOR / TERM=dumb.
	Color bool
}

// Sink is an output handler: a writer plus the formatter applied to it.
type Sink struct {
	mu        sync.Mutex
	w         io.Writer
	level     slog.Leveler
	formatter atomic.Pointer[Formatter]
	colors    map[slog.Level]*color.Color
}

func NewSink(w io.Writer, opts *SinkOptions) *Sink {
	if opts == nil {
		opts = &SinkOptions{}
	}

	s := &Sink{w: w, level: opts.Level}
	if opts.Formatter != nil {
		s.formatter.Store(opts.Formatter)
	} else {
		s.formatter.Store(defaultFormatter)
	}
	if opts.Color {
		s.colors = levelColors()
	}

	return s
}

// NewTerminalSink writes to f, coloring level names when f is a terminal and
// the environment does not opt out of colors.
func NewTerminalSink(f *os.File, opts *SinkOptions) *Sink {
	o := SinkOptions{}
	if opts != nil {
		o = *opts
	}
	if wantColor(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		o.Color = true
	}

	return NewSink(colorable.NewColorable(f), &o)
}

func (s *Sink) Formatter() *Formatter {
	return s.formatter.Load()
}

func (s *Sink) SetFormatter(f *Formatter) {
	s.formatter.Store(f)
}

func (s *Sink) Enabled(level slog.Level) bool {
	return s.level == nil || level >= s.level.Level()
}

// Emit formats r and writes it as one line.
func (s *Sink) Emit(r *Record) error {
	if !s.Enabled(r.Level) {
		return nil
	}

	var paint func(slog.Level, string) string
	if s.colors != nil {
		paint = s.paint
	}
	line := s.Formatter().format(r, paint) + "\n"

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := io.WriteString(s.w, line)
	return err
}

func (s *Sink) paint(level slog.Level, text string) string {
	c, ok := s.colors[level]
	if !ok {
		return text
	}
	return c.Sprint(text)
}

// wantColor follows the same environment rules as fatih/color.
func wantColor(terminal bool) bool {
	return terminal && os.Getenv("NO_COLOR") == "" && os.Getenv("TERM") != "dumb"
}

func levelColors() map[slog.Level]*color.Color {
	colors := map[slog.Level]*color.Color{
		LevelDebug.Slog():    color.New(color.FgHiBlack),
		LevelInfo.Slog():     color.New(color.FgCyan),
		LevelWarning.Slog():  color.New(color.FgYellow),
		LevelError.Slog():    color.New(color.FgRed),
		LevelCritical.Slog(): color.New(color.FgHiRed, color.Bold),
	}
	for _, c := range colors {
		c.EnableColor()
	}
	return colors
}
