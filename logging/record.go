package logging

import (
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Record is a single log event as seen by sinks and formatters.
type Record struct {
	Logger  string
	Time    time.Time
	Level   slog.Level
	Message string
	PC      uintptr
	Attrs   []slog.Attr
}

func (r *Record) frame() runtime.Frame {
	if r.PC == 0 {
		return runtime.Frame{}
	}
	frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
	return frame
}

func (r *Record) filename() string {
	file := r.frame().File
	if file == "" {
		return ""
	}
	return filepath.Base(file)
}

func (r *Record) module() string {
	file := r.filename()
	return strings.TrimSuffix(file, filepath.Ext(file))
}

func (r *Record) funcName() string {
	fn := r.frame().Function
	if i := strings.LastIndexByte(fn, '/'); i >= 0 {
		fn = fn[i+1:]
	}
	return fn
}

func formatAttrs(attrs []slog.Attr) string {
	var b strings.Builder
	appendAttrs(&b, "", attrs)
	return b.String()
}

func appendAttrs(b *strings.Builder, prefix string, attrs []slog.Attr) {
	for _, a := range attrs {
		a.Value = a.Value.Resolve()
		if a.Equal(slog.Attr{}) {
			continue
		}
		key := a.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		if a.Value.Kind() == slog.KindGroup {
			if a.Key == "" {
				key = prefix
			}
			appendAttrs(b, key, a.Value.Group())
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		value := a.Value.String()
		if value == "" || strings.ContainsAny(value, " =\"") {
			value = strconv.Quote(value)
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value)
	}
}
