package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultFormat renders "timestamp:levelname:loggername:message".
const DefaultFormat = "%(asctime)s:%(levelname)s:%(name)s:%(message)s"

const asctimeLayout = "2006-01-02 15:04:05,000"

var ErrMalformedTemplate = errors.New("malformed format template")

var defaultFormatter = MustCompile(DefaultFormat)

type fieldKind int

const (
	kindText fieldKind = iota
	kindInt
	kindFloat
)

type field struct {
	kind  fieldKind
	value func(r *Record) any
}

var fields = map[string]field{
	"name":      {kindText, func(r *Record) any { return r.Logger }},
	"levelname": {kindText, func(r *Record) any { return LevelName(r.Level) }},
	"levelno":   {kindInt, func(r *Record) any { return int64(r.Level) }},
	"message":   {kindText, func(r *Record) any { return r.Message }},
	"asctime":   {kindText, func(r *Record) any { return r.Time.Format(asctimeLayout) }},
	"created":   {kindFloat, func(r *Record) any { return float64(r.Time.UnixNano()) / 1e9 }},
	"msecs":     {kindInt, func(r *Record) any { return int64(r.Time.Nanosecond() / 1e6) }},
	"pathname":  {kindText, func(r *Record) any { return r.frame().File }},
	"filename":  {kindText, func(r *Record) any { return r.filename() }},
	"funcName":  {kindText, func(r *Record) any { return r.funcName() }},
	"lineno":    {kindInt, func(r *Record) any { return int64(r.frame().Line) }},
	"module":    {kindText, func(r *Record) any { return r.module() }},
	"process":   {kindInt, func(r *Record) any { return int64(os.Getpid()) }},
	"attrs":     {kindText, func(r *Record) any { return formatAttrs(r.Attrs) }},

	"processName":     {kindText, func(r *Record) any { return processName }},
	"relativeCreated": {kindFloat, func(r *Record) any { return float64(r.Time.Sub(startTime)) / float64(time.Millisecond) }},
}

var (
	startTime   = time.Now()
	processName = filepath.Base(os.Args[0])
)

type segment struct {
	literal string
	name    string
	field   field
	verb    string
	conv    byte
}

// Formatter is a compiled %-style template such as "%(name)s~%(levelname)s~%(message)s".
type Formatter struct {
	template string
	segments []segment
}

// Compile parses a template. Every problem is reported here, never at format time.
func Compile(template string) (*Formatter, error) {
	f := &Formatter{template: template}

	var (
		lit      strings.Builder
		hasField bool
	)
	for i := 0; i < len(template); {
		if template[i] != '%' {
			lit.WriteByte(template[i])
			i++
			continue
		}
		if i+1 >= len(template) {
			return nil, malformed(template, i, "dangling %")
		}
		switch template[i+1] {
		case '%':
			lit.WriteByte('%')
			i += 2
			continue
		case '(':
		default:
			return nil, malformed(template, i, "expected %( or %%")
		}

		end := strings.IndexByte(template[i+2:], ')')
		if end < 0 {
			return nil, malformed(template, i, "unterminated field name")
		}
		name := template[i+2 : i+2+end]
		fld, ok := fields[name]
		switch {
		case name == "":
			return nil, malformed(template, i, "empty field name")
		case !ok:
			return nil, malformed(template, i, fmt.Sprintf("unknown field %q", name))
		}

		j := i + 2 + end + 1
		start := j
		for j < len(template) && strings.IndexByte("#0+- ", template[j]) >= 0 {
			j++
		}
		for j < len(template) && isDigit(template[j]) {
			j++
		}
		if j < len(template) && template[j] == '.' {
			j++
			precision := j
			for j < len(template) && isDigit(template[j]) {
				j++
			}
			if j == precision {
				return nil, malformed(template, j, "missing precision")
			}
		}
		if j >= len(template) {
			return nil, malformed(template, j, "missing conversion")
		}

		conv := template[j]
		verb, err := verbFor(conv, fld.kind)
		if err != nil {
			return nil, malformed(template, j, err.Error())
		}

		if lit.Len() > 0 {
			f.segments = append(f.segments, segment{literal: lit.String()})
			lit.Reset()
		}
		f.segments = append(f.segments, segment{
			name:  name,
			field: fld,
			verb:  "%" + template[start:j] + verb,
			conv:  conv,
		})
		hasField = true
		i = j + 1
	}

	if !hasField {
		return nil, malformed(template, 0, "no field to substitute")
	}
	if lit.Len() > 0 {
		f.segments = append(f.segments, segment{literal: lit.String()})
	}

	return f, nil
}

// MustCompile is like Compile but panics on a malformed template.
func MustCompile(template string) *Formatter {
	f, err := Compile(template)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Formatter) Template() string {
	return f.template
}

// Format renders r without a trailing newline.
func (f *Formatter) Format(r *Record) string {
	return f.format(r, nil)
}

func (f *Formatter) format(r *Record, paint func(slog.Level, string) string) string {
	var b strings.Builder
	for _, seg := range f.segments {
		if seg.name == "" {
			b.WriteString(seg.literal)
			continue
		}

		var text string
		value := seg.field.value(r)
		switch seg.conv {
		case 's':
			text = fmt.Sprintf(seg.verb, toText(value))
		case 'r':
			text = fmt.Sprintf(seg.verb, toRepr(value))
		case 'a':
			text = fmt.Sprintf(seg.verb, toASCII(toRepr(value)))
		case 'c':
			text = fmt.Sprintf(seg.verb, rune(toInt(value)))
		case 'd', 'i', 'u', 'x', 'X', 'o':
			text = fmt.Sprintf(seg.verb, toInt(value))
		default:
			text = fmt.Sprintf(seg.verb, toFloat(value))
		}

		if paint != nil && seg.name == "levelname" {
			text = paint(r.Level, text)
		}
		b.WriteString(text)
	}
	return b.String()
}

func verbFor(conv byte, kind fieldKind) (string, error) {
	switch conv {
	case 's', 'r', 'a':
		return "s", nil
	case 'c', 'd', 'i', 'u', 'x', 'X', 'o', 'f', 'e', 'E', 'g', 'G':
		if kind == kindText {
			return "", fmt.Errorf("%%%c requires a number", conv)
		}
		switch conv {
		case 'd', 'i', 'u':
			return "d", nil
		default:
			return string(conv), nil
		}
	default:
		return "", fmt.Errorf("unsupported conversion %q", conv)
	}
}

func malformed(template string, offset int, reason string) error {
	return fmt.Errorf("%w %q: %s at offset %d", ErrMalformedTemplate, template, reason, offset)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func toText(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func toRepr(v any) string {
	if s, ok := v.(string); ok {
		return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
	}
	return toText(v)
}

// toASCII escapes non-ASCII runes as \xhh, \uhhhh or \Uhhhhhhhh.
func toASCII(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r < utf8.RuneSelf:
			b.WriteRune(r)
		case r <= 0xff:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r <= 0xffff:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			fmt.Fprintf(&b, `\U%08x`, r)
		}
	}
	return b.String()
}

func toInt(v any) int64 {
	switch v := v.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func toFloat(v any) float64 {
	switch v := v.(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	default:
		return 0
	}
}
