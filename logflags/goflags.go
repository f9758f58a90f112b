package logflags

import (
	"github.com/idr0id/logflags/logging"
	"github.com/jessevdk/go-flags"
)

var (
	_ flags.Marshaler   = (*Value)(nil)
	_ flags.Unmarshaler = (*Value)(nil)
)

// Group is a go-flags option group:
//
//	group, _ := logflags.NewGroup(conf)
//	parser.AddGroup("Logging", "", group)
type Group struct {
	Level  *Value `long:"log-level" value-name:"LEVEL" description:"Logging level (DEBUG, INFO, WARNING, ERROR, CRITICAL, FATAL)"`
	Format *Value `long:"log-format" value-name:"FORMAT" description:"Logging format template"`
}

// NewGroup applies the defaults to conf. Flag names are fixed by the struct tags.
func NewGroup(conf *logging.Config, opts ...Option) (*Group, error) {
	o := newOptions(opts)

	level, err := NewValue(LevelAction{Config: conf}, "level", o.defaultLevel.String())
	if err != nil {
		return nil, err
	}
	format, err := NewValue(FormatAction{Config: conf}, "format", o.defaultFormat)
	if err != nil {
		return nil, err
	}

	return &Group{Level: level, Format: format}, nil
}
