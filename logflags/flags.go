package logflags

import (
	"errors"
	"fmt"
	"strings"

	"github.com/idr0id/logflags/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	LevelFlag  = "log-level"
	FormatFlag = "log-format"
)

var ErrFlagExists = errors.New("flag already defined")

type options struct {
	levelFlag     string
	formatFlag    string
	defaultLevel  logging.Level
	defaultFormat string
}

type Option func(*options)

// WithLevelFlag renames the level flag.
func WithLevelFlag(name string) Option {
	return func(o *options) { o.levelFlag = name }
}

// WithFormatFlag renames the format flag.
func WithFormatFlag(name string) Option {
	return func(o *options) { o.formatFlag = name }
}

func WithDefaultLevel(level logging.Level) Option {
	return func(o *options) { o.defaultLevel = level }
}

func WithDefaultFormat(template string) Option {
	return func(o *options) { o.defaultFormat = template }
}

func newOptions(opts []Option) options {
	o := options{
		levelFlag:     LevelFlag,
		formatFlag:    FormatFlag,
		defaultLevel:  logging.LevelInfo,
		defaultFormat: logging.DefaultFormat,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func levelUsage() string {
	return fmt.Sprintf("Logging level (%s)", strings.Join(logging.LevelNames(), ", "))
}

const formatUsage = "Logging format template, e.g. %(name)s:%(levelname)s:%(message)s"

// Flags is the pair of bindings registered by AddFlags.
type Flags struct {
	Level  *Value
	Format *Value

	fs         *pflag.FlagSet
	levelFlag  string
	formatFlag string
}

// AddFlags defines the level and format flags on fs and applies their defaults to conf.
// Nothing is registered or applied unless both flags can be.
func AddFlags(fs *pflag.FlagSet, conf *logging.Config, opts ...Option) (*Flags, error) {
	o := newOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	if o.levelFlag == o.formatFlag {
		return nil, fmt.Errorf("%w: --%s", ErrFlagExists, o.formatFlag)
	}

	level, format := o.levelSpec(conf), o.formatSpec(conf)
	for _, spec := range []flagSpec{level, format} {
		if _, err := spec.lookup(fs); err != nil {
			return nil, err
		}
	}

	levelValue, err := level.add(fs)
	if err != nil {
		return nil, err
	}
	formatValue, err := format.add(fs)
	if err != nil {
		return nil, err
	}

	return &Flags{
		Level:      levelValue,
		Format:     formatValue,
		fs:         fs,
		levelFlag:  o.levelFlag,
		formatFlag: o.formatFlag,
	}, nil
}

// AddLevelFlag defines only the level flag.
func AddLevelFlag(fs *pflag.FlagSet, conf *logging.Config, opts ...Option) (*Value, error) {
	return newOptions(opts).levelSpec(conf).add(fs)
}

// AddFormatFlag defines only the format flag.
func AddFormatFlag(fs *pflag.FlagSet, conf *logging.Config, opts ...Option) (*Value, error) {
	return newOptions(opts).formatSpec(conf).add(fs)
}

// BindCommand adds the flags as persistent flags of cmd, with level name completion.
func BindCommand(cmd *cobra.Command, conf *logging.Config, opts ...Option) (*Flags, error) {
	o := newOptions(opts)
	fresh := cmd.PersistentFlags().Lookup(o.levelFlag) == nil

	flags, err := AddFlags(cmd.PersistentFlags(), conf, opts...)
	if err != nil {
		return nil, err
	}

	if fresh {
		err = cmd.RegisterFlagCompletionFunc(o.levelFlag,
			func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
				return logging.LevelNames(), cobra.ShellCompDirectiveNoFileComp
			},
		)
		if err != nil {
			return nil, err
		}
	}

	return flags, nil
}

// ApplyDefaults applies values from a config file to the flags the user did not set.
func (f *Flags) ApplyDefaults(c LogConfig) error {
	if c.Level != "" && !f.fs.Changed(f.levelFlag) {
		if err := f.Level.Set(c.Level); err != nil {
			return fmt.Errorf("log level: %w", err)
		}
	}
	if c.Format != "" && !f.fs.Changed(f.formatFlag) {
		if err := f.Format.Set(c.Format); err != nil {
			return fmt.Errorf("log format: %w", err)
		}
	}
	return nil
}

func (o options) validate() error {
	if _, err := logging.ParseLevel(o.defaultLevel.String()); err != nil {
		return fmt.Errorf("invalid level default: %w", err)
	}
	if _, err := logging.Compile(o.defaultFormat); err != nil {
		return fmt.Errorf("invalid format default: %w", err)
	}
	return nil
}

type flagSpec struct {
	name   string
	action Action
	kind   string
	def    string
	usage  string
}

func (o options) levelSpec(conf *logging.Config) flagSpec {
	return flagSpec{o.levelFlag, LevelAction{Config: conf}, "level", o.defaultLevel.String(), levelUsage()}
}

func (o options) formatSpec(conf *logging.Config) flagSpec {
	return flagSpec{o.formatFlag, FormatAction{Config: conf}, "format", o.defaultFormat, formatUsage}
}

// lookup returns the binding already defined for the flag, if any. A flag of
// another kind, or one bound to another configuration, is a conflict.
func (s flagSpec) lookup(fs *pflag.FlagSet) (*Value, error) {
	existing := fs.Lookup(s.name)
	if existing == nil {
		return nil, nil
	}

	v, ok := existing.Value.(*Value)
	if !ok || v.kind != s.kind || v.Config() != boundConfig(s.action) {
		return nil, fmt.Errorf("%w: --%s", ErrFlagExists, s.name)
	}
	return v, nil
}

func (s flagSpec) add(fs *pflag.FlagSet) (*Value, error) {
	v, err := s.lookup(fs)
	if err != nil || v != nil {
		return v, err
	}

	v, err = NewValue(s.action, s.kind, s.def)
	if err != nil {
		return nil, err
	}
	fs.Var(v, s.name, s.usage)

	return v, nil
}
