// Package logflags binds --log-level and --log-format command-line flags to a
// logging.Config.
//
// Each flag is backed by an Action. Register applies the flag default when the
// flag is defined; Parsed applies a user-supplied value as soon as the parser
// accepts it. Bindings are provided for pflag/cobra, docopt and go-flags.
package logflags

import (
	"fmt"

	"github.com/idr0id/logflags/logging"
	"github.com/spf13/pflag"
)

var _ pflag.Value = (*Value)(nil)

// Action applies a flag value to the logging configuration.
type Action interface {
	// Register is called once when the flag is defined.
	Register(def string) error
	// Parsed is called for every value the parser accepts for the flag.
	Parsed(value string) error
}

// LevelAction sets the root severity threshold.
type LevelAction struct {
	Config *logging.Config
}

func (a LevelAction) Register(def string) error {
	return a.Parsed(def)
}

func (a LevelAction) Parsed(value string) error {
	level, err := logging.ParseLevel(value)
	if err != nil {
		return err
	}

	a.Config.SetLevel(level)
	return nil
}

// FormatAction sets the template of every registered sink.
type FormatAction struct {
	Config *logging.Config
}

func (a FormatAction) Register(def string) error {
	return a.Parsed(def)
}

func (a FormatAction) Parsed(value string) error {
	return a.Config.SetFormat(value)
}

// Value is the flag-side half of a binding. It satisfies pflag.Value (and so
// flag.Value) as well as the go-flags Marshaler and Unmarshaler interfaces.
type Value struct {
	action Action
	kind   string
	value  string
}

// NewValue registers def with action and returns the binding holding it.
func NewValue(action Action, kind, def string) (*Value, error) {
	if err := action.Register(def); err != nil {
		return nil, fmt.Errorf("invalid %s default: %w", kind, err)
	}

	return &Value{action: action, kind: kind, value: def}, nil
}

func (v *Value) String() string {
	if v == nil {
		return ""
	}
	return v.value
}

// Set applies s. On failure neither the value nor the configuration changes.
func (v *Value) Set(s string) error {
	if err := v.action.Parsed(s); err != nil {
		return err
	}

	v.value = s
	return nil
}

// Config returns the configuration the binding writes to.
func (v *Value) Config() *logging.Config {
	return boundConfig(v.action)
}

func boundConfig(a Action) *logging.Config {
	switch a := a.(type) {
	case LevelAction:
		return a.Config
	case FormatAction:
		return a.Config
	default:
		return nil
	}
}

func (v *Value) Type() string {
	return v.kind
}

func (v *Value) UnmarshalFlag(s string) error {
	return v.Set(s)
}

func (v *Value) MarshalFlag() (string, error) {
	return v.value, nil
}
