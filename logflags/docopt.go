package logflags

import (
	"fmt"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/idr0id/logflags/logging"
)

// DocoptOptions renders the option lines to paste into a docopt usage string.
func DocoptOptions(opts ...Option) string {
	o := newOptions(opts)

	var b strings.Builder
	fmt.Fprintf(&b, "  --%s <level>  %s.\n", o.levelFlag, levelUsage())
	fmt.Fprintf(&b, "                          [default: %s]\n", o.defaultLevel)
	fmt.Fprintf(&b, "  --%s <format>  Logging format template.\n", o.formatFlag)
	fmt.Fprintf(&b, "                          [default: %s]\n", o.defaultFormat)
	return b.String()
}

// ApplyDocopt applies the defaults, then the values docopt parsed into args.
// An option present in args is always applied, even when empty.
func ApplyDocopt(args docopt.Opts, conf *logging.Config, opts ...Option) error {
	o := newOptions(opts)
	if err := o.validate(); err != nil {
		return err
	}

	for _, spec := range []flagSpec{o.levelSpec(conf), o.formatSpec(conf)} {
		v, err := NewValue(spec.action, spec.kind, spec.def)
		if err != nil {
			return err
		}

		s, ok := args["--"+spec.name].(string)
		if !ok {
			continue
		}
		if err := v.Set(s); err != nil {
			return fmt.Errorf("invalid argument %q for --%s: %w", s, spec.name, err)
		}
	}

	return nil
}
