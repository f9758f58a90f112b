package logflags

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/idr0id/logflags/logging"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileConfig is the part of a TOML config file read by ParseConfig:
//
//	[log]
//	level = "DEBUG"
//	format = "%(name)s: %(message)s"
type FileConfig struct {
	Log LogConfig `koanf:"log"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=DEBUG INFO WARNING ERROR CRITICAL FATAL"`
	Format string `koanf:"format" validate:"omitempty,logtemplate"`
}

func ParseConfig(path string) (FileConfig, error) {
	var config FileConfig

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return config, fmt.Errorf("error loading config: %w", err)
	}

	if err := k.Unmarshal("", &config); err != nil {
		return config, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := newValidator().Struct(&config); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Options turns the file values into registration defaults.
func (c LogConfig) Options() []Option {
	var opts []Option
	if level, err := logging.ParseLevel(c.Level); err == nil {
		opts = append(opts, WithDefaultLevel(level))
	}
	if c.Format != "" {
		opts = append(opts, WithDefaultFormat(c.Format))
	}
	return opts
}

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("logtemplate", func(fl validator.FieldLevel) bool {
		_, err := logging.Compile(fl.Field().String())
		return err == nil
	})
	return validate
}
