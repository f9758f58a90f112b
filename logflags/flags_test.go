package logflags_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/idr0id/logflags/logflags"
	"github.com/idr0id/logflags/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestUsingDefaults(t *testing.T) {
	cases := []struct {
		args     []string
		expected slog.Level
	}{
		{args: nil, expected: slog.LevelInfo},
		{args: []string{"--log-level", "DEBUG"}, expected: slog.LevelDebug},
	}

	for _, tc := range cases {
		conf, _ := newConfig(t)
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		bar := fs.String("bar", "something", "unrelated flag")

		_, err := logflags.AddFlags(fs, conf)
		require.NoError(t, err)

		err = fs.Parse(append([]string{"foo_val", "--bar", "bar_val"}, tc.args...))
		require.NoError(t, err, fmt.Sprintf("args: %v", tc.args))

		require.Equal(t, []string{"foo_val"}, fs.Args())
		require.Equal(t, "bar_val", *bar)
		require.Equal(t, logging.Level(tc.expected).String(), fs.Lookup("log-level").Value.String())
		for _, name := range []string{"", "logflags_test"} {
			require.Equal(t, tc.expected, conf.EffectiveLevel(name), name)
		}
	}
}

func TestEveryLevelName(t *testing.T) {
	for _, name := range logging.LevelNames() {
		conf, _ := newConfig(t)
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		_, err := logflags.AddFlags(fs, conf)
		require.NoError(t, err)

		require.NoError(t, fs.Parse([]string{"--log-level=" + name}))

		expected, err := logging.ParseLevel(name)
		require.NoError(t, err)
		require.Equal(t, expected.Slog(), conf.EffectiveLevel("child"))
	}
}

func TestFormatAndLevelFromFlags(t *testing.T) {
	conf, buf := newConfig(t)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	_, err := logflags.AddFlags(fs, conf)
	require.NoError(t, err)

	err = fs.Parse([]string{"--log-level=WARNING", "--log-format", "%(name)s~%(levelname)s~%(message)s"})
	require.NoError(t, err)
	emitAll(conf, "", "child")

	expected := []string{
		"root~WARNING~warning",
		"root~ERROR~error",
		"child~WARNING~warning",
		"child~ERROR~error",
	}
	if diff := cmp.Diff(expected, lines(buf)); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}

	pattern := regexp.MustCompile(`^\w+~\w+~\w+$`)
	for _, line := range lines(buf) {
		require.Regexp(t, pattern, line)
	}
}

func TestDefaultFormatIsApplied(t *testing.T) {
	conf, buf := newConfig(t)
	require.NoError(t, conf.SetFormat("%(message)s"))

	_, err := logflags.AddFlags(pflag.NewFlagSet("test", pflag.ContinueOnError), conf)
	require.NoError(t, err)
	conf.Logger("app").Info("hello")

	require.Equal(t, logging.DefaultFormat, conf.Format())
	require.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3}:INFO:app:hello$`, lines(buf)[0])
}

func TestFlagOrderIndependence(t *testing.T) {
	orders := [][]string{
		{"--log-level", "ERROR", "--log-format", "%(levelname)s %(message)s"},
		{"--log-format", "%(levelname)s %(message)s", "--log-level", "ERROR"},
	}

	var outputs [][]string
	for _, args := range orders {
		conf, buf := newConfig(t)
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		_, err := logflags.AddFlags(fs, conf)
		require.NoError(t, err)
		require.NoError(t, fs.Parse(args))

		require.Equal(t, slog.LevelError, conf.Level())
		emitAll(conf, "x")
		outputs = append(outputs, lines(buf))
	}

	require.Equal(t, []string{"ERROR error"}, outputs[0])
	require.Equal(t, outputs[0], outputs[1])
}

func TestRepeatedParseIsIdempotent(t *testing.T) {
	conf, _ := newConfig(t)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	_, err := logflags.AddFlags(fs, conf)
	require.NoError(t, err)

	args := []string{"--log-level", "DEBUG", "--log-level", "ERROR"}
	require.NoError(t, fs.Parse(args))
	require.NoError(t, fs.Parse(args))

	require.Equal(t, slog.LevelError, conf.Level())
	require.Equal(t, "ERROR", fs.Lookup("log-level").Value.String())
}

func TestInvalidLevel(t *testing.T) {
	conf, _ := newConfig(t)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	_, err := logflags.AddFlags(fs, conf)
	require.NoError(t, err)

	err = fs.Parse([]string{"--log-format", "%(message)s", "--log-level", "VERBOSE"})

	require.ErrorContains(t, err, logging.ErrNoSuchLevel.Error())
	require.Equal(t, slog.LevelInfo, conf.Level())
	require.Equal(t, "%(message)s", conf.Format())
	require.Equal(t, "INFO", fs.Lookup("log-level").Value.String())
}

func TestInvalidFormat(t *testing.T) {
	conf, _ := newConfig(t)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	_, err := logflags.AddFlags(fs, conf)
	require.NoError(t, err)

	err = fs.Parse([]string{"--log-level", "DEBUG", "--log-format", "%(message"})

	require.ErrorContains(t, err, logging.ErrMalformedTemplate.Error())
	require.Equal(t, slog.LevelDebug, conf.Level())
	require.Equal(t, logging.DefaultFormat, conf.Format())
	require.Equal(t, logging.DefaultFormat, conf.Sinks()[0].Formatter().Template())
}

func TestCustomFlagNamesAndDefaults(t *testing.T) {
	conf, _ := newConfig(t)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	_, err := logflags.AddFlags(fs, conf,
		logflags.WithLevelFlag("verbosity"),
		logflags.WithFormatFlag("line-format"),
		logflags.WithDefaultLevel(logging.LevelError),
		logflags.WithDefaultFormat("%(message)s"),
	)
	require.NoError(t, err)
	require.Equal(t, slog.LevelError, conf.Level())
	require.Equal(t, "%(message)s", conf.Format())
	require.Nil(t, fs.Lookup("log-level"))

	require.NoError(t, fs.Parse([]string{"--verbosity", "WARNING"}))
	require.Equal(t, slog.LevelWarn, conf.Level())
}

func TestLevelFlagAlone(t *testing.T) {
	conf, _ := newConfig(t)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	_, err := logflags.AddLevelFlag(fs, conf)
	require.NoError(t, err)

	require.NotNil(t, fs.Lookup("log-level"))
	require.Nil(t, fs.Lookup("log-format"))
	require.Contains(t, fs.FlagUsages(), "DEBUG, INFO, WARNING, ERROR, CRITICAL, FATAL")
}

func TestInvalidDefaults(t *testing.T) {
	conf, _ := newConfig(t)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	_, err := logflags.AddFormatFlag(fs, conf, logflags.WithDefaultFormat("no fields"))

	require.ErrorIs(t, err, logging.ErrMalformedTemplate)
	require.Nil(t, fs.Lookup("log-format"))
}

func TestInvalidDefaultsRegisterNothing(t *testing.T) {
	defaults := [][]logflags.Option{
		{logflags.WithDefaultLevel(logging.LevelError), logflags.WithDefaultFormat("%(message")},
		{logflags.WithDefaultLevel(logging.Level(2))},
	}

	for _, opts := range defaults {
		conf, _ := newConfig(t)
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

		_, err := logflags.AddFlags(fs, conf, opts...)

		require.Error(t, err)
		require.Nil(t, fs.Lookup("log-level"))
		require.Nil(t, fs.Lookup("log-format"))
		require.Equal(t, slog.LevelWarn, conf.Level())
	}
}

func TestSameNameForBothFlags(t *testing.T) {
	conf, _ := newConfig(t)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	_, err := logflags.AddFlags(fs, conf, logflags.WithFormatFlag("log-level"))

	require.ErrorIs(t, err, logflags.ErrFlagExists)
	require.Nil(t, fs.Lookup("log-level"))
}

func TestReRegistration(t *testing.T) {
	conf, _ := newConfig(t)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	first, err := logflags.AddFlags(fs, conf)
	require.NoError(t, err)
	require.NoError(t, fs.Parse([]string{"--log-level", "ERROR"}))

	second, err := logflags.AddFlags(fs, conf)
	require.NoError(t, err)
	require.Same(t, first.Level, second.Level)
	require.Equal(t, slog.LevelError, conf.Level())

	require.Same(t, conf, second.Level.Config())

	otherConf, _ := newConfig(t)
	_, err = logflags.AddFlags(fs, otherConf)
	require.ErrorIs(t, err, logflags.ErrFlagExists)
	require.Equal(t, slog.LevelWarn, otherConf.Level())

	require.NoError(t, fs.Parse([]string{"--log-level", "DEBUG"}))
	require.Equal(t, slog.LevelDebug, conf.Level())
	require.Equal(t, slog.LevelWarn, otherConf.Level())

	other := pflag.NewFlagSet("other", pflag.ContinueOnError)
	other.String("log-format", "", "taken")
	_, err = logflags.AddFlags(other, conf)
	require.ErrorIs(t, err, logflags.ErrFlagExists)
	require.Nil(t, other.Lookup("log-level"))
}

func TestApplyDefaults(t *testing.T) {
	conf, _ := newConfig(t)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags, err := logflags.AddFlags(fs, conf)
	require.NoError(t, err)
	require.NoError(t, fs.Parse([]string{"--log-level", "ERROR"}))

	err = flags.ApplyDefaults(logflags.LogConfig{Level: "DEBUG", Format: "%(message)s"})

	require.NoError(t, err)
	require.Equal(t, slog.LevelError, conf.Level())
	require.Equal(t, "%(message)s", conf.Format())

	err = flags.ApplyDefaults(logflags.LogConfig{Format: "%(nope)s"})
	require.ErrorIs(t, err, logging.ErrMalformedTemplate)
}

func TestBindCommand(t *testing.T) {
	conf, buf := newConfig(t)

	var ran bool
	cmd := &cobra.Command{
		Use: "test",
		Run: func(_ *cobra.Command, _ []string) {
			ran = true
			conf.Logger("cmd").Debug("visible")
		},
	}
	_, err := logflags.BindCommand(cmd, conf)
	require.NoError(t, err)
	_, err = logflags.BindCommand(cmd, conf)
	require.NoError(t, err)

	cmd.SetArgs([]string{"--log-level", "DEBUG", "--log-format", "%(name)s %(message)s"})
	require.NoError(t, cmd.Execute())

	require.True(t, ran)
	require.Equal(t, []string{"cmd visible"}, lines(buf))
}

func TestBindCommandInvalidLevel(t *testing.T) {
	conf, _ := newConfig(t)
	cmd := &cobra.Command{Use: "test", Run: func(_ *cobra.Command, _ []string) {}}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	_, err := logflags.BindCommand(cmd, conf)
	require.NoError(t, err)

	cmd.SetArgs([]string{"--log-level", "LOUD"})

	require.ErrorContains(t, cmd.Execute(), logging.ErrNoSuchLevel.Error())
	require.Equal(t, slog.LevelInfo, conf.Level())
}

func TestBindCommandCompletion(t *testing.T) {
	conf, _ := newConfig(t)
	cmd := &cobra.Command{Use: "test", Run: func(_ *cobra.Command, _ []string) {}}
	_, err := logflags.BindCommand(cmd, conf)
	require.NoError(t, err)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{cobra.ShellCompRequestCmd, "--log-level", ""})
	require.NoError(t, cmd.Execute())

	for _, name := range logging.LevelNames() {
		require.Contains(t, out.String(), name+"\n")
	}
	require.Contains(t, out.String(), fmt.Sprintf(":%d", cobra.ShellCompDirectiveNoFileComp))
}
