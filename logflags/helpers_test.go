package logflags_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/idr0id/logflags/logging"
)

func newConfig(t *testing.T) (*logging.Config, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	return logging.New(logging.NewSink(&buf, nil)), &buf
}

func lines(buf *bytes.Buffer) []string {
	out := strings.TrimSuffix(buf.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func emitAll(conf *logging.Config, names ...string) {
	for _, name := range names {
		logger := conf.Logger(name)
		logger.Debug("debug")
		logger.Info("info")
		logger.Warn("warning")
		logger.Error("error")
	}
}
