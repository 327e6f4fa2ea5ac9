package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-formengine/internal/logging"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":      zapcore.WarnLevel,
		"DEBUG": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
	for raw, want := range cases {
		got, err := logging.ParseLevel(raw)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}
	if _, err := logging.ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNew_ConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "formengine.log")

	logger, flush, err := logging.New(logging.Config{Level: "info", File: path, Console: &console})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("form assembled", zap.String("form", "contact"))
	flush()

	if strings.Contains(console.String(), "hidden") {
		t.Fatalf("debug entry should be filtered at info level")
	}
	if !strings.Contains(console.String(), "form assembled") {
		t.Fatalf("console output missing entry: %q", console.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"form":"contact"`) {
		t.Fatalf("file output should be JSON with fields, got %q", data)
	}
}

func TestNew_EnvLevel(t *testing.T) {
	t.Setenv(logging.EnvLevel, "debug")
	var console bytes.Buffer
	logger, flush, err := logging.New(logging.Config{Console: &console})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("visible")
	flush()
	if !strings.Contains(console.String(), "visible") {
		t.Fatalf("env level should enable debug entries")
	}
}

func TestNew_NopWithoutSinks(t *testing.T) {
	logger, flush, err := logging.New(logging.Config{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer flush()
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected a no-op logger")
	}
}
