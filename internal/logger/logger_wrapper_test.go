package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leandrodaf/audiomidi/sdk/contracts"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core)

	l.Info("port opened",
		l.Field().String("port", "Launchkey MIDI"),
		l.Field().Int("id", 2),
		l.Field().Duration("after", 3*time.Millisecond),
		l.Field().Error("error", errors.New("boom")),
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["port"] != "Launchkey MIDI" {
		t.Errorf("port field = %v", ctx["port"])
	}
	if ctx["id"] != int64(2) {
		t.Errorf("id field = %v (%T)", ctx["id"], ctx["id"])
	}
	if ctx["error"] != "boom" {
		t.Errorf("error field = %v", ctx["error"])
	}
	if !strings.HasSuffix(entries[0].Caller.File, "logger_wrapper_test.go") {
		t.Errorf("caller = %s, want the test file", entries[0].Caller.File)
	}
}

func TestZapLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core)

	l.SetLevel(contracts.WarnLevel)
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown")

	if got := logs.Len(); got != 2 {
		t.Fatalf("expected 2 entries at warn level, got %d", got)
	}

	l.SetLevel(contracts.DebugLevel)
	l.Debug("shown")
	if got := logs.FilterMessage("shown").Len(); got != 3 {
		t.Fatalf("expected 3 shown entries, got %d", got)
	}
}

func TestZapLoggerLevelOverInfoCore(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewWithCore(core)

	l.Info("shown")
	l.SetLevel(contracts.ErrorLevel)
	l.Info("hidden")
	l.Warn("hidden")
	l.Error("shown")

	if got := logs.FilterMessage("hidden").Len(); got != 0 {
		t.Fatalf("expected no entries below error level, got %d", got)
	}
	if got := logs.FilterMessage("shown").Len(); got != 2 {
		t.Fatalf("expected 2 shown entries, got %d", got)
	}
}

func TestSetDestinationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shell.log")
	l := NewZapLogger()
	l.SetDestination(contracts.FileLog, path)
	l.Info("written to file", l.Field().Uint64("chunks", 7))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") || !strings.Contains(string(data), `"chunks":7`) {
		t.Fatalf("unexpected log file contents: %s", data)
	}
	l.SetDestination(contracts.ConsoleLog)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.SetLevel(contracts.DebugLevel)
	l.Debug("nothing", l.Field().Bool("ok", true))
}
