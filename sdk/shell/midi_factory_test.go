package shell

import (
	"errors"
	"testing"

	"github.com/leandrodaf/audiomidi/internal/logger"
	"github.com/leandrodaf/audiomidi/internal/midi/miditest"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

func TestResolveBackend(t *testing.T) {
	tests := []struct {
		requested contracts.MIDIBackend
		goos      string
		want      contracts.MIDIBackend
	}{
		{contracts.BackendAuto, "darwin", contracts.BackendCoreMIDI},
		{contracts.BackendAuto, "windows", contracts.BackendWinMM},
		{contracts.BackendAuto, "linux", contracts.BackendRtMIDI},
		{contracts.BackendAuto, "freebsd", contracts.BackendRtMIDI},
		{contracts.BackendRtMIDI, "darwin", contracts.BackendRtMIDI},
		{contracts.BackendNone, "linux", contracts.BackendNone},
	}
	for _, tt := range tests {
		if got := resolveBackend(tt.requested, tt.goos); got != tt.want {
			t.Errorf("resolveBackend(%q, %q) = %q, want %q", tt.requested, tt.goos, got, tt.want)
		}
	}
}

func TestNewMIDIInput(t *testing.T) {
	custom := miditest.NewInput()
	in, err := newMIDIInput(&contracts.ShellOptions{MIDIInput: custom})
	if err != nil || in != custom {
		t.Fatalf("custom input not used: %v, %v", in, err)
	}

	in, err = newMIDIInput(&contracts.ShellOptions{MIDIBackend: contracts.BackendNone})
	if err != nil || in != nil {
		t.Fatalf("disabled backend returned %v, %v", in, err)
	}

	_, err = newMIDIInput(&contracts.ShellOptions{MIDIBackend: "jack", Logger: logger.NewNopLogger()})
	if !errors.Is(err, ErrUnknownMIDIBackend) {
		t.Fatalf("err = %v, want ErrUnknownMIDIBackend", err)
	}
}

func TestApplyDefaultOptions(t *testing.T) {
	opts := applyDefaultOptions(contracts.WithLogger(logger.NewNopLogger()))
	if opts.CoreMIDIConfig == nil || opts.CoreMIDIConfig.ClientName != defaultClientName {
		t.Fatalf("client name default not applied: %+v", opts.CoreMIDIConfig)
	}
	if opts.MIDIQueueSize <= 0 || opts.AudioOutput == nil {
		t.Fatalf("defaults not applied: %+v", opts)
	}
	if opts.Dispatch != contracts.DispatchQueued || opts.PortRescan != 0 {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}
