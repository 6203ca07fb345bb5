package contracts

import (
	"testing"
	"time"
)

func TestMIDIEventFilterAllows(t *testing.T) {
	var nilFilter *MIDIEventFilter
	if !nilFilter.Allows(0xB0) {
		t.Fatal("nil filter must allow everything")
	}

	f := &MIDIEventFilter{Commands: []MIDICommand{NoteOn, NoteOff}}
	tests := []struct {
		command byte
		want    bool
	}{
		{0x90, true},
		{0x80, true},
		{0xB0, false},
		{0xF8, false},
	}
	for _, tt := range tests {
		if got := f.Allows(tt.command); got != tt.want {
			t.Errorf("Allows(0x%X) = %v, want %v", tt.command, got, tt.want)
		}
	}
}

func TestMIDIMessageCommand(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		command byte
		channel uint8
		hasCh   bool
	}{
		{"note on ch 3", []byte{0x92, 60, 100}, 0x90, 2, true},
		{"control change", []byte{0xBF, 7, 127}, 0xB0, 15, true},
		{"clock", []byte{0xF8}, 0xF8, 0, false},
		{"empty", nil, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := MIDIMessage{Data: tt.data}
			if got := msg.Command(); got != tt.command {
				t.Errorf("Command() = 0x%X, want 0x%X", got, tt.command)
			}
			ch, ok := msg.Channel()
			if ok != tt.hasCh || ch != tt.channel {
				t.Errorf("Channel() = %d, %v; want %d, %v", ch, ok, tt.channel, tt.hasCh)
			}
		})
	}
}

func TestOptionsApply(t *testing.T) {
	opts := &ShellOptions{}
	for _, opt := range []Option{
		WithLogLevel(DebugLevel),
		WithMIDIDispatch(DispatchImmediate),
		WithMIDIQueueSize(16),
		WithPortRescan(time.Second),
		WithPortFilter(PortFilter{Exclude: []string{"Through"}}),
		WithMIDIBackend(BackendRtMIDI),
	} {
		opt(opts)
	}

	if opts.LogLevel != DebugLevel || opts.Dispatch != DispatchImmediate || opts.MIDIQueueSize != 16 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.PortRescan != time.Second || opts.MIDIBackend != BackendRtMIDI {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.PortFilter == nil || opts.PortFilter.Exclude[0] != "Through" {
		t.Fatalf("port filter not applied: %+v", opts.PortFilter)
	}
}

func TestParseLogLevel(t *testing.T) {
	for _, level := range []LogLevel{InfoLevel, DebugLevel, WarnLevel, ErrorLevel, FatalLevel} {
		if got := ParseLogLevel(level.String()); got != level {
			t.Errorf("ParseLogLevel(%q) = %v", level.String(), got)
		}
	}
	if got := ParseLogLevel("loud"); got != InfoLevel {
		t.Errorf("unknown level parsed as %v", got)
	}
}
