package midi_test

import (
	"bytes"
	"testing"

	"github.com/leandrodaf/audiomidi/internal/midi"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

func TestSplitPacket(t *testing.T) {
	tests := []struct {
		name   string
		packet []byte
		want   [][]byte
	}{
		{"single note on", []byte{0x90, 60, 100}, [][]byte{{0x90, 60, 100}}},
		{"note on then note off",
			[]byte{0x90, 60, 100, 0x80, 60, 0},
			[][]byte{{0x90, 60, 100}, {0x80, 60, 0}}},
		{"program change then control change",
			[]byte{0xC1, 5, 0xB1, 7, 90},
			[][]byte{{0xC1, 5}, {0xB1, 7, 90}}},
		{"running status",
			[]byte{0x90, 60, 100, 64, 90},
			[][]byte{{0x90, 60, 100}, {0x90, 64, 90}}},
		{"sysex passed whole",
			[]byte{0xF0, 0x7E, 0x7F, 0x06, 0x01, 0xF7, 0xF8},
			[][]byte{{0xF0, 0x7E, 0x7F, 0x06, 0x01, 0xF7}, {0xF8}}},
		{"unterminated sysex", []byte{0xF0, 0x43, 0x10}, [][]byte{{0xF0, 0x43, 0x10}}},
		{"system common clears running status",
			[]byte{0x90, 60, 100, 0xF3, 2, 64, 90},
			[][]byte{{0x90, 60, 100}, {0xF3, 2}}},
		{"truncated tail dropped", []byte{0x90, 60, 100, 0x80, 60}, [][]byte{{0x90, 60, 100}}},
		{"stray data dropped", []byte{60, 100, 0xF8}, [][]byte{{0xF8}}},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got [][]byte
			midi.SplitPacket(tt.packet, func(msg []byte) {
				got = append(got, bytes.Clone(msg))
			})
			if len(got) != len(tt.want) {
				t.Fatalf("got %d messages % X, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if !bytes.Equal(got[i], tt.want[i]) {
					t.Errorf("message %d = % X, want % X", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMessageLength(t *testing.T) {
	tests := map[byte]int{
		0x80: 3, 0x9F: 3, 0xA0: 3, 0xB3: 3, 0xC0: 2, 0xD5: 2, 0xE0: 3,
		0xF1: 2, 0xF2: 3, 0xF3: 2, 0xF6: 1, 0xF8: 1, 0xFE: 1,
	}
	for status, want := range tests {
		if got := midi.MessageLength(status); got != want {
			t.Errorf("MessageLength(0x%02X) = %d, want %d", status, got, want)
		}
	}
}

func TestIndexDuplicates(t *testing.T) {
	ports := []contracts.PortInfo{
		{ID: 0, Name: "USB MIDI Interface"},
		{ID: 1, Name: "Keystation"},
		{ID: 2, Name: "USB MIDI Interface"},
		{ID: 3, Name: "USB MIDI Interface"},
	}
	midi.IndexDuplicates(ports)

	wantKeys := []string{"USB MIDI Interface", "Keystation", "USB MIDI Interface #2", "USB MIDI Interface #3"}
	for i, port := range ports {
		if port.Key() != wantKeys[i] {
			t.Errorf("ports[%d].Key() = %q, want %q", i, port.Key(), wantKeys[i])
		}
	}
}

func TestNthMatch(t *testing.T) {
	names := []string{"A", "B", "A", "A"}
	tests := []struct {
		name  string
		index int
		want  int
	}{
		{"A", 0, 0},
		{"A", 1, 2},
		{"A", 2, 3},
		{"A", 3, -1},
		{"B", 0, 1},
		{"C", 0, -1},
	}
	for _, tt := range tests {
		if got := midi.NthMatch(names, tt.name, tt.index); got != tt.want {
			t.Errorf("NthMatch(%q, %d) = %d, want %d", tt.name, tt.index, got, tt.want)
		}
	}
}
