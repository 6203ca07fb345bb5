package midiwindows

import (
	"bytes"
	"testing"
)

func TestUnpackShortMessage(t *testing.T) {
	tests := []struct {
		name   string
		packed uint32
		want   []byte
	}{
		{"note on", 0x00643C90, []byte{0x90, 0x3C, 0x64}},
		{"note off ch 2", 0x00003C81, []byte{0x81, 0x3C, 0x00}},
		{"program change", 0x00000AC0, []byte{0xC0, 0x0A}},
		{"channel pressure", 0x00007FD5, []byte{0xD5, 0x7F}},
		{"pitch bend", 0x00400EE0, []byte{0xE0, 0x0E, 0x40}},
		{"song position", 0x000102F2, []byte{0xF2, 0x02, 0x01}},
		{"song select", 0x000003F3, []byte{0xF3, 0x03}},
		{"timing clock", 0x000000F8, []byte{0xF8}},
		{"tune request", 0x000000F6, []byte{0xF6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unpackShortMessage(tt.packed); !bytes.Equal(got, tt.want) {
				t.Fatalf("unpackShortMessage(0x%08X) = % X, want % X", tt.packed, got, tt.want)
			}
		})
	}
}
