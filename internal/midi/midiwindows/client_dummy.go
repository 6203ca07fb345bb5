//go:build !windows
// +build !windows

package midiwindows

import (
	internalmidi "github.com/leandrodaf/audiomidi/internal/midi"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

// NewMIDIClient reports that WinMM is only available on Windows.
func NewMIDIClient(options *contracts.ShellOptions) (contracts.MIDIInput, error) {
	options.Logger.Warn("WinMM MIDI client requested on a non-Windows system")
	return nil, internalmidi.ErrUnsupportedOnHost
}
