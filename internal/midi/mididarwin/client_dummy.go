//go:build !darwin
// +build !darwin

package mididarwin

import (
	internalmidi "github.com/leandrodaf/audiomidi/internal/midi"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

// NewMIDIClient reports that CoreMIDI is only available on macOS.
func NewMIDIClient(options *contracts.ShellOptions) (contracts.MIDIInput, error) {
	options.Logger.Warn("CoreMIDI client requested on a non-macOS system")
	return nil, internalmidi.ErrUnsupportedOnHost
}
