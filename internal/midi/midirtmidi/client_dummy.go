//go:build !cgo

package midirtmidi

import (
	internalmidi "github.com/leandrodaf/audiomidi/internal/midi"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

// NewMIDIClient reports that rtmidi needs cgo.
func NewMIDIClient(options *contracts.ShellOptions) (contracts.MIDIInput, error) {
	options.Logger.Warn("rtmidi MIDI client requires cgo")
	return nil, internalmidi.ErrUnsupportedOnHost
}
