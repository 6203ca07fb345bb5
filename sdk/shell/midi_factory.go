package shell

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/audiomidi/internal/midi/mididarwin"
	"github.com/leandrodaf/audiomidi/internal/midi/midirtmidi"
	"github.com/leandrodaf/audiomidi/internal/midi/midiwindows"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

// ErrUnknownMIDIBackend is returned when the requested MIDI backend does not exist.
var ErrUnknownMIDIBackend = errors.New("unknown MIDI backend")

type midiInitializer func(*contracts.ShellOptions) (contracts.MIDIInput, error)

// backendInitializers maps backend names to MIDI input initializers.
var backendInitializers = map[contracts.MIDIBackend]midiInitializer{
	contracts.BackendRtMIDI:   midirtmidi.NewMIDIClient,
	contracts.BackendCoreMIDI: mididarwin.NewMIDIClient,
	contracts.BackendWinMM:    midiwindows.NewMIDIClient,
}

// nativeBackends maps OS names to the backend used when none is requested.
var nativeBackends = map[string]contracts.MIDIBackend{
	"darwin":  contracts.BackendCoreMIDI, // macOS (Darwin) MIDI client initializer.
	"windows": contracts.BackendWinMM,    // Windows MIDI client initializer.
}

// resolveBackend returns the backend to use on goos for the requested one.
func resolveBackend(requested contracts.MIDIBackend, goos string) contracts.MIDIBackend {
	if requested != contracts.BackendAuto {
		return requested
	}
	if backend, ok := nativeBackends[goos]; ok {
		return backend
	}
	return contracts.BackendRtMIDI
}

// newMIDIInput returns the MIDI input configured in opts: the custom input if
// one was given, otherwise the requested or native backend. A nil input with
// a nil error means MIDI is disabled.
func newMIDIInput(opts *contracts.ShellOptions) (contracts.MIDIInput, error) {
	if opts.MIDIInput != nil {
		return opts.MIDIInput, nil
	}

	backend := resolveBackend(opts.MIDIBackend, runtime.GOOS)
	if backend == contracts.BackendNone {
		return nil, nil
	}
	if initializer, exists := backendInitializers[backend]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMIDIBackend, backend)
}
