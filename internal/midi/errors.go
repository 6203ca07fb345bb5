package midi

import "errors"

// Error definitions shared by the MIDI input backends.
var (
	ErrNoMIDIDevices     = errors.New("no MIDI devices found")
	ErrPortNotFound      = errors.New("MIDI input port not found")
	ErrPortAlreadyOpen   = errors.New("MIDI input port already open")
	ErrPortNotOpen       = errors.New("MIDI input port not open")
	ErrBackendClosed     = errors.New("MIDI backend closed")
	ErrUnsupportedOnHost = errors.New("MIDI backend not available on this platform")
)
