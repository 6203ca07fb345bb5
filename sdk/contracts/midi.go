package contracts

import (
	"strconv"
	"time"

	"gitlab.com/gomidi/midi/v2"
)

// PortInfo describes a MIDI input port.
type PortInfo struct {
	ID           int    // Backend-specific port index at discovery time.
	Name         string // Port name as reported by the backend.
	Index        int    // Position among the listed ports sharing Name, 0 for the first.
	Manufacturer string // Device manufacturer, when the backend reports one.
	EntityName   string // Name of the entity to which the port belongs.
}

// Key identifies the port across rescans. Identical devices report the same
// name, so the second one is keyed "Name #2" and so on.
func (p PortInfo) Key() string {
	if p.Index == 0 {
		return p.Name
	}
	return p.Name + " #" + strconv.Itoa(p.Index+1)
}

// MIDIMessage is a raw MIDI message received on an input port.
type MIDIMessage struct {
	Data      []byte        // Raw message bytes, status byte first.
	Timestamp time.Duration // Arrival time, measured from shell start on a monotonic clock.
	Port      PortInfo      // Port the message arrived on.
}

// Command returns the status nibble for channel voice messages and the full
// status byte for system messages. It returns 0 for an empty message.
func (m MIDIMessage) Command() byte {
	if len(m.Data) == 0 {
		return 0
	}
	status := m.Data[0]
	if status >= 0xF0 {
		return status
	}
	return status & 0xF0
}

// Channel returns the zero-based channel of a channel voice message.
func (m MIDIMessage) Channel() (uint8, bool) {
	if len(m.Data) == 0 || m.Data[0] < 0x80 || m.Data[0] >= 0xF0 {
		return 0, false
	}
	return m.Data[0] & 0x0F, true
}

// String renders the message in human readable form.
func (m MIDIMessage) String() string {
	return midi.Message(m.Data).String()
}

// MIDIHandler receives raw message bytes from a backend. Calls for a single
// port are serialized by the backend; data may be reused after the call returns.
type MIDIHandler func(port PortInfo, data []byte)

// MIDIInput defines the operations a MIDI input backend provides to the shell.
type MIDIInput interface {
	ListPorts() ([]PortInfo, error)                    // Lists all available input ports.
	OpenPort(port PortInfo, handler MIDIHandler) error // Opens a port and starts delivering messages to handler.
	ClosePort(port PortInfo) error                     // Stops delivery for a port and releases it.
	Close() error                                      // Closes all ports and releases the backend.
}
