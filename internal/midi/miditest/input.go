// Package miditest provides an in-memory MIDI input backend for tests.
package miditest

import (
	"fmt"
	"sync"

	"github.com/leandrodaf/audiomidi/internal/midi"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

// Input is a contracts.MIDIInput whose ports and messages are driven by the
// test. Ports are addressed by PortInfo.Key, which is the plain name unless
// several ports share it.
type Input struct {
	mu       sync.Mutex
	ports    []contracts.PortInfo
	handlers map[string]contracts.MIDIHandler // keyed by PortInfo.Key
	failOpen map[string]error
	listErr  error
	closed   bool
}

// NewInput returns a backend exposing the named ports.
func NewInput(names ...string) *Input {
	in := &Input{
		handlers: make(map[string]contracts.MIDIHandler),
		failOpen: make(map[string]error),
	}
	for _, name := range names {
		in.AddPort(name)
	}
	return in
}

// AddPort makes a new port visible to ListPorts.
func (in *Input) AddPort(name string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.ports = append(in.ports, contracts.PortInfo{ID: len(in.ports), Name: name})
}

// RemovePort hides a port from ListPorts, as if the device was unplugged.
func (in *Input) RemovePort(key string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	for i, port := range in.listed() {
		if port.Key() == key {
			in.ports = append(in.ports[:i], in.ports[i+1:]...)
			return
		}
	}
}

// FailOpen makes OpenPort return err for the port.
func (in *Input) FailOpen(key string, err error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.failOpen[key] = err
}

// FailList makes ListPorts return err.
func (in *Input) FailList(err error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.listErr = err
}

// Send delivers data on the port as the driver would. It reports whether
// the port is open.
func (in *Input) Send(key string, data ...byte) bool {
	in.mu.Lock()
	handler, ok := in.handlers[key]
	var port contracts.PortInfo
	for _, p := range in.listed() {
		if p.Key() == key {
			port = p
		}
	}
	in.mu.Unlock()

	if !ok {
		return false
	}
	handler(port, data)
	return true
}

// IsOpen reports whether the port is open.
func (in *Input) IsOpen(key string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	_, ok := in.handlers[key]
	return ok
}

// Closed reports whether Close was called.
func (in *Input) Closed() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.closed
}

// ListPorts implements contracts.MIDIInput.
func (in *Input) ListPorts() ([]contracts.PortInfo, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.listErr != nil {
		return nil, in.listErr
	}
	if len(in.ports) == 0 {
		return nil, midi.ErrNoMIDIDevices
	}
	return in.listed(), nil
}

// listed returns a copy of the ports as a driver would report them.
func (in *Input) listed() []contracts.PortInfo {
	ports := append([]contracts.PortInfo(nil), in.ports...)
	midi.IndexDuplicates(ports)
	return ports
}

// OpenPort implements contracts.MIDIInput.
func (in *Input) OpenPort(port contracts.PortInfo, handler contracts.MIDIHandler) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return midi.ErrBackendClosed
	}
	if err := in.failOpen[port.Key()]; err != nil {
		return err
	}
	if _, ok := in.handlers[port.Key()]; ok {
		return fmt.Errorf("%w: %s", midi.ErrPortAlreadyOpen, port.Key())
	}
	in.handlers[port.Key()] = handler
	return nil
}

// ClosePort implements contracts.MIDIInput.
func (in *Input) ClosePort(port contracts.PortInfo) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if _, ok := in.handlers[port.Key()]; !ok {
		return fmt.Errorf("%w: %s", midi.ErrPortNotOpen, port.Key())
	}
	delete(in.handlers, port.Key())
	return nil
}

// Close implements contracts.MIDIInput.
func (in *Input) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.closed = true
	clear(in.handlers)
	return nil
}
