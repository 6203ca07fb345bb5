//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"

	internalmidi "github.com/leandrodaf/audiomidi/internal/midi"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// ErrCreateInputPort is returned when CoreMIDI refuses to create the input port.
var ErrCreateInputPort = errors.New("error creating input port")

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// subscription is a connected source and the handler receiving its packets.
// Each source gets its own input port so the callback knows which of several
// identically named sources a packet came from.
type subscription struct {
	port    contracts.PortInfo
	conn    internalPortConnection
	handler contracts.MIDIHandler
}

// ClientMid manages MIDI input on Darwin (macOS) systems.
type ClientMid struct {
	logger contracts.Logger
	client coremidi.Client          // CoreMIDI client instance for MIDI operations.
	mu     sync.Mutex               // Guards subs and closed.
	subs   map[string]*subscription // Connected sources keyed by PortInfo.Key.
	closed bool
}

// NewMIDIClient initializes a new ClientMid for handling MIDI events on macOS.
func NewMIDIClient(options *contracts.ShellOptions) (contracts.MIDIInput, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("MIDI client successfully created", options.Logger.Field().String("backend", "coremidi"))

	return &ClientMid{
		logger: options.Logger,
		client: client,
		subs:   make(map[string]*subscription),
	}, nil
}

// ListPorts retrieves the available MIDI sources.
func (m *ClientMid) ListPorts() ([]contracts.PortInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		return nil, internalmidi.ErrNoMIDIDevices
	}

	ports := make([]contracts.PortInfo, len(sources))
	for i, source := range sources {
		sourceEntity := source.Entity()
		ports[i] = contracts.PortInfo{
			ID:           i,
			Name:         source.Name(),
			EntityName:   sourceEntity.Name(),
			Manufacturer: sourceEntity.Manufacturer(),
		}
	}
	internalmidi.IndexDuplicates(ports)
	return ports, nil
}

// OpenPort connects a new input port to the source.
func (m *ClientMid) OpenPort(port contracts.PortInfo, handler contracts.MIDIHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return internalmidi.ErrBackendClosed
	}
	if _, ok := m.subs[port.Key()]; ok {
		return fmt.Errorf("%w: %s", internalmidi.ErrPortAlreadyOpen, port.Key())
	}

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	names := make([]string, len(sources))
	for i, source := range sources {
		names[i] = source.Name()
	}
	i := internalmidi.NthMatch(names, port.Name, port.Index)
	if i < 0 {
		return fmt.Errorf("%w: %s", internalmidi.ErrPortNotFound, port.Key())
	}

	sub := &subscription{port: port, handler: handler}
	inputPort, err := coremidi.NewInputPort(m.client, "Input Port "+port.Key(), func(_ coremidi.Source, packet coremidi.Packet) {
		m.handlePacket(sub, packet)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}

	sub.conn, err = inputPort.Connect(sources[i])
	if err != nil {
		return fmt.Errorf("error connecting to MIDI source %q: %w", port.Key(), err)
	}
	m.subs[port.Key()] = sub
	return nil
}

// handlePacket forwards every message of a packet to the source's handler.
// A packet may carry several messages.
func (m *ClientMid) handlePacket(sub *subscription, packet coremidi.Packet) {
	if len(packet.Data) == 0 {
		m.logger.Warn("Empty MIDI packet", m.logger.Field().String("port", sub.port.Key()))
		return
	}
	internalmidi.SplitPacket(packet.Data, func(msg []byte) {
		sub.handler(sub.port, msg)
	})
}

// ClosePort disconnects the source.
func (m *ClientMid) ClosePort(port contracts.PortInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subs[port.Key()]
	if !ok {
		return fmt.Errorf("%w: %s", internalmidi.ErrPortNotOpen, port.Key())
	}
	sub.conn.Disconnect()
	delete(m.subs, port.Key())
	return nil
}

// Close disconnects every source.
func (m *ClientMid) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	for _, sub := range m.subs {
		sub.conn.Disconnect()
	}
	clear(m.subs)
	m.logger.Info("MIDI client closed")
	return nil
}
