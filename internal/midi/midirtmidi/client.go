//go:build cgo

package midirtmidi

import (
	"fmt"
	"sync"

	internalmidi "github.com/leandrodaf/audiomidi/internal/midi"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// connection is an open input port and the function stopping its listener.
type connection struct {
	in   drivers.In
	stop func()
}

// ClientMid reads MIDI input through the rtmidi driver (ALSA on Linux,
// CoreMIDI on macOS, WinMM on Windows).
type ClientMid struct {
	mu     sync.Mutex
	logger contracts.Logger
	drv    *rtmididrv.Driver
	conns  map[string]*connection // keyed by PortInfo.Key
	closed bool
}

// NewMIDIClient initializes the rtmidi driver.
func NewMIDIClient(options *contracts.ShellOptions) (contracts.MIDIInput, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	options.Logger.Info("MIDI client successfully created", options.Logger.Field().String("backend", "rtmidi"))

	return &ClientMid{
		logger: options.Logger,
		drv:    drv,
		conns:  make(map[string]*connection),
	}, nil
}

// ListPorts returns every input port reported by the driver.
func (m *ClientMid) ListPorts() ([]contracts.PortInfo, error) {
	ins, err := m.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI inputs: %w", err)
	}
	if len(ins) == 0 {
		return nil, internalmidi.ErrNoMIDIDevices
	}

	ports := make([]contracts.PortInfo, len(ins))
	for i, in := range ins {
		ports[i] = contracts.PortInfo{
			ID:         in.Number(),
			Name:       in.String(),
			EntityName: in.String(),
		}
	}
	internalmidi.IndexDuplicates(ports)
	return ports, nil
}

// OpenPort opens the named input and forwards every message to handler.
func (m *ClientMid) OpenPort(port contracts.PortInfo, handler contracts.MIDIHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return internalmidi.ErrBackendClosed
	}
	if _, ok := m.conns[port.Key()]; ok {
		return fmt.Errorf("%w: %s", internalmidi.ErrPortAlreadyOpen, port.Key())
	}

	in, err := m.find(port)
	if err != nil {
		return err
	}
	if err := in.Open(); err != nil {
		return fmt.Errorf("open %q: %w", port.Key(), err)
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		handler(port, msg)
	}, midi.UseSysEx(), midi.HandleError(func(listenErr error) {
		m.logger.Warn("MIDI listener error",
			m.logger.Field().String("port", port.Key()),
			m.logger.Field().Error("error", listenErr))
	}))
	if err != nil {
		_ = in.Close()
		return fmt.Errorf("listen %q: %w", port.Key(), err)
	}

	m.conns[port.Key()] = &connection{in: in, stop: stop}
	return nil
}

// ClosePort stops the listener of the port and closes it.
func (m *ClientMid) ClosePort(port contracts.PortInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, ok := m.conns[port.Key()]
	if !ok {
		return fmt.Errorf("%w: %s", internalmidi.ErrPortNotOpen, port.Key())
	}
	delete(m.conns, port.Key())
	return conn.close()
}

// Close closes every open port and the driver.
func (m *ClientMid) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	for name, conn := range m.conns {
		if err := conn.close(); err != nil {
			m.logger.Warn("Failed to close MIDI input",
				m.logger.Field().String("port", name),
				m.logger.Field().Error("error", err))
		}
	}
	clear(m.conns)
	m.logger.Info("MIDI client closed")
	return m.drv.Close()
}

// find resolves the port by name and its position among inputs sharing it.
func (m *ClientMid) find(port contracts.PortInfo) (drivers.In, error) {
	ins, err := m.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI inputs: %w", err)
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	if i := internalmidi.NthMatch(names, port.Name, port.Index); i >= 0 {
		return ins[i], nil
	}
	return nil, fmt.Errorf("%w: %s", internalmidi.ErrPortNotFound, port.Key())
}

func (c *connection) close() error {
	if c.stop != nil {
		c.stop()
	}
	return c.in.Close()
}
