//go:build windows
// +build windows

package midiwindows

import (
	"fmt"
	"sync"
	"unsafe"

	internalmidi "github.com/leandrodaf/audiomidi/internal/midi"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles
type HMIDIIN windows.Handle

// Constants for callback flags
const (
	CALLBACK_FUNCTION = 0x00030000 // Indicates that the callback is a function
	MIDI_IO_STATUS    = 0x00000020 // MIDI input/output status
)

// Constants for MIDI message types
const (
	MIM_OPEN      = 0x3C1 // MIDI device opened
	MIM_CLOSE     = 0x3C2 // MIDI device closed
	MIM_DATA      = 0x3C3 // MIDI data received
	MIM_LONGDATA  = 0x3C4 // System exclusive buffer received
	MIM_ERROR     = 0x3C5 // MIDI error
	MIM_LONGERROR = 0x3C6 // Long MIDI error
	MIM_MOREDATA  = 0x3CC // More MIDI data available
)

// Struct representing MIDI device capabilities
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// Load the winmm.dll library and required functions
var (
	winmm                = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen       = winmm.NewProc("midiInOpen")
	procMidiInStart      = winmm.NewProc("midiInStart")
	procMidiInStop       = winmm.NewProc("midiInStop")
	procMidiInClose      = winmm.NewProc("midiInClose")
)

// openPort is an input device opened with midiInOpen.
type openPort struct {
	key     uintptr
	port    contracts.PortInfo
	handle  HMIDIIN
	handler contracts.MIDIHandler
	logger  contracts.Logger
}

// WinMM calls back with an instance value; it is a key into this registry so
// no Go pointer crosses into the driver.
var (
	registryMu   sync.RWMutex
	registry     = map[uintptr]*openPort{}
	nextKey      uintptr
	callbackOnce sync.Once
	callbackPtr  uintptr
)

// ClientMid manages MIDI input on Windows through WinMM.
type ClientMid struct {
	mu     sync.Mutex
	logger contracts.Logger
	ports  map[string]*openPort // keyed by PortInfo.Key
	closed bool
}

// NewMIDIClient creates a MIDI client for Windows
func NewMIDIClient(options *contracts.ShellOptions) (contracts.MIDIInput, error) {
	options.Logger.Info("MIDI client successfully created", options.Logger.Field().String("backend", "winmm"))
	return &ClientMid{
		logger: options.Logger,
		ports:  make(map[string]*openPort),
	}, nil
}

// ListPorts lists the available MIDI input devices
func (m *ClientMid) ListPorts() ([]contracts.PortInfo, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		return nil, internalmidi.ErrNoMIDIDevices
	}

	ports := make([]contracts.PortInfo, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			m.logger.Warn("Failed to get information for MIDI device", m.logger.Field().Int("deviceID", int(i)))
			continue
		}
		deviceName := windows.UTF16ToString(caps.szPname[:])
		ports = append(ports, contracts.PortInfo{
			ID:           int(i),
			Name:         deviceName,
			EntityName:   deviceName,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		})
	}
	internalmidi.IndexDuplicates(ports)
	return ports, nil
}

// OpenPort opens the device and starts capture.
func (m *ClientMid) OpenPort(port contracts.PortInfo, handler contracts.MIDIHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return internalmidi.ErrBackendClosed
	}
	if _, ok := m.ports[port.Key()]; ok {
		return fmt.Errorf("%w: %s", internalmidi.ErrPortAlreadyOpen, port.Key())
	}

	callbackOnce.Do(func() { callbackPtr = windows.NewCallback(midiInCallback) })

	p := &openPort{port: port, handler: handler, logger: m.logger}
	registryMu.Lock()
	nextKey++
	p.key = nextKey
	registry[p.key] = p
	registryMu.Unlock()

	fdwOpen := CALLBACK_FUNCTION | MIDI_IO_STATUS
	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&p.handle)),
		uintptr(port.ID),
		callbackPtr,
		p.key,
		uintptr(fdwOpen),
	)
	if r1 != 0 {
		unregister(p.key)
		return fmt.Errorf("failed to open MIDI device %d (%s): %v", port.ID, port.Name, err)
	}

	r1, _, err = procMidiInStart.Call(uintptr(p.handle))
	if r1 != 0 {
		procMidiInClose.Call(uintptr(p.handle))
		unregister(p.key)
		return fmt.Errorf("failed to start MIDI capture on %s: %v", port.Key(), err)
	}

	m.ports[port.Key()] = p
	return nil
}

// midiInCallback processes incoming MIDI messages
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	registryMu.RLock()
	p := registry[dwInstance]
	registryMu.RUnlock()
	if p == nil {
		return 0
	}

	switch wMsg {
	case MIM_OPEN:
		p.logger.Debug("MIDI device opened", p.logger.Field().String("port", p.port.Key()))
	case MIM_CLOSE:
		p.logger.Debug("MIDI device closed", p.logger.Field().String("port", p.port.Key()))
	case MIM_DATA:
		p.handler(p.port, unpackShortMessage(uint32(dwParam1)))
	case MIM_LONGDATA:
		p.logger.Debug("System exclusive input is not captured", p.logger.Field().String("port", p.port.Key()))
	case MIM_ERROR, MIM_LONGERROR:
		p.logger.Error("MIDI error",
			p.logger.Field().String("port", p.port.Key()),
			p.logger.Field().Uint64("msg", uint64(wMsg)))
	case MIM_MOREDATA:
		p.handler(p.port, unpackShortMessage(uint32(dwParam1)))
	default:
		p.logger.Warn("Unknown MIDI message", p.logger.Field().Uint64("msg", uint64(wMsg)))
	}

	return 0
}

// ClosePort stops capture on the device and closes it.
func (m *ClientMid) ClosePort(port contracts.PortInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.ports[port.Key()]
	if !ok {
		return fmt.Errorf("%w: %s", internalmidi.ErrPortNotOpen, port.Key())
	}
	delete(m.ports, port.Key())
	return p.stop()
}

// Close stops capture on every device.
func (m *ClientMid) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	for name, p := range m.ports {
		if err := p.stop(); err != nil {
			m.logger.Warn("Failed to close MIDI device",
				m.logger.Field().String("port", name),
				m.logger.Field().Error("error", err))
		}
	}
	clear(m.ports)
	m.logger.Info("MIDI client closed")
	return nil
}

// stop stops the capture and releases resources
func (p *openPort) stop() error {
	defer unregister(p.key)

	if p.handle == 0 {
		return fmt.Errorf("invalid MIDI device handle")
	}

	r1, _, err := procMidiInStop.Call(uintptr(p.handle))
	if r1 != 0 {
		return fmt.Errorf("failed to stop MIDI capture: %v", err)
	}

	r1, _, err = procMidiInClose.Call(uintptr(p.handle))
	if r1 != 0 {
		return fmt.Errorf("failed to close MIDI device: %v", err)
	}
	p.handle = 0
	return nil
}

func unregister(key uintptr) {
	registryMu.Lock()
	delete(registry, key)
	registryMu.Unlock()
}
