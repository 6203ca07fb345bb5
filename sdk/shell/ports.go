package shell

import (
	"errors"
	"slices"
	"strings"

	"github.com/leandrodaf/audiomidi/internal/audio"
	"github.com/leandrodaf/audiomidi/internal/midi"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

// ListPorts returns the MIDI input ports a shell spawned with opts would
// connect, sorted by key, without opening any of them. Logging follows the
// WithLogLevel and WithLogFile options.
func ListPorts(opts ...contracts.Option) ([]contracts.PortInfo, error) {
	options := applyMIDIOptions(opts...)

	input, err := newMIDIInput(options)
	if err != nil || input == nil {
		return nil, err
	}
	defer input.Close()

	ports, err := input.ListPorts()
	if err != nil && !errors.Is(err, midi.ErrNoMIDIDevices) {
		return nil, err
	}

	midi.IndexDuplicates(ports)
	accepted := ports[:0]
	for _, port := range ports {
		if midi.Accepts(options.PortFilter, port.Name) {
			accepted = append(accepted, port)
		}
	}
	slices.SortFunc(accepted, func(a, b contracts.PortInfo) int {
		return strings.Compare(a.Key(), b.Key())
	})
	return accepted, nil
}

// DefaultOutputDevice reports the device a shell would play through.
func DefaultOutputDevice() (contracts.OutputDeviceInfo, error) {
	return audio.DefaultOutputDevice()
}
