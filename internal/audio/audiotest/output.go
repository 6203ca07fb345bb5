// Package audiotest provides an audio output that the test pulls buffers from.
package audiotest

import (
	"sync"

	"github.com/leandrodaf/audiomidi/internal/audio"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

// Output is a contracts.AudioOutput with no device behind it.
type Output struct {
	mu         sync.Mutex
	OpenErr    error // Returned by Open when set.
	StartErr   error // Returned by Start when set.
	Config     contracts.StreamConfig
	render     contracts.RenderFunc
	started    bool
	closed     bool
	underflows uint64
}

// Open implements contracts.AudioOutput.
func (o *Output) Open(cfg contracts.StreamConfig, render contracts.RenderFunc) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.OpenErr != nil {
		return o.OpenErr
	}
	if o.render != nil {
		return audio.ErrAlreadyOpen
	}
	o.Config = cfg
	o.render = render
	return nil
}

// Device implements contracts.AudioOutput.
func (o *Output) Device() contracts.OutputDeviceInfo {
	return contracts.OutputDeviceInfo{Name: "test output", HostAPI: "audiotest", MaxOutputChannels: 2}
}

// Start implements contracts.AudioOutput.
func (o *Output) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.render == nil {
		return audio.ErrStreamNotOpen
	}
	if o.StartErr != nil {
		return o.StartErr
	}
	o.started = true
	return nil
}

// Underflows implements contracts.AudioOutput.
func (o *Output) Underflows() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.underflows
}

// Close implements contracts.AudioOutput.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.started = false
	return nil
}

// Pull renders one interleaved device buffer of the given number of frames,
// as the host would from its callback thread.
func (o *Output) Pull(frames int) []float32 {
	o.mu.Lock()
	render, started := o.render, o.started
	o.mu.Unlock()

	out := make([]float32, frames*contracts.Channels)
	if started {
		render(out)
	}
	return out
}

// Underflow records a host-reported underflow.
func (o *Output) Underflow() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.underflows++
}

// Started reports whether the stream is running.
func (o *Output) Started() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.started
}

// Closed reports whether Close was called.
func (o *Output) Closed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}
