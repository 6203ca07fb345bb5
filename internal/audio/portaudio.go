package audio

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

// Error definitions for audio output issues.
var (
	ErrNoOutputDevice = errors.New("no default audio output device")
	ErrStreamNotOpen  = errors.New("audio stream not open")
	ErrAlreadyOpen    = errors.New("audio stream already open")
)

// PortAudioOutput streams interleaved float32 samples to the default output
// device through PortAudio.
type PortAudioOutput struct {
	mu         sync.Mutex
	logger     contracts.Logger
	stream     *portaudio.Stream
	device     contracts.OutputDeviceInfo
	render     contracts.RenderFunc
	underflows atomic.Uint64
	running    bool
}

// NewPortAudioOutput creates an output that is opened later by Open.
func NewPortAudioOutput(logger contracts.Logger) *PortAudioOutput {
	return &PortAudioOutput{logger: logger}
}

// Open initializes PortAudio and opens the default output device.
func (p *PortAudioOutput) Open(cfg contracts.StreamConfig, render contracts.RenderFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream != nil {
		return ErrAlreadyOpen
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("error initializing portaudio: %w", err)
	}

	dev, err := portaudio.DefaultOutputDevice()
	if err != nil || dev == nil {
		_ = portaudio.Terminate()
		return fmt.Errorf("%w: %v", ErrNoOutputDevice, err)
	}

	params := portaudio.LowLatencyParameters(nil, dev)
	params.Output.Channels = cfg.Channels
	params.SampleRate = cfg.SampleRate
	params.FramesPerBuffer = cfg.FramesPerBuffer
	if cfg.FramesPerBuffer == 0 {
		params.FramesPerBuffer = portaudio.FramesPerBufferUnspecified
	}

	p.render = render
	stream, err := portaudio.OpenStream(params, p.processAudio)
	if err != nil {
		_ = portaudio.Terminate()
		return fmt.Errorf("error opening stream on %q: %w", dev.Name, err)
	}

	p.stream = stream
	p.device = describeDevice(dev)
	p.logger.Info("Audio output device opened",
		p.logger.Field().String("device", p.device.Name),
		p.logger.Field().String("hostAPI", p.device.HostAPI),
		p.logger.Field().Float64("sampleRate", cfg.SampleRate),
		p.logger.Field().Int("framesPerBuffer", cfg.FramesPerBuffer))
	return nil
}

// processAudio runs on the PortAudio callback thread.
func (p *PortAudioOutput) processAudio(out []float32, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
	if flags&portaudio.OutputUnderflow != 0 {
		p.underflows.Add(1)
	}
	p.render(out)
}

// Device returns the device opened by Open.
func (p *PortAudioOutput) Device() contracts.OutputDeviceInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.device
}

// Start begins pulling buffers from the render function.
func (p *PortAudioOutput) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return ErrStreamNotOpen
	}
	if p.running {
		return nil
	}
	if err := p.stream.Start(); err != nil {
		return fmt.Errorf("error starting stream: %w", err)
	}
	p.running = true
	return nil
}

// Underflows returns the number of output underflows reported by the host.
func (p *PortAudioOutput) Underflows() uint64 {
	return p.underflows.Load()
}

// Close stops the stream, closes it and terminates PortAudio.
func (p *PortAudioOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return nil
	}

	var errs []error
	if p.running {
		if err := p.stream.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("error stopping stream: %w", err))
		}
		p.running = false
	}
	if err := p.stream.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing stream: %w", err))
	}
	if err := portaudio.Terminate(); err != nil {
		errs = append(errs, fmt.Errorf("error terminating portaudio: %w", err))
	}
	p.stream = nil
	p.logger.Info("Audio output closed", p.logger.Field().Uint64("underflows", p.underflows.Load()))
	return errors.Join(errs...)
}

// DefaultOutputDevice reports the default output device without opening a stream.
func DefaultOutputDevice() (contracts.OutputDeviceInfo, error) {
	if err := portaudio.Initialize(); err != nil {
		return contracts.OutputDeviceInfo{}, fmt.Errorf("error initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	dev, err := portaudio.DefaultOutputDevice()
	if err != nil || dev == nil {
		return contracts.OutputDeviceInfo{}, fmt.Errorf("%w: %v", ErrNoOutputDevice, err)
	}
	return describeDevice(dev), nil
}

func describeDevice(dev *portaudio.DeviceInfo) contracts.OutputDeviceInfo {
	info := contracts.OutputDeviceInfo{
		Name:              dev.Name,
		MaxOutputChannels: dev.MaxOutputChannels,
		DefaultSampleRate: dev.DefaultSampleRate,
	}
	if dev.HostApi != nil {
		info.HostAPI = dev.HostApi.Name
	}
	return info
}
