package contracts

// StreamConfig holds the parameters for opening the output stream.
type StreamConfig struct {
	SampleRate      float64 // Sampling frequency in Hz.
	FramesPerBuffer int     // Device buffer size in frames; 0 lets the host choose.
	Channels        int     // Number of interleaved output channels.
}

// RenderFunc fills an interleaved output buffer. It runs on the audio thread.
type RenderFunc func(out []float32)

// OutputDeviceInfo describes an audio output device.
type OutputDeviceInfo struct {
	Name              string
	HostAPI           string
	MaxOutputChannels int
	DefaultSampleRate float64
}

// AudioOutput defines the operations of an audio output backend.
type AudioOutput interface {
	Open(cfg StreamConfig, render RenderFunc) error // Opens the default output device.
	Device() OutputDeviceInfo                       // Device opened by Open.
	Start() error                                   // Starts pulling buffers from the render function.
	Underflows() uint64                             // Output underflows reported by the host so far.
	Close() error                                   // Stops the stream and releases the device.
}

// Stats holds runtime counters of a running shell.
type Stats struct {
	ChunksProcessed uint64
	MIDIReceived    uint64
	MIDIDropped     uint64
	MIDIFiltered    uint64
	Underflows      uint64
	OpenPorts       int
}
