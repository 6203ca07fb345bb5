package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/audiomidi/internal/audio"
	"github.com/leandrodaf/audiomidi/internal/dispatch"
	"github.com/leandrodaf/audiomidi/internal/midi"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

// Argument errors returned by Spawn and Run.
var (
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidBufferSize = errors.New("buffer size must not be negative")
	ErrInvalidChunkSize  = errors.New("chunk size must be positive")
	ErrNilGenerator      = errors.New("generator is nil")
)

// waitInterval paces Run while it waits for cancellation. Audio and MIDI run
// on foreign threads, so a pending timer keeps the runtime from reporting a
// deadlock.
const waitInterval = time.Second

// Shell runs a generator against the default audio output and all MIDI inputs.
type Shell struct {
	logger    contracts.Logger
	opts      contracts.ShellOptions
	generator contracts.AudioGenerator
	midiProc  contracts.MIDIProcessor
	output    contracts.AudioOutput
	ports     *midi.PortSet
	queue     *dispatch.Queue
	clock     dispatch.Clock
	chunker   *audio.Chunker
	chunkSize int

	genMu    sync.Mutex // serializes Process and ProcessMIDI in DispatchImmediate mode
	chunks   atomic.Uint64
	received atomic.Uint64
	filtered atomic.Uint64

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// RunForever spawns the shell and keeps it alive for the life of the process.
// A start-up failure is logged at fatal level, which exits the process. It is
// Run with a context that is never cancelled; use Run where the caller needs
// to stop the shell or observe the error.
//   - sampleRate is the sampling frequency in Hz.
//   - bufferSize is the device buffer size in frames; 0 lets the host choose.
//   - chunkSize is the number of frames passed to each Process call.
func RunForever(sampleRate, bufferSize, chunkSize int, generator contracts.AudioGenerator, opts ...contracts.Option) {
	options := applyDefaultOptions(opts...)
	err := run(context.Background(), sampleRate, bufferSize, chunkSize, generator, options)
	options.Logger.Fatal("Shell stopped", options.Logger.Field().Error("error", err))
}

// Run spawns the shell and blocks until ctx is done, then closes it. It
// returns early with the start-up error if the shell cannot start.
func Run(ctx context.Context, sampleRate, bufferSize, chunkSize int, generator contracts.AudioGenerator, opts ...contracts.Option) error {
	return run(ctx, sampleRate, bufferSize, chunkSize, generator, applyDefaultOptions(opts...))
}

func run(ctx context.Context, sampleRate, bufferSize, chunkSize int, generator contracts.AudioGenerator, options contracts.ShellOptions) error {
	s, err := spawn(sampleRate, bufferSize, chunkSize, generator, options)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(waitInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return s.Close()
		case <-ticker.C:
		}
	}
}

// Spawn initializes the generator, connects the MIDI inputs and starts the
// output stream. The returned shell runs until Close is called.
func Spawn(sampleRate, bufferSize, chunkSize int, generator contracts.AudioGenerator, opts ...contracts.Option) (*Shell, error) {
	return spawn(sampleRate, bufferSize, chunkSize, generator, applyDefaultOptions(opts...))
}

func validate(sampleRate, bufferSize, chunkSize int, generator contracts.AudioGenerator) error {
	switch {
	case sampleRate <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	case bufferSize < 0:
		return fmt.Errorf("%w: %d", ErrInvalidBufferSize, bufferSize)
	case chunkSize <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidChunkSize, chunkSize)
	case generator == nil:
		return ErrNilGenerator
	}
	return nil
}

func spawn(sampleRate, bufferSize, chunkSize int, generator contracts.AudioGenerator, options contracts.ShellOptions) (*Shell, error) {
	if err := validate(sampleRate, bufferSize, chunkSize, generator); err != nil {
		return nil, err
	}

	s := &Shell{
		logger:    options.Logger,
		opts:      options,
		generator: generator,
		output:    options.AudioOutput,
		queue:     dispatch.NewQueue(options.MIDIQueueSize),
		clock:     dispatch.NewClock(),
		chunkSize: chunkSize,
	}
	s.midiProc, _ = generator.(contracts.MIDIProcessor)
	s.chunker = audio.NewChunker(chunkSize, s.processChunk)

	if initializer, ok := generator.(contracts.Initializer); ok {
		initializer.Init(chunkSize)
	}

	s.startMIDI()

	cfg := contracts.StreamConfig{
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: bufferSize,
		Channels:        contracts.Channels,
	}
	if err := s.output.Open(cfg, s.chunker.Render); err != nil {
		s.closeMIDI()
		return nil, fmt.Errorf("open audio output: %w", err)
	}
	if err := s.output.Start(); err != nil {
		_ = s.output.Close()
		s.closeMIDI()
		return nil, fmt.Errorf("start audio output: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	if s.ports != nil && options.PortRescan > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.ports.Watch(ctx, options.PortRescan)
		}()
	}
	if options.StatsInterval > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.monitor(ctx, options.StatsInterval)
		}()
	}

	s.logger.Info("Shell running",
		s.logger.Field().Int("sampleRate", sampleRate),
		s.logger.Field().Int("bufferSize", bufferSize),
		s.logger.Field().Int("chunkSize", chunkSize),
		s.logger.Field().Int("midiPorts", s.openPorts()))
	return s, nil
}

// startMIDI creates the MIDI backend and opens every port that passes the
// filter. MIDI problems never stop the shell: it falls back to audio only.
func (s *Shell) startMIDI() {
	input, err := newMIDIInput(&s.opts)
	if err != nil {
		s.logger.Error("MIDI input unavailable, running audio only", s.logger.Field().Error("error", err))
		return
	}
	if input == nil {
		s.logger.Info("MIDI input disabled")
		return
	}

	s.ports = midi.NewPortSet(input, s.opts.PortFilter, s.onMIDI, s.logger)
	if _, _, err := s.ports.Sync(); err != nil {
		s.logger.Error("Failed to enumerate MIDI inputs", s.logger.Field().Error("error", err))
	}
	if s.ports.Len() == 0 {
		s.logger.Warn("No MIDI inputs connected")
	}
}

func (s *Shell) closeMIDI() error {
	if s.ports == nil {
		return nil
	}
	return s.ports.Close()
}

// onMIDI runs on the backend's goroutine for every received message.
func (s *Shell) onMIDI(port contracts.PortInfo, data []byte) {
	timestamp := s.clock.Since()
	if len(data) == 0 {
		return
	}
	s.received.Add(1)

	msg := contracts.MIDIMessage{Data: data, Timestamp: timestamp, Port: port}
	if !s.opts.MIDIEventFilter.Allows(msg.Command()) {
		s.filtered.Add(1)
		return
	}
	if s.midiProc == nil {
		return
	}
	msg.Data = bytes.Clone(data)

	if s.opts.Dispatch == contracts.DispatchImmediate {
		s.genMu.Lock()
		s.midiProc.ProcessMIDI(msg)
		s.genMu.Unlock()
		return
	}
	if !s.queue.Push(msg) {
		s.logger.Debug("MIDI queue full; dropping message", s.logger.Field().String("port", port.Key()))
	}
}

// processChunk runs on the audio thread each time the chunker needs a chunk.
func (s *Shell) processChunk(chunk []contracts.Frame) {
	if s.opts.Dispatch == contracts.DispatchImmediate {
		s.genMu.Lock()
		defer s.genMu.Unlock()
	} else if s.midiProc != nil {
		s.queue.Drain(s.midiProc.ProcessMIDI)
	}
	s.generator.Process(chunk)
	s.chunks.Add(1)
}

// monitor logs underflows and dropped messages as they accumulate.
func (s *Shell) monitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last contracts.Stats
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		st := s.Stats()
		if st.Underflows > last.Underflows {
			s.logger.Warn("Audio output underflow",
				s.logger.Field().Uint64("new", st.Underflows-last.Underflows),
				s.logger.Field().Uint64("total", st.Underflows))
		}
		if st.MIDIDropped > last.MIDIDropped {
			s.logger.Warn("MIDI messages dropped",
				s.logger.Field().Uint64("new", st.MIDIDropped-last.MIDIDropped),
				s.logger.Field().Uint64("total", st.MIDIDropped))
		}
		s.logger.Debug("Shell stats",
			s.logger.Field().Uint64("chunks", st.ChunksProcessed),
			s.logger.Field().Uint64("midiReceived", st.MIDIReceived),
			s.logger.Field().Int("midiPorts", st.OpenPorts))
		last = st
	}
}

// Ports returns the MIDI input ports currently connected.
func (s *Shell) Ports() []contracts.PortInfo {
	if s.ports == nil {
		return nil
	}
	return s.ports.Ports()
}

// Device returns the audio output device in use.
func (s *Shell) Device() contracts.OutputDeviceInfo {
	return s.output.Device()
}

// ChunkSize returns the number of frames passed to each Process call.
func (s *Shell) ChunkSize() int {
	return s.chunkSize
}

// Stats returns the shell's runtime counters.
func (s *Shell) Stats() contracts.Stats {
	return contracts.Stats{
		ChunksProcessed: s.chunks.Load(),
		MIDIReceived:    s.received.Load(),
		MIDIDropped:     s.queue.Dropped(),
		MIDIFiltered:    s.filtered.Load(),
		Underflows:      s.output.Underflows(),
		OpenPorts:       s.openPorts(),
	}
}

func (s *Shell) openPorts() int {
	if s.ports == nil {
		return 0
	}
	return s.ports.Len()
}

// Close stops the output stream and disconnects every MIDI input. It is safe
// to call more than once.
func (s *Shell) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.wg.Wait()

		var errs []error
		if err := s.output.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close audio output: %w", err))
		}
		if err := s.closeMIDI(); err != nil {
			errs = append(errs, fmt.Errorf("close MIDI inputs: %w", err))
		}
		s.closeErr = errors.Join(errs...)

		st := s.Stats()
		s.logger.Info("Shell stopped",
			s.logger.Field().Uint64("chunks", st.ChunksProcessed),
			s.logger.Field().Uint64("midiReceived", st.MIDIReceived),
			s.logger.Field().Uint64("midiDropped", st.MIDIDropped),
			s.logger.Field().Uint64("underflows", st.Underflows))
	})
	return s.closeErr
}
