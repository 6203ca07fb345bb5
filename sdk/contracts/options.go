package contracts

import "time"

// MIDICommand represents the types of MIDI commands for event filtering.
type MIDICommand byte

const (
	// NoteOff is the MIDI command for a Note Off event (0x80).
	NoteOff MIDICommand = 0x80
	// NoteOn is the MIDI command for a Note On event (0x90).
	NoteOn MIDICommand = 0x90
	// PolyAftertouch is the MIDI command for polyphonic key pressure (0xA0).
	PolyAftertouch MIDICommand = 0xA0
	// ControlChange is the MIDI command for a controller change (0xB0).
	ControlChange MIDICommand = 0xB0
	// ProgramChange is the MIDI command for a program change (0xC0).
	ProgramChange MIDICommand = 0xC0
	// ChannelAftertouch is the MIDI command for channel pressure (0xD0).
	ChannelAftertouch MIDICommand = 0xD0
	// PitchBend is the MIDI command for a pitch wheel change (0xE0).
	PitchBend MIDICommand = 0xE0
	// SysEx is the status byte starting a system exclusive message (0xF0).
	SysEx MIDICommand = 0xF0
)

// MIDIEventFilter allows users to specify which MIDI commands to deliver.
type MIDIEventFilter struct {
	Commands []MIDICommand // List of MIDI commands to deliver.
}

// Allows reports whether a message with the given command passes the filter.
func (f *MIDIEventFilter) Allows(command byte) bool {
	if f == nil {
		return true
	}
	for _, allowed := range f.Commands {
		if command == byte(allowed) {
			return true
		}
	}
	return false
}

// PortFilter selects which MIDI input ports the shell connects to.
// Patterns are case-insensitive substrings; exclusions win over inclusions
// and an empty Include list accepts every port.
type PortFilter struct {
	Include []string
	Exclude []string
}

// DispatchMode controls on which goroutine ProcessMIDI runs.
type DispatchMode int

const (
	// DispatchQueued buffers messages and delivers them on the audio goroutine
	// right before the next chunk is processed.
	DispatchQueued DispatchMode = iota
	// DispatchImmediate delivers messages on the MIDI driver goroutine,
	// serialized with Process.
	DispatchImmediate
)

// MIDIBackend names a MIDI input implementation.
type MIDIBackend string

const (
	// BackendAuto picks the native backend for the running operating system.
	BackendAuto MIDIBackend = ""
	// BackendRtMIDI uses the cross-platform rtmidi driver.
	BackendRtMIDI MIDIBackend = "rtmidi"
	// BackendCoreMIDI uses CoreMIDI directly (macOS only).
	BackendCoreMIDI MIDIBackend = "coremidi"
	// BackendWinMM uses the Windows multimedia API directly (Windows only).
	BackendWinMM MIDIBackend = "winmm"
	// BackendNone disables MIDI input.
	BackendNone MIDIBackend = "none"
)

// CoreMIDIConfig holds configuration for MIDI backends that register a client name.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
}

// ShellOptions defines the configuration options for the shell.
type ShellOptions struct {
	Logger          Logger           // Logger for logging events and errors.
	LogLevel        LogLevel         // Level of logging to use.
	LogFilePath     string           // File path for logging if file logging is enabled.
	MIDIEventFilter *MIDIEventFilter // Optional filter for MIDI commands to deliver.
	PortFilter      *PortFilter      // Optional filter for MIDI ports to open.
	CoreMIDIConfig  *CoreMIDIConfig  // Client name registered with the MIDI backend.
	MIDIBackend     MIDIBackend      // MIDI backend selection.
	MIDIInput       MIDIInput        // Custom MIDI backend; overrides MIDIBackend.
	AudioOutput     AudioOutput      // Custom audio backend; defaults to PortAudio.
	Dispatch        DispatchMode     // Goroutine on which ProcessMIDI runs.
	MIDIQueueSize   int              // Capacity of the queued dispatch buffer.
	PortRescan      time.Duration    // Interval for hot-plug rescans; 0 disables them.
	StatsInterval   time.Duration    // Interval for logging underflows and drops; 0 disables it.
}

// Option is a function that modifies ShellOptions.
type Option func(*ShellOptions)

// WithLogger sets the logger for the shell.
func WithLogger(l Logger) Option {
	return func(opts *ShellOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the shell.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ShellOptions) {
		opts.LogLevel = level
	}
}

// WithLogFile directs the default logger to a file.
func WithLogFile(path string) Option {
	return func(opts *ShellOptions) {
		opts.LogFilePath = path
	}
}

// WithMIDIEventFilter sets the MIDI command filter.
func WithMIDIEventFilter(filter MIDIEventFilter) Option {
	return func(opts *ShellOptions) {
		opts.MIDIEventFilter = &filter
	}
}

// WithPortFilter restricts which MIDI input ports are opened.
func WithPortFilter(filter PortFilter) Option {
	return func(opts *ShellOptions) {
		opts.PortFilter = &filter
	}
}

// WithCoreMIDIConfig sets the client name registered with the MIDI backend.
func WithCoreMIDIConfig(config CoreMIDIConfig) Option {
	return func(opts *ShellOptions) {
		opts.CoreMIDIConfig = &config
	}
}

// WithMIDIBackend selects the MIDI input backend.
func WithMIDIBackend(backend MIDIBackend) Option {
	return func(opts *ShellOptions) {
		opts.MIDIBackend = backend
	}
}

// WithMIDIInput installs a custom MIDI input backend.
func WithMIDIInput(in MIDIInput) Option {
	return func(opts *ShellOptions) {
		opts.MIDIInput = in
	}
}

// WithAudioOutput installs a custom audio output backend.
func WithAudioOutput(out AudioOutput) Option {
	return func(opts *ShellOptions) {
		opts.AudioOutput = out
	}
}

// WithMIDIDispatch selects the goroutine on which ProcessMIDI runs.
func WithMIDIDispatch(mode DispatchMode) Option {
	return func(opts *ShellOptions) {
		opts.Dispatch = mode
	}
}

// WithMIDIQueueSize sets the capacity of the queued dispatch buffer.
func WithMIDIQueueSize(size int) Option {
	return func(opts *ShellOptions) {
		opts.MIDIQueueSize = size
	}
}

// WithPortRescan enables periodic rescans that open new ports and close vanished ones.
func WithPortRescan(interval time.Duration) Option {
	return func(opts *ShellOptions) {
		opts.PortRescan = interval
	}
}

// WithStatsInterval enables periodic logging of underflow and drop counters.
func WithStatsInterval(interval time.Duration) Option {
	return func(opts *ShellOptions) {
		opts.StatsInterval = interval
	}
}
