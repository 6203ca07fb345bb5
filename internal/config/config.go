// Package config loads shell settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/leandrodaf/audiomidi/sdk/contracts"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid config")

// Config mirrors the YAML configuration file.
type Config struct {
	Audio struct {
		SampleRate int `yaml:"sample_rate"`
		BufferSize int `yaml:"buffer_size"`
		ChunkSize  int `yaml:"chunk_size"`
	} `yaml:"audio"`

	MIDI struct {
		Backend   string        `yaml:"backend"`
		Dispatch  string        `yaml:"dispatch"`
		QueueSize int           `yaml:"queue_size"`
		Rescan    time.Duration `yaml:"rescan"`
		Include   []string      `yaml:"include"`
		Exclude   []string      `yaml:"exclude"`
		Commands  []string      `yaml:"commands"`
	} `yaml:"midi"`

	Log struct {
		Level string        `yaml:"level"`
		File  string        `yaml:"file"`
		Stats time.Duration `yaml:"stats"`
	} `yaml:"log"`
}

var commandNames = map[string]contracts.MIDICommand{
	"note_off":           contracts.NoteOff,
	"note_on":            contracts.NoteOn,
	"poly_aftertouch":    contracts.PolyAftertouch,
	"control_change":     contracts.ControlChange,
	"program_change":     contracts.ProgramChange,
	"channel_aftertouch": contracts.ChannelAftertouch,
	"pitch_bend":         contracts.PitchBend,
	"sysex":              contracts.SysEx,
}

var backendNames = map[string]contracts.MIDIBackend{
	"":         contracts.BackendAuto,
	"auto":     contracts.BackendAuto,
	"rtmidi":   contracts.BackendRtMIDI,
	"coremidi": contracts.BackendCoreMIDI,
	"winmm":    contracts.BackendWinMM,
	"none":     contracts.BackendNone,
}

// Default returns 44.1 kHz output with a host chosen buffer, 16 frame
// chunks and queued MIDI.
func Default() *Config {
	var c Config
	c.Audio.SampleRate = 44100
	c.Audio.ChunkSize = 16
	c.MIDI.Dispatch = "queued"
	c.Log.Level = "info"
	return &c
}

// Load reads filename on top of the defaults and validates the result.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the values a shell cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.Audio.SampleRate <= 0:
		return fmt.Errorf("%w: sample_rate must be positive", ErrInvalidConfig)
	case c.Audio.BufferSize < 0:
		return fmt.Errorf("%w: buffer_size must not be negative", ErrInvalidConfig)
	case c.Audio.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk_size must be positive", ErrInvalidConfig)
	case c.MIDI.QueueSize < 0:
		return fmt.Errorf("%w: queue_size must not be negative", ErrInvalidConfig)
	case c.MIDI.Rescan < 0:
		return fmt.Errorf("%w: rescan must not be negative", ErrInvalidConfig)
	}
	if _, ok := backendNames[strings.ToLower(c.MIDI.Backend)]; !ok {
		return fmt.Errorf("%w: unknown midi backend %q", ErrInvalidConfig, c.MIDI.Backend)
	}
	switch strings.ToLower(c.MIDI.Dispatch) {
	case "", "queued", "immediate":
	default:
		return fmt.Errorf("%w: unknown midi dispatch %q", ErrInvalidConfig, c.MIDI.Dispatch)
	}
	for _, name := range c.MIDI.Commands {
		if _, ok := commandNames[strings.ToLower(name)]; !ok {
			return fmt.Errorf("%w: unknown midi command %q", ErrInvalidConfig, name)
		}
	}
	return nil
}

// Options converts the configuration into shell options.
func (c *Config) Options() []contracts.Option {
	opts := []contracts.Option{
		contracts.WithLogLevel(contracts.ParseLogLevel(strings.ToLower(c.Log.Level))),
		contracts.WithMIDIBackend(backendNames[strings.ToLower(c.MIDI.Backend)]),
		contracts.WithMIDIQueueSize(c.MIDI.QueueSize),
		contracts.WithPortRescan(c.MIDI.Rescan),
		contracts.WithStatsInterval(c.Log.Stats),
	}
	if c.Log.File != "" {
		opts = append(opts, contracts.WithLogFile(c.Log.File))
	}
	if strings.EqualFold(c.MIDI.Dispatch, "immediate") {
		opts = append(opts, contracts.WithMIDIDispatch(contracts.DispatchImmediate))
	}
	if len(c.MIDI.Include) > 0 || len(c.MIDI.Exclude) > 0 {
		opts = append(opts, contracts.WithPortFilter(contracts.PortFilter{
			Include: c.MIDI.Include,
			Exclude: c.MIDI.Exclude,
		}))
	}
	if len(c.MIDI.Commands) > 0 {
		filter := contracts.MIDIEventFilter{}
		for _, name := range c.MIDI.Commands {
			filter.Commands = append(filter.Commands, commandNames[strings.ToLower(name)])
		}
		opts = append(opts, contracts.WithMIDIEventFilter(filter))
	}
	return opts
}
