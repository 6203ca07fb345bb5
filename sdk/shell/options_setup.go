package shell

import (
	"github.com/leandrodaf/audiomidi/internal/audio"
	"github.com/leandrodaf/audiomidi/internal/dispatch"
	"github.com/leandrodaf/audiomidi/internal/logger"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

// defaultClientName is registered with MIDI backends that take a client name.
const defaultClientName = "audiomidi shell"

// applyDefaultOptions sets default values for ShellOptions if not explicitly provided.
func applyDefaultOptions(opts ...contracts.Option) contracts.ShellOptions {
	options := applyMIDIOptions(opts...)
	if options.MIDIQueueSize <= 0 {
		options.MIDIQueueSize = dispatch.DefaultQueueSize
	}
	if options.AudioOutput == nil {
		options.AudioOutput = audio.NewPortAudioOutput(options.Logger)
	}
	return *options
}

// applyMIDIOptions sets the defaults needed to create a MIDI backend: the
// logger with its level and destination, and the client name.
func applyMIDIOptions(opts ...contracts.Option) *contracts.ShellOptions {
	options := &contracts.ShellOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}
	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: defaultClientName}
	}

	// InfoLevel is the zero value, so it is also the default.
	options.Logger.SetLevel(options.LogLevel)
	return options
}
