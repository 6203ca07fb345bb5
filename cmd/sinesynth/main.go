// Command sinesynth plays a monophonic sine wave for the notes received on
// every MIDI input, through the default audio output.
package main

import (
	"flag"
	"time"

	"github.com/leandrodaf/audiomidi/internal/config"
	"github.com/leandrodaf/audiomidi/internal/logger"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
	"github.com/leandrodaf/audiomidi/sdk/shell"
)

func main() {
	configFile := flag.String("config", "", "load shell settings from a YAML file")
	rate := flag.Int("rate", 44100, "sample rate in Hz")
	buffer := flag.Int("buffer", 0, "device buffer size in frames (0 lets the host choose)")
	chunk := flag.Int("chunk", 16, "frames per Process call")
	cutoff := flag.Float64("cutoff", 6000, "tone filter cutoff in Hz")
	rescan := flag.Duration("rescan", 0, "rescan MIDI inputs at this interval (0 disables)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log := logger.NewZapLogger()

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			log.Fatal("Failed to load config",
				log.Field().String("path", *configFile),
				log.Field().Error("error", err))
		}
		cfg = loaded
	}

	// Flags given explicitly override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rate":
			cfg.Audio.SampleRate = *rate
		case "buffer":
			cfg.Audio.BufferSize = *buffer
		case "chunk":
			cfg.Audio.ChunkSize = *chunk
		case "rescan":
			cfg.MIDI.Rescan = *rescan
		case "debug":
			if *debug {
				cfg.Log.Level = contracts.DebugLevel.String()
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid settings", log.Field().Error("error", err))
	}

	opts := append([]contracts.Option{contracts.WithLogger(log)}, cfg.Options()...)
	if cfg.Log.Stats == 0 {
		opts = append(opts, contracts.WithStatsInterval(10*time.Second))
	}

	log.Info("Starting sine synth",
		log.Field().Int("sampleRate", cfg.Audio.SampleRate),
		log.Field().Int("bufferSize", cfg.Audio.BufferSize),
		log.Field().Int("chunkSize", cfg.Audio.ChunkSize),
		log.Field().Float64("cutoff", *cutoff))

	synth := NewSineSynth(float64(cfg.Audio.SampleRate), *cutoff)
	shell.RunForever(cfg.Audio.SampleRate, cfg.Audio.BufferSize, cfg.Audio.ChunkSize, synth, opts...)
}
