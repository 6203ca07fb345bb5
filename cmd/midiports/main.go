// Command midiports lists the MIDI inputs and the audio output a shell would
// use. With -monitor it connects them and logs every MIDI message until
// interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/leandrodaf/audiomidi/internal/logger"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
	"github.com/leandrodaf/audiomidi/sdk/shell"
)

// monitor is a silent generator that logs the MIDI it receives.
type monitor struct {
	log contracts.Logger
}

func (m *monitor) Process([]contracts.Frame) {}

func (m *monitor) ProcessMIDI(msg contracts.MIDIMessage) {
	m.log.Info("MIDI Event",
		m.log.Field().String("port", msg.Port.Name),
		m.log.Field().Duration("timestamp", msg.Timestamp),
		m.log.Field().String("message", msg.String()))
}

func main() {
	backend := flag.String("backend", "", "MIDI backend: rtmidi, coremidi or winmm (default: native)")
	watch := flag.Bool("monitor", false, "log incoming MIDI messages until interrupted")
	flag.Parse()

	log := logger.NewZapLogger()
	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithMIDIBackend(contracts.MIDIBackend(*backend)),
	}

	ports, err := shell.ListPorts(opts...)
	if err != nil {
		log.Error("Failed to list MIDI inputs", log.Field().Error("error", err))
		os.Exit(1)
	}
	fmt.Println("MIDI inputs:")
	if len(ports) == 0 {
		fmt.Println("  (none)")
	}
	for _, port := range ports {
		fmt.Printf("  %s\t%s\t%s\n", port.Key(), port.Manufacturer, port.EntityName)
	}

	device, err := shell.DefaultOutputDevice()
	if err != nil {
		log.Error("No audio output device", log.Field().Error("error", err))
	} else {
		fmt.Printf("Audio output:\n  %s (%s) %d channels, %.0f Hz\n",
			device.Name, device.HostAPI, device.MaxOutputChannels, device.DefaultSampleRate)
	}

	if !*watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Capturing MIDI events... Press Ctrl+C to exit.")
	opts = append(opts, contracts.WithMIDIDispatch(contracts.DispatchImmediate))
	if err := shell.Run(ctx, 44100, 0, 64, &monitor{log: log}, opts...); err != nil {
		log.Error("Shell failed", log.Field().Error("error", err))
		os.Exit(1)
	}
}
