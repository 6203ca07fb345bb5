package midi_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/leandrodaf/audiomidi/internal/logger"
	"github.com/leandrodaf/audiomidi/internal/midi"
	"github.com/leandrodaf/audiomidi/internal/midi/miditest"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

func noopHandler(contracts.PortInfo, []byte) {}

func TestAccepts(t *testing.T) {
	tests := []struct {
		name   string
		filter *contracts.PortFilter
		port   string
		want   bool
	}{
		{"nil filter", nil, "Midi Through Port-0", true},
		{"excluded", &contracts.PortFilter{Exclude: []string{"through"}}, "Midi Through Port-0", false},
		{"included case-insensitive", &contracts.PortFilter{Include: []string{"launchkey"}}, "Launchkey MK3 MIDI", true},
		{"not included", &contracts.PortFilter{Include: []string{"launchkey"}}, "nanoKONTROL2", false},
		{"exclude wins", &contracts.PortFilter{Include: []string{"Launchkey"}, Exclude: []string{"DAW"}}, "Launchkey DAW In", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := midi.Accepts(tt.filter, tt.port); got != tt.want {
				t.Fatalf("Accepts(%q) = %v, want %v", tt.port, got, tt.want)
			}
		})
	}
}

func TestPortSetSyncOpensAllPorts(t *testing.T) {
	in := miditest.NewInput("Keys", "Pads", "Midi Through")
	set := midi.NewPortSet(in, &contracts.PortFilter{Exclude: []string{"through"}}, noopHandler, logger.NewNopLogger())

	opened, closed, err := set.Sync()
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(opened) != 2 || len(closed) != 0 {
		t.Fatalf("opened %v closed %v", opened, closed)
	}
	ports := set.Ports()
	if ports[0].Name != "Keys" || ports[1].Name != "Pads" {
		t.Fatalf("unexpected ports %v", ports)
	}
	if in.IsOpen("Midi Through") {
		t.Fatal("excluded port was opened")
	}
}

func TestPortSetSkipsFailingPort(t *testing.T) {
	in := miditest.NewInput("Broken", "Keys")
	in.FailOpen("Broken", errors.New("busy"))
	set := midi.NewPortSet(in, nil, noopHandler, logger.NewNopLogger())

	if _, _, err := set.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if set.Len() != 1 || !in.IsOpen("Keys") {
		t.Fatalf("expected only Keys open, got %v", set.Ports())
	}

	in.FailOpen("Broken", nil)
	opened, _, _ := set.Sync()
	if len(opened) != 1 || opened[0].Name != "Broken" {
		t.Fatalf("failed port not retried: %v", opened)
	}
}

func TestPortSetNoDevices(t *testing.T) {
	set := midi.NewPortSet(miditest.NewInput(), nil, noopHandler, logger.NewNopLogger())
	if _, _, err := set.Sync(); err != nil {
		t.Fatalf("no devices must not be an error: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected no ports, got %d", set.Len())
	}
}

func TestPortSetListError(t *testing.T) {
	in := miditest.NewInput("Keys")
	in.FailList(errors.New("driver gone"))
	set := midi.NewPortSet(in, nil, noopHandler, logger.NewNopLogger())
	if _, _, err := set.Sync(); err == nil {
		t.Fatal("expected list error")
	}
}

func TestPortSetHotPlug(t *testing.T) {
	in := miditest.NewInput("Keys")
	set := midi.NewPortSet(in, nil, noopHandler, logger.NewNopLogger())
	set.Sync()

	in.RemovePort("Keys")
	in.AddPort("Pads")
	opened, closed, err := set.Sync()
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(opened) != 1 || opened[0].Name != "Pads" {
		t.Fatalf("opened = %v", opened)
	}
	if len(closed) != 1 || closed[0].Name != "Keys" {
		t.Fatalf("closed = %v", closed)
	}
	if in.IsOpen("Keys") {
		t.Fatal("vanished port still open on backend")
	}
}

func TestPortSetWatch(t *testing.T) {
	in := miditest.NewInput()
	set := midi.NewPortSet(in, nil, noopHandler, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		set.Watch(ctx, 5*time.Millisecond)
		close(done)
	}()

	in.AddPort("Late Keys")
	deadline := time.After(2 * time.Second)
	for !in.IsOpen("Late Keys") {
		select {
		case <-deadline:
			t.Fatal("watcher did not open the new port")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestPortSetClose(t *testing.T) {
	in := miditest.NewInput("Keys")
	set := midi.NewPortSet(in, nil, noopHandler, logger.NewNopLogger())
	set.Sync()

	if err := set.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !in.Closed() || set.Len() != 0 {
		t.Fatal("backend not closed")
	}
	if err := set.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if opened, _, _ := set.Sync(); len(opened) != 0 {
		t.Fatal("Sync after Close opened ports")
	}
}

func TestPortSetOpensIdenticallyNamedPorts(t *testing.T) {
	in := miditest.NewInput("USB MIDI Interface", "USB MIDI Interface")
	var (
		mu  sync.Mutex
		got []contracts.PortInfo
	)
	handler := func(port contracts.PortInfo, _ []byte) {
		mu.Lock()
		got = append(got, port)
		mu.Unlock()
	}
	set := midi.NewPortSet(in, nil, handler, logger.NewNopLogger())

	opened, _, err := set.Sync()
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(opened) != 2 || set.Len() != 2 {
		t.Fatalf("opened %v, want both ports", opened)
	}
	if !in.IsOpen("USB MIDI Interface") || !in.IsOpen("USB MIDI Interface #2") {
		t.Fatal("backend did not open both ports")
	}

	in.Send("USB MIDI Interface", 0x90, 60, 100)
	in.Send("USB MIDI Interface #2", 0x90, 62, 100)
	if len(got) != 2 || got[0].ID != 0 || got[1].ID != 1 {
		t.Fatalf("messages attributed to %+v", got)
	}

	if opened, closed, _ := set.Sync(); len(opened) != 0 || len(closed) != 0 {
		t.Fatalf("stable ports churned: opened %v closed %v", opened, closed)
	}
}

func TestPortSetRenumbersAfterUnplug(t *testing.T) {
	in := miditest.NewInput("USB MIDI Interface", "USB MIDI Interface", "Keys")
	set := midi.NewPortSet(in, nil, noopHandler, logger.NewNopLogger())
	set.Sync()

	// Unplugging the first interface makes the second one the plain name.
	in.RemovePort("USB MIDI Interface")
	opened, closed, err := set.Sync()
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(closed) != 2 {
		t.Fatalf("closed = %v, want both interface keys", closed)
	}
	if len(opened) != 1 || opened[0].ID != 1 || opened[0].Key() != "USB MIDI Interface" {
		t.Fatalf("opened = %+v, want the remaining interface", opened)
	}
	if set.Len() != 2 || !in.IsOpen("Keys") || in.IsOpen("USB MIDI Interface #2") {
		t.Fatalf("ports = %v", set.Ports())
	}
}
