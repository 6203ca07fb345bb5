package main

import (
	"math"
	"testing"

	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

const testRate = 44100

func render(s *SineSynth, chunks, size int) (peak float32) {
	frames := make([]contracts.Frame, size)
	for c := 0; c < chunks; c++ {
		clear(frames)
		s.Process(frames)
		for _, f := range frames {
			if f[0] != f[1] {
				panic("channels differ")
			}
			peak = max(peak, float32(math.Abs(float64(f[0]))))
		}
	}
	return peak
}

func TestNoteFrequency(t *testing.T) {
	tests := []struct {
		key  uint8
		want float64
	}{
		{69, 440},
		{81, 880},
		{57, 220},
		{60, 261.6256},
	}
	for _, tt := range tests {
		if got := noteFrequency(tt.key); math.Abs(got-tt.want) > 1e-3 {
			t.Errorf("noteFrequency(%d) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestSineSynthSilentWithoutNotes(t *testing.T) {
	s := NewSineSynth(testRate, 8000)
	s.Init(16)
	if peak := render(s, 32, 16); peak != 0 {
		t.Fatalf("peak = %v, want silence", peak)
	}
}

func TestSineSynthPlaysNote(t *testing.T) {
	s := NewSineSynth(testRate, 8000)
	s.Init(16)
	s.ProcessMIDI(contracts.MIDIMessage{Data: []byte{0x90, 69, 127}})

	peak := render(s, 200, 16)
	if peak < 0.45 || peak > 0.55 {
		t.Fatalf("peak = %v, want about %v", peak, headroom)
	}
}

func TestSineSynthNoteOff(t *testing.T) {
	s := NewSineSynth(testRate, 8000)
	s.Init(16)
	s.ProcessMIDI(contracts.MIDIMessage{Data: []byte{0x90, 60, 100}})
	render(s, 10, 16)

	s.ProcessMIDI(contracts.MIDIMessage{Data: []byte{0x80, 72, 0}})
	if s.level == 0 {
		t.Fatal("note-off for another key silenced the voice")
	}

	s.ProcessMIDI(contracts.MIDIMessage{Data: []byte{0x90, 60, 0}})
	render(s, 20, 16)
	if peak := render(s, 4, 16); peak > 1e-3 {
		t.Fatalf("tail peak = %v after note-off", peak)
	}
}

func TestSineSynthIgnoresOtherMessages(t *testing.T) {
	s := NewSineSynth(testRate, 8000)
	s.ProcessMIDI(contracts.MIDIMessage{Data: []byte{0xB0, 7, 100}})
	s.ProcessMIDI(contracts.MIDIMessage{Data: []byte{0xF8}})
	if s.level != 0 || s.note != noNote {
		t.Fatalf("state changed: level %v note %d", s.level, s.note)
	}
}
