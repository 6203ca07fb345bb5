package main

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
	"github.com/leandrodaf/audiomidi/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

const (
	noNote   = -1
	headroom = 0.5
	toneQ    = math.Sqrt2 / 2
)

// SineSynth is a monophonic synthesizer playing a sine wave for the last
// received note, followed by a lowpass tone filter.
type SineSynth struct {
	sampleRate float64
	level      float64
	phase      float64
	phaseInc   float64
	note       int
	tone       *biquad.Section
	scratch    []float64
}

// NewSineSynth returns a silent synth whose tone filter cuts off at cutoff Hz.
func NewSineSynth(sampleRate, cutoff float64) *SineSynth {
	return &SineSynth{
		sampleRate: sampleRate,
		note:       noNote,
		tone:       biquad.NewSection(design.Lowpass(cutoff, toneQ, sampleRate)),
	}
}

// Init sizes the scratch buffer for the chunk size.
func (s *SineSynth) Init(chunkSize int) {
	s.scratch = make([]float64, chunkSize)
}

// Process renders one chunk, identical on both channels.
func (s *SineSynth) Process(frames []contracts.Frame) {
	if len(s.scratch) != len(frames) {
		s.scratch = make([]float64, len(frames))
	}

	for i := range s.scratch {
		s.scratch[i] = math.Sin(s.phase) * s.level * headroom
		s.phase += s.phaseInc
		if s.phase > 2*math.Pi {
			s.phase -= 2 * math.Pi
		}
	}
	s.tone.ProcessBlock(s.scratch)

	for i, v := range s.scratch {
		frames[i] = contracts.Frame{float32(v), float32(v)}
	}
}

// ProcessMIDI starts a note on note-on and silences it on the matching note-off.
func (s *SineSynth) ProcessMIDI(msg contracts.MIDIMessage) {
	var channel, key, velocity uint8
	m := midi.Message(msg.Data)
	switch {
	case m.GetNoteStart(&channel, &key, &velocity):
		s.note = int(key)
		s.level = float64(velocity) / 127
		s.phaseInc = noteFrequency(key) / s.sampleRate * 2 * math.Pi
	case m.GetNoteEnd(&channel, &key):
		if int(key) == s.note {
			s.note = noNote
			s.level = 0
		}
	}
}

// noteFrequency returns the equal-tempered frequency of a MIDI key, A4 = 440 Hz.
func noteFrequency(key uint8) float64 {
	return 440 * math.Pow(2, (float64(key)-69)/12)
}
