package shell

import "github.com/leandrodaf/audiomidi/sdk/contracts"

// splitAdapter presents a SplitGenerator as an AudioGenerator.
type splitAdapter struct {
	gen         contracts.SplitGenerator
	left, right []float32
}

// Split adapts a generator that fills separate left and right buffers. Init
// and ProcessMIDI are forwarded when the wrapped generator implements them.
func Split(gen contracts.SplitGenerator) contracts.AudioGenerator {
	return &splitAdapter{gen: gen}
}

func (a *splitAdapter) Init(chunkSize int) {
	a.left = make([]float32, chunkSize)
	a.right = make([]float32, chunkSize)
	if initializer, ok := a.gen.(contracts.Initializer); ok {
		initializer.Init(chunkSize)
	}
}

func (a *splitAdapter) Process(frames []contracts.Frame) {
	if len(a.left) != len(frames) {
		a.left = make([]float32, len(frames))
		a.right = make([]float32, len(frames))
	} else {
		clear(a.left)
		clear(a.right)
	}

	a.gen.Process(a.left, a.right)
	for i := range frames {
		frames[i] = contracts.Frame{a.left[i], a.right[i]}
	}
}

func (a *splitAdapter) ProcessMIDI(msg contracts.MIDIMessage) {
	if processor, ok := a.gen.(contracts.MIDIProcessor); ok {
		processor.ProcessMIDI(msg)
	}
}
