package contracts

// Frame is one stereo sample pair: index 0 is the left channel, index 1 the right.
type Frame [2]float32

// Channels is the number of output channels the shell opens on the device.
const Channels = len(Frame{})

// AudioGenerator produces audio for the shell.
//
// Process is invoked once per chunk with a buffer of exactly the chunk size
// configured on the shell. The buffer is zeroed before every call and must not
// be retained after Process returns.
type AudioGenerator interface {
	Process(frames []Frame)
}

// Initializer is implemented by generators that need the chunk size before
// audio starts. Init is invoked at most once, before the first Process call.
type Initializer interface {
	Init(chunkSize int)
}

// MIDIProcessor is implemented by generators that consume MIDI input.
// The message data is owned by the generator once delivered.
type MIDIProcessor interface {
	ProcessMIDI(msg MIDIMessage)
}

// SplitGenerator is the split-channel variant of AudioGenerator. Both slices
// have the chunk size as length and are zeroed before each call.
type SplitGenerator interface {
	Process(left, right []float32)
}
