package audio

import "github.com/leandrodaf/audiomidi/sdk/contracts"

// Chunker decouples the device buffer size from the chunk size handed to the
// generator. It keeps one chunk of frames and refills it whenever the device
// has consumed all of it, so the generator always sees full chunks.
type Chunker struct {
	chunk []contracts.Frame
	pos   int
	next  func(chunk []contracts.Frame)
}

// NewChunker returns a chunker producing chunks of size frames through next.
// next receives a zeroed chunk and must fill it in place.
func NewChunker(size int, next func(chunk []contracts.Frame)) *Chunker {
	return &Chunker{
		chunk: make([]contracts.Frame, size),
		pos:   size,
		next:  next,
	}
}

// Size returns the chunk size in frames.
func (c *Chunker) Size() int {
	return len(c.chunk)
}

// Render fills an interleaved stereo buffer. A trailing partial frame is
// written as silence.
func (c *Chunker) Render(out []float32) {
	frames := len(out) / contracts.Channels
	for i := 0; i < frames; {
		if c.pos == len(c.chunk) {
			clear(c.chunk)
			c.next(c.chunk)
			c.pos = 0
		}

		n := min(frames-i, len(c.chunk)-c.pos)
		for _, frame := range c.chunk[c.pos : c.pos+n] {
			out[i*contracts.Channels] = frame[0]
			out[i*contracts.Channels+1] = frame[1]
			i++
		}
		c.pos += n
	}
	clear(out[frames*contracts.Channels:])
}
