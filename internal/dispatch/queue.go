// Package dispatch moves MIDI messages from driver goroutines to the audio goroutine.
package dispatch

import (
	"sync/atomic"
	"time"

	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

// DefaultQueueSize is the queue capacity used when none is configured.
const DefaultQueueSize = 1024

// Queue is a bounded FIFO of MIDI messages. Push never blocks: when the queue
// is full the message is dropped and counted.
type Queue struct {
	events  chan contracts.MIDIMessage
	dropped atomic.Uint64
}

// NewQueue returns a queue holding at most size messages.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{events: make(chan contracts.MIDIMessage, size)}
}

// Push enqueues msg and reports whether it was accepted.
func (q *Queue) Push(msg contracts.MIDIMessage) bool {
	select {
	case q.events <- msg:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Drain delivers the messages queued at call time to fn, oldest first, and
// returns how many were delivered. Messages pushed during the drain wait for
// the next call.
func (q *Queue) Drain(fn func(contracts.MIDIMessage)) int {
	n := len(q.events)
	for i := 0; i < n; i++ {
		fn(<-q.events)
	}
	return n
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	return len(q.events)
}

// Dropped returns the number of messages rejected because the queue was full.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}

// Clock produces monotonic timestamps relative to its creation.
type Clock struct {
	start time.Time
}

// NewClock starts a clock at the current instant.
func NewClock() Clock {
	return Clock{start: time.Now()}
}

// Since returns the monotonic time elapsed since the clock started.
func (c Clock) Since() time.Duration {
	return time.Since(c.start)
}
