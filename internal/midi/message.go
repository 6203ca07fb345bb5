package midi

import (
	"bytes"

	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

// IndexDuplicates numbers the ports sharing a name in listing order, so each
// port of ports gets a distinct Key.
func IndexDuplicates(ports []contracts.PortInfo) {
	seen := make(map[string]int, len(ports))
	for i := range ports {
		ports[i].Index = seen[ports[i].Name]
		seen[ports[i].Name]++
	}
}

// NthMatch returns the position in names of the index-th entry equal to
// name, or -1 if there are not that many.
func NthMatch(names []string, name string, index int) int {
	for i, n := range names {
		if n != name {
			continue
		}
		if index == 0 {
			return i
		}
		index--
	}
	return -1
}

// MessageLength returns the length in bytes of a message starting with
// status. System exclusive messages have no fixed length and report 1.
func MessageLength(status byte) int {
	switch {
	case status >= 0xF8, status == 0xF6, status == 0xF0, status == 0xF7:
		return 1
	case status == 0xF1, status == 0xF3:
		return 2
	case status == 0xF2:
		return 3
	}
	switch status & 0xF0 {
	case 0xC0, 0xD0:
		return 2
	}
	return 3
}

// SplitPacket calls yield once per complete message in a packet that may
// carry several. System exclusive runs through the closing 0xF7 are passed
// whole, and data bytes under running status get their status byte back.
// Truncated messages and stray data bytes are dropped.
func SplitPacket(data []byte, yield func(msg []byte)) {
	var running byte
	for i := 0; i < len(data); {
		status := data[i]
		switch {
		case status == 0xF0:
			end := bytes.IndexByte(data[i:], 0xF7)
			if end < 0 {
				yield(data[i:])
				return
			}
			yield(data[i : i+end+1])
			i += end + 1

		case status < 0x80:
			if running == 0 {
				i++
				continue
			}
			n := MessageLength(running) - 1
			if i+n > len(data) {
				return
			}
			msg := make([]byte, 0, n+1)
			yield(append(append(msg, running), data[i:i+n]...))
			i += n

		default:
			n := MessageLength(status)
			if i+n > len(data) {
				return
			}
			switch {
			case status < 0xF0:
				running = status
			case status < 0xF8:
				running = 0
			}
			yield(data[i : i+n])
			i += n
		}
	}
}
