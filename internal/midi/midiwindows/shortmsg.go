package midiwindows

import internalmidi "github.com/leandrodaf/audiomidi/internal/midi"

// unpackShortMessage decodes the packed DWORD WinMM delivers with MIM_DATA
// into the raw message bytes.
func unpackShortMessage(packed uint32) []byte {
	status := byte(packed & 0xFF)
	data1 := byte((packed >> 8) & 0xFF)
	data2 := byte((packed >> 16) & 0xFF)

	switch internalmidi.MessageLength(status) {
	case 1:
		return []byte{status}
	case 2:
		return []byte{status, data1}
	default:
		return []byte{status, data1, data2}
	}
}
