// Package midi keeps the set of MIDI input ports a shell is connected to.
package midi

import (
	"strings"

	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

// Accepts reports whether a port name passes the filter. A nil filter accepts
// every port.
func Accepts(filter *contracts.PortFilter, name string) bool {
	if filter == nil {
		return true
	}
	for _, pat := range filter.Exclude {
		if containsCI(name, pat) {
			return false
		}
	}
	if len(filter.Include) == 0 {
		return true
	}
	for _, pat := range filter.Include {
		if containsCI(name, pat) {
			return true
		}
	}
	return false
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
