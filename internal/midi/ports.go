package midi

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/leandrodaf/audiomidi/sdk/contracts"
)

// PortSet tracks the input ports opened on a backend. Ports are identified
// by PortInfo.Key, since backend indices shift when devices come and go.
type PortSet struct {
	mu      sync.Mutex
	input   contracts.MIDIInput
	filter  *contracts.PortFilter
	handler contracts.MIDIHandler
	logger  contracts.Logger
	open    map[string]contracts.PortInfo
	closed  bool
}

// NewPortSet creates an empty set; call Sync to connect ports.
func NewPortSet(input contracts.MIDIInput, filter *contracts.PortFilter, handler contracts.MIDIHandler, logger contracts.Logger) *PortSet {
	return &PortSet{
		input:   input,
		filter:  filter,
		handler: handler,
		logger:  logger,
		open:    make(map[string]contracts.PortInfo),
	}
}

// Sync lists the backend's ports, opens those that appeared and pass the
// filter, and closes those that vanished. A port that fails to open is logged
// and retried on the next Sync. When one of several identically named ports
// vanishes the keys of the others shift, so the whole group is closed and
// reopened.
func (s *PortSet) Sync() (opened, closed []contracts.PortInfo, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil, nil
	}

	ports, err := s.input.ListPorts()
	if err != nil && !errors.Is(err, ErrNoMIDIDevices) {
		return nil, nil, err
	}
	IndexDuplicates(ports)

	present := make(map[string]bool, len(ports))
	for _, port := range ports {
		present[port.Key()] = true
	}
	regrouped := make(map[string]bool)
	for key, port := range s.open {
		if !present[key] {
			regrouped[port.Name] = true
		}
	}
	for key, port := range s.open {
		if !regrouped[port.Name] {
			continue
		}
		if present[key] {
			s.logger.Debug("Reopening renumbered MIDI input", s.logger.Field().String("port", key))
		} else {
			s.logger.Warn("MIDI input disappeared", s.logger.Field().String("port", key))
		}
		if err := s.input.ClosePort(port); err != nil {
			s.logger.Debug("Closing MIDI input failed",
				s.logger.Field().String("port", key),
				s.logger.Field().Error("error", err))
		}
		delete(s.open, key)
		closed = append(closed, port)
	}

	for _, port := range ports {
		key := port.Key()
		if _, ok := s.open[key]; ok {
			continue
		}
		if !Accepts(s.filter, port.Name) {
			s.logger.Debug("MIDI input excluded", s.logger.Field().String("port", key))
			continue
		}
		if err := s.input.OpenPort(port, s.handler); err != nil {
			s.logger.Error("Failed to open MIDI input",
				s.logger.Field().String("port", key),
				s.logger.Field().Error("error", err))
			continue
		}
		s.logger.Info("Connected to MIDI input",
			s.logger.Field().String("port", key),
			s.logger.Field().Int("id", port.ID))
		s.open[key] = port
		opened = append(opened, port)
	}

	return opened, closed, nil
}

// Watch calls Sync every interval until ctx is done.
func (s *PortSet) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, _, err := s.Sync(); err != nil {
				s.logger.Error("MIDI rescan failed", s.logger.Field().Error("error", err))
			}
		}
	}
}

// Ports returns the open ports sorted by key.
func (s *PortSet) Ports() []contracts.PortInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	ports := make([]contracts.PortInfo, 0, len(s.open))
	for _, port := range s.open {
		ports = append(ports, port)
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i].Key() < ports[j].Key() })
	return ports
}

// Len returns the number of open ports.
func (s *PortSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}

// Close closes every port and the backend. Later Syncs are no-ops.
func (s *PortSet) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	clear(s.open)
	return s.input.Close()
}
