package state

import "sync"

// Mirror is the single source of truth for "what the robot last reported".
// Only confirmed transport results reach Commit; a failed call performs no
// mutation, leaving the mirror stale but consistent.
type Mirror struct {
	mu      sync.RWMutex
	current RobotState
	prev    RobotState

	bridge *Bridge
}

// NewMirror creates a mirror that publishes every commit to bridge.
// A nil bridge is allowed for tests that only care about the snapshot.
func NewMirror(bridge *Bridge) *Mirror {
	return &Mirror{bridge: bridge}
}

// Commit replaces the current state unconditionally, records the previous
// one for diffing, and publishes the new state to the bridge.
func (m *Mirror) Commit(s RobotState) {
	m.mu.Lock()
	m.prev = m.current
	m.current = s
	m.mu.Unlock()

	if m.bridge != nil {
		m.bridge.Publish(s)
	}
}

// Current returns the latest committed state. Never blocks on I/O.
func (m *Mirror) Current() RobotState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Previous returns the state committed before the current one.
func (m *Mirror) Previous() RobotState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prev
}
