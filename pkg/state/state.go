// Package state holds the viewer's belief about the remote robot: the last
// confirmed RobotState, and the handoff of that state from the control
// goroutine to the render goroutine.
//
// Values here are immutable snapshots. A new RobotState replaces the old one
// on every confirmed transport result; nothing in this package talks to the
// network.
package state

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
)

// ControlMode is the robot's command source mode.
type ControlMode int

const (
	ControlManual ControlMode = iota
	ControlAutomatic
)

// String returns the mode name as reported by the server.
func (m ControlMode) String() string {
	if m == ControlAutomatic {
		return "AUTOMATIC"
	}
	return "MANUAL"
}

// CoordMode is the robot's coordinate interpretation mode.
type CoordMode int

const (
	CoordAbsolute CoordMode = iota
	CoordRelative
)

// String returns the mode name as reported by the server.
func (m CoordMode) String() string {
	if m == CoordRelative {
		return "RELATIVE"
	}
	return "ABSOLUTE"
}

// ParseCoordMode maps a server-reported mode string to a CoordMode.
func ParseCoordMode(s string) (CoordMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ABSOLUTE":
		return CoordAbsolute, nil
	case "RELATIVE":
		return CoordRelative, nil
	default:
		return CoordAbsolute, fmt.Errorf("unknown coordinate mode %q", s)
	}
}

// ParseControlMode maps a server-reported mode string to a ControlMode.
func ParseControlMode(s string) (ControlMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MANUAL":
		return ControlManual, nil
	case "AUTOMATIC", "AUTO":
		return ControlAutomatic, nil
	default:
		return ControlManual, fmt.Errorf("unknown control mode %q", s)
	}
}

// RobotState is a confirmed snapshot of the remote robot's reported
// condition. Treat it as a value: replace, never mutate.
type RobotState struct {
	Position      r3.Vector
	MotorsEnabled bool
	ToolEnabled   bool
	Control       ControlMode
	Coord         CoordMode
}

// String formats the state the way the robot server reports positions.
func (s RobotState) String() string {
	return fmt.Sprintf("X:%.2f Y:%.2f Z:%.2f motors=%t tool=%t %s/%s",
		s.Position.X, s.Position.Y, s.Position.Z,
		s.MotorsEnabled, s.ToolEnabled, s.Control, s.Coord)
}

// SharedTarget is the bridge payload: a committed state plus a monotonically
// increasing sequence number so the reader can detect arrival order without
// locking out the writer.
type SharedTarget struct {
	Seq   uint64
	State RobotState
}
