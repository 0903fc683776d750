package rpcclient

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Status is the controller's robot.getStatus reply.
type Status struct {
	Connected      bool   `xmlrpc:"isConnected"`
	MotorsEnabled  bool   `xmlrpc:"areMotorsEnabled"`
	CoordinateMode string `xmlrpc:"coordinateMode"`
	ActivityState  string `xmlrpc:"activityState"`
	Position       string `xmlrpc:"position"`
}

// ParsePosition decodes the controller's position string, which has the
// form "X:0.00 Y:0.00 Z:0.00".
func ParsePosition(s string) (r3.Vector, error) {
	var v r3.Vector
	n, err := fmt.Sscanf(s, "X:%f Y:%f Z:%f", &v.X, &v.Y, &v.Z)
	if err != nil || n != 3 {
		return r3.Vector{}, fmt.Errorf("malformed position string %q", s)
	}
	return v, nil
}

// PositionVector parses the status position string.
func (s Status) PositionVector() (r3.Vector, error) {
	return ParsePosition(s.Position)
}
