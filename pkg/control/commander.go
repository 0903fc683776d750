// Package control turns user commands into RPC calls and mirror commits.
// The Commander is the only writer of the state mirror: a command's state
// change is committed only after the controller confirms it, so the viewer
// never shows a move the robot refused.
package control

import (
	"fmt"
	"sync"

	"github.com/golang/geo/r3"

	"github.com/armlab/go-armview/internal/log"
	"github.com/armlab/go-armview/pkg/kinematics"
	"github.com/armlab/go-armview/pkg/rpcclient"
	"github.com/armlab/go-armview/pkg/state"
)

// StatePublisher receives the confirmed state after each commit. The web
// server implements it to push status updates to viewer clients.
type StatePublisher interface {
	PublishState(state.RobotState)
}

// Commander executes robot commands against the controller and keeps the
// local state mirror in sync.
type Commander struct {
	client    *rpcclient.Client
	mirror    *state.Mirror
	arm       kinematics.Arm
	publisher StatePublisher

	mu        sync.Mutex
	connected bool
}

// NewCommander creates a commander. publisher may be nil.
func NewCommander(client *rpcclient.Client, mirror *state.Mirror, arm kinematics.Arm, publisher StatePublisher) *Commander {
	return &Commander{
		client:    client,
		mirror:    mirror,
		arm:       arm,
		publisher: publisher,
	}
}

// commit writes the confirmed state to the mirror and notifies the
// publisher. Position changes always commit, even with motors disabled;
// the renderer carries the motors-off signal in its colors instead of
// freezing the arm.
func (c *Commander) commit(s state.RobotState) {
	c.mirror.Commit(s)
	if c.publisher != nil {
		c.publisher.PublishState(s)
	}
}

// State returns the latest confirmed state.
func (c *Commander) State() state.RobotState {
	return c.mirror.Current()
}

// Connected reports whether Connect has succeeded.
func (c *Commander) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Login authenticates the stored credentials with the controller.
func (c *Commander) Login() error {
	return c.client.Login()
}

// Connect links the controller to the physical arm.
func (c *Commander) Connect() error {
	if err := c.client.Connect(); err != nil {
		return err
	}
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	log.Component("control").Info("robot connected")
	return nil
}

// Disconnect releases the arm. The controller drops motor power on
// disconnect, so the mirror follows.
func (c *Commander) Disconnect() error {
	if err := c.client.Disconnect(); err != nil {
		return err
	}
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	s := c.mirror.Current()
	s.MotorsEnabled = false
	c.commit(s)
	log.Component("control").Info("robot disconnected")
	return nil
}

// SetMotors powers the motors on or off.
func (c *Commander) SetMotors(enabled bool) error {
	var err error
	if enabled {
		err = c.client.EnableMotors()
	} else {
		err = c.client.DisableMotors()
	}
	if err != nil {
		return err
	}

	s := c.mirror.Current()
	s.MotorsEnabled = enabled
	c.commit(s)
	return nil
}

// SetTool activates or deactivates the end effector.
func (c *Commander) SetTool(active bool) error {
	if err := c.client.SetEffector(active); err != nil {
		return err
	}

	s := c.mirror.Current()
	s.ToolEnabled = active
	c.commit(s)
	return nil
}

// SetCoordMode switches between absolute and relative coordinates.
func (c *Commander) SetCoordMode(mode state.CoordMode) error {
	if err := c.client.SetCoordinateMode(mode == state.CoordAbsolute); err != nil {
		return err
	}

	s := c.mirror.Current()
	s.Coord = mode
	c.commit(s)
	return nil
}

// target resolves a move request against the current coordinate mode.
func (c *Commander) target(x, y, z float64) r3.Vector {
	req := r3.Vector{X: x, Y: y, Z: z}
	if c.mirror.Current().Coord == state.CoordRelative {
		return c.mirror.Current().Position.Add(req)
	}
	return req
}

// Move commands a move at the given speed and commits the new position
// once the controller accepts it.
func (c *Commander) Move(x, y, z, speed float64) error {
	tgt := c.target(x, y, z)
	if err := c.client.Move(tgt.X, tgt.Y, tgt.Z, speed); err != nil {
		return err
	}
	c.commitPosition(tgt)
	return nil
}

// MoveDefaultSpeed commands a move at the controller's default speed.
func (c *Commander) MoveDefaultSpeed(x, y, z float64) error {
	tgt := c.target(x, y, z)
	if err := c.client.MoveDefaultSpeed(tgt.X, tgt.Y, tgt.Z); err != nil {
		return err
	}
	c.commitPosition(tgt)
	return nil
}

// Home sends the arm to its straight-up rest position.
func (c *Commander) Home() error {
	home := c.arm.Home()
	if err := c.client.MoveDefaultSpeed(home.X, home.Y, home.Z); err != nil {
		return err
	}
	c.commitPosition(home)
	return nil
}

func (c *Commander) commitPosition(p r3.Vector) {
	s := c.mirror.Current()
	s.Position = p
	c.commit(s)
	log.Component("control").Debug("position committed", "x", p.X, "y", p.Y, "z", p.Z)
}

// Status queries the controller and reconciles the mirror with its
// answer. The controller's view wins on divergence.
func (c *Commander) Status() (rpcclient.Status, error) {
	st, err := c.client.Status()
	if err != nil {
		return rpcclient.Status{}, err
	}

	s := c.mirror.Current()
	s.MotorsEnabled = st.MotorsEnabled
	if pos, err := st.PositionVector(); err == nil {
		s.Position = pos
	} else {
		log.Component("control").Warn("unparseable controller position", "position", st.Position)
	}
	c.commit(s)
	return st, nil
}

// Describe renders a status reply for terminal display.
func Describe(st rpcclient.Status) string {
	onOff := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	return fmt.Sprintf("connected: %s\nmotors: %s\ncoordinate mode: %s\nactivity: %s\nposition: %s",
		onOff(st.Connected), onOff(st.MotorsEnabled), st.CoordinateMode, st.ActivityState, st.Position)
}
