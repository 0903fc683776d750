// Package rpcclient implements the XML-RPC client for the robot arm
// controller. The controller is sessionless: credentials travel on every
// call rather than in a token.
package rpcclient

import (
	"fmt"
	"time"

	"github.com/kolo/xmlrpc"

	"github.com/armlab/go-armview/internal/httpc"
)

// Caller abstracts the XML-RPC transport so commands can run against an
// in-memory controller in tests and demos. *xmlrpc.Client satisfies it.
type Caller interface {
	Call(serviceMethod string, args interface{}, reply interface{}) error
}

// Credentials are sent with every RPC call.
type Credentials struct {
	User string
	Pass string
}

// AuthResult is the controller's response to robot.authenticate.
type AuthResult struct {
	Authenticated bool `xmlrpc:"authenticated"`
	Role          int  `xmlrpc:"role"`
}

// Roles returned by robot.authenticate.
const (
	RoleOperator = 0
	RoleAdmin    = 1
)

// Client wraps the robot controller's XML-RPC surface.
type Client struct {
	caller Caller
	creds  Credentials
	role   int
}

// New creates a client for the controller at endpoint, e.g.
// "http://127.0.0.1:8000/RPC2". timeout bounds how long a call may wait on
// the controller's response headers; zero keeps the transport defaults.
func New(endpoint string, creds Credentials, timeout time.Duration) (*Client, error) {
	tr := httpc.NewTransport()
	if timeout > 0 {
		tr.ResponseHeaderTimeout = timeout
	}
	c, err := xmlrpc.NewClient(endpoint, tr)
	if err != nil {
		return nil, fmt.Errorf("failed to create rpc client for %s: %w", endpoint, err)
	}
	return &Client{caller: c, creds: creds}, nil
}

// NewWithCaller creates a client over a custom transport.
func NewWithCaller(caller Caller, creds Credentials) *Client {
	return &Client{caller: caller, creds: creds}
}

// Role returns the role granted by the last successful Login.
func (c *Client) Role() int {
	return c.role
}

// args prepends the credentials, which the controller expects as the
// first two parameters of every method.
func (c *Client) args(rest ...interface{}) []interface{} {
	out := make([]interface{}, 0, 2+len(rest))
	out = append(out, c.creds.User, c.creds.Pass)
	return append(out, rest...)
}

// callOK invokes a method whose reply is a bare boolean success flag.
func (c *Client) callOK(method string, rest ...interface{}) error {
	var ok bool
	if err := c.caller.Call(method, c.args(rest...), &ok); err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	if !ok {
		return fmt.Errorf("%s rejected by controller", method)
	}
	return nil
}

// Login verifies the stored credentials via robot.authenticate and
// records the granted role.
func (c *Client) Login() error {
	var res AuthResult
	if err := c.caller.Call("robot.authenticate", c.args(), &res); err != nil {
		return fmt.Errorf("authenticate failed: %w", err)
	}
	if !res.Authenticated {
		return fmt.Errorf("authentication rejected for user %q", c.creds.User)
	}
	c.role = res.Role
	return nil
}

// Connect establishes the controller's link to the physical arm.
func (c *Client) Connect() error {
	return c.callOK("robot.connect")
}

// Disconnect releases the controller's link to the arm. The controller
// disables motors as a side effect.
func (c *Client) Disconnect() error {
	return c.callOK("robot.disconnect")
}

// EnableMotors powers the arm's motors.
func (c *Client) EnableMotors() error {
	return c.callOK("robot.enableMotors")
}

// DisableMotors cuts power to the arm's motors.
func (c *Client) DisableMotors() error {
	return c.callOK("robot.disableMotors")
}

// SetEffector activates or deactivates the end effector.
func (c *Client) SetEffector(active bool) error {
	return c.callOK("robot.setEffector", active)
}

// SetCoordinateMode switches the controller between absolute (true) and
// relative (false) coordinate interpretation.
func (c *Client) SetCoordinateMode(absolute bool) error {
	return c.callOK("robot.setCoordinateMode", absolute)
}

// Move commands a move to (x, y, z) at the given speed.
func (c *Client) Move(x, y, z, speed float64) error {
	return c.callOK("robot.move", x, y, z, speed)
}

// MoveDefaultSpeed commands a move at the controller's default speed.
func (c *Client) MoveDefaultSpeed(x, y, z float64) error {
	return c.callOK("robot.moveDefaultSpeed", x, y, z)
}

// Status fetches the controller's view of the arm.
func (c *Client) Status() (Status, error) {
	var st Status
	if err := c.caller.Call("robot.getStatus", c.args(), &st); err != nil {
		return Status{}, fmt.Errorf("getStatus failed: %w", err)
	}
	return st, nil
}
