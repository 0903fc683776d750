package control

import (
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armlab/go-armview/pkg/kinematics"
	"github.com/armlab/go-armview/pkg/rpcclient"
	"github.com/armlab/go-armview/pkg/state"
)

var testArm = kinematics.Arm{BaseHeight: 2.0, LowerLen: 6.0, UpperLen: 5.5, EffectorLen: 1.8}

// acceptAll answers every RPC with success.
type acceptAll struct {
	calls []string
}

func (a *acceptAll) Call(method string, args interface{}, reply interface{}) error {
	a.calls = append(a.calls, method)
	switch r := reply.(type) {
	case *bool:
		*r = true
	case *rpcclient.AuthResult:
		*r = rpcclient.AuthResult{Authenticated: true}
	case *rpcclient.Status:
		*r = rpcclient.Status{
			Connected:     true,
			MotorsEnabled: true,
			Position:      "X:1.00 Y:2.00 Z:3.00",
		}
	}
	return nil
}

// rejectAll fails every RPC at the transport level.
type rejectAll struct{}

func (rejectAll) Call(string, interface{}, interface{}) error {
	return errors.New("connection refused")
}

// publishRecorder captures PublishState calls.
type publishRecorder struct {
	states []state.RobotState
}

func (p *publishRecorder) PublishState(s state.RobotState) {
	p.states = append(p.states, s)
}

func newTestCommander(caller rpcclient.Caller) (*Commander, *state.Mirror) {
	mirror := state.NewMirror(state.NewBridge())
	client := rpcclient.NewWithCaller(caller, rpcclient.Credentials{User: "u", Pass: "p"})
	return NewCommander(client, mirror, testArm, nil), mirror
}

func TestMove_CommitsOnSuccess(t *testing.T) {
	cmd, mirror := newTestCommander(&acceptAll{})

	require.NoError(t, cmd.MoveDefaultSpeed(5, 8, 5))
	assert.Equal(t, r3.Vector{X: 5, Y: 8, Z: 5}, mirror.Current().Position)
}

func TestMove_NoCommitOnTransportFailure(t *testing.T) {
	cmd, mirror := newTestCommander(rejectAll{})

	before := mirror.Current()
	require.Error(t, cmd.MoveDefaultSpeed(5, 8, 5))
	assert.Equal(t, before, mirror.Current(), "failed move must not change the mirror")
}

func TestMove_RelativeModeAddsToCurrent(t *testing.T) {
	cmd, mirror := newTestCommander(&acceptAll{})

	require.NoError(t, cmd.MoveDefaultSpeed(5, 8, 5))
	require.NoError(t, cmd.SetCoordMode(state.CoordRelative))
	require.NoError(t, cmd.MoveDefaultSpeed(1, -2, 3))

	assert.Equal(t, r3.Vector{X: 6, Y: 6, Z: 8}, mirror.Current().Position)
}

func TestMove_RelativeSendsAbsoluteTarget(t *testing.T) {
	caller := &acceptAll{}
	cmd, _ := newTestCommander(caller)

	require.NoError(t, cmd.MoveDefaultSpeed(5, 8, 5))
	require.NoError(t, cmd.SetCoordMode(state.CoordRelative))

	// The commander resolves relative requests itself, so the viewer's
	// mirror and the controller agree on the end position.
	require.NoError(t, cmd.Move(1, 0, 0, 0.5))
	assert.Equal(t, "robot.move", caller.calls[len(caller.calls)-1])
}

func TestSetMotors(t *testing.T) {
	cmd, mirror := newTestCommander(&acceptAll{})

	require.NoError(t, cmd.SetMotors(true))
	assert.True(t, mirror.Current().MotorsEnabled)

	require.NoError(t, cmd.SetMotors(false))
	assert.False(t, mirror.Current().MotorsEnabled)
}

func TestMove_MotorsOffStillCommits(t *testing.T) {
	cmd, mirror := newTestCommander(&acceptAll{})

	require.NoError(t, cmd.SetMotors(false))
	require.NoError(t, cmd.MoveDefaultSpeed(3, 9, 1))

	got := mirror.Current()
	assert.Equal(t, r3.Vector{X: 3, Y: 9, Z: 1}, got.Position)
	assert.False(t, got.MotorsEnabled)
}

func TestDisconnect_DropsMotors(t *testing.T) {
	cmd, mirror := newTestCommander(&acceptAll{})

	require.NoError(t, cmd.Connect())
	require.NoError(t, cmd.SetMotors(true))
	require.NoError(t, cmd.Disconnect())

	assert.False(t, cmd.Connected())
	assert.False(t, mirror.Current().MotorsEnabled)
}

func TestHome(t *testing.T) {
	cmd, mirror := newTestCommander(&acceptAll{})

	require.NoError(t, cmd.MoveDefaultSpeed(5, 8, 5))
	require.NoError(t, cmd.Home())

	assert.Equal(t, testArm.Home(), mirror.Current().Position)
}

func TestStatus_ReconcilesMirror(t *testing.T) {
	cmd, mirror := newTestCommander(&acceptAll{})

	st, err := cmd.Status()
	require.NoError(t, err)
	assert.True(t, st.Connected)

	got := mirror.Current()
	assert.True(t, got.MotorsEnabled)
	assert.Equal(t, r3.Vector{X: 1, Y: 2, Z: 3}, got.Position)
}

func TestCommit_NotifiesPublisher(t *testing.T) {
	rec := &publishRecorder{}
	mirror := state.NewMirror(state.NewBridge())
	client := rpcclient.NewWithCaller(&acceptAll{}, rpcclient.Credentials{User: "u", Pass: "p"})
	cmd := NewCommander(client, mirror, testArm, rec)

	require.NoError(t, cmd.SetTool(true))
	require.Len(t, rec.states, 1)
	assert.True(t, rec.states[0].ToolEnabled)
}
