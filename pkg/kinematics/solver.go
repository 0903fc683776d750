// Package kinematics maps Cartesian targets to joint angles for rendering.
//
// The model is a deliberate approximation: a rotating base plus a two-link
// planar arm solved in closed form with the law of cosines. It is meant to
// keep the on-screen arm plausible and continuous, not to match the physical
// robot's real inverse kinematics. Out-of-reach targets are clamped onto the
// reach boundary along the same direction, so solving always yields a
// renderable pose.
package kinematics

import (
	"math"

	"github.com/golang/geo/r3"
)

// Arm describes the kinematic dimensions of the rendered arm. The world frame
// is Y-up: X right, Z depth, with the base at the origin.
type Arm struct {
	BaseHeight  float64
	LowerLen    float64
	UpperLen    float64
	EffectorLen float64
}

// Pose is a render-ready set of joint angles, all in radians.
//
// BaseYaw rotates the arm plane around the vertical axis. Shoulder is the
// lower arm's elevation from horizontal inside that plane. Elbow is the upper
// arm's bend relative to the lower arm (0 = fully extended).
type Pose struct {
	BaseYaw  float64
	Shoulder float64
	Elbow    float64
}

// foldedPose is returned for targets at or near the base axis, where the
// base yaw is undefined. A fixed tucked pose avoids a numeric fault and a
// wildly spinning base.
var foldedPose = Pose{BaseYaw: 0, Shoulder: math.Pi / 4, Elbow: math.Pi / 2}

// degenerateRadius is the planar distance below which a target counts as
// sitting on the base axis.
const degenerateRadius = 1e-9

// Reach is the maximum planar distance from the shoulder the two links can
// represent without clamping.
func (a Arm) Reach() float64 {
	return a.LowerLen + a.UpperLen
}

// Home is the resting target position: arm stretched straight up.
func (a Arm) Home() r3.Vector {
	return r3.Vector{X: 0, Y: a.LowerLen + a.UpperLen + a.EffectorLen, Z: 0}
}

// planar reduces a target to the arm plane: h is horizontal distance from
// the base axis, v is height above the shoulder (floored at zero so the arm
// never reaches below its base).
func (a Arm) planar(p r3.Vector) (h, v float64) {
	h = math.Hypot(p.X, p.Z)
	v = p.Y - a.BaseHeight
	if v < 0 {
		v = 0
	}
	return h, v
}

// ClampToReach returns p unchanged when it is within reach, otherwise the
// point on the reach boundary along the same direction from the shoulder.
// Heights below the base are floored first. The function is idempotent.
func (a Arm) ClampToReach(p r3.Vector) r3.Vector {
	h, v := a.planar(p)
	d := math.Hypot(h, v)
	reach := a.Reach()

	out := r3.Vector{X: p.X, Y: a.BaseHeight + v, Z: p.Z}
	if d <= reach || d == 0 {
		return out
	}

	scale := reach / d
	out.X *= scale
	out.Z *= scale
	out.Y = a.BaseHeight + v*scale
	return out
}

// Solve maps a Cartesian target to a joint-angle pose. It is deterministic
// and continuous: nearby targets produce nearby angles, including across the
// reach boundary. Targets on the base axis return a fixed folded pose.
func (a Arm) Solve(p r3.Vector) Pose {
	p = a.ClampToReach(p)
	h, v := a.planar(p)
	d := math.Hypot(h, v)

	if d < degenerateRadius {
		return foldedPose
	}

	yaw := math.Atan2(p.X, p.Z)

	// Law of cosines, elbow-down configuration. Cosines are clamped so
	// boundary targets (d == reach) solve smoothly instead of faulting on
	// rounding noise.
	l1, l2 := a.LowerLen, a.UpperLen
	cosAlpha := clampUnit((l1*l1 + d*d - l2*l2) / (2 * l1 * d))
	cosElbow := clampUnit((l1*l1 + l2*l2 - d*d) / (2 * l1 * l2))

	elevation := math.Atan2(v, h)
	shoulder := elevation - math.Acos(cosAlpha)
	elbow := math.Pi - math.Acos(cosElbow)

	return Pose{BaseYaw: yaw, Shoulder: shoulder, Elbow: elbow}
}

// Geometry is the world-space skeleton of a pose. Points are ordered from
// the ground up; the renderer draws one segment between each adjacent pair.
type Geometry struct {
	BaseBottom r3.Vector
	BaseTop    r3.Vector
	Elbow      r3.Vector
	Wrist      r3.Vector
	Tip        r3.Vector
}

// Forward computes the joint positions for a pose. For any reachable target
// t, Forward(Solve(t)).Wrist recovers ClampToReach(t).
func (a Arm) Forward(p Pose) Geometry {
	// Unit vector in the arm plane at a given elevation.
	dirAt := func(elev float64) r3.Vector {
		horiz := math.Cos(elev)
		return r3.Vector{
			X: horiz * math.Sin(p.BaseYaw),
			Y: math.Sin(elev),
			Z: horiz * math.Cos(p.BaseYaw),
		}
	}

	baseTop := r3.Vector{X: 0, Y: a.BaseHeight, Z: 0}
	lower := dirAt(p.Shoulder)
	upper := dirAt(p.Shoulder + p.Elbow)

	elbow := baseTop.Add(lower.Mul(a.LowerLen))
	wrist := elbow.Add(upper.Mul(a.UpperLen))
	tip := wrist.Add(upper.Mul(a.EffectorLen))

	return Geometry{
		BaseBottom: r3.Vector{},
		BaseTop:    baseTop,
		Elbow:      elbow,
		Wrist:      wrist,
		Tip:        tip,
	}
}

// Sub returns the per-joint angular difference p - o, with the base yaw
// difference wrapped to the shortest path.
func (p Pose) Sub(o Pose) Pose {
	return Pose{
		BaseYaw:  WrapAngle(p.BaseYaw - o.BaseYaw),
		Shoulder: p.Shoulder - o.Shoulder,
		Elbow:    p.Elbow - o.Elbow,
	}
}

// MaxAbs returns the largest absolute joint angle in p. Useful as an
// angle-space distance after Sub.
func (p Pose) MaxAbs() float64 {
	m := math.Abs(p.BaseYaw)
	if s := math.Abs(p.Shoulder); s > m {
		m = s
	}
	if e := math.Abs(p.Elbow); e > m {
		m = e
	}
	return m
}

// WrapAngle normalizes an angle to (-pi, pi].
func WrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// clampUnit restricts v to [-1, 1] so rounding noise never escapes Acos.
func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
