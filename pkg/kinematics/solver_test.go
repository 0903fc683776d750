package kinematics

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

// testArm matches the default viewer dimensions.
var testArm = Arm{BaseHeight: 2.0, LowerLen: 6.0, UpperLen: 5.5, EffectorLen: 1.8}

const tol = 1e-9

func vecNear(a, b r3.Vector, eps float64) bool {
	return a.Sub(b).Norm() < eps
}

func TestReach(t *testing.T) {
	if got, want := testArm.Reach(), 11.5; got != want {
		t.Errorf("Reach() = %v, want %v", got, want)
	}
}

func TestHome(t *testing.T) {
	home := testArm.Home()
	want := r3.Vector{X: 0, Y: 13.3, Z: 0}
	if !vecNear(home, want, tol) {
		t.Errorf("Home() = %v, want %v", home, want)
	}
}

func TestClampToReach_WithinReachUnchanged(t *testing.T) {
	targets := []r3.Vector{
		{X: 3, Y: 5, Z: 4},
		{X: 0, Y: 8, Z: 2},
		{X: -5, Y: 3, Z: -5},
	}
	for _, p := range targets {
		got := testArm.ClampToReach(p)
		if !vecNear(got, p, tol) {
			t.Errorf("ClampToReach(%v) = %v, want unchanged", p, got)
		}
	}
}

func TestClampToReach_OutOfReachOnBoundary(t *testing.T) {
	p := r3.Vector{X: 20, Y: 15, Z: 10}
	got := testArm.ClampToReach(p)

	h := math.Hypot(got.X, got.Z)
	v := got.Y - testArm.BaseHeight
	d := math.Hypot(h, v)
	if math.Abs(d-testArm.Reach()) > tol {
		t.Errorf("clamped distance = %v, want reach %v", d, testArm.Reach())
	}

	// Direction from the shoulder is preserved.
	if math.Abs(math.Atan2(got.X, got.Z)-math.Atan2(p.X, p.Z)) > tol {
		t.Errorf("clamp changed target direction: %v -> %v", p, got)
	}
}

func TestClampToReach_Idempotent(t *testing.T) {
	targets := []r3.Vector{
		{X: 20, Y: 15, Z: 10},
		{X: 3, Y: 5, Z: 4},
		{X: -30, Y: 1, Z: 2},
		{X: 0, Y: -4, Z: 1},
	}
	for _, p := range targets {
		once := testArm.ClampToReach(p)
		twice := testArm.ClampToReach(once)
		if !vecNear(once, twice, tol) {
			t.Errorf("ClampToReach not idempotent for %v: %v then %v", p, once, twice)
		}
	}
}

func TestClampToReach_FloorsBelowBase(t *testing.T) {
	got := testArm.ClampToReach(r3.Vector{X: 4, Y: -3, Z: 3})
	if got.Y != testArm.BaseHeight {
		t.Errorf("clamped Y = %v, want base height %v", got.Y, testArm.BaseHeight)
	}
}

func TestSolve_StraightAtReachBoundary(t *testing.T) {
	// Horizontal target exactly at full extension: both links line up.
	p := r3.Vector{X: testArm.Reach(), Y: testArm.BaseHeight, Z: 0}
	pose := testArm.Solve(p)

	if math.Abs(pose.Elbow) > 1e-6 {
		t.Errorf("Elbow = %v, want 0 at full extension", pose.Elbow)
	}
	if math.Abs(pose.Shoulder) > 1e-6 {
		t.Errorf("Shoulder = %v, want 0 for horizontal target", pose.Shoulder)
	}
	if math.Abs(pose.BaseYaw-math.Pi/2) > 1e-6 {
		t.Errorf("BaseYaw = %v, want pi/2 for +X target", pose.BaseYaw)
	}
}

func TestForwardRecoversClampedTarget(t *testing.T) {
	targets := []r3.Vector{
		{X: 5, Y: 8, Z: 5},
		{X: -3, Y: 10, Z: 8},
		{X: 2, Y: 4, Z: -7},
		{X: 11.5, Y: 2, Z: 0},
		{X: 20, Y: 15, Z: 10},  // out of reach
		{X: -30, Y: 1, Z: -30}, // far out of reach, below shoulder
		{X: 1, Y: -5, Z: 1},    // below base
	}
	for _, p := range targets {
		g := testArm.Forward(testArm.Solve(p))
		want := testArm.ClampToReach(p)
		if !vecNear(g.Wrist, want, 1e-6) {
			t.Errorf("Forward(Solve(%v)).Wrist = %v, want %v", p, g.Wrist, want)
		}
	}
}

func TestForward_TipExtendsWrist(t *testing.T) {
	pose := testArm.Solve(r3.Vector{X: 5, Y: 8, Z: 5})
	g := testArm.Forward(pose)

	if got, want := g.Tip.Sub(g.Wrist).Norm(), testArm.EffectorLen; math.Abs(got-want) > tol {
		t.Errorf("wrist-to-tip length = %v, want %v", got, want)
	}
	// Tip continues along the upper arm direction.
	upper := g.Wrist.Sub(g.Elbow).Normalize()
	eff := g.Tip.Sub(g.Wrist).Normalize()
	if !vecNear(upper, eff, 1e-9) {
		t.Errorf("effector direction %v differs from upper arm %v", eff, upper)
	}
}

func TestSolve_ContinuousAcrossReachBoundary(t *testing.T) {
	// Two targets straddling the reach boundary along the same ray should
	// solve to nearly identical poses.
	dir := r3.Vector{X: 1, Y: 0.5, Z: 1}.Normalize()
	shoulder := r3.Vector{Y: testArm.BaseHeight}
	inside := shoulder.Add(dir.Mul(testArm.Reach() - 1e-4))
	outside := shoulder.Add(dir.Mul(testArm.Reach() + 1e-4))

	diff := testArm.Solve(inside).Sub(testArm.Solve(outside)).MaxAbs()
	if diff > 1e-2 {
		t.Errorf("pose jump across reach boundary = %v", diff)
	}
}

func TestSolve_DegenerateTargetFolds(t *testing.T) {
	targets := []r3.Vector{
		{X: 0, Y: testArm.BaseHeight, Z: 0},
		{X: 1e-12, Y: testArm.BaseHeight, Z: -1e-12},
		{X: 0, Y: -10, Z: 0}, // floors to the shoulder point
	}
	for _, p := range targets {
		if got := testArm.Solve(p); got != foldedPose {
			t.Errorf("Solve(%v) = %+v, want folded pose %+v", p, got, foldedPose)
		}
	}
}

func TestSolve_Deterministic(t *testing.T) {
	p := r3.Vector{X: 4, Y: 7, Z: -2}
	if a, b := testArm.Solve(p), testArm.Solve(p); a != b {
		t.Errorf("Solve not deterministic: %+v vs %+v", a, b)
	}
}

func TestWrapAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{2 * math.Pi, 0},
		{5 * math.Pi, math.Pi},
	}
	for _, tc := range cases {
		if got := WrapAngle(tc.in); math.Abs(got-tc.want) > tol {
			t.Errorf("WrapAngle(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPoseSub_WrapsYaw(t *testing.T) {
	a := Pose{BaseYaw: math.Pi - 0.1}
	b := Pose{BaseYaw: -math.Pi + 0.1}
	diff := a.Sub(b)
	if math.Abs(diff.BaseYaw-(-0.2)) > tol {
		t.Errorf("yaw difference = %v, want -0.2 (shortest path)", diff.BaseYaw)
	}
}

func TestPoseMaxAbs(t *testing.T) {
	p := Pose{BaseYaw: 0.1, Shoulder: -0.7, Elbow: 0.3}
	if got := p.MaxAbs(); got != 0.7 {
		t.Errorf("MaxAbs() = %v, want 0.7", got)
	}
}
