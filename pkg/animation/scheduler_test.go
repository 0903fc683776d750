package animation

import (
	"math"
	"testing"
	"time"

	"github.com/armlab/go-armview/pkg/kinematics"
)

var (
	poseA = kinematics.Pose{BaseYaw: 0, Shoulder: 0.2, Elbow: 0.4}
	poseB = kinematics.Pose{BaseYaw: 1.0, Shoulder: -0.5, Elbow: 1.2}
)

func TestPoseAt_IdleReturnsCurrent(t *testing.T) {
	s := NewScheduler(poseA, DefaultDuration, DefaultEpsilon)
	now := time.Now()

	if got := s.PoseAt(now); got != poseA {
		t.Errorf("PoseAt() = %+v, want start pose %+v", got, poseA)
	}
	if s.Animating() {
		t.Error("Animating() = true with no task")
	}
}

func TestRetarget_ConvergesExactly(t *testing.T) {
	start := time.Now()
	s := NewScheduler(poseA, 500*time.Millisecond, DefaultEpsilon)

	s.Retarget(poseB, start)
	if !s.Animating() {
		t.Fatal("Animating() = false after Retarget")
	}

	got := s.PoseAt(start.Add(500 * time.Millisecond))
	if got != poseB {
		t.Errorf("pose at duration = %+v, want exact target %+v", got, poseB)
	}
	if s.Animating() {
		t.Error("Animating() = true after completion")
	}
}

func TestPoseAt_MidpointIsHalfway(t *testing.T) {
	start := time.Now()
	s := NewScheduler(poseA, 500*time.Millisecond, DefaultEpsilon)
	s.Retarget(poseB, start)

	// smoothstep(0.5) = 0.5, so the midpoint is the angular average.
	got := s.PoseAt(start.Add(250 * time.Millisecond))
	if math.Abs(got.Shoulder-(poseA.Shoulder+poseB.Shoulder)/2) > 1e-9 {
		t.Errorf("midpoint shoulder = %v, want %v", got.Shoulder, (poseA.Shoulder+poseB.Shoulder)/2)
	}
}

func TestPoseAt_Monotonic(t *testing.T) {
	start := time.Now()
	s := NewScheduler(kinematics.Pose{}, 500*time.Millisecond, DefaultEpsilon)
	s.Retarget(kinematics.Pose{Elbow: 1.0}, start)

	prev := -1.0
	for ms := 0; ms <= 500; ms += 10 {
		got := s.PoseAt(start.Add(time.Duration(ms) * time.Millisecond))
		if got.Elbow < prev {
			t.Fatalf("elbow regressed at %dms: %v after %v", ms, got.Elbow, prev)
		}
		prev = got.Elbow
	}
}

func TestRetarget_MidFlightStartsFromInterpolatedPose(t *testing.T) {
	start := time.Now()
	s := NewScheduler(poseA, 500*time.Millisecond, DefaultEpsilon)
	s.Retarget(poseB, start)

	mid := start.Add(250 * time.Millisecond)
	before := s.PoseAt(mid)

	// Redirect mid-flight: the very next frame must be near the pose that
	// was on screen, not near either task endpoint.
	s.Retarget(poseA, mid)
	after := s.PoseAt(mid.Add(time.Millisecond))

	if diff := after.Sub(before).MaxAbs(); diff > 0.05 {
		t.Errorf("pose jumped %v on retarget", diff)
	}
}

func TestRetarget_WithinEpsilonIgnored(t *testing.T) {
	now := time.Now()
	s := NewScheduler(poseA, 500*time.Millisecond, 1e-3)

	nudged := poseA
	nudged.Elbow += 1e-4
	s.Retarget(nudged, now)

	if s.Animating() {
		t.Error("Animating() = true for a sub-epsilon target")
	}
}

func TestRetarget_YawTakesShortestPath(t *testing.T) {
	start := time.Now()
	s := NewScheduler(kinematics.Pose{BaseYaw: math.Pi - 0.1}, 500*time.Millisecond, DefaultEpsilon)
	s.Retarget(kinematics.Pose{BaseYaw: -math.Pi + 0.1}, start)

	// Halfway across the seam, not at yaw 0.
	got := s.PoseAt(start.Add(250 * time.Millisecond))
	if math.Abs(got.BaseYaw) < 3 {
		t.Errorf("midpoint yaw = %v, want near +-pi (shortest path across seam)", got.BaseYaw)
	}
}

func TestTarget(t *testing.T) {
	start := time.Now()
	s := NewScheduler(poseA, 500*time.Millisecond, DefaultEpsilon)

	if got := s.Target(); got != poseA {
		t.Errorf("idle Target() = %+v, want %+v", got, poseA)
	}

	s.Retarget(poseB, start)
	if got := s.Target(); got != poseB {
		t.Errorf("Target() = %+v, want %+v", got, poseB)
	}
}

func TestNewScheduler_DefaultsApplied(t *testing.T) {
	s := NewScheduler(poseA, 0, 0)
	if s.duration != DefaultDuration {
		t.Errorf("duration = %v, want default %v", s.duration, DefaultDuration)
	}
	if s.epsilon != DefaultEpsilon {
		t.Errorf("epsilon = %v, want default %v", s.epsilon, DefaultEpsilon)
	}
}
